package payment

import (
	"context"
	"fmt"
)

// Card is the raw input collected by the checkout form. It is exchanged for
// a single-use token and never sent to the commerce API.
type Card struct {
	Number   string `json:"number"`
	ExpMonth string `json:"exp_month"`
	ExpYear  string `json:"exp_year"`
	CVC      string `json:"cvc"`
}

func (c Card) Empty() bool {
	return c.Number == "" && c.ExpMonth == "" && c.ExpYear == "" && c.CVC == ""
}

type Token struct {
	ID string `json:"id"`
}

// GatewayError is a structured refusal from the payment gateway (declined
// card, bad expiry and the like).
type GatewayError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway: %s (%s)", e.Message, e.Code)
}

// Tokenizer exchanges card details for a single-use token id.
type Tokenizer interface {
	CreateToken(ctx context.Context, card Card) (*Token, error)
}
