package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// StripeClient tokenizes cards against the Stripe tokens endpoint using the
// publishable key, the same exchange the browser-side Stripe.js performs.
type StripeClient struct {
	baseURL    string
	key        string
	httpClient *http.Client
}

func NewStripeClient(baseURL, publishableKey string) *StripeClient {
	return &StripeClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     publishableKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *StripeClient) CreateToken(ctx context.Context, card Card) (*Token, error) {
	form := url.Values{}
	form.Set("card[number]", card.Number)
	form.Set("card[exp_month]", card.ExpMonth)
	form.Set("card[exp_year]", card.ExpYear)
	form.Set("card[cvc]", card.CVC)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/tokens", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.key, "")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var failure struct {
			Error GatewayError `json:"error"`
		}
		if err := json.Unmarshal(data, &failure); err != nil || failure.Error.Message == "" {
			return nil, &GatewayError{Code: "unknown", Message: fmt.Sprintf("status %d: %s", resp.StatusCode, data)}
		}
		return nil, &failure.Error
	}

	var tok Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	if tok.ID == "" {
		return nil, &GatewayError{Code: "empty_token", Message: "gateway returned no token id"}
	}
	return &tok, nil
}
