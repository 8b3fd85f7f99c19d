package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Skotchmaster/storefront/internal/addresses"
	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/payment"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
)

var (
	// ErrNothingToPay means the user has no open cart: the caller should
	// navigate away from checkout, not render an error.
	ErrNothingToPay = errors.New("nothing to pay for")

	// ErrNotReady is returned when submission preconditions are unmet. The
	// submission is a complete no-op: no state changes, nothing is sent.
	ErrNotReady = errors.New("checkout is not ready to submit")

	// ErrAddressRequired disables payment entirely until the user has created
	// an address of the missing type.
	ErrAddressRequired = errors.New("billing and shipping addresses are required")
)

// Orchestrator runs one checkout: load the order and both address books,
// collect a payment token from the gateway, then submit the charge. The
// commerce API is never contacted without a token in hand.
type Orchestrator struct {
	mu sync.Mutex

	cart      *cart.Service
	addresses *addresses.Service
	tokenizer payment.Tokenizer
	api       *apiclient.Client

	state    State
	order    *models.Order
	billing  []models.Address
	shipping []models.Address

	selectedBilling  int
	selectedShipping int

	failure string
}

func New(api *apiclient.Client, cartSvc *cart.Service, addrSvc *addresses.Service, tokenizer payment.Tokenizer) *Orchestrator {
	return &Orchestrator{
		api:       api,
		cart:      cartSvc,
		addresses: addrSvc,
		tokenizer: tokenizer,
		state:     Idle,
	}
}

// Snapshot is the immutable view handed to renderers and tests.
type Snapshot struct {
	State            State            `json:"state"`
	Order            *models.Order    `json:"order"`
	Billing          []models.Address `json:"billing_addresses"`
	Shipping         []models.Address `json:"shipping_addresses"`
	SelectedBilling  int              `json:"selected_billing"`
	SelectedShipping int              `json:"selected_shipping"`
	Failure          string           `json:"failure,omitempty"`
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Snapshot{
		State:            o.state,
		Order:            o.order,
		Billing:          o.billing,
		Shipping:         o.shipping,
		SelectedBilling:  o.selectedBilling,
		SelectedShipping: o.selectedShipping,
		Failure:          o.failure,
	}
}

// Begin fetches the current order and both address lists concurrently and
// preselects the default-flagged address per type.
func (o *Orchestrator) Begin(ctx context.Context) error {
	o.mu.Lock()
	o.state = LoadingOrder
	o.mu.Unlock()

	var (
		wg       sync.WaitGroup
		order    *models.Order
		billing  []models.Address
		shipping []models.Address

		errOrder, errBilling, errShipping error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		order, errOrder = o.cart.FetchOrder(ctx)
	}()
	go func() {
		defer wg.Done()
		billing, errBilling = o.addresses.List(ctx, models.AddressTypeBilling)
	}()
	go func() {
		defer wg.Done()
		shipping, errShipping = o.addresses.List(ctx, models.AddressTypeShipping)
	}()
	wg.Wait()

	o.mu.Lock()
	defer o.mu.Unlock()

	if errors.Is(errOrder, cart.ErrNoOpenCart) {
		o.state = Idle
		return ErrNothingToPay
	}
	if err := firstError(errOrder, errBilling, errShipping); err != nil {
		o.state = Failed
		o.failure = err.Error()
		return err
	}

	o.order = order
	o.billing = billing
	o.shipping = shipping
	o.selectedBilling = defaultAddressID(billing)
	o.selectedShipping = defaultAddressID(shipping)
	o.state = AwaitingPaymentToken
	return nil
}

// SelectBilling pins an explicit billing choice. Only an address list refresh
// may change the selection baseline afterwards.
func (o *Orchestrator) SelectBilling(id int) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !containsAddress(o.billing, id) {
		return fmt.Errorf("unknown billing address %d", id)
	}
	o.selectedBilling = id
	return nil
}

func (o *Orchestrator) SelectShipping(id int) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !containsAddress(o.shipping, id) {
		return fmt.Errorf("unknown shipping address %d", id)
	}
	o.selectedShipping = id
	return nil
}

// ApplyCoupon refreshes the order preview on success. Address selections are
// untouched, this is not a list refresh.
func (o *Orchestrator) ApplyCoupon(ctx context.Context, code string) error {
	refreshed, err := o.cart.ApplyCoupon(ctx, code)
	if err != nil {
		return err
	}
	o.mu.Lock()
	o.order = refreshed
	o.mu.Unlock()
	return nil
}

type chargeRequest struct {
	StripeToken             string `json:"stripeToken"`
	SelectedBillingAddress  int    `json:"selectedBillingAddress"`
	SelectedShippingAddress int    `json:"selectedShippingAddress"`
}

// Submit tokenizes the card and posts the charge. Unmet preconditions leave
// the machine exactly where it was.
func (o *Orchestrator) Submit(ctx context.Context, card payment.Card) error {
	o.mu.Lock()
	if o.tokenizer == nil || card.Empty() {
		o.mu.Unlock()
		return ErrNotReady
	}
	if o.state != AwaitingPaymentToken && o.state != Failed {
		o.mu.Unlock()
		return ErrNotReady
	}
	if len(o.billing) == 0 || len(o.shipping) == 0 {
		o.mu.Unlock()
		return ErrAddressRequired
	}
	if o.selectedBilling == 0 || o.selectedShipping == 0 {
		o.mu.Unlock()
		return ErrAddressRequired
	}
	o.state = Submitting
	billingID := o.selectedBilling
	shippingID := o.selectedShipping
	o.mu.Unlock()

	tok, err := o.tokenizer.CreateToken(ctx, card)
	if err != nil {
		o.fail(err)
		return err
	}

	req := chargeRequest{
		StripeToken:             tok.ID,
		SelectedBillingAddress:  billingID,
		SelectedShippingAddress: shippingID,
	}
	if err := o.api.Post(ctx, "/checkout/", req, nil); err != nil {
		o.fail(err)
		return err
	}

	o.mu.Lock()
	o.state = Succeeded
	o.failure = ""
	o.mu.Unlock()
	return nil
}

func (o *Orchestrator) fail(err error) {
	o.mu.Lock()
	o.state = Failed
	o.failure = err.Error()
	o.mu.Unlock()
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func defaultAddressID(list []models.Address) int {
	for _, a := range list {
		if a.Default {
			return a.ID
		}
	}
	return 0
}

func containsAddress(list []models.Address, id int) bool {
	for _, a := range list {
		if a.ID == id {
			return true
		}
	}
	return false
}
