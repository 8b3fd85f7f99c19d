package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/addresses"
	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/checkout"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/mykafka"
	"github.com/Skotchmaster/storefront/internal/payment"
)

const successDetail = "Your payment was successful. Go to your profile to see your order delivery status."

// CheckoutHandler runs the checkout orchestrator for the session. An absent
// cart is a navigation signal back to the shop, never an error banner.
type CheckoutHandler struct {
	*Auth
	Tokenizer payment.Tokenizer
	Producer  *mykafka.Producer
}

func (h *CheckoutHandler) orchestrator(c echo.Context) (*checkout.Orchestrator, error) {
	client, err := h.authedClient(c)
	if err != nil {
		return nil, err
	}
	cartSvc := cart.New(client, h.Producer)
	addrSvc := addresses.New(client)
	return checkout.New(client, cartSvc, addrSvc, h.Tokenizer), nil
}

// Begin loads the order preview and both address books. When either address
// book is empty the payment form is withheld and the client is pointed at
// the profile screen.
func (h *CheckoutHandler) Begin(c echo.Context) error {
	o, err := h.orchestrator(c)
	if err != nil {
		return err
	}

	if err := o.Begin(c.Request().Context()); err != nil {
		if errors.Is(err, checkout.ErrNothingToPay) {
			return c.JSON(http.StatusOK, echo.Map{"redirect": "/", "detail": noOrderDetail})
		}
		return upstreamError(c, err)
	}

	snap := o.Snapshot()
	resp := echo.Map{"checkout": snap}
	if len(snap.Billing) == 0 || len(snap.Shipping) == 0 {
		resp["payment_enabled"] = false
		resp["detail"] = "Add a billing and a shipping address in your profile before paying"
		resp["profile"] = "/profile"
	} else {
		resp["payment_enabled"] = true
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CheckoutHandler) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout_submit")

	o, err := h.orchestrator(c)
	if err != nil {
		return err
	}

	var req struct {
		Card             payment.Card `json:"card"`
		SelectedBilling  int          `json:"selected_billing"`
		SelectedShipping int          `json:"selected_shipping"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := o.Begin(ctx); err != nil {
		if errors.Is(err, checkout.ErrNothingToPay) {
			return c.JSON(http.StatusOK, echo.Map{"redirect": "/", "detail": noOrderDetail})
		}
		return upstreamError(c, err)
	}

	if req.SelectedBilling != 0 {
		if err := o.SelectBilling(req.SelectedBilling); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	if req.SelectedShipping != 0 {
		if err := o.SelectShipping(req.SelectedShipping); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	err = o.Submit(ctx, req.Card)
	snap := o.Snapshot()
	switch {
	case err == nil:
		h.Store.RefreshCart(func() (models.CartSummary, error) {
			return models.CartSummary{}, nil
		})
		h.publish(ctx, map[string]any{"type": "checkout_succeeded"})
		l.Info("checkout_success")
		return c.JSON(http.StatusOK, echo.Map{"state": snap.State.String(), "detail": successDetail})
	case errors.Is(err, checkout.ErrAddressRequired):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"state":   snap.State.String(),
			"detail":  err.Error(),
			"profile": "/profile",
		})
	case errors.Is(err, checkout.ErrNotReady):
		return c.JSON(http.StatusBadRequest, echo.Map{"state": snap.State.String(), "detail": err.Error()})
	default:
		var ge *payment.GatewayError
		if errors.As(err, &ge) {
			l.Warn("checkout_gateway_refused", "code", ge.Code)
			return c.JSON(http.StatusPaymentRequired, echo.Map{"state": snap.State.String(), "detail": ge.Message})
		}
		l.Warn("checkout_failed", "error", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"state": snap.State.String(), "detail": snap.Failure})
	}
}

func (h *CheckoutHandler) publish(ctx context.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "checkout_events", "session", event); err != nil {
		logging.FromContext(ctx).Warn("kafka_publish_failed", "error", err)
	}
}
