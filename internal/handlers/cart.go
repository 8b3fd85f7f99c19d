package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/mykafka"
)

const noOrderDetail = "You currently do not have an order"

// CartHandler exposes the cart workflow. Every mutation answers with the
// refetched order, and the global cart summary is re-dispatched from the
// same refetch, so the badge and the page never disagree.
type CartHandler struct {
	*Auth
	Producer *mykafka.Producer
}

func (h *CartHandler) service(c echo.Context) (*cart.Service, error) {
	client, err := h.authedClient(c)
	if err != nil {
		return nil, err
	}
	return cart.New(client, h.Producer), nil
}

func (h *CartHandler) GetCart(c echo.Context) error {
	svc, err := h.service(c)
	if err != nil {
		return err
	}

	order, err := svc.FetchOrder(c.Request().Context())
	if errors.Is(err, cart.ErrNoOpenCart) {
		h.dispatchSummary(nil)
		return c.JSON(http.StatusOK, echo.Map{"order": nil, "detail": noOrderDetail})
	}
	if err != nil {
		return upstreamError(c, err)
	}

	h.dispatchSummary(order)
	return c.JSON(http.StatusOK, echo.Map{"order": order})
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_add")

	svc, err := h.service(c)
	if err != nil {
		return err
	}

	var req struct {
		Slug       string `json:"slug"`
		Variations []int  `json:"variations"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Slug == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "slug is required")
	}

	order, err := svc.AddToCart(ctx, req.Slug, req.Variations)
	if err != nil {
		l.Warn("add_to_cart_failed", "slug", req.Slug, "error", err)
		return upstreamError(c, err)
	}

	h.dispatchSummary(order)
	l.Info("add_to_cart_success", "slug", req.Slug)
	return c.JSON(http.StatusOK, echo.Map{"order": order})
}

func (h *CartHandler) ChangeQuantity(c echo.Context) error {
	ctx := c.Request().Context()

	svc, err := h.service(c)
	if err != nil {
		return err
	}

	var req struct {
		Slug  string `json:"slug"`
		Delta int    `json:"delta"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Slug == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "slug is required")
	}

	var order *models.Order
	switch req.Delta {
	case 1:
		order, err = svc.IncrementQuantity(ctx, req.Slug)
	case -1:
		order, err = svc.DecrementQuantity(ctx, req.Slug)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "delta must be 1 or -1")
	}
	if err != nil {
		return upstreamError(c, err)
	}

	h.dispatchSummary(order)
	return c.JSON(http.StatusOK, echo.Map{"order": order})
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	svc, err := h.service(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	order, err := svc.RemoveItem(c.Request().Context(), id)
	if err != nil && !errors.Is(err, cart.ErrNoOpenCart) {
		return upstreamError(c, err)
	}

	h.dispatchSummary(order)
	if order == nil {
		return c.JSON(http.StatusOK, echo.Map{"order": nil, "detail": noOrderDetail})
	}
	return c.JSON(http.StatusOK, echo.Map{"order": order})
}

// ApplyCoupon surfaces upstream rejections verbatim; the client keeps its
// previous order state on failure.
func (h *CartHandler) ApplyCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_coupon")

	svc, err := h.service(c)
	if err != nil {
		return err
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "code is required")
	}

	order, err := svc.ApplyCoupon(ctx, req.Code)
	if err != nil {
		l.Warn("coupon_rejected", "code", req.Code, "error", err)
		return upstreamError(c, err)
	}

	h.dispatchSummary(order)
	l.Info("coupon_applied", "code", req.Code)
	return c.JSON(http.StatusOK, echo.Map{"order": order})
}

// Badge serves the cached cart summary projection from the global store.
func (h *CartHandler) Badge(c echo.Context) error {
	phase, summary, err := h.Store.Cart().Snapshot()
	resp := echo.Map{"phase": phase.String(), "summary": summary}
	if err != nil {
		resp["error"] = err.Error()
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) dispatchSummary(order *models.Order) {
	h.Store.RefreshCart(func() (models.CartSummary, error) {
		return models.Summarize(order), nil
	})
}
