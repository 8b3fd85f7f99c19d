package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/mykafka"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
)

// ErrNoOpenCart is the expected-empty state: the user has no uncommitted
// order yet. It is not a failure and must never be rendered as one.
var ErrNoOpenCart = errors.New("no open cart")

// Service drives the user's current order through the authenticated API
// client. Every mutation is fire-and-refetch: the refreshed order is pulled
// from the upstream after the mutation succeeds, so totals, coupon state and
// quantity floors are always the server's word, never a local computation.
type Service struct {
	API      *apiclient.Client
	Producer *mykafka.Producer
}

func New(api *apiclient.Client, producer *mykafka.Producer) *Service {
	return &Service{API: api, Producer: producer}
}

func (s *Service) FetchOrder(ctx context.Context) (*models.Order, error) {
	var order models.Order
	if err := s.API.Get(ctx, "/order-summary/", &order); err != nil {
		if apiclient.IsNotFound(err) {
			return nil, ErrNoOpenCart
		}
		return nil, fmt.Errorf("fetch order: %w", err)
	}
	return &order, nil
}

// AddToCart inserts or increments the line item for the product+variation
// combination, then returns the refreshed order.
func (s *Service) AddToCart(ctx context.Context, slug string, variationIDs []int) (*models.Order, error) {
	body := map[string]any{
		"slug":       slug,
		"variations": variationIDs,
	}
	if variationIDs == nil {
		body["variations"] = []int{}
	}
	if err := s.API.Post(ctx, "/add-to-cart/", body, nil); err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	s.publish(ctx, map[string]any{
		"type":       "item_added",
		"slug":       slug,
		"variations": variationIDs,
	})

	return s.FetchOrder(ctx)
}

// IncrementQuantity bumps an existing line item by one. The upstream treats
// a repeated add of the same slug as an increment.
func (s *Service) IncrementQuantity(ctx context.Context, slug string) (*models.Order, error) {
	return s.AddToCart(ctx, slug, nil)
}

// DecrementQuantity lowers a line item by one. Whether the upstream removes
// the line at quantity 1 or clamps it is its own policy; the refetched order
// is authoritative either way.
func (s *Service) DecrementQuantity(ctx context.Context, slug string) (*models.Order, error) {
	if err := s.API.Post(ctx, "/order-item/update-quantity/", map[string]any{"slug": slug}, nil); err != nil {
		return nil, fmt.Errorf("decrement quantity: %w", err)
	}

	s.publish(ctx, map[string]any{
		"type": "quantity_decremented",
		"slug": slug,
	})

	return s.FetchOrder(ctx)
}

func (s *Service) RemoveItem(ctx context.Context, orderItemID int) (*models.Order, error) {
	if err := s.API.Delete(ctx, fmt.Sprintf("/order-item/%d/delete/", orderItemID)); err != nil {
		return nil, fmt.Errorf("remove item: %w", err)
	}

	s.publish(ctx, map[string]any{
		"type":        "item_removed",
		"orderItemID": orderItemID,
	})

	return s.FetchOrder(ctx)
}

// ApplyCoupon submits the code and refetches so the recomputed total and the
// attached coupon are picked up. On failure the caller keeps its previous
// state.
func (s *Service) ApplyCoupon(ctx context.Context, code string) (*models.Order, error) {
	if err := s.API.Post(ctx, "/add-coupon/", map[string]any{"code": code}, nil); err != nil {
		return nil, fmt.Errorf("apply coupon: %w", err)
	}

	s.publish(ctx, map[string]any{
		"type": "coupon_applied",
		"code": code,
	})

	return s.FetchOrder(ctx)
}

func (s *Service) publish(ctx context.Context, event map[string]any) {
	if s.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(ctx, "cart_events", fmt.Sprint(event["type"]), event); err != nil {
		logging.FromContext(ctx).Warn("kafka_publish_failed", "error", err)
	}
}
