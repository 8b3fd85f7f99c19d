package addresses

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
)

// Service manages the user's billing and shipping address books. The two
// kinds are always fetched and mutated per type, and every mutation re-pulls
// the affected type's list: the upstream may silently move the default flag,
// so local patching would drift.
type Service struct {
	API *apiclient.Client
}

func New(api *apiclient.Client) *Service {
	return &Service{API: api}
}

func (s *Service) List(ctx context.Context, addrType models.AddressType) ([]models.Address, error) {
	if !addrType.Valid() {
		return nil, fmt.Errorf("invalid address type %q", addrType)
	}
	var out []models.Address
	if err := s.API.Get(ctx, "/addresses/?address-type="+string(addrType), &out); err != nil {
		return nil, fmt.Errorf("list %s addresses: %w", addrType, err)
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, addr models.Address) ([]models.Address, error) {
	if !addr.AddressType.Valid() {
		return nil, fmt.Errorf("invalid address type %q", addr.AddressType)
	}
	if err := s.API.Post(ctx, "/addresses/create/", addr, nil); err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}
	return s.List(ctx, addr.AddressType)
}

func (s *Service) Update(ctx context.Context, id int, addr models.Address) ([]models.Address, error) {
	if !addr.AddressType.Valid() {
		return nil, fmt.Errorf("invalid address type %q", addr.AddressType)
	}
	if err := s.API.Put(ctx, fmt.Sprintf("/addresses/%d/update/", id), addr, nil); err != nil {
		return nil, fmt.Errorf("update address %d: %w", id, err)
	}
	return s.List(ctx, addr.AddressType)
}

func (s *Service) Delete(ctx context.Context, id int, addrType models.AddressType) ([]models.Address, error) {
	if !addrType.Valid() {
		return nil, fmt.Errorf("invalid address type %q", addrType)
	}
	if err := s.API.Delete(ctx, fmt.Sprintf("/addresses/%d/delete/", id)); err != nil {
		return nil, fmt.Errorf("delete address %d: %w", id, err)
	}
	return s.List(ctx, addrType)
}

// Countries returns the code -> display name mapping for the country select.
func (s *Service) Countries(ctx context.Context) (models.Countries, error) {
	var out models.Countries
	if err := s.API.Get(ctx, "/countries/", &out); err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	return out, nil
}
