package catalog

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
)

// Service reads the catalog through the anonymous API client. Prices and
// labels come back exactly as the upstream serialized them. When an
// Elasticsearch client is configured, each successful listing refreshes the
// local search mirror.
type Service struct {
	API   *apiclient.Client
	ES    *elasticsearch.Client
	Index string
}

func New(api *apiclient.Client, es *elasticsearch.Client, index string) *Service {
	return &Service{API: api, ES: es, Index: index}
}

func (s *Service) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.API.Get(ctx, "/products/", &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	if s.ES != nil {
		if err := s.mirror(ctx, products); err != nil {
			logging.FromContext(ctx).Warn("catalog_mirror_failed", "error", err)
		}
	}

	return products, nil
}

func (s *Service) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	var product models.Product
	if err := s.API.Get(ctx, fmt.Sprintf("/products/%d", id), &product); err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &product, nil
}
