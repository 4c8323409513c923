package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sahilm/fuzzy"

	"github.com/greenloop/ecoscan/ecoscan/database/models"
	"github.com/greenloop/ecoscan/ecoscan/database/repositories"
)

// ErrProductNotFound is the catalog's miss signal. Manual-entry scans
// surface it to the user; camera scans fall back to a synthetic
// product instead.
var ErrProductNotFound = errors.New("product not found")

const barcodeCacheSize = 512

// CatalogService is the read-only product catalog: exact barcode
// lookup (cached), the score-ordered full list, and fuzzy name search
// for the manual selection flow.
type CatalogService struct {
	products repositories.ProductRepository
	cache    *lru.Cache
}

func NewCatalogService(products repositories.ProductRepository) (*CatalogService, error) {
	cache, err := lru.New(barcodeCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create barcode cache: %w", err)
	}
	return &CatalogService{products: products, cache: cache}, nil
}

// FindByBarcode does an exact, case-sensitive lookup. Products are
// immutable once created, so cached entries never go stale.
func (s *CatalogService) FindByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	if cached, ok := s.cache.Get(barcode); ok {
		return cached.(*models.Product), nil
	}

	product, err := s.products.GetByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: barcode %q", ErrProductNotFound, barcode)
		}
		slog.Error("Barcode lookup failed",
			slog.String("type", "db"),
			slog.String("barcode", barcode),
			slog.Any("error", err))
		return nil, err
	}

	s.cache.Add(barcode, product)
	return product, nil
}

// ListAll returns the catalog ordered by overall score descending.
func (s *CatalogService) ListAll(ctx context.Context) ([]*models.Product, error) {
	return s.products.GetAll(ctx)
}

// productSource implements fuzzy.Source over product names.
type productSource []*models.Product

func (ps productSource) String(i int) string { return ps[i].Name }
func (ps productSource) Len() int            { return len(ps) }

// Search fuzzy-matches product names, best matches first. An empty
// query returns the full score-ordered list.
func (s *CatalogService) Search(ctx context.Context, query string) ([]*models.Product, error) {
	products, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return products, nil
	}

	matches := fuzzy.FindFrom(query, productSource(products))
	results := make([]*models.Product, 0, len(matches))
	for _, m := range matches {
		results = append(results, products[m.Index])
	}
	return results, nil
}
