package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/greenloop/ecoscan/ecoscan/database/models"
)

type fakeProductRepo struct {
	products       []*models.Product
	barcodeLookups int
}

func (f *fakeProductRepo) Create(_ context.Context, _ *models.Product) error { return nil }

func (f *fakeProductRepo) GetByID(_ context.Context, id string) (*models.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeProductRepo) GetByBarcode(_ context.Context, barcode string) (*models.Product, error) {
	f.barcodeLookups++
	for _, p := range f.products {
		if p.Barcode == barcode {
			return p, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeProductRepo) GetAll(_ context.Context) ([]*models.Product, error) {
	return f.products, nil
}

func (f *fakeProductRepo) GetCount(_ context.Context) (int, error) {
	return len(f.products), nil
}

func (f *fakeProductRepo) UpdateImageURL(_ context.Context, _ string, _ string) error { return nil }

func testProducts() []*models.Product {
	return []*models.Product{
		{ID: "p1", Barcode: "7290000000001", Name: "Bamboo Toothbrush", OverallScore: 92},
		{ID: "p2", Barcode: "7290000000002", Name: "Organic Oat Milk", OverallScore: 78},
		{ID: "p3", Barcode: "7290000000003", Name: "Recycled Paper Towels", OverallScore: 65},
	}
}

func TestFindByBarcodeCaches(t *testing.T) {
	repo := &fakeProductRepo{products: testProducts()}
	catalog, err := NewCatalogService(repo)
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		p, err := catalog.FindByBarcode(ctx, "7290000000001")
		require.NoError(t, err)
		require.Equal(t, "p1", p.ID)
	}

	require.Equal(t, 1, repo.barcodeLookups, "repeat lookups must hit the cache")
}

func TestFindByBarcodeMiss(t *testing.T) {
	repo := &fakeProductRepo{products: testProducts()}
	catalog, err := NewCatalogService(repo)
	require.NoError(t, err)

	_, err = catalog.FindByBarcode(context.Background(), "0000000000000")
	require.ErrorIs(t, err, ErrProductNotFound)

	// Misses are not cached; the next lookup goes to the store again.
	_, err = catalog.FindByBarcode(context.Background(), "0000000000000")
	require.ErrorIs(t, err, ErrProductNotFound)
	require.Equal(t, 2, repo.barcodeLookups)
}

func TestFindByBarcodeCaseSensitive(t *testing.T) {
	repo := &fakeProductRepo{products: []*models.Product{
		{ID: "p1", Barcode: "ABC123", Name: "Test"},
	}}
	catalog, err := NewCatalogService(repo)
	require.NoError(t, err)

	_, err = catalog.FindByBarcode(context.Background(), "abc123")
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestSearch(t *testing.T) {
	repo := &fakeProductRepo{products: testProducts()}
	catalog, err := NewCatalogService(repo)
	require.NoError(t, err)

	ctx := context.Background()

	results, err := catalog.Search(ctx, "oat")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	require.Equal(t, "p2", results[0].ID)

	// An empty query returns everything in stored order.
	all, err := catalog.Search(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	none, err := catalog.Search(ctx, "zzzzzz")
	require.NoError(t, err)
	require.Empty(t, none)
}
