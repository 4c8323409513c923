package repositories

import (
	"context"
	"time"

	"github.com/greenloop/ecoscan/ecoscan/database/models"
	"github.com/uptrace/bun"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*models.Product, error)
	GetAll(ctx context.Context) ([]*models.Product, error)
	GetCount(ctx context.Context) (int, error)
	UpdateImageURL(ctx context.Context, id string, url string) error
}

type productRepository struct {
	db *bun.DB
}

func NewProductRepository(db *bun.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	product.CreatedAt = time.Now()
	_, err := r.db.NewInsert().Model(product).Exec(ctx)
	return err
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	product := new(models.Product)
	err := r.db.NewSelect().
		Model(product).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// GetByBarcode is an exact, case-sensitive lookup.
func (r *productRepository) GetByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	product := new(models.Product)
	err := r.db.NewSelect().
		Model(product).
		Where("barcode = ?", barcode).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepository) GetAll(ctx context.Context) ([]*models.Product, error) {
	var products []*models.Product
	err := r.db.NewSelect().
		Model(&products).
		Order("overall_score DESC").
		Scan(ctx)
	return products, err
}

func (r *productRepository) GetCount(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*models.Product)(nil)).Count(ctx)
}

func (r *productRepository) UpdateImageURL(ctx context.Context, id string, url string) error {
	_, err := r.db.NewUpdate().
		Model((*models.Product)(nil)).
		Set("image_url = ?", url).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
