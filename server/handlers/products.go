package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/greenloop/ecoscan/ecoscan/services"
	"github.com/greenloop/ecoscan/server/models"
	"github.com/greenloop/ecoscan/server/utils"
)

// ListProducts returns the catalog ordered by overall score.
func (a *App) ListProducts(c *fiber.Ctx) error {
	products, err := a.Catalog.ListAll(c.UserContext())
	if err != nil {
		return utils.SendInternalServerError(c, "CATALOG_FAILED", "Could not load products")
	}
	return utils.SendSuccess(c, models.NewProductViews(products), "")
}

// SearchProducts fuzzy-matches product names.
func (a *App) SearchProducts(c *fiber.Ctx) error {
	products, err := a.Catalog.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return utils.SendInternalServerError(c, "CATALOG_FAILED", "Could not search products")
	}
	return utils.SendSuccess(c, models.NewProductViews(products), "")
}

// GetProductByBarcode is the exact-match lookup behind manual entry.
func (a *App) GetProductByBarcode(c *fiber.Ctx) error {
	product, err := a.Catalog.FindByBarcode(c.UserContext(), c.Params("barcode"))
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return utils.SendNotFound(c, "PRODUCT_NOT_FOUND", "This product is not in our database yet")
		}
		return utils.SendInternalServerError(c, "CATALOG_FAILED", "Could not look up product")
	}
	return utils.SendSuccess(c, models.NewProductView(product), "")
}

// UploadProductImage stores a product image and records its URL.
func (a *App) UploadProductImage(c *fiber.Ctx) error {
	if a.Spaces == nil {
		return utils.SendError(c, fiber.StatusNotImplemented, "IMAGES_DISABLED", "Image storage is not configured", nil)
	}

	productID := c.Params("id")
	if _, err := a.Products.GetByID(c.UserContext(), productID); err != nil {
		return utils.SendNotFound(c, "PRODUCT_NOT_FOUND", "Product not found")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return utils.SendBadRequest(c, "An image file is required", nil)
	}
	src, err := file.Open()
	if err != nil {
		return utils.SendBadRequest(c, "Could not read uploaded file", nil)
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	url, err := a.Spaces.UploadProductImage(c.UserContext(), productID, src, contentType)
	if err != nil {
		return utils.SendInternalServerError(c, "IMAGE_UPLOAD_FAILED", "Could not store the image")
	}
	if err := a.Products.UpdateImageURL(c.UserContext(), productID, url); err != nil {
		return utils.SendInternalServerError(c, "IMAGE_UPLOAD_FAILED", "Could not record the image URL")
	}

	return utils.SendSuccess(c, fiber.Map{"image_url": url}, "Image uploaded")
}
