package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/Xlizer1/janah-server-sub000/internal/models"
)

// Catalog is the narrow product-lookup boundary the order core consumes.
// Product CRUD lives elsewhere.
type Catalog interface {
	GetByID(ctx context.Context, id uint) (*models.Product, error)
}

type GormCatalog struct {
	DB *gorm.DB
}

func (c *GormCatalog) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	product := models.Product{}
	if err := c.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}
