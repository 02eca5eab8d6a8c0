package catalog

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"leadtime-prediction-api/models"
)

// DBSource reads the reference tables from Postgres. Rows are ordered by id
// so list endpoints are stable across restarts.
type DBSource struct {
	db *gorm.DB
}

func NewDBSource(db *gorm.DB) *DBSource {
	return &DBSource{db: db}
}

func (s *DBSource) Load(ctx context.Context) (*Catalogs, error) {
	db := s.db.WithContext(ctx)

	var suppliers []models.Supplier
	if err := db.Order("supplier_id").Find(&suppliers).Error; err != nil {
		return nil, fmt.Errorf("query suppliers: %w", err)
	}
	var sites []models.Site
	if err := db.Order("site_id").Find(&sites).Error; err != nil {
		return nil, fmt.Errorf("query sites: %w", err)
	}
	var skus []models.SKU
	if err := db.Order("sku_id").Find(&skus).Error; err != nil {
		return nil, fmt.Errorf("query skus: %w", err)
	}
	return New(suppliers, sites, skus)
}
