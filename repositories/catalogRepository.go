package repositories

import (
	"HillsideClinic/cache"
	"HillsideClinic/database"
	"HillsideClinic/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	CatalogCacheExpiry = 7 * 24 * time.Hour
)

// CatalogRepository reads the seeded service price list.
type CatalogRepository struct {
	cache *cache.Cache
}

func NewCatalogRepository(cache *cache.Cache) *CatalogRepository {
	return &CatalogRepository{cache: cache}
}

func (r *CatalogRepository) GetByCode(ctx context.Context, code string) (*models.ServiceCatalogItem, error) {
	cacheKey := fmt.Sprintf("catalog_cache:%s", code)
	cachedItem, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cachedItem != "" {
		var item models.ServiceCatalogItem
		if err := json.Unmarshal([]byte(cachedItem), &item); err == nil {
			return &item, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get catalog item from cache: %v", err)
	}

	var item models.ServiceCatalogItem
	err = database.DB.WithContext(ctx).First(&item, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get catalog item: %w", err)
	}

	itemJSON, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog item: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, itemJSON, CatalogCacheExpiry); err != nil {
		log.Printf("Failed to set catalog item in cache: %v", err)
	}

	return &item, nil
}

func (r *CatalogRepository) ListByDepartment(ctx context.Context, department string) ([]models.ServiceCatalogItem, error) {
	var items []models.ServiceCatalogItem
	err := database.DB.WithContext(ctx).Where("department = ?", department).Order("code ASC").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog items: %w", err)
	}
	return items, nil
}
