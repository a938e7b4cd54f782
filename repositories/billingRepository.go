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
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BillingCacheExpiry = 24 * time.Hour
)

type BillingRepository struct {
	cache *cache.Cache
}

func NewBillingRepository(cache *cache.Cache) *BillingRepository {
	return &BillingRepository{cache: cache}
}

// acquireBillingLock takes the distributed lock guarding one billing record,
// retrying a few times before giving up.
func acquireBillingLock(ctx context.Context, billingID string) (string, string, error) {
	lockKey := fmt.Sprintf("billing_lock:%s", billingID)
	lockValue := uuid.New().String()
	maxRetries := 3
	retryDelay := 2 * time.Second
	var locked bool
	var err error
	for i := 0; i < maxRetries; i++ {
		locked, err = database.NewLock(ctx, lockKey, lockValue, 10*time.Second)
		if err == nil && locked {
			return lockKey, lockValue, nil
		}
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	return "", "", fmt.Errorf("failed to acquire lock after retries: %w", err)
}

func releaseBillingLock(ctx context.Context, lockKey, lockValue string) {
	if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
		log.Printf("Failed to release lock: %v", err)
	}
}

// Create opens a billing with its initial line items.
func (r *BillingRepository) Create(ctx context.Context, billing *models.Billing) error {
	var nextID string
	if err := database.DB.Raw("SELECT 'B-' || LPAD(nextval('billing_id_seq')::TEXT, 6, '0')").Scan(&nextID).Error; err != nil {
		return fmt.Errorf("failed to obtain next sequence value: %w", err)
	}
	billing.BillingID = nextID
	for i := range billing.Services {
		billing.Services[i].BillingID = nextID
		billing.Services[i].ComputeLineTotal()
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(billing).Error; err != nil {
			return fmt.Errorf("failed to create billing: %w", err)
		}
		if err := r.cache.DeleteAll(ctx, "billings_cache"); err != nil {
			return fmt.Errorf("failed to delete all billings cache: %w", err)
		}
		return nil
	})
}

func (r *BillingRepository) GetByID(ctx context.Context, id string) (*models.Billing, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getBillingCacheKey(id)
	cachedBilling, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cachedBilling != "" {
		var billing models.Billing
		if err := json.Unmarshal([]byte(cachedBilling), &billing); err == nil {
			return &billing, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get billing from cache: %v", err)
	}

	var billing models.Billing
	err = database.DB.
		Preload("Services").
		Preload("Payments").
		First(&billing, "billing_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get billing: %w", err)
	}

	billingJSON, err := json.Marshal(billing)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal billing: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, billingJSON, BillingCacheExpiry); err != nil {
		log.Printf("Failed to set billing in cache: %v", err)
	}

	return &billing, nil
}

// GetByVisitAndDepartment returns the most recent billing a visit owns for a
// department. Uncached: it backs transition gates which must see fresh state.
func (r *BillingRepository) GetByVisitAndDepartment(ctx context.Context, visitID, department string) (*models.Billing, error) {
	var billing models.Billing
	err := database.DB.WithContext(ctx).
		Preload("Services").
		Preload("Payments").
		Where("visit_id = ? AND department = ?", visitID, department).
		Order("created_at DESC").
		First(&billing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get billing for visit: %w", err)
	}
	return &billing, nil
}

func (r *BillingRepository) GetAll(ctx context.Context) ([]models.Billing, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var billings []models.Billing
	err := database.DB.WithContext(ctx).
		Preload("Services").
		Preload("Payments").
		Order("created_at DESC").
		Find(&billings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all billings: %w", err)
	}
	return billings, nil
}

// AddService appends a line item. The settlement guard runs in the service
// layer; the lock here keeps it from racing a concurrent settlement.
func (r *BillingRepository) AddService(ctx context.Context, billingID string, service *models.BillingService) error {
	lockKey, lockValue, err := acquireBillingLock(ctx, billingID)
	if err != nil {
		return err
	}
	defer releaseBillingLock(ctx, lockKey, lockValue)

	var settled bool
	if err := database.DB.Model(&models.Billing{}).Select("settled").Where("billing_id = ?", billingID).Scan(&settled).Error; err != nil {
		return fmt.Errorf("failed to check settlement: %w", err)
	}
	if settled {
		return models.ErrBillingAlreadySettled
	}

	service.BillingID = billingID
	service.ComputeLineTotal()
	if err := database.DB.Create(service).Error; err != nil {
		return fmt.Errorf("failed to add billing service: %w", err)
	}
	return r.cache.Delete(ctx, r.getBillingCacheKey(billingID))
}

func (r *BillingRepository) RemoveService(ctx context.Context, billingID string, serviceID uint) error {
	lockKey, lockValue, err := acquireBillingLock(ctx, billingID)
	if err != nil {
		return err
	}
	defer releaseBillingLock(ctx, lockKey, lockValue)

	var settled bool
	if err := database.DB.Model(&models.Billing{}).Select("settled").Where("billing_id = ?", billingID).Scan(&settled).Error; err != nil {
		return fmt.Errorf("failed to check settlement: %w", err)
	}
	if settled {
		return models.ErrBillingAlreadySettled
	}

	if err := database.DB.Delete(&models.BillingService{}, "id = ? AND billing_id = ?", serviceID, billingID).Error; err != nil {
		return fmt.Errorf("failed to remove billing service: %w", err)
	}
	return r.cache.Delete(ctx, r.getBillingCacheKey(billingID))
}

// RecordPayment appends a payment under the billing lock and marks the billing
// settled when the paid total covers the service total. Settlement is
// monotonic; payments are still accepted after it for audit. Returns whether
// this payment settled the billing.
func (r *BillingRepository) RecordPayment(ctx context.Context, billingID string, payment *models.Payment) (bool, error) {
	lockKey, lockValue, err := acquireBillingLock(ctx, billingID)
	if err != nil {
		return false, err
	}
	defer releaseBillingLock(ctx, lockKey, lockValue)

	settledNow := false
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var billing models.Billing
		if err := tx.Preload("Services").Preload("Payments").First(&billing, "billing_id = ?", billingID).Error; err != nil {
			return fmt.Errorf("failed to load billing: %w", err)
		}

		payment.BillingID = billingID
		if err := tx.Create(payment).Error; err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}

		paid := billing.PaidCents() + payment.AmountCents
		if !billing.Settled && paid >= billing.TotalCents() {
			now := time.Now()
			if err := tx.Model(&models.Billing{}).Where("billing_id = ?", billingID).
				Updates(map[string]interface{}{"settled": true, "settled_at": now}).Error; err != nil {
				return fmt.Errorf("failed to mark billing settled: %w", err)
			}
			settledNow = true
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	if err := r.cache.Delete(ctx, r.getBillingCacheKey(billingID)); err != nil {
		return settledNow, fmt.Errorf("failed to delete billing cache: %w", err)
	}
	return settledNow, r.cache.DeleteAll(ctx, "billings_cache")
}

func (r *BillingRepository) getBillingCacheKey(id string) string {
	return fmt.Sprintf("billing_cache:%s", id)
}
