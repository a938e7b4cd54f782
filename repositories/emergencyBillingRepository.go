package repositories

import (
	"HillsideClinic/database"
	"HillsideClinic/models"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// EmergencyBillingRepository persists running-total emergency ledgers.
// Uncached: billing officers act on the live running total.
type EmergencyBillingRepository struct{}

func NewEmergencyBillingRepository() *EmergencyBillingRepository {
	return &EmergencyBillingRepository{}
}

func (r *EmergencyBillingRepository) Create(ctx context.Context, billing *models.EmergencyBilling) error {
	var nextID string
	if err := database.DB.Raw("SELECT 'EB-' || LPAD(nextval('emergency_billing_id_seq')::TEXT, 6, '0')").Scan(&nextID).Error; err != nil {
		return fmt.Errorf("failed to obtain next sequence value: %w", err)
	}
	billing.ID = nextID
	billing.Status = models.EmergencyRunning
	if err := database.DB.WithContext(ctx).Create(billing).Error; err != nil {
		return fmt.Errorf("failed to create emergency billing: %w", err)
	}
	return nil
}

func (r *EmergencyBillingRepository) GetByID(ctx context.Context, id string) (*models.EmergencyBilling, error) {
	var billing models.EmergencyBilling
	err := database.DB.WithContext(ctx).Preload("Services").First(&billing, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get emergency billing: %w", err)
	}
	return &billing, nil
}

func (r *EmergencyBillingRepository) GetByVisit(ctx context.Context, visitID string) (*models.EmergencyBilling, error) {
	var billing models.EmergencyBilling
	err := database.DB.WithContext(ctx).Preload("Services").Where("visit_id = ?", visitID).First(&billing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get emergency billing for visit: %w", err)
	}
	return &billing, nil
}

// AddService accrues a line item onto a running ledger. Emergency care is the
// one place services are deliberately allowed before payment.
func (r *EmergencyBillingRepository) AddService(ctx context.Context, billingID string, service *models.EmergencyService) error {
	var status string
	if err := database.DB.Model(&models.EmergencyBilling{}).Select("status").Where("id = ?", billingID).Scan(&status).Error; err != nil {
		return fmt.Errorf("failed to check emergency billing status: %w", err)
	}
	if status == models.EmergencyPaid {
		return models.ErrAlreadyAcknowledged
	}

	service.BillingID = billingID
	service.LineTotalCents = service.UnitPriceCents * int64(service.Quantity)
	if err := database.DB.WithContext(ctx).Create(service).Error; err != nil {
		return fmt.Errorf("failed to add emergency service: %w", err)
	}
	return nil
}

func (r *EmergencyBillingRepository) RemoveService(ctx context.Context, billingID string, serviceID uint) error {
	var status string
	if err := database.DB.Model(&models.EmergencyBilling{}).Select("status").Where("id = ?", billingID).Scan(&status).Error; err != nil {
		return fmt.Errorf("failed to check emergency billing status: %w", err)
	}
	if status == models.EmergencyPaid {
		return models.ErrAlreadyAcknowledged
	}

	if err := database.DB.WithContext(ctx).Delete(&models.EmergencyService{}, "id = ? AND billing_id = ?", serviceID, billingID).Error; err != nil {
		return fmt.Errorf("failed to remove emergency service: %w", err)
	}
	return nil
}

// Acknowledge freezes the running total inside one transaction. The guarded
// UPDATE on status makes a duplicate acknowledgment fail instead of
// double-counting, whichever replica of the dashboard sent it.
func (r *EmergencyBillingRepository) Acknowledge(ctx context.Context, billingID, by, notes string) (*models.EmergencyBilling, error) {
	var acknowledged *models.EmergencyBilling
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var billing models.EmergencyBilling
		if err := tx.Preload("Services").First(&billing, "id = ?", billingID).Error; err != nil {
			return fmt.Errorf("failed to load emergency billing: %w", err)
		}

		if err := billing.Acknowledge(by, notes, time.Now()); err != nil {
			return err
		}

		result := tx.Model(&models.EmergencyBilling{}).
			Where("id = ? AND status = ?", billingID, models.EmergencyRunning).
			Updates(map[string]interface{}{
				"status":          billing.Status,
				"total_cents":     billing.TotalCents,
				"acknowledged_by": billing.AcknowledgedBy,
				"notes":           billing.Notes,
				"acknowledged_at": billing.AcknowledgedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to acknowledge emergency billing: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return models.ErrAlreadyAcknowledged
		}
		acknowledged = &billing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return acknowledged, nil
}
