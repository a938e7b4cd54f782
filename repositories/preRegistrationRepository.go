package repositories

import (
	"HillsideClinic/database"
	"HillsideClinic/models"
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type PreRegistrationRepository struct{}

func NewPreRegistrationRepository() *PreRegistrationRepository {
	return &PreRegistrationRepository{}
}

// Create adds a call-ahead entry. The duplicate decision runs over the current
// pending list and is backed by partial unique indexes on phone and linked
// patient, so a race between two receptionists still cannot produce two
// pending entries.
func (r *PreRegistrationRepository) Create(ctx context.Context, entry *models.PreRegistrationEntry) error {
	pending, err := r.ListPending(ctx)
	if err != nil {
		return err
	}
	if models.HasPendingConflict(pending, entry.Phone, entry.PatientID) {
		return models.ErrDuplicatePending
	}

	entry.Status = models.PreRegPending
	if err := database.DB.WithContext(ctx).Create(entry).Error; err != nil {
		if strings.Contains(err.Error(), "idx_prereg_pending") {
			return models.ErrDuplicatePending
		}
		return fmt.Errorf("failed to create pre-registration entry: %w", err)
	}
	return nil
}

func (r *PreRegistrationRepository) GetByID(ctx context.Context, id uint) (*models.PreRegistrationEntry, error) {
	var entry models.PreRegistrationEntry
	err := database.DB.WithContext(ctx).First(&entry, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pre-registration entry: %w", err)
	}
	return &entry, nil
}

// ListPending returns the waiting list. Display ordering is applied by the
// pre-registration service.
func (r *PreRegistrationRepository) ListPending(ctx context.Context) ([]models.PreRegistrationEntry, error) {
	var entries []models.PreRegistrationEntry
	err := database.DB.WithContext(ctx).
		Where("status = ?", models.PreRegPending).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending entries: %w", err)
	}
	return entries, nil
}

// UpdateStatus transitions an entry out of PENDING. The status guard keeps a
// processed entry from being processed or cancelled twice.
func (r *PreRegistrationRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := database.DB.WithContext(ctx).Model(&models.PreRegistrationEntry{}).
		Where("id = ? AND status = ?", id, models.PreRegPending).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update entry status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrConcurrentModification
	}
	return nil
}
