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

// VisitRepository persists visits. Visit reads are deliberately uncached:
// department dashboards poll them and must observe CAS-committed status
// within one poll interval.
type VisitRepository struct{}

func NewVisitRepository() *VisitRepository {
	return &VisitRepository{}
}

func (r *VisitRepository) Create(ctx context.Context, visit *models.Visit) error {
	var nextID string
	if err := database.DB.Raw("SELECT 'V-' || LPAD(nextval('visit_id_seq')::TEXT, 6, '0')").Scan(&nextID).Error; err != nil {
		return fmt.Errorf("failed to obtain next sequence value: %w", err)
	}
	visit.ID = nextID
	if visit.ArrivedAt.IsZero() {
		visit.ArrivedAt = time.Now()
	}
	if err := database.DB.Create(visit).Error; err != nil {
		return fmt.Errorf("failed to create visit: %w", err)
	}
	return nil
}

func (r *VisitRepository) GetByID(ctx context.Context, id string) (*models.Visit, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var visit models.Visit
	err := database.DB.WithContext(ctx).First(&visit, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}
	return &visit, nil
}

// CommitStatus applies a status transition with compare-and-set semantics on
// the visit's version column. Zero affected rows means another department won
// the race; the caller re-reads and retries against fresh state.
func (r *VisitRepository) CommitStatus(ctx context.Context, visit *models.Visit, to string, extra map[string]interface{}) error {
	updates := map[string]interface{}{
		"status":  to,
		"version": visit.Version + 1,
	}
	if to == models.VisitCompleted {
		updates["completed_at"] = time.Now()
	}
	for k, v := range extra {
		updates[k] = v
	}

	result := database.DB.WithContext(ctx).Model(&models.Visit{}).
		Where("id = ? AND version = ?", visit.ID, visit.Version).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to commit visit status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrConcurrentModification
	}
	visit.Status = to
	visit.Version++
	return nil
}

// CountByDoctorInStatuses backs the derived workload query. Workload is never
// stored; it is recomputed from visit assignments on every read.
func (r *VisitRepository) CountByDoctorInStatuses(ctx context.Context, doctorID string, statuses []string) (int64, error) {
	var count int64
	err := database.DB.WithContext(ctx).Model(&models.Visit{}).
		Where("doctor_id = ? AND status IN ?", doctorID, statuses).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count visits: %w", err)
	}
	return count, nil
}

// ListQueueForDoctor returns the visits currently waiting on a doctor.
// Ordering is applied by the queue service.
func (r *VisitRepository) ListQueueForDoctor(ctx context.Context, doctorID string) ([]models.Visit, error) {
	var visits []models.Visit
	err := database.DB.WithContext(ctx).
		Where("doctor_id = ? AND status IN ?", doctorID, models.NewPatientStatuses).
		Find(&visits).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list doctor queue: %w", err)
	}
	return visits, nil
}

func (r *VisitRepository) GetAll(ctx context.Context) ([]models.Visit, error) {
	var visits []models.Visit
	err := database.DB.WithContext(ctx).Order("created_at DESC").Find(&visits).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all visits: %w", err)
	}
	return visits, nil
}

func (r *VisitRepository) CreateVitals(ctx context.Context, vitals *models.VitalsRecord) error {
	if err := database.DB.WithContext(ctx).Create(vitals).Error; err != nil {
		return fmt.Errorf("failed to create vitals record: %w", err)
	}
	return nil
}
