package services

import (
	"HillsideClinic/models"
	"HillsideClinic/repositories"
	"HillsideClinic/utils"
	"context"
	"fmt"
	"sort"
	"time"
)

// ProcessResult is the outcome of consuming a pre-registration entry: either
// a visit was created directly, or the caller is redirected to full
// registration with the entry's data.
type ProcessResult struct {
	Visit    *models.Visit                `json:"visit,omitempty"`
	Redirect bool                         `json:"redirect"`
	Entry    *models.PreRegistrationEntry `json:"entry"`
}

// PreRegistrationService manages the call-ahead waiting list. The queue never
// performs registration itself; it either opens a visit for a known active
// patient or hands the entry data back for full registration.
type PreRegistrationService struct {
	repository *repositories.PreRegistrationRepository
	patients   *repositories.PatientRepository
	visits     *VisitService
}

func NewPreRegistrationService(repository *repositories.PreRegistrationRepository, patients *repositories.PatientRepository, visits *VisitService) *PreRegistrationService {
	return &PreRegistrationService{repository: repository, patients: patients, visits: visits}
}

func (s *PreRegistrationService) Add(ctx context.Context, entry *models.PreRegistrationEntry) error {
	if err := utils.ValidatePreRegistration(entry); err != nil {
		return err
	}
	return s.repository.Create(ctx, entry)
}

func (s *PreRegistrationService) ListPending(ctx context.Context) ([]models.PreRegistrationEntry, error) {
	entries, err := s.repository.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	SortWaitingList(entries)
	return entries, nil
}

// SortWaitingList orders pending entries for display: priority first, then
// call time. Equal entries keep their arrival order.
func SortWaitingList(entries []models.PreRegistrationEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

// Process consumes a pending entry. If it resolves to a patient holding an
// ACTIVE card, a visit is created directly; otherwise the entry is completed
// and the caller drives full registration from the returned data.
func (s *PreRegistrationService) Process(ctx context.Context, entryID uint, processedBy string) (*ProcessResult, error) {
	entry, err := s.repository.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("pre-registration entry %d not found", entryID)
	}
	if entry.Status != models.PreRegPending {
		return nil, models.ErrConcurrentModification
	}

	patient, err := s.resolvePatient(ctx, entry)
	if err != nil {
		return nil, err
	}

	if patient != nil && patient.CanCreateVisit(time.Now()) {
		visit, err := s.visits.CreateVisit(ctx, patient.ID, false, entry.Priority, processedBy)
		if err != nil {
			return nil, err
		}
		if err := s.repository.UpdateStatus(ctx, entryID, models.PreRegCompleted); err != nil {
			return nil, err
		}
		entry.Status = models.PreRegCompleted
		return &ProcessResult{Visit: visit, Entry: entry}, nil
	}

	if err := s.repository.UpdateStatus(ctx, entryID, models.PreRegCompleted); err != nil {
		return nil, err
	}
	entry.Status = models.PreRegCompleted
	return &ProcessResult{Redirect: true, Entry: entry}, nil
}

func (s *PreRegistrationService) Cancel(ctx context.Context, entryID uint) error {
	return s.repository.UpdateStatus(ctx, entryID, models.PreRegCancelled)
}

func (s *PreRegistrationService) resolvePatient(ctx context.Context, entry *models.PreRegistrationEntry) (*models.Patient, error) {
	if entry.PatientID != nil {
		return s.patients.GetByID(ctx, *entry.PatientID)
	}
	return s.patients.GetByPhone(ctx, entry.Phone)
}
