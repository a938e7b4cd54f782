package services

import (
	"HillsideClinic/models"
	"HillsideClinic/repositories"
	"context"
	"fmt"
	"log"
	"time"
)

// ActivationResult is what reception gets back from an activation request.
// For an already-ACTIVE card only the current expiry is returned; duplicate
// requests are a no-op, not an error.
type ActivationResult struct {
	AlreadyActive bool            `json:"already_active"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
	Billing       *models.Billing `json:"billing,omitempty"`
}

// CardService drives the patient-card lifecycle. Activation is billing-gated:
// the card only flips to ACTIVE when the card billing settles.
type CardService struct {
	patients *repositories.PatientRepository
	billing  *BillingService
	bus      *EventBus
}

func NewCardService(patients *repositories.PatientRepository, billing *BillingService, bus *EventBus) *CardService {
	s := &CardService{patients: patients, billing: billing, bus: bus}
	bus.Subscribe(s.handleEvent)
	return s
}

// RequestActivation opens a fixed-price card billing for the patient. The
// card stays INACTIVE or EXPIRED until that billing settles.
func (s *CardService) RequestActivation(ctx context.Context, patientID, requestedBy string) (*ActivationResult, error) {
	patient, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, fmt.Errorf("patient %s not found", patientID)
	}

	if err := s.EnsureCurrentStatus(ctx, patient); err != nil {
		return nil, err
	}

	if patient.EffectiveCardStatus(time.Now()) == models.CardActive {
		return &ActivationResult{AlreadyActive: true, ExpiryDate: patient.CardExpiryDate}, nil
	}

	billing, err := s.billing.Open(ctx, "", patientID, models.DeptCard,
		[]ServiceLine{{Code: models.ServiceCodeCardActivation, Quantity: 1}}, requestedBy)
	if err != nil {
		return nil, err
	}
	return &ActivationResult{Billing: billing}, nil
}

// EnsureCurrentStatus demotes a stored ACTIVE card whose expiry has elapsed.
// Statuses are corrected lazily on read rather than by a background job.
func (s *CardService) EnsureCurrentStatus(ctx context.Context, patient *models.Patient) error {
	now := time.Now()
	if patient.CardStatus == models.CardActive && patient.EffectiveCardStatus(now) == models.CardExpired {
		if err := s.patients.UpdateCard(ctx, patient.ID, models.CardExpired, patient.CardExpiryDate); err != nil {
			return err
		}
		patient.CardStatus = models.CardExpired
	}
	return nil
}

// handleEvent activates the card when its activation billing settles.
func (s *CardService) handleEvent(ctx context.Context, event Event) {
	if event.Name != EventBillingSettled || event.Department != models.DeptCard {
		return
	}

	expiry := time.Now().Add(models.CardValidity)
	if err := s.patients.UpdateCard(ctx, event.PatientID, models.CardActive, &expiry); err != nil {
		log.Printf("Failed to activate card for patient %s: %v", event.PatientID, err)
		return
	}

	s.bus.Publish(ctx, Event{
		Name:      EventCardActivated,
		PatientID: event.PatientID,
		BillingID: event.BillingID,
		Actor:     event.Actor,
	})
}
