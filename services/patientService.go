package services

import (
	"HillsideClinic/models"
	"HillsideClinic/repositories"
	"HillsideClinic/utils"
	"context"
)

// RegistrationResult carries the new patient together with the registration
// billing reception collects on.
type RegistrationResult struct {
	Patient *models.Patient `json:"patient"`
	Billing *models.Billing `json:"billing"`
}

type PatientService struct {
	repository *repositories.PatientRepository
	billing    *BillingService
	card       *CardService
}

func NewPatientService(repository *repositories.PatientRepository, billing *BillingService, card *CardService) *PatientService {
	return &PatientService{repository: repository, billing: billing, card: card}
}

// Register creates a patient with an INACTIVE card and opens the registration
// billing. The card is activated separately, gated on its own billing.
func (s *PatientService) Register(ctx context.Context, patient *models.Patient, registeredBy string) (*RegistrationResult, error) {
	if err := utils.ValidatePatientData(patient); err != nil {
		return nil, err
	}
	if err := s.repository.Create(ctx, patient); err != nil {
		return nil, err
	}

	billing, err := s.billing.Open(ctx, "", patient.ID, models.DeptRegistration,
		[]ServiceLine{{Code: models.ServiceCodeRegistration, Quantity: 1}}, registeredBy)
	if err != nil {
		return nil, err
	}
	return &RegistrationResult{Patient: patient, Billing: billing}, nil
}

func (s *PatientService) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	patient, err := s.repository.GetByID(ctx, id)
	if err != nil || patient == nil {
		return patient, err
	}
	if err := s.card.EnsureCurrentStatus(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *PatientService) GetByPhone(ctx context.Context, phone string) (*models.Patient, error) {
	return s.repository.GetByPhone(ctx, phone)
}

func (s *PatientService) GetAll(ctx context.Context) ([]models.Patient, error) {
	return s.repository.GetAll(ctx)
}
