package services

import (
	"HillsideClinic/models"
	"HillsideClinic/repositories"
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type DoctorService struct {
	repository *repositories.DoctorRepository
}

func NewDoctorService(repository *repositories.DoctorRepository) *DoctorService {
	return &DoctorService{repository: repository}
}

func (s *DoctorService) Create(ctx context.Context, doctor *models.Doctor) error {
	err := validation.ValidateStruct(doctor,
		validation.Field(&doctor.ID, validation.Required),
		validation.Field(&doctor.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&doctor.LastName, validation.Required, validation.Length(1, 100)),
	)
	if err != nil {
		return fmt.Errorf("invalid doctor data: %w", err)
	}
	return s.repository.Create(ctx, doctor)
}

func (s *DoctorService) GetByID(ctx context.Context, id string) (*models.Doctor, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *DoctorService) GetAll(ctx context.Context) ([]models.Doctor, error) {
	return s.repository.GetAll(ctx)
}
