package services

import (
	"HillsideClinic/models"
	"HillsideClinic/repositories"
	"context"
	"fmt"
)

// EmergencyBillingService manages running-total ledgers for emergency visits.
// Services accrue freely before payment; settlement is a single out-of-band
// acknowledgment rather than itemized payments.
type EmergencyBillingService struct {
	repository *repositories.EmergencyBillingRepository
	catalog    *repositories.CatalogRepository
	bus        *EventBus
}

func NewEmergencyBillingService(repository *repositories.EmergencyBillingRepository, catalog *repositories.CatalogRepository, bus *EventBus) *EmergencyBillingService {
	return &EmergencyBillingService{repository: repository, catalog: catalog, bus: bus}
}

func (s *EmergencyBillingService) GetByID(ctx context.Context, id string) (*models.EmergencyBilling, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *EmergencyBillingService) GetByVisit(ctx context.Context, visitID string) (*models.EmergencyBilling, error) {
	return s.repository.GetByVisit(ctx, visitID)
}

func (s *EmergencyBillingService) AddService(ctx context.Context, billingID string, line ServiceLine, addedBy string) (*models.EmergencyService, error) {
	item, err := s.catalog.GetByCode(ctx, line.Code)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("unknown service code %q", line.Code)
	}
	quantity := line.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	service := &models.EmergencyService{
		ServiceCode:    item.Code,
		ServiceName:    item.Name,
		UnitPriceCents: item.UnitPriceCents,
		Quantity:       quantity,
		AddedBy:        addedBy,
	}
	if err := s.repository.AddService(ctx, billingID, service); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *EmergencyBillingService) RemoveService(ctx context.Context, billingID string, serviceID uint) error {
	return s.repository.RemoveService(ctx, billingID, serviceID)
}

// Acknowledge freezes the running total as PAID. The second acknowledgment of
// the same record fails instead of double-counting.
func (s *EmergencyBillingService) Acknowledge(ctx context.Context, billingID, notes, acknowledgedBy string) (*models.EmergencyBilling, error) {
	billing, err := s.repository.Acknowledge(ctx, billingID, acknowledgedBy, notes)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, Event{
		Name:       EventBillingSettled,
		BillingID:  billing.ID,
		VisitID:    billing.VisitID,
		PatientID:  billing.PatientID,
		Department: models.DeptEmergency,
		Actor:      acknowledgedBy,
	})
	return billing, nil
}
