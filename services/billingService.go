package services

import (
	"HillsideClinic/models"
	"HillsideClinic/repositories"
	"HillsideClinic/utils"
	"context"
	"fmt"
)

// ServiceLine identifies one catalog service to bill and its quantity.
type ServiceLine struct {
	Code     string `json:"code"`
	Quantity int    `json:"quantity"`
}

type BillingService struct {
	repository *repositories.BillingRepository
	catalog    *repositories.CatalogRepository
	bus        *EventBus
}

func NewBillingService(repository *repositories.BillingRepository, catalog *repositories.CatalogRepository, bus *EventBus) *BillingService {
	return &BillingService{repository: repository, catalog: catalog, bus: bus}
}

// priceLine resolves a catalog code into a billing line item.
func (s *BillingService) priceLine(ctx context.Context, line ServiceLine, addedBy string) (*models.BillingService, error) {
	if line.Quantity <= 0 {
		line.Quantity = 1
	}
	item, err := s.catalog.GetByCode(ctx, line.Code)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("unknown service code %q", line.Code)
	}
	svc := &models.BillingService{
		ServiceCode:    item.Code,
		ServiceName:    item.Name,
		UnitPriceCents: item.UnitPriceCents,
		Quantity:       line.Quantity,
		AddedBy:        addedBy,
	}
	svc.ComputeLineTotal()
	return svc, nil
}

// Price builds a billing with its priced line items without persisting it.
// The visit service commits it together with the order batch it belongs to.
func (s *BillingService) Price(ctx context.Context, visitID, patientID, department string, lines []ServiceLine, addedBy string) (*models.Billing, error) {
	billing := &models.Billing{
		VisitID:    visitID,
		PatientID:  patientID,
		Department: department,
	}
	for _, line := range lines {
		svc, err := s.priceLine(ctx, line, addedBy)
		if err != nil {
			return nil, err
		}
		billing.Services = append(billing.Services, *svc)
	}
	return billing, nil
}

// Open creates a billing for a visit department with its initial line items.
func (s *BillingService) Open(ctx context.Context, visitID, patientID, department string, lines []ServiceLine, addedBy string) (*models.Billing, error) {
	billing, err := s.Price(ctx, visitID, patientID, department, lines, addedBy)
	if err != nil {
		return nil, err
	}
	if err := s.repository.Create(ctx, billing); err != nil {
		return nil, err
	}
	return billing, nil
}

func (s *BillingService) GetByID(ctx context.Context, id string) (*models.Billing, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *BillingService) GetAll(ctx context.Context) ([]models.Billing, error) {
	return s.repository.GetAll(ctx)
}

func (s *BillingService) AddService(ctx context.Context, billingID string, line ServiceLine, addedBy string) (*models.BillingService, error) {
	svc, err := s.priceLine(ctx, line, addedBy)
	if err != nil {
		return nil, err
	}
	if err := s.repository.AddService(ctx, billingID, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *BillingService) RemoveService(ctx context.Context, billingID string, serviceID uint) error {
	return s.repository.RemoveService(ctx, billingID, serviceID)
}

// RecordPayment validates the tagged payment payload, appends it, and emits
// BillingSettled the moment the paid total covers the billed total.
// Overpayment is accepted and recorded; the excess is a reporting concern.
func (s *BillingService) RecordPayment(ctx context.Context, billingID string, payment *models.Payment) (*models.Billing, error) {
	if err := utils.ValidatePayment(payment); err != nil {
		return nil, err
	}

	settledNow, err := s.repository.RecordPayment(ctx, billingID, payment)
	if err != nil {
		return nil, err
	}

	billing, err := s.repository.GetByID(ctx, billingID)
	if err != nil {
		return nil, err
	}

	if settledNow && billing != nil {
		s.bus.Publish(ctx, Event{
			Name:       EventBillingSettled,
			BillingID:  billing.BillingID,
			VisitID:    billing.VisitID,
			PatientID:  billing.PatientID,
			Department: billing.Department,
			Actor:      payment.ReceivedBy,
		})
	}
	return billing, nil
}

// IsSettled is a pure read over sums, safe to call from transition guards.
func (s *BillingService) IsSettled(ctx context.Context, billingID string) (bool, error) {
	billing, err := s.repository.GetByID(ctx, billingID)
	if err != nil {
		return false, err
	}
	if billing == nil {
		return false, fmt.Errorf("billing %s not found", billingID)
	}
	return billing.IsSettled(), nil
}
