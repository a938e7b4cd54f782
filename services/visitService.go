package services

import (
	"HillsideClinic/models"
	"HillsideClinic/repositories"
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// casAttempts bounds transition retries after a lost compare-and-set race.
// Only the CAS conflict is retried, against freshly read state; business-rule
// failures are returned to the caller immediately.
const casAttempts = 3

// VisitService drives the visit workflow. Every status write is a
// compare-and-set transition validated against the legal-transition table and
// the billing gates.
type VisitService struct {
	visits    *repositories.VisitRepository
	orders    *repositories.OrderRepository
	billings  *repositories.BillingRepository
	emergency *repositories.EmergencyBillingRepository
	catalog   *repositories.CatalogRepository
	patients  *repositories.PatientRepository
	billing   *BillingService
	card      *CardService
	queue     *QueueService
	bus       *EventBus
}

func NewVisitService(
	visits *repositories.VisitRepository,
	orders *repositories.OrderRepository,
	billings *repositories.BillingRepository,
	emergency *repositories.EmergencyBillingRepository,
	catalog *repositories.CatalogRepository,
	patients *repositories.PatientRepository,
	billing *BillingService,
	card *CardService,
	queue *QueueService,
	bus *EventBus,
) *VisitService {
	s := &VisitService{
		visits:    visits,
		orders:    orders,
		billings:  billings,
		emergency: emergency,
		catalog:   catalog,
		patients:  patients,
		billing:   billing,
		card:      card,
		queue:     queue,
		bus:       bus,
	}
	bus.Subscribe(s.handleEvent)
	return s
}

// CreateVisit opens a visit for a patient. Normal visits require an ACTIVE
// card and start in PENDING_PAYMENT behind a consultation billing. Emergency
// visits bypass the card gate and payment entirely: they go straight into a
// doctor queue with a running-total emergency billing.
func (s *VisitService) CreateVisit(ctx context.Context, patientID string, isEmergency bool, priority int, createdBy string) (*models.Visit, error) {
	patient, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, fmt.Errorf("patient %s not found", patientID)
	}

	if err := s.card.EnsureCurrentStatus(ctx, patient); err != nil {
		return nil, err
	}
	if !isEmergency && !patient.CanCreateVisit(time.Now()) {
		return nil, models.ErrCardInactiveOrExpired
	}

	if priority < models.PriorityUrgent || priority > models.PriorityNormal {
		priority = models.PriorityNormal
	}

	visit := &models.Visit{
		PatientID:   patientID,
		Status:      models.VisitRegistered,
		IsEmergency: isEmergency,
		QueueType:   models.QueueOutpatient,
		Priority:    priority,
		ArrivedAt:   time.Now(),
	}
	if isEmergency {
		visit.QueueType = models.QueueEmergency
		visit.Priority = models.PriorityUrgent
	}
	if err := s.visits.Create(ctx, visit); err != nil {
		return nil, err
	}

	if isEmergency {
		emergencyBilling := &models.EmergencyBilling{VisitID: visit.ID, PatientID: patientID}
		if err := s.emergency.Create(ctx, emergencyBilling); err != nil {
			return nil, err
		}

		doctorID, err := s.queue.RecommendDoctor(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.commit(ctx, visit, models.VisitInDoctorQueue, createdBy, map[string]interface{}{"doctor_id": doctorID}); err != nil {
			return nil, err
		}
		visit.DoctorID = &doctorID
		return visit, nil
	}

	if _, err := s.billing.Open(ctx, visit.ID, patientID, models.DeptConsultation,
		[]ServiceLine{{Code: models.ServiceCodeConsultation, Quantity: 1}}, createdBy); err != nil {
		return nil, err
	}
	if err := s.commit(ctx, visit, models.VisitPendingPayment, createdBy, nil); err != nil {
		return nil, err
	}
	return visit, nil
}

func (s *VisitService) GetByID(ctx context.Context, id string) (*models.Visit, error) {
	return s.visits.GetByID(ctx, id)
}

func (s *VisitService) GetAll(ctx context.Context) ([]models.Visit, error) {
	return s.visits.GetAll(ctx)
}

// guard validates a transition against the legal-transition table and the
// billing gates without committing it.
func (s *VisitService) guard(ctx context.Context, visit *models.Visit, to string) error {
	if err := visit.CanAdvanceTo(to); err != nil {
		return err
	}
	return s.checkGate(ctx, visit, to)
}

// commit applies one validated transition and publishes the status event.
func (s *VisitService) commit(ctx context.Context, visit *models.Visit, to, actor string, extra map[string]interface{}) error {
	if err := s.guard(ctx, visit, to); err != nil {
		return err
	}
	if err := s.visits.CommitStatus(ctx, visit, to, extra); err != nil {
		return err
	}
	s.publishStatus(ctx, visit, to, actor)
	return nil
}

func (s *VisitService) publishStatus(ctx context.Context, visit *models.Visit, to, actor string) {
	s.bus.Publish(ctx, Event{
		Name:      EventVisitStatusChanged,
		VisitID:   visit.ID,
		PatientID: visit.PatientID,
		Status:    to,
		Actor:     actor,
	})
}

// checkGate blocks transitions that imply a department released the patient
// for an unpaid charge. The visit is never silently advanced; the caller
// learns exactly which billing is outstanding.
func (s *VisitService) checkGate(ctx context.Context, visit *models.Visit, to string) error {
	department, gated := visit.GatingDepartment(to)
	if !gated {
		return nil
	}
	billing, err := s.billings.GetByVisitAndDepartment(ctx, visit.ID, department)
	if err != nil {
		return err
	}
	if billing == nil || !billing.IsSettled() {
		return fmt.Errorf("%w: %s billing for visit %s", models.ErrBillingNotSettled, department, visit.ID)
	}
	return nil
}

// Transition moves a visit to the given status. A lost CAS race is retried
// against the freshly read state; everything else fails fast.
func (s *VisitService) Transition(ctx context.Context, visitID, to, actor string) (*models.Visit, error) {
	var lastErr error
	for attempt := 0; attempt < casAttempts; attempt++ {
		visit, err := s.visits.GetByID(ctx, visitID)
		if err != nil {
			return nil, err
		}
		if visit == nil {
			return nil, fmt.Errorf("visit %s not found", visitID)
		}

		err = s.commit(ctx, visit, to, actor, nil)
		if err == nil {
			return visit, nil
		}
		if !errors.Is(err, models.ErrConcurrentModification) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// RecordVitals stores the triage record and routes the visit to the
// least-loaded doctor.
func (s *VisitService) RecordVitals(ctx context.Context, visitID string, vitals *models.VitalsRecord, recordedBy string) (*models.Visit, error) {
	visit, err := s.visits.GetByID(ctx, visitID)
	if err != nil {
		return nil, err
	}
	if visit == nil {
		return nil, fmt.Errorf("visit %s not found", visitID)
	}
	if visit.Status != models.VisitWaitingForTriage {
		return nil, models.ErrIllegalTransition
	}

	vitals.VisitID = visitID
	vitals.RecordedBy = recordedBy
	if err := s.visits.CreateVitals(ctx, vitals); err != nil {
		return nil, err
	}

	doctorID, err := s.queue.RecommendDoctor(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.commit(ctx, visit, models.VisitWaitingForDoctor, recordedBy, map[string]interface{}{"doctor_id": doctorID}); err != nil {
		return nil, err
	}
	visit.DoctorID = &doctorID
	return visit, nil
}

// StartReview pulls the next patient into the consultation room. From
// AWAITING_RESULTS_REVIEW it only succeeds once every outstanding order has
// reported completed.
func (s *VisitService) StartReview(ctx context.Context, visitID, actor string) (*models.Visit, error) {
	return s.Transition(ctx, visitID, models.VisitUnderDoctorReview, actor)
}

// CreateOrders emits lab and/or radiology orders. Each department gets its
// own billing that must settle before that department releases the order.
// On emergency visits the services accrue onto the running emergency billing
// instead and the orders start released.
func (s *VisitService) CreateOrders(ctx context.Context, visitID string, labLines, radLines []ServiceLine, orderedBy string) (*models.Visit, error) {
	visit, err := s.visits.GetByID(ctx, visitID)
	if err != nil {
		return nil, err
	}
	if visit == nil {
		return nil, fmt.Errorf("visit %s not found", visitID)
	}
	if visit.Status != models.VisitUnderDoctorReview {
		return nil, models.ErrIllegalTransition
	}
	if len(labLines) == 0 && len(radLines) == 0 {
		return nil, errors.New("no order lines given")
	}

	var orders []models.VisitOrder
	var billings []*models.Billing
	for _, batch := range []struct {
		department string
		lines      []ServiceLine
	}{
		{models.DeptLab, labLines},
		{models.DeptRadiology, radLines},
	} {
		if len(batch.lines) == 0 {
			continue
		}
		order, billing, err := s.openOrder(ctx, visit, batch.department, batch.lines, orderedBy)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
		billings = append(billings, billing)
	}

	to := models.VisitSentToBoth
	switch {
	case len(radLines) == 0:
		to = models.VisitSentToLab
	case len(labLines) == 0:
		to = models.VisitSentToRadiology
	}
	if err := s.guard(ctx, visit, to); err != nil {
		return nil, err
	}
	// Billings, orders, the outstanding-order count and the status commit
	// together; losing the version race leaves nothing behind to duplicate.
	if err := s.orders.CreateBatchCommitted(ctx, visit, to, billings, orders); err != nil {
		return nil, err
	}
	s.publishStatus(ctx, visit, to, orderedBy)
	return visit, nil
}

// openOrder builds one department order with its unpersisted billing; the
// batch commit assigns the billing its identifier. Emergency visits accrue
// the services onto the running emergency billing instead and start released.
func (s *VisitService) openOrder(ctx context.Context, visit *models.Visit, department string, lines []ServiceLine, orderedBy string) (*models.VisitOrder, *models.Billing, error) {
	if visit.IsEmergency {
		billing, err := s.emergency.GetByVisit(ctx, visit.ID)
		if err != nil {
			return nil, nil, err
		}
		if billing == nil {
			return nil, nil, fmt.Errorf("emergency billing for visit %s not found", visit.ID)
		}
		for _, line := range lines {
			item, err := s.catalog.GetByCode(ctx, line.Code)
			if err != nil {
				return nil, nil, err
			}
			if item == nil {
				return nil, nil, fmt.Errorf("unknown service code %q", line.Code)
			}
			quantity := line.Quantity
			if quantity <= 0 {
				quantity = 1
			}
			if err := s.emergency.AddService(ctx, billing.ID, &models.EmergencyService{
				ServiceCode:    item.Code,
				ServiceName:    item.Name,
				UnitPriceCents: item.UnitPriceCents,
				Quantity:       quantity,
				AddedBy:        orderedBy,
			}); err != nil {
				return nil, nil, err
			}
		}
		return &models.VisitOrder{
			Department: department,
			BillingID:  billing.ID,
			Status:     models.OrderInProgress,
		}, nil, nil
	}

	billing, err := s.billing.Price(ctx, visit.ID, visit.PatientID, department, lines, orderedBy)
	if err != nil {
		return nil, nil, err
	}
	return &models.VisitOrder{
		Department: department,
		Status:     models.OrderAwaitingPayment,
	}, billing, nil
}

// ReleaseOrder hands an order to the department's work queue. The order's
// billing must be settled first; emergency orders were never held back.
func (s *VisitService) ReleaseOrder(ctx context.Context, orderID uint, actor string) (*models.VisitOrder, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("order %d not found", orderID)
	}

	visit, err := s.visits.GetByID(ctx, order.VisitID)
	if err != nil {
		return nil, err
	}
	if visit == nil {
		return nil, fmt.Errorf("visit %s not found for order %d", order.VisitID, orderID)
	}
	var billing *models.Billing
	if !visit.IsEmergency {
		if billing, err = s.billings.GetByID(ctx, order.BillingID); err != nil {
			return nil, err
		}
	}
	if !models.OrderReleasable(visit, billing) {
		return nil, fmt.Errorf("%w: %s billing %s", models.ErrBillingNotSettled, order.Department, order.BillingID)
	}

	if err := s.orders.Release(ctx, orderID); err != nil {
		return nil, err
	}
	order.Status = models.OrderInProgress
	return order, nil
}

// CompleteOrder attaches the result reference and decrements the visit's
// outstanding-order count. The first completed diagnostic order parks the
// visit in AWAITING_RESULTS_REVIEW; it stays there until every order has
// completed, with partial completion visible through the progress read.
func (s *VisitService) CompleteOrder(ctx context.Context, orderID uint, resultRef, actor string) (int, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return 0, err
	}
	if order == nil {
		return 0, fmt.Errorf("order %d not found", orderID)
	}
	remaining, err := s.orders.Complete(ctx, orderID, resultRef)
	if err != nil {
		return 0, err
	}
	if order.CountsTowardResults() {
		visit, err := s.visits.GetByID(ctx, order.VisitID)
		if err != nil {
			return remaining, err
		}
		switch visit.Status {
		case models.VisitSentToLab, models.VisitSentToRadiology, models.VisitSentToBoth:
			if _, err := s.Transition(ctx, visit.ID, models.VisitAwaitingResults, actor); err != nil {
				// A parallel completion may have parked the visit already.
				if !errors.Is(err, models.ErrIllegalTransition) {
					return remaining, err
				}
			}
		}
	}
	return remaining, nil
}

func (s *VisitService) ListOrders(ctx context.Context, department, status string) ([]models.VisitOrder, error) {
	return s.orders.ListByDepartment(ctx, department, status)
}

// ResultsProgress is the derived percentage of completed diagnostic orders.
func (s *VisitService) ResultsProgress(ctx context.Context, visitID string) (int, error) {
	total, completed, err := s.orders.CountForVisit(ctx, visitID)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 100, nil
	}
	return int(completed * 100 / total), nil
}

// CreatePharmacyOrder emits a pharmacy order with its billing and moves the
// visit to SENT_TO_PHARMACY.
func (s *VisitService) CreatePharmacyOrder(ctx context.Context, visitID string, lines []ServiceLine, orderedBy string) (*models.Visit, error) {
	visit, err := s.visits.GetByID(ctx, visitID)
	if err != nil {
		return nil, err
	}
	if visit == nil {
		return nil, fmt.Errorf("visit %s not found", visitID)
	}
	if visit.Status != models.VisitUnderDoctorReview {
		return nil, models.ErrIllegalTransition
	}
	if len(lines) == 0 {
		return nil, errors.New("no order lines given")
	}

	order, billing, err := s.openOrder(ctx, visit, models.DeptPharmacy, lines, orderedBy)
	if err != nil {
		return nil, err
	}
	if err := s.guard(ctx, visit, models.VisitSentToPharmacy); err != nil {
		return nil, err
	}
	if err := s.orders.CreateBatchCommitted(ctx, visit, models.VisitSentToPharmacy,
		[]*models.Billing{billing}, []models.VisitOrder{*order}); err != nil {
		return nil, err
	}
	s.publishStatus(ctx, visit, models.VisitSentToPharmacy, orderedBy)
	return visit, nil
}

// Dispense completes a pharmacy order and, once the pharmacy billing is
// settled, closes the visit.
func (s *VisitService) Dispense(ctx context.Context, orderID uint, actor string) (*models.Visit, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("order %d not found", orderID)
	}
	if order.Department != models.DeptPharmacy {
		return nil, fmt.Errorf("order %d is not a pharmacy order", orderID)
	}

	// The COMPLETED transition gate re-checks the pharmacy billing; checking
	// here first keeps the order from completing when the visit cannot close.
	visit, err := s.Transition(ctx, order.VisitID, models.VisitCompleted, actor)
	if err != nil {
		return nil, err
	}

	if order.Status == models.OrderAwaitingPayment {
		if err := s.orders.Release(ctx, orderID); err != nil {
			return nil, err
		}
	}
	if _, err := s.orders.Complete(ctx, orderID, ""); err != nil {
		log.Printf("Failed to complete pharmacy order %d: %v", orderID, err)
	}
	return visit, nil
}

// CompleteVisit closes a visit from the consultation room when no pharmacy
// order was emitted.
func (s *VisitService) CompleteVisit(ctx context.Context, visitID, actor string) (*models.Visit, error) {
	return s.Transition(ctx, visitID, models.VisitCompleted, actor)
}

// Cancel closes a visit from any non-terminal state.
func (s *VisitService) Cancel(ctx context.Context, visitID, actor string) (*models.Visit, error) {
	return s.Transition(ctx, visitID, models.VisitCancelled, actor)
}

// handleEvent advances a visit out of PENDING_PAYMENT when its consultation
// billing settles. Other settlements release orders on demand, not here.
func (s *VisitService) handleEvent(ctx context.Context, event Event) {
	if event.Name != EventBillingSettled || event.Department != models.DeptConsultation || event.VisitID == "" {
		return
	}

	visit, err := s.visits.GetByID(ctx, event.VisitID)
	if err != nil || visit == nil {
		log.Printf("Failed to load visit %s after settlement: %v", event.VisitID, err)
		return
	}
	if visit.Status != models.VisitPendingPayment {
		return
	}
	if _, err := s.Transition(ctx, event.VisitID, models.VisitWaitingForTriage, event.Actor); err != nil {
		log.Printf("Failed to advance visit %s after settlement: %v", event.VisitID, err)
	}
}
