package models

import (
	"time"
)

// Visit statuses. The order below mirrors the workflow: reception, payment,
// triage, doctor, diagnostics, pharmacy, done.
const (
	VisitRegistered        = "REGISTERED"
	VisitPendingPayment    = "PENDING_PAYMENT"
	VisitWaitingForTriage  = "WAITING_FOR_TRIAGE"
	VisitWaitingForDoctor  = "WAITING_FOR_DOCTOR"
	VisitInDoctorQueue     = "IN_DOCTOR_QUEUE"
	VisitUnderDoctorReview = "UNDER_DOCTOR_REVIEW"
	VisitSentToLab         = "SENT_TO_LAB"
	VisitSentToRadiology   = "SENT_TO_RADIOLOGY"
	VisitSentToBoth        = "SENT_TO_BOTH"
	VisitSentToPharmacy    = "SENT_TO_PHARMACY"
	VisitAwaitingResults   = "AWAITING_RESULTS_REVIEW"
	VisitCompleted         = "COMPLETED"
	VisitCancelled         = "CANCELLED"
)

// Queue types
const (
	QueueOutpatient = "OPD"
	QueueEmergency  = "EMERGENCY"
)

// Departments that own billings.
const (
	DeptRegistration = "REGISTRATION"
	DeptConsultation = "CONSULTATION"
	DeptLab          = "LAB"
	DeptRadiology    = "RADIOLOGY"
	DeptPharmacy     = "PHARMACY"
	DeptCard         = "CARD"
	DeptEmergency    = "EMERGENCY"
)

// Visit model. Status and Version are the single piece of shared mutable state
// departments race on; every status write goes through a compare-and-set on
// Version. All other visit-scoped data lives in separate records.
type Visit struct {
	ID                string     `gorm:"primaryKey;column:id" json:"id"`
	PatientID         string     `gorm:"column:patient_id;not null;index" json:"patient_id"`
	DoctorID          *string    `gorm:"column:doctor_id;index" json:"doctor_id"`
	Status            string     `gorm:"column:status;not null;index" json:"status"`
	Version           int64      `gorm:"column:version;not null;default:0" json:"version"`
	IsEmergency       bool       `gorm:"column:is_emergency;not null;default:false" json:"is_emergency"`
	QueueType         string     `gorm:"column:queue_type;not null;default:OPD" json:"queue_type"`
	Priority          int        `gorm:"column:priority;not null;default:3" json:"priority"`
	PendingOrderCount int        `gorm:"column:pending_order_count;not null;default:0" json:"pending_order_count"`
	AttachmentRef     string     `gorm:"column:attachment_ref" json:"attachment_ref"`
	ArrivedAt         time.Time  `gorm:"column:arrived_at;not null" json:"arrived_at"`
	CompletedAt       *time.Time `gorm:"column:completed_at" json:"completed_at"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Patient           Patient    `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (Visit) TableName() string {
	return "visit"
}

// legalTransitions is the edge set of the visit workflow. Cancellation from
// any non-terminal state is handled in CanAdvanceTo, not listed per state.
var legalTransitions = map[string][]string{
	VisitRegistered:        {VisitPendingPayment, VisitInDoctorQueue},
	VisitPendingPayment:    {VisitWaitingForTriage},
	VisitWaitingForTriage:  {VisitWaitingForDoctor},
	VisitWaitingForDoctor:  {VisitUnderDoctorReview},
	VisitInDoctorQueue:     {VisitUnderDoctorReview},
	VisitUnderDoctorReview: {VisitSentToLab, VisitSentToRadiology, VisitSentToBoth, VisitSentToPharmacy, VisitCompleted},
	VisitSentToLab:         {VisitAwaitingResults},
	VisitSentToRadiology:   {VisitAwaitingResults},
	VisitSentToBoth:        {VisitAwaitingResults},
	VisitSentToPharmacy:    {VisitCompleted},
	VisitAwaitingResults:   {VisitUnderDoctorReview},
}

// IsTerminalStatus reports whether a status accepts no further transitions.
func IsTerminalStatus(status string) bool {
	return status == VisitCompleted || status == VisitCancelled
}

// NewPatientStatuses are the states in which a visit sits in a doctor's queue
// waiting to be seen for the first time. Used by the workload query.
var NewPatientStatuses = []string{VisitWaitingForDoctor, VisitInDoctorQueue}

// CanAdvanceTo checks terminality, edge legality and the results merge rule.
// It is pure; billing gates are checked by the visit service on top of it.
func (v *Visit) CanAdvanceTo(to string) error {
	if IsTerminalStatus(v.Status) {
		return ErrVisitTerminal
	}
	if to == VisitCancelled {
		return nil
	}
	// A visit only leaves the results-review state once every outstanding
	// order for it has reported completed.
	if v.Status == VisitAwaitingResults && to == VisitUnderDoctorReview && v.PendingOrderCount > 0 {
		return ErrOrdersOutstanding
	}
	for _, next := range legalTransitions[v.Status] {
		if next == to {
			return nil
		}
	}
	return ErrIllegalTransition
}

// GatingDepartment returns the department whose billing must be settled before
// the given transition, if any. Emergency visits accrue onto the emergency
// billing and are never gated per step.
func (v *Visit) GatingDepartment(to string) (string, bool) {
	if v.IsEmergency {
		return "", false
	}
	switch {
	case v.Status == VisitPendingPayment && to == VisitWaitingForTriage:
		return DeptConsultation, true
	case v.Status == VisitSentToPharmacy && to == VisitCompleted:
		return DeptPharmacy, true
	}
	return "", false
}

// Order statuses
const (
	OrderAwaitingPayment = "AWAITING_PAYMENT"
	OrderInProgress      = "IN_PROGRESS"
	OrderCompleted       = "COMPLETED"
)

// VisitOrder is a lab, radiology or pharmacy order emitted by the doctor.
// Each order carries its own billing; the owning department only releases the
// order once that billing is settled.
type VisitOrder struct {
	ID          uint       `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	VisitID     string     `gorm:"column:visit_id;not null;index" json:"visit_id"`
	Department  string     `gorm:"column:department;check:department IN ('LAB', 'RADIOLOGY', 'PHARMACY');not null;index" json:"department"`
	BillingID   string     `gorm:"column:billing_id;not null" json:"billing_id"`
	Status      string     `gorm:"column:status;check:status IN ('AWAITING_PAYMENT', 'IN_PROGRESS', 'COMPLETED');not null;default:'AWAITING_PAYMENT'" json:"status"`
	ResultRef   string     `gorm:"column:result_ref" json:"result_ref"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Visit       Visit      `gorm:"foreignKey:VisitID;references:ID" json:"-"`
}

func (VisitOrder) TableName() string {
	return "visit_order"
}

// CountsTowardResults reports whether the order participates in the visit's
// outstanding-order count. Pharmacy orders are dispensed at checkout and are
// not part of the results merge.
func (o *VisitOrder) CountsTowardResults() bool {
	return o.Department != DeptPharmacy
}

// OrderReleasable reports whether an order may be handed to its department's
// work queue: the owning visit must exist and, outside emergencies, the
// order's billing must be settled. A dangling order never releases unpaid.
func OrderReleasable(visit *Visit, billing *Billing) bool {
	if visit == nil {
		return false
	}
	if visit.IsEmergency {
		return true
	}
	return billing != nil && billing.IsSettled()
}

// PendingOrderDelta is the outstanding-order increment a batch of new orders
// adds to its visit.
func PendingOrderDelta(orders []VisitOrder) int {
	delta := 0
	for i := range orders {
		if orders[i].CountsTowardResults() {
			delta++
		}
	}
	return delta
}

// VitalsRecord is the nursing triage record for one visit.
type VitalsRecord struct {
	ID          uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	VisitID     string    `gorm:"column:visit_id;not null;index" json:"visit_id"`
	Temperature float64   `gorm:"column:temperature" json:"temperature"`
	Pulse       int       `gorm:"column:pulse" json:"pulse"`
	SystolicBP  int       `gorm:"column:systolic_bp" json:"systolic_bp"`
	DiastolicBP int       `gorm:"column:diastolic_bp" json:"diastolic_bp"`
	Weight      float64   `gorm:"column:weight" json:"weight"`
	Notes       string    `gorm:"column:notes" json:"notes"`
	RecordedBy  string    `gorm:"column:recorded_by;not null" json:"recorded_by"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Visit       Visit     `gorm:"foreignKey:VisitID;references:ID" json:"-"`
}

func (VitalsRecord) TableName() string {
	return "vitals_record"
}
