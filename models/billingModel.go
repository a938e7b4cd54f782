package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment methods
const (
	PayCash      = "CASH"
	PayBank      = "BANK"
	PayInsurance = "INSURANCE"
	PayCharity   = "CHARITY"
)

// Billing model. One visit owns several billings over its life, one per
// charging department, each independently payable. All monetary amounts are
// integer cents; settlement comparisons never touch floating point.
type Billing struct {
	BillingID  string           `gorm:"primaryKey;column:billing_id" json:"billing_id"`
	VisitID    string           `gorm:"column:visit_id;not null;index" json:"visit_id"`
	PatientID  string           `gorm:"column:patient_id;not null;index" json:"patient_id"`
	Department string           `gorm:"column:department;check:department IN ('REGISTRATION', 'CONSULTATION', 'LAB', 'RADIOLOGY', 'PHARMACY', 'CARD');not null;index" json:"department"`
	Settled    bool             `gorm:"column:settled;not null;default:false" json:"settled"`
	SettledAt  *time.Time       `gorm:"column:settled_at" json:"settled_at"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Services   []BillingService `gorm:"foreignKey:BillingID;references:BillingID" json:"services"`
	Payments   []Payment        `gorm:"foreignKey:BillingID;references:BillingID" json:"payments"`
	Patient    Patient          `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (Billing) TableName() string {
	return "billing"
}

// TotalCents is the sum of the line totals of all service items.
func (b *Billing) TotalCents() int64 {
	var total int64
	for _, s := range b.Services {
		total += s.LineTotalCents
	}
	return total
}

// PaidCents is the sum of all recorded payments.
func (b *Billing) PaidCents() int64 {
	var paid int64
	for _, p := range b.Payments {
		paid += p.AmountCents
	}
	return paid
}

// IsSettled is true iff the paid amount covers the total. The stored Settled
// flag is monotonic: once set it never reverts, even if services were somehow
// changed afterwards, so the check honours both.
func (b *Billing) IsSettled() bool {
	return b.Settled || b.PaidCents() >= b.TotalCents()
}

// BillingService is one billable line item on a billing.
type BillingService struct {
	ID             uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	BillingID      string    `gorm:"column:billing_id;not null;index" json:"billing_id"`
	ServiceCode    string    `gorm:"column:service_code;not null" json:"service_code"`
	ServiceName    string    `gorm:"column:service_name;not null" json:"service_name"`
	UnitPriceCents int64     `gorm:"column:unit_price_cents;not null" json:"unit_price_cents"`
	Quantity       int       `gorm:"column:quantity;not null;default:1" json:"quantity"`
	LineTotalCents int64     `gorm:"column:line_total_cents;not null" json:"line_total_cents"`
	AddedBy        string    `gorm:"column:added_by" json:"added_by"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (BillingService) TableName() string {
	return "billing_service"
}

// ComputeLineTotal recalculates the stored line total from price and quantity.
func (s *BillingService) ComputeLineTotal() {
	s.LineTotalCents = s.UnitPriceCents * int64(s.Quantity)
}

// Payment is one payment record on a billing. Method-specific fields form a
// tagged union validated per method: BANK requires BankName and TransNumber,
// INSURANCE requires InsuranceID.
type Payment struct {
	ID          uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	BillingID   string    `gorm:"column:billing_id;not null;index" json:"billing_id"`
	Method      string    `gorm:"column:method;check:method IN ('CASH', 'BANK', 'INSURANCE', 'CHARITY');not null" json:"method"`
	AmountCents int64     `gorm:"column:amount_cents;not null" json:"amount_cents"`
	BankName    string    `gorm:"column:bank_name" json:"bank_name,omitempty"`
	TransNumber string    `gorm:"column:trans_number" json:"trans_number,omitempty"`
	InsuranceID string    `gorm:"column:insurance_id" json:"insurance_id,omitempty"`
	ReceivedBy  string    `gorm:"column:received_by" json:"received_by"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Payment) TableName() string {
	return "payment"
}

// Emergency billing statuses
const (
	EmergencyRunning = "RUNNING"
	EmergencyPaid    = "PAID"
)

// EmergencyBilling is the running-total ledger for emergency visits. Services
// accrue freely before any payment; settlement is a single acknowledgment that
// freezes the total and records that billing reconciled it out-of-band.
type EmergencyBilling struct {
	ID             string             `gorm:"primaryKey;column:id" json:"id"`
	VisitID        string             `gorm:"column:visit_id;not null;uniqueIndex" json:"visit_id"`
	PatientID      string             `gorm:"column:patient_id;not null;index" json:"patient_id"`
	Status         string             `gorm:"column:status;check:status IN ('RUNNING', 'PAID');not null;default:'RUNNING'" json:"status"`
	TotalCents     int64              `gorm:"column:total_cents;not null;default:0" json:"total_cents"`
	AcknowledgedBy string             `gorm:"column:acknowledged_by" json:"acknowledged_by"`
	Notes          string             `gorm:"column:notes" json:"notes"`
	AcknowledgedAt *time.Time         `gorm:"column:acknowledged_at" json:"acknowledged_at"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Services       []EmergencyService `gorm:"foreignKey:BillingID;references:ID" json:"services"`
}

func (EmergencyBilling) TableName() string {
	return "emergency_billing"
}

// EmergencyService is one accrued line item on an emergency billing.
type EmergencyService struct {
	ID             uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	BillingID      string    `gorm:"column:billing_id;not null;index" json:"billing_id"`
	ServiceCode    string    `gorm:"column:service_code;not null" json:"service_code"`
	ServiceName    string    `gorm:"column:service_name;not null" json:"service_name"`
	UnitPriceCents int64     `gorm:"column:unit_price_cents;not null" json:"unit_price_cents"`
	Quantity       int       `gorm:"column:quantity;not null;default:1" json:"quantity"`
	LineTotalCents int64     `gorm:"column:line_total_cents;not null" json:"line_total_cents"`
	AddedBy        string    `gorm:"column:added_by" json:"added_by"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (EmergencyService) TableName() string {
	return "emergency_service"
}

// RunningTotalCents sums the accrued services.
func (e *EmergencyBilling) RunningTotalCents() int64 {
	var total int64
	for _, s := range e.Services {
		total += s.LineTotalCents
	}
	return total
}

// Acknowledge freezes the running total and marks the record PAID. It moves no
// money. A second call fails rather than double-counting.
func (e *EmergencyBilling) Acknowledge(by, notes string, now time.Time) error {
	if e.Status == EmergencyPaid {
		return ErrAlreadyAcknowledged
	}
	e.TotalCents = e.RunningTotalCents()
	e.Status = EmergencyPaid
	e.AcknowledgedBy = by
	e.Notes = notes
	e.AcknowledgedAt = &now
	return nil
}

// ServiceCatalogItem is the seeded price list services are billed from.
type ServiceCatalogItem struct {
	Code           string    `gorm:"primaryKey;column:code" json:"code"`
	Name           string    `gorm:"column:name;not null" json:"name"`
	Department     string    `gorm:"column:department;not null;index" json:"department"`
	UnitPriceCents int64     `gorm:"column:unit_price_cents;not null" json:"unit_price_cents"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ServiceCatalogItem) TableName() string {
	return "service_catalog_item"
}

// Well-known catalog codes used by the workflow itself.
const (
	ServiceCodeRegistration   = "REG-001"
	ServiceCodeConsultation   = "CON-001"
	ServiceCodeCardActivation = "CARD-001"
)

// SeedServiceCatalog inserts the baseline price list into the database.
func SeedServiceCatalog(db *gorm.DB) error {
	initialItems := []ServiceCatalogItem{
		{Code: ServiceCodeRegistration, Name: "Patient Registration", Department: DeptRegistration, UnitPriceCents: 5000},
		{Code: ServiceCodeConsultation, Name: "Doctor Consultation", Department: DeptConsultation, UnitPriceCents: 20000},
		{Code: ServiceCodeCardActivation, Name: "Card Activation", Department: DeptCard, UnitPriceCents: 10000},
		{Code: "LAB-CBC", Name: "Complete Blood Count", Department: DeptLab, UnitPriceCents: 15000},
		{Code: "LAB-MAL", Name: "Malaria Smear", Department: DeptLab, UnitPriceCents: 8000},
		{Code: "LAB-URI", Name: "Urinalysis", Department: DeptLab, UnitPriceCents: 7000},
		{Code: "RAD-XRC", Name: "Chest X-Ray", Department: DeptRadiology, UnitPriceCents: 30000},
		{Code: "RAD-USG", Name: "Abdominal Ultrasound", Department: DeptRadiology, UnitPriceCents: 35000},
		{Code: "PHA-DSP", Name: "Medication Dispensing", Department: DeptPharmacy, UnitPriceCents: 2000},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, item := range initialItems {
			if err := tx.FirstOrCreate(&item, ServiceCatalogItem{Code: item.Code}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
