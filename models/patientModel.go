package models

import (
	"time"
)

// Card statuses
const (
	CardInactive = "INACTIVE"
	CardActive   = "ACTIVE"
	CardExpired  = "EXPIRED"
)

// CardValidity is how long an activated card stays valid.
const CardValidity = 30 * 24 * time.Hour

// Doctor model
type Doctor struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	FirstName string    `gorm:"column:first_name;not null" json:"first_name"`
	LastName  string    `gorm:"column:last_name;not null;index" json:"last_name"`
	Specialty string    `gorm:"column:specialty" json:"specialty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Visits    []Visit   `gorm:"foreignKey:DoctorID;references:ID" json:"-"`
}

func (Doctor) TableName() string {
	return "doctor"
}

// Patient model
type Patient struct {
	ID             string     `gorm:"primaryKey;column:id" json:"id"`
	FirstName      string     `gorm:"column:first_name;not null" json:"first_name"`
	MiddleName     string     `gorm:"column:middle_name" json:"middle_name"`
	LastName       string     `gorm:"column:last_name;not null;index" json:"last_name"`
	Sex            string     `gorm:"column:sex;check:sex IN ('Male', 'Female', 'Other');not null" json:"sex"`
	DateOfBirth    string     `gorm:"column:date_of_birth;not null" json:"date_of_birth"`
	Phone          string     `gorm:"column:phone;index" json:"phone"`
	Email          string     `gorm:"column:email" json:"email"`
	Address        string     `gorm:"column:address" json:"address"`
	CardStatus     string     `gorm:"column:card_status;check:card_status IN ('INACTIVE', 'ACTIVE', 'EXPIRED');not null;default:INACTIVE" json:"card_status"`
	CardExpiryDate *time.Time `gorm:"column:card_expiry_date" json:"card_expiry_date"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Visits         []Visit    `gorm:"foreignKey:PatientID;references:ID" json:"-"`
	Billings       []Billing  `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (Patient) TableName() string {
	return "patient"
}

// EffectiveCardStatus demotes an ACTIVE card whose expiry date has elapsed.
// The stored status is corrected lazily by the card service on the next read.
func (p *Patient) EffectiveCardStatus(now time.Time) string {
	if p.CardStatus == CardActive && p.CardExpiryDate != nil && now.After(*p.CardExpiryDate) {
		return CardExpired
	}
	return p.CardStatus
}

// CanCreateVisit reports whether reception may open a new visit for this patient.
func (p *Patient) CanCreateVisit(now time.Time) bool {
	return p.EffectiveCardStatus(now) == CardActive
}

// Pre-registration priorities
const (
	PriorityUrgent   = 1
	PriorityPriority = 2
	PriorityNormal   = 3
)

// Pre-registration statuses
const (
	PreRegPending   = "PENDING"
	PreRegCompleted = "COMPLETED"
	PreRegCancelled = "CANCELLED"
)

// PreRegistrationEntry is a call-ahead waiting-list entry. It is external to a
// visit until processed and never mutates one directly.
type PreRegistrationEntry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Phone     string    `gorm:"column:phone;not null;index" json:"phone"`
	Priority  int       `gorm:"column:priority;check:priority IN (1, 2, 3);not null;default:3" json:"priority"`
	PatientID *string   `gorm:"column:patient_id;index" json:"patient_id"`
	Status    string    `gorm:"column:status;check:status IN ('PENDING', 'COMPLETED', 'CANCELLED');not null;default:'PENDING'" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PreRegistrationEntry) TableName() string {
	return "pre_registration_entry"
}

// HasPendingConflict reports whether the waiting list already holds a PENDING
// entry for this phone or, when one is linked, this patient. Processed and
// cancelled entries never block a new call-ahead.
func HasPendingConflict(entries []PreRegistrationEntry, phone string, patientID *string) bool {
	for i := range entries {
		if entries[i].Status != PreRegPending {
			continue
		}
		if entries[i].Phone == phone {
			return true
		}
		if patientID != nil && entries[i].PatientID != nil && *entries[i].PatientID == *patientID {
			return true
		}
	}
	return false
}
