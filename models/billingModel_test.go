package models

import (
	"errors"
	"testing"
	"time"
)

func billingWithTotal(cents int64) *Billing {
	return &Billing{
		BillingID:  "B-1001",
		Department: DeptConsultation,
		Services: []BillingService{
			{ServiceCode: ServiceCodeConsultation, UnitPriceCents: cents, Quantity: 1, LineTotalCents: cents},
		},
	}
}

func TestBillingSettlementInCents(t *testing.T) {
	// A 200.00 consultation paid with two partial payments.
	billing := billingWithTotal(20000)
	if billing.IsSettled() {
		t.Fatal("billing with no payments must not be settled")
	}

	billing.Payments = append(billing.Payments, Payment{Method: PayCash, AmountCents: 15000})
	if billing.IsSettled() {
		t.Fatalf("paid %d of %d, must not be settled", billing.PaidCents(), billing.TotalCents())
	}

	billing.Payments = append(billing.Payments, Payment{Method: PayBank, AmountCents: 5000, BankName: "First Bank", TransNumber: "TX-9"})
	if !billing.IsSettled() {
		t.Fatalf("paid %d of %d, must be settled", billing.PaidCents(), billing.TotalCents())
	}
}

func TestBillingOverpaymentStillSettled(t *testing.T) {
	billing := billingWithTotal(20000)
	billing.Payments = []Payment{{Method: PayCash, AmountCents: 25000}}
	if !billing.IsSettled() {
		t.Fatal("overpaid billing must be settled")
	}
}

func TestBillingSettledFlagIsMonotonic(t *testing.T) {
	billing := billingWithTotal(20000)
	billing.Payments = []Payment{{Method: PayCash, AmountCents: 20000}}
	billing.Settled = true

	// A service added after settlement must not reopen the billing.
	billing.Services = append(billing.Services, BillingService{
		ServiceCode: "LAB-CBC", UnitPriceCents: 15000, Quantity: 1, LineTotalCents: 15000,
	})
	if !billing.IsSettled() {
		t.Fatal("settled flag must not revert")
	}
}

func TestBillingLineTotals(t *testing.T) {
	line := BillingService{UnitPriceCents: 7500, Quantity: 3}
	line.ComputeLineTotal()
	if line.LineTotalCents != 22500 {
		t.Fatalf("got %d, want 22500", line.LineTotalCents)
	}

	billing := &Billing{Services: []BillingService{
		{LineTotalCents: 22500},
		{LineTotalCents: 5000},
	}}
	if billing.TotalCents() != 27500 {
		t.Fatalf("got %d, want 27500", billing.TotalCents())
	}
}

func TestEmergencyBillingRunningTotal(t *testing.T) {
	// An emergency visit accrues a 5.00 starter charge, then more services.
	billing := &EmergencyBilling{
		ID:      "EB-1001",
		VisitID: "V-1001",
		Status:  EmergencyRunning,
		Services: []EmergencyService{
			{ServiceCode: "EMG-BASE", UnitPriceCents: 500, Quantity: 1, LineTotalCents: 500},
		},
	}
	if got := billing.RunningTotalCents(); got != 500 {
		t.Fatalf("got %d, want 500", got)
	}

	billing.Services = append(billing.Services, EmergencyService{
		ServiceCode: "RAD-XRC", UnitPriceCents: 30000, Quantity: 1, LineTotalCents: 30000,
	})
	if got := billing.RunningTotalCents(); got != 30500 {
		t.Fatalf("got %d, want 30500", got)
	}
}

func TestEmergencyBillingAcknowledgeOnce(t *testing.T) {
	now := time.Now()
	billing := &EmergencyBilling{
		ID:     "EB-1001",
		Status: EmergencyRunning,
		Services: []EmergencyService{
			{LineTotalCents: 500},
		},
	}

	if err := billing.Acknowledge("user-7", "reconciled at desk", now); err != nil {
		t.Fatalf("first acknowledgment failed: %v", err)
	}
	if billing.Status != EmergencyPaid {
		t.Fatalf("status = %q, want PAID", billing.Status)
	}
	if billing.TotalCents != 500 {
		t.Fatalf("frozen total = %d, want 500", billing.TotalCents)
	}
	if billing.AcknowledgedAt == nil || billing.AcknowledgedBy != "user-7" {
		t.Fatal("acknowledgment audit fields not recorded")
	}

	if err := billing.Acknowledge("user-8", "", now); !errors.Is(err, ErrAlreadyAcknowledged) {
		t.Fatalf("second acknowledgment: got %v, want ErrAlreadyAcknowledged", err)
	}
	if billing.AcknowledgedBy != "user-7" {
		t.Fatal("second acknowledgment must not overwrite the first")
	}
}
