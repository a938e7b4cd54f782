package models

import (
	"errors"
	"testing"
)

func TestCanAdvanceToFollowsWorkflow(t *testing.T) {
	steps := []struct {
		from string
		to   string
	}{
		{VisitRegistered, VisitPendingPayment},
		{VisitPendingPayment, VisitWaitingForTriage},
		{VisitWaitingForTriage, VisitWaitingForDoctor},
		{VisitWaitingForDoctor, VisitUnderDoctorReview},
		{VisitUnderDoctorReview, VisitSentToBoth},
		{VisitSentToBoth, VisitAwaitingResults},
		{VisitAwaitingResults, VisitUnderDoctorReview},
		{VisitUnderDoctorReview, VisitSentToPharmacy},
		{VisitSentToPharmacy, VisitCompleted},
	}
	for _, step := range steps {
		visit := &Visit{Status: step.from}
		if err := visit.CanAdvanceTo(step.to); err != nil {
			t.Errorf("%s -> %s: unexpected error %v", step.from, step.to, err)
		}
	}
}

func TestCanAdvanceToRejectsIllegalJumps(t *testing.T) {
	cases := []struct {
		from string
		to   string
	}{
		{VisitRegistered, VisitWaitingForTriage},
		{VisitPendingPayment, VisitUnderDoctorReview},
		{VisitWaitingForTriage, VisitCompleted},
		{VisitSentToLab, VisitSentToPharmacy},
		{VisitAwaitingResults, VisitCompleted},
	}
	for _, c := range cases {
		visit := &Visit{Status: c.from}
		if err := visit.CanAdvanceTo(c.to); !errors.Is(err, ErrIllegalTransition) {
			t.Errorf("%s -> %s: got %v, want ErrIllegalTransition", c.from, c.to, err)
		}
	}
}

func TestCanAdvanceToTerminalStates(t *testing.T) {
	for _, status := range []string{VisitCompleted, VisitCancelled} {
		visit := &Visit{Status: status}
		if err := visit.CanAdvanceTo(VisitUnderDoctorReview); !errors.Is(err, ErrVisitTerminal) {
			t.Errorf("%s: got %v, want ErrVisitTerminal", status, err)
		}
		if err := visit.CanAdvanceTo(VisitCancelled); !errors.Is(err, ErrVisitTerminal) {
			t.Errorf("%s -> CANCELLED: got %v, want ErrVisitTerminal", status, err)
		}
	}
}

func TestCanAdvanceToCancelFromAnyActiveState(t *testing.T) {
	active := []string{
		VisitRegistered, VisitPendingPayment, VisitWaitingForTriage,
		VisitWaitingForDoctor, VisitInDoctorQueue, VisitUnderDoctorReview,
		VisitSentToLab, VisitSentToRadiology, VisitSentToBoth,
		VisitSentToPharmacy, VisitAwaitingResults,
	}
	for _, status := range active {
		visit := &Visit{Status: status}
		if err := visit.CanAdvanceTo(VisitCancelled); err != nil {
			t.Errorf("%s -> CANCELLED: unexpected error %v", status, err)
		}
	}
}

func TestCanAdvanceToResultsMergeRule(t *testing.T) {
	visit := &Visit{Status: VisitAwaitingResults, PendingOrderCount: 2}
	if err := visit.CanAdvanceTo(VisitUnderDoctorReview); !errors.Is(err, ErrOrdersOutstanding) {
		t.Fatalf("got %v, want ErrOrdersOutstanding", err)
	}

	visit.PendingOrderCount = 0
	if err := visit.CanAdvanceTo(VisitUnderDoctorReview); err != nil {
		t.Fatalf("with no pending orders: unexpected error %v", err)
	}
}

func TestGatingDepartment(t *testing.T) {
	visit := &Visit{Status: VisitPendingPayment}
	dept, gated := visit.GatingDepartment(VisitWaitingForTriage)
	if !gated || dept != DeptConsultation {
		t.Errorf("PENDING_PAYMENT -> WAITING_FOR_TRIAGE: got (%q, %v), want CONSULTATION", dept, gated)
	}

	visit = &Visit{Status: VisitSentToPharmacy}
	dept, gated = visit.GatingDepartment(VisitCompleted)
	if !gated || dept != DeptPharmacy {
		t.Errorf("SENT_TO_PHARMACY -> COMPLETED: got (%q, %v), want PHARMACY", dept, gated)
	}

	visit = &Visit{Status: VisitWaitingForTriage}
	if _, gated := visit.GatingDepartment(VisitWaitingForDoctor); gated {
		t.Error("WAITING_FOR_TRIAGE -> WAITING_FOR_DOCTOR should not be gated")
	}
}

func TestGatingDepartmentEmergencyBypass(t *testing.T) {
	visit := &Visit{Status: VisitSentToPharmacy, IsEmergency: true}
	if _, gated := visit.GatingDepartment(VisitCompleted); gated {
		t.Error("emergency visits must not be gated on billing settlement")
	}
	visit = &Visit{Status: VisitPendingPayment, IsEmergency: true}
	if _, gated := visit.GatingDepartment(VisitWaitingForTriage); gated {
		t.Error("emergency visits must not be gated on billing settlement")
	}
}

func TestOrderReleasable(t *testing.T) {
	unpaid := &Billing{Services: []BillingService{{LineTotalCents: 5000}}}
	settled := &Billing{Settled: true}

	if OrderReleasable(nil, settled) {
		t.Error("an order whose visit is gone must never release")
	}
	if OrderReleasable(&Visit{}, unpaid) {
		t.Error("an unsettled billing must hold the order back")
	}
	if OrderReleasable(&Visit{}, nil) {
		t.Error("a missing billing must hold the order back")
	}
	if !OrderReleasable(&Visit{}, settled) {
		t.Error("a settled billing must release the order")
	}
	if !OrderReleasable(&Visit{IsEmergency: true}, nil) {
		t.Error("emergency orders were never held back on billing")
	}
}

func TestPendingOrderDelta(t *testing.T) {
	orders := []VisitOrder{
		{Department: DeptLab},
		{Department: DeptRadiology},
	}
	if got := PendingOrderDelta(orders); got != 2 {
		t.Errorf("lab and radiology orders: delta %d, want 2", got)
	}

	// Pharmacy orders are dispensed at checkout and never hold the visit in
	// results review.
	orders = append(orders, VisitOrder{Department: DeptPharmacy})
	if got := PendingOrderDelta(orders); got != 2 {
		t.Errorf("pharmacy order must not count: delta %d, want 2", got)
	}

	if got := PendingOrderDelta([]VisitOrder{{Department: DeptPharmacy}}); got != 0 {
		t.Errorf("pharmacy-only batch: delta %d, want 0", got)
	}
	if got := PendingOrderDelta(nil); got != 0 {
		t.Errorf("empty batch: delta %d, want 0", got)
	}
}

func TestIsTerminalStatus(t *testing.T) {
	if !IsTerminalStatus(VisitCompleted) || !IsTerminalStatus(VisitCancelled) {
		t.Error("COMPLETED and CANCELLED are terminal")
	}
	if IsTerminalStatus(VisitUnderDoctorReview) {
		t.Error("UNDER_DOCTOR_REVIEW is not terminal")
	}
}
