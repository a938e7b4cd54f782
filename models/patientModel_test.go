package models

import (
	"testing"
	"time"
)

func TestEffectiveCardStatus(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	patient := &Patient{CardStatus: CardActive, CardExpiryDate: &future}
	if got := patient.EffectiveCardStatus(now); got != CardActive {
		t.Errorf("active card with future expiry: got %q", got)
	}

	patient = &Patient{CardStatus: CardActive, CardExpiryDate: &past}
	if got := patient.EffectiveCardStatus(now); got != CardExpired {
		t.Errorf("active card past expiry: got %q, want EXPIRED", got)
	}

	patient = &Patient{CardStatus: CardInactive}
	if got := patient.EffectiveCardStatus(now); got != CardInactive {
		t.Errorf("inactive card: got %q", got)
	}
}

func TestCanCreateVisit(t *testing.T) {
	now := time.Now()
	expiry := now.Add(CardValidity)

	patient := &Patient{CardStatus: CardActive, CardExpiryDate: &expiry}
	if !patient.CanCreateVisit(now) {
		t.Error("patient with active card must be able to open a visit")
	}

	for _, status := range []string{CardInactive, CardExpired} {
		patient := &Patient{CardStatus: status}
		if patient.CanCreateVisit(now) {
			t.Errorf("card status %s must block visit creation", status)
		}
	}

	// An ACTIVE card whose expiry elapsed blocks just the same.
	past := now.Add(-time.Hour)
	patient = &Patient{CardStatus: CardActive, CardExpiryDate: &past}
	if patient.CanCreateVisit(now) {
		t.Error("expired card must block visit creation even when stored status is ACTIVE")
	}
}

func TestHasPendingConflict(t *testing.T) {
	patientID := "PT-000042"
	otherID := "PT-000099"

	pending := []PreRegistrationEntry{
		{Phone: "0700111222", Status: PreRegPending},
	}
	if !HasPendingConflict(pending, "0700111222", nil) {
		t.Error("a second entry for a phone already pending must be rejected")
	}

	// Once the first entry is cancelled the same phone may call ahead again.
	cancelled := []PreRegistrationEntry{
		{Phone: "0700111222", Status: PreRegCancelled},
		{Phone: "0700111222", Status: PreRegCompleted},
	}
	if HasPendingConflict(cancelled, "0700111222", nil) {
		t.Error("cancelled and completed entries must not block a new entry")
	}

	// A linked patient conflicts even when the caller gives a different phone.
	linked := []PreRegistrationEntry{
		{Phone: "0700111222", Status: PreRegPending, PatientID: &patientID},
	}
	if !HasPendingConflict(linked, "0700999888", &patientID) {
		t.Error("a pending entry for the same patient must be rejected regardless of phone")
	}
	if HasPendingConflict(linked, "0700999888", &otherID) {
		t.Error("a different patient with a different phone must be accepted")
	}
	if HasPendingConflict(nil, "0700111222", &patientID) {
		t.Error("an empty waiting list must accept any entry")
	}
}
