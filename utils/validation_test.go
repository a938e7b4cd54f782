package utils

import (
	"errors"
	"testing"

	"HillsideClinic/models"
)

func TestValidatePaymentPerMethod(t *testing.T) {
	cases := []struct {
		name    string
		payment models.Payment
		wantErr bool
	}{
		{"cash", models.Payment{Method: models.PayCash, AmountCents: 5000}, false},
		{"charity", models.Payment{Method: models.PayCharity, AmountCents: 5000}, false},
		{"bank complete", models.Payment{Method: models.PayBank, AmountCents: 5000, BankName: "First Bank", TransNumber: "TX-1"}, false},
		{"bank missing trans number", models.Payment{Method: models.PayBank, AmountCents: 5000, BankName: "First Bank"}, true},
		{"bank missing bank name", models.Payment{Method: models.PayBank, AmountCents: 5000, TransNumber: "TX-1"}, true},
		{"insurance complete", models.Payment{Method: models.PayInsurance, AmountCents: 5000, InsuranceID: "INS-44"}, false},
		{"insurance missing id", models.Payment{Method: models.PayInsurance, AmountCents: 5000}, true},
		{"unknown method", models.Payment{Method: "BARTER", AmountCents: 5000}, true},
		{"zero amount", models.Payment{Method: models.PayCash}, true},
		{"negative amount", models.Payment{Method: models.PayCash, AmountCents: -100}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			payment := c.payment
			err := ValidatePayment(&payment)
			if c.wantErr {
				if !errors.Is(err, models.ErrInvalidPaymentMethodData) {
					t.Fatalf("got %v, want ErrInvalidPaymentMethodData", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidatePreRegistration(t *testing.T) {
	entry := &models.PreRegistrationEntry{Name: "Jane Doe", Phone: "0788000111", Priority: models.PriorityNormal}
	if err := ValidatePreRegistration(entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry = &models.PreRegistrationEntry{Name: "Jane Doe", Phone: "0788000111", Priority: 5}
	if err := ValidatePreRegistration(entry); err == nil {
		t.Fatal("priority outside 1..3 must fail")
	}

	entry = &models.PreRegistrationEntry{Name: "", Phone: "0788000111", Priority: models.PriorityNormal}
	if err := ValidatePreRegistration(entry); err == nil {
		t.Fatal("missing name must fail")
	}
}

func TestValidatePatientData(t *testing.T) {
	patient := &models.Patient{
		FirstName:   "John",
		LastName:    "Smith",
		Sex:         "Male",
		DateOfBirth: "1985-04-12",
		Phone:       "0788000111",
	}
	if err := ValidatePatientData(patient); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	patient.DateOfBirth = "12/04/1985"
	if err := ValidatePatientData(patient); err == nil {
		t.Fatal("malformed date of birth must fail")
	}
}
