package utils

import (
	"HillsideClinic/models"
	"errors"
	"log"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validation errors
var (
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrPasswordNotComplex = errors.New("password must include at least one uppercase letter, one lowercase letter, one digit, and one special character")
)

// ValidateUserData validates staff user data using ozzo-validation.
func ValidateUserData(user models.User) error {
	err := validation.ValidateStruct(&user,
		validation.Field(&user.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&user.Email, validation.Required, is.Email),
		validation.Field(&user.Password, validation.Required.Error("password cannot be blank"), validation.By(validatePassword)),
	)
	if err != nil {
		log.Printf("Validation error: %v\n", err)
	}
	return err
}

// ValidatePatientData validates a registration payload.
func ValidatePatientData(patient *models.Patient) error {
	err := validation.ValidateStruct(patient,
		validation.Field(&patient.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&patient.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&patient.Sex, validation.Required, validation.In("Male", "Female", "Other")),
		validation.Field(&patient.DateOfBirth, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&patient.Phone, validation.Length(0, 20)),
		validation.Field(&patient.Email, validation.When(patient.Email != "", is.Email)),
	)
	if err != nil {
		log.Printf("Validation error: %v\n", err)
	}
	return err
}

// ValidatePayment validates the tagged payment payload exhaustively per
// method: BANK needs the bank name and transaction number, INSURANCE needs
// the insurance identifier. Failures surface as ErrInvalidPaymentMethodData
// so billing staff learn exactly which field to correct.
func ValidatePayment(payment *models.Payment) error {
	err := validation.ValidateStruct(payment,
		validation.Field(&payment.Method, validation.Required,
			validation.In(models.PayCash, models.PayBank, models.PayInsurance, models.PayCharity)),
		validation.Field(&payment.AmountCents, validation.Required, validation.Min(int64(1))),
		validation.Field(&payment.BankName,
			validation.When(payment.Method == models.PayBank, validation.Required.Error("bank name is required for bank payments"))),
		validation.Field(&payment.TransNumber,
			validation.When(payment.Method == models.PayBank, validation.Required.Error("transaction number is required for bank payments"))),
		validation.Field(&payment.InsuranceID,
			validation.When(payment.Method == models.PayInsurance, validation.Required.Error("insurance ID is required for insurance payments"))),
	)
	if err != nil {
		log.Printf("Payment validation error: %v\n", err)
		return models.ErrInvalidPaymentMethodData
	}
	return nil
}

// ValidatePreRegistration validates a call-ahead entry.
func ValidatePreRegistration(entry *models.PreRegistrationEntry) error {
	err := validation.ValidateStruct(entry,
		validation.Field(&entry.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&entry.Phone, validation.Required, validation.Length(5, 20)),
		validation.Field(&entry.Priority, validation.Required,
			validation.In(models.PriorityUrgent, models.PriorityPriority, models.PriorityNormal)),
	)
	if err != nil {
		log.Printf("Validation error: %v\n", err)
	}
	return err
}

// validatePassword checks the password for length and complexity.
func validatePassword(value interface{}) error {
	password, _ := value.(string)

	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	var (
		lowercaseRegex = regexp.MustCompile(`[a-z]`)
		uppercaseRegex = regexp.MustCompile(`[A-Z]`)
		digitRegex     = regexp.MustCompile(`\d`)
		specialRegex   = regexp.MustCompile(`[@$!%*?&]`)
	)

	if !lowercaseRegex.MatchString(password) ||
		!uppercaseRegex.MatchString(password) ||
		!digitRegex.MatchString(password) ||
		!specialRegex.MatchString(password) {
		return ErrPasswordNotComplex
	}

	return nil
}
