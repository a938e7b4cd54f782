package services

import (
	"HillsideClinic/repositories"
	"HillsideClinic/utils"
	"context"
	"log"
)

// NotificationService is the email collaborator at the event boundary. It
// reacts to domain events; the core never waits on it.
type NotificationService struct {
	patients *repositories.PatientRepository
}

func NewNotificationService(patients *repositories.PatientRepository, bus *EventBus) *NotificationService {
	s := &NotificationService{patients: patients}
	bus.Subscribe(s.handleEvent)
	return s
}

func (s *NotificationService) handleEvent(ctx context.Context, event Event) {
	if event.Name != EventCardActivated {
		return
	}

	patient, err := s.patients.GetByID(ctx, event.PatientID)
	if err != nil || patient == nil {
		log.Printf("Failed to load patient %s for notification: %v", event.PatientID, err)
		return
	}
	if patient.Email == "" {
		return
	}

	expiry := ""
	if patient.CardExpiryDate != nil {
		expiry = patient.CardExpiryDate.Format("2006-01-02")
	}
	name := patient.FirstName + " " + patient.LastName
	if err := utils.SendCardActivatedEmail(patient.Email, name, expiry); err != nil {
		log.Printf("Failed to send card activation email to %s: %v", patient.Email, err)
	}
}
