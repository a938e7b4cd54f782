package services

import (
	"HillsideClinic/models"
	"HillsideClinic/repositories"
	"context"
	"errors"
	"sort"
)

// DoctorWorkload pairs a doctor with their derived workload.
type DoctorWorkload struct {
	DoctorID  string `json:"doctor_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Workload  int64  `json:"workload"`
}

// QueueService assigns doctors and orders per-doctor queues. It performs no
// mutation; every answer is a derived query over current visit state,
// recomputed on demand and tolerant of poll-interval staleness.
type QueueService struct {
	visits  *repositories.VisitRepository
	doctors *repositories.DoctorRepository
}

func NewQueueService(visits *repositories.VisitRepository, doctors *repositories.DoctorRepository) *QueueService {
	return &QueueService{visits: visits, doctors: doctors}
}

// Workload counts the visits waiting to see the doctor plus those awaiting
// the doctor's review of returned results. Never stored, so it cannot drift
// from the actual assignments.
func (s *QueueService) Workload(ctx context.Context, doctorID string) (int64, error) {
	waiting, err := s.visits.CountByDoctorInStatuses(ctx, doctorID, models.NewPatientStatuses)
	if err != nil {
		return 0, err
	}
	reviewing, err := s.visits.CountByDoctorInStatuses(ctx, doctorID, []string{models.VisitAwaitingResults})
	if err != nil {
		return 0, err
	}
	return waiting + reviewing, nil
}

// Workloads returns the derived workload of every doctor, ordered by
// doctor identifier.
func (s *QueueService) Workloads(ctx context.Context) ([]DoctorWorkload, error) {
	doctors, err := s.doctors.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	workloads := make([]DoctorWorkload, 0, len(doctors))
	for _, doctor := range doctors {
		load, err := s.Workload(ctx, doctor.ID)
		if err != nil {
			return nil, err
		}
		workloads = append(workloads, DoctorWorkload{
			DoctorID:  doctor.ID,
			FirstName: doctor.FirstName,
			LastName:  doctor.LastName,
			Workload:  load,
		})
	}
	return workloads, nil
}

// RecommendDoctor returns the least-loaded doctor.
func (s *QueueService) RecommendDoctor(ctx context.Context) (string, error) {
	workloads, err := s.Workloads(ctx)
	if err != nil {
		return "", err
	}
	doctorID, ok := PickLeastLoaded(workloads)
	if !ok {
		return "", errors.New("no doctors available")
	}
	return doctorID, nil
}

// PickLeastLoaded selects the doctor with minimum workload; ties break by
// doctor identifier ascending so the recommendation is deterministic.
func PickLeastLoaded(workloads []DoctorWorkload) (string, bool) {
	if len(workloads) == 0 {
		return "", false
	}
	best := workloads[0]
	for _, w := range workloads[1:] {
		if w.Workload < best.Workload || (w.Workload == best.Workload && w.DoctorID < best.DoctorID) {
			best = w
		}
	}
	return best.DoctorID, true
}

// QueueFor returns the visits waiting on a doctor in announcement order.
func (s *QueueService) QueueFor(ctx context.Context, doctorID string) ([]models.Visit, error) {
	visits, err := s.visits.ListQueueForDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	SortQueue(visits)
	return visits, nil
}

// SortQueue orders a doctor's queue: emergencies first, then priority, then
// arrival time. This ordering is the contract reception relies on when
// telling a patient who is next.
func SortQueue(visits []models.Visit) {
	sort.SliceStable(visits, func(i, j int) bool {
		a, b := visits[i], visits[j]
		if a.IsEmergency != b.IsEmergency {
			return a.IsEmergency
		}
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.ArrivedAt.Before(b.ArrivedAt)
	})
}
