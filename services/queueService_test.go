package services

import (
	"testing"
	"time"

	"HillsideClinic/models"
)

func TestPickLeastLoaded(t *testing.T) {
	workloads := []DoctorWorkload{
		{DoctorID: "DR-A", Workload: 3},
		{DoctorID: "DR-B", Workload: 1},
		{DoctorID: "DR-C", Workload: 4},
		{DoctorID: "DR-D", Workload: 1},
	}
	doctorID, ok := PickLeastLoaded(workloads)
	if !ok {
		t.Fatal("expected a recommendation")
	}
	// DR-B and DR-D tie on workload; the lower identifier wins.
	if doctorID != "DR-B" {
		t.Fatalf("got %q, want DR-B", doctorID)
	}
}

func TestPickLeastLoadedNoDoctors(t *testing.T) {
	if _, ok := PickLeastLoaded(nil); ok {
		t.Fatal("empty roster must yield no recommendation")
	}
}

func TestPickLeastLoadedOrderIndependent(t *testing.T) {
	workloads := []DoctorWorkload{
		{DoctorID: "DR-D", Workload: 1},
		{DoctorID: "DR-C", Workload: 4},
		{DoctorID: "DR-B", Workload: 1},
		{DoctorID: "DR-A", Workload: 3},
	}
	doctorID, _ := PickLeastLoaded(workloads)
	if doctorID != "DR-B" {
		t.Fatalf("got %q, want DR-B regardless of input order", doctorID)
	}
}

func TestSortQueueOrdering(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	visits := []models.Visit{
		{ID: "V-1", Priority: models.PriorityNormal, ArrivedAt: base},
		{ID: "V-2", Priority: models.PriorityUrgent, ArrivedAt: base.Add(20 * time.Minute)},
		{ID: "V-3", IsEmergency: true, Priority: models.PriorityUrgent, ArrivedAt: base.Add(30 * time.Minute)},
		{ID: "V-4", Priority: models.PriorityUrgent, ArrivedAt: base.Add(10 * time.Minute)},
		{ID: "V-5", Priority: models.PriorityPriority, ArrivedAt: base.Add(5 * time.Minute)},
	}

	SortQueue(visits)

	want := []string{"V-3", "V-4", "V-2", "V-5", "V-1"}
	for i, id := range want {
		if visits[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, visits[i].ID, id)
		}
	}
}

func TestSortQueueStableForEqualKeys(t *testing.T) {
	arrived := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	visits := []models.Visit{
		{ID: "V-1", Priority: models.PriorityNormal, ArrivedAt: arrived},
		{ID: "V-2", Priority: models.PriorityNormal, ArrivedAt: arrived},
	}
	SortQueue(visits)
	if visits[0].ID != "V-1" || visits[1].ID != "V-2" {
		t.Fatal("equal-key visits must keep their original order")
	}
}
