package services

import (
	"testing"
	"time"

	"HillsideClinic/models"
)

func TestSortWaitingList(t *testing.T) {
	base := time.Now()
	entries := []models.PreRegistrationEntry{
		{ID: 1, Name: "Late Normal", Priority: models.PriorityNormal, CreatedAt: base.Add(3 * time.Minute)},
		{ID: 2, Name: "Urgent", Priority: models.PriorityUrgent, CreatedAt: base.Add(4 * time.Minute)},
		{ID: 3, Name: "Early Normal", Priority: models.PriorityNormal, CreatedAt: base},
		{ID: 4, Name: "Priority", Priority: models.PriorityPriority, CreatedAt: base.Add(2 * time.Minute)},
	}

	SortWaitingList(entries)

	want := []uint{2, 4, 3, 1}
	for i, id := range want {
		if entries[i].ID != id {
			t.Fatalf("position %d: got entry %d, want %d", i, entries[i].ID, id)
		}
	}
}

func TestSortWaitingListStable(t *testing.T) {
	at := time.Now()
	entries := []models.PreRegistrationEntry{
		{ID: 10, Priority: models.PriorityNormal, CreatedAt: at},
		{ID: 11, Priority: models.PriorityNormal, CreatedAt: at},
		{ID: 12, Priority: models.PriorityNormal, CreatedAt: at},
	}

	SortWaitingList(entries)

	for i, id := range []uint{10, 11, 12} {
		if entries[i].ID != id {
			t.Fatalf("equal entries must keep arrival order, position %d got %d", i, entries[i].ID)
		}
	}
}
