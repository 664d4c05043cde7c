package memory

import (
	"testing"

	"github.com/RamadanElSayed/coflow/internal/model"
)

func TestRecorderEvictsOldest(t *testing.T) {
	r := NewRecorder(3)

	for i := 0; i < 5; i++ {
		r.Record(model.UIState{Users: []model.User{{ID: i}}})
	}

	snaps := r.Snapshots()
	if len(snaps) != 3 {
		t.Fatalf("Expected 3 retained snapshots, got %d", len(snaps))
	}
	if snaps[0].State.Users[0].ID != 2 {
		t.Errorf("Expected oldest retained snapshot to be #2, got #%d", snaps[0].State.Users[0].ID)
	}
	if snaps[2].State.Users[0].ID != 4 {
		t.Errorf("Expected newest snapshot to be #4, got #%d", snaps[2].State.Users[0].ID)
	}
}

func TestSnapshotsReturnsCopy(t *testing.T) {
	r := NewRecorder(2)
	r.Record(model.UIState{IsLoading: true})

	snaps := r.Snapshots()
	snaps[0].State.IsLoading = false

	if !r.Snapshots()[0].State.IsLoading {
		t.Error("Mutating the returned slice leaked into the recorder")
	}
}
