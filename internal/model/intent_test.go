package model

import "testing"

func TestIntentRoundTrip(t *testing.T) {
	if len(Intents) != 14 {
		t.Fatalf("Expected 14 intents, got %d", len(Intents))
	}

	for _, intent := range Intents {
		parsed, err := ParseIntent(intent.String())
		if err != nil {
			t.Errorf("ParseIntent(%q) failed: %v", intent.String(), err)
			continue
		}
		if parsed != intent {
			t.Errorf("Round trip of %q yielded %q", intent.String(), parsed.String())
		}
	}
}

func TestParseIntentUnknown(t *testing.T) {
	if _, err := ParseIntent("reboot_universe"); err == nil {
		t.Error("Expected error for unknown intent name")
	}
}

func TestUIStateCopyOnWrite(t *testing.T) {
	users := []User{{ID: 1, Name: "Amira"}}
	base := UIState{}.WithUsers(users)

	// Mutating the input slice must not leak into the snapshot.
	users[0].Name = "changed"
	if base.Users[0].Name != "Amira" {
		t.Errorf("Snapshot aliases caller slice: got %q", base.Users[0].Name)
	}

	loading := base.WithLoading()
	if !loading.IsLoading {
		t.Error("WithLoading did not set IsLoading")
	}
	if base.IsLoading {
		t.Error("WithLoading mutated the original snapshot")
	}

	failed := base.WithError("boom")
	if failed.IsLoading || failed.ErrorMessage != "boom" {
		t.Errorf("WithError produced %+v", failed)
	}
	if len(failed.Users) != 1 {
		t.Errorf("WithError dropped users: %+v", failed.Users)
	}

	ok := failed.WithUsers([]User{{ID: 2, Name: "Badr"}})
	if ok.ErrorMessage != "" {
		t.Errorf("WithUsers kept stale error message %q", ok.ErrorMessage)
	}
}
