package audit

import (
	"fmt"
	"testing"
)

func TestInMemoryAuditorBounded(t *testing.T) {
	a := NewInMemoryAuditor(3)
	for i := 0; i < 5; i++ {
		if err := a.Log(Entry{ID: fmt.Sprintf("req-%d", i)}); err != nil {
			t.Fatalf("Log() error = %v", err)
		}
	}

	got, err := a.GetRecent(10)
	if err != nil {
		t.Fatalf("GetRecent() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("GetRecent() returned %d entries, want 3", len(got))
	}
	if got[0].ID != "req-2" || got[2].ID != "req-4" {
		t.Errorf("unexpected retained entries: %+v", got)
	}
}

func TestInMemoryAuditorGetRecentLimit(t *testing.T) {
	a := NewInMemoryAuditor(0)
	for i := 0; i < 4; i++ {
		_ = a.Log(Entry{ID: fmt.Sprintf("req-%d", i)})
	}

	got, err := a.GetRecent(2)
	if err != nil {
		t.Fatalf("GetRecent() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "req-2" {
		t.Errorf("GetRecent(2) = %+v", got)
	}
}

func TestFingerprintStable(t *testing.T) {
	if Fingerprint("AV~abc") != Fingerprint("AV~abc") {
		t.Error("fingerprint is not stable")
	}
	if Fingerprint("AV~abc") == Fingerprint("AV~abd") {
		t.Error("fingerprint collision for different tokens")
	}
}
