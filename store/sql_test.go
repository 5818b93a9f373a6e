package store

import (
	"errors"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/ballot-box/models"
)

func openSQLStore(t *testing.T) *SQLStore {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "election.db")
	st, err := NewSQLStore("sqlite", dsn)
	if err != nil {
		t.Fatalf("NewSQLStore failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	err = st.SeedVoters([]models.Voter{
		{ID: "VOTER-001", Name: "Esron T.", Phone: "+15550000001"},
		{ID: "VOTER-002", Name: "John Doe"},
		{ID: "VOTER-003", Name: "No Phone Either"},
		{ID: "VOTER-USED", Name: "Jane Doe", Used: true},
	})
	if err != nil {
		t.Fatalf("SeedVoters failed: %v", err)
	}
	return st
}

func TestSQLGetVoter(t *testing.T) {
	st := openSQLStore(t)

	v, err := st.GetVoter("VOTER-001")
	if err != nil {
		t.Fatalf("GetVoter failed: %v", err)
	}
	if v.Phone != "+15550000001" {
		t.Errorf("Expected phone to round-trip, got %q", v.Phone)
	}

	if _, err := st.GetVoter("+15550000001"); err != nil {
		t.Errorf("Expected phone lookup to succeed, got %v", err)
	}
	if _, err := st.GetVoter("VOTER-999"); !errors.Is(err, ErrVoterNotFound) {
		t.Errorf("Expected ErrVoterNotFound, got %v", err)
	}
	if _, err := st.GetVoter("VOTER-USED"); !errors.Is(err, ErrAlreadyVoted) {
		t.Errorf("Expected ErrAlreadyVoted, got %v", err)
	}
}

func TestSQLSubmitBallot(t *testing.T) {
	st := openSQLStore(t)

	selections := map[string]string{"r1": "x", "r2": "z"}
	rec, err := st.SubmitBallot("VOTER-001", selections, "hello", "10.0.0.1")
	if err != nil {
		t.Fatalf("SubmitBallot failed: %v", err)
	}
	if rec.ID == "" || rec.VoterID != "VOTER-001" {
		t.Errorf("Unexpected record: %+v", rec)
	}

	if _, err := st.SubmitBallot("VOTER-001", selections, "", ""); !errors.Is(err, ErrAlreadyVoted) {
		t.Errorf("Expected ErrAlreadyVoted on resubmit, got %v", err)
	}
	if _, err := st.SubmitBallot("+15550000001", selections, "", ""); !errors.Is(err, ErrAlreadyVoted) {
		t.Errorf("Expected ErrAlreadyVoted via phone, got %v", err)
	}
	if _, err := st.SubmitBallot("VOTER-999", selections, "", ""); !errors.Is(err, ErrVoterNotFound) {
		t.Errorf("Expected ErrVoterNotFound, got %v", err)
	}

	ballots, err := st.Ballots()
	if err != nil {
		t.Fatalf("Ballots failed: %v", err)
	}
	if len(ballots) != 1 {
		t.Fatalf("Expected 1 ballot, got %d", len(ballots))
	}
	got := ballots[0]
	if got.Selections["r1"] != "x" || got.Selections["r2"] != "z" {
		t.Errorf("Selections did not round-trip: %+v", got.Selections)
	}
	if got.Note != "hello" || got.IP != "10.0.0.1" {
		t.Errorf("Note/IP did not round-trip: %+v", got)
	}
	if got.TS.IsZero() {
		t.Error("Expected a submission timestamp")
	}
}

func TestSQLSeedPreservesUsedFlag(t *testing.T) {
	st := openSQLStore(t)

	if _, err := st.SubmitBallot("VOTER-002", map[string]string{"r1": "x"}, "", ""); err != nil {
		t.Fatalf("SubmitBallot failed: %v", err)
	}

	// Re-seeding (a restart) must not reset the used flag.
	err := st.SeedVoters([]models.Voter{{ID: "VOTER-002", Name: "John Doe"}})
	if err != nil {
		t.Fatalf("SeedVoters failed: %v", err)
	}
	if _, err := st.GetVoter("VOTER-002"); !errors.Is(err, ErrAlreadyVoted) {
		t.Errorf("Used flag lost on re-seed: %v", err)
	}
}
