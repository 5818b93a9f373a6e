package auth

import (
	"errors"
	"testing"
)

func TestVerifyAdminKey(t *testing.T) {
	tests := []struct {
		name       string
		presented  string
		configured string
		wantErr    bool
	}{
		{"matching key", "secret", "secret", false},
		{"wrong key", "guess", "secret", true},
		{"empty presented", "", "secret", true},
		{"empty configured never matches", "", "", true},
		{"prefix is not enough", "secre", "secret", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyAdminKey(tt.presented, tt.configured)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAdminKey) {
					t.Errorf("Expected ErrInvalidAdminKey, got %v", err)
				}
			} else if err != nil {
				t.Errorf("Expected success, got %v", err)
			}
		})
	}
}

func TestNewBallotID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewBallotID()
		if id == "" {
			t.Fatal("Expected non-empty ballot id")
		}
		if seen[id] {
			t.Fatalf("Duplicate ballot id: %s", id)
		}
		seen[id] = true
	}
}
