package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/ballot-box/models"
	"github.com/danielhkuo/ballot-box/schema"
	"github.com/danielhkuo/ballot-box/store"
	"github.com/danielhkuo/ballot-box/testutil"
)

func newVotingHandler(t *testing.T) (*VotingHandler, *store.FileStore, *CloseState) {
	t.Helper()
	st, dir := testutil.NewTestStore(t)
	sch := testutil.LoadTestSchema(t, dir)
	state := NewCloseState()
	return NewVotingHandler(st, sch, testutil.GetTestConfig(dir), state), st, state
}

func TestAuthenticate(t *testing.T) {
	handler, _, _ := newVotingHandler(t)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{
			name:           "valid voter code",
			body:           models.AuthRequest{Identity: "VOTER-001"},
			expectedStatus: 200,
		},
		{
			name:           "valid phone number",
			body:           models.AuthRequest{Identity: "+15550000001"},
			expectedStatus: 200,
		},
		{
			name:           "identity with surrounding whitespace",
			body:           models.AuthRequest{Identity: "  VOTER-002  "},
			expectedStatus: 200,
		},
		{
			name:           "unknown identity",
			body:           models.AuthRequest{Identity: "VOTER-999"},
			expectedStatus: 400,
		},
		{
			name:           "already voted",
			body:           models.AuthRequest{Identity: "VOTER-USED"},
			expectedStatus: 400,
		},
		{
			name:           "empty identity",
			body:           models.AuthRequest{},
			expectedStatus: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/auth", tt.body, nil)
			w := httptest.NewRecorder()

			handler.Authenticate(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == 200 {
				var resp models.AuthResponse
				testutil.AssertJSON(t, w, &resp)
				if !resp.OK {
					t.Error("Expected ok:true")
				}
			} else {
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Message == "" {
					t.Error("Expected a human-readable message")
				}
			}
		})
	}
}

// Authenticating repeatedly never burns the code.
func TestAuthenticateDoesNotMutate(t *testing.T) {
	handler, _, _ := newVotingHandler(t)

	for i := 0; i < 3; i++ {
		req := testutil.MakeRequest("POST", "/api/auth", models.AuthRequest{Identity: "VOTER-001"}, nil)
		w := httptest.NewRecorder()
		handler.Authenticate(w, req)
		testutil.AssertStatus(t, w, 200)
	}
}

func TestSubmitVote(t *testing.T) {
	tests := []struct {
		name           string
		body           models.VoteRequest
		expectedStatus int
		wantMessage    string
	}{
		{
			name: "valid ballot",
			body: models.VoteRequest{
				Identity:   "VOTER-001",
				Selections: testutil.ValidSelections(),
				Note:       "for the record",
			},
			expectedStatus: 200,
		},
		{
			name: "missing selection for one race",
			body: models.VoteRequest{
				Identity:   "VOTER-001",
				Selections: map[string]string{"dir-construction": "c1"},
			},
			expectedStatus: 400,
			wantMessage:    "Missing selection",
		},
		{
			name: "candidate from the wrong race",
			body: models.VoteRequest{
				Identity: "VOTER-001",
				Selections: map[string]string{
					"dir-construction": "c3", // c3 runs in chef-etudes
					"chef-etudes":      "c3",
				},
			},
			expectedStatus: 400,
			wantMessage:    "Invalid candidate",
		},
		{
			name: "unknown candidate id",
			body: models.VoteRequest{
				Identity: "VOTER-001",
				Selections: map[string]string{
					"dir-construction": "c99",
					"chef-etudes":      "c3",
				},
			},
			expectedStatus: 400,
			wantMessage:    "Invalid candidate",
		},
		{
			name: "unknown race key",
			body: models.VoteRequest{
				Identity: "VOTER-001",
				Selections: map[string]string{
					"dir-construction": "c1",
					"chef-etudes":      "c3",
					"made-up-race":     "c1",
				},
			},
			expectedStatus: 400,
			wantMessage:    "Unknown race",
		},
		{
			name: "unknown voter",
			body: models.VoteRequest{
				Identity:   "VOTER-999",
				Selections: testutil.ValidSelections(),
			},
			expectedStatus: 400,
			wantMessage:    "not found",
		},
		{
			name: "voter already marked used",
			body: models.VoteRequest{
				Identity:   "VOTER-USED",
				Selections: testutil.ValidSelections(),
			},
			expectedStatus: 400,
			wantMessage:    "already voted",
		},
		{
			name:           "no selections at all",
			body:           models.VoteRequest{Identity: "VOTER-001"},
			expectedStatus: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, st, _ := newVotingHandler(t)

			req := testutil.MakeRequest("POST", "/api/vote", tt.body, nil)
			w := httptest.NewRecorder()

			handler.SubmitVote(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			ballots, err := st.Ballots()
			if err != nil {
				t.Fatalf("Ballots failed: %v", err)
			}

			if tt.expectedStatus == 200 {
				var resp models.VoteResponse
				testutil.AssertJSON(t, w, &resp)
				if !resp.OK || resp.BallotID == "" {
					t.Errorf("Expected ok with ballot id, got %+v", resp)
				}
				if len(ballots) != 1 {
					t.Errorf("Expected 1 recorded ballot, got %d", len(ballots))
				}
			} else {
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				if tt.wantMessage != "" && !strings.Contains(resp.Message, tt.wantMessage) {
					t.Errorf("Expected message containing %q, got %q", tt.wantMessage, resp.Message)
				}
				if len(ballots) != 0 {
					t.Errorf("Rejected request must not record a ballot, got %d", len(ballots))
				}
			}
		})
	}
}

func TestSubmitVoteTwice(t *testing.T) {
	handler, st, _ := newVotingHandler(t)

	body := models.VoteRequest{Identity: "VOTER-001", Selections: testutil.ValidSelections()}

	w := httptest.NewRecorder()
	handler.SubmitVote(w, testutil.MakeRequest("POST", "/api/vote", body, nil))
	testutil.AssertStatus(t, w, 200)

	// Same identity and the voter's other identity are both refused.
	w = httptest.NewRecorder()
	handler.SubmitVote(w, testutil.MakeRequest("POST", "/api/vote", body, nil))
	testutil.AssertStatus(t, w, 400)

	body.Identity = "+15550000001"
	w = httptest.NewRecorder()
	handler.SubmitVote(w, testutil.MakeRequest("POST", "/api/vote", body, nil))
	testutil.AssertStatus(t, w, 400)

	ballots, _ := st.Ballots()
	if len(ballots) != 1 {
		t.Errorf("Expected exactly 1 ballot, got %d", len(ballots))
	}
}

func TestSubmitVoteWhenClosed(t *testing.T) {
	handler, st, state := newVotingHandler(t)

	past := time.Now().Add(-time.Hour)
	state.Set(&past)

	req := testutil.MakeRequest("POST", "/api/vote", models.VoteRequest{
		Identity:   "VOTER-001",
		Selections: testutil.ValidSelections(),
	}, nil)
	w := httptest.NewRecorder()

	handler.SubmitVote(w, req)

	testutil.AssertStatus(t, w, 423)

	ballots, _ := st.Ballots()
	if len(ballots) != 0 {
		t.Errorf("Closed election must not record ballots, got %d", len(ballots))
	}

	// A future close time keeps voting open.
	future := time.Now().Add(time.Hour)
	state.Set(&future)

	w = httptest.NewRecorder()
	handler.SubmitVote(w, testutil.MakeRequest("POST", "/api/vote", models.VoteRequest{
		Identity:   "VOTER-001",
		Selections: testutil.ValidSelections(),
	}, nil))
	testutil.AssertStatus(t, w, 200)
}

func TestSubmitVoteNotifyURL(t *testing.T) {
	st, dir := testutil.NewTestStore(t)
	sch := testutil.LoadTestSchema(t, dir)
	cfg := testutil.GetTestConfig(dir)
	cfg.AdminContact = "+15559990000"
	handler := NewVotingHandler(st, sch, cfg, NewCloseState())

	req := testutil.MakeRequest("POST", "/api/vote", models.VoteRequest{
		Identity:   "VOTER-001",
		Selections: testutil.ValidSelections(),
	}, nil)
	w := httptest.NewRecorder()

	handler.SubmitVote(w, req)
	testutil.AssertStatus(t, w, 200)

	var resp models.VoteResponse
	testutil.AssertJSON(t, w, &resp)
	if !strings.HasPrefix(resp.NotifyURL, "https://wa.me/+15559990000?text=") {
		t.Errorf("Unexpected notify URL: %q", resp.NotifyURL)
	}
	if !strings.Contains(resp.NotifyURL, "text=") || !strings.Contains(resp.NotifyURL, "Receipt") {
		t.Errorf("Notify URL missing receipt text: %q", resp.NotifyURL)
	}
}

func TestSchemaEndpoint(t *testing.T) {
	handler, _, _ := newVotingHandler(t)

	w := httptest.NewRecorder()
	handler.Schema(w, testutil.MakeRequest("GET", "/api/schema", nil, nil))

	testutil.AssertStatus(t, w, 200)

	var resp schema.Schema
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Positions) != 2 || len(resp.Candidates) != 3 {
		t.Errorf("Unexpected schema payload: %+v", resp)
	}
	if resp.Candidates[0].RaceID != "dir-construction" {
		t.Errorf("Expected raceId field to round-trip, got %+v", resp.Candidates[0])
	}
}

func TestStatusEndpoint(t *testing.T) {
	handler, _, state := newVotingHandler(t)

	w := httptest.NewRecorder()
	handler.Status(w, testutil.MakeRequest("GET", "/api/status", nil, nil))
	testutil.AssertStatus(t, w, 200)

	var resp models.StatusResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.CloseAt != nil {
		t.Errorf("Expected null closeAt, got %v", resp.CloseAt)
	}

	closeAt := time.Date(2026, 9, 28, 23, 59, 0, 0, time.UTC)
	state.Set(&closeAt)

	w = httptest.NewRecorder()
	handler.Status(w, testutil.MakeRequest("GET", "/api/status", nil, nil))
	testutil.AssertJSON(t, w, &resp)
	if resp.CloseAt == nil || !resp.CloseAt.Equal(closeAt) {
		t.Errorf("Expected closeAt %v, got %v", closeAt, resp.CloseAt)
	}
}
