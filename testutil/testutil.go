// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/ballot-box/cliparse"
	"github.com/danielhkuo/ballot-box/schema"
	"github.com/danielhkuo/ballot-box/store"
)

// TestAdminKey gates the admin endpoints in tests.
const TestAdminKey = "test-admin-key"

// SchemaJSON declares two races: dir-construction with two candidates,
// chef-etudes with one.
const SchemaJSON = `{
  "positions": [
    {"id": "dir-construction", "title": "Director of Construction"},
    {"id": "chef-etudes", "title": "Head of Studies"}
  ],
  "candidates": [
    {"id": "c1", "name": "Alice K.", "bio": "Civil engineer, 10 years", "raceId": "dir-construction"},
    {"id": "c2", "name": "Benoit M.", "bio": "Architect", "raceId": "dir-construction"},
    {"id": "c3", "name": "Chantal N.", "raceId": "chef-etudes"}
  ]
}`

// RegistryJSON holds two fresh voters (one with a phone number) and
// one that already voted.
const RegistryJSON = `{
  "voters": [
    {"id": "VOTER-001", "name": "Esron T.", "phone": "+15550000001", "used": false},
    {"id": "VOTER-002", "name": "John Doe", "used": false},
    {"id": "VOTER-USED", "name": "Jane Doe", "used": true}
  ]
}`

// SetupDataDir writes the standard schema and registry fixtures into a
// fresh temp directory.
func SetupDataDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	WriteFile(t, dir, "candidates.json", SchemaJSON)
	WriteFile(t, dir, "voters.json", RegistryJSON)
	return dir
}

// WriteFile writes one file under dir.
func WriteFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

// LoadTestSchema loads the schema fixture from the data dir.
func LoadTestSchema(t *testing.T, dir string) *schema.Schema {
	t.Helper()
	sch, err := schema.Load(filepath.Join(dir, "candidates.json"))
	if err != nil {
		t.Fatalf("Failed to load test schema: %v", err)
	}
	return sch
}

// NewTestStore opens a file store over a fresh fixture directory and
// returns both.
func NewTestStore(t *testing.T) (*store.FileStore, string) {
	t.Helper()
	dir := SetupDataDir(t)
	st, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	return st, dir
}

// GetTestConfig returns a standard test configuration over dir.
func GetTestConfig(dir string) cliparse.Config {
	return cliparse.Config{
		Port:      3000,
		DataDir:   dir,
		StoreType: cliparse.StoreFile,
		AdminKey:  TestAdminKey,
	}
}

// ValidSelections covers every fixture race with a valid candidate.
func ValidSelections() map[string]string {
	return map[string]string{
		"dir-construction": "c1",
		"chef-etudes":      "c3",
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
