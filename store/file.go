// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/danielhkuo/ballot-box/auth"
	"github.com/danielhkuo/ballot-box/models"
)

const (
	votersFileName = "voters.json"
	votesFileName  = "votes.json"
)

// FileStore keeps the registry and ballot store as two JSON documents
// in the data directory. Every mutation runs under one exclusive lock,
// so the check-append-mark sequence is a single critical section.
//
// Ballots are always written before the registry: should the process
// die between the two writes, the recorded ballot itself blocks a
// second submission, because the duplicate check consults the ballot
// store as well as the used flag.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore opens (and if needed initializes) the data directory.
// voters.json must already exist; an election without a registry is a
// configuration error. votes.json is created empty when absent.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", ErrUnavailable, err)
	}

	fs := &FileStore{dir: dir}

	if _, err := os.Stat(fs.votersPath()); err != nil {
		return nil, fmt.Errorf("%w: registry %s: %v", ErrUnavailable, fs.votersPath(), err)
	}

	if _, err := os.Stat(fs.votesPath()); os.IsNotExist(err) {
		if err := fs.writeVotes(votesFile{Votes: []models.VoteRecord{}}); err != nil {
			return nil, err
		}
	}

	// Fail fast on corrupt documents instead of on the first request.
	if _, err := fs.readVoters(); err != nil {
		return nil, err
	}
	if _, err := fs.readVotes(); err != nil {
		return nil, err
	}

	return fs, nil
}

func (fs *FileStore) votersPath() string { return filepath.Join(fs.dir, votersFileName) }
func (fs *FileStore) votesPath() string  { return filepath.Join(fs.dir, votesFileName) }

// GetVoter implements Store. Already-voted detection checks both the
// used flag and the ballot store, mirroring SubmitBallot.
func (fs *FileStore) GetVoter(identity string) (models.Voter, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	voter, err := fs.findVoter(identity)
	if err != nil {
		return models.Voter{}, err
	}
	if voter.Used {
		return voter, ErrAlreadyVoted
	}
	voted, err := fs.hasBallot(voter)
	if err != nil {
		return models.Voter{}, err
	}
	if voted {
		return voter, ErrAlreadyVoted
	}
	return voter, nil
}

// SubmitBallot implements Store.
func (fs *FileStore) SubmitBallot(identity string, selections map[string]string, note, ip string) (models.VoteRecord, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	reg, err := fs.readVoters()
	if err != nil {
		return models.VoteRecord{}, err
	}

	idx := -1
	for i, v := range reg.Voters {
		if matchIdentity(v, identity) {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.VoteRecord{}, ErrVoterNotFound
	}
	voter := reg.Voters[idx]
	if voter.Used {
		return models.VoteRecord{}, ErrAlreadyVoted
	}

	votes, err := fs.readVotes()
	if err != nil {
		return models.VoteRecord{}, err
	}
	for _, rec := range votes.Votes {
		if rec.VoterID == voter.ID || (voter.Phone != "" && rec.VoterID == voter.Phone) {
			return models.VoteRecord{}, ErrAlreadyVoted
		}
	}

	record := models.VoteRecord{
		ID:         auth.NewBallotID(),
		VoterID:    voter.ID,
		Selections: selections,
		TS:         time.Now().UTC(),
		Note:       note,
		IP:         ip,
	}

	// Ballot first, registry second. See the FileStore doc comment for
	// the ordering constraint.
	votes.Votes = append(votes.Votes, record)
	if err := fs.writeVotes(votes); err != nil {
		return models.VoteRecord{}, err
	}

	reg.Voters[idx].Used = true
	if err := fs.writeVoters(reg); err != nil {
		return models.VoteRecord{}, err
	}

	return record, nil
}

// Ballots implements Store.
func (fs *FileStore) Ballots() ([]models.VoteRecord, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	votes, err := fs.readVotes()
	if err != nil {
		return nil, err
	}
	return votes.Votes, nil
}

// SeedVoters implements Store. New voters are appended; existing ids
// keep their current entry and used flag.
func (fs *FileStore) SeedVoters(voters []models.Voter) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	reg, err := fs.readVoters()
	if err != nil {
		return err
	}

	known := make(map[string]bool, len(reg.Voters))
	for _, v := range reg.Voters {
		known[v.ID] = true
	}

	changed := false
	for _, v := range voters {
		if !known[v.ID] {
			reg.Voters = append(reg.Voters, v)
			known[v.ID] = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return fs.writeVoters(reg)
}

func (fs *FileStore) Close() error { return nil }

func (fs *FileStore) findVoter(identity string) (models.Voter, error) {
	reg, err := fs.readVoters()
	if err != nil {
		return models.Voter{}, err
	}
	for _, v := range reg.Voters {
		if matchIdentity(v, identity) {
			return v, nil
		}
	}
	return models.Voter{}, ErrVoterNotFound
}

func (fs *FileStore) hasBallot(voter models.Voter) (bool, error) {
	votes, err := fs.readVotes()
	if err != nil {
		return false, err
	}
	for _, rec := range votes.Votes {
		if rec.VoterID == voter.ID || (voter.Phone != "" && rec.VoterID == voter.Phone) {
			return true, nil
		}
	}
	return false, nil
}

func (fs *FileStore) readVoters() (registryFile, error) {
	raw, err := os.ReadFile(fs.votersPath())
	if err != nil {
		return registryFile{}, fmt.Errorf("%w: read voters: %v", ErrUnavailable, err)
	}
	var reg registryFile
	if err := json.Unmarshal(raw, &reg); err != nil {
		return registryFile{}, fmt.Errorf("%w: parse voters: %v", ErrUnavailable, err)
	}
	return reg, nil
}

func (fs *FileStore) readVotes() (votesFile, error) {
	raw, err := os.ReadFile(fs.votesPath())
	if err != nil {
		return votesFile{}, fmt.Errorf("%w: read votes: %v", ErrUnavailable, err)
	}
	var votes votesFile
	if err := json.Unmarshal(raw, &votes); err != nil {
		return votesFile{}, fmt.Errorf("%w: parse votes: %v", ErrUnavailable, err)
	}
	return votes, nil
}

func (fs *FileStore) writeVoters(reg registryFile) error {
	return fs.writeJSON(fs.votersPath(), reg)
}

func (fs *FileStore) writeVotes(votes votesFile) error {
	return fs.writeJSON(fs.votesPath(), votes)
}

// writeJSON writes to a temp file in the same directory and renames it
// into place, so a crash mid-write never truncates the live document.
func (fs *FileStore) writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrUnavailable, filepath.Base(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrUnavailable, filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: replace %s: %v", ErrUnavailable, filepath.Base(path), err)
	}
	return nil
}
