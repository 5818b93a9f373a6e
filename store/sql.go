// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/ballot-box/auth"
	"github.com/danielhkuo/ballot-box/models"
)

// SQLStore backs the registry and ballot store with database/sql.
// Works against sqlite (driver "sqlite") and postgres (driver
// "postgres"); both accept $n placeholders and ON CONFLICT clauses.
//
// The UNIQUE constraint on vote.voter_id closes the duplicate-vote
// race by construction: even if two submissions interleave past the
// used-flag check, only one insert can commit.
type SQLStore struct {
	db *sql.DB
}

const sqlSchema = `
CREATE TABLE IF NOT EXISTS voter (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    phone TEXT UNIQUE,
    used BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    voter_id TEXT NOT NULL UNIQUE REFERENCES voter(id),
    selections TEXT NOT NULL,
    ts TIMESTAMP NOT NULL,
    note TEXT,
    ip TEXT
);
`

// NewSQLStore opens the database, verifies the connection, and creates
// the tables when missing.
func NewSQLStore(driver, dsn string) (*SQLStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", ErrUnavailable, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %v", ErrUnavailable, err)
	}
	if _, err := db.Exec(sqlSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: create tables: %v", ErrUnavailable, err)
	}
	return &SQLStore{db: db}, nil
}

// GetVoter implements Store.
func (s *SQLStore) GetVoter(identity string) (models.Voter, error) {
	var v models.Voter
	var phone sql.NullString
	err := s.db.QueryRow(`
		SELECT id, name, phone, used FROM voter WHERE id = $1 OR phone = $1
	`, identity).Scan(&v.ID, &v.Name, &phone, &v.Used)
	if err == sql.ErrNoRows {
		return models.Voter{}, ErrVoterNotFound
	}
	if err != nil {
		return models.Voter{}, fmt.Errorf("%w: query voter: %v", ErrUnavailable, err)
	}
	v.Phone = phone.String

	if v.Used {
		return v, ErrAlreadyVoted
	}

	var voted bool
	err = s.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM vote WHERE voter_id = $1)
	`, v.ID).Scan(&voted)
	if err != nil {
		return models.Voter{}, fmt.Errorf("%w: query ballots: %v", ErrUnavailable, err)
	}
	if voted {
		return v, ErrAlreadyVoted
	}
	return v, nil
}

// SubmitBallot implements Store. Ballot insert and used-flag update
// share one transaction.
func (s *SQLStore) SubmitBallot(identity string, selections map[string]string, note, ip string) (models.VoteRecord, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.VoteRecord{}, fmt.Errorf("%w: begin transaction: %v", ErrUnavailable, err)
	}
	defer tx.Rollback()

	var v models.Voter
	err = tx.QueryRow(`
		SELECT id, used FROM voter WHERE id = $1 OR phone = $1
	`, identity).Scan(&v.ID, &v.Used)
	if err == sql.ErrNoRows {
		return models.VoteRecord{}, ErrVoterNotFound
	}
	if err != nil {
		return models.VoteRecord{}, fmt.Errorf("%w: query voter: %v", ErrUnavailable, err)
	}
	if v.Used {
		return models.VoteRecord{}, ErrAlreadyVoted
	}

	record := models.VoteRecord{
		ID:         auth.NewBallotID(),
		VoterID:    v.ID,
		Selections: selections,
		TS:         time.Now().UTC(),
		Note:       note,
		IP:         ip,
	}

	encoded, err := json.Marshal(selections)
	if err != nil {
		return models.VoteRecord{}, fmt.Errorf("%w: encode selections: %v", ErrUnavailable, err)
	}

	_, err = tx.Exec(`
		INSERT INTO vote (id, voter_id, selections, ts, note, ip)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, record.ID, record.VoterID, string(encoded), record.TS, record.Note, record.IP)
	if err != nil {
		if isUniqueViolation(err) {
			return models.VoteRecord{}, ErrAlreadyVoted
		}
		return models.VoteRecord{}, fmt.Errorf("%w: insert ballot: %v", ErrUnavailable, err)
	}

	_, err = tx.Exec(`UPDATE voter SET used = TRUE WHERE id = $1`, v.ID)
	if err != nil {
		return models.VoteRecord{}, fmt.Errorf("%w: mark voter used: %v", ErrUnavailable, err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return models.VoteRecord{}, ErrAlreadyVoted
		}
		return models.VoteRecord{}, fmt.Errorf("%w: commit ballot: %v", ErrUnavailable, err)
	}
	return record, nil
}

// Ballots implements Store.
func (s *SQLStore) Ballots() ([]models.VoteRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, voter_id, selections, ts, note, ip FROM vote ORDER BY ts
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: query ballots: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	records := []models.VoteRecord{}
	for rows.Next() {
		var rec models.VoteRecord
		var encoded string
		var note, ip sql.NullString
		if err := rows.Scan(&rec.ID, &rec.VoterID, &encoded, &rec.TS, &note, &ip); err != nil {
			return nil, fmt.Errorf("%w: scan ballot: %v", ErrUnavailable, err)
		}
		if err := json.Unmarshal([]byte(encoded), &rec.Selections); err != nil {
			return nil, fmt.Errorf("%w: decode selections for %s: %v", ErrUnavailable, rec.ID, err)
		}
		rec.Note = note.String
		rec.IP = ip.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate ballots: %v", ErrUnavailable, err)
	}
	return records, nil
}

// SeedVoters implements Store. Existing rows, including used flags,
// are never overwritten.
func (s *SQLStore) SeedVoters(voters []models.Voter) error {
	for _, v := range voters {
		var phone any
		if v.Phone != "" {
			phone = v.Phone
		}
		_, err := s.db.Exec(`
			INSERT INTO voter (id, name, phone, used)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING
		`, v.ID, v.Name, phone, v.Used)
		if err != nil {
			return fmt.Errorf("%w: seed voter %s: %v", ErrUnavailable, v.ID, err)
		}
	}
	return nil
}

func (s *SQLStore) Close() error { return s.db.Close() }

// isUniqueViolation matches constraint errors from both supported
// drivers; neither exports a typed error for this.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
