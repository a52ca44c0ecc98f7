// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package profile persists user preference profiles in SQLite for the
// personalization stage.
//
// See docs/ARCHITECTURE.md § Personalization.
package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/shopsearch/pkg/types"
)

// Store manages the profile SQLite database. It satisfies
// personalize.ProfileStore.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the profile database at cfg.DBPath and creates
// the schema if it does not exist.
func NewStore(cfg types.ProfileConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating profile directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening profile database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS profiles (
		user_id TEXT PRIMARY KEY,
		preferences TEXT NOT NULL,
		search_history TEXT,
		last_updated TEXT
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Get fetches a user profile. Returns an error wrapping sql.ErrNoRows when
// the user has no stored profile; the caller decides whether that degrades to
// unpersonalized results.
func (s *Store) Get(ctx context.Context, userID string) (types.UserProfile, error) {
	var prefsJSON, historyJSON, updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT preferences, coalesce(search_history, ''), coalesce(last_updated, '')
		 FROM profiles WHERE user_id = ?`, userID,
	).Scan(&prefsJSON, &historyJSON, &updated)
	if err != nil {
		return types.UserProfile{}, fmt.Errorf("fetching profile %s: %w", userID, err)
	}

	p := types.UserProfile{UserID: userID}
	if err := json.Unmarshal([]byte(prefsJSON), &p.Preferences); err != nil {
		return types.UserProfile{}, fmt.Errorf("decoding preferences for %s: %w", userID, err)
	}
	if historyJSON != "" {
		if err := json.Unmarshal([]byte(historyJSON), &p.SearchHistory); err != nil {
			return types.UserProfile{}, fmt.Errorf("decoding search history for %s: %w", userID, err)
		}
	}
	if updated != "" {
		if t, err := time.Parse(time.RFC3339, updated); err == nil {
			p.LastUpdated = t
		}
	}
	return p, nil
}

// Put inserts or replaces a profile. LastUpdated is stamped on write.
func (s *Store) Put(ctx context.Context, p types.UserProfile) error {
	if p.UserID == "" {
		return fmt.Errorf("profile has no user id")
	}
	prefsJSON, err := json.Marshal(p.Preferences)
	if err != nil {
		return fmt.Errorf("encoding preferences for %s: %w", p.UserID, err)
	}
	historyJSON, err := json.Marshal(p.SearchHistory)
	if err != nil {
		return fmt.Errorf("encoding search history for %s: %w", p.UserID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, preferences, search_history, last_updated)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			preferences=excluded.preferences,
			search_history=excluded.search_history,
			last_updated=excluded.last_updated`,
		p.UserID, string(prefsJSON), string(historyJSON),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("storing profile %s: %w", p.UserID, err)
	}
	return nil
}

// RecordSearch appends one search to a user's history. Missing profiles are
// left untouched.
func (s *Store) RecordSearch(ctx context.Context, userID string, rec types.SearchRecord) error {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	p.SearchHistory = append(p.SearchHistory, rec)
	return s.Put(ctx, p)
}

// ImportYAML reads one profile from a YAML file and stores it.
func (s *Store) ImportYAML(ctx context.Context, path string) (types.UserProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.UserProfile{}, fmt.Errorf("reading profile file %s: %w", path, err)
	}
	var p types.UserProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return types.UserProfile{}, fmt.Errorf("parsing profile file %s: %w", path, err)
	}
	if err := s.Put(ctx, p); err != nil {
		return types.UserProfile{}, err
	}
	return p, nil
}

// DemoProfile returns the built-in demo profile used by mock mode.
func DemoProfile(userID string) types.UserProfile {
	return types.UserProfile{
		UserID: userID,
		Preferences: types.Preferences{
			FavoriteCategories: []string{"electronics", "books"},
			PriceRange:         types.PriceRange{Min: 0, Max: 1000},
			Brands:             []string{"apple", "samsung", "sony"},
			SizePreferences:    map[string]string{"clothing": "M", "shoes": "42"},
			ColorPreferences:   []string{"blue", "black", "white"},
		},
	}
}
