// Package deckcache persists raw deck contents keyed by deck URL hash.
//
// Cached decks never expire: decklists on EDHREC rarely change after
// posting, so staleness is an accepted trade-off for not re-downloading
// the same deck on every run.
package deckcache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FetchFunc retrieves a deck's raw card lines from the remote service.
type FetchFunc func(ctx context.Context, deckID string) ([]string, error)

// Store is an on-disk cache of raw deck contents, one JSON file per deck.
type Store struct {
	dir string
}

// NewStore creates a deck cache store rooted at dir, creating the
// directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create deck cache directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// GetOrFetch returns the cached content for deckID without any network
// access if a cache entry exists. Otherwise it invokes fetch, persists the
// result verbatim under deckID, and returns it. A fetch failure with no
// cache entry is returned to the caller; the deck is expected to be
// skipped rather than aborting the run.
func (s *Store) GetOrFetch(ctx context.Context, deckID string, fetch FetchFunc) ([]string, error) {
	if cards, ok := s.load(deckID); ok {
		return cards, nil
	}

	cards, err := fetch(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deck %s: %w", deckID, err)
	}

	if err := s.save(deckID, cards); err != nil {
		return nil, err
	}

	return cards, nil
}

// Contains reports whether a cache entry exists for deckID.
func (s *Store) Contains(deckID string) bool {
	_, err := os.Stat(s.path(deckID))
	return err == nil
}

// load reads a cached deck. A missing or unreadable entry reports false
// so the deck is fetched again.
func (s *Store) load(deckID string) ([]string, bool) {
	data, err := os.ReadFile(s.path(deckID))
	if err != nil {
		return nil, false
	}

	var cards []string
	if err := json.Unmarshal(data, &cards); err != nil {
		return nil, false
	}

	return cards, true
}

// save persists a deck atomically via a temp file rename.
func (s *Store) save(deckID string, cards []string) error {
	data, err := json.MarshalIndent(cards, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal deck %s: %w", deckID, err)
	}

	tempFile, err := os.CreateTemp(s.dir, "deck-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to write deck cache entry: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, s.path(deckID)); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to move deck cache entry: %w", err)
	}

	return nil
}

func (s *Store) path(deckID string) string {
	return filepath.Join(s.dir, deckID+".json")
}
