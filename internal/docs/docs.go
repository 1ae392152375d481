// Package docs loads and serves the static support document corpus.
package docs

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"supportchat-backend/internal/models"
)

// Store holds the corpus loaded at process start. It is immutable afterwards
// and safe to share across concurrent requests without locking.
type Store struct {
	items []models.Document
}

// Load reads an ordered JSON array of {title, content} records from path.
// A missing file, malformed JSON, or a blank title is an error: the process
// must not serve traffic without a valid corpus.
func Load(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document source %s: %w", path, err)
	}

	var items []models.Document
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parsing document source %s: %w", path, err)
	}

	for i, doc := range items {
		if strings.TrimSpace(doc.Title) == "" {
			return nil, fmt.Errorf("document source %s: entry %d has an empty title", path, i)
		}
	}

	return &Store{items: items}, nil
}

// NewStore wraps an already-built corpus, mainly for tests.
func NewStore(items []models.Document) *Store {
	return &Store{items: append([]models.Document(nil), items...)}
}

// Documents returns the corpus in load order.
func (s *Store) Documents() []models.Document {
	return append([]models.Document(nil), s.items...)
}
