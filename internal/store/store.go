// Package store persists per-book reading progress locally. Local
// persistence is authoritative; the remote sync copy is best-effort
// secondary.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mpetrov/folio/pkg/models"
)

const (
	progressFileName = "progress.json"
	hashBytes        = 8192 // First 8KB for content hash
)

// Store manages the persistent per-book progress records
type Store struct {
	path string
	data map[string]models.ReadingPosition
	mu   sync.RWMutex
}

// Open creates or loads the progress store from XDG_STATE_HOME/folio/
func Open() (*Store, error) {
	dir := stateDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return openAt(filepath.Join(dir, progressFileName))
}

func openAt(path string) (*Store, error) {
	s := &Store{
		path: path,
		data: make(map[string]models.ReadingPosition),
	}
	if err := s.load(); err != nil {
		// Malformed or unreadable state is non-fatal: start empty
		log.Printf("store: resetting %s: %v", path, err)
		s.data = make(map[string]models.ReadingPosition)
	}
	return s, nil
}

// stateDir returns XDG_STATE_HOME/folio or ~/.local/state/folio
func stateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "folio")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "folio")
}

// ComputeBookID generates a content-derived identity for a book file
func ComputeBookID(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, hashBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}

	hash := sha256.Sum256(buf[:n])
	return hex.EncodeToString(hash[:16]), nil // First 16 bytes = 32 hex chars
}

// Get returns the saved position for a book, or false if none exists
func (s *Store) Get(bookID string) (models.ReadingPosition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.data[bookID]
	return pos, ok
}

// Set saves the position for a book
func (s *Store) Set(pos models.ReadingPosition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos.UpdatedAt = time.Now()
	s.data[pos.BookID] = pos
	return s.save()
}

// Clear removes the saved position for a book
func (s *Store) Clear(bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, bookID)
	return s.save()
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &s.data)
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
