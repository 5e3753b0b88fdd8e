// internal/domain/cart/file_store.go
package cart

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore is the anonymous-path durable slot: a single JSON file
// holding the serialized cart so it survives a process restart. It is
// never shared across devices and never merged into a signed-in cart.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-backed local cart slot
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the slot. A missing file means no snapshot was ever saved.
func (s *FileStore) Load() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to read local cart slot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode local cart slot: %w", err)
	}

	return &snap, nil
}

// Save overwrites the slot. Writes go through a temp file and rename so
// a crash mid-write cannot leave a torn document.
func (s *FileStore) Save(snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode local cart slot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create local cart directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "cart-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp cart slot: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write local cart slot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close local cart slot: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace local cart slot: %w", err)
	}

	return nil
}
