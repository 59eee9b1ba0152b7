package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/hjmartin/autobidder/internal/model"
)

// FileStore persists items as a JSON array on disk.
type FileStore struct {
	path   string
	logger *slog.Logger

	mu sync.Mutex
}

// NewFileStore creates a file-backed store at path.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{path: path, logger: logger}
}

// LoadItems reads the candidate list. A missing file yields an empty
// list so a fresh instance starts without manual setup.
func (s *FileStore) LoadItems(ctx context.Context) ([]*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read items file: %w", err)
	}

	var items []*model.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal items file: %w", err)
	}
	return items, nil
}

// SaveItems writes the full candidate list, replacing the file through
// a rename so readers never observe a partial write.
func (s *FileStore) SaveItems(ctx context.Context, items []*model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write items file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace items file: %w", err)
	}

	s.logger.Debug("items saved", "count", len(items), "path", s.path)
	return nil
}
