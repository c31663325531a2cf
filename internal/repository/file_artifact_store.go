package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	domrepo "StockCast/internal/domain/repository"
	applogger "StockCast/pkg/logger"
)

// FileArtifactStore persists one JSON artifact per symbol under dir.
// Writes go to a temp file in the same directory followed by os.Rename,
// so concurrent readers see either the previous artifact or the new one,
// never a partial file.
type FileArtifactStore struct {
	dir string
	mu  sync.Mutex // serializes Save/Delete per store
	l   *applogger.Logger
}

// NewFileArtifactStore creates the store, making dir if needed.
func NewFileArtifactStore(dir string) (*FileArtifactStore, error) {
	if dir == "" {
		dir = "./models"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("artifact dir: %w", err)
	}
	return &FileArtifactStore{dir: dir}, nil
}

// SetLogger injects a structured logger.
func (s *FileArtifactStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *FileArtifactStore) Save(symbol string, a *domrepo.Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal artifact %s: %w", symbol, err)
	}

	final := s.path(symbol)
	tmp, err := os.CreateTemp(s.dir, sanitize(symbol)+".*.tmp")
	if err != nil {
		return fmt.Errorf("artifact tmp %s: %w", symbol, err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("artifact write %s: %w", symbol, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("artifact close %s: %w", symbol, err)
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("artifact replace %s: %w", symbol, err)
	}
	if s.l != nil {
		s.l.Info("artifact saved",
			applogger.String("symbol", symbol),
			applogger.String("path", final),
		)
	}
	return nil
}

func (s *FileArtifactStore) Load(symbol string) (*domrepo.Artifact, error) {
	b, err := os.ReadFile(s.path(symbol))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domrepo.ModelNotFoundError(symbol)
		}
		return nil, fmt.Errorf("artifact read %s: %w", symbol, err)
	}
	var a domrepo.Artifact
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("artifact decode %s: %w", symbol, err)
	}
	return &a, nil
}

func (s *FileArtifactStore) Exists(symbol string) bool {
	_, err := os.Stat(s.path(symbol))
	return err == nil
}

func (s *FileArtifactStore) Delete(symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(symbol)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("artifact delete %s: %w", symbol, err)
	}
	return nil
}

func (s *FileArtifactStore) path(symbol string) string {
	return filepath.Join(s.dir, sanitize(symbol)+".json")
}

// sanitize keeps symbols like BRK.B or RELIANCE.NS filesystem-safe.
func sanitize(symbol string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, symbol)
}

var _ domrepo.ArtifactStore = (*FileArtifactStore)(nil)
