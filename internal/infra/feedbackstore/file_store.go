package feedbackstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/yanqian/brew-advisor/internal/domain/feedback"
	"github.com/yanqian/brew-advisor/pkg/util"
)

// FileStore keeps the feedback log in a single JSON document of the form
// {"feedbacks": [...]}. Writes replace the file atomically via rename, so
// readers in this or another process always see a complete document.
type FileStore struct {
	path   string
	logger *slog.Logger
	now    func() time.Time

	// mu serializes the load-append-truncate-persist cycle.
	mu sync.RWMutex
}

// NewFileStore builds a store persisting to path. The file and its directory are
// created on first use.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{
		path:   path,
		logger: logger.With("component", "feedbackstore.file"),
		now:    util.NowUTC,
	}
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

// Append implements feedback.Store.
func (s *FileStore) Append(_ context.Context, rec feedback.Record) (feedback.Record, error) {
	stamped, err := feedback.Stamp(rec, s.now())
	if err != nil {
		return feedback.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		if !errors.Is(err, errCorrupt) {
			return feedback.Record{}, err
		}
		if qerr := s.quarantine(); qerr != nil {
			return feedback.Record{}, qerr
		}
		doc = feedback.Document{}
	}

	doc.Feedbacks = feedback.Cap(append(doc.Feedbacks, stamped))
	if err := s.write(doc); err != nil {
		return feedback.Record{}, err
	}
	return stamped, nil
}

// LoadAll implements feedback.Store. Unreadable or corrupt files yield an empty log.
func (s *FileStore) LoadAll(_ context.Context) (feedback.Log, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.read()
	if err != nil {
		s.logger.Warn("feedback file unreadable, returning empty log", "path", s.path, "error", err)
		return feedback.Log{}, nil
	}
	if doc.Feedbacks == nil {
		return feedback.Log{}, nil
	}
	return doc.Feedbacks, nil
}

var errCorrupt = errors.New("feedback file is corrupt")

func (s *FileStore) read() (feedback.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return feedback.Document{}, nil
		}
		return feedback.Document{}, fmt.Errorf("read feedback file: %w", err)
	}
	if len(data) == 0 {
		return feedback.Document{}, nil
	}
	var doc feedback.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return feedback.Document{}, fmt.Errorf("%w: %v", errCorrupt, err)
	}
	return doc, nil
}

func (s *FileStore) write(doc feedback.Document) error {
	if doc.Feedbacks == nil {
		doc.Feedbacks = feedback.Log{}
	}
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode feedback file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create feedback dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp feedback file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp feedback file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp feedback file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp feedback file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace feedback file: %w", err)
	}
	return nil
}

// quarantine moves a corrupt file aside so the next write starts from empty
// without destroying what was there.
func (s *FileStore) quarantine() error {
	target := fmt.Sprintf("%s.corrupt-%d", s.path, s.now().UnixNano())
	if err := os.Rename(s.path, target); err != nil {
		return fmt.Errorf("quarantine corrupt feedback file: %w", err)
	}
	s.logger.Warn("corrupt feedback file moved aside", "path", s.path, "moved_to", target)
	return nil
}

var _ feedback.Store = (*FileStore)(nil)
