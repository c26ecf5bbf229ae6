package feedbackstore

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/yanqian/brew-advisor/internal/domain/feedback"
	"github.com/yanqian/brew-advisor/pkg/util"
)

// Key layout for BadgerDB storage. Record keys end in a big-endian sequence
// number, so key order is arrival order.
var (
	recordKeyPrefix = []byte("feedback:rec:")
	sequenceKey     = []byte("feedback:seq")
)

const sequenceBandwidth = 100

// BadgerStore implements feedback.Store on an embedded BadgerDB.
type BadgerStore struct {
	db     *badger.DB
	seq    *badger.Sequence
	logger *slog.Logger
	now    func() time.Time

	// mu keeps appends from racing on eviction; badger would otherwise
	// abort one of two overlapping transactions with ErrConflict.
	mu sync.Mutex
}

// OpenBadger opens (or creates) a BadgerDB in dir. An empty dir opens an
// in-memory database.
func OpenBadger(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return db, nil
}

// NewBadgerStore creates a BadgerDB-backed feedback store.
func NewBadgerStore(db *badger.DB, logger *slog.Logger) (*BadgerStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	seq, err := db.GetSequence(sequenceKey, sequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("lease feedback sequence: %w", err)
	}
	return &BadgerStore{
		db:     db,
		seq:    seq,
		logger: logger.With("component", "feedbackstore.badger"),
		now:    util.NowUTC,
	}, nil
}

// Append implements feedback.Store. Insert and eviction happen in one transaction.
func (s *BadgerStore) Append(_ context.Context, rec feedback.Record) (feedback.Record, error) {
	stamped, err := feedback.Stamp(rec, s.now())
	if err != nil {
		return feedback.Record{}, err
	}
	data, err := json.Marshal(stamped)
	if err != nil {
		return feedback.Record{}, fmt.Errorf("marshal feedback: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.seq.Next()
	if err != nil {
		return feedback.Record{}, fmt.Errorf("next feedback sequence: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		existing, err := recordKeys(txn)
		if err != nil {
			return err
		}
		if overflow := len(existing) + 1 - feedback.MaxRecords; overflow > 0 {
			for _, key := range existing[:overflow] {
				if err := txn.Delete(key); err != nil {
					return fmt.Errorf("evict feedback: %w", err)
				}
			}
		}
		if err := txn.Set(recordKey(n), data); err != nil {
			return fmt.Errorf("set feedback: %w", err)
		}
		return nil
	})
	if err != nil {
		return feedback.Record{}, err
	}
	return stamped, nil
}

// LoadAll implements feedback.Store. Records that fail to decode are skipped;
// a failed read yields an empty log.
func (s *BadgerStore) LoadAll(_ context.Context) (feedback.Log, error) {
	log := feedback.Log{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = recordKeyPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(recordKeyPrefix); it.ValidForPrefix(recordKeyPrefix); it.Next() {
			item := it.Item()
			var rec feedback.Record
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				s.logger.Warn("skipping undecodable feedback record", "key", fmt.Sprintf("%x", item.Key()), "error", err)
				continue
			}
			log = append(log, rec)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("feedback read failed, returning empty log", "error", err)
		return feedback.Log{}, nil
	}
	return log, nil
}

// Close releases the leased sequence range. The caller owns the DB.
func (s *BadgerStore) Close() error {
	return s.seq.Release()
}

func recordKeys(txn *badger.Txn) ([][]byte, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = recordKeyPrefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Seek(recordKeyPrefix); it.ValidForPrefix(recordKeyPrefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys, nil
}

func recordKey(n uint64) []byte {
	key := make([]byte, len(recordKeyPrefix)+8)
	copy(key, recordKeyPrefix)
	binary.BigEndian.PutUint64(key[len(recordKeyPrefix):], n)
	return key
}

var _ feedback.Store = (*BadgerStore)(nil)
