package feedbackstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/brew-advisor/internal/domain/feedback"
	"github.com/yanqian/brew-advisor/pkg/util"
)

// ValkeyStore keeps the feedback log in a Valkey list, oldest entry at the head.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	logger *slog.Logger
	now    func() time.Time
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string, logger *slog.Logger) *ValkeyStore {
	if prefix == "" {
		prefix = "brew"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ValkeyStore{
		client: client,
		prefix: prefix,
		logger: logger.With("component", "feedbackstore.valkey"),
		now:    util.NowUTC,
	}
}

// Append pushes the record and trims the list inside one MULTI/EXEC block.
func (s *ValkeyStore) Append(ctx context.Context, rec feedback.Record) (feedback.Record, error) {
	stamped, err := feedback.Stamp(rec, s.now())
	if err != nil {
		return feedback.Record{}, err
	}
	payload, err := json.Marshal(stamped)
	if err != nil {
		return feedback.Record{}, fmt.Errorf("marshal feedback: %w", err)
	}

	key := s.logKey()
	err = s.client.Dedicated(func(c valkey.DedicatedClient) error {
		resps := c.DoMulti(ctx,
			c.B().Multi().Build(),
			c.B().Rpush().Key(key).Element(string(payload)).Build(),
			c.B().Ltrim().Key(key).Start(-feedback.MaxRecords).Stop(-1).Build(),
			c.B().Exec().Build(),
		)
		for _, resp := range resps {
			if err := resp.Error(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return feedback.Record{}, fmt.Errorf("append feedback: %w", err)
	}
	return stamped, nil
}

// LoadAll reads the whole list. Entries that fail to decode are skipped and
// an unreachable server reads as an empty log.
func (s *ValkeyStore) LoadAll(ctx context.Context) (feedback.Log, error) {
	items, err := s.client.Do(ctx, s.client.B().Lrange().Key(s.logKey()).Start(0).Stop(-1).Build()).AsStrSlice()
	if err != nil {
		if !valkey.IsValkeyNil(err) {
			s.logger.Warn("feedback read failed, returning empty log", "key", s.logKey(), "error", err)
		}
		return feedback.Log{}, nil
	}
	log := make(feedback.Log, 0, len(items))
	for _, item := range items {
		var rec feedback.Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			s.logger.Warn("skipping undecodable feedback entry", "error", err)
			continue
		}
		log = append(log, rec)
	}
	return log, nil
}

func (s *ValkeyStore) logKey() string {
	return fmt.Sprintf("%s:feedbacks", s.prefix)
}

var _ feedback.Store = (*ValkeyStore)(nil)
