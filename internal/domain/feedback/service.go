package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/yanqian/brew-advisor/pkg/errors"
	"github.com/yanqian/brew-advisor/pkg/metrics"
	"github.com/yanqian/brew-advisor/pkg/util"
)

const snapshotPrefix = "feedback/snapshots"

// Service records user feedback and serves analytics derived from it.
type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (SubmitResponse, error)
	Report(ctx context.Context) (Report, error)
	Export(ctx context.Context) (ExportResponse, error)
}

type service struct {
	store     Store
	snapshots SnapshotWriter
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires up the feedback domain.
func NewService(store Store, snapshots SnapshotWriter, logger *slog.Logger) Service {
	return &service{
		store:     store,
		snapshots: snapshots,
		logger:    logger.With("component", "feedback.service"),
		now:       util.NowUTC,
	}
}

func (s *service) Submit(ctx context.Context, req SubmitRequest) (SubmitResponse, error) {
	beverage := strings.TrimSpace(req.RecommendedBeverage)
	if beverage == "" || req.Liked == nil {
		return SubmitResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "recommended_beverage and liked are required", nil)
	}

	stored, err := s.store.Append(ctx, Record{
		RecommendedBeverage: beverage,
		Weather:             strings.TrimSpace(req.Weather),
		Mood:                strings.TrimSpace(req.Mood),
		Temperature:         req.Temperature,
		Humidity:            req.Humidity,
		Liked:               *req.Liked,
		Comment:             req.Comment,
	})
	if err != nil {
		return SubmitResponse{}, apperrors.Wrap(apperrors.CodePersistenceFailure, "feedback could not be recorded", err)
	}
	metrics.FeedbackAppends.WithLabelValues(metrics.Verdict(stored.Liked)).Inc()
	s.logger.Info("feedback recorded", "id", stored.ID, "beverage", stored.RecommendedBeverage, "liked", stored.Liked)

	return SubmitResponse{
		Success:    true,
		Message:    "Thank you for your feedback! This helps us improve recommendations.",
		FeedbackID: stored.ID,
	}, nil
}

func (s *service) Report(ctx context.Context) (Report, error) {
	log := s.load(ctx)
	return Report{
		Statistics:          ComputeStats(log),
		ImprovementPatterns: MinePatterns(log),
		Message:             "Feedback data successfully retrieved",
	}, nil
}

func (s *service) Export(ctx context.Context) (ExportResponse, error) {
	if s.snapshots == nil {
		return ExportResponse{}, apperrors.Wrap(apperrors.CodeExportFailure, "snapshot storage is not configured", nil)
	}
	log := s.load(ctx)
	now := s.now()
	payload, err := json.Marshal(Snapshot{
		GeneratedAt:         util.FormatTimestamp(now),
		Statistics:          ComputeStats(log),
		ImprovementPatterns: MinePatterns(log),
		Feedbacks:           log,
	})
	if err != nil {
		return ExportResponse{}, apperrors.Wrap(apperrors.CodeExportFailure, "snapshot encoding failed", err)
	}

	key := fmt.Sprintf("%s/%s.json", snapshotPrefix, now.UTC().Format("20060102T150405Z"))
	stored, err := s.snapshots.Put(ctx, key, payload, "application/json")
	if err != nil {
		return ExportResponse{}, apperrors.Wrap(apperrors.CodeExportFailure, "snapshot upload failed", err)
	}
	s.logger.Info("feedback snapshot exported", "key", stored, "records", len(log))
	return ExportResponse{Key: stored, Records: len(log)}, nil
}

// load never fails: a broken store reads as "no feedback yet".
func (s *service) load(ctx context.Context) Log {
	log, err := s.store.LoadAll(ctx)
	if err != nil {
		s.logger.Warn("feedback load failed, using empty log", "error", err)
		return Log{}
	}
	return log
}
