package feedback

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/reviewpulse/reviewpulse/internal/events"
	"github.com/reviewpulse/reviewpulse/internal/history"
	"github.com/reviewpulse/reviewpulse/internal/insight"
	"github.com/reviewpulse/reviewpulse/internal/store"
)

var (
	ErrEmptyReview   = errors.New("review text must not be empty")
	ErrRatingRange   = errors.New("rating must be between 1 and 5")
	ErrNoFeedbackYet = errors.New("no feedback received yet")
)

// Stats are the aggregate dashboard numbers over all stored feedback.
type Stats struct {
	Total          int         `json:"total"`
	AverageRating  float64     `json:"average_rating"`
	LastFeedbackAt string      `json:"last_feedback_at"`
	Histogram      map[int]int `json:"histogram"`
}

// Service ties the record store, the insight generator, and the insight
// history together behind the operations both presentation surfaces use.
type Service struct {
	store  *store.Store
	gen    *insight.Generator
	hist   *history.Store
	broker *events.Broker
	log    *zap.Logger
}

// NewService builds the service. hist and broker may be nil; insight history
// and live events are then skipped.
func NewService(st *store.Store, gen *insight.Generator, hist *history.Store, broker *events.Broker, log *zap.Logger) *Service {
	return &Service{store: st, gen: gen, hist: hist, broker: broker, log: log}
}

// Submit validates a submission, generates the user-facing reply, and appends
// the complete record. The returned record carries the reply.
func (s *Service) Submit(ctx context.Context, name string, rating int, reviewText string) (store.Record, error) {
	if strings.TrimSpace(reviewText) == "" {
		return store.Record{}, ErrEmptyReview
	}
	if rating < 1 || rating > 5 {
		return store.Record{}, ErrRatingRange
	}

	reply := s.gen.UserReply(ctx, name, rating, reviewText)

	rec := store.Record{
		Timestamp:       store.Cell(time.Now().UTC().Format(time.RFC3339)),
		UserName:        store.Cell(name),
		Rating:          store.Cell(strconv.Itoa(rating)),
		ReviewText:      store.Cell(reviewText),
		UserLLMResponse: store.Cell(reply),
	}
	if err := s.store.Append(rec); err != nil {
		return store.Record{}, fmt.Errorf("store feedback: %w", err)
	}

	if s.broker != nil {
		s.broker.PublishRecord(rec)
	}
	s.log.Info("feedback recorded", zap.Int("rating", rating), zap.Bool("anonymous", name == ""))
	return rec, nil
}

// ListAll returns the full canonical table in stored order.
func (s *Service) ListAll() *store.Table {
	return s.store.Load()
}

// ListNewestFirst returns all records sorted by timestamp descending for
// display.
func (s *Service) ListNewestFirst() []store.Record {
	return s.store.Load().NewestFirst()
}

// Stats computes the dashboard aggregates. Records whose rating cell cannot
// be parsed are counted in the total but excluded from the average and
// histogram.
func (s *Service) Stats() Stats {
	t := s.store.Load()

	st := Stats{
		Total:     len(t.Records),
		Histogram: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}

	rated := 0
	sum := 0
	for _, rec := range t.Records {
		if rec.Timestamp.String > st.LastFeedbackAt {
			st.LastFeedbackAt = rec.Timestamp.String
		}
		r, err := strconv.Atoi(rec.Rating.String)
		if err != nil || r < 1 || r > 5 {
			continue
		}
		st.Histogram[r]++
		sum += r
		rated++
	}
	if rated > 0 {
		st.AverageRating = float64(sum) / float64(rated)
	}
	return st
}

// GenerateSummary produces an AI summary over the trailing review window and
// records it in the insight history.
func (s *Service) GenerateSummary(ctx context.Context) (string, error) {
	return s.generateInsight(ctx, history.KindSummary, s.gen.Summary)
}

// GenerateActions produces AI action recommendations over the trailing review
// window and records them in the insight history.
func (s *Service) GenerateActions(ctx context.Context) (string, error) {
	return s.generateInsight(ctx, history.KindActions, s.gen.Actions)
}

func (s *Service) generateInsight(ctx context.Context, kind string, gen func(context.Context, []store.Record) string) (string, error) {
	t := s.store.Load()
	if len(t.Records) == 0 {
		return "", ErrNoFeedbackYet
	}

	window := insight.Window(t.Records)
	text := gen(ctx, t.Records)

	if s.hist != nil {
		// History is best-effort; the insight is still returned.
		if err := s.hist.Record(kind, text, len(window)); err != nil {
			s.log.Warn("failed to record insight", zap.String("kind", kind), zap.Error(err))
		}
	}
	return text, nil
}

// InsightHistory lists previously generated insights, newest first.
func (s *Service) InsightHistory(kind string, limit int) ([]history.Insight, error) {
	if s.hist == nil {
		return nil, nil
	}
	return s.hist.List(kind, limit)
}
