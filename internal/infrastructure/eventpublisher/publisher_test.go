package eventpublisher

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/goraffle/internal/domain"
	"github.com/iho/goraffle/internal/infrastructure/metrics"
	"github.com/iho/goraffle/internal/usecase"
)

func TestProcessEventsPublishesAndMarks(t *testing.T) {
	repo := &stubOutboxRepo{
		events: []*domain.OutboxEvent{raffleEvent("evt-1", "r1")},
	}
	pub := &stubPublisher{}
	ep := newTestPublisher(repo, pub)

	n, err := ep.processEvents(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	require.Len(t, pub.published, 1)
	assert.Equal(t, []string{"evt-1"}, repo.marked)
}

func TestProcessEventsHoldsBackLaterEventsOfFailedRaffle(t *testing.T) {
	repo := &stubOutboxRepo{
		events: []*domain.OutboxEvent{
			raffleEvent("evt-1", "r1"),
			raffleEvent("evt-2", "r2"),
			raffleEvent("evt-3", "r1"),
		},
	}
	pub := &stubPublisher{
		errorsByID: map[string]error{"evt-1": errors.New("fail")},
	}
	ep := newTestPublisher(repo, pub)
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	ep.metrics = m

	n, err := ep.processEvents(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	require.Len(t, pub.published, 1)
	assert.Equal(t, "evt-2", pub.published[0].ID)
	assert.Equal(t, []string{"evt-2"}, repo.marked)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.OutboxPublished.WithLabelValues("failed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.OutboxPublished.WithLabelValues("deferred")))
}

func TestTickPrunesPublishedEvents(t *testing.T) {
	repo := &stubOutboxRepo{}
	ep := newTestPublisher(repo, &stubPublisher{})
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	ep.now = func() time.Time { return now }
	ep.retention = 24 * time.Hour

	ep.tick(context.Background())

	require.Len(t, repo.deletedBefore, 1)
	assert.Equal(t, now.Add(-24*time.Hour), repo.deletedBefore[0])
}

func TestTickReportsBacklog(t *testing.T) {
	repo := &stubOutboxRepo{
		events: []*domain.OutboxEvent{
			raffleEvent("evt-1", "r1"),
			raffleEvent("evt-2", "r2"),
			raffleEvent("evt-3", "r1"),
		},
	}
	pub := &stubPublisher{errorsByID: map[string]error{"evt-1": errors.New("broker down")}}
	ep := newTestPublisher(repo, pub)
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	ep.metrics = m

	var logs bytes.Buffer
	ep.logger = slog.New(slog.NewTextHandler(&logs, nil))
	ep.batchSize = 1

	ep.tick(context.Background())

	// batch of one delivers nothing: evt-1 fails first
	assert.Empty(t, repo.marked)
	assert.Equal(t, float64(3), testutil.ToFloat64(m.OutboxBacklog))
	assert.Contains(t, logs.String(), "backlog=3")
}

func TestTickSurvivesBacklogCountFailure(t *testing.T) {
	repo := &stubOutboxRepo{countErr: errors.New("connection reset")}
	ep := newTestPublisher(repo, &stubPublisher{})
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	ep.now = func() time.Time { return now }
	ep.retention = time.Hour

	ep.tick(context.Background())

	require.Len(t, repo.deletedBefore, 1)
}

func TestStartStopsOnContextCancellation(t *testing.T) {
	repo := &stubOutboxRepo{}
	pub := &stubPublisher{}
	ep := newTestPublisher(repo, pub)
	ep.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ep.Start(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("publisher did not stop after cancel")
	}
}

func TestLogPublisherWritesPayload(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := p.Publish(context.Background(), &domain.OutboxEvent{
		ID:        "evt-1",
		EventType: domain.EventTypeWinnerDrawn,
		Payload:   map[string]any{"winner": "bob"},
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `raffle.winner_drawn`)
	assert.Contains(t, buf.String(), `\"winner\":\"bob\"`)
}

func raffleEvent(id, raffleID string) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:            id,
		AggregateID:   raffleID,
		AggregateType: domain.AggregateTypeRaffle,
		EventType:     domain.EventTypeRaffleEntered,
	}
}

func newTestPublisher(repo *stubOutboxRepo, pub *stubPublisher) *EventPublisher {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	return NewEventPublisher(Config{
		OutboxRepo: repo,
		Publisher:  pub,
		Logger:     logger,
		BatchSize:  10,
		Interval:   5 * time.Millisecond,
	})
}

type stubOutboxRepo struct {
	events        []*domain.OutboxEvent
	marked        []string
	deletedBefore []time.Time
	countErr      error
}

func (s *stubOutboxRepo) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	return nil
}

func (s *stubOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if len(s.events) <= limit {
		return append([]*domain.OutboxEvent(nil), s.events...), nil
	}
	return append([]*domain.OutboxEvent(nil), s.events[:limit]...), nil
}

func (s *stubOutboxRepo) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	s.marked = append(s.marked, id)
	return nil
}

func (s *stubOutboxRepo) GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	return nil, nil
}

func (s *stubOutboxRepo) DeletePublished(ctx context.Context, before time.Time) error {
	s.deletedBefore = append(s.deletedBefore, before)
	return nil
}

func (s *stubOutboxRepo) CountUnpublished(ctx context.Context) (int64, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return int64(len(s.events) - len(s.marked)), nil
}

type stubPublisher struct {
	published  []*domain.OutboxEvent
	errorsByID map[string]error
}

func (s *stubPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	if err := s.errorsByID[event.ID]; err != nil {
		return err
	}
	s.published = append(s.published, event)
	return nil
}
