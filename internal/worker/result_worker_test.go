package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stemsi/trivia-backend/internal/config"
	"github.com/stemsi/trivia-backend/internal/model"
)

type memQueue struct {
	mu    sync.Mutex
	items []string
}

func (q *memQueue) Pop(ctx context.Context, timeout time.Duration) (string, error) {
	if raw, err := q.TryPop(ctx); err == nil {
		return raw, nil
	}
	t := time.NewTimer(time.Millisecond)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-t.C:
	}
	return "", ErrQueueEmpty
}

func (q *memQueue) TryPop(context.Context) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return "", ErrQueueEmpty
	}
	raw := q.items[0]
	q.items = q.items[1:]
	return raw, nil
}

func (q *memQueue) Push(_ context.Context, raw string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, raw)
	return nil
}

func (q *memQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

type memStore struct {
	mu        sync.Mutex
	batchErr  error
	insertErr map[uuid.UUID]error
	attempts  int
	batches   int
	rows      []model.QuizResult
}

func (s *memStore) InsertBatch(_ context.Context, results []model.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts++
	if s.batchErr != nil {
		return s.batchErr
	}
	s.batches++
	s.rows = append(s.rows, results...)
	return nil
}

func (s *memStore) Insert(_ context.Context, res *model.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.insertErr[res.ID]; err != nil {
		return err
	}
	s.rows = append(s.rows, *res)
	return nil
}

func (s *memStore) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

func (s *memStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func newTestWorker(store ResultStore, q Queue, batchSize int, interval time.Duration) *ResultWorker {
	cfg := config.ResultsConfig{BatchSize: batchSize, FlushInterval: interval}
	return NewResultWorker(store, q, cfg, zerolog.New(io.Discard))
}

func queued(t *testing.T, score, total int) (model.QueuedResult, string) {
	t.Helper()
	msg := model.QueuedResult{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		CategoryID:     "science",
		Score:          score,
		TotalQuestions: total,
		TimeSpent:      12,
		Date:           time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	return msg, string(raw)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestDecodeResult(t *testing.T) {
	msg, raw := queued(t, 3, 5)

	p, err := decodeResult(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.raw != raw {
		t.Error("raw payload not kept")
	}
	if p.result.ID != msg.ID || p.result.UserID != msg.UserID {
		t.Error("ids not carried over")
	}
	if p.result.TotalQuestions != 5 || p.result.Score != 3 || p.result.TimeSpent != 12 {
		t.Errorf("unexpected row: %+v", p.result)
	}
	if !p.result.CreatedAt.Equal(msg.Date) {
		t.Errorf("created_at = %v, want %v", p.result.CreatedAt, msg.Date)
	}
}

func TestDecodeResultRejects(t *testing.T) {
	_, over := queued(t, 6, 5)
	_, empty := queued(t, 0, 0)
	noUser := `{"id":"` + uuid.NewString() + `","category_id":"science","score":1,"total_questions":2}`

	for name, raw := range map[string]string{
		"not json":       "{",
		"score too high": over,
		"no questions":   empty,
		"missing user":   noUser,
	} {
		if _, err := decodeResult(raw); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestIsPermanent(t *testing.T) {
	if !isPermanent(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign key violation should be permanent")
	}
	if isPermanent(&pgconn.PgError{Code: "40001"}) {
		t.Error("serialization failure should be retried")
	}
	if isPermanent(errors.New("connection reset")) {
		t.Error("plain errors should be retried")
	}
}

func TestFlushFallsBackToSingleInserts(t *testing.T) {
	okMsg, okRaw := queued(t, 1, 2)
	badMsg, badRaw := queued(t, 1, 2)
	flakyMsg, flakyRaw := queued(t, 1, 2)

	store := &memStore{
		batchErr: errors.New("bulk failed"),
		insertErr: map[uuid.UUID]error{
			badMsg.ID:   &pgconn.PgError{Code: "23503"},
			flakyMsg.ID: errors.New("timeout"),
		},
	}
	q := &memQueue{}
	w := newTestWorker(store, q, 10, time.Second)

	var batch []pending
	for _, raw := range []string{okRaw, badRaw, flakyRaw} {
		p, err := decodeResult(raw)
		if err != nil {
			t.Fatal(err)
		}
		batch = append(batch, p)
	}

	if n := w.flush(context.Background(), batch); n != 1 {
		t.Fatalf("requeued = %d, want 1", n)
	}
	if store.Count() != 1 || store.rows[0].ID != okMsg.ID {
		t.Errorf("stored rows = %+v, want only %s", store.rows, okMsg.ID)
	}
	if q.Len() != 1 || q.items[0] != flakyRaw {
		t.Errorf("queue = %v, want the transient failure requeued", q.items)
	}
}

func TestStartFlushesFullBatches(t *testing.T) {
	store := &memStore{}
	q := &memQueue{}
	for i := 0; i < 4; i++ {
		_, raw := queued(t, 1, 1)
		q.Push(context.Background(), raw)
	}

	w := newTestWorker(store, q, 2, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	waitFor(t, func() bool { return store.Count() == 4 })
	cancel()
	<-done

	if store.batches != 2 {
		t.Errorf("batches = %d, want 2", store.batches)
	}
}

func TestStartFlushesPartialBatchAfterInterval(t *testing.T) {
	store := &memStore{}
	q := &memQueue{}
	_, raw := queued(t, 2, 3)
	q.Push(context.Background(), raw)

	w := newTestWorker(store, q, 50, 20*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	waitFor(t, func() bool { return store.Count() == 1 })
	cancel()
	<-done
}

func TestStartDrainsOnShutdown(t *testing.T) {
	store := &memStore{}
	q := &memQueue{}
	for i := 0; i < 5; i++ {
		_, raw := queued(t, 0, 4)
		q.Push(context.Background(), raw)
	}
	q.Push(context.Background(), "garbage")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	newTestWorker(store, q, 2, time.Hour).Start(ctx)

	if store.Count() != 5 {
		t.Errorf("stored = %d, want 5", store.Count())
	}
	if q.Len() != 0 {
		t.Errorf("queue still holds %d items", q.Len())
	}
}

func TestDrainStopsWhenDatabaseDown(t *testing.T) {
	store := &memStore{batchErr: errors.New("down"), insertErr: map[uuid.UUID]error{}}
	q := &memQueue{}
	for i := 0; i < 3; i++ {
		msg, raw := queued(t, 1, 1)
		store.insertErr[msg.ID] = errors.New("down")
		q.Push(context.Background(), raw)
	}

	newTestWorker(store, q, 10, time.Hour).drain(context.Background())

	if store.Count() != 0 {
		t.Errorf("stored = %d, want 0", store.Count())
	}
	if q.Len() != 3 {
		t.Errorf("queue = %d, want all 3 requeued", q.Len())
	}
}

func TestStartBacksOffWhileDatabaseDown(t *testing.T) {
	msg, raw := queued(t, 1, 1)
	store := &memStore{
		batchErr:  errors.New("down"),
		insertErr: map[uuid.UUID]error{msg.ID: errors.New("down")},
	}
	q := &memQueue{}
	q.Push(context.Background(), raw)

	w := newTestWorker(store, q, 1, time.Hour)
	w.retryBackoff = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	waitFor(t, func() bool { return store.Attempts() >= 1 })
	time.Sleep(50 * time.Millisecond)
	if n := store.Attempts(); n != 1 {
		t.Fatalf("attempts = %d while backing off, want 1", n)
	}

	cancel()
	<-done

	// One more try while draining, then the row stays queued.
	if n := store.Attempts(); n != 2 {
		t.Errorf("attempts after shutdown = %d, want 2", n)
	}
	if q.Len() != 1 {
		t.Errorf("queue = %d, want the row kept", q.Len())
	}
}
