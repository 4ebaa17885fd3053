package research

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/boardofone/advisory-backend/internal/core/embeddings"
	"github.com/boardofone/advisory-backend/internal/core/llm"
	db "github.com/boardofone/advisory-backend/internal/storage"
)

type stubStore struct {
	entry      *db.ResearchEntry
	findErr    error
	inserted   []string
	insertErr  error
	deleted    []int64
	staleCount int64
}

func (s *stubStore) FindSimilarResearch(_ context.Context, _ []float32, _ float32) (*db.ResearchEntry, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}

	return s.entry, nil
}

func (s *stubStore) InsertResearchAnswer(_ context.Context, question string, _ []float32, _, _ string) (string, error) {
	s.inserted = append(s.inserted, question)

	return "id", s.insertErr
}

func (s *stubStore) DeleteStaleResearch(_ context.Context, _, _ time.Time, _ int) (int64, error) {
	if len(s.deleted) == 0 {
		return 0, nil
	}

	n := s.deleted[0]
	s.deleted = s.deleted[1:]

	return n, nil
}

func (s *stubStore) CountStaleResearch(_ context.Context, _, _ time.Time) (int64, error) {
	return s.staleCount, nil
}

func newTestService(store *stubStore) *Service {
	logger := zerolog.Nop()
	embedder := embeddings.NewMockProvider(embeddings.DefaultDimensions)

	return NewService(store, embedder, llm.NewMockClient(), 0.92, &logger)
}

func TestAskServesFromCache(t *testing.T) {
	store := &stubStore{entry: &db.ResearchEntry{
		Answer:     "cached answer",
		Similarity: 0.97,
	}}

	got, err := newTestService(store).Ask(context.Background(), nil, "how big is the market?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if !got.Cached || got.Answer != "cached answer" {
		t.Fatalf("expected cached answer, got %+v", got)
	}

	if len(store.inserted) != 0 {
		t.Fatal("cache hit must not insert")
	}
}

func TestAskFallsThroughOnMiss(t *testing.T) {
	store := &stubStore{findErr: db.ErrResearchCacheMiss}

	got, err := newTestService(store).Ask(context.Background(), nil, "how big is the market?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if got.Cached || got.Answer == "" {
		t.Fatalf("expected fresh answer, got %+v", got)
	}

	if len(store.inserted) != 1 {
		t.Fatalf("expected fresh answer stored, inserted=%v", store.inserted)
	}
}

func TestAskStoreFailureDoesNotFailRequest(t *testing.T) {
	store := &stubStore{findErr: db.ErrResearchCacheMiss, insertErr: errors.New("disk full")}

	got, err := newTestService(store).Ask(context.Background(), nil, "q")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if got.Answer == "" {
		t.Fatal("expected answer despite store failure")
	}
}

func TestCleanupLoopsUntilDrained(t *testing.T) {
	store := &stubStore{deleted: []int64{1000, 1000, 250}}
	logger := zerolog.Nop()

	res, err := NewCleanup(store, &logger).Run(context.Background(), CleanupOptions{
		MaxAge:      30 * 24 * time.Hour,
		AccessGrace: 7 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.RowsDeleted != 2250 || res.Batches != 3 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestCleanupDryRunOnlyCounts(t *testing.T) {
	store := &stubStore{staleCount: 42, deleted: []int64{42}}
	logger := zerolog.Nop()

	res, err := NewCleanup(store, &logger).Run(context.Background(), CleanupOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !res.DryRun || res.RowsDeleted != 42 {
		t.Fatalf("unexpected result: %+v", res)
	}

	if len(store.deleted) != 1 {
		t.Fatal("dry run must not delete")
	}
}
