package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dkeye/momentsync/internal/config"
	"github.com/dkeye/momentsync/internal/domain"
	"github.com/dkeye/momentsync/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return s
}

func seedMoment(t *testing.T, s *Store) *domain.Moment {
	t.Helper()
	m := &domain.Moment{
		ID:            "m1",
		Name:          "Trip",
		Description:   "Summer trip",
		Owner:         "alice",
		AllowedUsers:  []domain.UserID{"alice", "bob"},
		WebRTCEnabled: true,
	}
	if err := s.CreateMoment(context.Background(), m); err != nil {
		t.Fatalf("create: %v", err)
	}
	return m
}

func TestCreateAndGetMoment(t *testing.T) {
	s := newTestStore(t)
	seedMoment(t, s)

	got, err := s.GetMoment(context.Background(), "m1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Trip" || got.Owner != "alice" || !got.WebRTCEnabled {
		t.Errorf("unexpected record: %+v", got)
	}
	if len(got.AllowedUsers) != 2 || got.AllowedUsers[1] != "bob" {
		t.Errorf("member list not preserved: %v", got.AllowedUsers)
	}
}

func TestGetMomentNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetMoment(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAppendMediaIdempotent(t *testing.T) {
	s := newTestStore(t)
	seedMoment(t, s)
	ctx := context.Background()

	changed, err := s.AppendMedia(ctx, "m1", "abc123")
	if err != nil || !changed {
		t.Fatalf("first append: changed=%v err=%v", changed, err)
	}
	changed, err = s.AppendMedia(ctx, "m1", "abc123")
	if err != nil || changed {
		t.Fatalf("second append should be a no-op: changed=%v err=%v", changed, err)
	}

	m, err := s.GetMoment(ctx, "m1")
	if err != nil {
		t.Fatal(err)
	}
	if len(m.MediaIDs) != 1 || m.MediaIDs[0] != "abc123" {
		t.Errorf("media id should appear exactly once, got %v", m.MediaIDs)
	}
}

func TestRemoveMedia(t *testing.T) {
	s := newTestStore(t)
	seedMoment(t, s)
	ctx := context.Background()

	if _, err := s.AppendMedia(ctx, "m1", "abc123"); err != nil {
		t.Fatal(err)
	}
	changed, err := s.RemoveMedia(ctx, "m1", "abc123")
	if err != nil || !changed {
		t.Fatalf("remove: changed=%v err=%v", changed, err)
	}
	changed, err = s.RemoveMedia(ctx, "m1", "abc123")
	if err != nil || changed {
		t.Fatalf("second remove should be a no-op: changed=%v err=%v", changed, err)
	}
}

func TestMediaOpsOnUnknownMoment(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.AppendMedia(context.Background(), "missing", "x"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("append: expected ErrNotFound, got %v", err)
	}
	if _, err := s.RemoveMedia(context.Background(), "missing", "x"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("remove: expected ErrNotFound, got %v", err)
	}
}
