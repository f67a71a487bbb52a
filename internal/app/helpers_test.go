package app

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/dkeye/momentsync/internal/core"
	"github.com/dkeye/momentsync/internal/domain"
	"github.com/dkeye/momentsync/internal/store"
)

// fakeConn records every frame it receives.
type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	closed bool
	fail   bool
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail || f.closed {
		return errors.New("send failed")
	}
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeConn) events(t *testing.T) []map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]any, 0, len(f.frames))
	for _, fr := range f.frames {
		var m map[string]any
		if err := json.Unmarshal(fr, &m); err != nil {
			t.Fatalf("received invalid frame %q: %v", fr, err)
		}
		out = append(out, m)
	}
	return out
}

func (f *fakeConn) eventsOfType(t *testing.T, kind string) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, e := range f.events(t) {
		if e["type"] == kind {
			out = append(out, e)
		}
	}
	return out
}

// memStore is an in-memory store.Store for router tests.
type memStore struct {
	mu      sync.Mutex
	moments map[domain.MomentID]*domain.Moment
	fail    bool
}

func newMemStore(moments ...*domain.Moment) *memStore {
	s := &memStore{moments: make(map[domain.MomentID]*domain.Moment)}
	for _, m := range moments {
		s.moments[m.ID] = m
	}
	return s
}

func (s *memStore) Close() error                      { return nil }
func (s *memStore) Migrate(ctx context.Context) error { return nil }

func (s *memStore) CreateMoment(ctx context.Context, m *domain.Moment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moments[m.ID] = m
	return nil
}

func (s *memStore) GetMoment(ctx context.Context, id domain.MomentID) (*domain.Moment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errors.New("store down")
	}
	m, ok := s.moments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *m
	cp.AllowedUsers = append([]domain.UserID(nil), m.AllowedUsers...)
	cp.MediaIDs = append([]domain.MediaID(nil), m.MediaIDs...)
	return &cp, nil
}

func (s *memStore) AppendMedia(ctx context.Context, id domain.MomentID, mediaID domain.MediaID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return false, errors.New("store down")
	}
	m, ok := s.moments[id]
	if !ok {
		return false, store.ErrNotFound
	}
	if m.HasMedia(mediaID) {
		return false, nil
	}
	m.MediaIDs = append(m.MediaIDs, mediaID)
	return true, nil
}

func (s *memStore) RemoveMedia(ctx context.Context, id domain.MomentID, mediaID domain.MediaID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return false, errors.New("store down")
	}
	m, ok := s.moments[id]
	if !ok {
		return false, store.ErrNotFound
	}
	kept := m.MediaIDs[:0]
	changed := false
	for _, existing := range m.MediaIDs {
		if existing == mediaID {
			changed = true
			continue
		}
		kept = append(kept, existing)
	}
	m.MediaIDs = kept
	return changed, nil
}

func testMoment() *domain.Moment {
	return &domain.Moment{
		ID:            "alice",
		Name:          "Alice's Moment",
		Owner:         "alice",
		AllowedUsers:  []domain.UserID{"alice", "bob"},
		WebRTCEnabled: true,
	}
}

// admit connects a user to a moment and fails the test on denial.
func admit(t *testing.T, o *Orchestrator, user domain.UserID, moment domain.MomentID) (*Client, *fakeConn) {
	t.Helper()
	conn := &fakeConn{}
	c, err := o.Admit(context.Background(), user, moment, conn)
	if err != nil {
		t.Fatalf("admit %s to %s: %v", user, moment, err)
	}
	return c, conn
}

func send(o *Orchestrator, c *Client, v map[string]any) {
	data, _ := json.Marshal(v)
	o.OnFrame(context.Background(), c, data)
}
