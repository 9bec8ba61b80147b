package mocks

import (
	"context"
	"sync"
	"testing"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/session"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"
)

type SessionRepo struct {
	db map[session.ID]*session.Session
	mu sync.Mutex
}

func NewSessionRepo() *SessionRepo {
	return &SessionRepo{
		db: make(map[session.ID]*session.Session),
	}
}

func (r *SessionRepo) SaveSession(ctx context.Context, s *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.db[s.ID()] = s
	return nil
}

func (r *SessionRepo) GetSessionByID(ctx context.Context, id session.ID) (*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.db[id]; ok {
		return s, nil
	}
	return nil, errorx.Wrap(session.ErrNotFound, "mocks.SessionRepo.GetSessionByID")
}

func (r *SessionRepo) UpdateSession(ctx context.Context, id session.ID, fn func(context.Context, *session.Session) error) error {
	r.mu.Lock()
	s, ok := r.db[id]
	r.mu.Unlock()
	if !ok {
		return errorx.Wrap(session.ErrNotFound, "mocks.SessionRepo.UpdateSession")
	}

	fnerr := fn(ctx, s)
	if fnerr != nil && !errorx.IsPersistable(fnerr) {
		return fnerr
	}

	r.mu.Lock()
	r.db[id] = s
	r.mu.Unlock()

	return fnerr
}

func (r *SessionRepo) RevokeAllByUserID(ctx context.Context, userID user.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.db {
		if s.UserID() == userID && !s.IsRevoked() {
			s.Revoke()
		}
	}
	return nil
}

func (r *SessionRepo) SeedSession(t *testing.T, s *session.Session) {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.db[s.ID()]; exists {
		t.Fatalf("session with ID %v already exists", s.ID())
	}
	r.db[s.ID()] = s
}

func (r *SessionRepo) ActiveCountByUserID(userID user.ID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, s := range r.db {
		if s.UserID() == userID && !s.IsRevoked() {
			n++
		}
	}
	return n
}

func (r *SessionRepo) AssertRevoked(t *testing.T, id session.ID) {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.db[id]
	if !ok {
		t.Fatalf("session with ID %v not found", id)
	}
	if !s.IsRevoked() {
		t.Errorf("expected session %v to be revoked", id)
	}
}

func (r *SessionRepo) AssertAllRevoked(t *testing.T, userID user.ID) {
	t.Helper()

	if n := r.ActiveCountByUserID(userID); n != 0 {
		t.Errorf("expected all sessions of user %s to be revoked, %d still active", userID, n)
	}
}
