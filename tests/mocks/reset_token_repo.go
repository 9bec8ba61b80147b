package mocks

import (
	"context"
	"sync"
	"testing"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/event"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/passwordreset"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"
)

type ResetTokenRepo struct {
	db     map[passwordreset.ID]*passwordreset.Token
	events []event.Event
	mu     sync.Mutex
}

func NewResetTokenRepo() *ResetTokenRepo {
	return &ResetTokenRepo{
		db: make(map[passwordreset.ID]*passwordreset.Token),
	}
}

func (r *ResetTokenRepo) SaveToken(ctx context.Context, t *passwordreset.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.db[t.ID()] = t
	r.collectEventsLocked(t)
	return nil
}

func (r *ResetTokenRepo) GetTokenByHash(ctx context.Context, hash string) (*passwordreset.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.db {
		if t.TokenHash() == hash {
			return t, nil
		}
	}
	return nil, errorx.NewNotFound()
}

func (r *ResetTokenRepo) UpdateToken(ctx context.Context, id passwordreset.ID, fn func(context.Context, *passwordreset.Token) error) error {
	r.mu.Lock()
	t, ok := r.db[id]
	r.mu.Unlock()
	if !ok {
		return errorx.NewNotFound()
	}

	fnerr := fn(ctx, t)
	if fnerr != nil && !errorx.IsPersistable(fnerr) {
		return fnerr
	}

	r.mu.Lock()
	r.db[id] = t
	r.collectEventsLocked(t)
	r.mu.Unlock()

	return fnerr
}

func (r *ResetTokenRepo) InvalidatePendingByUserID(ctx context.Context, userID user.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.db {
		if t.UserID() == userID && t.Status() == passwordreset.StatusPending {
			t.Invalidate()
		}
	}
	return nil
}

func (r *ResetTokenRepo) collectEventsLocked(t *passwordreset.Token) {
	r.events = append(r.events, t.GetUncommittedEvents()...)
	t.MarkEventsAsCommitted()
}

func (r *ResetTokenRepo) Events() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]event.Event{}, r.events...)
}

func (r *ResetTokenRepo) SeedToken(t *testing.T, tok *passwordreset.Token) {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.db[tok.ID()]; exists {
		t.Fatalf("reset token with ID %v already exists", tok.ID())
	}
	r.db[tok.ID()] = tok
}

func (r *ResetTokenRepo) AssertStatus(t *testing.T, id passwordreset.ID, want passwordreset.Status) {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	tok, ok := r.db[id]
	if !ok {
		t.Fatalf("reset token with ID %v not found", id)
	}
	if tok.Status() != want {
		t.Errorf("expected reset token status %s, got %s", want, tok.Status())
	}
}

func (r *ResetTokenRepo) PendingCountByUserID(userID user.ID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, t := range r.db {
		if t.UserID() == userID && t.Status() == passwordreset.StatusPending {
			n++
		}
	}
	return n
}
