package mocks

import (
	"context"
	"sync"
	"testing"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/event"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"
)

type UserRepo struct {
	dbbyID    map[user.ID]*user.User
	dbbyEmail map[string]*user.User
	events    []event.Event
	mu        sync.Mutex
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		dbbyID:    make(map[user.ID]*user.User),
		dbbyEmail: make(map[string]*user.User),
	}
}

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.dbbyEmail[email]; ok {
		return u, nil
	}
	return nil, errorx.NewNotFound()
}

func (r *UserRepo) GetUserByID(ctx context.Context, id user.ID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.dbbyID[id]; ok {
		return u, nil
	}
	return nil, errorx.NewNotFound()
}

func (r *UserRepo) SaveUser(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.dbbyEmail[u.Email()]; exists {
		return errorx.Wrap(user.ErrEmailAlreadyExists, "mocks.UserRepo.SaveUser")
	}

	r.dbbyID[u.ID()] = u
	r.dbbyEmail[u.Email()] = u
	r.collectEventsLocked(u)
	return nil
}

func (r *UserRepo) UpdateUser(ctx context.Context, id user.ID, fn func(context.Context, *user.User) error) error {
	r.mu.Lock()
	u, ok := r.dbbyID[id]
	r.mu.Unlock()
	if !ok {
		return errorx.NewNotFound()
	}

	fnerr := fn(ctx, u)
	if fnerr != nil && !errorx.IsPersistable(fnerr) {
		return fnerr
	}

	r.mu.Lock()
	r.dbbyID[id] = u
	r.dbbyEmail[u.Email()] = u
	r.collectEventsLocked(u)
	r.mu.Unlock()

	return fnerr
}

func (r *UserRepo) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.dbbyEmail[email]
	return ok, nil
}

func (r *UserRepo) collectEventsLocked(u *user.User) {
	r.events = append(r.events, u.GetUncommittedEvents()...)
	u.MarkEventsAsCommitted()
}

func (r *UserRepo) Events() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]event.Event{}, r.events...)
}

func (r *UserRepo) SeedUser(t *testing.T, u *user.User) {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.dbbyID[u.ID()]; exists {
		t.Fatalf("user with ID %s already exists", u.ID())
	}
	if _, exists := r.dbbyEmail[u.Email()]; exists {
		t.Fatalf("user with email %s already exists", u.Email())
	}

	r.dbbyID[u.ID()] = u
	r.dbbyEmail[u.Email()] = u
}

func (r *UserRepo) AssertUserVerified(t *testing.T, email string) {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.dbbyEmail[email]
	if !ok {
		t.Fatalf("user with email %s not found", email)
	}
	if !u.IsVerified() {
		t.Errorf("expected user %s to be verified", email)
	}
}

func (r *UserRepo) AssertUserNotExists(t *testing.T, email string) {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.dbbyEmail[email]; ok {
		t.Errorf("expected user %s to not exist", email)
	}
}
