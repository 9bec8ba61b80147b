package mocks

import (
	"context"
	"sync"
	"testing"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/event"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/otp"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"
)

type OTPRepo struct {
	db     map[otp.ID]*otp.OTP
	events []event.Event
	mu     sync.Mutex
}

func NewOTPRepo() *OTPRepo {
	return &OTPRepo{
		db: make(map[otp.ID]*otp.OTP),
	}
}

func (r *OTPRepo) SaveOTP(ctx context.Context, o *otp.OTP) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.db[o.ID()] = o
	r.collectEventsLocked(o)
	return nil
}

func (r *OTPRepo) GetOTPByID(ctx context.Context, id otp.ID) (*otp.OTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o, ok := r.db[id]; ok {
		return o, nil
	}
	return nil, errorx.NewNotFound()
}

func (r *OTPRepo) GetPendingOTPByUserID(ctx context.Context, userID user.ID) (*otp.OTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var latest *otp.OTP
	for _, o := range r.db {
		if o.UserID() != userID || !o.IsStatus(otp.StatusPending) {
			continue
		}
		if latest == nil || o.CreatedAt().After(latest.CreatedAt()) {
			latest = o
		}
	}
	if latest == nil {
		return nil, errorx.NewNotFound()
	}
	return latest, nil
}

func (r *OTPRepo) UpdateOTP(ctx context.Context, id otp.ID, fn func(context.Context, *otp.OTP) error) error {
	r.mu.Lock()
	o, ok := r.db[id]
	r.mu.Unlock()
	if !ok {
		return errorx.NewNotFound()
	}

	fnerr := fn(ctx, o)
	if fnerr != nil && !errorx.IsPersistable(fnerr) {
		return fnerr
	}

	r.mu.Lock()
	r.db[id] = o
	r.collectEventsLocked(o)
	r.mu.Unlock()

	return fnerr
}

func (r *OTPRepo) InvalidatePendingByUserID(ctx context.Context, userID user.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.db {
		if o.UserID() == userID && o.IsStatus(otp.StatusPending) {
			o.Invalidate()
		}
	}
	return nil
}

func (r *OTPRepo) collectEventsLocked(o *otp.OTP) {
	r.events = append(r.events, o.GetUncommittedEvents()...)
	o.MarkEventsAsCommitted()
}

func (r *OTPRepo) Events() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]event.Event{}, r.events...)
}

func (r *OTPRepo) SeedOTP(t *testing.T, o *otp.OTP) {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.db[o.ID()]; exists {
		t.Fatalf("otp with ID %v already exists", o.ID())
	}
	r.db[o.ID()] = o
}

// PendingCode returns the pending code for the user, or fails the test.
// Handy for driving the verify flow without poking the mailer.
func (r *OTPRepo) PendingCode(t *testing.T, userID user.ID) string {
	t.Helper()

	o, err := r.GetPendingOTPByUserID(context.Background(), userID)
	if err != nil {
		t.Fatalf("no pending otp for user %s: %v", userID, err)
	}
	return o.Code()
}

func (r *OTPRepo) AssertStatus(t *testing.T, id otp.ID, want otp.Status) {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.db[id]
	if !ok {
		t.Fatalf("otp with ID %v not found", id)
	}
	if o.Status() != want {
		t.Errorf("expected otp status %s, got %s", want, o.Status())
	}
}
