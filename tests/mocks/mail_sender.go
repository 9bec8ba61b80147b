package mocks

import (
	"context"
	"strings"
	"sync"
	"testing"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/valueobject/mails"
)

type MockMailSender struct {
	mu        sync.Mutex
	sentMails []mails.Payload
}

func NewMockMailSender() *MockMailSender {
	return &MockMailSender{
		sentMails: make([]mails.Payload, 0),
	}
}

func (m *MockMailSender) SendMail(ctx context.Context, payload mails.Payload) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sentMails = append(m.sentMails, payload)
	return nil
}

func (m *MockMailSender) GetSentMails() []mails.Payload {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]mails.Payload{}, m.sentMails...)
}

func (m *MockMailSender) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sentMails = make([]mails.Payload, 0)
}

func (m *MockMailSender) AssertMailSent(t *testing.T, email, subject string) {
	t.Helper()

	for _, sent := range m.GetSentMails() {
		if sent.To == email && strings.Contains(sent.Subject, subject) {
			return
		}
	}
	t.Errorf("Expected mail to %s with subject containing %q not found", email, subject)
}

func (m *MockMailSender) AssertBodyContains(t *testing.T, email, fragment string) {
	t.Helper()

	for _, sent := range m.GetSentMails() {
		if sent.To == email && strings.Contains(sent.Body, fragment) {
			return
		}
	}
	t.Errorf("Expected mail to %s with body containing %q not found", email, fragment)
}

func (m *MockMailSender) AssertNothingSent(t *testing.T) {
	t.Helper()

	if sent := m.GetSentMails(); len(sent) != 0 {
		t.Errorf("Expected no mails sent, got %d", len(sent))
	}
}
