package testutil

import (
	"sync"

	"github.com/Evgeniy2001Poluhin/learning-platform/core"
)

// EmailServiceMock records messages instead of sending them.
type EmailServiceMock struct {
	mu   sync.Mutex
	sent []*core.EmailMessage
}

var _ core.EmailService = (*EmailServiceMock)(nil)

func NewEmailServiceMock() *EmailServiceMock {
	return &EmailServiceMock{}
}

func (svc *EmailServiceMock) SendMessages(messages ...*core.EmailMessage) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.sent = append(svc.sent, messages...)
}

func (svc *EmailServiceMock) Sent() []*core.EmailMessage {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return append([]*core.EmailMessage(nil), svc.sent...)
}

// NopLogger discards everything.
type NopLogger struct{}

var _ core.Logger = (*NopLogger)(nil)

func (NopLogger) Debug(msg string, args ...interface{}) {}
func (NopLogger) Info(msg string, args ...interface{})  {}
func (NopLogger) Warn(msg string, args ...interface{})  {}
func (NopLogger) Error(msg string, args ...interface{}) {}
func (NopLogger) Fatal(msg string, args ...interface{}) {}
