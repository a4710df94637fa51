package engine

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/salesbridge/automation/pkg/persistence/file"
	"github.com/salesbridge/automation/pkg/queue"
	"github.com/salesbridge/automation/pkg/registry"
)

// Recording collaborator fakes shared by the executor and engine tests.

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

type recordingEmailSender struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (s *recordingEmailSender) Send(_ context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sent = append(s.sent, sentEmail{To: to, Subject: subject, Body: body})

	return nil
}

func (s *recordingEmailSender) emails() []sentEmail {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]sentEmail(nil), s.sent...)
}

type sentNotification struct {
	UserID  string
	Title   string
	Message string
}

type recordingNotificationSink struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (s *recordingNotificationSink) Notify(_ context.Context, userID, title, message, _, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sent = append(s.sent, sentNotification{UserID: userID, Title: title, Message: message})

	return nil
}

func (s *recordingNotificationSink) notifications() []sentNotification {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]sentNotification(nil), s.sent...)
}

type activityEntry struct {
	UserID string
	Action string
}

type recordingActivityLog struct {
	mu      sync.Mutex
	entries []activityEntry
}

func (s *recordingActivityLog) Log(_ context.Context, userID, action, _, _ string, _ map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, activityEntry{UserID: userID, Action: action})

	return nil
}

// testHarness bundles the store, collaborators, registry, and queue the
// engine-level tests wire together.
type testHarness struct {
	store  *file.Persistence
	email  *recordingEmailSender
	sink   *recordingNotificationSink
	audit  *recordingActivityLog
	queue  *queue.DelayQueue
	reg    *registry.Registry
	logger *slog.Logger
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	logger := slog.Default()
	store := file.NewPersistence(t.TempDir())
	email := &recordingEmailSender{}
	sink := &recordingNotificationSink{}
	audit := &recordingActivityLog{}

	reg := registry.NewDefaultRegistry(logger, registry.Collaborators{
		Store:         store,
		Notifications: sink,
		Email:         email,
		Activity:      audit,
	})

	delayQueue := queue.NewDelayQueue(logger)
	t.Cleanup(func() {
		_ = delayQueue.Close()
	})

	return &testHarness{
		store:  store,
		email:  email,
		sink:   sink,
		audit:  audit,
		queue:  delayQueue,
		reg:    reg,
		logger: logger,
	}
}
