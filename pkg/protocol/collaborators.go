package protocol

import "context"

// NotificationSink delivers in-app notifications. Implemented by the
// surrounding application.
type NotificationSink interface {
	Notify(ctx context.Context, userID, title, message, entityType, entityID string) error
}

// EmailSender delivers outbound mail. Transport is the surrounding
// application's concern.
type EmailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// ActivityLog records audit entries against an entity.
type ActivityLog interface {
	Log(ctx context.Context, userID, action, entityType, entityID string, metadata map[string]any) error
}
