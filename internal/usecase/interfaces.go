package usecase

import "context"

// Server-pushed realtime events.
const (
	EventNewMessage       = "new-message"
	EventChatRequest      = "chat-request"
	EventRequestResponded = "request-responded"
)

// TokenProvider is the identity backend: it mints identities at sign-up,
// issues session tokens and resolves a token back to a user id.
type TokenProvider interface {
	CreateIdentity(ctx context.Context, email, password, displayName string) (string, error)
	IssueToken(ctx context.Context, uid string) (string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	UpdatePassword(ctx context.Context, uid, password string) error
}

// Notifier pushes realtime events. Delivery is at-most-once: an offline
// user or a slow connection simply misses the event.
type Notifier interface {
	// NotifyUser reports whether the event was handed to a live connection.
	NotifyUser(userID, event string, payload interface{}) bool
	BroadcastToChat(chatRequestID, event string, payload interface{})
}

type nopNotifier struct{}

func (nopNotifier) NotifyUser(string, string, interface{}) bool { return false }

func (nopNotifier) BroadcastToChat(string, string, interface{}) {}
