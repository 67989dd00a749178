package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const ctxSession contextKey = "session"

// Session is the authenticated admin behind a request.
type Session struct {
	UserID   uuid.UUID
	Username string
	Role     string
	AccessID string
}

// WithSession stores the session on the context.
func WithSession(ctx context.Context, s Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSession, s)
}

// SessionFromContext returns the session seeded by Auth, if any.
func SessionFromContext(ctx context.Context) (Session, bool) {
	if ctx == nil {
		return Session{}, false
	}
	s, ok := ctx.Value(ctxSession).(Session)
	return s, ok
}

func UserIDFromContext(ctx context.Context) string {
	if s, ok := SessionFromContext(ctx); ok && s.UserID != uuid.Nil {
		return s.UserID.String()
	}
	return ""
}
