package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/catering-backend/pkg/errors"
	redisclient "github.com/angelmondragon/catering-backend/pkg/redis"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

const defaultSessionTTL = 2 * time.Hour

type sessionBackend interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	QuoteSessionKey(sessionID string) string
}

// SessionStore keeps one cart per browsing session in Redis. Every read or
// write slides the expiry forward; an expired session is simply gone.
type SessionStore struct {
	backend sessionBackend
	keyer   sessionKeyer
	ttl     time.Duration
}

func NewSessionStore(client *redisclient.Client, ttl time.Duration) (*SessionStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{backend: client, keyer: client, ttl: ttl}, nil
}

// Create stores an empty cart under a fresh session id.
func (s *SessionStore) Create(ctx context.Context) (string, *Cart, error) {
	id := uuid.NewString()
	cart := NewCart()
	if err := s.Save(ctx, id, cart); err != nil {
		return "", nil, err
	}
	return id, cart, nil
}

func (s *SessionStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	key, err := s.key(sessionID)
	if err != nil {
		return nil, err
	}

	raw, err := s.backend.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote session not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote session")
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode quote session")
	}
	if cart.Lines == nil {
		cart.Lines = []Line{}
	}

	if _, err := s.backend.Expire(ctx, key, s.ttl); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refresh quote session")
	}
	return &cart, nil
}

func (s *SessionStore) Save(ctx context.Context, sessionID string, cart *Cart) error {
	key, err := s.key(sessionID)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode quote session")
	}
	if err := s.backend.Set(ctx, key, payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store quote session")
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	key, err := s.key(sessionID)
	if err != nil {
		return err
	}
	if err := s.backend.Del(ctx, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete quote session")
	}
	return nil
}

func (s *SessionStore) key(sessionID string) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	if _, err := uuid.Parse(sessionID); err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid quote session id")
	}
	return s.keyer.QuoteSessionKey(sessionID), nil
}
