package quote

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/angelmondragon/catering-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/catering-backend/pkg/errors"
	redisclient "github.com/angelmondragon/catering-backend/pkg/redis"
)

func newTestStore(t *testing.T, ttl time.Duration) (*SessionStore, *miniredis.Miniredis, *redisclient.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := redisclient.New(context.Background(), config.RedisConfig{Address: mr.Addr()}, nil)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	store, err := NewSessionStore(client, ttl)
	if err != nil {
		t.Fatalf("new session store: %v", err)
	}
	return store, mr, client
}

func TestSessionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr, client := newTestStore(t, time.Hour)

	id, cart, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ttl := mr.TTL(client.QuoteSessionKey(id)); ttl != time.Hour {
		t.Fatalf("expected 1h ttl, got %v", ttl)
	}

	s := pieceProduct("Arancini", "1.50")
	s.MaxOrderQuantity = nd("12")
	s.ServingsPerUnit = nd("0.5")
	if _, err := cart.AddProduct(s); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.Save(ctx, id, cart); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx, id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Len() != 1 {
		t.Fatalf("expected one line, got %d", loaded.Len())
	}
	got := loaded.Lines[0]
	if got.InstanceID != cart.Lines[0].InstanceID || !got.Quantity.Equal(d("1")) {
		t.Fatalf("line not preserved: %+v", got)
	}
	if !got.Product.PricePerPiece.Decimal.Equal(d("1.5")) || !got.Product.MaxOrderQuantity.Valid {
		t.Fatalf("snapshot not preserved: %+v", got.Product)
	}
	if got.Product.PiecesPerWeightUnit.Valid {
		t.Fatal("null decimals must stay null")
	}
}

func TestSessionStoreSlidingExpiry(t *testing.T) {
	ctx := context.Background()
	store, mr, _ := newTestStore(t, time.Minute)

	id, _, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	mr.FastForward(45 * time.Second)
	if _, err := store.Load(ctx, id); err != nil {
		t.Fatalf("load before expiry: %v", err)
	}
	mr.FastForward(45 * time.Second)
	if _, err := store.Load(ctx, id); err != nil {
		t.Fatalf("load should have refreshed ttl: %v", err)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := store.Load(ctx, id); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected expired session to be not found, got %v", err)
	}
}

func TestSessionStoreDeleteAndInvalidID(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(t, 0)

	id, _, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Load(ctx, id); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if _, err := store.Load(ctx, "not-a-uuid"); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSessionStoreCorruptPayload(t *testing.T) {
	ctx := context.Background()
	store, mr, client := newTestStore(t, time.Minute)

	id, _, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := mr.Set(client.QuoteSessionKey(id), "{not json"); err != nil {
		t.Fatalf("seed corrupt payload: %v", err)
	}
	if _, err := store.Load(ctx, id); !pkgerrors.Is(err, pkgerrors.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}
