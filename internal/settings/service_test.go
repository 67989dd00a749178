package settings

import (
	"context"
	"io"
	"testing"

	"github.com/angelmondragon/catering-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/catering-backend/pkg/errors"
	"github.com/angelmondragon/catering-backend/pkg/logger"
	"github.com/angelmondragon/catering-backend/pkg/migrate"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migrate.AutoMigrateModels(conn))
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	svc, err := NewService(NewRepository(conn), logger.New(logger.Options{Level: zerolog.Disabled, Output: io.Discard}))
	require.NoError(t, err)
	return svc
}

func TestGetSeededHeader(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.Get(context.Background(), models.HeaderTextKey)
	require.NoError(t, err)
	assert.Equal(t, migrate.DefaultHeaderText, got.Value)
	assert.Contains(t, got.HTML, "<br /><br />")
}

func TestUpsertInsertsAndOverwrites(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Upsert(ctx, "promo_banner", "*Sconto* del 10%")
	require.NoError(t, err)
	assert.Equal(t, "<strong>Sconto</strong> del 10%", created.HTML)

	updated, err := svc.Upsert(ctx, "promo_banner", "~nuovo~")
	require.NoError(t, err)
	assert.Equal(t, "~nuovo~", updated.Value)

	got, err := svc.Get(ctx, "promo_banner")
	require.NoError(t, err)
	assert.Equal(t, "~nuovo~", got.Value)
	assert.Equal(t, "<em>nuovo</em>", got.HTML)
}

func TestUpsertRejectsBlankValue(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Upsert(context.Background(), models.HeaderTextKey, "   ")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	got, err := svc.Get(context.Background(), models.HeaderTextKey)
	require.NoError(t, err)
	assert.Equal(t, migrate.DefaultHeaderText, got.Value)
}

func TestKeyValidationAndNotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, "Bad Key!")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = svc.Get(ctx, "missing_key")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}
