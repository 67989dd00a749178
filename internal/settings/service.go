package settings

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/angelmondragon/catering-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/catering-backend/pkg/errors"
	"github.com/angelmondragon/catering-backend/pkg/logger"
	"gorm.io/gorm"
)

var keyPattern = regexp.MustCompile(`^[a-z0-9_]{1,64}$`)

// SettingDTO carries a setting's raw value and its rendered markup.
type SettingDTO struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	HTML      string    `json:"html"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Service interface {
	Get(ctx context.Context, key string) (*SettingDTO, error)
	Upsert(ctx context.Context, key, value string) (*SettingDTO, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Get(ctx context.Context, key string) (*SettingDTO, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "setting not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load setting")
	}
	return newSettingDTO(setting), nil
}

// Upsert stores value under key. Blank values are rejected.
func (s *service) Upsert(ctx context.Context, key, value string) (*SettingDTO, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(value) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "value is required").
			WithDetails(map[string]string{"value": "is required"})
	}

	setting := &models.Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert setting")
	}

	s.logg.Info(s.logg.WithField(ctx, "key", key), "setting.updated")
	return newSettingDTO(setting), nil
}

func normalizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if !keyPattern.MatchString(key) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid setting key").
			WithDetails(map[string]string{"key": "must be 1-64 lowercase letters, digits or underscores"})
	}
	return key, nil
}

func newSettingDTO(s *models.Setting) *SettingDTO {
	return &SettingDTO{
		Key:       s.Key,
		Value:     s.Value,
		HTML:      RenderMarkup(s.Value),
		UpdatedAt: s.UpdatedAt,
	}
}
