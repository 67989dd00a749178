package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/catering-backend/pkg/config"
	"github.com/angelmondragon/catering-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/catering-backend/pkg/errors"
	"github.com/angelmondragon/catering-backend/pkg/security"
	"gorm.io/gorm"
)

// Credentials maintains admin passwords outside the HTTP surface.
type Credentials struct {
	repo *Repository
	cfg  config.PasswordConfig
}

func NewCredentials(repo *Repository, cfg config.PasswordConfig) (*Credentials, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &Credentials{repo: repo, cfg: cfg}, nil
}

// SetPassword creates the user when missing, otherwise replaces its hash.
// The bool reports whether a user was created.
func (c *Credentials) SetPassword(ctx context.Context, username, password string) (*models.User, bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if err := security.CheckStrength(password); err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "weak password")
	}
	hash, err := security.HashPassword(password, c.cfg)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := c.repo.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		created, err := c.repo.Create(ctx, CreateUserDTO{Username: username, PasswordHash: hash})
		if err != nil {
			return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert user")
		}
		return created, true, nil
	case err != nil:
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	if err := c.repo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update password")
	}
	user.PasswordHash = hash
	return user, false, nil
}

// CheckPassword reports whether password matches the stored hash.
func (c *Credentials) CheckPassword(ctx context.Context, username, password string) (bool, error) {
	user, err := c.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}
	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	return ok, nil
}
