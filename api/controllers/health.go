package controllers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/angelmondragon/catering-backend/api/responses"
	"github.com/angelmondragon/catering-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/catering-backend/pkg/errors"
	"github.com/angelmondragon/catering-backend/pkg/logger"
)

const (
	envHeader    = "X-Catering-Env"
	readyTimeout = 2 * time.Second
)

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every dependency and answers 503 naming the ones down.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		var down []string
		for _, name := range names {
			if dep := deps[name]; dep == nil || dep.Ping(ctx) != nil {
				down = append(down, name)
			}
		}
		if len(down) > 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").
				WithDetails(map[string]any{"down": down}))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

// APIHealth keeps the storefront's original probe shape.
func APIHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status":  "ok",
			"message": "Catering App Backend is running",
		})
	}
}
