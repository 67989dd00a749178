package controllers

import (
	"net/http"

	"github.com/angelmondragon/catering-backend/api/responses"
	"github.com/angelmondragon/catering-backend/api/validators"
	"github.com/angelmondragon/catering-backend/internal/auth"
	pkgerrors "github.com/angelmondragon/catering-backend/pkg/errors"
	"github.com/angelmondragon/catering-backend/pkg/logger"
)

// AuthLogin exchanges admin credentials for an access and refresh token.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
