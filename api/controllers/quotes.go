package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/catering-backend/api/responses"
	"github.com/angelmondragon/catering-backend/api/validators"
	"github.com/angelmondragon/catering-backend/internal/quote"
	pkgerrors "github.com/angelmondragon/catering-backend/pkg/errors"
	"github.com/angelmondragon/catering-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

func quoteSessionID(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "sessionId"))
}

func quoteUnavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
}

// CreateQuote opens an empty quote cart and returns its session id.
func CreateQuote(svc quote.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			quoteUnavailable(w, r, logg)
			return
		}
		view, err := svc.Create(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

func GetQuote(svc quote.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			quoteUnavailable(w, r, logg)
			return
		}
		view, err := svc.Get(r.Context(), quoteSessionID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// AddQuoteProduct toggles or appends a product depending on its behavior.
func AddQuoteProduct(svc quote.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			quoteUnavailable(w, r, logg)
			return
		}
		productID, err := validators.UUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		res, err := svc.AddProduct(r.Context(), quoteSessionID(r), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, res)
	}
}

// ApplyQuoteDelta steps one line up or down by its product's increment.
func ApplyQuoteDelta(svc quote.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			quoteUnavailable(w, r, logg)
			return
		}
		instanceID, err := validators.UUIDParam(r, "instanceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dir, err := quote.ParseDirection(chi.URLParam(r, "direction"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "direction must be increment or decrement"))
			return
		}
		res, err := svc.ApplyDelta(r.Context(), quoteSessionID(r), instanceID, dir)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, res)
	}
}

func RemoveQuoteLine(svc quote.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			quoteUnavailable(w, r, logg)
			return
		}
		instanceID, err := validators.UUIDParam(r, "instanceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.RemoveLine(r.Context(), quoteSessionID(r), instanceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// DiscardQuote drops the whole cart.
func DiscardQuote(svc quote.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			quoteUnavailable(w, r, logg)
			return
		}
		if err := svc.Discard(r.Context(), quoteSessionID(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func QuoteMessage(svc quote.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			quoteUnavailable(w, r, logg)
			return
		}
		msg, err := svc.Message(r.Context(), quoteSessionID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, msg)
	}
}
