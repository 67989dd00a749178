package controllers

import (
	"net/http"

	"github.com/angelmondragon/catering-backend/api/responses"
	"github.com/angelmondragon/catering-backend/api/validators"
	catering "github.com/angelmondragon/catering-backend/internal/caterings"
	"github.com/angelmondragon/catering-backend/internal/quote"
	pkgerrors "github.com/angelmondragon/catering-backend/pkg/errors"
	"github.com/angelmondragon/catering-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type cateringItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"dgt=0"`
}

type cateringRequest struct {
	Name               string                `json:"name" validate:"required,max=200"`
	Description        *string               `json:"description,omitempty" validate:"omitempty,max=4000"`
	Images             []string              `json:"images,omitempty" validate:"omitempty,max=20,dive,max=2048"`
	TotalPrice         *decimal.Decimal      `json:"total_price" validate:"required,dgte=0"`
	DiscountPercentage *decimal.Decimal      `json:"discount_percentage,omitempty" validate:"omitempty,dgte=0,dlt=100"`
	IsGlutenFree       *bool                 `json:"is_gluten_free,omitempty"`
	IsLactoseFree      *bool                 `json:"is_lactose_free,omitempty"`
	SortOrder          *int                  `json:"sort_order,omitempty" validate:"omitempty,min=0"`
	Items              []cateringItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (r cateringRequest) toInput() catering.CateringInput {
	discount := decimal.Zero
	if r.DiscountPercentage != nil {
		discount = *r.DiscountPercentage
	}
	images := r.Images
	if images == nil {
		images = []string{}
	}
	return catering.CateringInput{
		Name:               r.Name,
		Description:        r.Description,
		Images:             images,
		TotalPrice:         *r.TotalPrice,
		DiscountPercentage: discount,
		IsGlutenFree:       r.IsGlutenFree != nil && *r.IsGlutenFree,
		IsLactoseFree:      r.IsLactoseFree != nil && *r.IsLactoseFree,
		SortOrder:          r.SortOrder,
		Items:              itemInputs(r.Items),
	}
}

func itemInputs(items []cateringItemRequest) []catering.ItemInput {
	out := make([]catering.ItemInput, 0, len(items))
	for _, item := range items {
		out = append(out, catering.ItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return out
}

type reorderRequest struct {
	Items []struct {
		ID        uuid.UUID `json:"id" validate:"required"`
		SortOrder *int      `json:"sort_order" validate:"required,min=0"`
	} `json:"items" validate:"required,min=1,dive"`
}

type suggestedPriceRequest struct {
	Items []cateringItemRequest `json:"items" validate:"required,min=1,dive"`
}

func PublicListCaterings(svc catering.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catering service unavailable"))
			return
		}
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func PublicGetCatering(svc catering.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catering service unavailable"))
			return
		}
		id, err := validators.UUIDParam(r, "cateringId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// PublicCateringQuote renders the order message for a whole package.
func PublicCateringQuote(svc catering.Service, quotes quote.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || quotes == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}
		id, err := validators.UUIDParam(r, "cateringId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pkg, err := svc.Package(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		msg, err := quotes.PackageMessage(r.Context(), pkg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, msg)
	}
}

func AdminCreateCatering(svc catering.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catering service unavailable"))
			return
		}
		var payload cateringRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// AdminUpdateCatering replaces the package and its full item list.
func AdminUpdateCatering(svc catering.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catering service unavailable"))
			return
		}
		id, err := validators.UUIDParam(r, "cateringId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload cateringRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func AdminDeleteCatering(svc catering.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catering service unavailable"))
			return
		}
		id, err := validators.UUIDParam(r, "cateringId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func AdminReorderCaterings(svc catering.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catering service unavailable"))
			return
		}
		var payload reorderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items := make([]catering.ReorderItem, 0, len(payload.Items))
		for _, item := range payload.Items {
			items = append(items, catering.ReorderItem{ID: item.ID, SortOrder: *item.SortOrder})
		}
		if err := svc.Reorder(r.Context(), items); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"updated": len(items)})
	}
}

func AdminSuggestedPrice(svc catering.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catering service unavailable"))
			return
		}
		var payload suggestedPriceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.SuggestedPrice(r.Context(), itemInputs(payload.Items))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
