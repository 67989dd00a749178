package product

import (
	"time"

	"github.com/angelmondragon/catering-backend/internal/quote"
	"github.com/angelmondragon/catering-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO is the catalog payload returned to clients. Besides the stored
// columns it carries the pricing annotations the storefront renders.
type ProductDTO struct {
	ID                  uuid.UUID           `json:"id"`
	Name                string              `json:"name"`
	Description         *string             `json:"description,omitempty"`
	Images              []string            `json:"images"`
	PricePerWeightUnit  decimal.Decimal     `json:"price_per_weight_unit"`
	PricePerPiece       decimal.NullDecimal `json:"price_per_piece"`
	PiecesPerWeightUnit decimal.NullDecimal `json:"pieces_per_weight_unit"`
	IsSoldByPiece       bool                `json:"is_sold_by_piece"`
	MinOrderQuantity    decimal.Decimal     `json:"min_order_quantity"`
	OrderIncrement      decimal.Decimal     `json:"order_increment"`
	MaxOrderQuantity    decimal.NullDecimal `json:"max_order_quantity"`
	AllowMultiple       bool                `json:"allow_multiple"`
	IsVisible           bool                `json:"is_visible"`
	ShowServings        bool                `json:"show_servings"`
	ServingsPerUnit     decimal.NullDecimal `json:"servings_per_unit"`
	IsGlutenFree        bool                `json:"is_gluten_free"`
	IsLactoseFree       bool                `json:"is_lactose_free"`
	Pricing             PricingDTO          `json:"pricing"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// PricingDTO summarises how the unit model treats the product.
type PricingDTO struct {
	Mode        quote.PricingMode  `json:"mode"`
	Unit        quote.Unit         `json:"unit"`
	UnitLabel   string             `json:"unit_label"`
	UnitPrice   string             `json:"unit_price"`
	Adjustable  bool               `json:"adjustable"`
	Behavior    quote.BehaviorKind `json:"behavior"`
	Valid       bool               `json:"valid"`
	InitialCost string             `json:"initial_cost"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	images := append([]string{}, product.Images...)
	return &ProductDTO{
		ID:                  product.ID,
		Name:                product.Name,
		Description:         product.Description,
		Images:              images,
		PricePerWeightUnit:  product.PricePerWeightUnit,
		PricePerPiece:       product.PricePerPiece,
		PiecesPerWeightUnit: product.PiecesPerWeightUnit,
		IsSoldByPiece:       product.IsSoldByPiece,
		MinOrderQuantity:    product.MinOrderQuantity,
		OrderIncrement:      product.OrderIncrement,
		MaxOrderQuantity:    product.MaxOrderQuantity,
		AllowMultiple:       product.AllowMultiple,
		IsVisible:           product.IsVisible,
		ShowServings:        product.ShowServings,
		ServingsPerUnit:     product.ServingsPerUnit,
		IsGlutenFree:        product.IsGlutenFree,
		IsLactoseFree:       product.IsLactoseFree,
		Pricing:             newPricingDTO(SnapshotOf(product)),
		CreatedAt:           product.CreatedAt,
		UpdatedAt:           product.UpdatedAt,
	}
}

func newPricingDTO(s quote.Snapshot) PricingDTO {
	constraints := quote.ConstraintsFor(s)
	start, startErr := constraints.InitialQuantity()
	if startErr != nil {
		start = s.MinOrderQuantity
	}
	pricing, err := quote.Price(s, start)
	return PricingDTO{
		Mode:        pricing.Mode,
		Unit:        pricing.Unit,
		UnitLabel:   pricing.Unit.Abbrev(),
		UnitPrice:   quote.Money(pricing.UnitPrice),
		Adjustable:  constraints.Adjustable(),
		Behavior:    quote.BehaviorFor(s).Kind(),
		Valid:       err == nil,
		InitialCost: quote.Money(pricing.Amount),
	}
}

// SnapshotOf copies the pricing and constraint columns the quote layer needs.
func SnapshotOf(product *models.Product) quote.Snapshot {
	return quote.Snapshot{
		ProductID:           product.ID,
		Name:                product.Name,
		PricePerWeightUnit:  product.PricePerWeightUnit,
		PricePerPiece:       product.PricePerPiece,
		PiecesPerWeightUnit: product.PiecesPerWeightUnit,
		IsSoldByPiece:       product.IsSoldByPiece,
		MinOrderQuantity:    product.MinOrderQuantity,
		OrderIncrement:      product.OrderIncrement,
		MaxOrderQuantity:    product.MaxOrderQuantity,
		AllowMultiple:       product.AllowMultiple,
		ShowServings:        product.ShowServings,
		ServingsPerUnit:     product.ServingsPerUnit,
		IsGlutenFree:        product.IsGlutenFree,
		IsLactoseFree:       product.IsLactoseFree,
	}
}
