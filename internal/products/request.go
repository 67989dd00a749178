package product

import (
	"github.com/shopspring/decimal"
)

// ProductRequest is the wire shape of a product write. Optional fields are
// pointers so ToInput can tell "absent" from "zero" and apply defaults once.
type ProductRequest struct {
	Name                string           `json:"name" validate:"required,max=200"`
	Description         *string          `json:"description,omitempty" validate:"omitempty,max=4000"`
	Images              []string         `json:"images,omitempty" validate:"omitempty,max=20,dive,max=2048"`
	PricePerWeightUnit  *decimal.Decimal `json:"price_per_weight_unit,omitempty"`
	PricePerPiece       *decimal.Decimal `json:"price_per_piece,omitempty"`
	PiecesPerWeightUnit *decimal.Decimal `json:"pieces_per_weight_unit,omitempty"`
	IsSoldByPiece       *bool            `json:"is_sold_by_piece,omitempty"`
	MinOrderQuantity    *decimal.Decimal `json:"min_order_quantity,omitempty"`
	OrderIncrement      *decimal.Decimal `json:"order_increment,omitempty"`
	MaxOrderQuantity    *decimal.Decimal `json:"max_order_quantity,omitempty"`
	AllowMultiple       *bool            `json:"allow_multiple,omitempty"`
	IsVisible           *bool            `json:"is_visible,omitempty"`
	ShowServings        *bool            `json:"show_servings,omitempty"`
	ServingsPerUnit     *decimal.Decimal `json:"servings_per_unit,omitempty"`
	IsGlutenFree        *bool            `json:"is_gluten_free,omitempty"`
	IsLactoseFree       *bool            `json:"is_lactose_free,omitempty"`
}

var one = decimal.NewFromInt(1)

// ToInput resolves defaults: quantities start at 1 and move by 1, products
// are visible, every other flag is off and nullable decimals stay null.
func (r ProductRequest) ToInput() ProductInput {
	return ProductInput{
		Name:                r.Name,
		Description:         r.Description,
		Images:              append([]string{}, r.Images...),
		PricePerWeightUnit:  decimalOr(r.PricePerWeightUnit, decimal.Zero),
		PricePerPiece:       nullable(r.PricePerPiece),
		PiecesPerWeightUnit: nullable(r.PiecesPerWeightUnit),
		IsSoldByPiece:       boolOr(r.IsSoldByPiece, false),
		MinOrderQuantity:    decimalOr(r.MinOrderQuantity, one),
		OrderIncrement:      decimalOr(r.OrderIncrement, one),
		MaxOrderQuantity:    nullable(r.MaxOrderQuantity),
		AllowMultiple:       boolOr(r.AllowMultiple, false),
		IsVisible:           boolOr(r.IsVisible, true),
		ShowServings:        boolOr(r.ShowServings, false),
		ServingsPerUnit:     nullable(r.ServingsPerUnit),
		IsGlutenFree:        boolOr(r.IsGlutenFree, false),
		IsLactoseFree:       boolOr(r.IsLactoseFree, false),
	}
}

func decimalOr(v *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if v == nil {
		return fallback
	}
	return *v
}

func nullable(v *decimal.Decimal) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*v)
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
