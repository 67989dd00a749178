package quote

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidSnapshot marks a product snapshot that lacks the fields its
// pricing mode needs. Such lines are priced at zero instead of failing.
var ErrInvalidSnapshot = errors.New("invalid product snapshot")

// Unit is the sale unit a quantity is expressed in.
type Unit string

const (
	UnitPiece  Unit = "piece"
	UnitWeight Unit = "weight"
)

// Abbrev returns the short label rendered next to quantities and unit prices.
func (u Unit) Abbrev() string {
	if u == UnitPiece {
		return "pz"
	}
	return "kg"
}

// PricingMode identifies which of the three price rules applies to a product.
type PricingMode string

const (
	ModePiecePrice     PricingMode = "piece_price"
	ModeWeightPerPiece PricingMode = "weight_per_piece"
	ModeWeight         PricingMode = "weight"
)

// Unit returns the sale unit used by the mode.
func (m PricingMode) Unit() Unit {
	if m == ModeWeight {
		return UnitWeight
	}
	return UnitPiece
}

// Snapshot is the copy of a product's pricing and constraint fields taken
// when it enters a cart or package. Later catalog edits do not reach it.
type Snapshot struct {
	ProductID           uuid.UUID           `json:"product_id"`
	Name                string              `json:"name"`
	PricePerWeightUnit  decimal.Decimal     `json:"price_per_weight_unit"`
	PricePerPiece       decimal.NullDecimal `json:"price_per_piece"`
	PiecesPerWeightUnit decimal.NullDecimal `json:"pieces_per_weight_unit"`
	IsSoldByPiece       bool                `json:"is_sold_by_piece"`
	MinOrderQuantity    decimal.Decimal     `json:"min_order_quantity"`
	OrderIncrement      decimal.Decimal     `json:"order_increment"`
	MaxOrderQuantity    decimal.NullDecimal `json:"max_order_quantity"`
	AllowMultiple       bool                `json:"allow_multiple"`
	ShowServings        bool                `json:"show_servings"`
	ServingsPerUnit     decimal.NullDecimal `json:"servings_per_unit"`
	IsGlutenFree        bool                `json:"is_gluten_free"`
	IsLactoseFree       bool                `json:"is_lactose_free"`
}

// Mode picks the active pricing rule. Piece price wins over the
// weight-with-piece display, which wins over plain weight.
func (s Snapshot) Mode() PricingMode {
	switch {
	case s.IsSoldByPiece:
		return ModePiecePrice
	case s.PiecesPerWeightUnit.Valid && s.PiecesPerWeightUnit.Decimal.IsPositive():
		return ModeWeightPerPiece
	default:
		return ModeWeight
	}
}

// Validate reports whether the snapshot carries the fields its mode needs.
func (s Snapshot) Validate() error {
	switch s.Mode() {
	case ModePiecePrice:
		if !s.PricePerPiece.Valid {
			return fmt.Errorf("%w: product %s is sold by piece without a piece price", ErrInvalidSnapshot, s.ProductID)
		}
		if s.PricePerPiece.Decimal.IsNegative() {
			return fmt.Errorf("%w: product %s has a negative piece price", ErrInvalidSnapshot, s.ProductID)
		}
	default:
		if s.PricePerWeightUnit.IsNegative() {
			return fmt.Errorf("%w: product %s has a negative weight price", ErrInvalidSnapshot, s.ProductID)
		}
	}
	return nil
}

// Pricing is the unit model's answer for one product and quantity.
type Pricing struct {
	Mode      PricingMode
	Unit      Unit
	UnitPrice decimal.Decimal
	Amount    decimal.Decimal
}

// Price converts a quantity of the product into money. Invalid snapshots
// come back priced at zero together with an error wrapping
// ErrInvalidSnapshot; the returned Pricing is usable either way.
func Price(s Snapshot, qty decimal.Decimal) (Pricing, error) {
	mode := s.Mode()
	p := Pricing{
		Mode:      mode,
		Unit:      mode.Unit(),
		UnitPrice: decimal.Zero,
		Amount:    decimal.Zero,
	}
	if err := s.Validate(); err != nil {
		return p, err
	}

	switch mode {
	case ModePiecePrice:
		p.UnitPrice = s.PricePerPiece.Decimal
		p.Amount = p.UnitPrice.Mul(qty)
	case ModeWeightPerPiece:
		pieces := s.PiecesPerWeightUnit.Decimal
		p.UnitPrice = s.PricePerWeightUnit.Div(pieces)
		// multiply before dividing so repeating unit prices do not leak
		// truncation into the amount
		p.Amount = s.PricePerWeightUnit.Mul(qty).Div(pieces)
	default:
		p.UnitPrice = s.PricePerWeightUnit
		p.Amount = p.UnitPrice.Mul(qty)
	}
	return p, nil
}
