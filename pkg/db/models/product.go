package models

import (
	"time"

	dbtypes "github.com/angelmondragon/catering-backend/pkg/db/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog entry. Pricing columns are interpreted by the quote
// unit model; nullable decimals stay null rather than defaulting to zero.
type Product struct {
	ID                  uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Name                string              `gorm:"column:name;not null"`
	Description         *string             `gorm:"column:description"`
	Images              dbtypes.StringArray `gorm:"column:images;not null"`
	PricePerWeightUnit  decimal.Decimal     `gorm:"column:price_per_weight_unit;type:numeric(12,4);not null"`
	PricePerPiece       decimal.NullDecimal `gorm:"column:price_per_piece;type:numeric(12,4)"`
	PiecesPerWeightUnit decimal.NullDecimal `gorm:"column:pieces_per_weight_unit;type:numeric(12,4)"`
	IsSoldByPiece       bool                `gorm:"column:is_sold_by_piece;not null"`
	MinOrderQuantity    decimal.Decimal     `gorm:"column:min_order_quantity;type:numeric(12,3);not null"`
	OrderIncrement      decimal.Decimal     `gorm:"column:order_increment;type:numeric(12,3);not null"`
	MaxOrderQuantity    decimal.NullDecimal `gorm:"column:max_order_quantity;type:numeric(12,3)"`
	AllowMultiple       bool                `gorm:"column:allow_multiple;not null"`
	IsVisible           bool                `gorm:"column:is_visible;not null"`
	ShowServings        bool                `gorm:"column:show_servings;not null"`
	ServingsPerUnit     decimal.NullDecimal `gorm:"column:servings_per_unit;type:numeric(12,3)"`
	IsGlutenFree        bool                `gorm:"column:is_gluten_free;not null"`
	IsLactoseFree       bool                `gorm:"column:is_lactose_free;not null"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
