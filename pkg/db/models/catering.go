package models

import (
	"time"

	dbtypes "github.com/angelmondragon/catering-backend/pkg/db/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Catering is a predefined package sold at a fixed, optionally discounted price.
type Catering struct {
	ID                 uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Name               string              `gorm:"column:name;not null"`
	Description        *string             `gorm:"column:description"`
	Images             dbtypes.StringArray `gorm:"column:images;not null"`
	TotalPrice         decimal.Decimal     `gorm:"column:total_price;type:numeric(12,2);not null"`
	DiscountPercentage decimal.Decimal     `gorm:"column:discount_percentage;type:numeric(5,2);not null"`
	IsGlutenFree       bool                `gorm:"column:is_gluten_free;not null"`
	IsLactoseFree      bool                `gorm:"column:is_lactose_free;not null"`
	SortOrder          int                 `gorm:"column:sort_order;not null"`
	Items              []CateringItem      `gorm:"foreignKey:CateringID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Catering) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CateringItem is one fixed product quantity inside a package.
type CateringItem struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	CateringID uuid.UUID       `gorm:"column:catering_id;type:uuid;not null"`
	ProductID  uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Quantity   decimal.Decimal `gorm:"column:quantity;type:numeric(12,3);not null"`
	Position   int             `gorm:"column:position;not null"`
	Product    *Product        `gorm:"foreignKey:ProductID"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (i *CateringItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
