package catering

import (
	"context"
	"time"

	product "github.com/angelmondragon/catering-backend/internal/products"
	"github.com/angelmondragon/catering-backend/internal/quote"
	"github.com/angelmondragon/catering-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CateringDTO is a package as returned to clients, with the denormalized
// product snapshot of every item and both computed prices.
type CateringDTO struct {
	ID                 uuid.UUID         `json:"id"`
	Name               string            `json:"name"`
	Description        *string           `json:"description,omitempty"`
	Images             []string          `json:"images"`
	TotalPrice         string            `json:"total_price"`
	DiscountPercentage decimal.Decimal   `json:"discount_percentage"`
	FinalPrice         string            `json:"final_price"`
	SuggestedPrice     string            `json:"suggested_price"`
	HasDiscount        bool              `json:"has_discount"`
	IsGlutenFree       bool              `json:"is_gluten_free"`
	IsLactoseFree      bool              `json:"is_lactose_free"`
	SortOrder          int               `json:"sort_order"`
	Items              []CateringItemDTO `json:"items"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

type CateringItemDTO struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      quote.Unit      `json:"unit"`
	UnitLabel string          `json:"unit_label"`
	UnitPrice string          `json:"unit_price"`
	Amount    string          `json:"amount"`
	Product   quote.Snapshot  `json:"product"`
}

// SuggestedPriceDTO reports what the listed items cost when bought one by one.
type SuggestedPriceDTO struct {
	SuggestedPrice string               `json:"suggested_price"`
	Formatted      string               `json:"formatted"`
	Items          []SuggestedPriceLine `json:"items"`
}

type SuggestedPriceLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Amount    string          `json:"amount"`
}

// ToPackage converts a stored package into the quote layer's view. Item
// snapshots are taken from the products as they are now.
func ToPackage(c *models.Catering) quote.Package {
	items := make([]quote.PackageItem, 0, len(c.Items))
	for _, item := range c.Items {
		snapshot := quote.Snapshot{ProductID: item.ProductID}
		if item.Product != nil {
			snapshot = product.SnapshotOf(item.Product)
		}
		items = append(items, quote.PackageItem{Product: snapshot, Quantity: item.Quantity})
	}
	return quote.Package{
		ID:                 c.ID,
		Name:               c.Name,
		TotalPrice:         c.TotalPrice,
		DiscountPercentage: c.DiscountPercentage,
		IsGlutenFree:       c.IsGlutenFree,
		IsLactoseFree:      c.IsLactoseFree,
		Items:              items,
	}
}

func newCateringDTO(ctx context.Context, pricer *quote.Pricer, c *models.Catering) CateringDTO {
	pkg := ToPackage(c)
	items := make([]CateringItemDTO, 0, len(pkg.Items))
	for _, item := range pkg.Items {
		pricing := pricer.Price(ctx, item.Product, item.Quantity)
		items = append(items, CateringItemDTO{
			ProductID: item.Product.ProductID,
			Name:      item.Product.Name,
			Quantity:  item.Quantity,
			Unit:      pricing.Unit,
			UnitLabel: pricing.Unit.Abbrev(),
			UnitPrice: quote.Money(pricing.UnitPrice),
			Amount:    quote.Money(pricing.Amount),
			Product:   item.Product,
		})
	}
	return CateringDTO{
		ID:                 c.ID,
		Name:               c.Name,
		Description:        c.Description,
		Images:             append([]string{}, c.Images...),
		TotalPrice:         quote.Money(c.TotalPrice),
		DiscountPercentage: c.DiscountPercentage,
		FinalPrice:         quote.Money(pkg.FinalPrice()),
		SuggestedPrice:     quote.Money(pricer.SuggestedPrice(ctx, pkg.Items)),
		HasDiscount:        pkg.HasDiscount(),
		IsGlutenFree:       c.IsGlutenFree,
		IsLactoseFree:      c.IsLactoseFree,
		SortOrder:          c.SortOrder,
		Items:              items,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}
