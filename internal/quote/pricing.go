package quote

import (
	"context"

	"github.com/angelmondragon/catering-backend/pkg/logger"
	"github.com/angelmondragon/catering-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Money renders an amount with exactly two decimals. Amounts are only
// rounded here; sums are carried at full precision.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Package is a predefined catering bundle as the quote layer sees it.
type Package struct {
	ID                 uuid.UUID
	Name               string
	TotalPrice         decimal.Decimal
	DiscountPercentage decimal.Decimal
	IsGlutenFree       bool
	IsLactoseFree      bool
	Items              []PackageItem
}

type PackageItem struct {
	Product  Snapshot
	Quantity decimal.Decimal
}

// FinalPrice applies the package discount. The result never drops below
// zero even for discounts above 100.
func (p Package) FinalPrice() decimal.Decimal {
	discount := p.TotalPrice.Mul(p.DiscountPercentage).Div(hundred)
	final := p.TotalPrice.Sub(discount)
	if final.IsNegative() {
		return decimal.Zero
	}
	return final
}

func (p Package) HasDiscount() bool {
	return p.DiscountPercentage.IsPositive()
}

// Pricer applies the unit model to lines and packages. Incomplete product
// snapshots are priced at zero and reported through the logger.
type Pricer struct {
	logg    *logger.Logger
	metrics *metrics.QuoteMetrics
}

func NewPricer(logg *logger.Logger, m *metrics.QuoteMetrics) *Pricer {
	return &Pricer{logg: logg, metrics: m}
}

func (p *Pricer) Price(ctx context.Context, s Snapshot, qty decimal.Decimal) Pricing {
	pricing, err := Price(s, qty)
	if err != nil {
		p.metrics.IncInvalidSnapshot()
		if p.logg != nil {
			warnCtx := p.logg.WithFields(ctx, map[string]any{
				"product_id": s.ProductID.String(),
				"reason":     err.Error(),
			})
			p.logg.Warn(warnCtx, "quote.invalid_snapshot")
		}
	}
	return pricing
}

func (p *Pricer) LineAmount(ctx context.Context, line Line) decimal.Decimal {
	return p.Price(ctx, line.Product, line.Quantity).Amount
}

// CartTotal sums the unrounded line amounts.
func (p *Pricer) CartTotal(ctx context.Context, lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(p.LineAmount(ctx, line))
	}
	return total
}

// SuggestedPrice is what the package's items would cost individually.
// Admins use it as a reference when setting the package price.
func (p *Pricer) SuggestedPrice(ctx context.Context, items []PackageItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(p.Price(ctx, item.Product, item.Quantity).Amount)
	}
	return total
}
