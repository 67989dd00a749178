package quote

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const DefaultCurrencySymbol = "€"

// Formatter renders carts and packages into the plain-text order message.
// It performs no I/O; transports only change the encoding of its output.
type Formatter struct {
	pricer   *Pricer
	currency string
}

func NewFormatter(pricer *Pricer, currencySymbol string) *Formatter {
	currencySymbol = strings.TrimSpace(currencySymbol)
	if currencySymbol == "" {
		currencySymbol = DefaultCurrencySymbol
	}
	return &Formatter{pricer: pricer, currency: currencySymbol}
}

// FormatCart renders every line followed by the grand total.
func (f *Formatter) FormatCart(ctx context.Context, lines []Line) string {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(f.formatLine(ctx, line.Product, line.Quantity))
		b.WriteString("\n")
	}
	if len(lines) > 0 {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Total: %s", f.Amount(f.pricer.CartTotal(ctx, lines)))
	return b.String()
}

// FormatPackage renders the package title, its fixed items and the final
// price. The list price and discount are printed only when a discount applies.
func (f *Formatter) FormatPackage(ctx context.Context, pkg Package) string {
	var b strings.Builder
	b.WriteString(pkg.Name)
	b.WriteString(dietaryTags(pkg.IsGlutenFree, pkg.IsLactoseFree))
	b.WriteString("\n")
	for _, item := range pkg.Items {
		b.WriteString(f.formatLine(ctx, item.Product, item.Quantity))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if pkg.HasDiscount() {
		fmt.Fprintf(&b, "Price: %s\n", f.Amount(pkg.TotalPrice))
		fmt.Fprintf(&b, "Discount: %s%%\n", pkg.DiscountPercentage.String())
	}
	fmt.Fprintf(&b, "Total: %s", f.Amount(pkg.FinalPrice()))
	return b.String()
}

// Amount renders money with the currency symbol and two decimals.
func (f *Formatter) Amount(d decimal.Decimal) string {
	return f.currency + " " + Money(d)
}

func (f *Formatter) formatLine(ctx context.Context, s Snapshot, qty decimal.Decimal) string {
	pricing := f.pricer.Price(ctx, s, qty)
	return fmt.Sprintf("%s\n %s %s x %s = %s",
		lineTitle(s, qty),
		qty.String(),
		pricing.Unit.Abbrev(),
		f.Amount(pricing.UnitPrice),
		f.Amount(pricing.Amount),
	)
}

func lineTitle(s Snapshot, qty decimal.Decimal) string {
	title := s.Name + dietaryTags(s.IsGlutenFree, s.IsLactoseFree)
	if note := servingsNote(s, qty); note != "" {
		title += " " + note
	}
	return title
}

func dietaryTags(glutenFree, lactoseFree bool) string {
	var tags string
	if glutenFree {
		tags += " (gluten-free)"
	}
	if lactoseFree {
		tags += " (lactose-free)"
	}
	return tags
}

func servingsNote(s Snapshot, qty decimal.Decimal) string {
	if !s.ShowServings || !s.ServingsPerUnit.Valid {
		return ""
	}
	people := s.ServingsPerUnit.Decimal.Mul(qty).Round(0)
	return fmt.Sprintf("(for %s people)", people.String())
}
