package quote

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// TableLabels are the column and footer captions of the printable quote.
type TableLabels struct {
	Product   string
	UnitPrice string
	Quantity  string
	Total     string
	GrandSum  string
}

var DefaultTableLabels = TableLabels{
	Product:   "Prodotto",
	UnitPrice: "Prezzo Unitario",
	Quantity:  "Quantità",
	Total:     "Totale",
	GrandSum:  "Totale Complessivo",
}

// Table is a quote laid out as rows of strings for an external PDF writer.
type Table struct {
	Head []string   `json:"head"`
	Rows [][]string `json:"rows"`
	Foot []string   `json:"foot"`
}

func (f *Formatter) CartTable(ctx context.Context, lines []Line) Table {
	return f.table(ctx, lineItems(lines), f.pricer.CartTotal(ctx, lines), DefaultTableLabels)
}

func (f *Formatter) PackageTable(ctx context.Context, pkg Package) Table {
	return f.table(ctx, pkg.Items, pkg.FinalPrice(), DefaultTableLabels)
}

func (f *Formatter) table(ctx context.Context, items []PackageItem, total decimal.Decimal, labels TableLabels) Table {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		pricing := f.pricer.Price(ctx, item.Product, item.Quantity)
		unit := pricing.Unit.Abbrev()
		rows = append(rows, []string{
			lineTitle(item.Product, item.Quantity),
			fmt.Sprintf("%s / %s", f.Amount(pricing.UnitPrice), unit),
			fmt.Sprintf("%s %s", item.Quantity.String(), unit),
			f.Amount(pricing.Amount),
		})
	}
	return Table{
		Head: []string{labels.Product, labels.UnitPrice, labels.Quantity, labels.Total},
		Rows: rows,
		Foot: []string{"", "", labels.GrandSum, f.Amount(total)},
	}
}

func lineItems(lines []Line) []PackageItem {
	items := make([]PackageItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, PackageItem{Product: line.Product, Quantity: line.Quantity})
	}
	return items
}
