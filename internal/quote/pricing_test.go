package quote

import (
	"context"
	"testing"

	"github.com/angelmondragon/catering-backend/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

func TestCartTotalEmptyIsZero(t *testing.T) {
	p := NewPricer(testLogger(), nil)
	if total := p.CartTotal(context.Background(), nil); !total.Equal(decimal.Zero) {
		t.Fatalf("expected 0, got %s", total)
	}
	if Money(decimal.Zero) != "0.00" {
		t.Fatalf("unexpected zero rendering %s", Money(decimal.Zero))
	}
}

func TestCartTotalIsOrderIndependent(t *testing.T) {
	ctx := context.Background()
	p := NewPricer(testLogger(), nil)

	perPiece := weightProduct("Cannoli", "10")
	perPiece.PiecesPerWeightUnit = nd("3")
	lines := []Line{
		{Product: pieceProduct("Arancini", "1.50"), Quantity: d("4")},
		{Product: perPiece, Quantity: d("7")},
		{Product: weightProduct("Lasagna", "18.90"), Quantity: d("1.25")},
	}
	reversed := []Line{lines[2], lines[1], lines[0]}

	a := p.CartTotal(ctx, lines)
	b := p.CartTotal(ctx, reversed)
	if !a.Equal(b) {
		t.Fatalf("totals differ: %s vs %s", a, b)
	}
}

func TestCartTotalPricesInvalidLineAtZero(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewQuoteMetrics(reg)
	p := NewPricer(testLogger(), m)

	broken := weightProduct("Broken", "10")
	broken.IsSoldByPiece = true
	lines := []Line{
		{Product: broken, Quantity: d("2")},
		{Product: pieceProduct("Ok", "3"), Quantity: d("2")},
	}

	if total := p.CartTotal(context.Background(), lines); Money(total) != "6.00" {
		t.Fatalf("expected only the valid line to count, got %s", Money(total))
	}
	if got := counterValue(t, reg, "quote_invalid_snapshots_total"); got != 1 {
		t.Fatalf("expected one invalid snapshot recorded, got %f", got)
	}
}

func TestPackageFinalPrice(t *testing.T) {
	cases := []struct {
		total, discount, want string
	}{
		{"100", "25", "75.00"},
		{"100", "0", "100.00"},
		{"59.90", "10", "53.91"},
		{"80", "120", "0.00"},
	}
	for _, tc := range cases {
		pkg := Package{TotalPrice: d(tc.total), DiscountPercentage: d(tc.discount)}
		if got := Money(pkg.FinalPrice()); got != tc.want {
			t.Fatalf("total=%s discount=%s: expected %s, got %s", tc.total, tc.discount, tc.want, got)
		}
	}

	pkg := Package{TotalPrice: d("123.456"), DiscountPercentage: decimal.Zero}
	if !pkg.FinalPrice().Equal(d("123.456")) {
		t.Fatalf("zero discount must return total exactly, got %s", pkg.FinalPrice())
	}
}

func TestSuggestedPrice(t *testing.T) {
	p := NewPricer(testLogger(), nil)
	perPiece := weightProduct("Cannoli", "20")
	perPiece.PiecesPerWeightUnit = nd("10")
	items := []PackageItem{
		{Product: perPiece, Quantity: d("5")},
		{Product: pieceProduct("Arancini", "1.50"), Quantity: d("4")},
	}
	if got := Money(p.SuggestedPrice(context.Background(), items)); got != "16.00" {
		t.Fatalf("expected 16.00, got %s", got)
	}
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() == name && len(mf.GetMetric()) > 0 {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}
