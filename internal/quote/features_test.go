package quote

import (
	"context"
	"fmt"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/catering-backend/pkg/errors"
	"github.com/cucumber/godog"
	"github.com/google/uuid"
)

type quoteTestContext struct {
	products  map[string]Snapshot
	cart      *Cart
	pkg       Package
	formatter *Formatter
	pricer    *Pricer
	err       error
}

func (q *quoteTestContext) reset() {
	q.products = map[string]Snapshot{}
	q.cart = NewCart()
	q.pkg = Package{}
	q.pricer = NewPricer(testLogger(), nil)
	q.formatter = NewFormatter(q.pricer, "")
	q.err = nil
}

func (q *quoteTestContext) product(name string) (Snapshot, error) {
	s, ok := q.products[name]
	if !ok {
		return Snapshot{}, fmt.Errorf("unknown product %q", name)
	}
	return s, nil
}

func (q *quoteTestContext) aWeightProduct(name, price string) error {
	q.products[name] = Snapshot{
		ProductID:          uuid.New(),
		Name:               name,
		PricePerWeightUnit: d(price),
		MinOrderQuantity:   d("1"),
		OrderIncrement:     d("1"),
	}
	return nil
}

func (q *quoteTestContext) aWeightProductWithPieces(name, price, pieces string) error {
	if err := q.aWeightProduct(name, price); err != nil {
		return err
	}
	s := q.products[name]
	s.PiecesPerWeightUnit = nd(pieces)
	q.products[name] = s
	return nil
}

func (q *quoteTestContext) aPieceProduct(name, price string) error {
	if err := q.aWeightProduct(name, "0"); err != nil {
		return err
	}
	s := q.products[name]
	s.IsSoldByPiece = true
	s.PricePerPiece = nd(price)
	q.products[name] = s
	return nil
}

func (q *quoteTestContext) hasMinimumAndIncrement(name, min, inc string) error {
	s, err := q.product(name)
	if err != nil {
		return err
	}
	s.MinOrderQuantity = d(min)
	s.OrderIncrement = d(inc)
	q.products[name] = s
	return nil
}

func (q *quoteTestContext) hasMinimumIncrementAndMaximum(name, min, inc, max string) error {
	if err := q.hasMinimumAndIncrement(name, min, inc); err != nil {
		return err
	}
	s := q.products[name]
	s.MaxOrderQuantity = nd(max)
	q.products[name] = s
	return nil
}

func (q *quoteTestContext) allowsMultiple(name string) error {
	s, err := q.product(name)
	if err != nil {
		return err
	}
	s.AllowMultiple = true
	q.products[name] = s
	return nil
}

func (q *quoteTestContext) iAdd(name string) error {
	return q.iAddTimes(name, 1)
}

func (q *quoteTestContext) iAddTimes(name string, times int) error {
	s, err := q.product(name)
	if err != nil {
		return err
	}
	for i := 0; i < times; i++ {
		if _, err := q.cart.AddProduct(s); err != nil {
			q.err = err
		}
	}
	return nil
}

func (q *quoteTestContext) lastLine(name string) (Line, error) {
	s, err := q.product(name)
	if err != nil {
		return Line{}, err
	}
	for i := len(q.cart.Lines) - 1; i >= 0; i-- {
		if q.cart.Lines[i].Product.ProductID == s.ProductID {
			return q.cart.Lines[i], nil
		}
	}
	return Line{}, fmt.Errorf("no line for %q", name)
}

func (q *quoteTestContext) iStep(verb, name string) error {
	return q.iStepTimes(verb, name, 1)
}

func (q *quoteTestContext) iStepTimes(verb, name string, times int) error {
	dir, err := ParseDirection(verb)
	if err != nil {
		return err
	}
	for i := 0; i < times; i++ {
		line, err := q.lastLine(name)
		if err != nil {
			return err
		}
		if _, _, err := q.cart.ApplyDelta(line.InstanceID, dir); err != nil {
			q.err = err
		}
	}
	return nil
}

func (q *quoteTestContext) cartHasLines(count int, name string) error {
	s, err := q.product(name)
	if err != nil {
		return err
	}
	if got := q.cart.CountForProduct(s.ProductID); got != count {
		return fmt.Errorf("expected %d lines for %q, got %d", count, name, got)
	}
	return nil
}

func (q *quoteTestContext) lastLineHasQuantity(name, qty string) error {
	line, err := q.lastLine(name)
	if err != nil {
		return err
	}
	if !line.Quantity.Equal(d(qty)) {
		return fmt.Errorf("expected quantity %s, got %s", qty, line.Quantity)
	}
	return nil
}

func (q *quoteTestContext) lastLineAmount(name, amount string) error {
	line, err := q.lastLine(name)
	if err != nil {
		return err
	}
	if got := Money(q.pricer.LineAmount(context.Background(), line)); got != amount {
		return fmt.Errorf("expected amount %s, got %s", amount, got)
	}
	return nil
}

func (q *quoteTestContext) lastLineUnitPrice(name, price string) error {
	line, err := q.lastLine(name)
	if err != nil {
		return err
	}
	p := q.pricer.Price(context.Background(), line.Product, line.Quantity)
	if got := Money(p.UnitPrice); got != price {
		return fmt.Errorf("expected unit price %s, got %s", price, got)
	}
	return nil
}

func (q *quoteTestContext) cartTotalIs(total string) error {
	if got := Money(q.pricer.CartTotal(context.Background(), q.cart.Lines)); got != total {
		return fmt.Errorf("expected total %s, got %s", total, got)
	}
	return nil
}

func (q *quoteTestContext) rejectedAsConstraintViolation() error {
	if !pkgerrors.Is(q.err, pkgerrors.CodeConstraintViolation) {
		return fmt.Errorf("expected constraint violation, got %v", q.err)
	}
	return nil
}

func (q *quoteTestContext) aPackage(total, discount string) error {
	q.pkg = Package{Name: "Package", TotalPrice: d(total), DiscountPercentage: d(discount)}
	return nil
}

func (q *quoteTestContext) packageFinalPriceIs(price string) error {
	if got := Money(q.pkg.FinalPrice()); got != price {
		return fmt.Errorf("expected final price %s, got %s", price, got)
	}
	return nil
}

func (q *quoteTestContext) messageEndsWith(suffix string) error {
	msg := q.formatter.FormatCart(context.Background(), q.cart.Lines)
	if !strings.HasSuffix(msg, suffix) {
		return fmt.Errorf("message %q does not end with %q", msg, suffix)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &quoteTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^a weight product "([^"]*)" at ([\d.]+) per kg$`, tc.aWeightProduct)
	ctx.Step(`^a weight product "([^"]*)" at ([\d.]+) per kg with ([\d.]+) pieces per kg$`, tc.aWeightProductWithPieces)
	ctx.Step(`^a piece product "([^"]*)" at ([\d.]+) per piece$`, tc.aPieceProduct)
	ctx.Step(`^"([^"]*)" has minimum ([\d.]+) and increment ([\d.]+)$`, tc.hasMinimumAndIncrement)
	ctx.Step(`^"([^"]*)" has minimum ([\d.]+), increment ([\d.]+) and maximum ([\d.]+)$`, tc.hasMinimumIncrementAndMaximum)
	ctx.Step(`^"([^"]*)" allows multiple instances$`, tc.allowsMultiple)
	ctx.Step(`^a package priced ([\d.]+) with a ([\d.]+)% discount$`, tc.aPackage)

	ctx.Step(`^I add "([^"]*)" to the cart$`, tc.iAdd)
	ctx.Step(`^I add "([^"]*)" to the cart (\d+) times$`, tc.iAddTimes)
	ctx.Step(`^I (increment|decrement) the last "([^"]*)" line$`, tc.iStep)
	ctx.Step(`^I (increment|decrement) the last "([^"]*)" line (\d+) times$`, tc.iStepTimes)

	ctx.Step(`^the cart has (\d+) lines? for "([^"]*)"$`, tc.cartHasLines)
	ctx.Step(`^the last "([^"]*)" line has quantity ([\d.]+)$`, tc.lastLineHasQuantity)
	ctx.Step(`^the last "([^"]*)" line amount is ([\d.]+)$`, tc.lastLineAmount)
	ctx.Step(`^the unit price of the last "([^"]*)" line is ([\d.]+)$`, tc.lastLineUnitPrice)
	ctx.Step(`^the cart total is ([\d.]+)$`, tc.cartTotalIs)
	ctx.Step(`^the action is rejected as a constraint violation$`, tc.rejectedAsConstraintViolation)
	ctx.Step(`^the package final price is ([\d.]+)$`, tc.packageFinalPriceIs)
	ctx.Step(`^the quote message ends with "([^"]*)"$`, tc.messageEndsWith)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
