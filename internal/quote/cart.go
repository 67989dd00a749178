package quote

import (
	"errors"
	"fmt"

	pkgerrors "github.com/angelmondragon/catering-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one entry of a quote cart. Products that allow multiple
// instances may appear on several lines, each with its own InstanceID.
type Line struct {
	InstanceID uuid.UUID       `json:"instance_id"`
	Product    Snapshot        `json:"product"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// BehaviorKind names how re-adding a product is handled.
type BehaviorKind string

const (
	BehaviorToggleable BehaviorKind = "toggleable"
	BehaviorRepeatable BehaviorKind = "repeatable"
)

// LineBehavior decides what AddProduct does when the product is picked.
// Toggleable products live on at most one line and a second pick removes
// it; repeatable products get a new line on every pick.
type LineBehavior interface {
	Kind() BehaviorKind
	add(c *Cart, s Snapshot) (AddResult, error)
}

type Toggleable struct{}

func (Toggleable) Kind() BehaviorKind { return BehaviorToggleable }

func (Toggleable) add(c *Cart, s Snapshot) (AddResult, error) {
	for i, line := range c.Lines {
		if line.Product.ProductID != s.ProductID {
			continue
		}
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		return AddResult{Outcome: OutcomeRemoved, Line: line}, nil
	}
	return c.appendLine(s)
}

type Repeatable struct{}

func (Repeatable) Kind() BehaviorKind { return BehaviorRepeatable }

func (Repeatable) add(c *Cart, s Snapshot) (AddResult, error) {
	return c.appendLine(s)
}

// BehaviorFor selects the line behavior from the product's flag.
func BehaviorFor(s Snapshot) LineBehavior {
	if s.AllowMultiple {
		return Repeatable{}
	}
	return Toggleable{}
}

// AddResult carries the line that was added, or the one a toggle removed.
type AddResult struct {
	Outcome Outcome
	Line    Line
}

// Cart is an ordered list of lines. The zero value is an empty cart; it is
// not safe for concurrent use.
type Cart struct {
	Lines []Line `json:"lines"`

	newID func() uuid.UUID
}

func NewCart() *Cart {
	return &Cart{Lines: []Line{}}
}

// AddProduct applies the product's line behavior. A product whose minimum
// exceeds its maximum cannot be added at all.
func (c *Cart) AddProduct(s Snapshot) (AddResult, error) {
	return BehaviorFor(s).add(c, s)
}

// RemoveInstance drops the line with the given instance id. Unknown ids are
// a no-op reported by the boolean.
func (c *Cart) RemoveInstance(instanceID uuid.UUID) bool {
	idx := c.indexOf(instanceID)
	if idx < 0 {
		return false
	}
	c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
	return true
}

// ApplyDelta steps one line's quantity. Constraint failures leave the cart
// untouched and come back as CONSTRAINT_VIOLATION errors.
func (c *Cart) ApplyDelta(instanceID uuid.UUID, dir Direction) (Outcome, Line, error) {
	idx := c.indexOf(instanceID)
	if idx < 0 {
		return OutcomeUnchanged, Line{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	line := c.Lines[idx]
	next, outcome, err := ConstraintsFor(line.Product).ApplyDelta(line.Quantity, dir)
	if err != nil {
		return OutcomeUnchanged, line, violationError(line.Product, err)
	}

	switch outcome {
	case OutcomeRemoved:
		c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
	case OutcomeUpdated:
		c.Lines[idx].Quantity = next
		line = c.Lines[idx]
	}
	return outcome, line, nil
}

// CountForProduct returns how many lines reference the product.
func (c *Cart) CountForProduct(productID uuid.UUID) int {
	count := 0
	for _, line := range c.Lines {
		if line.Product.ProductID == productID {
			count++
		}
	}
	return count
}

// Counts maps every product in the cart to its line count.
func (c *Cart) Counts() map[uuid.UUID]int {
	counts := make(map[uuid.UUID]int, len(c.Lines))
	for _, line := range c.Lines {
		counts[line.Product.ProductID]++
	}
	return counts
}

func (c *Cart) Line(instanceID uuid.UUID) (Line, bool) {
	idx := c.indexOf(instanceID)
	if idx < 0 {
		return Line{}, false
	}
	return c.Lines[idx], true
}

func (c *Cart) Len() int {
	return len(c.Lines)
}

func (c *Cart) Clear() {
	c.Lines = []Line{}
}

func (c *Cart) appendLine(s Snapshot) (AddResult, error) {
	qty, err := ConstraintsFor(s).InitialQuantity()
	if err != nil {
		return AddResult{Outcome: OutcomeUnchanged}, violationError(s, err)
	}
	line := Line{
		InstanceID: c.nextID(),
		Product:    s,
		Quantity:   qty,
	}
	c.Lines = append(c.Lines, line)
	return AddResult{Outcome: OutcomeAdded, Line: line}, nil
}

func (c *Cart) indexOf(instanceID uuid.UUID) int {
	for i, line := range c.Lines {
		if line.InstanceID == instanceID {
			return i
		}
	}
	return -1
}

func (c *Cart) nextID() uuid.UUID {
	if c.newID != nil {
		return c.newID()
	}
	return uuid.New()
}

func violationError(s Snapshot, err error) error {
	var v *Violation
	if !errors.As(err, &v) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "apply quantity rules")
	}

	details := map[string]any{
		"product_id":         s.ProductID.String(),
		"reason":             string(v.Reason),
		"quantity":           v.Quantity.String(),
		"min_order_quantity": v.Min.String(),
	}
	if v.Max.Valid {
		details["max_order_quantity"] = v.Max.Decimal.String()
	}

	code := pkgerrors.CodeConstraintViolation
	if v.Reason == ReasonBadDirection {
		code = pkgerrors.CodeValidation
	}
	return pkgerrors.Wrap(code, v, fmt.Sprintf("%s: %s", s.Name, v.Error())).WithDetails(details)
}
