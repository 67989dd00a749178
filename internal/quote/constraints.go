package quote

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Direction is one press of the increment or decrement control.
type Direction int

const (
	Decrement Direction = -1
	Increment Direction = 1
)

// ParseDirection maps the path verbs used by the API onto a Direction.
func ParseDirection(value string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "increment", "inc", "+1":
		return Increment, nil
	case "decrement", "dec", "-1":
		return Decrement, nil
	}
	return 0, fmt.Errorf("unknown direction %q", value)
}

func (d Direction) Valid() bool {
	return d == Increment || d == Decrement
}

func (d Direction) String() string {
	if d == Decrement {
		return "decrement"
	}
	return "increment"
}

// Outcome reports what a quantity change did to a line.
type Outcome string

const (
	OutcomeAdded     Outcome = "added"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeUpdated   Outcome = "updated"
	OutcomeRemoved   Outcome = "removed"
)

// ViolationReason names the rule that refused a quantity.
type ViolationReason string

const (
	ReasonMaxExceeded  ViolationReason = "max_exceeded"
	ReasonMinAboveMax  ViolationReason = "min_above_max"
	ReasonBadDirection ViolationReason = "invalid_direction"
)

// Violation is returned when a change would break the product's quantity
// rules. The quantity it was evaluated against is left as is.
type Violation struct {
	Reason    ViolationReason
	Quantity  decimal.Decimal
	Candidate decimal.Decimal
	Min       decimal.Decimal
	Max       decimal.NullDecimal
}

func (v *Violation) Error() string {
	switch v.Reason {
	case ReasonMinAboveMax:
		return fmt.Sprintf("minimum order quantity %s exceeds maximum %s", v.Min, v.Max.Decimal)
	case ReasonMaxExceeded:
		return fmt.Sprintf("quantity %s would exceed maximum %s", v.Candidate, v.Max.Decimal)
	}
	return string(v.Reason)
}

// Constraints are the min/step/max rules of one product.
type Constraints struct {
	Min       decimal.Decimal
	Increment decimal.Decimal
	Max       decimal.NullDecimal
}

func ConstraintsFor(s Snapshot) Constraints {
	return Constraints{
		Min:       s.MinOrderQuantity,
		Increment: s.OrderIncrement,
		Max:       s.MaxOrderQuantity,
	}
}

// Adjustable is false for fixed-quantity products (increment 0); their
// controls are not rendered.
func (c Constraints) Adjustable() bool {
	return c.Increment.IsPositive()
}

// CanIncrement reports whether one more step stays within the maximum.
func (c Constraints) CanIncrement(qty decimal.Decimal) bool {
	if !c.Adjustable() {
		return false
	}
	return !c.exceedsMax(qty.Add(c.Increment))
}

func (c Constraints) CanDecrement(qty decimal.Decimal) bool {
	return c.Adjustable()
}

// InitialQuantity is the quantity of a freshly added line.
func (c Constraints) InitialQuantity() (decimal.Decimal, error) {
	start := c.floor()
	if c.exceedsMax(start) {
		return decimal.Zero, &Violation{
			Reason:    ReasonMinAboveMax,
			Quantity:  decimal.Zero,
			Candidate: start,
			Min:       start,
			Max:       c.Max,
		}
	}
	return start, nil
}

// floor is the smallest quantity a line may hold. An unset (zero) minimum
// means one unit.
func (c Constraints) floor() decimal.Decimal {
	if c.Min.IsPositive() {
		return c.Min
	}
	return decimal.NewFromInt(1)
}

// ApplyDelta evaluates one step from qty. Falling below the minimum removes
// the line; going past the maximum is refused with a *Violation and qty is
// returned unchanged.
func (c Constraints) ApplyDelta(qty decimal.Decimal, dir Direction) (decimal.Decimal, Outcome, error) {
	if !dir.Valid() {
		return qty, OutcomeUnchanged, &Violation{Reason: ReasonBadDirection, Quantity: qty, Candidate: qty, Min: c.Min, Max: c.Max}
	}
	if !c.Adjustable() {
		return qty, OutcomeUnchanged, nil
	}

	candidate := qty.Add(c.Increment.Mul(decimal.NewFromInt(int64(dir))))
	if candidate.LessThan(c.floor()) {
		return qty, OutcomeRemoved, nil
	}
	if c.exceedsMax(candidate) {
		return qty, OutcomeUnchanged, &Violation{
			Reason:    ReasonMaxExceeded,
			Quantity:  qty,
			Candidate: candidate,
			Min:       c.Min,
			Max:       c.Max,
		}
	}
	return candidate, OutcomeUpdated, nil
}

func (c Constraints) exceedsMax(qty decimal.Decimal) bool {
	return c.Max.Valid && qty.GreaterThan(c.Max.Decimal)
}
