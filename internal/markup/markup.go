package markup

import (
	pkgerrors "github.com/johnkommas/corgres/pkg/errors"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// CostInput carries the purchase-cost fields of a request. The per-m2
// figure is preferred; the legacy per-unit figure plus a unit-to-m2
// conversion factor is accepted for older catalogs.
type CostInput struct {
	CostPerM2     *decimal.Decimal
	CostPerUnit   *decimal.Decimal
	AreaM2PerUnit float64
}

// Normalize resolves the purchase cost to a per-m2 figure. When both
// fields are present the per-m2 one wins and the legacy field is ignored.
func Normalize(input CostInput) (decimal.Decimal, error) {
	if input.CostPerM2 != nil {
		if !input.CostPerM2.IsPositive() {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "cost per m2 must be positive")
		}
		return *input.CostPerM2, nil
	}
	if input.CostPerUnit == nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "a purchase cost is required")
	}
	if !input.CostPerUnit.IsPositive() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "cost per unit must be positive")
	}
	if input.AreaM2PerUnit <= 0 {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "per-unit cost requires a positive m2-per-unit factor")
	}
	return input.CostPerUnit.Div(decimal.NewFromFloat(input.AreaM2PerUnit)), nil
}

// Stage is one named percentage markup.
type Stage struct {
	Name string
	Rate decimal.Decimal
}

// Apply returns value * (1 + rate).
func (s Stage) Apply(value decimal.Decimal) decimal.Decimal {
	return value.Mul(one.Add(s.Rate))
}

// Step records the running value after one stage, for audit output.
type Step struct {
	Name  string
	Value decimal.Decimal
}

// Chain applies its stages in order. The retail chain is two fixed
// stages, wholesale then retail, e.g. 36.80 -> 49.68 -> 54.648.
type Chain struct {
	Stages []Stage
}

// NewChain builds the standard two-stage chain from the configured rates.
func NewChain(stageA, stageB float64) Chain {
	return Chain{Stages: []Stage{
		{Name: "wholesale", Rate: decimal.NewFromFloat(stageA)},
		{Name: "retail", Rate: decimal.NewFromFloat(stageB)},
	}}
}

// Apply runs the chain over a per-m2 cost, returning the final value and
// every intermediate step.
func (c Chain) Apply(costPerM2 decimal.Decimal) (decimal.Decimal, []Step) {
	value := costPerM2
	steps := make([]Step, 0, len(c.Stages))
	for _, stage := range c.Stages {
		value = stage.Apply(value)
		steps = append(steps, Step{Name: stage.Name, Value: value})
	}
	return value, steps
}

// PrimaryRule derives the primary retail price from a per-m2 landed
// cost. Kept separate from the chain: the two prices must never be
// derived from each other.
type PrimaryRule interface {
	Apply(costPerM2 decimal.Decimal) (decimal.Decimal, error)
}

// MarginRule prices to a target gross margin: sell = cost / (1 - margin).
type MarginRule struct {
	Margin decimal.Decimal
}

func (r MarginRule) Apply(costPerM2 decimal.Decimal) (decimal.Decimal, error) {
	if !r.Margin.IsPositive() || r.Margin.GreaterThanOrEqual(one) {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "margin must be between 0 and 1 exclusive").
			WithDetails(map[string]any{"margin": r.Margin.String()})
	}
	return costPerM2.Div(one.Sub(r.Margin)), nil
}

// MarkupEquivalent reports the margin rule's markup KPI: sell/cost - 1.
func MarkupEquivalent(costPerM2, sellPerM2 decimal.Decimal) decimal.Decimal {
	if costPerM2.IsZero() {
		return decimal.Zero
	}
	return sellPerM2.Div(costPerM2).Sub(one)
}
