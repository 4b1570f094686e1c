package pricing

import (
	"github.com/johnkommas/corgres/internal/allocation"
	"github.com/johnkommas/corgres/internal/freight"
	"github.com/johnkommas/corgres/internal/markup"
	"github.com/johnkommas/corgres/pkg/enums"
	"github.com/shopspring/decimal"
)

// Request is the single structured input of a quote computation. Field
// parsing and transport concerns live in the API layer; by the time a
// Request reaches the service its enums are already resolved.
type Request struct {
	Items       []allocation.ShipmentItem
	Origin      string
	Destination string
	Mode        enums.TransportMode

	// ManualFreightEUR is required for origins priced by hand.
	ManualFreightEUR *decimal.Decimal

	// Purchase cost, per m2 preferred. The legacy per-unit field needs
	// the m2-per-unit conversion factor alongside it.
	CostPerM2         *decimal.Decimal
	CostPerUnit       *decimal.Decimal
	CostAreaM2PerUnit float64

	// KgPerM2 overrides the configured weight conversion factor used for
	// items that do not state a unit weight.
	KgPerM2 float64

	Margin            decimal.Decimal
	IncludePalletCost bool
}

// Result is the full quote: the manifest, the cost side and both retail
// prices. Amounts keep full precision; display rounding is the
// serializer's concern.
type Result struct {
	Manifest  *allocation.Manifest
	Breakdown *freight.CostBreakdown

	TotalAreaM2 float64

	GoodsCostEUR  decimal.Decimal
	PalletCostEUR decimal.Decimal
	TotalCostEUR  decimal.Decimal

	// LandedCostPerM2 always carries pallet handling, whatever the
	// include flag says, so retail prices never move with the toggle.
	LandedCostPerM2 decimal.Decimal

	PrimaryPricePerM2     decimal.Decimal
	AlternativePricePerM2 decimal.Decimal
	AlternativeSteps      []markup.Step

	Margin           decimal.Decimal
	MarkupEquivalent decimal.Decimal
}
