package freight

import (
	"fmt"

	"github.com/johnkommas/corgres/internal/allocation"
	"github.com/johnkommas/corgres/internal/tariffs"
	"github.com/johnkommas/corgres/pkg/enums"
	pkgerrors "github.com/johnkommas/corgres/pkg/errors"
	"github.com/shopspring/decimal"
)

// Line codes for the labelled cost lines a breakdown may carry.
const (
	LineIslandSurcharge       = "island_surcharge"
	LineIndustrialPalletExtra = "industrial_pallet_extra"
	LineAreaSurcharge         = "area_surcharge"
	LineManualFreight         = "manual_freight"
)

// Line is one labelled amount in a cost breakdown.
type Line struct {
	Code      string
	Label     string
	AmountEUR decimal.Decimal
}

// CostBreakdown carries the freight-side figures of a quote. The pallet
// handling cost is always computed from the true manifest; whether it
// lands in the quote total is decided upstream.
type CostBreakdown struct {
	GoodsWeightKg float64
	TareWeightKg  float64
	ChargeableKg  float64

	FreightEUR    decimal.Decimal
	SurchargeEUR  decimal.Decimal
	ExtrasEUR     decimal.Decimal
	PalletCostEUR decimal.Decimal

	Lines []Line
}

// LogisticsEUR sums the breakdown into a cost total. Pallet handling is
// added only when requested; nothing else varies with the flag.
func (c CostBreakdown) LogisticsEUR(includePalletCost bool) decimal.Decimal {
	total := c.FreightEUR.Add(c.SurchargeEUR).Add(c.ExtrasEUR)
	if includePalletCost {
		total = total.Add(c.PalletCostEUR)
	}
	return total
}

// Options selects the freight pricing path for one request.
type Options struct {
	Origin      tariffs.OriginCode
	Destination tariffs.DestinationZone
	Mode        enums.TransportMode

	// ManualFreightEUR is the hand-entered freight for origins priced
	// manually. Accepted only in road mode for a manual-rate origin.
	ManualFreightEUR *decimal.Decimal

	// TotalAreaM2 feeds per-m2 origin surcharges.
	TotalAreaM2 float64
}

// Calculator turns a pallet manifest into a cost breakdown under one
// tariff snapshot.
type Calculator interface {
	Compute(manifest *allocation.Manifest, rules *tariffs.Set, opts Options) (*CostBreakdown, error)
}

type calculator struct{}

// NewCalculator creates the default freight calculator.
func NewCalculator() Calculator {
	return &calculator{}
}

func (c *calculator) Compute(manifest *allocation.Manifest, rules *tariffs.Set, opts Options) (*CostBreakdown, error) {
	if manifest == nil || manifest.Count() == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "manifest has no pallets")
	}

	origin, err := rules.Origin(opts.Origin)
	if err != nil {
		return nil, err
	}
	destination, err := rules.Destination(opts.Destination)
	if err != nil {
		return nil, err
	}

	breakdown := &CostBreakdown{GoodsWeightKg: manifest.GoodsWeightKg()}
	counts := manifest.CountByType()
	for palletType, count := range counts {
		spec, err := rules.Pallet(palletType)
		if err != nil {
			return nil, err
		}
		breakdown.TareWeightKg += float64(count) * spec.TareWeightKg
		breakdown.PalletCostEUR = breakdown.PalletCostEUR.Add(
			spec.HandlingCostEUR.Mul(decimal.NewFromInt(int64(count))))
	}
	breakdown.ChargeableKg = breakdown.GoodsWeightKg + breakdown.TareWeightKg

	if err := c.applyFreight(breakdown, origin, rules, opts); err != nil {
		return nil, err
	}
	c.applyIslandSurcharge(breakdown, destination)
	c.applyOriginExtras(breakdown, origin, counts, opts.TotalAreaM2)

	return breakdown, nil
}

func (c *calculator) applyFreight(b *CostBreakdown, origin tariffs.OriginRule, rules *tariffs.Set, opts Options) error {
	if opts.Mode == enums.TransportModeGroupage {
		if !origin.GroupageEligible {
			return pkgerrors.New(pkgerrors.CodeValidation, "origin is not groupage eligible").
				WithDetails(map[string]any{"origin": string(origin.Code)})
		}
		if opts.ManualFreightEUR != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "manual freight does not apply in groupage mode")
		}
		amount, err := priceFromBands(rules.Groupage, nil, b.ChargeableKg, origin.Code)
		if err != nil {
			return err
		}
		b.FreightEUR = amount
		return nil
	}

	if origin.Mode == tariffs.RateModeManual {
		if opts.ManualFreightEUR == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "origin requires a manual freight amount").
				WithDetails(map[string]any{"origin": string(origin.Code)})
		}
		if opts.ManualFreightEUR.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "manual freight must not be negative")
		}
		b.FreightEUR = *opts.ManualFreightEUR
		b.Lines = append(b.Lines, Line{
			Code:      LineManualFreight,
			Label:     fmt.Sprintf("Manual freight (%s)", origin.Code),
			AmountEUR: b.FreightEUR,
		})
		return nil
	}

	if opts.ManualFreightEUR != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "origin does not accept a manual freight amount").
			WithDetails(map[string]any{"origin": string(origin.Code)})
	}
	amount, err := priceFromBands(origin.Bands, origin.DefaultEURPerKg, b.ChargeableKg, origin.Code)
	if err != nil {
		return err
	}
	b.FreightEUR = amount
	return nil
}

func priceFromBands(bands []tariffs.FreightBand, fallback *decimal.Decimal, kg float64, origin tariffs.OriginCode) (decimal.Decimal, error) {
	for _, band := range bands {
		if band.Covers(kg) {
			return band.Price(kg), nil
		}
	}
	if fallback != nil {
		return decimal.NewFromFloat(kg).Mul(*fallback), nil
	}
	return decimal.Zero, pkgerrors.New(pkgerrors.CodeConfiguration, "no freight band covers shipment weight").
		WithDetails(map[string]any{"origin": string(origin), "chargeable_kg": kg})
}

func (c *calculator) applyIslandSurcharge(b *CostBreakdown, destination tariffs.DestinationRule) {
	if !destination.Island {
		return
	}
	amount := decimal.NewFromFloat(b.ChargeableKg).Mul(destination.SurchargeEURPerKg)
	b.SurchargeEUR = amount
	b.Lines = append(b.Lines, Line{
		Code:      LineIslandSurcharge,
		Label:     fmt.Sprintf("Island delivery surcharge (%s)", destination.Zone),
		AmountEUR: amount,
	})
}

func (c *calculator) applyOriginExtras(b *CostBreakdown, origin tariffs.OriginRule, counts map[enums.PalletType]int, areaM2 float64) {
	if origin.IndustrialPalletExtraEUR != nil {
		if n := counts[enums.PalletTypeIndustrial]; n > 0 {
			amount := origin.IndustrialPalletExtraEUR.Mul(decimal.NewFromInt(int64(n)))
			b.ExtrasEUR = b.ExtrasEUR.Add(amount)
			b.Lines = append(b.Lines, Line{
				Code:      LineIndustrialPalletExtra,
				Label:     fmt.Sprintf("Industrial pallet surcharge (%s) x%d", origin.Code, n),
				AmountEUR: amount,
			})
		}
	}
	if origin.SurchargeEURPerM2 != nil && areaM2 > 0 {
		amount := origin.SurchargeEURPerM2.Mul(decimal.NewFromFloat(areaM2))
		b.ExtrasEUR = b.ExtrasEUR.Add(amount)
		b.Lines = append(b.Lines, Line{
			Code:      LineAreaSurcharge,
			Label:     fmt.Sprintf("Per-m2 surcharge (%s)", origin.Code),
			AmountEUR: amount,
		})
	}
}
