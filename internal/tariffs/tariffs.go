package tariffs

import (
	"strings"

	"github.com/johnkommas/corgres/pkg/enums"
	pkgerrors "github.com/johnkommas/corgres/pkg/errors"
	"github.com/shopspring/decimal"
)

// OriginCode is a normalized ISO-3166 alpha-2 country code.
type OriginCode string

// DestinationZone names a delivery zone, e.g. "GR-mainland" or "GR-crete".
type DestinationZone string

// RateMode selects how an origin's freight is priced.
type RateMode string

const (
	RateModeBands  RateMode = "bands"
	RateModeManual RateMode = "manual"
)

// NormalizeOrigin canonicalizes raw origin input.
func NormalizeOrigin(value string) OriginCode {
	return OriginCode(strings.ToUpper(strings.TrimSpace(value)))
}

// NormalizeZone canonicalizes raw destination zone input.
func NormalizeZone(value string) DestinationZone {
	return DestinationZone(strings.TrimSpace(value))
}

// FreightBand prices a chargeable-weight interval. A positive flat amount
// wins over the per-kg rate, mirroring how the carrier tariffs are quoted.
type FreightBand struct {
	MinKg    float64
	MaxKg    float64
	FlatEUR  decimal.Decimal
	EURPerKg decimal.Decimal
}

// Covers reports whether the band applies to the given chargeable weight.
func (b FreightBand) Covers(kg float64) bool {
	return b.MinKg <= kg && kg <= b.MaxKg
}

// Price returns the freight amount for the given weight under this band.
func (b FreightBand) Price(kg float64) decimal.Decimal {
	if b.FlatEUR.IsPositive() {
		return b.FlatEUR
	}
	return decimal.NewFromFloat(kg).Mul(b.EURPerKg)
}

// OriginRule carries the freight pricing rules for one origin country.
type OriginRule struct {
	Code             OriginCode
	Mode             RateMode
	GroupageEligible bool
	Bands            []FreightBand
	DefaultEURPerKg  *decimal.Decimal

	// Origin-specific surcharges. Italy bills an extra per industrial
	// pallet, Portugal an extra per shipped m2.
	IndustrialPalletExtraEUR *decimal.Decimal
	SurchargeEURPerM2        *decimal.Decimal
}

// DestinationRule carries the per-zone delivery surcharge. Island zones
// bill an extra amount per chargeable kg.
type DestinationRule struct {
	Zone              DestinationZone
	Island            bool
	SurchargeEURPerKg decimal.Decimal
}

// PalletSpec fixes one pallet type's capacity limits, tare weight and
// handling cost.
type PalletSpec struct {
	Type            enums.PalletType
	MaxWeightKg     float64
	MaxVolumeM3     float64
	TareWeightKg    float64
	HandlingCostEUR decimal.Decimal
}

// MaterialRule is one row of the material-class compatibility table. EU
// eligibility can be cut off above a thickness; mixing onto shared pallets
// is only allowed when every involved class is mixable.
type MaterialRule struct {
	Material          enums.MaterialClass
	AllowedEU         bool
	AllowedIndustrial bool
	Mixable           bool
	EUMaxThicknessMM  *float64
}

// AllowedTypes resolves the pallet types an item of this material and
// thickness may ride on, EU first so the cheaper type wins ties.
func (m MaterialRule) AllowedTypes(thicknessMM float64) []enums.PalletType {
	var out []enums.PalletType
	if m.AllowedEU && (m.EUMaxThicknessMM == nil || thicknessMM <= *m.EUMaxThicknessMM) {
		out = append(out, enums.PalletTypeEU)
	}
	if m.AllowedIndustrial {
		out = append(out, enums.PalletTypeIndustrial)
	}
	return out
}

// Set is one immutable tariff snapshot. Engines read it for the whole
// request; updates swap in a fresh Set through the Store.
type Set struct {
	Origins      map[OriginCode]OriginRule
	Destinations map[DestinationZone]DestinationRule
	Pallets      map[enums.PalletType]PalletSpec
	Materials    map[enums.MaterialClass]MaterialRule
	Groupage     []FreightBand
}

// Origin resolves the rule for an origin code. Unknown origins are a
// request-level validation failure, not a configuration one.
func (s *Set) Origin(code OriginCode) (OriginRule, error) {
	rule, ok := s.Origins[code]
	if !ok {
		return OriginRule{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown origin").
			WithDetails(map[string]any{"origin": string(code)})
	}
	return rule, nil
}

// Destination resolves the rule for a destination zone.
func (s *Set) Destination(zone DestinationZone) (DestinationRule, error) {
	rule, ok := s.Destinations[zone]
	if !ok {
		return DestinationRule{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown destination").
			WithDetails(map[string]any{"destination": string(zone)})
	}
	return rule, nil
}

// Pallet resolves the spec for a pallet type. A missing spec means the
// tariff set is incomplete.
func (s *Set) Pallet(t enums.PalletType) (PalletSpec, error) {
	spec, ok := s.Pallets[t]
	if !ok {
		return PalletSpec{}, pkgerrors.New(pkgerrors.CodeConfiguration, "pallet spec missing").
			WithDetails(map[string]any{"pallet_type": t.String()})
	}
	return spec, nil
}

// Material resolves the compatibility rule for a material class.
func (s *Set) Material(m enums.MaterialClass) (MaterialRule, error) {
	rule, ok := s.Materials[m]
	if !ok {
		return MaterialRule{}, pkgerrors.New(pkgerrors.CodeConfiguration, "material rule missing").
			WithDetails(map[string]any{"material": m.String()})
	}
	return rule, nil
}
