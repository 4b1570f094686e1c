package tariffs

import (
	"fmt"

	"github.com/johnkommas/corgres/pkg/enums"
	"go.uber.org/multierr"
)

// Validate checks a tariff set for internal consistency before it is
// allowed to become the active snapshot. All problems are reported at
// once so an operator can fix a bad upload in one pass.
func Validate(set *Set) error {
	if set == nil {
		return fmt.Errorf("tariff set is required")
	}

	var errs []error

	if len(set.Origins) == 0 {
		errs = append(errs, fmt.Errorf("at least one origin rule is required"))
	}
	for code, rule := range set.Origins {
		errs = append(errs, validateOrigin(code, rule)...)
	}

	if len(set.Destinations) == 0 {
		errs = append(errs, fmt.Errorf("at least one destination rule is required"))
	}
	for zone, rule := range set.Destinations {
		if rule.SurchargeEURPerKg.IsNegative() {
			errs = append(errs, fmt.Errorf("destination %s: surcharge cannot be negative", zone))
		}
		if rule.Island && !rule.SurchargeEURPerKg.IsPositive() {
			errs = append(errs, fmt.Errorf("destination %s: island zones require a positive surcharge", zone))
		}
	}

	for _, palletType := range enums.AllPalletTypes() {
		spec, ok := set.Pallets[palletType]
		if !ok {
			errs = append(errs, fmt.Errorf("pallet spec for %s is required", palletType))
			continue
		}
		if spec.MaxWeightKg <= 0 {
			errs = append(errs, fmt.Errorf("pallet %s: max weight must be positive", palletType))
		}
		if spec.MaxVolumeM3 <= 0 {
			errs = append(errs, fmt.Errorf("pallet %s: max volume must be positive", palletType))
		}
		if spec.TareWeightKg < 0 {
			errs = append(errs, fmt.Errorf("pallet %s: tare weight cannot be negative", palletType))
		}
		if spec.HandlingCostEUR.IsNegative() {
			errs = append(errs, fmt.Errorf("pallet %s: handling cost cannot be negative", palletType))
		}
	}

	for material, rule := range set.Materials {
		if !rule.AllowedEU && !rule.AllowedIndustrial {
			errs = append(errs, fmt.Errorf("material %s: at least one pallet type must be allowed", material))
		}
	}

	errs = append(errs, validateBands("groupage", set.Groupage)...)

	return multierr.Combine(errs...)
}

func validateOrigin(code OriginCode, rule OriginRule) []error {
	var errs []error

	switch rule.Mode {
	case RateModeBands:
		if len(rule.Bands) == 0 && rule.DefaultEURPerKg == nil {
			errs = append(errs, fmt.Errorf("origin %s: band mode requires bands or a default per-kg rate", code))
		}
		errs = append(errs, validateBands(fmt.Sprintf("origin %s", code), rule.Bands)...)
	case RateModeManual:
		if len(rule.Bands) > 0 {
			errs = append(errs, fmt.Errorf("origin %s: manual mode cannot carry bands", code))
		}
	default:
		errs = append(errs, fmt.Errorf("origin %s: unknown rate mode %q", code, rule.Mode))
	}

	if rule.DefaultEURPerKg != nil && rule.DefaultEURPerKg.IsNegative() {
		errs = append(errs, fmt.Errorf("origin %s: default per-kg rate cannot be negative", code))
	}
	if rule.IndustrialPalletExtraEUR != nil && rule.IndustrialPalletExtraEUR.IsNegative() {
		errs = append(errs, fmt.Errorf("origin %s: industrial pallet extra cannot be negative", code))
	}
	if rule.SurchargeEURPerM2 != nil && rule.SurchargeEURPerM2.IsNegative() {
		errs = append(errs, fmt.Errorf("origin %s: per-m2 surcharge cannot be negative", code))
	}

	return errs
}

func validateBands(scope string, bands []FreightBand) []error {
	var errs []error
	for i, band := range bands {
		if band.MinKg < 0 {
			errs = append(errs, fmt.Errorf("%s band %d: min kg cannot be negative", scope, i))
		}
		if band.MaxKg <= band.MinKg {
			errs = append(errs, fmt.Errorf("%s band %d: max kg must exceed min kg", scope, i))
		}
		if band.FlatEUR.IsNegative() || band.EURPerKg.IsNegative() {
			errs = append(errs, fmt.Errorf("%s band %d: rates cannot be negative", scope, i))
		}
		if !band.FlatEUR.IsPositive() && !band.EURPerKg.IsPositive() {
			errs = append(errs, fmt.Errorf("%s band %d: either a flat amount or a per-kg rate is required", scope, i))
		}
	}
	return errs
}
