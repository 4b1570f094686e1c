package tariffs

import (
	"sort"

	"github.com/shopspring/decimal"

	tariffsvc "github.com/johnkommas/corgres/internal/tariffs"
	"github.com/johnkommas/corgres/pkg/enums"
	pkgerrors "github.com/johnkommas/corgres/pkg/errors"
)

type setPayload struct {
	Origins       []originPayload      `json:"origins" validate:"required,min=1,dive"`
	Destinations  []destinationPayload `json:"destinations" validate:"required,min=1,dive"`
	Pallets       []palletPayload      `json:"pallets" validate:"required,min=1,dive"`
	Materials     []materialPayload    `json:"materials" validate:"required,min=1,dive"`
	GroupageBands []bandPayload        `json:"groupage_bands" validate:"omitempty,dive"`
}

type originPayload struct {
	Code                     string           `json:"code" validate:"required,len=2"`
	Mode                     string           `json:"mode" validate:"required,oneof=bands manual"`
	GroupageEligible         bool             `json:"groupage_eligible"`
	Bands                    []bandPayload    `json:"bands" validate:"omitempty,dive"`
	DefaultEURPerKg          *decimal.Decimal `json:"default_eur_per_kg"`
	IndustrialPalletExtraEUR *decimal.Decimal `json:"industrial_pallet_extra_eur"`
	SurchargeEURPerM2        *decimal.Decimal `json:"surcharge_eur_per_m2"`
}

type bandPayload struct {
	MinKg    float64         `json:"min_kg" validate:"min=0"`
	MaxKg    float64         `json:"max_kg" validate:"required,gt=0"`
	FlatEUR  decimal.Decimal `json:"flat_eur"`
	EURPerKg decimal.Decimal `json:"eur_per_kg"`
}

type destinationPayload struct {
	Zone              string          `json:"zone" validate:"required"`
	Island            bool            `json:"island"`
	SurchargeEURPerKg decimal.Decimal `json:"surcharge_eur_per_kg"`
}

type palletPayload struct {
	Type            string          `json:"type" validate:"required,oneof=eu industrial"`
	MaxWeightKg     float64         `json:"max_weight_kg" validate:"required,gt=0"`
	MaxVolumeM3     float64         `json:"max_volume_m3" validate:"required,gt=0"`
	TareWeightKg    float64         `json:"tare_weight_kg" validate:"min=0"`
	HandlingCostEUR decimal.Decimal `json:"handling_cost_eur"`
}

type materialPayload struct {
	Material          string   `json:"material" validate:"required,oneof=ceramic porcelain marble granite quartz"`
	AllowedEU         bool     `json:"allowed_eu"`
	AllowedIndustrial bool     `json:"allowed_industrial"`
	Mixable           bool     `json:"mixable"`
	EUMaxThicknessMM  *float64 `json:"eu_max_thickness_mm"`
}

func (p setPayload) toSet() (*tariffsvc.Set, error) {
	set := &tariffsvc.Set{
		Origins:      map[tariffsvc.OriginCode]tariffsvc.OriginRule{},
		Destinations: map[tariffsvc.DestinationZone]tariffsvc.DestinationRule{},
		Pallets:      map[enums.PalletType]tariffsvc.PalletSpec{},
		Materials:    map[enums.MaterialClass]tariffsvc.MaterialRule{},
		Groupage:     toBands(p.GroupageBands),
	}

	for _, origin := range p.Origins {
		code := tariffsvc.NormalizeOrigin(origin.Code)
		if _, exists := set.Origins[code]; exists {
			return nil, duplicateErr("origin", string(code))
		}
		set.Origins[code] = tariffsvc.OriginRule{
			Code:                     code,
			Mode:                     tariffsvc.RateMode(origin.Mode),
			GroupageEligible:         origin.GroupageEligible,
			Bands:                    toBands(origin.Bands),
			DefaultEURPerKg:          origin.DefaultEURPerKg,
			IndustrialPalletExtraEUR: origin.IndustrialPalletExtraEUR,
			SurchargeEURPerM2:        origin.SurchargeEURPerM2,
		}
	}

	for _, destination := range p.Destinations {
		zone := tariffsvc.NormalizeZone(destination.Zone)
		if _, exists := set.Destinations[zone]; exists {
			return nil, duplicateErr("destination", string(zone))
		}
		set.Destinations[zone] = tariffsvc.DestinationRule{
			Zone:              zone,
			Island:            destination.Island,
			SurchargeEURPerKg: destination.SurchargeEURPerKg,
		}
	}

	for _, pallet := range p.Pallets {
		palletType, err := enums.ParsePalletType(pallet.Type)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pallet type")
		}
		if _, exists := set.Pallets[palletType]; exists {
			return nil, duplicateErr("pallet", pallet.Type)
		}
		set.Pallets[palletType] = tariffsvc.PalletSpec{
			Type:            palletType,
			MaxWeightKg:     pallet.MaxWeightKg,
			MaxVolumeM3:     pallet.MaxVolumeM3,
			TareWeightKg:    pallet.TareWeightKg,
			HandlingCostEUR: pallet.HandlingCostEUR,
		}
	}

	for _, material := range p.Materials {
		class, err := enums.ParseMaterialClass(material.Material)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid material class")
		}
		if _, exists := set.Materials[class]; exists {
			return nil, duplicateErr("material", material.Material)
		}
		set.Materials[class] = tariffsvc.MaterialRule{
			Material:          class,
			AllowedEU:         material.AllowedEU,
			AllowedIndustrial: material.AllowedIndustrial,
			Mixable:           material.Mixable,
			EUMaxThicknessMM:  material.EUMaxThicknessMM,
		}
	}

	return set, nil
}

func toBands(payloads []bandPayload) []tariffsvc.FreightBand {
	bands := make([]tariffsvc.FreightBand, 0, len(payloads))
	for _, band := range payloads {
		bands = append(bands, tariffsvc.FreightBand{
			MinKg:    band.MinKg,
			MaxKg:    band.MaxKg,
			FlatEUR:  band.FlatEUR,
			EURPerKg: band.EURPerKg,
		})
	}
	return bands
}

func duplicateErr(kind, key string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "duplicate "+kind+" entry").
		WithDetails(map[string]any{kind: key})
}

func newSetResponse(set *tariffsvc.Set) setPayload {
	out := setPayload{GroupageBands: fromBands(set.Groupage)}

	for _, rule := range set.Origins {
		out.Origins = append(out.Origins, originPayload{
			Code:                     string(rule.Code),
			Mode:                     string(rule.Mode),
			GroupageEligible:         rule.GroupageEligible,
			Bands:                    fromBands(rule.Bands),
			DefaultEURPerKg:          rule.DefaultEURPerKg,
			IndustrialPalletExtraEUR: rule.IndustrialPalletExtraEUR,
			SurchargeEURPerM2:        rule.SurchargeEURPerM2,
		})
	}
	sort.Slice(out.Origins, func(i, j int) bool { return out.Origins[i].Code < out.Origins[j].Code })

	for _, rule := range set.Destinations {
		out.Destinations = append(out.Destinations, destinationPayload{
			Zone:              string(rule.Zone),
			Island:            rule.Island,
			SurchargeEURPerKg: rule.SurchargeEURPerKg,
		})
	}
	sort.Slice(out.Destinations, func(i, j int) bool { return out.Destinations[i].Zone < out.Destinations[j].Zone })

	for _, spec := range set.Pallets {
		out.Pallets = append(out.Pallets, palletPayload{
			Type:            spec.Type.String(),
			MaxWeightKg:     spec.MaxWeightKg,
			MaxVolumeM3:     spec.MaxVolumeM3,
			TareWeightKg:    spec.TareWeightKg,
			HandlingCostEUR: spec.HandlingCostEUR,
		})
	}
	sort.Slice(out.Pallets, func(i, j int) bool { return out.Pallets[i].Type < out.Pallets[j].Type })

	for _, rule := range set.Materials {
		out.Materials = append(out.Materials, materialPayload{
			Material:          rule.Material.String(),
			AllowedEU:         rule.AllowedEU,
			AllowedIndustrial: rule.AllowedIndustrial,
			Mixable:           rule.Mixable,
			EUMaxThicknessMM:  rule.EUMaxThicknessMM,
		})
	}
	sort.Slice(out.Materials, func(i, j int) bool { return out.Materials[i].Material < out.Materials[j].Material })

	return out
}

func fromBands(bands []tariffsvc.FreightBand) []bandPayload {
	out := make([]bandPayload, 0, len(bands))
	for _, band := range bands {
		out = append(out, bandPayload{
			MinKg:    band.MinKg,
			MaxKg:    band.MaxKg,
			FlatEUR:  band.FlatEUR,
			EURPerKg: band.EURPerKg,
		})
	}
	return out
}
