package tariffs

import (
	"context"

	"github.com/johnkommas/corgres/pkg/enums"
	pkgerrors "github.com/johnkommas/corgres/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type originRow struct {
	Code                     string           `gorm:"column:code;primaryKey"`
	RateMode                 string           `gorm:"column:rate_mode"`
	GroupageEligible         bool             `gorm:"column:groupage_eligible"`
	DefaultEURPerKg          *decimal.Decimal `gorm:"column:default_eur_per_kg;type:numeric"`
	IndustrialPalletExtraEUR *decimal.Decimal `gorm:"column:industrial_pallet_extra_eur;type:numeric"`
	SurchargeEURPerM2        *decimal.Decimal `gorm:"column:surcharge_eur_per_m2;type:numeric"`
}

func (originRow) TableName() string { return "tariff_origins" }

type freightBandRow struct {
	OriginCode string          `gorm:"column:origin_code;primaryKey"`
	MinKg      float64         `gorm:"column:min_kg;primaryKey"`
	MaxKg      float64         `gorm:"column:max_kg"`
	FlatEUR    decimal.Decimal `gorm:"column:flat_eur;type:numeric"`
	EURPerKg   decimal.Decimal `gorm:"column:eur_per_kg;type:numeric"`
}

func (freightBandRow) TableName() string { return "tariff_freight_bands" }

type groupageBandRow struct {
	MinKg    float64         `gorm:"column:min_kg;primaryKey"`
	MaxKg    float64         `gorm:"column:max_kg"`
	FlatEUR  decimal.Decimal `gorm:"column:flat_eur;type:numeric"`
	EURPerKg decimal.Decimal `gorm:"column:eur_per_kg;type:numeric"`
}

func (groupageBandRow) TableName() string { return "tariff_groupage_bands" }

type destinationRow struct {
	Zone              string          `gorm:"column:zone;primaryKey"`
	Island            bool            `gorm:"column:island"`
	SurchargeEURPerKg decimal.Decimal `gorm:"column:surcharge_eur_per_kg;type:numeric"`
}

func (destinationRow) TableName() string { return "tariff_destinations" }

type palletRow struct {
	PalletType      string          `gorm:"column:pallet_type;primaryKey"`
	MaxWeightKg     float64         `gorm:"column:max_weight_kg"`
	MaxVolumeM3     float64         `gorm:"column:max_volume_m3"`
	TareWeightKg    float64         `gorm:"column:tare_weight_kg"`
	HandlingCostEUR decimal.Decimal `gorm:"column:handling_cost_eur;type:numeric"`
}

func (palletRow) TableName() string { return "tariff_pallets" }

type materialRuleRow struct {
	Material          string   `gorm:"column:material;primaryKey"`
	AllowedEU         bool     `gorm:"column:allowed_eu"`
	AllowedIndustrial bool     `gorm:"column:allowed_industrial"`
	Mixable           bool     `gorm:"column:mixable"`
	EUMaxThicknessMM  *float64 `gorm:"column:eu_max_thickness_mm"`
}

func (materialRuleRow) TableName() string { return "tariff_material_rules" }

// Repository loads and saves tariff sets from the relational store.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a tariff repository on the shared connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Load assembles the persisted tariff set.
func (r *Repository) Load(ctx context.Context) (*Set, error) {
	var originRows []originRow
	if err := r.db.WithContext(ctx).Order("code").Find(&originRows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tariff origins")
	}

	var bandRows []freightBandRow
	if err := r.db.WithContext(ctx).Order("origin_code, min_kg").Find(&bandRows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load freight bands")
	}

	var groupageRows []groupageBandRow
	if err := r.db.WithContext(ctx).Order("min_kg").Find(&groupageRows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load groupage bands")
	}

	var destinationRows []destinationRow
	if err := r.db.WithContext(ctx).Order("zone").Find(&destinationRows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load destinations")
	}

	var palletRows []palletRow
	if err := r.db.WithContext(ctx).Order("pallet_type").Find(&palletRows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pallet specs")
	}

	var materialRows []materialRuleRow
	if err := r.db.WithContext(ctx).Order("material").Find(&materialRows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load material rules")
	}

	bandsByOrigin := map[string][]FreightBand{}
	for _, row := range bandRows {
		bandsByOrigin[row.OriginCode] = append(bandsByOrigin[row.OriginCode], FreightBand{
			MinKg:    row.MinKg,
			MaxKg:    row.MaxKg,
			FlatEUR:  row.FlatEUR,
			EURPerKg: row.EURPerKg,
		})
	}

	set := &Set{
		Origins:      map[OriginCode]OriginRule{},
		Destinations: map[DestinationZone]DestinationRule{},
		Pallets:      map[enums.PalletType]PalletSpec{},
		Materials:    map[enums.MaterialClass]MaterialRule{},
	}

	for _, row := range originRows {
		code := OriginCode(row.Code)
		set.Origins[code] = OriginRule{
			Code:                     code,
			Mode:                     RateMode(row.RateMode),
			GroupageEligible:         row.GroupageEligible,
			Bands:                    bandsByOrigin[row.Code],
			DefaultEURPerKg:          row.DefaultEURPerKg,
			IndustrialPalletExtraEUR: row.IndustrialPalletExtraEUR,
			SurchargeEURPerM2:        row.SurchargeEURPerM2,
		}
	}

	for _, row := range groupageRows {
		set.Groupage = append(set.Groupage, FreightBand{
			MinKg:    row.MinKg,
			MaxKg:    row.MaxKg,
			FlatEUR:  row.FlatEUR,
			EURPerKg: row.EURPerKg,
		})
	}

	for _, row := range destinationRows {
		zone := DestinationZone(row.Zone)
		set.Destinations[zone] = DestinationRule{
			Zone:              zone,
			Island:            row.Island,
			SurchargeEURPerKg: row.SurchargeEURPerKg,
		}
	}

	for _, row := range palletRows {
		palletType, err := enums.ParsePalletType(row.PalletType)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConfiguration, err, "stored pallet spec invalid")
		}
		set.Pallets[palletType] = PalletSpec{
			Type:            palletType,
			MaxWeightKg:     row.MaxWeightKg,
			MaxVolumeM3:     row.MaxVolumeM3,
			TareWeightKg:    row.TareWeightKg,
			HandlingCostEUR: row.HandlingCostEUR,
		}
	}

	for _, row := range materialRows {
		material, err := enums.ParseMaterialClass(row.Material)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConfiguration, err, "stored material rule invalid")
		}
		set.Materials[material] = MaterialRule{
			Material:          material,
			AllowedEU:         row.AllowedEU,
			AllowedIndustrial: row.AllowedIndustrial,
			Mixable:           row.Mixable,
			EUMaxThicknessMM:  row.EUMaxThicknessMM,
		}
	}

	return set, nil
}

// Save replaces the persisted tariff set. The caller wraps it in a
// transaction via WithTx so a failed write never leaves a partial table.
func (r *Repository) Save(ctx context.Context, set *Set) error {
	db := r.db.WithContext(ctx)

	tables := []any{
		&freightBandRow{}, &groupageBandRow{}, &originRow{},
		&destinationRow{}, &palletRow{}, &materialRuleRow{},
	}
	for _, table := range tables {
		if err := db.Where("1 = 1").Delete(table).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear tariff tables")
		}
	}

	for code, rule := range set.Origins {
		row := originRow{
			Code:                     string(code),
			RateMode:                 string(rule.Mode),
			GroupageEligible:         rule.GroupageEligible,
			DefaultEURPerKg:          rule.DefaultEURPerKg,
			IndustrialPalletExtraEUR: rule.IndustrialPalletExtraEUR,
			SurchargeEURPerM2:        rule.SurchargeEURPerM2,
		}
		if err := db.Create(&row).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save tariff origin")
		}
		for _, band := range rule.Bands {
			bandRow := freightBandRow{
				OriginCode: string(code),
				MinKg:      band.MinKg,
				MaxKg:      band.MaxKg,
				FlatEUR:    band.FlatEUR,
				EURPerKg:   band.EURPerKg,
			}
			if err := db.Create(&bandRow).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save freight band")
			}
		}
	}

	for _, band := range set.Groupage {
		row := groupageBandRow{
			MinKg:    band.MinKg,
			MaxKg:    band.MaxKg,
			FlatEUR:  band.FlatEUR,
			EURPerKg: band.EURPerKg,
		}
		if err := db.Create(&row).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save groupage band")
		}
	}

	for _, rule := range set.Destinations {
		row := destinationRow{
			Zone:              string(rule.Zone),
			Island:            rule.Island,
			SurchargeEURPerKg: rule.SurchargeEURPerKg,
		}
		if err := db.Create(&row).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save destination")
		}
	}

	for _, spec := range set.Pallets {
		row := palletRow{
			PalletType:      spec.Type.String(),
			MaxWeightKg:     spec.MaxWeightKg,
			MaxVolumeM3:     spec.MaxVolumeM3,
			TareWeightKg:    spec.TareWeightKg,
			HandlingCostEUR: spec.HandlingCostEUR,
		}
		if err := db.Create(&row).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save pallet spec")
		}
	}

	for _, rule := range set.Materials {
		row := materialRuleRow{
			Material:          rule.Material.String(),
			AllowedEU:         rule.AllowedEU,
			AllowedIndustrial: rule.AllowedIndustrial,
			Mixable:           rule.Mixable,
			EUMaxThicknessMM:  rule.EUMaxThicknessMM,
		}
		if err := db.Create(&row).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save material rule")
		}
	}

	return nil
}
