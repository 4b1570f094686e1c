package allocation

import (
	"testing"

	"github.com/johnkommas/corgres/internal/tariffs"
	"github.com/johnkommas/corgres/pkg/enums"
	pkgerrors "github.com/johnkommas/corgres/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func packingRules() *tariffs.Set {
	thin := 14.0
	mid := 20.0
	return &tariffs.Set{
		Pallets: map[enums.PalletType]tariffs.PalletSpec{
			enums.PalletTypeEU: {
				Type:            enums.PalletTypeEU,
				MaxWeightKg:     1200,
				MaxVolumeM3:     1.5,
				TareWeightKg:    25,
				HandlingCostEUR: decimal.NewFromInt(10),
			},
			enums.PalletTypeIndustrial: {
				Type:            enums.PalletTypeIndustrial,
				MaxWeightKg:     1800,
				MaxVolumeM3:     2.2,
				TareWeightKg:    40,
				HandlingCostEUR: decimal.NewFromInt(30),
			},
		},
		Materials: map[enums.MaterialClass]tariffs.MaterialRule{
			enums.MaterialCeramic: {
				Material:          enums.MaterialCeramic,
				AllowedEU:         true,
				AllowedIndustrial: true,
				Mixable:           true,
				EUMaxThicknessMM:  &thin,
			},
			enums.MaterialPorcelain: {
				Material:          enums.MaterialPorcelain,
				AllowedEU:         true,
				AllowedIndustrial: true,
				Mixable:           true,
				EUMaxThicknessMM:  &mid,
			},
			enums.MaterialMarble: {
				Material:          enums.MaterialMarble,
				AllowedIndustrial: true,
			},
			enums.MaterialGranite: {
				Material:          enums.MaterialGranite,
				AllowedIndustrial: true,
			},
		},
	}
}

func ceramicBoxes(id string, qty int) ShipmentItem {
	return ShipmentItem{
		ID:            id,
		Material:      enums.MaterialCeramic,
		ThicknessMM:   10,
		Quantity:      qty,
		UnitWeightKg:  30,
		UnitVolumeM3:  0.035,
		AreaM2PerUnit: 1.44,
	}
}

func TestAllocateSingleItemOnePallet(t *testing.T) {
	t.Parallel()

	alloc := NewAllocator()
	manifest, err := alloc.Allocate([]ShipmentItem{ceramicBoxes("tile-10", 4)}, packingRules())
	require.NoError(t, err)

	require.Equal(t, 1, manifest.Count())
	assert.Equal(t, enums.PalletTypeEU, manifest.Pallets[0].Type)
	assert.Equal(t, 4, manifest.AssignedQuantity("tile-10"))
	assert.InDelta(t, 120.0, manifest.GoodsWeightKg(), 1e-9)
	assert.False(t, manifest.Pallets[0].Mixed())
}

func TestAllocateLargeLineSpansPallets(t *testing.T) {
	t.Parallel()

	// 100 boxes at 30kg each against a 1200kg cap: 40 per pallet, 3 pallets.
	alloc := NewAllocator()
	manifest, err := alloc.Allocate([]ShipmentItem{ceramicBoxes("tile-10", 100)}, packingRules())
	require.NoError(t, err)

	require.Equal(t, 3, manifest.Count())
	assert.Equal(t, 100, manifest.AssignedQuantity("tile-10"))
	for _, p := range manifest.Pallets {
		assert.Equal(t, enums.PalletTypeEU, p.Type)
		assert.LessOrEqual(t, p.WeightKg, 1200.0)
		assert.LessOrEqual(t, p.VolumeM3, 1.5)
	}
}

func TestAllocateVolumeBound(t *testing.T) {
	t.Parallel()

	// Light but bulky: volume, not weight, forces the split.
	bulky := ShipmentItem{
		ID:           "mosaic-kit",
		Material:     enums.MaterialPorcelain,
		ThicknessMM:  8,
		Quantity:     10,
		UnitWeightKg: 5,
		UnitVolumeM3: 0.4,
	}
	alloc := NewAllocator()
	manifest, err := alloc.Allocate([]ShipmentItem{bulky}, packingRules())
	require.NoError(t, err)

	// 1.5 m3 cap fits 3 units per pallet.
	require.Equal(t, 4, manifest.Count())
	assert.Equal(t, 10, manifest.AssignedQuantity("mosaic-kit"))
}

func TestAllocateThickCeramicGoesIndustrial(t *testing.T) {
	t.Parallel()

	thick := ceramicBoxes("slab-20", 2)
	thick.ThicknessMM = 20

	alloc := NewAllocator()
	manifest, err := alloc.Allocate([]ShipmentItem{thick}, packingRules())
	require.NoError(t, err)

	require.Equal(t, 1, manifest.Count())
	assert.Equal(t, enums.PalletTypeIndustrial, manifest.Pallets[0].Type)
}

func TestAllocateMixableMaterialsShareOnePallet(t *testing.T) {
	t.Parallel()

	porcelain := ShipmentItem{
		ID:           "porc-12",
		Material:     enums.MaterialPorcelain,
		ThicknessMM:  12,
		Quantity:     3,
		UnitWeightKg: 28,
		UnitVolumeM3: 0.03,
	}

	alloc := NewAllocator()
	manifest, err := alloc.Allocate([]ShipmentItem{ceramicBoxes("tile-10", 3), porcelain}, packingRules())
	require.NoError(t, err)

	require.Equal(t, 1, manifest.Count())
	assert.True(t, manifest.Pallets[0].Mixed())
	assert.Equal(t, 3, manifest.AssignedQuantity("tile-10"))
	assert.Equal(t, 3, manifest.AssignedQuantity("porc-12"))
}

func TestAllocateNonMixableMaterialsStaySeparate(t *testing.T) {
	t.Parallel()

	marble := ShipmentItem{
		ID:           "marble-30",
		Material:     enums.MaterialMarble,
		ThicknessMM:  30,
		Quantity:     2,
		UnitWeightKg: 80,
		UnitVolumeM3: 0.06,
	}
	granite := ShipmentItem{
		ID:           "granite-30",
		Material:     enums.MaterialGranite,
		ThicknessMM:  30,
		Quantity:     2,
		UnitWeightKg: 90,
		UnitVolumeM3: 0.06,
	}

	alloc := NewAllocator()
	manifest, err := alloc.Allocate([]ShipmentItem{marble, granite}, packingRules())
	require.NoError(t, err)

	// Both ride industrial pallets but never share one.
	require.Equal(t, 2, manifest.Count())
	for _, p := range manifest.Pallets {
		assert.Equal(t, enums.PalletTypeIndustrial, p.Type)
		assert.False(t, p.Mixed())
	}
}

func TestAllocateOversizeUnitFails(t *testing.T) {
	t.Parallel()

	monolith := ShipmentItem{
		ID:           "monolith",
		Material:     enums.MaterialGranite,
		ThicknessMM:  40,
		Quantity:     1,
		UnitWeightKg: 2500,
		UnitVolumeM3: 0.5,
	}

	alloc := NewAllocator()
	_, err := alloc.Allocate([]ShipmentItem{monolith}, packingRules())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeAllocation))
}

func TestAllocateValidation(t *testing.T) {
	t.Parallel()

	alloc := NewAllocator()
	rules := packingRules()

	_, err := alloc.Allocate(nil, rules)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	zeroQty := ceramicBoxes("tile-10", 0)
	_, err = alloc.Allocate([]ShipmentItem{zeroQty}, rules)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	weightless := ceramicBoxes("tile-10", 1)
	weightless.UnitWeightKg = 0
	_, err = alloc.Allocate([]ShipmentItem{weightless}, rules)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestAllocateConservationAcrossMixedShipment(t *testing.T) {
	t.Parallel()

	items := []ShipmentItem{
		ceramicBoxes("tile-a", 55),
		ceramicBoxes("tile-b", 17),
		{
			ID:           "marble-30",
			Material:     enums.MaterialMarble,
			ThicknessMM:  30,
			Quantity:     9,
			UnitWeightKg: 80,
			UnitVolumeM3: 0.06,
		},
	}

	alloc := NewAllocator()
	manifest, err := alloc.Allocate(items, packingRules())
	require.NoError(t, err)

	require.GreaterOrEqual(t, manifest.Count(), 1)
	for _, item := range items {
		assert.Equal(t, item.Quantity, manifest.AssignedQuantity(item.ID), item.ID)
	}

	var totalWeight float64
	for _, item := range items {
		totalWeight += item.TotalWeightKg()
	}
	assert.InDelta(t, totalWeight, manifest.GoodsWeightKg(), 1e-6)
}
