package allocation

import (
	"fmt"
	"math"
	"sort"

	"github.com/johnkommas/corgres/internal/tariffs"
	"github.com/johnkommas/corgres/pkg/enums"
	pkgerrors "github.com/johnkommas/corgres/pkg/errors"
)

// Allocator packs shipment items onto the minimum practical number of
// typed pallets under the tariff set's capacity and mixing rules.
type Allocator interface {
	Allocate(items []ShipmentItem, rules *tariffs.Set) (*Manifest, error)
}

type allocator struct{}

// NewAllocator creates the default first-fit-decreasing allocator.
func NewAllocator() Allocator {
	return &allocator{}
}

// mixedGroupKey pools all mixable materials of one pallet type onto
// shared pallets. Non-mixable materials pack under their own key.
const mixedGroupKey = "mixed"

type packGroup struct {
	palletType enums.PalletType
	key        string
	items      []ShipmentItem
}

func (a *allocator) Allocate(items []ShipmentItem, rules *tariffs.Set) (*Manifest, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}

	groups, err := partition(items, rules)
	if err != nil {
		return nil, err
	}

	manifest := &Manifest{}
	for _, group := range groups {
		spec, err := rules.Pallet(group.palletType)
		if err != nil {
			return nil, err
		}
		if err := packGroupItems(manifest, group, spec); err != nil {
			return nil, err
		}
	}
	return manifest, nil
}

func validateItems(items []ShipmentItem) error {
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipment has no items")
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return itemValidationErr(item, "quantity must be positive")
		}
		if item.UnitWeightKg <= 0 {
			return itemValidationErr(item, "unit weight must be positive")
		}
		if item.UnitVolumeM3 <= 0 {
			return itemValidationErr(item, "unit volume must be positive")
		}
	}
	return nil
}

func itemValidationErr(item ShipmentItem, msg string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, msg).
		WithDetails(map[string]any{"item_id": item.ID})
}

// partition resolves each item's pallet type and mixing group. The
// cheaper EU type wins whenever a unit fits it; a unit too big for every
// compatible type is an unsplittable oversize item.
func partition(items []ShipmentItem, rules *tariffs.Set) ([]packGroup, error) {
	byKey := map[string]*packGroup{}
	var order []string

	for _, item := range items {
		rule, err := rules.Material(item.Material)
		if err != nil {
			return nil, err
		}
		allowed := rule.AllowedTypes(item.ThicknessMM)
		if len(allowed) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeAllocation, "no pallet type accepts this material").
				WithDetails(map[string]any{
					"item_id":      item.ID,
					"material":     item.Material.String(),
					"thickness_mm": item.ThicknessMM,
				})
		}

		chosen, err := firstFittingType(item, allowed, rules)
		if err != nil {
			return nil, err
		}

		groupName := item.Material.String()
		if rule.Mixable {
			groupName = mixedGroupKey
		}
		key := fmt.Sprintf("%s/%s", chosen.String(), groupName)
		group, ok := byKey[key]
		if !ok {
			group = &packGroup{palletType: chosen, key: key}
			byKey[key] = group
			order = append(order, key)
		}
		group.items = append(group.items, item)
	}

	groups := make([]packGroup, 0, len(order))
	for _, key := range order {
		group := *byKey[key]
		// heaviest-densest first, input order on ties
		sort.SliceStable(group.items, func(i, j int) bool {
			return group.items[i].Density() > group.items[j].Density()
		})
		groups = append(groups, group)
	}
	return groups, nil
}

func firstFittingType(item ShipmentItem, allowed []enums.PalletType, rules *tariffs.Set) (enums.PalletType, error) {
	for _, t := range allowed {
		spec, err := rules.Pallet(t)
		if err != nil {
			return "", err
		}
		if item.UnitWeightKg <= spec.MaxWeightKg && item.UnitVolumeM3 <= spec.MaxVolumeM3 {
			return t, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeAllocation, "item unit exceeds every compatible pallet capacity").
		WithDetails(map[string]any{
			"item_id":        item.ID,
			"material":       item.Material.String(),
			"unit_weight_kg": item.UnitWeightKg,
			"unit_volume_m3": item.UnitVolumeM3,
		})
}

// packGroupItems runs first-fit-decreasing over one group, splitting
// item quantities across pallets when a line outgrows the open pallet.
func packGroupItems(manifest *Manifest, group packGroup, spec tariffs.PalletSpec) error {
	open := -1 // index into manifest.Pallets of the group's open pallet

	for _, item := range group.items {
		remaining := item.Quantity
		for remaining > 0 {
			if open < 0 {
				manifest.Pallets = append(manifest.Pallets, Pallet{Type: group.palletType})
				open = len(manifest.Pallets) - 1
			}
			pallet := &manifest.Pallets[open]
			fit := unitsThatFit(pallet, spec, item)
			if fit == 0 {
				open = -1
				continue
			}
			if fit > remaining {
				fit = remaining
			}
			pallet.place(item, fit)
			remaining -= fit
		}
	}
	return nil
}

func unitsThatFit(p *Pallet, spec tariffs.PalletSpec, item ShipmentItem) int {
	const eps = 1e-9
	byWeight := math.Floor((spec.MaxWeightKg - p.WeightKg + eps) / item.UnitWeightKg)
	byVolume := math.Floor((spec.MaxVolumeM3 - p.VolumeM3 + eps) / item.UnitVolumeM3)
	fit := int(math.Min(byWeight, byVolume))
	if fit < 0 {
		return 0
	}
	return fit
}
