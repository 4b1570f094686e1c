package allocation

import "github.com/johnkommas/corgres/pkg/enums"

// Assignment records how many units of one item ride on a pallet.
type Assignment struct {
	ItemID   string
	Material enums.MaterialClass
	Quantity int
}

// Pallet is one allocated pallet with its running load totals. Weight
// and volume cover goods only; tare weight is a tariff concern applied
// downstream when chargeable weight is computed.
type Pallet struct {
	Type        enums.PalletType
	Assignments []Assignment
	WeightKg    float64
	VolumeM3    float64
}

// Mixed reports whether the pallet carries more than one material class.
func (p Pallet) Mixed() bool {
	seen := map[enums.MaterialClass]bool{}
	for _, a := range p.Assignments {
		seen[a.Material] = true
	}
	return len(seen) > 1
}

func (p *Pallet) place(item ShipmentItem, qty int) {
	for i := range p.Assignments {
		if p.Assignments[i].ItemID == item.ID {
			p.Assignments[i].Quantity += qty
			p.WeightKg += float64(qty) * item.UnitWeightKg
			p.VolumeM3 += float64(qty) * item.UnitVolumeM3
			return
		}
	}
	p.Assignments = append(p.Assignments, Assignment{
		ItemID:   item.ID,
		Material: item.Material,
		Quantity: qty,
	})
	p.WeightKg += float64(qty) * item.UnitWeightKg
	p.VolumeM3 += float64(qty) * item.UnitVolumeM3
}

// Manifest is the ordered result of an allocation run.
type Manifest struct {
	Pallets []Pallet
}

// Count returns the total pallet count.
func (m *Manifest) Count() int {
	return len(m.Pallets)
}

// CountByType returns pallet counts keyed by pallet type.
func (m *Manifest) CountByType() map[enums.PalletType]int {
	out := map[enums.PalletType]int{}
	for _, p := range m.Pallets {
		out[p.Type]++
	}
	return out
}

// GoodsWeightKg sums the goods weight across all pallets.
func (m *Manifest) GoodsWeightKg() float64 {
	var total float64
	for _, p := range m.Pallets {
		total += p.WeightKg
	}
	return total
}

// AssignedQuantity sums the units of one item across all pallets.
func (m *Manifest) AssignedQuantity(itemID string) int {
	var total int
	for _, p := range m.Pallets {
		for _, a := range p.Assignments {
			if a.ItemID == itemID {
				total += a.Quantity
			}
		}
	}
	return total
}
