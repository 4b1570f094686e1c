package allocation

import "github.com/johnkommas/corgres/pkg/enums"

// ShipmentItem is one cargo line of a quote request. Quantity counts
// packing units; weight, volume and covered area are per unit.
type ShipmentItem struct {
	ID            string
	Description   string
	Material      enums.MaterialClass
	ThicknessMM   float64
	Quantity      int
	UnitWeightKg  float64
	UnitVolumeM3  float64
	AreaM2PerUnit float64
}

// Density orders items for packing: heavier, bulkier units go first.
func (i ShipmentItem) Density() float64 {
	return i.UnitWeightKg * i.UnitVolumeM3
}

// TotalWeightKg is the goods weight of the full line.
func (i ShipmentItem) TotalWeightKg() float64 {
	return float64(i.Quantity) * i.UnitWeightKg
}

// TotalAreaM2 is the covered area of the full line.
func (i ShipmentItem) TotalAreaM2() float64 {
	return float64(i.Quantity) * i.AreaM2PerUnit
}
