package enums

import "fmt"

// PalletType distinguishes the two incompatible pallet footprints used by
// the slab carriers.
type PalletType string

const (
	PalletTypeEU         PalletType = "eu"
	PalletTypeIndustrial PalletType = "industrial"
)

var validPalletTypes = []PalletType{
	PalletTypeEU,
	PalletTypeIndustrial,
}

// String implements fmt.Stringer.
func (p PalletType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PalletType.
func (p PalletType) IsValid() bool {
	for _, candidate := range validPalletTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePalletType converts raw input into a PalletType.
func ParsePalletType(value string) (PalletType, error) {
	for _, candidate := range validPalletTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pallet type %q", value)
}

// AllPalletTypes returns every known pallet type in a stable order.
func AllPalletTypes() []PalletType {
	out := make([]PalletType, len(validPalletTypes))
	copy(out, validPalletTypes)
	return out
}
