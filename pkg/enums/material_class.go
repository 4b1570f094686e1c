package enums

import "fmt"

// MaterialClass groups slab items by material family. Pallet compatibility
// and mixing eligibility are keyed on this class in the tariff set.
type MaterialClass string

const (
	MaterialCeramic   MaterialClass = "ceramic"
	MaterialPorcelain MaterialClass = "porcelain"
	MaterialMarble    MaterialClass = "marble"
	MaterialGranite   MaterialClass = "granite"
	MaterialQuartz    MaterialClass = "quartz"
)

var validMaterialClasses = []MaterialClass{
	MaterialCeramic,
	MaterialPorcelain,
	MaterialMarble,
	MaterialGranite,
	MaterialQuartz,
}

// String implements fmt.Stringer.
func (m MaterialClass) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MaterialClass.
func (m MaterialClass) IsValid() bool {
	for _, candidate := range validMaterialClasses {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMaterialClass converts raw input into a MaterialClass.
func ParseMaterialClass(value string) (MaterialClass, error) {
	for _, candidate := range validMaterialClasses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid material class %q", value)
}
