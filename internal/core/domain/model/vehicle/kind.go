package vehicle

import (
	"fmt"

	"fleet/internal/pkg/errs"
)

// Kind classifies a vehicle by its body type.
// It is a value object used for fleet filtering and capacity planning.
type Kind int

const (
	// KindUnknown represents an invalid or undefined kind.
	// This value (0) helps catch uninitialized Kind values.
	KindUnknown Kind = iota

	// KindCar is a passenger car used for small shipments.
	KindCar

	// KindVan is a light commercial van.
	KindVan

	// KindTruck is a heavy goods vehicle.
	KindTruck

	// KindMotorcycle is a two-wheeler used for urgent small parcels.
	KindMotorcycle
)

func getKindStrings() map[Kind]string {
	return map[Kind]string{
		KindUnknown:    "unknown",
		KindCar:        "car",
		KindVan:        "van",
		KindTruck:      "truck",
		KindMotorcycle: "motorcycle",
	}
}

func getValidKindStrings() map[Kind]string {
	//nolint:exhaustive // KindUnknown is intentionally excluded as it's invalid
	return map[Kind]string{
		KindCar:        "car",
		KindVan:        "van",
		KindTruck:      "truck",
		KindMotorcycle: "motorcycle",
	}
}

// KindFromString parses a kind name as carried on the wire and in storage.
//
// Valid names are "car", "van", "truck" and "motorcycle". Any other value
// results in a ValueIsInvalidError.
func KindFromString(value string) (Kind, error) {
	for kind, name := range getValidKindStrings() {
		if name == value {
			return kind, nil
		}
	}
	return KindUnknown, errs.NewValueIsInvalidErrorWithCause("vehicle kind",
		fmt.Errorf("%q is not a valid vehicle kind", value))
}

// Validate checks if the Kind value is valid.
// Valid kinds are: KindCar, KindVan, KindTruck, KindMotorcycle.
func (k Kind) Validate() error {
	if _, ok := getValidKindStrings()[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("vehicle kind",
			fmt.Errorf("%d is not a valid vehicle kind", k))
	}
	return nil
}

// String returns the lowercase name of the kind as used on the wire.
// This method implements the fmt.Stringer interface and is safe
// to call on any Kind value, including invalid ones.
func (k Kind) String() string {
	if str, ok := getKindStrings()[k]; ok {
		return str
	}
	return "unknown"
}
