package domain

import "fmt"

// Dimension is a capacity axis tracked along a route.
type Dimension int

const (
	DimWeight Dimension = iota
	DimVolume
)

func (d Dimension) String() string {
	switch d {
	case DimWeight:
		return "weight"
	case DimVolume:
		return "volume"
	}
	return fmt.Sprintf("dimension(%d)", int(d))
}

// FillPolicy selects which vehicle capacity figure bounds a dimension
// during solving.
type FillPolicy string

const (
	FillDisabled    FillPolicy = "disabled"
	FillMinimum     FillPolicy = "minimum"
	FillRecommended FillPolicy = "recommended"
	FillMaximum     FillPolicy = "maximum"
)

func ParseFillPolicy(s string) (FillPolicy, error) {
	switch FillPolicy(s) {
	case FillDisabled, FillMinimum, FillRecommended, FillMaximum:
		return FillPolicy(s), nil
	case "":
		return FillRecommended, nil
	}
	return "", fmt.Errorf("parse fill policy: unknown value %q", s)
}

// Delivery vehicle with three capacity figures per dimension.
// Invariant: minimum <= recommended <= maximum for each dimension.
type Vehicle struct {
	ID   int
	Code string
	Name string

	WeightMin         float64
	WeightRecommended float64
	WeightMax         float64

	VolumeMin         float64
	VolumeRecommended float64
	VolumeMax         float64
}

// CapacityFor resolves the capacity figure governing a dimension under the
// given fill policy. The second return is false when the dimension is
// disabled and must not constrain the routing model.
func (v Vehicle) CapacityFor(dim Dimension, policy FillPolicy) (float64, bool) {
	if policy == FillDisabled {
		return 0, false
	}

	var minimum, recommended, maximum float64
	switch dim {
	case DimWeight:
		minimum, recommended, maximum = v.WeightMin, v.WeightRecommended, v.WeightMax
	case DimVolume:
		minimum, recommended, maximum = v.VolumeMin, v.VolumeRecommended, v.VolumeMax
	}

	switch policy {
	case FillMinimum:
		return minimum, true
	case FillRecommended:
		return recommended, true
	case FillMaximum:
		return maximum, true
	}
	return 0, false
}
