package domain

// CostKind names a per-unit cost component. Only distance-based cost is
// consumed by the current algorithm; other kinds are carried as extension
// points.
type CostKind string

const CostDistance CostKind = "Distance"

// Cost is one (kind, value) entry of the cost model. Value is the cost per
// kilometer for distance-kind entries.
type Cost struct {
	Kind  CostKind
	Value float64
}

// Constraint is the per-dimension fill policy pair for a calculation.
type Constraint struct {
	Weight FillPolicy
	Volume FillPolicy
}

// CalcOption tunes a single route calculation.
type CalcOption struct {
	Costs            []Cost
	Constraints      Constraint
	SolutionStrategy string // CHEAPEST, SAVINGS or SWEEP; reorders the strategy ladder
}

// DefaultCalcOption mirrors the recommended-fill defaults used when a
// request carries no options.
func DefaultCalcOption() CalcOption {
	return CalcOption{
		Constraints: Constraint{
			Weight: FillRecommended,
			Volume: FillRecommended,
		},
	}
}
