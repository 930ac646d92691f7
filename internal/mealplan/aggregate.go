package mealplan

// SumMacros computes the element-wise macro total across items. An empty
// input yields all-zero totals.
//
// Day totals are always recomputed from the full item set and stored, never
// adjusted by deltas: after any mutation to a day's meals/snacks the caller
// re-reads the items and calls this with the fresh set, which keeps totals
// correct even when mutations interleave.
func SumMacros(items []PlanItem) Macros {
	var totals Macros
	for _, it := range items {
		totals.Calories += it.Macros.Calories
		totals.Protein += it.Macros.Protein
		totals.Carbs += it.Macros.Carbs
		totals.Fat += it.Macros.Fat
		totals.Fiber += it.Macros.Fiber
	}
	return totals
}
