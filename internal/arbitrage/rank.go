package arbitrage

import "sort"

// Rank orders results by profit percentage descending. Results without
// external data sort strictly after every numeric result. Ties keep their
// discovery order.
func Rank(results []Result) []Result {
	ranked := make([]Result, len(results))
	copy(ranked, results)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		switch {
		case a.External != nil && b.External == nil:
			return true
		case a.External == nil:
			return false
		default:
			return a.ProfitPercentage > b.ProfitPercentage
		}
	})

	return ranked
}
