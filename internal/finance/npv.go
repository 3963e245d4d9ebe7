// Package finance implements the discounted-cash-flow arithmetic used by
// the analysis endpoints and the CLI: net present value, internal rate of
// return, and a few derived-metric helpers over decimal series.
package finance

import "math"

// NPV returns the net present value of flows at the given per-period
// discount rate. The first element of flows is one period out; there is
// no period-zero entry, so an initial outflow belongs to the caller:
//
//	npv := finance.NPV(rate, future) - initialOutlay
//
// An empty sequence is worth zero.
func NPV(rate float64, flows []float64) float64 {
	var total float64
	for i, c := range flows {
		total += c / math.Pow(1+rate, float64(i+1))
	}
	return total
}
