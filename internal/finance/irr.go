package finance

import (
	"fmt"
	"math"
)

const (
	irrTolerance     = 1e-9
	irrMaxIterations = 100
	irrInitialGuess  = 0.10
)

// ConvergenceFailure reports that the IRR search did not settle on a root
// within its iteration budget, either because the cash flows admit no
// sign change or because the iteration diverged.
type ConvergenceFailure struct {
	Iterations int
}

func (e *ConvergenceFailure) Error() string {
	return fmt.Sprintf("finance: irr did not converge after %d iterations", e.Iterations)
}

// IRR returns the internal rate of return of flows: the rate r at which
// the present value of the whole series, flows[0] included at period
// zero, is zero. flows[0] is conventionally the negative initial outlay.
//
// The solver runs Newton iteration from a 10% guess and falls back to
// bisection over an expanding bracket when Newton stalls or walks out of
// the valid domain. Failure to converge within the iteration budget
// returns a *ConvergenceFailure.
func IRR(flows []float64) (float64, error) {
	if !hasSignChange(flows) {
		return 0, &ConvergenceFailure{Iterations: 0}
	}

	if r, ok := irrNewton(flows); ok {
		return r, nil
	}
	return irrBisect(flows)
}

// IRROK is the boolean adapter for callers that only need a success flag.
func IRROK(flows []float64) (float64, bool) {
	r, err := IRR(flows)
	return r, err == nil
}

func hasSignChange(flows []float64) bool {
	pos, neg := false, false
	for _, c := range flows {
		if c > 0 {
			pos = true
		}
		if c < 0 {
			neg = true
		}
	}
	return pos && neg
}

// presentValue discounts the whole series, flows[0] at period zero.
func presentValue(rate float64, flows []float64) float64 {
	var total float64
	for i, c := range flows {
		total += c / math.Pow(1+rate, float64(i))
	}
	return total
}

// derivative of presentValue with respect to the rate.
func presentValueSlope(rate float64, flows []float64) float64 {
	var total float64
	for i, c := range flows {
		if i == 0 {
			continue
		}
		total -= float64(i) * c / math.Pow(1+rate, float64(i+1))
	}
	return total
}

func irrNewton(flows []float64) (float64, bool) {
	r := irrInitialGuess
	for i := 0; i < irrMaxIterations; i++ {
		v := presentValue(r, flows)
		if math.Abs(v) < irrTolerance {
			return r, true
		}
		slope := presentValueSlope(r, flows)
		if slope == 0 || math.IsNaN(slope) || math.IsInf(slope, 0) {
			return 0, false
		}
		next := r - v/slope
		// Rates at or below -100% leave the valid domain.
		if next <= -1 || math.IsNaN(next) || math.IsInf(next, 0) {
			return 0, false
		}
		if math.Abs(next-r) < irrTolerance {
			return next, true
		}
		r = next
	}
	return 0, false
}

// irrBisect brackets a sign change by expanding outward from a small
// interval, then halves it down to tolerance.
func irrBisect(flows []float64) (float64, error) {
	lo, hi := -0.9999, 1.0
	iterations := 0

	// Expand the upper bound until the endpoint values straddle zero.
	for presentValue(lo, flows)*presentValue(hi, flows) > 0 {
		hi *= 2
		iterations++
		if iterations >= irrMaxIterations {
			return 0, &ConvergenceFailure{Iterations: iterations}
		}
	}

	for i := 0; i < irrMaxIterations; i++ {
		mid := (lo + hi) / 2
		v := presentValue(mid, flows)
		if math.Abs(v) < irrTolerance || (hi-lo)/2 < irrTolerance {
			return mid, nil
		}
		if presentValue(lo, flows)*v < 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return 0, &ConvergenceFailure{Iterations: irrMaxIterations}
}
