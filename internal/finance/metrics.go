package finance

import "github.com/shopspring/decimal"

// undefined is the null point used where a metric has no value.
func undefined() decimal.NullDecimal {
	return decimal.NullDecimal{}
}

func defined(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// PctChange returns the period-over-period growth of series:
// (v_i - v_{i-1}) / v_{i-1}. The first point is undefined, as is any
// point whose prior value is zero.
func PctChange(series []decimal.Decimal) []decimal.NullDecimal {
	out := make([]decimal.NullDecimal, len(series))
	for i := range series {
		if i == 0 || series[i-1].IsZero() {
			out[i] = undefined()
			continue
		}
		out[i] = defined(series[i].Sub(series[i-1]).Div(series[i-1]))
	}
	return out
}

// Ratio divides numerator by denominator pointwise, undefined where the
// denominator is zero. The result is as long as the shorter slice; extra
// points in either are ignored.
func Ratio(numerator, denominator []decimal.Decimal) []decimal.NullDecimal {
	n := len(numerator)
	if len(denominator) < n {
		n = len(denominator)
	}
	out := make([]decimal.NullDecimal, n)
	for i := 0; i < n; i++ {
		if denominator[i].IsZero() {
			out[i] = undefined()
			continue
		}
		out[i] = defined(numerator[i].Div(denominator[i]))
	}
	return out
}

// MovingAverage returns the trailing mean of series over the given
// window. Points before the window fills are undefined. A window below 1
// yields all-undefined output.
func MovingAverage(series []decimal.Decimal, window int) []decimal.NullDecimal {
	out := make([]decimal.NullDecimal, len(series))
	if window < 1 {
		return out
	}

	size := decimal.NewFromInt(int64(window))
	var sum decimal.Decimal
	for i, v := range series {
		sum = sum.Add(v)
		if i >= window {
			sum = sum.Sub(series[i-window])
		}
		if i >= window-1 {
			out[i] = defined(sum.Div(size))
		}
	}
	return out
}
