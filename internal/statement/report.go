package statement

import (
	"fmt"
	"strings"

	"github.com/ledgerport/ledgerport/internal/finance"
	"github.com/shopspring/decimal"
)

const ratioDisplayPlaces = 4

var reportCategories = []struct {
	key   string
	title string
}{
	{CategoryLiquidity, "Liquidity"},
	{CategoryLeverage, "Leverage"},
	{CategoryProfitability, "Profitability"},
	{CategoryEfficiency, "Efficiency"},
}

// Report renders the analyzer's grid as a markdown document: the latest
// period's ratios grouped by category with period-over-period change,
// followed by derived metrics over the income statement.
func (a Analyzer) Report() string {
	var b strings.Builder

	periods := a.Periods()
	b.WriteString("# Financial Analysis\n\n")
	if len(periods) == 0 {
		b.WriteString("No periods to analyze.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Latest period: %s (%d periods analyzed)\n", periods[len(periods)-1], len(periods))

	ratios := a.Ratios()
	for _, cat := range reportCategories {
		var rows []Ratio
		for _, r := range ratios {
			if r.Category == cat.key {
				rows = append(rows, r)
			}
		}
		if len(rows) == 0 {
			continue
		}

		fmt.Fprintf(&b, "\n## %s\n\n", cat.title)
		b.WriteString("| Ratio | Value | Change |\n")
		b.WriteString("|---|---|---|\n")
		for _, r := range rows {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", r.Label, formatPoint(r.Latest()), formatChange(r.Values))
		}
	}

	a.writeDerived(&b)
	return b.String()
}

// writeDerived appends the derived-metrics section: revenue growth,
// net-margin trend, and a 3-period moving average of revenue.
func (a Analyzer) writeDerived(b *strings.Builder) {
	if a.Income == nil {
		return
	}
	revenue, ok := denseSeries(a.Income.Series("revenue"))
	if !ok {
		return
	}

	b.WriteString("\n## Derived Metrics\n\n")

	growth := finance.PctChange(revenue)
	fmt.Fprintf(b, "- Revenue growth (latest): %s\n", formatPercent(last(growth)))

	netMargin := marginSeries(a.Ratios(), "net_margin")
	fmt.Fprintf(b, "- Net margin trend: %s\n", describeTrend(netMargin))

	avg := finance.MovingAverage(revenue, 3)
	fmt.Fprintf(b, "- Revenue, 3-period moving average: %s\n", formatPoint(last(avg)))
}

// denseSeries strips validity from a null series, failing when any point
// is undefined. Derived metrics need the full history.
func denseSeries(series []decimal.NullDecimal) ([]decimal.Decimal, bool) {
	if len(series) == 0 {
		return nil, false
	}
	out := make([]decimal.Decimal, len(series))
	for i, p := range series {
		if !p.Valid {
			return nil, false
		}
		out[i] = p.Decimal
	}
	return out, true
}

func marginSeries(ratios []Ratio, key string) []decimal.NullDecimal {
	for _, r := range ratios {
		if r.Key == key {
			return r.Values
		}
	}
	return nil
}

func describeTrend(series []decimal.NullDecimal) string {
	if len(series) < 2 {
		return "n/a"
	}
	prev, curr := series[len(series)-2], series[len(series)-1]
	if !prev.Valid || !curr.Valid {
		return "n/a"
	}
	switch curr.Decimal.Cmp(prev.Decimal) {
	case 1:
		return fmt.Sprintf("improving (%s -> %s)", formatDecimal(prev.Decimal), formatDecimal(curr.Decimal))
	case -1:
		return fmt.Sprintf("declining (%s -> %s)", formatDecimal(prev.Decimal), formatDecimal(curr.Decimal))
	default:
		return fmt.Sprintf("flat (%s)", formatDecimal(curr.Decimal))
	}
}

func last(series []decimal.NullDecimal) decimal.NullDecimal {
	if len(series) == 0 {
		return decimal.NullDecimal{}
	}
	return series[len(series)-1]
}

func formatPoint(p decimal.NullDecimal) string {
	if !p.Valid {
		return "n/a"
	}
	return formatDecimal(p.Decimal)
}

func formatDecimal(d decimal.Decimal) string {
	return d.Round(ratioDisplayPlaces).String()
}

func formatPercent(p decimal.NullDecimal) string {
	if !p.Valid {
		return "n/a"
	}
	return p.Decimal.Mul(decimal.NewFromInt(100)).Round(2).String() + "%"
}

// formatChange renders the latest period-over-period delta of a series.
func formatChange(series []decimal.NullDecimal) string {
	if len(series) < 2 {
		return "n/a"
	}
	prev, curr := series[len(series)-2], series[len(series)-1]
	if !prev.Valid || !curr.Valid {
		return "n/a"
	}
	delta := curr.Decimal.Sub(prev.Decimal)
	s := delta.Round(ratioDisplayPlaces).String()
	if delta.Sign() > 0 {
		s = "+" + s
	}
	return s
}
