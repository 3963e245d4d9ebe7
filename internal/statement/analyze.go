package statement

import "github.com/shopspring/decimal"

// Ratio categories, in report order.
const (
	CategoryLiquidity     = "liquidity"
	CategoryLeverage      = "leverage"
	CategoryProfitability = "profitability"
	CategoryEfficiency    = "efficiency"
)

// Ratio is one computed metric series, one point per period. Points whose
// inputs are missing or whose denominator is zero are null.
type Ratio struct {
	Key      string                `json:"key"`
	Label    string                `json:"label"`
	Category string                `json:"category"`
	Values   []decimal.NullDecimal `json:"values"`
}

// Latest returns the ratio's last defined state.
func (r Ratio) Latest() decimal.NullDecimal {
	if len(r.Values) == 0 {
		return decimal.NullDecimal{}
	}
	return r.Values[len(r.Values)-1]
}

// Analyzer computes the standard ratio grid over a mapped income
// statement and balance sheet. Either statement may be nil; ratios whose
// inputs live on the missing side come out all-null.
type Analyzer struct {
	Income  *Statement
	Balance *Statement
}

// Periods returns the period labels the grid is computed over: the
// shorter of the two statements' period lists.
func (a Analyzer) Periods() []string {
	ip, bp := stPeriods(a.Income), stPeriods(a.Balance)
	switch {
	case ip == nil:
		return bp
	case bp == nil:
		return ip
	case len(bp) < len(ip):
		return bp
	default:
		return ip
	}
}

func stPeriods(st *Statement) []string {
	if st == nil {
		return nil
	}
	return st.Periods
}

// ratioSpec wires one grid entry to its inputs. numerator and denominator
// pull a point for period i, reporting ok=false when the input is absent.
type ratioSpec struct {
	key, label, category string
	numerator            func(a Analyzer, i int) (decimal.Decimal, bool)
	denominator          func(a Analyzer, i int) (decimal.Decimal, bool)
}

func at(st *Statement, key string, i int) (decimal.Decimal, bool) {
	if st == nil {
		return decimal.Decimal{}, false
	}
	series := st.Values[key]
	if i >= len(series) || !series[i].Valid {
		return decimal.Decimal{}, false
	}
	return series[i].Decimal, true
}

func income(key string) func(Analyzer, int) (decimal.Decimal, bool) {
	return func(a Analyzer, i int) (decimal.Decimal, bool) { return at(a.Income, key, i) }
}

func balance(key string) func(Analyzer, int) (decimal.Decimal, bool) {
	return func(a Analyzer, i int) (decimal.Decimal, bool) { return at(a.Balance, key, i) }
}

// grossProfit prefers the reported line and falls back to revenue less
// cost of goods sold.
func grossProfit(a Analyzer, i int) (decimal.Decimal, bool) {
	if gp, ok := at(a.Income, "gross_profit", i); ok {
		return gp, true
	}
	rev, ok1 := at(a.Income, "revenue", i)
	cogs, ok2 := at(a.Income, "cost_of_goods_sold", i)
	if !ok1 || !ok2 {
		return decimal.Decimal{}, false
	}
	return rev.Sub(cogs), true
}

// quickAssets is current assets net of inventory; a sheet without an
// inventory line treats it as zero.
func quickAssets(a Analyzer, i int) (decimal.Decimal, bool) {
	ca, ok := at(a.Balance, "current_assets", i)
	if !ok {
		return decimal.Decimal{}, false
	}
	if inv, ok := at(a.Balance, "inventory", i); ok {
		ca = ca.Sub(inv)
	}
	return ca, true
}

var ratioGrid = []ratioSpec{
	{"current_ratio", "Current Ratio", CategoryLiquidity,
		balance("current_assets"), balance("current_liabilities")},
	{"quick_ratio", "Quick Ratio", CategoryLiquidity,
		quickAssets, balance("current_liabilities")},
	{"debt_to_equity", "Debt to Equity", CategoryLeverage,
		balance("total_liabilities"), balance("shareholders_equity")},
	{"gross_margin", "Gross Margin", CategoryProfitability,
		grossProfit, income("revenue")},
	{"operating_margin", "Operating Margin", CategoryProfitability,
		income("operating_income"), income("revenue")},
	{"net_margin", "Net Margin", CategoryProfitability,
		income("net_income"), income("revenue")},
	{"return_on_assets", "Return on Assets", CategoryProfitability,
		income("net_income"), balance("total_assets")},
	{"return_on_equity", "Return on Equity", CategoryProfitability,
		income("net_income"), balance("shareholders_equity")},
	{"inventory_turnover", "Inventory Turnover", CategoryEfficiency,
		income("cost_of_goods_sold"), balance("inventory")},
	{"asset_turnover", "Asset Turnover", CategoryEfficiency,
		income("revenue"), balance("total_assets")},
}

// Ratios computes the full grid, one value per period per ratio.
func (a Analyzer) Ratios() []Ratio {
	periods := len(a.Periods())
	out := make([]Ratio, 0, len(ratioGrid))

	for _, spec := range ratioGrid {
		r := Ratio{
			Key:      spec.key,
			Label:    spec.label,
			Category: spec.category,
			Values:   make([]decimal.NullDecimal, periods),
		}
		for i := 0; i < periods; i++ {
			num, ok1 := spec.numerator(a, i)
			den, ok2 := spec.denominator(a, i)
			if !ok1 || !ok2 || den.IsZero() {
				continue
			}
			r.Values[i] = decimal.NullDecimal{Decimal: num.Div(den), Valid: true}
		}
		out = append(out, r)
	}
	return out
}
