package statement

// Built-in statement layouts. Keys follow the reporting team's naming;
// aliases cover the header spellings seen in exports from the usual
// accounting systems.

func init() {
	registerIncomeStatement()
	registerBalanceSheet()
	registerCashFlow()
}

func registerIncomeStatement() {
	Register(Definition{
		Key:   "income_statement",
		Label: "Income Statement",
		Group: "Financial Statements",
		Items: []LineItem{
			{Key: "revenue", Label: "Revenue", Required: true,
				Aliases: []string{"Total Revenue", "Sales", "Net Sales", "Net Revenue"}},
			{Key: "cost_of_goods_sold", Label: "Cost of Goods Sold", Required: true,
				Aliases: []string{"COGS", "Cost of Sales", "Cost of Revenue"}},
			{Key: "gross_profit", Label: "Gross Profit",
				Aliases: []string{"Gross Income"}},
			{Key: "operating_expenses", Label: "Operating Expenses",
				Aliases: []string{"OpEx", "Total Operating Expenses", "SG&A"}},
			{Key: "operating_income", Label: "Operating Income",
				Aliases: []string{"EBIT", "Income from Operations", "Operating Profit"}},
			{Key: "interest_expense", Label: "Interest Expense",
				Aliases: []string{"Interest"}},
			{Key: "tax_expense", Label: "Tax Expense",
				Aliases: []string{"Income Tax", "Income Tax Expense", "Provision for Income Taxes"}},
			{Key: "net_income", Label: "Net Income", Required: true,
				Aliases: []string{"Net Profit", "Net Earnings", "Profit After Tax"}},
		},
	})
}

func registerBalanceSheet() {
	Register(Definition{
		Key:   "balance_sheet",
		Label: "Balance Sheet",
		Group: "Financial Statements",
		Items: []LineItem{
			{Key: "cash", Label: "Cash",
				Aliases: []string{"Cash and Cash Equivalents", "Cash & Equivalents"}},
			{Key: "accounts_receivable", Label: "Accounts Receivable",
				Aliases: []string{"AR", "Receivables", "Trade Receivables"}},
			{Key: "inventory", Label: "Inventory",
				Aliases: []string{"Inventories", "Stock"}},
			{Key: "current_assets", Label: "Current Assets", Required: true,
				Aliases: []string{"Total Current Assets"}},
			{Key: "total_assets", Label: "Total Assets", Required: true},
			{Key: "current_liabilities", Label: "Current Liabilities", Required: true,
				Aliases: []string{"Total Current Liabilities"}},
			{Key: "total_liabilities", Label: "Total Liabilities", Required: true,
				Aliases: []string{"Liabilities"}},
			{Key: "shareholders_equity", Label: "Shareholders Equity", Required: true,
				Aliases: []string{"Shareholders' Equity", "Stockholders Equity", "Total Equity", "Owner's Equity"}},
		},
	})
}

func registerCashFlow() {
	Register(Definition{
		Key:   "cash_flow",
		Label: "Cash Flow Statement",
		Group: "Financial Statements",
		Items: []LineItem{
			{Key: "operating_cash_flow", Label: "Operating Cash Flow", Required: true,
				Aliases: []string{"Cash from Operations", "Net Cash from Operating Activities", "CFO"}},
			{Key: "investing_cash_flow", Label: "Investing Cash Flow",
				Aliases: []string{"Cash from Investing", "Net Cash from Investing Activities"}},
			{Key: "financing_cash_flow", Label: "Financing Cash Flow",
				Aliases: []string{"Cash from Financing", "Net Cash from Financing Activities"}},
			{Key: "capital_expenditures", Label: "Capital Expenditures",
				Aliases: []string{"CapEx", "Purchases of Property and Equipment"}},
			{Key: "net_change_in_cash", Label: "Net Change in Cash",
				Aliases: []string{"Net Increase in Cash", "Change in Cash"}},
		},
	})
}
