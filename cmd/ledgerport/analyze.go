package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ledgerport/ledgerport/internal/statement"
	"github.com/ledgerport/ledgerport/internal/table"
	"github.com/ledgerport/ledgerport/internal/transcode"
)

var (
	analyzeIncome   string
	analyzeBalance  string
	analyzeMarkdown bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze --income <file> [--balance <file>]",
	Short: "Compute the standard ratio grid from statement files",
	Long: `Map statement CSVs onto the built-in layouts and compute the ratio
grid. Files need a header row naming the line items, with the first column
holding period labels. Ratios whose inputs are missing print as n/a.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if analyzeIncome == "" && analyzeBalance == "" {
			return fmt.Errorf("at least one of --income or --balance is required")
		}

		var analyzer statement.Analyzer

		if analyzeIncome != "" {
			st, err := loadStatementFile("income_statement", analyzeIncome)
			if err != nil {
				return err
			}
			analyzer.Income = st
		}
		if analyzeBalance != "" {
			st, err := loadStatementFile("balance_sheet", analyzeBalance)
			if err != nil {
				return err
			}
			analyzer.Balance = st
		}

		if analyzeMarkdown {
			fmt.Print(analyzer.Report())
			return nil
		}

		printGrid(analyzer)
		return nil
	},
}

var templateCmd = &cobra.Command{
	Use:   "template <statement>",
	Short: "Write a header-only CSV for a registered statement layout",
	Long: `Print the column header line for a statement layout so the file can be
filled in and imported. Run without arguments to list the layouts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			for _, def := range statement.All() {
				fmt.Printf("%s\t%s\n", def.Key, def.Label)
			}
			return nil
		}

		def, ok := statement.Get(args[0])
		if !ok {
			return fmt.Errorf("unknown statement layout %q", args[0])
		}
		return statement.WriteTemplate(def, os.Stdout)
	},
}

// loadStatementFile parses a CSV with a header row and maps it onto the
// named layout.
func loadStatementFile(defKey, path string) (*statement.Statement, error) {
	def, ok := statement.Get(defKey)
	if !ok {
		return nil, fmt.Errorf("unknown statement layout %q", defKey)
	}

	tbl := table.New()
	if _, err := transcode.ImportFile(context.Background(), path, tbl, transcode.ImportOptions{Header: true}); err != nil {
		return nil, userError(err)
	}
	tbl.DropEmptyRows()

	st, err := statement.FromTable(def, tbl)
	if err != nil {
		return nil, err
	}
	logger.Info("mapped statement", "layout", def.Key, "file", path, "periods", len(st.Periods))
	return st, nil
}

// printGrid writes the ratio grid as aligned plain text, one ratio per
// line with a value per period.
func printGrid(a statement.Analyzer) {
	periods := a.Periods()
	fmt.Printf("%-22s %s\n", "Ratio", strings.Join(periods, "  "))

	for _, r := range a.Ratios() {
		values := make([]string, len(r.Values))
		for i, v := range r.Values {
			if v.Valid {
				values[i] = v.Decimal.Round(4).String()
			} else {
				values[i] = "n/a"
			}
		}
		fmt.Printf("%-22s %s\n", r.Label, strings.Join(values, "  "))
	}
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeIncome, "income", "", "Income statement CSV")
	analyzeCmd.Flags().StringVar(&analyzeBalance, "balance", "", "Balance sheet CSV")
	analyzeCmd.Flags().BoolVar(&analyzeMarkdown, "markdown", false, "Print the full markdown report")
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(templateCmd)
}
