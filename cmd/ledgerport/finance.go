package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ledgerport/ledgerport/internal/finance"
)

var npvRate float64

var npvCmd = &cobra.Command{
	Use:   "npv --rate <rate> <flows...>",
	Short: "Net present value of a cash flow sequence",
	Long: `Discount a sequence of future cash flows at the given rate. The first
flow is one period out; use a leading negative entry with irr for
investments made today.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flows, err := parseFlows(args)
		if err != nil {
			return err
		}

		fmt.Printf("%.6f\n", finance.NPV(npvRate, flows))
		return nil
	},
}

var irrCmd = &cobra.Command{
	Use:   "irr <flows...>",
	Short: "Internal rate of return of a cash flow sequence",
	Long: `Solve for the discount rate at which the flows' present value is zero.
The first flow is the initial outlay at period zero, conventionally
negative. Fails when the sign pattern admits no root.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		flows, err := parseFlows(args)
		if err != nil {
			return err
		}

		rate, err := finance.IRR(flows)
		if err != nil {
			return userError(err)
		}

		fmt.Printf("%.6f\n", rate)
		return nil
	},
}

func parseFlows(args []string) ([]float64, error) {
	flows := make([]float64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("flow %q is not a number", arg)
		}
		flows[i] = v
	}
	return flows, nil
}

func init() {
	npvCmd.Flags().Float64Var(&npvRate, "rate", 0, "Discount rate per period (e.g. 0.08)")
	npvCmd.MarkFlagRequired("rate")
	rootCmd.AddCommand(npvCmd)
	rootCmd.AddCommand(irrCmd)
}
