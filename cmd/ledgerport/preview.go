package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ledgerport/ledgerport/internal/transcode"
)

var (
	previewRows   int
	previewHeader bool
)

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Print the first records of a delimited file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		result, err := transcode.Preview(f, previewRows, previewHeader)
		if err != nil {
			return userError(err)
		}

		if len(result.Columns) > 0 {
			fmt.Println(strings.Join(result.Columns, " | "))
		}
		for _, rec := range result.Records {
			fmt.Println(strings.Join(rec, " | "))
		}
		if result.Truncated {
			logger.Info("more records follow", "shown", len(result.Records))
		}
		return nil
	},
}

func init() {
	previewCmd.Flags().IntVar(&previewRows, "rows", 10, "Maximum records to print")
	previewCmd.Flags().BoolVar(&previewHeader, "header", false, "Treat the first record as column names")
	rootCmd.AddCommand(previewCmd)
}
