package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ledgerport/ledgerport/internal/core"
	"github.com/ledgerport/ledgerport/internal/table"
	"github.com/ledgerport/ledgerport/internal/transcode"
)

var (
	importOut      string
	importHeader   bool
	importStartRow int
	importStartCol int
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Parse a delimited file and report its shape",
	Long: `Parse a delimited file into a table and report rows, columns, and
header names. With --out the parsed table is re-exported, which round-trips
the file through the transcoder.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		dst := table.New()
		result, err := transcode.ImportFile(context.Background(), path, dst, transcode.ImportOptions{
			StartRow: importStartRow,
			StartCol: importStartCol,
			Header:   importHeader,
		})
		if err != nil {
			return userError(err)
		}

		logger.Info("imported", "file", path, "rows", result.Rows, "bytes", result.BytesRead)
		if len(result.Columns) > 0 {
			logger.Info("columns", "names", result.Columns)
		}

		if importOut != "" {
			opts := transcode.ExportOptions{Header: importHeader}
			if err := transcode.ExportFile(dst, importOut, opts); err != nil {
				return userError(err)
			}
			logger.Info("exported", "file", importOut)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importOut, "out", "", "Re-export the parsed table to this path")
	importCmd.Flags().BoolVar(&importHeader, "header", false, "Treat the first record as column names")
	importCmd.Flags().IntVar(&importStartRow, "start-row", 1, "1-based row the first data record lands on")
	importCmd.Flags().IntVar(&importStartCol, "start-col", 1, "1-based column the first field lands on")
	rootCmd.AddCommand(importCmd)
}

// userError collapses a technical error to its user-facing form for
// terminal display.
func userError(err error) error {
	return core.NewUserError(err)
}
