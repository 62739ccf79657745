// Package main provides the entry point for the outlierscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for outlierscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outlierscan",
		Short: "Detect statistical outliers in tabular data with the IQR method",
		Long: `outlierscan detects statistical outliers in tabular numeric data.

It loads a delimited file (CSV/TSV) or an Excel workbook, classifies each
column as numeric or text, and flags values outside the interquartile-range
bounds per numeric column. Results can be printed to the terminal or written
as CSV, JSON, or Markdown, and every run is saved for later comparison.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging and full index lists")

	// Add subcommands
	cmd.AddCommand(NewDetectCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
