// Package main provides the entry point for the outlierscan CLI.
//
// outlierscan detects statistical outliers in tabular numeric data using
// the interquartile-range (IQR) method and reports them per column.
//
// Usage:
//
//	outlierscan detect <data-file>
//	outlierscan detect --multiplier 3.0 --sep ';' <data-file>
//
// See --help for all available options.
package main

// main is the entry point for outlierscan.
func main() {
	Execute()
}
