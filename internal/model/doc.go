// Package model defines the core data structures for outlierscan.
// It contains the tabular Dataset consumed by the detector and the
// Report/OutlierRecord structures produced by it.
package model
