// Package config provides configuration structures and utilities for
// outlierscan. It defines the detection run options populated from CLI
// flags, the optional YAML profile file with per-dataset settings, and the
// XDG directory helpers.
package config
