package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

//go:embed templates/outlierscan.yaml
var profileTemplate embed.FS

// profileFileName is the default profile file name.
const profileFileName = ".outlierscan"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new outlierscan profile file",
		Long: `Initialize creates a new .outlierscan profile file in the current directory.

The generated file includes:
- Default settings for the IQR multiplier and missing-value tokens
- Commented examples for dataset-specific settings
- Documentation for all available options

Examples:
  # Create .outlierscan in current directory
  outlierscan init

  # Create profile file at a specific path
  outlierscan init -o myprofile.yaml

  # Force overwrite existing file
  outlierscan init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", profileFileName,
		"Output file path for the profile")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing profile file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("profile file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	// Read template from embedded filesystem
	content, err := profileTemplate.ReadFile("templates/outlierscan.yaml")
	if err != nil {
		return fmt.Errorf("failed to read profile template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write profile file: %w", err)
	}

	fmt.Printf("Created profile file: %s\n", outputPath)
	fmt.Println("\nEdit this file to configure dataset-specific settings such as:")
	fmt.Println("  - Field separator and character encoding per file")
	fmt.Println("  - IQR multiplier and missing-value tokens")
	fmt.Println("  - Columns to include or exclude from analysis")

	return nil
}
