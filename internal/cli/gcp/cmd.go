// Package gcp implements the cloudbooter-gcp command tree: deploy,
// validate, inventory, doctor. Flag defaults come from the environment
// so the commands behave the same in CI and interactively.
package gcp

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "cloudbooter-gcp",
	Short:   "Provision GCP Always Free infrastructure with Terraform",
	Long:    `Generates free-tier-safe Terraform for a single e2-micro instance, validates proposed configurations against the Always Free limits, and inventories what already exists in a project.`,
	Version: "0.1.0",
}

// New returns the root command for the GCP CLI
func New() *cobra.Command {
	return rootCmd
}
