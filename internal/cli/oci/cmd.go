// Package oci implements the cloudbooter-oci command: a single workflow
// that inventories the tenancy, plans a free-tier configuration, renders
// Terraform, and optionally applies it with out-of-capacity retries.
package oci

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cloudbooter/cloudbooter/internal/config"
)

var rootCmd = &cobra.Command{
	Use:     "cloudbooter-oci",
	Short:   "Provision OCI Always Free infrastructure with Terraform",
	Long:    `Inventories the tenancy, plans AMD micro and ARM flexible instances inside the Always Free allocation, renders Terraform, and optionally applies it, retrying on out-of-capacity errors.`,
	Version: "0.1.0",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := ociConfigFromFlags(cmd)
		if err := cfg.Validate(); err != nil {
			return err
		}
		workflow := NewWorkflow(cfg, slog.Default(), cmd.InOrStdin(), cmd.OutOrStdout())
		return workflow.Run(cmd.Context())
	},
}

func init() {
	defaults := config.LoadOCI()

	rootCmd.Flags().String("profile", defaults.Profile, "OCI config profile")
	rootCmd.Flags().String("config-file", defaults.ConfigFile, "OCI config file path")
	rootCmd.Flags().String("auth-mode", defaults.AuthMode, "Auth mode: api_key, instance_principal, resource_principal, security_token")
	rootCmd.Flags().Bool("non-interactive", defaults.NonInteractive, "Never prompt; plan from existing resources")
	rootCmd.Flags().Bool("auto-use-existing", defaults.AutoUseExisting, "Skip the strategy menu and mirror existing instances")
	rootCmd.Flags().Bool("auto-deploy", defaults.AutoDeploy, "Run terraform after generating files")
	rootCmd.Flags().String("terraform-dir", defaults.TerraformDir, "Directory to write .tf files into")
	rootCmd.Flags().String("tenancy-ocid", defaults.TenancyOCID, "Tenancy OCID override")
	rootCmd.Flags().String("region", defaults.Region, "OCI region override")
	rootCmd.Flags().Bool("strict-provider-parity", defaults.StrictProviderParity, "Render the fixed SecurityToken provider block")
}

func ociConfigFromFlags(cmd *cobra.Command) config.OCI {
	cfg := config.LoadOCI()
	cfg.Profile, _ = cmd.Flags().GetString("profile")
	cfg.ConfigFile, _ = cmd.Flags().GetString("config-file")
	cfg.AuthMode, _ = cmd.Flags().GetString("auth-mode")
	cfg.NonInteractive, _ = cmd.Flags().GetBool("non-interactive")
	cfg.AutoUseExisting, _ = cmd.Flags().GetBool("auto-use-existing")
	cfg.AutoDeploy, _ = cmd.Flags().GetBool("auto-deploy")
	cfg.TerraformDir, _ = cmd.Flags().GetString("terraform-dir")
	cfg.TenancyOCID, _ = cmd.Flags().GetString("tenancy-ocid")
	cfg.Region, _ = cmd.Flags().GetString("region")
	cfg.StrictProviderParity, _ = cmd.Flags().GetBool("strict-provider-parity")
	return cfg
}

// New returns the root command for the OCI CLI
func New() *cobra.Command {
	return rootCmd
}
