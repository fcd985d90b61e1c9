package gcp

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudbooter/cloudbooter/internal/config"
	"github.com/cloudbooter/cloudbooter/internal/gcp/freetier"
	"github.com/cloudbooter/cloudbooter/internal/quota"
)

func init() {
	defaults := config.LoadGCP()

	validateCmd.Flags().String("project", defaults.ProjectID, "GCP project ID")
	validateCmd.Flags().String("region", defaults.Region, "GCP region")
	validateCmd.Flags().String("machine-type", freetier.Default().FreeMachineType, "Machine type to validate")
	validateCmd.Flags().Int("disk-size", defaults.BootDiskSizeGB, "Boot disk size in GB")
	validateCmd.Flags().String("storage-region", "", "Cloud Storage region (checked when set)")
	validateCmd.Flags().Bool("allow-paid", defaults.AllowPaidResources, "Allow resources outside the free tier")

	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a proposed config against free-tier limits",
	RunE: func(cmd *cobra.Command, _ []string) error {
		machineType, _ := cmd.Flags().GetString("machine-type")
		region, _ := cmd.Flags().GetString("region")
		diskSize, _ := cmd.Flags().GetInt("disk-size")
		storageRegion, _ := cmd.Flags().GetString("storage-region")
		allowPaid, _ := cmd.Flags().GetBool("allow-paid")

		violations := freetier.Validate(freetier.ProposedConfig{
			MachineType:        machineType,
			Region:             region,
			BootDiskSizeGB:     diskSize,
			StorageRegion:      storageRegion,
			AllowPaidResources: allowPaid,
		})
		if len(violations) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Config is within GCP Always Free limits.")
			return nil
		}
		for _, v := range violations {
			fmt.Fprintln(cmd.OutOrStdout(), v)
		}
		if len(quota.Blocking(violations)) > 0 {
			return fmt.Errorf("configuration exceeds Always Free limits")
		}
		return nil
	},
}
