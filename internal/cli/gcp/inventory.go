package gcp

import (
	"fmt"
	"log/slog"

	"cloud.google.com/go/storage"
	"github.com/spf13/cobra"
	"google.golang.org/api/compute/v1"

	"github.com/cloudbooter/cloudbooter/internal/config"
	"github.com/cloudbooter/cloudbooter/internal/gcp/inventory"
)

func init() {
	defaults := config.LoadGCP()

	inventoryCmd.Flags().String("project", defaults.ProjectID, "GCP project ID")
	inventoryCmd.Flags().String("region", defaults.Region, "GCP region")

	rootCmd.AddCommand(inventoryCmd)
}

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Show existing GCP resources in the project",
	RunE: func(cmd *cobra.Command, _ []string) error {
		project, _ := cmd.Flags().GetString("project")
		region, _ := cmd.Flags().GetString("region")
		if project == "" {
			return fmt.Errorf("GCP_PROJECT_ID or --project is required")
		}

		logger := slog.Default()
		fmt.Fprintf(cmd.OutOrStdout(), "Fetching inventory for project=%s region=%s\n", project, region)

		// The API clients are fallbacks for when gcloud is missing;
		// failing to build them only disables that fallback.
		var opts []inventory.Option
		if svc, err := compute.NewService(cmd.Context()); err == nil {
			opts = append(opts, inventory.WithComputeService(svc))
		} else {
			logger.Debug("compute API client unavailable", "error", err)
		}
		if client, err := storage.NewClient(cmd.Context()); err == nil {
			opts = append(opts, inventory.WithStorageClient(client))
		} else {
			logger.Debug("storage API client unavailable", "error", err)
		}

		builder := inventory.NewBuilder(project, region, logger, opts...)
		inv := builder.Build(cmd.Context())
		inv.WriteDashboard(cmd.OutOrStdout(), project, region)
		return nil
	},
}
