package gcp

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cloudbooter/cloudbooter/internal/gcp/auth"
	"github.com/cloudbooter/cloudbooter/internal/installer"
)

func init() {
	doctorCmd.Flags().Bool("install", false, "Attempt to install missing tools")

	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check for gcloud and terraform, optionally installing them",
	RunE: func(cmd *cobra.Command, _ []string) error {
		install, _ := cmd.Flags().GetBool("install")
		inst := installer.New(slog.Default())

		if install {
			mode := inst.EnsureGcloud(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "GCP_MODE=%s\n", mode)
			if err := inst.EnsureTerraform(cmd.Context()); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
			}
		}

		installer.WriteDoctorReport(cmd.OutOrStdout(), inst.Doctor())

		pattern := auth.NewDetector().Detect(cmd.Context())
		fmt.Fprintf(cmd.OutOrStdout(), "Credentials: %s\n", auth.Describe(pattern))
		return nil
	},
}
