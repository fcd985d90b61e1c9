package gcp

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloudbooter/cloudbooter/internal/config"
	"github.com/cloudbooter/cloudbooter/internal/gcp/auth"
	"github.com/cloudbooter/cloudbooter/internal/gcp/freetier"
	"github.com/cloudbooter/cloudbooter/internal/gcp/render"
	"github.com/cloudbooter/cloudbooter/internal/quota"
	"github.com/cloudbooter/cloudbooter/internal/terraform"
)

func init() {
	defaults := config.LoadGCP()

	deployCmd.Flags().String("project", defaults.ProjectID, "GCP project ID")
	deployCmd.Flags().String("region", defaults.Region, "GCP region")
	deployCmd.Flags().String("zone", defaults.Zone, "GCP zone (auto-selected if empty)")
	deployCmd.Flags().String("instance-name", defaults.InstanceName, "Instance name")
	deployCmd.Flags().Int("disk-size", defaults.BootDiskSizeGB, "Boot disk size in GB")
	deployCmd.Flags().String("ssh-public-key", defaults.SSHPublicKey, "SSH public key string or @path")
	deployCmd.Flags().String("credentials-file", defaults.CredentialsFile, "SA key or WIF credential file")
	deployCmd.Flags().String("impersonate-sa", defaults.ImpersonateServiceAccount, "Service account to impersonate")
	deployCmd.Flags().Bool("allow-paid", defaults.AllowPaidResources, "Allow resources outside the free tier")
	deployCmd.Flags().Bool("auto-deploy", defaults.AutoDeploy, "Run terraform after generating files")
	deployCmd.Flags().Bool("non-interactive", defaults.NonInteractive, "Never prompt")
	deployCmd.Flags().String("output-dir", defaults.OutputDir, "Directory to write .tf files into")

	rootCmd.AddCommand(deployCmd)
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Generate Terraform files and optionally deploy",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := deployConfigFromFlags(cmd)
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger := slog.Default()
		logger.Info("starting deploy run", "run_id", cfg.RunID, "project", cfg.ProjectID, "region", cfg.Region)

		if cfg.CredentialsFile == "" {
			cfg.CredentialsFile = auth.CredentialsFile()
		}
		if cfg.ImpersonateServiceAccount == "" {
			cfg.ImpersonateServiceAccount = auth.ImpersonationTarget()
		}
		pattern := auth.NewDetector().Detect(cmd.Context())
		logger.Info("detected credentials", "pattern", pattern)

		violations := freetier.Validate(freetier.ProposedConfig{
			MachineType:        freetier.Default().FreeMachineType,
			Region:             cfg.Region,
			BootDiskSizeGB:     cfg.BootDiskSizeGB,
			AllowPaidResources: cfg.AllowPaidResources,
		})
		if blocking := quota.Blocking(violations); len(blocking) > 0 {
			for _, v := range blocking {
				fmt.Fprintln(cmd.ErrOrStderr(), v)
			}
			return fmt.Errorf("configuration exceeds Always Free limits")
		}

		if cfg.Zone == "" {
			cfg.Zone = cfg.Region + "-a"
		}

		sshKey, err := resolveSSHKey(cfg.SSHPublicKey)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}

		params := render.Params{
			ProjectID:                 cfg.ProjectID,
			Region:                    cfg.Region,
			Zone:                      cfg.Zone,
			InstanceName:              cfg.InstanceName,
			BootDiskSizeGB:            cfg.BootDiskSizeGB,
			CredentialsFile:           cfg.CredentialsFile,
			ImpersonateServiceAccount: cfg.ImpersonateServiceAccount,
		}
		if err := render.WriteFiles(cfg.OutputDir, params); err != nil {
			return err
		}
		if sshKey != "" {
			if err := writeTfvars(cfg.OutputDir, sshKey); err != nil {
				return err
			}
		}

		abs, _ := filepath.Abs(cfg.OutputDir)
		fmt.Fprintf(cmd.OutOrStdout(), "Terraform files written to %s\n", abs)

		if !cfg.AutoDeploy {
			return nil
		}
		runner := terraform.NewRunner(cfg.OutputDir, logger, terraform.WithOutput(cmd.OutOrStdout()))
		if err := runner.Init(cmd.Context()); err != nil {
			return err
		}
		if err := runner.Plan(cmd.Context()); err != nil {
			return err
		}
		return runner.Apply(cmd.Context())
	},
}

func deployConfigFromFlags(cmd *cobra.Command) config.GCP {
	cfg := config.LoadGCP()
	cfg.ProjectID, _ = cmd.Flags().GetString("project")
	cfg.Region, _ = cmd.Flags().GetString("region")
	cfg.Zone, _ = cmd.Flags().GetString("zone")
	cfg.InstanceName, _ = cmd.Flags().GetString("instance-name")
	cfg.BootDiskSizeGB, _ = cmd.Flags().GetInt("disk-size")
	cfg.SSHPublicKey, _ = cmd.Flags().GetString("ssh-public-key")
	cfg.CredentialsFile, _ = cmd.Flags().GetString("credentials-file")
	cfg.ImpersonateServiceAccount, _ = cmd.Flags().GetString("impersonate-sa")
	cfg.AllowPaidResources, _ = cmd.Flags().GetBool("allow-paid")
	cfg.AutoDeploy, _ = cmd.Flags().GetBool("auto-deploy")
	cfg.NonInteractive, _ = cmd.Flags().GetBool("non-interactive")
	cfg.OutputDir, _ = cmd.Flags().GetString("output-dir")
	return cfg
}

// resolveSSHKey expands the @path form to the file's contents.
func resolveSSHKey(value string) (string, error) {
	if !strings.HasPrefix(value, "@") {
		return value, nil
	}
	raw, err := os.ReadFile(strings.TrimPrefix(value, "@"))
	if err != nil {
		return "", fmt.Errorf("read ssh public key: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// writeTfvars pins the ssh_public_key variable so terraform does not
// prompt for it.
func writeTfvars(dir, sshKey string) error {
	content := fmt.Sprintf("ssh_public_key = %q\n", sshKey)
	return os.WriteFile(filepath.Join(dir, "terraform.tfvars"), []byte(content), 0o644)
}
