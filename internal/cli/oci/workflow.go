package oci

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/oracle/oci-go-sdk/v65/core"
	"github.com/oracle/oci-go-sdk/v65/identity"

	"github.com/cloudbooter/cloudbooter/internal/config"
	"github.com/cloudbooter/cloudbooter/internal/oci/auth"
	"github.com/cloudbooter/cloudbooter/internal/oci/freetier"
	"github.com/cloudbooter/cloudbooter/internal/oci/inventory"
	"github.com/cloudbooter/cloudbooter/internal/oci/plan"
	"github.com/cloudbooter/cloudbooter/internal/oci/render"
	"github.com/cloudbooter/cloudbooter/internal/quota"
	"github.com/cloudbooter/cloudbooter/internal/sshkeys"
	"github.com/cloudbooter/cloudbooter/internal/terraform"
)

// Workflow is one end-to-end provisioning run: inventory, plan,
// validate, render, and optionally deploy.
type Workflow struct {
	cfg    config.OCI
	logger *slog.Logger
	in     io.Reader
	out    io.Writer
}

// NewWorkflow creates a Workflow over the given streams.
func NewWorkflow(cfg config.OCI, logger *slog.Logger, in io.Reader, out io.Writer) *Workflow {
	return &Workflow{cfg: cfg, logger: logger, in: in, out: out}
}

// Run executes the workflow.
func (w *Workflow) Run(ctx context.Context) error {
	mode, err := auth.ParseMode(w.cfg.AuthMode)
	if err != nil {
		return err
	}
	provider, err := auth.ConfigurationProvider(mode, w.cfg.ConfigFile, w.cfg.Profile)
	if err != nil {
		return err
	}

	identityClient, err := identity.NewIdentityClientWithConfigurationProvider(provider)
	if err != nil {
		return fmt.Errorf("create identity client: %w", err)
	}
	computeClient, err := core.NewComputeClientWithConfigurationProvider(provider)
	if err != nil {
		return fmt.Errorf("create compute client: %w", err)
	}
	networkClient, err := core.NewVirtualNetworkClientWithConfigurationProvider(provider)
	if err != nil {
		return fmt.Errorf("create network client: %w", err)
	}
	storageClient, err := core.NewBlockstorageClientWithConfigurationProvider(provider)
	if err != nil {
		return fmt.Errorf("create block storage client: %w", err)
	}

	authCtx, err := auth.BuildContext(ctx, provider, identityClient, computeClient, auth.ContextOptions{
		TenancyOCID: w.cfg.TenancyOCID,
		Region:      w.cfg.Region,
	})
	if err != nil {
		return err
	}
	w.logger.Info("starting provisioning run",
		"run_id", w.cfg.RunID,
		"region", authCtx.Region,
		"availability_domain", authCtx.AvailabilityDomain)

	inv := inventory.NewBuilder(authCtx, w.logger, computeClient, networkClient, storageClient).Build(ctx)
	inv.WriteDashboard(w.out, authCtx.Region)

	planned, err := w.planConfiguration(authCtx, inv)
	if err != nil {
		return err
	}

	violations := plan.Validate(planned, inv.Usage(), false)
	for _, v := range violations {
		fmt.Fprintln(w.out, v)
	}
	if len(quota.Blocking(violations)) > 0 {
		return fmt.Errorf("planned configuration exceeds free-tier limits")
	}

	if err := os.MkdirAll(w.cfg.TerraformDir, 0o755); err != nil {
		return fmt.Errorf("create terraform directory: %w", err)
	}

	keyPath := filepath.Join(w.cfg.TerraformDir, "ssh_keys", "id_rsa")
	keys, err := sshkeys.Ensure(keyPath)
	if err != nil {
		return err
	}
	if keys.Generated {
		w.logger.Info("generated ssh keypair", "private_key", keys.PrivateKeyPath)
	}

	params := render.Params{
		Context:              authCtx,
		Plan:                 planned,
		AuthMode:             mode,
		Profile:              w.cfg.Profile,
		StrictProviderParity: w.cfg.StrictProviderParity,
	}
	if err := render.WriteFiles(w.cfg.TerraformDir, params); err != nil {
		return err
	}
	fmt.Fprintf(w.out, "Terraform files generated in: %s\n", w.cfg.TerraformDir)

	if !w.cfg.AutoDeploy {
		return nil
	}
	return w.deploy(ctx)
}

// planConfiguration resolves the strategy, interactively unless flags
// force the use-existing path.
func (w *Workflow) planConfiguration(authCtx auth.Context, inv *inventory.Inventory) (plan.Config, error) {
	hasARMImage := authCtx.UbuntuARMImageOCID != ""
	in := plan.Input{Inventory: inv, HasARMImage: hasARMImage}

	if w.cfg.AutoUseExisting || w.cfg.NonInteractive {
		return plan.Plan(plan.StrategyExisting, in)
	}

	prompter := NewPrompter(w.in, w.out)
	strategy := prompter.ChooseStrategy()
	if strategy == plan.StrategyCustom {
		remaining := freetier.Default().RemainingFor(inv.Usage())
		in.Custom = prompter.CustomRequest(remaining, hasARMImage)
	}
	return plan.Plan(strategy, in)
}

func (w *Workflow) deploy(ctx context.Context) error {
	runner := terraform.NewRunner(w.cfg.TerraformDir, w.logger, terraform.WithOutput(w.out))
	if err := runner.Init(ctx); err != nil {
		return err
	}
	if err := runner.Plan(ctx); err != nil {
		return err
	}
	if err := runner.Apply(ctx); err != nil {
		return err
	}
	fmt.Fprintln(w.out, "terraform apply succeeded")
	return nil
}
