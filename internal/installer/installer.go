// Package installer checks for the external tools the CLIs shell out to
// (gcloud, terraform) and attempts a best-effort non-interactive install
// through the platform package manager when one is missing. Install
// failure is never fatal: gcloud degrades to SDK-only mode and terraform
// absence is reported for the operator to fix.
package installer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"runtime"

	"github.com/olekukonko/tablewriter"
)

// Mode says how the GCP CLI should talk to the cloud.
type Mode string

const (
	// ModeGcloud shells out to the gcloud binary for listings.
	ModeGcloud Mode = "gcloud"
	// ModeSDKOnly uses the Google API clients exclusively.
	ModeSDKOnly Mode = "sdk"
)

// LookPathFunc resolves a binary on PATH. Injectable for tests.
type LookPathFunc func(name string) (string, error)

// RunFunc executes an install command. Injectable for tests.
type RunFunc func(ctx context.Context, name string, args ...string) error

// Installer detects and installs prerequisites.
type Installer struct {
	logger   *slog.Logger
	goos     string
	lookPath LookPathFunc
	run      RunFunc
}

// Option configures an Installer.
type Option func(*Installer)

// WithLookPath replaces PATH resolution.
func WithLookPath(fn LookPathFunc) Option {
	return func(i *Installer) { i.lookPath = fn }
}

// WithRun replaces command execution.
func WithRun(fn RunFunc) Option {
	return func(i *Installer) { i.run = fn }
}

// WithGOOS overrides the detected platform.
func WithGOOS(goos string) Option {
	return func(i *Installer) { i.goos = goos }
}

// New creates an Installer.
func New(logger *slog.Logger, opts ...Option) *Installer {
	inst := &Installer{
		logger:   logger,
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}
	for _, opt := range opts {
		opt(inst)
	}
	return inst
}

func (i *Installer) onPath(name string) bool {
	_, err := i.lookPath(name)
	return err == nil
}

// GcloudOnPath reports whether the gcloud binary is resolvable.
func (i *Installer) GcloudOnPath() bool { return i.onPath("gcloud") }

// TerraformOnPath reports whether the terraform binary is resolvable.
func (i *Installer) TerraformOnPath() bool { return i.onPath("terraform") }

// EnsureGcloud installs gcloud if missing and returns the mode the CLI
// should run in. SDK-only mode is returned when no install route worked.
func (i *Installer) EnsureGcloud(ctx context.Context) Mode {
	if i.GcloudOnPath() {
		return ModeGcloud
	}
	i.logger.Info("gcloud not found, attempting package manager install")
	if i.tryCommands(ctx, i.gcloudInstallCommands()) && i.GcloudOnPath() {
		return ModeGcloud
	}
	i.logger.Warn("gcloud installation unavailable, continuing in SDK-only mode")
	return ModeSDKOnly
}

// EnsureTerraform installs terraform if missing. The returned error names
// the binary so callers can surface an actionable message.
func (i *Installer) EnsureTerraform(ctx context.Context) error {
	if i.TerraformOnPath() {
		return nil
	}
	i.logger.Info("terraform not found, attempting package manager install")
	if i.tryCommands(ctx, i.terraformInstallCommands()) && i.TerraformOnPath() {
		return nil
	}
	return fmt.Errorf("terraform is not installed and no package manager install route succeeded")
}

type command struct {
	requires string
	name     string
	args     []string
}

func (i *Installer) gcloudInstallCommands() []command {
	switch i.goos {
	case "darwin":
		return []command{
			{requires: "brew", name: "brew", args: []string{"install", "--cask", "google-cloud-sdk"}},
		}
	case "linux":
		return []command{
			{requires: "snap", name: "sudo", args: []string{"snap", "install", "google-cloud-cli", "--classic"}},
			{requires: "apt-get", name: "sudo", args: []string{"apt-get", "install", "-y", "google-cloud-cli"}},
			{requires: "dnf", name: "sudo", args: []string{"dnf", "install", "-y", "google-cloud-cli"}},
		}
	default:
		return nil
	}
}

func (i *Installer) terraformInstallCommands() []command {
	switch i.goos {
	case "darwin":
		return []command{
			{requires: "brew", name: "brew", args: []string{"install", "hashicorp/tap/terraform"}},
		}
	case "linux":
		return []command{
			{requires: "snap", name: "sudo", args: []string{"snap", "install", "terraform", "--classic"}},
			{requires: "apt-get", name: "sudo", args: []string{"apt-get", "install", "-y", "terraform"}},
			{requires: "dnf", name: "sudo", args: []string{"dnf", "install", "-y", "terraform"}},
		}
	default:
		return nil
	}
}

// tryCommands runs each candidate whose package manager exists until one
// succeeds.
func (i *Installer) tryCommands(ctx context.Context, candidates []command) bool {
	for _, c := range candidates {
		if !i.onPath(c.requires) {
			continue
		}
		if err := i.run(ctx, c.name, c.args...); err != nil {
			i.logger.Debug("install attempt failed", "command", c.name, "error", err)
			continue
		}
		return true
	}
	return false
}

// ToolStatus is one row of the doctor report.
type ToolStatus struct {
	Name  string
	Found bool
	Path  string
}

// Doctor resolves every prerequisite without installing anything.
func (i *Installer) Doctor() []ToolStatus {
	var statuses []ToolStatus
	for _, name := range []string{"gcloud", "terraform"} {
		path, err := i.lookPath(name)
		statuses = append(statuses, ToolStatus{Name: name, Found: err == nil, Path: path})
	}
	return statuses
}

// WriteDoctorReport prints the doctor result as a table.
func WriteDoctorReport(w io.Writer, statuses []ToolStatus) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"TOOL", "STATUS", "PATH"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, s := range statuses {
		status := "missing"
		if s.Found {
			status = "ok"
		}
		table.Append([]string{s.Name, status, s.Path})
	}
	table.Render()
}
