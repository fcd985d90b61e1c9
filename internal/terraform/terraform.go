// Package terraform shells out to the terraform binary for init, plan,
// apply and destroy, with capacity-aware retry around apply. Command
// execution is injectable so the retry and classification logic is
// testable without a terraform install.
package terraform

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
)

// outOfCapacityPattern matches the provider messages emitted when the
// region temporarily has no free-tier capacity. These failures are
// transient and worth retrying; everything else is not.
var outOfCapacityPattern = regexp.MustCompile(`(?i)out of capacity|out of host capacity|OutOfCapacity|OutOfHostCapacity`)

// IsOutOfCapacity reports whether the given command output indicates a
// transient capacity shortage rather than a real configuration error.
func IsOutOfCapacity(output string) bool {
	return outOfCapacityPattern.MatchString(output)
}

// ExecFunc runs one terraform invocation in dir and returns its combined
// output. Implementations stream output to the user as it is produced.
type ExecFunc func(ctx context.Context, dir string, args ...string) (string, error)

// RetryConfig bounds the apply retry loop.
type RetryConfig struct {
	// MaxAttempts is the total number of apply attempts, including the
	// first one.
	MaxAttempts uint
	// BaseDelay is the wait before the second attempt; it doubles on
	// each further attempt.
	BaseDelay time.Duration
}

// RetryConfigFromEnv reads RETRY_MAX_ATTEMPTS and RETRY_BASE_DELAY,
// falling back to 8 attempts with a 15s base delay. RETRY_BASE_DELAY
// accepts either a Go duration ("30s") or a bare number of seconds.
func RetryConfigFromEnv() RetryConfig {
	cfg := RetryConfig{MaxAttempts: 8, BaseDelay: 15 * time.Second}
	if v := os.Getenv("RETRY_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxAttempts = uint(n)
		}
	}
	if v := os.Getenv("RETRY_BASE_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.BaseDelay = d
		} else if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BaseDelay = time.Duration(n) * time.Second
		}
	}
	return cfg
}

// Runner drives terraform in a single working directory.
type Runner struct {
	dir    string
	binary string
	logger *slog.Logger
	exec   ExecFunc
	retry  RetryConfig
	output io.Writer
}

// Option configures a Runner.
type Option func(*Runner)

// WithBinary overrides the terraform binary path.
func WithBinary(path string) Option {
	return func(r *Runner) { r.binary = path }
}

// WithExec replaces the command executor, for tests.
func WithExec(exec ExecFunc) Option {
	return func(r *Runner) { r.exec = exec }
}

// WithRetry overrides the apply retry bounds.
func WithRetry(cfg RetryConfig) Option {
	return func(r *Runner) { r.retry = cfg }
}

// WithOutput redirects streamed terraform output, for tests.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.output = w }
}

// NewRunner creates a Runner for the given working directory.
func NewRunner(dir string, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		dir:    dir,
		binary: "terraform",
		logger: logger,
		retry:  RetryConfigFromEnv(),
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.exec == nil {
		r.exec = r.runCommand
	}
	return r
}

func (r *Runner) runCommand(ctx context.Context, dir string, args ...string) (string, error) {
	var buf bytes.Buffer
	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "TF_IN_AUTOMATION=1")
	cmd.Stdout = io.MultiWriter(r.output, &buf)
	cmd.Stderr = io.MultiWriter(r.output, &buf)
	err := cmd.Run()
	return buf.String(), err
}

// Init runs terraform init.
func (r *Runner) Init(ctx context.Context) error {
	r.logger.Info("running terraform init", "dir", r.dir)
	if _, err := r.exec(ctx, r.dir, "init", "-input=false"); err != nil {
		return fmt.Errorf("terraform init: %w", err)
	}
	return nil
}

// Plan runs terraform plan.
func (r *Runner) Plan(ctx context.Context) error {
	r.logger.Info("running terraform plan", "dir", r.dir)
	if _, err := r.exec(ctx, r.dir, "plan", "-input=false"); err != nil {
		return fmt.Errorf("terraform plan: %w", err)
	}
	return nil
}

// Apply runs terraform apply with auto-approve. Failures whose output
// matches the out-of-capacity pattern are retried with exponential
// backoff; any other failure aborts immediately.
func (r *Runner) Apply(ctx context.Context) error {
	attempt := 0
	err := retry.Do(
		func() error {
			attempt++
			output, err := r.exec(ctx, r.dir, "apply", "-input=false", "-auto-approve")
			if err == nil {
				return nil
			}
			if IsOutOfCapacity(output) {
				return fmt.Errorf("capacity unavailable: %w", errOutOfCapacity)
			}
			return retry.Unrecoverable(fmt.Errorf("terraform apply: %w", err))
		},
		retry.Attempts(r.retry.MaxAttempts),
		retry.Delay(r.retry.BaseDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			r.logger.Warn("region out of capacity, will retry",
				"attempt", n+1,
				"max_attempts", r.retry.MaxAttempts,
				"next_delay", r.retry.BaseDelay<<n,
			)
		}),
	)
	if err != nil {
		return fmt.Errorf("terraform apply after %d attempts: %w", attempt, err)
	}
	return nil
}

var errOutOfCapacity = fmt.Errorf("out of capacity")

// Destroy runs terraform destroy with auto-approve.
func (r *Runner) Destroy(ctx context.Context) error {
	r.logger.Info("running terraform destroy", "dir", r.dir)
	if _, err := r.exec(ctx, r.dir, "destroy", "-input=false", "-auto-approve"); err != nil {
		return fmt.Errorf("terraform destroy: %w", err)
	}
	return nil
}

// Output returns the raw terraform output in JSON form.
func (r *Runner) Output(ctx context.Context) (string, error) {
	out, err := r.exec(ctx, r.dir, "output", "-json")
	if err != nil {
		return "", fmt.Errorf("terraform output: %w", err)
	}
	return out, nil
}
