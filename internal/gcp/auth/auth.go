// Package auth detects which GCP authentication pattern is active for the
// current environment. The detected pattern decides which provider
// attributes and variables are rendered into the Terraform directory.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Pattern names the active authentication mechanism.
type Pattern string

const (
	// PatternSAKey is a service account key JSON file.
	PatternSAKey Pattern = "sa_key"
	// PatternWIF is a workload identity federation credential config.
	PatternWIF Pattern = "wif"
	// PatternImpersonation is service account impersonation over ADC.
	PatternImpersonation Pattern = "impersonation"
	// PatternMetadataServer is ambient credentials from GCE/GKE/Cloud Run.
	PatternMetadataServer Pattern = "metadata_server"
	// PatternADC is plain application default credentials.
	PatternADC Pattern = "adc"
)

const (
	metadataBase   = "http://metadata.google.internal"
	tokenPath      = "/computeMetadata/v1/instance/service-accounts/default/token"
	probeTimeout   = time.Second
	envCredsFile   = "GCP_CREDENTIALS_FILE"
	envADCFile     = "GOOGLE_APPLICATION_CREDENTIALS"
	envImpersonate = "GCP_IMPERSONATE_SERVICE_ACCOUNT"
)

// Detector inspects the environment and, as a last resort before falling
// back to ADC, probes the GCE metadata server.
type Detector struct {
	base   string
	client *http.Client
}

// Option configures a Detector.
type Option func(*Detector)

// WithMetadataBase overrides the metadata server base URL, for tests.
func WithMetadataBase(base string) Option {
	return func(d *Detector) { d.base = base }
}

// WithTimeout overrides the probe timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Detector) { d.client = &http.Client{Timeout: timeout} }
}

// NewDetector creates a Detector with the production metadata endpoint
// and a one second probe timeout.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		base:   metadataBase,
		client: &http.Client{Timeout: probeTimeout},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CredentialsFile returns the configured credentials file path, if any.
// GCP_CREDENTIALS_FILE wins over GOOGLE_APPLICATION_CREDENTIALS.
func CredentialsFile() string {
	if v := os.Getenv(envCredsFile); v != "" {
		return v
	}
	return os.Getenv(envADCFile)
}

// ImpersonationTarget returns the service account to impersonate, if set.
func ImpersonationTarget() string {
	return os.Getenv(envImpersonate)
}

// Detect resolves the active auth pattern. Precedence: an existing
// credentials file (service_account JSON means a key file, anything else
// is treated as WIF), then explicit impersonation, then a reachable
// metadata server, then ADC.
func (d *Detector) Detect(ctx context.Context) Pattern {
	if credsFile := CredentialsFile(); credsFile != "" {
		if pattern, ok := classifyCredentialsFile(credsFile); ok {
			return pattern
		}
	}

	if ImpersonationTarget() != "" {
		return PatternImpersonation
	}

	if d.probeMetadataServer(ctx) {
		return PatternMetadataServer
	}

	return PatternADC
}

func classifyCredentialsFile(path string) (Pattern, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Debug("credentials file unreadable", "path", path, "error", err)
		}
		return "", false
	}
	var info struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &info); err != nil {
		// An unparseable credential config is still a credential config;
		// only google.auth can say more. Treat it as WIF like the docs'
		// external-account flow.
		return PatternWIF, true
	}
	if info.Type == "service_account" {
		return PatternSAKey, true
	}
	return PatternWIF, true
}

func (d *Detector) probeMetadataServer(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.base+tokenPath, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Metadata-Flavor", "Google")

	resp, err := d.client.Do(req)
	if err != nil {
		slog.Debug("metadata server probe failed", "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("metadata server probe rejected", "status", resp.StatusCode)
		return false
	}
	return true
}

// Describe returns a one-line human explanation for a pattern, used by
// the doctor and deploy commands.
func Describe(p Pattern) string {
	switch p {
	case PatternSAKey:
		return "service account key file"
	case PatternWIF:
		return "workload identity federation credential config"
	case PatternImpersonation:
		return fmt.Sprintf("impersonating %s via ADC", ImpersonationTarget())
	case PatternMetadataServer:
		return "ambient credentials from the metadata server"
	default:
		return "application default credentials"
	}
}
