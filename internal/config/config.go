// Package config loads CLI defaults from environment variables. Cobra
// flags layer on top: a flag passed explicitly always wins over the
// environment value that seeded its default.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/cloudbooter/cloudbooter/internal/oci/auth"
)

// GCP holds the GCP CLI configuration.
type GCP struct {
	ProjectID                 string // GCP_PROJECT_ID, required
	Region                    string // GCP_REGION, default: us-central1
	Zone                      string // GCP_ZONE, default: <region>-a at plan time
	InstanceName              string // GCP_INSTANCE_NAME, default: cloudbooter-vm
	BootDiskSizeGB            int    // GCP_BOOT_DISK_GB, default: 20
	SSHPublicKey              string // GCP_SSH_PUBLIC_KEY, inline key or @path
	CredentialsFile           string // GCP_CREDENTIALS_FILE
	ImpersonateServiceAccount string // GCP_IMPERSONATE_SERVICE_ACCOUNT
	AllowPaidResources        bool   // GCP_ALLOW_PAID_RESOURCES, default: false
	AutoDeploy                bool   // AUTO_DEPLOY, default: false
	NonInteractive            bool   // NON_INTERACTIVE, default: false
	OutputDir                 string // default: .
	RunID                     string
}

// LoadGCP reads the GCP configuration from the environment.
func LoadGCP() GCP {
	return GCP{
		ProjectID:                 os.Getenv("GCP_PROJECT_ID"),
		Region:                    envOrDefault("GCP_REGION", "us-central1"),
		Zone:                      os.Getenv("GCP_ZONE"),
		InstanceName:              envOrDefault("GCP_INSTANCE_NAME", "cloudbooter-vm"),
		BootDiskSizeGB:            parseInt("GCP_BOOT_DISK_GB", 20),
		SSHPublicKey:              os.Getenv("GCP_SSH_PUBLIC_KEY"),
		CredentialsFile:           os.Getenv("GCP_CREDENTIALS_FILE"),
		ImpersonateServiceAccount: os.Getenv("GCP_IMPERSONATE_SERVICE_ACCOUNT"),
		AllowPaidResources:        parseBool("GCP_ALLOW_PAID_RESOURCES", false),
		AutoDeploy:                parseBool("AUTO_DEPLOY", false),
		NonInteractive:            parseBool("NON_INTERACTIVE", false),
		OutputDir:                 ".",
		RunID:                     uuid.New().String(),
	}
}

// OCI holds the OCI CLI configuration.
type OCI struct {
	Profile              string // OCI_PROFILE, default: DEFAULT
	ConfigFile           string // OCI_CONFIG_FILE, default: ~/.oci/config
	AuthMode             string // OCI_AUTH_MODE, default: api_key
	TenancyOCID          string // OCI_TENANCY_OCID
	Region               string // OCI_AUTH_REGION then OCI_REGION
	NonInteractive       bool
	AutoUseExisting      bool
	AutoDeploy           bool
	TerraformDir         string // default: current directory
	StrictProviderParity bool   // default: true
	RunID                string
}

// LoadOCI reads the OCI configuration from the environment.
func LoadOCI() OCI {
	home, _ := os.UserHomeDir()
	region := os.Getenv("OCI_AUTH_REGION")
	if region == "" {
		region = os.Getenv("OCI_REGION")
	}
	return OCI{
		Profile:              envOrDefault("OCI_PROFILE", "DEFAULT"),
		ConfigFile:           envOrDefault("OCI_CONFIG_FILE", filepath.Join(home, ".oci", "config")),
		AuthMode:             envOrDefault("OCI_AUTH_MODE", string(auth.ModeAPIKey)),
		TenancyOCID:          os.Getenv("OCI_TENANCY_OCID"),
		Region:               region,
		TerraformDir:         ".",
		StrictProviderParity: true,
		RunID:                uuid.New().String(),
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func parseBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func parseInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}
