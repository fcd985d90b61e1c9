package config

import (
	"os"
	"strings"
	"testing"
)

// helper to clear every env var the loaders consult
func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"GCP_PROJECT_ID",
		"GCP_REGION",
		"GCP_ZONE",
		"GCP_INSTANCE_NAME",
		"GCP_BOOT_DISK_GB",
		"GCP_SSH_PUBLIC_KEY",
		"GCP_CREDENTIALS_FILE",
		"GCP_IMPERSONATE_SERVICE_ACCOUNT",
		"GCP_ALLOW_PAID_RESOURCES",
		"AUTO_DEPLOY",
		"NON_INTERACTIVE",
		"OCI_PROFILE",
		"OCI_CONFIG_FILE",
		"OCI_AUTH_MODE",
		"OCI_TENANCY_OCID",
		"OCI_AUTH_REGION",
		"OCI_REGION",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func TestLoadGCP_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GCP_PROJECT_ID", "my-project")

	cfg := LoadGCP()

	if cfg.ProjectID != "my-project" {
		t.Errorf("ProjectID = %q, want %q", cfg.ProjectID, "my-project")
	}
	if cfg.Region != "us-central1" {
		t.Errorf("Region = %q, want %q", cfg.Region, "us-central1")
	}
	if cfg.InstanceName != "cloudbooter-vm" {
		t.Errorf("InstanceName = %q, want %q", cfg.InstanceName, "cloudbooter-vm")
	}
	if cfg.BootDiskSizeGB != 20 {
		t.Errorf("BootDiskSizeGB = %d, want 20", cfg.BootDiskSizeGB)
	}
	if cfg.AllowPaidResources {
		t.Error("AllowPaidResources should default to false")
	}
	if cfg.RunID == "" {
		t.Error("RunID should be auto-generated")
	}
}

func TestLoadGCP_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GCP_PROJECT_ID", "my-project")
	t.Setenv("GCP_REGION", "us-west1")
	t.Setenv("GCP_BOOT_DISK_GB", "30")
	t.Setenv("GCP_ALLOW_PAID_RESOURCES", "true")
	t.Setenv("AUTO_DEPLOY", "1")

	cfg := LoadGCP()

	if cfg.Region != "us-west1" {
		t.Errorf("Region = %q, want %q", cfg.Region, "us-west1")
	}
	if cfg.BootDiskSizeGB != 30 {
		t.Errorf("BootDiskSizeGB = %d, want 30", cfg.BootDiskSizeGB)
	}
	if !cfg.AllowPaidResources {
		t.Error("AllowPaidResources should be true")
	}
	if !cfg.AutoDeploy {
		t.Error("AutoDeploy should be true")
	}
}

func TestLoadGCP_GarbageIntFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("GCP_BOOT_DISK_GB", "not-a-number")

	cfg := LoadGCP()

	if cfg.BootDiskSizeGB != 20 {
		t.Errorf("BootDiskSizeGB = %d, want default 20", cfg.BootDiskSizeGB)
	}
}

func TestLoadOCI_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := LoadOCI()

	if cfg.Profile != "DEFAULT" {
		t.Errorf("Profile = %q, want %q", cfg.Profile, "DEFAULT")
	}
	if !strings.HasSuffix(cfg.ConfigFile, ".oci/config") {
		t.Errorf("ConfigFile = %q, want ~/.oci/config", cfg.ConfigFile)
	}
	if cfg.AuthMode != "api_key" {
		t.Errorf("AuthMode = %q, want %q", cfg.AuthMode, "api_key")
	}
	if !cfg.StrictProviderParity {
		t.Error("StrictProviderParity should default to true")
	}
}

func TestLoadOCI_AuthRegionWinsOverRegion(t *testing.T) {
	clearEnv(t)
	t.Setenv("OCI_REGION", "us-ashburn-1")
	t.Setenv("OCI_AUTH_REGION", "us-phoenix-1")

	cfg := LoadOCI()

	if cfg.Region != "us-phoenix-1" {
		t.Errorf("Region = %q, want %q", cfg.Region, "us-phoenix-1")
	}
}

func TestValidateGCP(t *testing.T) {
	cfg := GCP{ProjectID: "p", Region: "us-central1", BootDiskSizeGB: 20}
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	cfg.ProjectID = ""
	if err := cfg.Validate(); err == nil {
		t.Error("missing project should fail validation")
	}

	cfg.ProjectID = "p"
	cfg.BootDiskSizeGB = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero disk size should fail validation")
	}
}

func TestValidateOCI(t *testing.T) {
	cfg := OCI{Profile: "DEFAULT", ConfigFile: "/tmp/config", AuthMode: "api_key", TerraformDir: "."}
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	cfg.AuthMode = "password"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown auth mode should fail validation")
	}
}
