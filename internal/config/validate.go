package config

import (
	"fmt"

	"github.com/cloudbooter/cloudbooter/internal/oci/auth"
)

// Validate checks that the GCP config contains valid values.
// Returns an error describing the first invalid field found.
func (c GCP) Validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf("config: GCP_PROJECT_ID or --project is required")
	}

	if c.Region == "" {
		return fmt.Errorf("config: region must not be empty")
	}

	if c.BootDiskSizeGB < 1 {
		return fmt.Errorf("config: boot disk size must be >= 1 GB, got %d", c.BootDiskSizeGB)
	}

	return nil
}

// Validate checks that the OCI config contains valid values.
func (c OCI) Validate() error {
	if _, err := auth.ParseMode(c.AuthMode); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if c.Profile == "" {
		return fmt.Errorf("config: profile must not be empty")
	}

	if c.TerraformDir == "" {
		return fmt.Errorf("config: terraform directory must not be empty")
	}

	return nil
}
