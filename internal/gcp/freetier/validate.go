package freetier

import (
	"strings"

	"github.com/cloudbooter/cloudbooter/internal/quota"
)

// ProposedConfig is a proposed GCP single-instance deployment.
type ProposedConfig struct {
	MachineType    string
	Region         string
	BootDiskSizeGB int
	// StorageRegion is checked only when non-empty (bucket deployments).
	StorageRegion string
	// AllowPaidResources suppresses the free-tier checks entirely.
	AllowPaidResources bool
}

// Validate checks a proposed configuration against the Always Free limits.
// All applicable checks run independently; the returned list carries one
// violation per distinct rule breached. An empty list means the config is
// deployable for free.
func Validate(cfg ProposedConfig) []quota.Violation {
	var violations []quota.Violation
	limits := Default()

	if cfg.AllowPaidResources {
		return violations
	}

	if cfg.MachineType != limits.FreeMachineType {
		violations = append(violations, quota.Errorf(
			"Machine type '%s' is not Always Free. Only '%s' is free. Set GCP_ALLOW_PAID_RESOURCES=true to override.",
			cfg.MachineType, limits.FreeMachineType,
		))
	}

	if !limits.FreeComputeRegion(cfg.Region) {
		violations = append(violations, quota.Errorf(
			"Region '%s' is not Always Free for Compute Engine. Free regions: %s.",
			cfg.Region, strings.Join(limits.ComputeRegions(), ", "),
		))
	}

	if cfg.BootDiskSizeGB > limits.FreeStandardPDGB {
		violations = append(violations, quota.Errorf(
			"Boot disk %d GB exceeds Always Free cap of %d GB standard PD.",
			cfg.BootDiskSizeGB, limits.FreeStandardPDGB,
		))
	}

	if cfg.StorageRegion != "" && !limits.FreeStorageRegion(cfg.StorageRegion) {
		violations = append(violations, quota.Errorf(
			"Cloud Storage region '%s' is not Always Free. Free regions: %s.",
			cfg.StorageRegion, strings.Join(limits.StorageRegions(), ", "),
		))
	}

	return violations
}
