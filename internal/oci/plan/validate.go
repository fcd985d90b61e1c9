package plan

import (
	"github.com/cloudbooter/cloudbooter/internal/oci/freetier"
	"github.com/cloudbooter/cloudbooter/internal/quota"
)

// Validate is the single authority for whether a planned configuration is
// deployable within the Always Free allocation. It checks instance
// counts, summed OCPUs, summed memory, total boot+block storage, and the
// existing VCN count, all against cap minus current usage. Checks run
// independently and every breached rule yields its own violation.
//
// allowPaid exists for signature parity with the GCP validator: exceeding
// physically available quota is rejected by the provider regardless of
// billing consent, so it never suppresses any of these checks.
func Validate(cfg Config, used freetier.Usage, allowPaid bool) []quota.Violation {
	cfg.MustBeConsistent()

	limits := freetier.Default()
	remaining := limits.RemainingFor(used)

	var violations []quota.Violation

	if cfg.AMDInstanceCount > remaining.AMDInstances {
		violations = append(violations, quota.Errorf(
			"Cannot create %d AMD instances, only %d available.",
			cfg.AMDInstanceCount, remaining.AMDInstances,
		))
	}
	if ocpus := cfg.TotalARMOCPUs(); ocpus > remaining.ARMOCPUs {
		violations = append(violations, quota.Errorf(
			"Cannot allocate %d ARM OCPUs, only %d available.",
			ocpus, remaining.ARMOCPUs,
		))
	}
	if memory := cfg.TotalARMMemoryGB(); memory > remaining.ARMMemoryGB {
		violations = append(violations, quota.Errorf(
			"Cannot allocate %dGB ARM memory, only %dGB available.",
			memory, remaining.ARMMemoryGB,
		))
	}
	if storage := cfg.TotalStorageGB(); storage > remaining.StorageGB {
		violations = append(violations, quota.Errorf(
			"Cannot use %dGB storage, only %dGB available.",
			storage, remaining.StorageGB,
		))
	}
	if used.VCNs > limits.MaxVCNs {
		violations = append(violations, quota.Errorf(
			"Existing VCN count already exceeds free-tier VCN limit.",
		))
	}

	return violations
}
