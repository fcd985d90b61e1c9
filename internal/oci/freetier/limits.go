// Package freetier holds the canonical OCI Always Free caps and the
// remaining-budget arithmetic shared by the configuration planner and the
// quota validator.
//
// Ref: https://www.oracle.com/cloud/free/ (Always Free resources)
package freetier

// Limits is an immutable record of the OCI Always Free numeric caps.
// Default returns it by value; there are no setters.
type Limits struct {
	MaxAMDInstances int
	AMDShape        string

	MaxARMInstances int
	MaxARMOCPUs     int
	MaxARMMemoryGB  int
	ARMShape        string
	// MemoryPerOCPUGB is the provider-enforced flexible-shape ratio:
	// an A1.Flex instance may claim at most 6 GB per OCPU.
	MemoryPerOCPUGB int

	MaxStorageGB    int
	MinBootVolumeGB int

	MaxVCNs int
}

var defaultLimits = Limits{
	MaxAMDInstances: 2,
	AMDShape:        "VM.Standard.E2.1.Micro",

	MaxARMInstances: 4,
	MaxARMOCPUs:     4,
	MaxARMMemoryGB:  24,
	ARMShape:        "VM.Standard.A1.Flex",
	MemoryPerOCPUGB: 6,

	MaxStorageGB:    200,
	MinBootVolumeGB: 47,

	MaxVCNs: 2,
}

// Default returns the free-tier limits table by value.
func Default() Limits {
	return defaultLimits
}

// Usage is what the account already consumes, summed from the inventory.
type Usage struct {
	AMDInstances int
	ARMOCPUs     int
	ARMMemoryGB  int
	StorageGB    int
	VCNs         int
}

// Remaining is the free allocation still available: cap minus used.
// Values can be negative when the account already exceeds a cap.
type Remaining struct {
	AMDInstances int
	ARMOCPUs     int
	ARMMemoryGB  int
	StorageGB    int
}

// RemainingFor computes the remaining free allocation for the given usage.
func (l Limits) RemainingFor(used Usage) Remaining {
	return Remaining{
		AMDInstances: l.MaxAMDInstances - used.AMDInstances,
		ARMOCPUs:     l.MaxARMOCPUs - used.ARMOCPUs,
		ARMMemoryGB:  l.MaxARMMemoryGB - used.ARMMemoryGB,
		StorageGB:    l.MaxStorageGB - used.StorageGB,
	}
}
