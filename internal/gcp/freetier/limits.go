// Package freetier holds the canonical GCP Always Free caps and the
// validator that decides whether a proposed configuration is deployable
// for free.
//
// Keep in sync with the generated Terraform check blocks in
// internal/gcp/render/templates/variables.tf.tmpl.
//
// Ref: https://cloud.google.com/free/docs/free-cloud-features (2026-02-20)
package freetier

// Limits is an immutable record of the GCP Always Free numeric caps.
// Values are fixed at construction: Default returns the table by value,
// so the canonical copy cannot be mutated through it, and two default
// instances compare equal. Region sets are fixed-size arrays to keep the
// struct comparable.
type Limits struct {
	// Compute
	FreeMachineType             string
	FreeComputeHoursPerMonth    int // cumulative across all e2-micro in billing account
	FreeComputeRegions          [3]string
	FreeStandardPDGB            int
	FreeComputeEgressGB         int // NA to all, excluding China and AU

	// Storage
	FreeStorageGB        int // Cloud Storage, US regions only
	FreeStorageRegions   [3]string
	FreeStorageClassAOps int
	FreeStorageClassBOps int
	FreeStorageEgressGB  int

	// Firestore
	FreeFirestoreStorageGiB     int
	FreeFirestoreReadsPerDay    int
	FreeFirestoreWritesPerDay   int
	FreeFirestoreDeletesPerDay  int
	FreeFirestoreEgressGiBMonth int

	// BigQuery
	FreeBigQueryQueryTiB   int
	FreeBigQueryStorageGiB int

	// Messaging
	FreePubSubGiBMonth int

	// Serverless
	FreeFunctionsInvocations int
	FreeFunctionsGBSeconds   int
	FreeFunctionsGHzSeconds  int
	FreeFunctionsEgressGB    int
	FreeCloudRunRequests     int
	FreeCloudRunGBSeconds    int
	FreeCloudRunVCPUSeconds  int
	FreeCloudRunEgressGB     int

	// Security
	FreeSecretVersions              int
	FreeSecretAccessOps             int
	FreeSecretRotationNotifications int

	// DevOps
	FreeArtifactRegistryGB float64
	FreeBuildMinutes       int

	// Observability
	FreeLoggingGiBPerProject int

	// Kubernetes (management fee waiver only)
	FreeGKEClusters int

	// App Engine Standard
	FreeAppEngineF1HoursPerDay int
	FreeAppEngineB1HoursPerDay int

	// Budget guards for resources that are never free.
	CostTrapCloudDNS     bool // $0.20/zone/month
	CostTrapCloudNAT     bool // $0.044/gateway/hr
	CostTrapLoadBalancer bool // per-rule + data-processing
}

var defaultLimits = Limits{
	FreeMachineType:          "e2-micro",
	FreeComputeHoursPerMonth: 744,
	FreeComputeRegions:       [3]string{"us-west1", "us-central1", "us-east1"},
	FreeStandardPDGB:         30,
	FreeComputeEgressGB:      1,

	FreeStorageGB:        5,
	FreeStorageRegions:   [3]string{"us-east1", "us-west1", "us-central1"},
	FreeStorageClassAOps: 5_000,
	FreeStorageClassBOps: 50_000,
	FreeStorageEgressGB:  100,

	FreeFirestoreStorageGiB:     1,
	FreeFirestoreReadsPerDay:    50_000,
	FreeFirestoreWritesPerDay:   20_000,
	FreeFirestoreDeletesPerDay:  20_000,
	FreeFirestoreEgressGiBMonth: 10,

	FreeBigQueryQueryTiB:   1,
	FreeBigQueryStorageGiB: 10,

	FreePubSubGiBMonth: 10,

	FreeFunctionsInvocations: 2_000_000,
	FreeFunctionsGBSeconds:   400_000,
	FreeFunctionsGHzSeconds:  200_000,
	FreeFunctionsEgressGB:    5,
	FreeCloudRunRequests:     2_000_000,
	FreeCloudRunGBSeconds:    360_000,
	FreeCloudRunVCPUSeconds:  180_000,
	FreeCloudRunEgressGB:     1,

	FreeSecretVersions:              6,
	FreeSecretAccessOps:             10_000,
	FreeSecretRotationNotifications: 3,

	FreeArtifactRegistryGB: 0.5,
	FreeBuildMinutes:       2_500,

	FreeLoggingGiBPerProject: 50,

	FreeGKEClusters: 1,

	FreeAppEngineF1HoursPerDay: 28,
	FreeAppEngineB1HoursPerDay: 9,

	CostTrapCloudDNS:     true,
	CostTrapCloudNAT:     true,
	CostTrapLoadBalancer: true,
}

// Default returns the free-tier limits table by value.
func Default() Limits {
	return defaultLimits
}

// ComputeRegions returns the Always Free Compute Engine regions as a slice.
func (l Limits) ComputeRegions() []string {
	return l.FreeComputeRegions[:]
}

// StorageRegions returns the Always Free Cloud Storage regions as a slice.
func (l Limits) StorageRegions() []string {
	return l.FreeStorageRegions[:]
}

// FreeComputeRegion reports whether region is Always Free for Compute Engine.
func (l Limits) FreeComputeRegion(region string) bool {
	for _, r := range l.FreeComputeRegions {
		if r == region {
			return true
		}
	}
	return false
}

// FreeStorageRegion reports whether region is Always Free for Cloud Storage.
func (l Limits) FreeStorageRegion(region string) bool {
	for _, r := range l.FreeStorageRegions {
		if r == region {
			return true
		}
	}
	return false
}
