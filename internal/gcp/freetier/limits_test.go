package freetier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Every field is pinned. If GCP changes a limit, update limits.go, the
// rendered Terraform check blocks, and then this test.

func TestLimits_ComputeConstants(t *testing.T) {
	l := Default()

	assert.Equal(t, "e2-micro", l.FreeMachineType)
	// 744 = 31 days x 24 h, the longest month; covers one instance 24/7.
	assert.Equal(t, 744, l.FreeComputeHoursPerMonth)
	assert.ElementsMatch(t, []string{"us-west1", "us-central1", "us-east1"}, l.ComputeRegions())
	assert.Equal(t, 30, l.FreeStandardPDGB)
	assert.Equal(t, 1, l.FreeComputeEgressGB)
}

func TestLimits_NonUSRegionsAreNotFree(t *testing.T) {
	l := Default()

	assert.False(t, l.FreeComputeRegion("europe-west1"))
	assert.False(t, l.FreeComputeRegion("asia-east1"))
	assert.False(t, l.FreeStorageRegion("europe-west1"))
}

func TestLimits_StorageConstants(t *testing.T) {
	l := Default()

	assert.Equal(t, 5, l.FreeStorageGB)
	assert.ElementsMatch(t, []string{"us-east1", "us-west1", "us-central1"}, l.StorageRegions())
	assert.Equal(t, 5_000, l.FreeStorageClassAOps)
	assert.Equal(t, 50_000, l.FreeStorageClassBOps)
	assert.Equal(t, 100, l.FreeStorageEgressGB)
}

func TestLimits_SecretManagerConstants(t *testing.T) {
	l := Default()

	assert.Equal(t, 6, l.FreeSecretVersions)
	assert.Equal(t, 10_000, l.FreeSecretAccessOps)
	assert.Equal(t, 3, l.FreeSecretRotationNotifications)
}

func TestLimits_ServerlessConstants(t *testing.T) {
	l := Default()

	assert.Equal(t, 2_000_000, l.FreeFunctionsInvocations)
	assert.Equal(t, 2_000_000, l.FreeCloudRunRequests)
	assert.Equal(t, 360_000, l.FreeCloudRunGBSeconds)
}

func TestLimits_CostTrapFlags(t *testing.T) {
	l := Default()

	assert.True(t, l.CostTrapCloudDNS)
	assert.True(t, l.CostTrapCloudNAT)
	assert.True(t, l.CostTrapLoadBalancer)
}

func TestLimits_ValueSemantics(t *testing.T) {
	// Default returns a copy: mutating it must not leak into the canonical
	// table, and two fresh instances must compare equal.
	a := Default()
	a.FreeMachineType = "n1-standard-1"

	b := Default()
	assert.Equal(t, "e2-micro", b.FreeMachineType)
	assert.Equal(t, Default(), Default())
	assert.NotEqual(t, a, b)
}
