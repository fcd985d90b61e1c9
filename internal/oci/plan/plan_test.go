package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudbooter/cloudbooter/internal/oci/inventory"
)

func emptyInventory() *inventory.Inventory {
	return inventory.New()
}

// populatedInventory carries 1 AMD instance, 1 ARM instance (2 OCPU, 12 GB)
// and 97 GB of used storage (47 GB boot + 50 GB block).
func populatedInventory() *inventory.Inventory {
	inv := inventory.New()
	inv.AMDInstances.Set("ocid1.instance.amd1", inventory.Instance{
		DisplayName: "web-1", State: "RUNNING", Shape: "VM.Standard.E2.1.Micro",
	})
	inv.ARMInstances.Set("ocid1.instance.arm1", inventory.Instance{
		DisplayName: "build-1", State: "RUNNING", Shape: "VM.Standard.A1.Flex",
		OCPUs: 2, MemoryGB: 12,
	})
	inv.BootVolumes.Set("ocid1.bootvolume.b1", inventory.Volume{DisplayName: "build-1 (Boot)", SizeGB: 47})
	inv.BlockVolumes.Set("ocid1.volume.v1", inventory.Volume{DisplayName: "data", SizeGB: 50})
	return inv
}

func TestStrategy_String(t *testing.T) {
	assert.Equal(t, "existing", StrategyExisting.String())
	assert.Equal(t, "custom", StrategyCustom.String())
	assert.Equal(t, "maximum", StrategyMaximum.String())
}

func TestPlan_UnknownStrategy(t *testing.T) {
	_, err := Plan(Strategy(99), Input{Inventory: emptyInventory()})
	require.Error(t, err)
}

func TestPlan_CustomWithoutRequest(t *testing.T) {
	_, err := Plan(StrategyCustom, Input{Inventory: emptyInventory()})
	require.Error(t, err)
}

// --- existing ---

func TestExisting_MirrorsInventory(t *testing.T) {
	cfg, err := Plan(StrategyExisting, Input{Inventory: populatedInventory(), HasARMImage: true})
	require.NoError(t, err)
	cfg.MustBeConsistent()

	assert.Equal(t, 1, cfg.AMDInstanceCount)
	assert.Equal(t, []string{"web-1"}, cfg.AMDHostnames)
	assert.Equal(t, 50, cfg.AMDBootVolumeSizeGB)

	assert.Equal(t, 1, cfg.ARMInstanceCount)
	assert.Equal(t, []string{"build-1"}, cfg.ARMHostnames)
	assert.Equal(t, []int{2}, cfg.ARMOCPUs)
	assert.Equal(t, []int{12}, cfg.ARMMemoryGB)
	assert.Equal(t, []int{47}, cfg.ARMBootVolumeSizeGB)
	assert.Equal(t, []int{0}, cfg.ARMBlockVolumeSizesGB)
}

func TestExisting_FreshAccountSynthesizesOneARMInstance(t *testing.T) {
	cfg, err := Plan(StrategyExisting, Input{Inventory: emptyInventory(), HasARMImage: true})
	require.NoError(t, err)
	cfg.MustBeConsistent()

	assert.Equal(t, 0, cfg.AMDInstanceCount)
	assert.Equal(t, 1, cfg.ARMInstanceCount)
	assert.Equal(t, []int{4}, cfg.ARMOCPUs)
	assert.Equal(t, []int{24}, cfg.ARMMemoryGB)
	assert.Equal(t, []int{200}, cfg.ARMBootVolumeSizeGB)
	assert.Equal(t, []string{"arm-instance-1"}, cfg.ARMHostnames)
}

func TestExisting_FreshAccountWithoutARMImagePlansNothing(t *testing.T) {
	cfg, err := Plan(StrategyExisting, Input{Inventory: emptyInventory(), HasARMImage: false})
	require.NoError(t, err)
	cfg.MustBeConsistent()

	assert.Equal(t, 0, cfg.AMDInstanceCount)
	assert.Equal(t, 0, cfg.ARMInstanceCount)
}

// --- custom ---

func TestCustom_ClampsToRemainingBudget(t *testing.T) {
	// Remaining after populatedInventory: 1 AMD, 2 OCPUs, 12 GB memory.
	cfg, err := Plan(StrategyCustom, Input{
		Inventory:   populatedInventory(),
		HasARMImage: true,
		Custom: &CustomRequest{
			AMDInstanceCount:    5,
			AMDBootVolumeSizeGB: 500,
			ARMInstances: []ARMInstanceRequest{
				{OCPUs: 8, MemoryGB: 64, BootVolumeGB: 50},
			},
		},
	})
	require.NoError(t, err)
	cfg.MustBeConsistent()

	assert.Equal(t, 1, cfg.AMDInstanceCount)
	assert.Equal(t, 100, cfg.AMDBootVolumeSizeGB)
	assert.Equal(t, []int{2}, cfg.ARMOCPUs)
	assert.Equal(t, []int{12}, cfg.ARMMemoryGB)
}

func TestCustom_MemoryBoundedByOCPURatio(t *testing.T) {
	cfg, err := Plan(StrategyCustom, Input{
		Inventory:   emptyInventory(),
		HasARMImage: true,
		Custom: &CustomRequest{
			ARMInstances: []ARMInstanceRequest{
				{OCPUs: 1, MemoryGB: 24, BootVolumeGB: 50},
			},
		},
	})
	require.NoError(t, err)

	// 1 OCPU caps memory at 6 GB even though 24 GB remain.
	assert.Equal(t, []int{6}, cfg.ARMMemoryGB)
}

func TestCustom_RemainingBudgetDecrementsAcrossInstances(t *testing.T) {
	cfg, err := Plan(StrategyCustom, Input{
		Inventory:   emptyInventory(),
		HasARMImage: true,
		Custom: &CustomRequest{
			ARMInstances: []ARMInstanceRequest{
				{OCPUs: 3, MemoryGB: 18, BootVolumeGB: 50},
				{OCPUs: 3, MemoryGB: 18, BootVolumeGB: 50},
			},
		},
	})
	require.NoError(t, err)
	cfg.MustBeConsistent()

	// The second instance cannot claim budget the first one took.
	assert.Equal(t, []int{3, 1}, cfg.ARMOCPUs)
	assert.Equal(t, []int{18, 6}, cfg.ARMMemoryGB)
}

func TestCustom_NoARMImageSkipsARMClass(t *testing.T) {
	cfg, err := Plan(StrategyCustom, Input{
		Inventory:   emptyInventory(),
		HasARMImage: false,
		Custom: &CustomRequest{
			AMDInstanceCount:    1,
			AMDBootVolumeSizeGB: 50,
			ARMInstances:        []ARMInstanceRequest{{OCPUs: 4, MemoryGB: 24, BootVolumeGB: 50}},
		},
	})
	require.NoError(t, err)
	cfg.MustBeConsistent()

	assert.Equal(t, 1, cfg.AMDInstanceCount)
	assert.Equal(t, 0, cfg.ARMInstanceCount)
}

func TestCustom_DefaultHostnames(t *testing.T) {
	cfg, err := Plan(StrategyCustom, Input{
		Inventory:   emptyInventory(),
		HasARMImage: true,
		Custom: &CustomRequest{
			AMDInstanceCount:    2,
			AMDBootVolumeSizeGB: 50,
			ARMInstances:        []ARMInstanceRequest{{OCPUs: 4, MemoryGB: 24, BootVolumeGB: 50}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"amd-instance-1", "amd-instance-2"}, cfg.AMDHostnames)
	assert.Equal(t, []string{"arm-instance-1"}, cfg.ARMHostnames)
}

// --- maximum ---

func TestMaximum_FreshAccountUsesFullAllocation(t *testing.T) {
	cfg, err := Plan(StrategyMaximum, Input{Inventory: emptyInventory(), HasARMImage: true})
	require.NoError(t, err)
	cfg.MustBeConsistent()

	assert.Equal(t, 2, cfg.AMDInstanceCount)
	assert.Equal(t, 50, cfg.AMDBootVolumeSizeGB)
	assert.Equal(t, []string{"amd-instance-1", "amd-instance-2"}, cfg.AMDHostnames)

	assert.Equal(t, 1, cfg.ARMInstanceCount)
	assert.Equal(t, []int{4}, cfg.ARMOCPUs)
	assert.Equal(t, []int{24}, cfg.ARMMemoryGB)
	// 200 GB total minus 2x50 GB AMD boot volumes.
	assert.Equal(t, []int{100}, cfg.ARMBootVolumeSizeGB)
	assert.Equal(t, 200, cfg.TotalStorageGB())
}

func TestMaximum_BootVolumeNeverBelowMinimum(t *testing.T) {
	inv := emptyInventory()
	inv.BlockVolumes.Set("ocid1.volume.v1", inventory.Volume{DisplayName: "big", SizeGB: 180})

	cfg, err := Plan(StrategyMaximum, Input{Inventory: inv, HasARMImage: true})
	require.NoError(t, err)

	// Remaining storage (20 GB) minus AMD boots is negative; the ARM boot
	// volume is floored at the provider minimum. Validation rejects this
	// downstream.
	assert.Equal(t, []int{47}, cfg.ARMBootVolumeSizeGB)
}

func TestMaximum_NoARMQuotaRemaining(t *testing.T) {
	inv := emptyInventory()
	inv.ARMInstances.Set("ocid1.instance.arm1", inventory.Instance{
		DisplayName: "arm-1", OCPUs: 4, MemoryGB: 24,
	})

	cfg, err := Plan(StrategyMaximum, Input{Inventory: inv, HasARMImage: true})
	require.NoError(t, err)
	cfg.MustBeConsistent()

	assert.Equal(t, 0, cfg.ARMInstanceCount)
	assert.Equal(t, 2, cfg.AMDInstanceCount)
}

// --- invariant ---

func TestMustBeConsistent_PanicsOnMismatchedLists(t *testing.T) {
	cfg := Config{
		ARMInstanceCount:      2,
		ARMOCPUs:              []int{4},
		ARMMemoryGB:           []int{24, 12},
		ARMBootVolumeSizeGB:   []int{50, 50},
		ARMHostnames:          []string{"a", "b"},
		ARMBlockVolumeSizesGB: []int{0, 0},
	}

	assert.Panics(t, func() { cfg.MustBeConsistent() })
}

func TestMustBeConsistent_PanicsOnAMDHostnameMismatch(t *testing.T) {
	cfg := Config{
		AMDInstanceCount:      2,
		AMDHostnames:          []string{"only-one"},
		ARMOCPUs:              []int{},
		ARMMemoryGB:           []int{},
		ARMBootVolumeSizeGB:   []int{},
		ARMHostnames:          []string{},
		ARMBlockVolumeSizesGB: []int{},
	}

	assert.Panics(t, func() { cfg.MustBeConsistent() })
}
