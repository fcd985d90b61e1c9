// Package plan turns an OCI resource inventory plus a sizing strategy into
// a planned configuration, and validates planned configurations against
// the free-tier quota.
package plan

import (
	"fmt"

	"github.com/cloudbooter/cloudbooter/internal/oci/freetier"
	"github.com/cloudbooter/cloudbooter/internal/oci/inventory"
)

// Strategy selects how the planner sizes the configuration.
type Strategy int

const (
	// StrategyExisting mirrors the instances already present in the tenancy.
	StrategyExisting Strategy = iota + 1
	// StrategyCustom uses caller-supplied counts and sizes, bounded by the
	// remaining free allocation.
	StrategyCustom
	// StrategyMaximum computes the single largest configuration that fits
	// in the remaining free allocation.
	StrategyMaximum
)

func (s Strategy) String() string {
	switch s {
	case StrategyExisting:
		return "existing"
	case StrategyCustom:
		return "custom"
	case StrategyMaximum:
		return "maximum"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// Config is a planned deployment: how many instances of each class to
// create and how large their storage should be. It is produced once per
// run by the planner, validated, handed to the renderer, and discarded.
//
// All ARM list fields must have length equal to ARMInstanceCount, and
// AMDHostnames length equal to AMDInstanceCount. A mismatch is a
// programming defect, not a user error; consumers call MustBeConsistent
// before trusting the lists.
type Config struct {
	AMDInstanceCount     int
	AMDBootVolumeSizeGB  int
	AMDHostnames         []string
	AMDBlockVolumeSizeGB int

	ARMInstanceCount      int
	ARMOCPUs              []int
	ARMMemoryGB           []int
	ARMBootVolumeSizeGB   []int
	ARMHostnames          []string
	ARMBlockVolumeSizesGB []int
}

// MustBeConsistent panics when the per-instance lists disagree with the
// instance counts. Silently truncating or padding would misreport real
// resource counts to the provider, so this fails fast instead.
func (c Config) MustBeConsistent() {
	if len(c.AMDHostnames) != c.AMDInstanceCount {
		panic(fmt.Sprintf("plan: %d AMD hostnames for %d AMD instances", len(c.AMDHostnames), c.AMDInstanceCount))
	}
	for name, n := range map[string]int{
		"OCPU":        len(c.ARMOCPUs),
		"memory":      len(c.ARMMemoryGB),
		"boot volume": len(c.ARMBootVolumeSizeGB),
		"hostname":    len(c.ARMHostnames),
		"block size":  len(c.ARMBlockVolumeSizesGB),
	} {
		if n != c.ARMInstanceCount {
			panic(fmt.Sprintf("plan: %d ARM %s entries for %d ARM instances", n, name, c.ARMInstanceCount))
		}
	}
}

// TotalARMOCPUs sums the planned ARM OCPU allocations.
func (c Config) TotalARMOCPUs() int {
	return sum(c.ARMOCPUs)
}

// TotalARMMemoryGB sums the planned ARM memory allocations.
func (c Config) TotalARMMemoryGB() int {
	return sum(c.ARMMemoryGB)
}

// TotalStorageGB sums all planned boot and block storage across both
// instance classes.
func (c Config) TotalStorageGB() int {
	return c.AMDInstanceCount*c.AMDBootVolumeSizeGB +
		sum(c.ARMBootVolumeSizeGB) +
		c.AMDInstanceCount*c.AMDBlockVolumeSizeGB +
		sum(c.ARMBlockVolumeSizesGB)
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

// ARMInstanceRequest is one caller-specified flexible instance for the
// custom strategy.
type ARMInstanceRequest struct {
	Hostname     string
	OCPUs        int
	MemoryGB     int
	BootVolumeGB int
}

// CustomRequest carries caller-specified sizing for StrategyCustom.
type CustomRequest struct {
	AMDInstanceCount    int
	AMDBootVolumeSizeGB int
	AMDHostnames        []string
	ARMInstances        []ARMInstanceRequest
}

// Input is everything the planner needs besides the strategy itself.
type Input struct {
	Inventory *inventory.Inventory
	// HasARMImage reports whether an ARM base image is available in the
	// region; without one no ARM instance can be planned.
	HasARMImage bool
	// Custom is consulted for StrategyCustom only.
	Custom *CustomRequest
}

const (
	defaultAMDBootGB = 50
	maxAMDBootGB     = 100
	maxARMBootGB     = 200
)

// Plan produces a planned configuration for the given strategy. The
// result satisfies the list-length invariant; for StrategyCustom it is
// not guaranteed to pass quota validation (callers must validate).
func Plan(strategy Strategy, in Input) (Config, error) {
	switch strategy {
	case StrategyExisting:
		return fromExisting(in), nil
	case StrategyCustom:
		if in.Custom == nil {
			return Config{}, fmt.Errorf("plan: custom strategy requires a request")
		}
		return custom(in), nil
	case StrategyMaximum:
		return maximum(in), nil
	default:
		return Config{}, fmt.Errorf("plan: unknown strategy %d", int(strategy))
	}
}

// fromExisting mirrors the tenancy's current instances. A fresh account
// with zero instances of either class gets exactly one default ARM
// instance sized at the full free allocation, so a first run deploys
// something rather than nothing.
func fromExisting(in Input) Config {
	limits := freetier.Default()
	amd := in.Inventory.AMDInstances.Values()
	arm := in.Inventory.ARMInstances.Values()

	if len(amd) == 0 && len(arm) == 0 {
		cfg := Config{
			AMDInstanceCount:      0,
			AMDBootVolumeSizeGB:   defaultAMDBootGB,
			AMDHostnames:          []string{},
			ARMInstanceCount:      0,
			ARMOCPUs:              []int{},
			ARMMemoryGB:           []int{},
			ARMBootVolumeSizeGB:   []int{},
			ARMHostnames:          []string{},
			ARMBlockVolumeSizesGB: []int{},
		}
		if in.HasARMImage {
			cfg.ARMInstanceCount = 1
			cfg.ARMOCPUs = []int{limits.MaxARMOCPUs}
			cfg.ARMMemoryGB = []int{limits.MaxARMMemoryGB}
			cfg.ARMBootVolumeSizeGB = []int{limits.MaxStorageGB}
			cfg.ARMHostnames = []string{"arm-instance-1"}
			cfg.ARMBlockVolumeSizesGB = []int{0}
		}
		return cfg
	}

	cfg := Config{
		AMDInstanceCount:      len(amd),
		AMDBootVolumeSizeGB:   defaultAMDBootGB,
		ARMInstanceCount:      len(arm),
		AMDHostnames:          make([]string, 0, len(amd)),
		ARMOCPUs:              make([]int, 0, len(arm)),
		ARMMemoryGB:           make([]int, 0, len(arm)),
		ARMBootVolumeSizeGB:   make([]int, 0, len(arm)),
		ARMHostnames:          make([]string, 0, len(arm)),
		ARMBlockVolumeSizesGB: make([]int, 0, len(arm)),
	}
	for _, inst := range amd {
		cfg.AMDHostnames = append(cfg.AMDHostnames, inst.DisplayName)
	}
	for _, inst := range arm {
		cfg.ARMHostnames = append(cfg.ARMHostnames, inst.DisplayName)
		cfg.ARMOCPUs = append(cfg.ARMOCPUs, inst.OCPUs)
		cfg.ARMMemoryGB = append(cfg.ARMMemoryGB, inst.MemoryGB)
		cfg.ARMBootVolumeSizeGB = append(cfg.ARMBootVolumeSizeGB, limits.MinBootVolumeGB)
		cfg.ARMBlockVolumeSizesGB = append(cfg.ARMBlockVolumeSizesGB, 0)
	}
	return cfg
}

// custom applies caller-supplied sizing, clamping each request to the
// remaining free allocation. The remaining OCPU and memory budget is
// decremented as each ARM instance is accepted, so two instances cannot
// both claim the same budget. Boot volume sizes are bounded only by the
// per-volume range; the total-storage check belongs to Validate.
func custom(in Input) Config {
	limits := freetier.Default()
	remaining := limits.RemainingFor(in.Inventory.Usage())
	req := in.Custom

	amdCount := clamp(req.AMDInstanceCount, 0, max(0, remaining.AMDInstances))
	amdBoot := defaultAMDBootGB
	if amdCount > 0 {
		amdBoot = clamp(req.AMDBootVolumeSizeGB, defaultAMDBootGB, maxAMDBootGB)
	}
	amdHosts := make([]string, 0, amdCount)
	for i := 1; i <= amdCount; i++ {
		name := fmt.Sprintf("amd-instance-%d", i)
		if len(req.AMDHostnames) >= i && req.AMDHostnames[i-1] != "" {
			name = req.AMDHostnames[i-1]
		}
		amdHosts = append(amdHosts, name)
	}

	cfg := Config{
		AMDInstanceCount:      amdCount,
		AMDBootVolumeSizeGB:   amdBoot,
		AMDHostnames:          amdHosts,
		ARMOCPUs:              []int{},
		ARMMemoryGB:           []int{},
		ARMBootVolumeSizeGB:   []int{},
		ARMHostnames:          []string{},
		ARMBlockVolumeSizesGB: []int{},
	}

	if !in.HasARMImage || remaining.ARMOCPUs <= 0 {
		return cfg
	}

	armCount := clamp(len(req.ARMInstances), 0, limits.MaxARMInstances)
	remOCPUs := remaining.ARMOCPUs
	remMemory := remaining.ARMMemoryGB
	for i := 0; i < armCount; i++ {
		r := req.ARMInstances[i]

		name := r.Hostname
		if name == "" {
			name = fmt.Sprintf("arm-instance-%d", i+1)
		}
		ocpus := clamp(r.OCPUs, 1, max(1, remOCPUs))
		maxMem := min(remMemory, ocpus*limits.MemoryPerOCPUGB)
		memory := clamp(r.MemoryGB, 1, max(1, maxMem))
		boot := clamp(r.BootVolumeGB, defaultAMDBootGB, maxARMBootGB)

		cfg.ARMHostnames = append(cfg.ARMHostnames, name)
		cfg.ARMOCPUs = append(cfg.ARMOCPUs, ocpus)
		cfg.ARMMemoryGB = append(cfg.ARMMemoryGB, memory)
		cfg.ARMBootVolumeSizeGB = append(cfg.ARMBootVolumeSizeGB, boot)
		cfg.ARMBlockVolumeSizesGB = append(cfg.ARMBlockVolumeSizesGB, 0)
		remOCPUs -= ocpus
		remMemory -= memory
	}
	cfg.ARMInstanceCount = armCount
	return cfg
}

// maximum computes the largest configuration that fits in the remaining
// allocation: every remaining AMD instance slot, plus one ARM instance
// holding all remaining OCPU/memory budget with its boot volume sized to
// the remaining storage (never below the minimum boot-volume size).
func maximum(in Input) Config {
	limits := freetier.Default()
	remaining := limits.RemainingFor(in.Inventory.Usage())

	amdCount := max(0, remaining.AMDInstances)
	amdHosts := make([]string, 0, amdCount)
	for i := 1; i <= amdCount; i++ {
		amdHosts = append(amdHosts, fmt.Sprintf("amd-instance-%d", i))
	}

	cfg := Config{
		AMDInstanceCount:      amdCount,
		AMDBootVolumeSizeGB:   defaultAMDBootGB,
		AMDHostnames:          amdHosts,
		ARMOCPUs:              []int{},
		ARMMemoryGB:           []int{},
		ARMBootVolumeSizeGB:   []int{},
		ARMHostnames:          []string{},
		ARMBlockVolumeSizesGB: []int{},
	}

	if in.HasARMImage && remaining.ARMOCPUs > 0 {
		bootGB := max(limits.MinBootVolumeGB, remaining.StorageGB-amdCount*defaultAMDBootGB)
		cfg.ARMInstanceCount = 1
		cfg.ARMOCPUs = []int{remaining.ARMOCPUs}
		cfg.ARMMemoryGB = []int{remaining.ARMMemoryGB}
		cfg.ARMBootVolumeSizeGB = []int{bootGB}
		cfg.ARMHostnames = []string{"arm-instance-1"}
		cfg.ARMBlockVolumeSizesGB = []int{0}
	}
	return cfg
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
