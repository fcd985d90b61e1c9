package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cloudbooter/cloudbooter/internal/oci/freetier"
)

func TestUsage_EmptyInventory(t *testing.T) {
	assert.Equal(t, freetier.Usage{}, New().Usage())
}

func TestUsage_SumsAcrossResourceClasses(t *testing.T) {
	inv := New()
	inv.VCNs.Set("ocid1.vcn.v1", VCN{DisplayName: "main", CIDR: "10.0.0.0/16"})
	inv.AMDInstances.Set("ocid1.instance.a1", Instance{DisplayName: "web-1", Shape: "VM.Standard.E2.1.Micro"})
	inv.AMDInstances.Set("ocid1.instance.a2", Instance{DisplayName: "web-2", Shape: "VM.Standard.E2.1.Micro"})
	inv.ARMInstances.Set("ocid1.instance.b1", Instance{DisplayName: "arm-1", OCPUs: 3, MemoryGB: 18})
	inv.ARMInstances.Set("ocid1.instance.b2", Instance{DisplayName: "arm-2", OCPUs: 1, MemoryGB: 6})
	inv.BootVolumes.Set("ocid1.bootvolume.v1", Volume{DisplayName: "arm-1 (Boot)", SizeGB: 47})
	inv.BootVolumes.Set("ocid1.bootvolume.v2", Volume{DisplayName: "arm-2 (Boot)", SizeGB: 50})
	inv.BlockVolumes.Set("ocid1.volume.v1", Volume{DisplayName: "data", SizeGB: 60})

	assert.Equal(t, freetier.Usage{
		AMDInstances: 2,
		ARMOCPUs:     4,
		ARMMemoryGB:  24,
		StorageGB:    157,
		VCNs:         1,
	}, inv.Usage())
}

func TestUsage_OverwritingAnIDDoesNotDoubleCount(t *testing.T) {
	inv := New()
	inv.BlockVolumes.Set("ocid1.volume.v1", Volume{DisplayName: "data", SizeGB: 60})
	inv.BlockVolumes.Set("ocid1.volume.v1", Volume{DisplayName: "data", SizeGB: 80})

	assert.Equal(t, 80, inv.Usage().StorageGB)
}
