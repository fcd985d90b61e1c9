// Package inventory takes a read-only snapshot of the OCI resources that
// already exist in a tenancy. It is populated by sequential queries, one
// per resource class; a failed query leaves that class empty so the
// planner always receives a usable (if conservative) inventory.
package inventory

import (
	"github.com/cloudbooter/cloudbooter/internal/collection"
	"github.com/cloudbooter/cloudbooter/internal/oci/freetier"
)

// Instance describes an existing compute instance.
type Instance struct {
	DisplayName string
	State       string
	Shape       string
	PublicIP    string
	PrivateIP   string
	// OCPUs and MemoryGB are populated for flexible-shape instances only.
	OCPUs    int
	MemoryGB int
}

// Volume describes an existing boot or block volume.
type Volume struct {
	DisplayName string
	SizeGB      int
}

// VCN describes an existing virtual cloud network.
type VCN struct {
	DisplayName string
	CIDR        string
}

// Subnet describes an existing subnet.
type Subnet struct {
	DisplayName string
	CIDR        string
	VCNID       string
}

// Attachment describes a VCN-scoped networking resource (internet gateway,
// route table, security list).
type Attachment struct {
	DisplayName string
	VCNID       string
}

// Inventory is the snapshot of what already exists in the tenancy, keyed
// by OCID within each collection. It is created empty, populated by the
// builder, consumed by the planner, and then discarded.
type Inventory struct {
	VCNs             *collection.Collection[VCN]
	Subnets          *collection.Collection[Subnet]
	InternetGateways *collection.Collection[Attachment]
	RouteTables      *collection.Collection[Attachment]
	SecurityLists    *collection.Collection[Attachment]
	AMDInstances     *collection.Collection[Instance]
	ARMInstances     *collection.Collection[Instance]
	BootVolumes      *collection.Collection[Volume]
	BlockVolumes     *collection.Collection[Volume]
}

// New creates an empty Inventory.
func New() *Inventory {
	return &Inventory{
		VCNs:             collection.New[VCN](),
		Subnets:          collection.New[Subnet](),
		InternetGateways: collection.New[Attachment](),
		RouteTables:      collection.New[Attachment](),
		SecurityLists:    collection.New[Attachment](),
		AMDInstances:     collection.New[Instance](),
		ARMInstances:     collection.New[Instance](),
		BootVolumes:      collection.New[Volume](),
		BlockVolumes:     collection.New[Volume](),
	}
}

// Usage sums what the inventory already consumes against the free-tier
// caps: AMD instance count, ARM OCPUs and memory, total boot+block
// storage, and VCN count.
func (inv *Inventory) Usage() freetier.Usage {
	u := freetier.Usage{
		AMDInstances: inv.AMDInstances.Len(),
		VCNs:         inv.VCNs.Len(),
	}
	for _, arm := range inv.ARMInstances.Values() {
		u.ARMOCPUs += arm.OCPUs
		u.ARMMemoryGB += arm.MemoryGB
	}
	for _, v := range inv.BootVolumes.Values() {
		u.StorageGB += v.SizeGB
	}
	for _, v := range inv.BlockVolumes.Values() {
		u.StorageGB += v.SizeGB
	}
	return u
}
