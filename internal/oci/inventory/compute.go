package inventory

import (
	"context"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/core"
)

// collectInstances lists every non-terminated instance in the tenancy
// and files it under its free-tier class. Shapes outside the free tier
// are ignored; they do not count against any quota tracked here.
func (b *Builder) collectInstances(ctx context.Context, inv *Inventory) {
	var page *string
	for {
		resp, err := b.compute.ListInstances(ctx, core.ListInstancesRequest{
			CompartmentId: common.String(b.authCtx.TenancyOCID),
			Page:          page,
		})
		if err != nil {
			b.logger.Debug("instance listing failed", "error", err)
			return
		}
		for _, inst := range resp.Items {
			if inst.LifecycleState == core.InstanceLifecycleStateTerminated {
				continue
			}
			shape := strOrEmpty(inst.Shape)
			if shape != b.limits.AMDShape && shape != b.limits.ARMShape {
				continue
			}
			record := Instance{
				DisplayName: strOrEmpty(inst.DisplayName),
				State:       string(inst.LifecycleState),
				Shape:       shape,
			}
			record.PublicIP, record.PrivateIP = b.instanceAddresses(ctx, strOrEmpty(inst.Id))
			if shape == b.limits.AMDShape {
				inv.AMDInstances.Set(strOrEmpty(inst.Id), record)
				continue
			}
			if cfg := inst.ShapeConfig; cfg != nil {
				if cfg.Ocpus != nil {
					record.OCPUs = int(*cfg.Ocpus)
				}
				if cfg.MemoryInGBs != nil {
					record.MemoryGB = int(*cfg.MemoryInGBs)
				}
			}
			inv.ARMInstances.Set(strOrEmpty(inst.Id), record)
		}
		if resp.OpcNextPage == nil {
			break
		}
		page = resp.OpcNextPage
	}
}

// instanceAddresses resolves the instance's primary VNIC addresses.
// Failures fall back to "none", matching an instance with no VNIC.
func (b *Builder) instanceAddresses(ctx context.Context, instanceID string) (publicIP, privateIP string) {
	publicIP, privateIP = "none", "none"

	attachments, err := b.compute.ListVnicAttachments(ctx, core.ListVnicAttachmentsRequest{
		CompartmentId: common.String(b.authCtx.TenancyOCID),
		InstanceId:    common.String(instanceID),
	})
	if err != nil {
		b.logger.Debug("vnic attachment listing failed", "instance", instanceID, "error", err)
		return publicIP, privateIP
	}
	for _, att := range attachments.Items {
		if att.LifecycleState != core.VnicAttachmentLifecycleStateAttached {
			continue
		}
		vnic, err := b.network.GetVnic(ctx, core.GetVnicRequest{VnicId: att.VnicId})
		if err != nil {
			b.logger.Debug("vnic lookup failed", "instance", instanceID, "error", err)
			return publicIP, privateIP
		}
		if ip := strOrEmpty(vnic.PublicIp); ip != "" {
			publicIP = ip
		}
		if ip := strOrEmpty(vnic.PrivateIp); ip != "" {
			privateIP = ip
		}
		return publicIP, privateIP
	}
	return publicIP, privateIP
}
