package inventory

import (
	"context"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/core"
)

// collectVolumes lists available boot and block volumes in the context's
// availability domain. Both series count against one storage quota.
func (b *Builder) collectVolumes(ctx context.Context, inv *Inventory) {
	var page *string
	for {
		resp, err := b.storage.ListBootVolumes(ctx, core.ListBootVolumesRequest{
			CompartmentId:      common.String(b.authCtx.TenancyOCID),
			AvailabilityDomain: common.String(b.authCtx.AvailabilityDomain),
			Page:               page,
		})
		if err != nil {
			b.logger.Debug("boot volume listing failed", "error", err)
			break
		}
		for _, boot := range resp.Items {
			if boot.LifecycleState != core.BootVolumeLifecycleStateAvailable {
				continue
			}
			size := 0
			if boot.SizeInGBs != nil {
				size = int(*boot.SizeInGBs)
			}
			inv.BootVolumes.Set(strOrEmpty(boot.Id), Volume{
				DisplayName: strOrEmpty(boot.DisplayName),
				SizeGB:      size,
			})
		}
		if resp.OpcNextPage == nil {
			break
		}
		page = resp.OpcNextPage
	}

	page = nil
	for {
		resp, err := b.storage.ListVolumes(ctx, core.ListVolumesRequest{
			CompartmentId:      common.String(b.authCtx.TenancyOCID),
			AvailabilityDomain: common.String(b.authCtx.AvailabilityDomain),
			Page:               page,
		})
		if err != nil {
			b.logger.Debug("block volume listing failed", "error", err)
			return
		}
		for _, block := range resp.Items {
			if block.LifecycleState != core.VolumeLifecycleStateAvailable {
				continue
			}
			size := 0
			if block.SizeInGBs != nil {
				size = int(*block.SizeInGBs)
			}
			inv.BlockVolumes.Set(strOrEmpty(block.Id), Volume{
				DisplayName: strOrEmpty(block.DisplayName),
				SizeGB:      size,
			})
		}
		if resp.OpcNextPage == nil {
			return
		}
		page = resp.OpcNextPage
	}
}
