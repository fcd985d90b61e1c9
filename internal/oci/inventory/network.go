package inventory

import (
	"context"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/core"
)

// collectNetworking lists available VCNs and, per VCN, the subnets,
// internet gateways, route tables, and security lists scoped to it.
func (b *Builder) collectNetworking(ctx context.Context, inv *Inventory) {
	var page *string
	for {
		resp, err := b.network.ListVcns(ctx, core.ListVcnsRequest{
			CompartmentId: common.String(b.authCtx.TenancyOCID),
			Page:          page,
		})
		if err != nil {
			b.logger.Debug("vcn listing failed", "error", err)
			return
		}
		for _, vcn := range resp.Items {
			if vcn.LifecycleState != core.VcnLifecycleStateAvailable {
				continue
			}
			vcnID := strOrEmpty(vcn.Id)
			cidr := ""
			if len(vcn.CidrBlocks) > 0 {
				cidr = vcn.CidrBlocks[0]
			}
			inv.VCNs.Set(vcnID, VCN{DisplayName: strOrEmpty(vcn.DisplayName), CIDR: cidr})
			b.collectVCNScoped(ctx, inv, vcnID)
		}
		if resp.OpcNextPage == nil {
			break
		}
		page = resp.OpcNextPage
	}
}

func (b *Builder) collectVCNScoped(ctx context.Context, inv *Inventory, vcnID string) {
	var page *string
	for {
		resp, err := b.network.ListSubnets(ctx, core.ListSubnetsRequest{
			CompartmentId: common.String(b.authCtx.TenancyOCID),
			VcnId:         common.String(vcnID),
			Page:          page,
		})
		if err != nil {
			b.logger.Debug("subnet listing failed", "vcn", vcnID, "error", err)
			break
		}
		for _, subnet := range resp.Items {
			if subnet.LifecycleState != core.SubnetLifecycleStateAvailable {
				continue
			}
			inv.Subnets.Set(strOrEmpty(subnet.Id), Subnet{
				DisplayName: strOrEmpty(subnet.DisplayName),
				CIDR:        strOrEmpty(subnet.CidrBlock),
				VCNID:       vcnID,
			})
		}
		if resp.OpcNextPage == nil {
			break
		}
		page = resp.OpcNextPage
	}

	page = nil
	for {
		resp, err := b.network.ListInternetGateways(ctx, core.ListInternetGatewaysRequest{
			CompartmentId: common.String(b.authCtx.TenancyOCID),
			VcnId:         common.String(vcnID),
			Page:          page,
		})
		if err != nil {
			b.logger.Debug("internet gateway listing failed", "vcn", vcnID, "error", err)
			break
		}
		for _, igw := range resp.Items {
			if igw.LifecycleState != core.InternetGatewayLifecycleStateAvailable {
				continue
			}
			inv.InternetGateways.Set(strOrEmpty(igw.Id), Attachment{
				DisplayName: strOrEmpty(igw.DisplayName),
				VCNID:       vcnID,
			})
		}
		if resp.OpcNextPage == nil {
			break
		}
		page = resp.OpcNextPage
	}

	page = nil
	for {
		resp, err := b.network.ListRouteTables(ctx, core.ListRouteTablesRequest{
			CompartmentId: common.String(b.authCtx.TenancyOCID),
			VcnId:         common.String(vcnID),
			Page:          page,
		})
		if err != nil {
			b.logger.Debug("route table listing failed", "vcn", vcnID, "error", err)
			break
		}
		for _, rt := range resp.Items {
			inv.RouteTables.Set(strOrEmpty(rt.Id), Attachment{
				DisplayName: strOrEmpty(rt.DisplayName),
				VCNID:       vcnID,
			})
		}
		if resp.OpcNextPage == nil {
			break
		}
		page = resp.OpcNextPage
	}

	page = nil
	for {
		resp, err := b.network.ListSecurityLists(ctx, core.ListSecurityListsRequest{
			CompartmentId: common.String(b.authCtx.TenancyOCID),
			VcnId:         common.String(vcnID),
			Page:          page,
		})
		if err != nil {
			b.logger.Debug("security list listing failed", "vcn", vcnID, "error", err)
			break
		}
		for _, sl := range resp.Items {
			inv.SecurityLists.Set(strOrEmpty(sl.Id), Attachment{
				DisplayName: strOrEmpty(sl.DisplayName),
				VCNID:       vcnID,
			})
		}
		if resp.OpcNextPage == nil {
			break
		}
		page = resp.OpcNextPage
	}
}
