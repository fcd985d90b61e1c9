package inventory

import (
	"context"
	"log/slog"

	"github.com/oracle/oci-go-sdk/v65/core"

	"github.com/cloudbooter/cloudbooter/internal/oci/auth"
	"github.com/cloudbooter/cloudbooter/internal/oci/freetier"
)

// ComputeAPI is the slice of the compute client the builder uses. The
// real core.ComputeClient satisfies it.
type ComputeAPI interface {
	ListInstances(ctx context.Context, request core.ListInstancesRequest) (core.ListInstancesResponse, error)
	ListVnicAttachments(ctx context.Context, request core.ListVnicAttachmentsRequest) (core.ListVnicAttachmentsResponse, error)
}

// NetworkAPI is the slice of the virtual network client the builder
// uses. The real core.VirtualNetworkClient satisfies it.
type NetworkAPI interface {
	GetVnic(ctx context.Context, request core.GetVnicRequest) (core.GetVnicResponse, error)
	ListVcns(ctx context.Context, request core.ListVcnsRequest) (core.ListVcnsResponse, error)
	ListSubnets(ctx context.Context, request core.ListSubnetsRequest) (core.ListSubnetsResponse, error)
	ListInternetGateways(ctx context.Context, request core.ListInternetGatewaysRequest) (core.ListInternetGatewaysResponse, error)
	ListRouteTables(ctx context.Context, request core.ListRouteTablesRequest) (core.ListRouteTablesResponse, error)
	ListSecurityLists(ctx context.Context, request core.ListSecurityListsRequest) (core.ListSecurityListsResponse, error)
}

// StorageAPI is the slice of the block storage client the builder uses.
// The real core.BlockstorageClient satisfies it.
type StorageAPI interface {
	ListBootVolumes(ctx context.Context, request core.ListBootVolumesRequest) (core.ListBootVolumesResponse, error)
	ListVolumes(ctx context.Context, request core.ListVolumesRequest) (core.ListVolumesResponse, error)
}

// Builder queries the tenancy and fills an Inventory. Instances are
// classified by shape against the free-tier shapes; everything else is
// counted as-is.
type Builder struct {
	authCtx auth.Context
	limits  freetier.Limits
	logger  *slog.Logger
	compute ComputeAPI
	network NetworkAPI
	storage StorageAPI
}

// NewBuilder creates a Builder over the given API clients.
func NewBuilder(authCtx auth.Context, logger *slog.Logger, compute ComputeAPI, network NetworkAPI, storage StorageAPI) *Builder {
	return &Builder{
		authCtx: authCtx,
		limits:  freetier.Default(),
		logger:  logger,
		compute: compute,
		network: network,
		storage: storage,
	}
}

// Build takes the full snapshot. Each resource class is queried
// independently; a failure empties that class only.
func (b *Builder) Build(ctx context.Context) *Inventory {
	inv := New()
	b.collectInstances(ctx, inv)
	b.collectNetworking(ctx, inv)
	b.collectVolumes(ctx, inv)
	return inv
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
