package auth

import (
	"context"
	"fmt"
	"os"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/core"
	"github.com/oracle/oci-go-sdk/v65/identity"

	"github.com/cloudbooter/cloudbooter/internal/oci/freetier"
)

// Context is everything about the tenancy the planner and renderers need.
type Context struct {
	TenancyOCID        string
	UserOCID           string
	Region             string
	AvailabilityDomain string
	// Image OCIDs are empty when no matching image exists in the region;
	// the planner then skips that instance class.
	UbuntuX86ImageOCID string
	UbuntuARMImageOCID string
}

// IdentityAPI is the slice of the identity client used here. The real
// identity.IdentityClient satisfies it.
type IdentityAPI interface {
	ListAvailabilityDomains(ctx context.Context, request identity.ListAvailabilityDomainsRequest) (identity.ListAvailabilityDomainsResponse, error)
}

// ComputeAPI is the slice of the compute client used here. The real
// core.ComputeClient satisfies it.
type ComputeAPI interface {
	ListImages(ctx context.Context, request core.ListImagesRequest) (core.ListImagesResponse, error)
}

// ContextOptions carry explicit overrides from flags or environment.
type ContextOptions struct {
	TenancyOCID string
	Region      string
}

// BuildContext resolves the deployment context: tenancy OCID and region
// from overrides, the configuration provider, or OCI_REGION; the first
// availability domain; and the newest available Canonical Ubuntu image
// for each free-tier shape.
func BuildContext(ctx context.Context, provider common.ConfigurationProvider, identityClient IdentityAPI, computeClient ComputeAPI, opts ContextOptions) (Context, error) {
	tenancy := opts.TenancyOCID
	if tenancy == "" {
		tenancy, _ = provider.TenancyOCID()
	}
	if tenancy == "" {
		return Context{}, fmt.Errorf("unable to determine tenancy OCID, pass --tenancy-ocid")
	}

	region := opts.Region
	if region == "" {
		region, _ = provider.Region()
	}
	if region == "" {
		region = os.Getenv("OCI_REGION")
	}
	if region == "" {
		return Context{}, fmt.Errorf("unable to determine OCI region, pass --region")
	}

	userOCID, _ := provider.UserOCID()

	ad, err := firstAvailabilityDomain(ctx, identityClient, tenancy)
	if err != nil {
		return Context{}, err
	}

	limits := freetier.Default()
	x86Image, err := newestUbuntuImage(ctx, computeClient, tenancy, limits.AMDShape)
	if err != nil {
		return Context{}, err
	}
	armImage, err := newestUbuntuImage(ctx, computeClient, tenancy, limits.ARMShape)
	if err != nil {
		return Context{}, err
	}

	return Context{
		TenancyOCID:        tenancy,
		UserOCID:           userOCID,
		Region:             region,
		AvailabilityDomain: ad,
		UbuntuX86ImageOCID: x86Image,
		UbuntuARMImageOCID: armImage,
	}, nil
}

func firstAvailabilityDomain(ctx context.Context, client IdentityAPI, tenancy string) (string, error) {
	resp, err := client.ListAvailabilityDomains(ctx, identity.ListAvailabilityDomainsRequest{
		CompartmentId: common.String(tenancy),
	})
	if err != nil {
		return "", fmt.Errorf("list availability domains: %w", err)
	}
	if len(resp.Items) == 0 {
		return "", fmt.Errorf("no availability domains returned for tenancy")
	}
	return *resp.Items[0].Name, nil
}

// newestUbuntuImage returns the OCID of the newest AVAILABLE Canonical
// Ubuntu image compatible with shape, or empty when the region has none.
func newestUbuntuImage(ctx context.Context, client ComputeAPI, tenancy, shape string) (string, error) {
	var page *string
	for {
		resp, err := client.ListImages(ctx, core.ListImagesRequest{
			CompartmentId:   common.String(tenancy),
			OperatingSystem: common.String("Canonical Ubuntu"),
			Shape:           common.String(shape),
			SortBy:          core.ListImagesSortByTimecreated,
			SortOrder:       core.ListImagesSortOrderDesc,
			Page:            page,
		})
		if err != nil {
			return "", fmt.Errorf("list images for shape %s: %w", shape, err)
		}
		for _, image := range resp.Items {
			if image.LifecycleState == core.ImageLifecycleStateAvailable {
				return *image.Id, nil
			}
		}
		if resp.OpcNextPage == nil {
			return "", nil
		}
		page = resp.OpcNextPage
	}
}
