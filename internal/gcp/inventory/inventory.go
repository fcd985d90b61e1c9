// Package inventory lists the GCP resources already present in a project
// before any Terraform is generated. Listing is read-only. The primary
// source is the gcloud CLI in JSON mode; for instances and buckets the
// Google API clients serve as a fallback when gcloud is missing or
// failing. Listing errors never abort a run, they just leave the
// affected class empty.
package inventory

import (
	"context"
	"encoding/json"
	"log/slog"
	"os/exec"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/compute/v1"
	"google.golang.org/api/iterator"

	"github.com/cloudbooter/cloudbooter/internal/collection"
)

// Field names follow the gcloud JSON output.

type VPC struct {
	Name                  string `json:"name"`
	AutoCreateSubnetworks bool   `json:"autoCreateSubnetworks"`
}

type Subnet struct {
	Name        string `json:"name"`
	IPCIDRRange string `json:"ipCidrRange"`
	Region      string `json:"region"`
}

type Firewall struct {
	Name      string `json:"name"`
	Direction string `json:"direction"`
}

type Instance struct {
	Name        string `json:"name"`
	MachineType string `json:"machineType"`
	Status      string `json:"status"`
	Zone        string `json:"zone"`
}

type Disk struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	SizeGB string `json:"sizeGb"`
	Zone   string `json:"zone"`
}

type StaticIP struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Status  string `json:"status"`
}

type Bucket struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

type FirestoreDB struct {
	Name string `json:"name"`
}

// Inventory holds every discovered resource keyed by name.
type Inventory struct {
	VPCs         *collection.Collection[VPC]
	Subnets      *collection.Collection[Subnet]
	Firewalls    *collection.Collection[Firewall]
	Instances    *collection.Collection[Instance]
	Disks        *collection.Collection[Disk]
	StaticIPs    *collection.Collection[StaticIP]
	Buckets      *collection.Collection[Bucket]
	FirestoreDBs *collection.Collection[FirestoreDB]
}

// New creates an empty Inventory.
func New() *Inventory {
	return &Inventory{
		VPCs:         collection.New[VPC](),
		Subnets:      collection.New[Subnet](),
		Firewalls:    collection.New[Firewall](),
		Instances:    collection.New[Instance](),
		Disks:        collection.New[Disk](),
		StaticIPs:    collection.New[StaticIP](),
		Buckets:      collection.New[Bucket](),
		FirestoreDBs: collection.New[FirestoreDB](),
	}
}

// ReservedUnattachedIPs returns the names of static IPs that are
// RESERVED but not attached to anything. These bill continuously, the
// one silent cost trap a free-tier project tends to accumulate.
func (inv *Inventory) ReservedUnattachedIPs() []string {
	var names []string
	for _, id := range inv.StaticIPs.IDs() {
		ip, _ := inv.StaticIPs.Get(id)
		if strings.EqualFold(ip.Status, "RESERVED") {
			names = append(names, id)
		}
	}
	return names
}

// CommandRunner executes gcloud with the given arguments and returns its
// stdout. Injectable for tests.
type CommandRunner func(ctx context.Context, args ...string) ([]byte, error)

// Builder collects the inventory for one project.
type Builder struct {
	project string
	region  string
	logger  *slog.Logger
	run     CommandRunner
	compute *compute.Service
	storage *storage.Client
}

// Option configures a Builder.
type Option func(*Builder)

// WithCommandRunner replaces the gcloud executor, for tests.
func WithCommandRunner(run CommandRunner) Option {
	return func(b *Builder) { b.run = run }
}

// WithComputeService provides the API fallback for listing instances.
func WithComputeService(svc *compute.Service) Option {
	return func(b *Builder) { b.compute = svc }
}

// WithStorageClient provides the API fallback for listing buckets.
func WithStorageClient(client *storage.Client) Option {
	return func(b *Builder) { b.storage = client }
}

// NewBuilder creates a Builder. region may be empty to list across all
// regions.
func NewBuilder(project, region string, logger *slog.Logger, opts ...Option) *Builder {
	b := &Builder{
		project: project,
		region:  region,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.run == nil {
		b.run = gcloudRunner(project)
	}
	return b
}

func gcloudRunner(project string) CommandRunner {
	return func(ctx context.Context, args ...string) ([]byte, error) {
		path, err := exec.LookPath("gcloud")
		if err != nil {
			return nil, err
		}
		full := append(args, "--format=json", "--quiet")
		if project != "" {
			full = append(full, "--project="+project)
		}
		return exec.CommandContext(ctx, path, full...).Output()
	}
}

// list runs gcloud and decodes the JSON array into out. A false return
// means the command failed and a fallback should be tried.
func (b *Builder) list(ctx context.Context, out any, args ...string) bool {
	raw, err := b.run(ctx, args...)
	if err != nil {
		b.logger.Debug("gcloud listing failed", "args", strings.Join(args, " "), "error", err)
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		b.logger.Debug("gcloud output not parseable", "args", strings.Join(args, " "), "error", err)
		return false
	}
	return true
}

// Build runs the full read-only inventory.
func (b *Builder) Build(ctx context.Context) *Inventory {
	inv := New()

	var vpcs []VPC
	if b.list(ctx, &vpcs, "compute", "networks", "list") {
		for _, v := range vpcs {
			inv.VPCs.Set(v.Name, v)
		}
	}

	subnetArgs := []string{"compute", "subnets", "list"}
	if b.region != "" {
		subnetArgs = append(subnetArgs, "--filter=region:"+b.region)
	}
	var subnets []Subnet
	if b.list(ctx, &subnets, subnetArgs...) {
		for _, s := range subnets {
			inv.Subnets.Set(s.Name, s)
		}
	}

	var firewalls []Firewall
	if b.list(ctx, &firewalls, "compute", "firewall-rules", "list") {
		for _, f := range firewalls {
			inv.Firewalls.Set(f.Name, f)
		}
	}

	instanceArgs := []string{"compute", "instances", "list"}
	if b.region != "" {
		instanceArgs = append(instanceArgs, "--filter=zone~"+b.region)
	}
	var instances []Instance
	if b.list(ctx, &instances, instanceArgs...) {
		for _, inst := range instances {
			inv.Instances.Set(inst.Name, inst)
		}
	} else {
		for _, inst := range b.instancesViaAPI(ctx) {
			inv.Instances.Set(inst.Name, inst)
		}
	}

	diskArgs := []string{"compute", "disks", "list"}
	if b.region != "" {
		diskArgs = append(diskArgs, "--filter=zone~"+b.region)
	}
	var disks []Disk
	if b.list(ctx, &disks, diskArgs...) {
		for _, d := range disks {
			inv.Disks.Set(d.Name, d)
		}
	}

	addrArgs := []string{"compute", "addresses", "list"}
	if b.region != "" {
		addrArgs = append(addrArgs, "--filter=region:"+b.region)
	}
	var addrs []StaticIP
	if b.list(ctx, &addrs, addrArgs...) {
		for _, a := range addrs {
			inv.StaticIPs.Set(a.Name, a)
		}
	}

	var buckets []Bucket
	if b.list(ctx, &buckets, "storage", "buckets", "list") {
		for _, bucket := range buckets {
			name := strings.TrimSuffix(bucket.Name, "/")
			if name != "" {
				bucket.Name = name
				inv.Buckets.Set(name, bucket)
			}
		}
	} else {
		for _, bucket := range b.bucketsViaAPI(ctx) {
			inv.Buckets.Set(bucket.Name, bucket)
		}
	}

	var dbs []FirestoreDB
	if b.list(ctx, &dbs, "firestore", "databases", "list") {
		for _, db := range dbs {
			name := db.Name
			if name == "" {
				name = "unknown"
			}
			inv.FirestoreDBs.Set(name, db)
		}
	}

	return inv
}

// instancesViaAPI aggregates instances across all zones with the Compute
// API. Errors degrade to an empty list.
func (b *Builder) instancesViaAPI(ctx context.Context) []Instance {
	if b.compute == nil {
		return nil
	}
	var out []Instance
	err := b.compute.Instances.AggregatedList(b.project).Pages(ctx, func(page *compute.InstanceAggregatedList) error {
		for zone, scoped := range page.Items {
			if b.region != "" && !strings.Contains(zone, b.region) {
				continue
			}
			for _, inst := range scoped.Instances {
				out = append(out, Instance{
					Name:        inst.Name,
					MachineType: inst.MachineType,
					Status:      inst.Status,
					Zone:        inst.Zone,
				})
			}
		}
		return nil
	})
	if err != nil {
		b.logger.Debug("compute API instance listing failed", "error", err)
		return nil
	}
	return out
}

// bucketsViaAPI lists buckets with the Cloud Storage client. Errors
// degrade to an empty list.
func (b *Builder) bucketsViaAPI(ctx context.Context) []Bucket {
	if b.storage == nil {
		return nil
	}
	var out []Bucket
	it := b.storage.Buckets(ctx, b.project)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			b.logger.Debug("storage API bucket listing failed", "error", err)
			return nil
		}
		out = append(out, Bucket{Name: attrs.Name, Location: attrs.Location})
	}
	return out
}
