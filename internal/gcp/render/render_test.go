package render

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudbooter/cloudbooter/internal/hclfmt"
)

var baseParams = Params{
	ProjectID:    "proj",
	Region:       "us-central1",
	Zone:         "us-central1-a",
	InstanceName: "test-vm",
}

// squash collapses runs of spaces so assertions are independent of the
// attribute alignment the formatter applies.
func squash(s string) string {
	return regexp.MustCompile(` +`).ReplaceAllString(s, " ")
}

func TestProvider_ADC(t *testing.T) {
	out, err := Provider(baseParams)
	require.NoError(t, err)

	assert.Contains(t, out, `required_version = ">= 1.6.0"`)
	assert.Contains(t, out, `source  = "hashicorp/google"`)
	assert.Contains(t, out, `version = "~> 6.0"`)
	assert.Contains(t, out, "project = var.project_id")
	assert.Contains(t, out, "region  = var.region")
	assert.NotContains(t, out, "credentials")
	assert.NotContains(t, out, "impersonate_service_account")
}

func TestProvider_CredentialsFile(t *testing.T) {
	p := baseParams
	p.CredentialsFile = "/tmp/sa.json"

	out, err := Provider(p)
	require.NoError(t, err)
	assert.Contains(t, out, "credentials = file(var.credentials_file)")
	assert.NotContains(t, out, "impersonate_service_account")
}

func TestProvider_Impersonation(t *testing.T) {
	p := baseParams
	p.ImpersonateServiceAccount = "tf@proj.iam.gserviceaccount.com"

	out, err := Provider(p)
	require.NoError(t, err)
	assert.Contains(t, out, "impersonate_service_account = var.impersonate_service_account")
}

func TestProvider_CredentialsAndImpersonationCoexist(t *testing.T) {
	p := baseParams
	p.CredentialsFile = "/tmp/sa.json"
	p.ImpersonateServiceAccount = "tf@proj.iam.gserviceaccount.com"

	out, err := Provider(p)
	require.NoError(t, err)
	assert.Contains(t, out, "credentials")
	assert.Contains(t, out, "impersonate_service_account")
}

func TestVariables_CoreVariables(t *testing.T) {
	out, err := Variables(baseParams)
	require.NoError(t, err)

	for _, block := range []string{
		`variable "project_id"`,
		`variable "region"`,
		`variable "zone"`,
		`variable "machine_type"`,
		`variable "boot_disk_size_gb"`,
		`variable "instance_name"`,
		`variable "ssh_public_key"`,
	} {
		assert.Contains(t, out, block)
	}
	assert.Contains(t, out, `"us-central1"`)
	assert.Contains(t, out, `"us-central1-a"`)
	assert.Contains(t, out, `"e2-micro"`)
	assert.Contains(t, out, `"test-vm"`)
}

func TestVariables_BootDiskDefaultReflectsParams(t *testing.T) {
	p := baseParams
	p.BootDiskSizeGB = 25

	out, err := Variables(p)
	require.NoError(t, err)
	assert.Contains(t, squash(out), "default = 25")
}

func TestVariables_CheckBlocks(t *testing.T) {
	out, err := Variables(baseParams)
	require.NoError(t, err)

	assert.Contains(t, out, `check "e2_micro_machine_type"`)
	assert.Contains(t, out, `var.machine_type == "e2-micro"`)
	assert.Contains(t, out, `check "compute_region_free_tier"`)
	assert.Contains(t, out, `"us-west1"`)
	assert.Contains(t, out, `"us-central1"`)
	assert.Contains(t, out, `"us-east1"`)
	assert.Contains(t, out, `check "standard_pd_limit"`)
	assert.Contains(t, out, "<= 30")
}

func TestVariables_OptionalVariablesAbsentByDefault(t *testing.T) {
	out, err := Variables(baseParams)
	require.NoError(t, err)

	assert.NotContains(t, out, `variable "credentials_file"`)
	assert.NotContains(t, out, `variable "impersonate_service_account"`)
	assert.NotContains(t, out, `variable "storage_region"`)
	assert.NotContains(t, out, `check "storage_region_free_tier"`)
}

func TestVariables_OptionalVariablesPresentWhenRequested(t *testing.T) {
	p := baseParams
	p.CredentialsFile = "/tmp/sa.json"
	p.ImpersonateServiceAccount = "tf@proj.iam.gserviceaccount.com"
	p.StorageRegion = "us-east1"

	out, err := Variables(p)
	require.NoError(t, err)
	assert.Contains(t, out, `variable "credentials_file"`)
	assert.Contains(t, out, `variable "impersonate_service_account"`)
	assert.Contains(t, out, `variable "storage_region"`)
	assert.Contains(t, out, `check "storage_region_free_tier"`)
}

func TestDataSources(t *testing.T) {
	out, err := DataSources()
	require.NoError(t, err)

	assert.Contains(t, out, `data "google_compute_image" "ubuntu"`)
	assert.Contains(t, out, `family  = "ubuntu-2404-lts-amd64"`)
	assert.Contains(t, out, `project = "ubuntu-os-cloud"`)
	assert.Contains(t, out, `data "google_project" "current"`)
	assert.Contains(t, out, `data "google_compute_zones" "available"`)
}

func TestMain_Resources(t *testing.T) {
	out, err := Main()
	require.NoError(t, err)
	flat := squash(out)

	assert.Contains(t, out, `resource "google_compute_network" "vpc"`)
	assert.Contains(t, flat, "auto_create_subnetworks = false")
	assert.Contains(t, out, `resource "google_compute_subnetwork" "subnet"`)
	assert.Contains(t, out, "10.0.0.0/24")
	assert.Contains(t, flat, "region = var.region")
	assert.Contains(t, out, `resource "google_compute_firewall" "allow_ssh"`)
	assert.Contains(t, out, `"22"`)
	assert.Contains(t, out, `resource "google_compute_firewall" "allow_icmp"`)
	assert.Contains(t, flat, `protocol = "icmp"`)
	assert.Contains(t, out, `resource "google_compute_disk" "boot"`)
	assert.Contains(t, flat, `type = "pd-standard"`)
	assert.Contains(t, out, `resource "google_compute_instance" "vm"`)
	assert.Contains(t, flat, "machine_type = var.machine_type")
	assert.Contains(t, flat, "zone = var.zone")
}

func TestMain_InstanceBehavior(t *testing.T) {
	out, err := Main()
	require.NoError(t, err)
	flat := squash(out)

	// Empty access_config means an ephemeral external IP.
	assert.Contains(t, out, "access_config {}")
	assert.Contains(t, flat, "preemptible = false")
	assert.Contains(t, flat, "automatic_restart = true")
	assert.Contains(t, out, `"MIGRATE"`)
	assert.Contains(t, out, `"ssh-keys"`)
	// The boot disk survives instance destruction.
	assert.Contains(t, flat, "auto_delete = false")
}

func TestMain_Outputs(t *testing.T) {
	out, err := Main()
	require.NoError(t, err)

	assert.Contains(t, out, `output "instance_external_ip"`)
	assert.Contains(t, out, `output "ssh_command"`)
	assert.Contains(t, out, `output "console_url"`)
}

func TestCloudInit(t *testing.T) {
	out, err := CloudInit("my-host", nil)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "#cloud-config"))
	assert.Contains(t, out, "hostname: my-host")
	assert.Contains(t, out, "fqdn: my-host.local")
	assert.Contains(t, out, "package_update: true")
	assert.Contains(t, out, "package_upgrade: true")
	for _, pkg := range []string{"curl", "wget", "git", "vim", "unattended-upgrades"} {
		assert.Contains(t, out, "  - "+pkg)
	}
	assert.Contains(t, out, "runcmd:")
	assert.NotContains(t, out, "docker.io")
}

func TestCloudInit_ExtraPackages(t *testing.T) {
	out, err := CloudInit("my-host", []string{"docker.io", "python3-pip"})
	require.NoError(t, err)
	assert.Contains(t, out, "  - docker.io")
	assert.Contains(t, out, "  - python3-pip")
}

func TestRendering_Deterministic(t *testing.T) {
	p := baseParams
	p.StorageRegion = "us-east1"

	a1, err := Variables(p)
	require.NoError(t, err)
	a2, err := Variables(p)
	require.NoError(t, err)
	assert.Equal(t, a1, a2)

	b1, err := CloudInit("vm", []string{"jq"})
	require.NoError(t, err)
	b2, err := CloudInit("vm", []string{"jq"})
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestRendering_OutputIsFormatStable(t *testing.T) {
	for name, render := range map[string]func() (string, error){
		"provider.tf":     func() (string, error) { return Provider(baseParams) },
		"variables.tf":    func() (string, error) { return Variables(baseParams) },
		"data_sources.tf": DataSources,
		"main.tf":         Main,
	} {
		out, err := render()
		require.NoError(t, err, name)
		again, err := hclfmt.Format(name, []byte(out))
		require.NoError(t, err, name)
		assert.Equal(t, out, string(again), name)
	}
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir() + "/terraform"
	require.NoError(t, WriteFiles(dir, baseParams))

	for _, name := range []string{"provider.tf", "variables.tf", "data_sources.tf", "main.tf", "cloud-init.yaml"} {
		assert.FileExists(t, dir+"/"+name)
	}
}
