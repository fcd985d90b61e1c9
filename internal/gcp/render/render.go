// Package render produces the Terraform working directory for a GCP
// deployment: provider.tf, variables.tf, data_sources.tf, main.tf and the
// cloud-init user data. Every .tf file is formatted and parse-checked
// before it is returned, so callers never write syntactically broken HCL
// to disk. Rendering is deterministic: the same parameters always yield
// byte-identical files.
package render

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/cloudbooter/cloudbooter/internal/gcp/freetier"
	"github.com/cloudbooter/cloudbooter/internal/hclfmt"
)

//go:embed templates
var templates embed.FS

var tmpl = template.Must(template.ParseFS(templates,
	"templates/provider.tf.tmpl",
	"templates/variables.tf.tmpl",
	"templates/cloud-init.yaml.tmpl",
))

// Params describes one GCP deployment to render.
type Params struct {
	ProjectID    string
	Region       string
	Zone         string
	InstanceName string

	// MachineType defaults to the free-tier machine type when empty.
	MachineType string
	// BootDiskSizeGB defaults to the free standard PD allowance when zero.
	BootDiskSizeGB int

	// CredentialsFile, when set, wires an explicit key file through the
	// provider block instead of ADC.
	CredentialsFile string
	// ImpersonateServiceAccount, when set, adds provider-level service
	// account impersonation.
	ImpersonateServiceAccount string
	// StorageRegion, when set, adds the storage bucket variable and its
	// free-tier region check.
	StorageRegion string

	// ExtraPackages are appended to the default cloud-init package set.
	ExtraPackages []string
}

func (p Params) withDefaults() Params {
	limits := freetier.Default()
	if p.MachineType == "" {
		p.MachineType = limits.FreeMachineType
	}
	if p.BootDiskSizeGB == 0 {
		p.BootDiskSizeGB = limits.FreeStandardPDGB
	}
	return p
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}

func renderHCL(name string, data any) (string, error) {
	var sb strings.Builder
	if err := tmpl.ExecuteTemplate(&sb, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	out, err := hclfmt.Format(strings.TrimSuffix(name, ".tmpl"), []byte(sb.String()))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Provider renders provider.tf. Credentials and impersonation attributes
// appear only when the corresponding Params fields are set.
func Provider(p Params) (string, error) {
	return renderHCL("provider.tf.tmpl", map[string]any{
		"IncludeCredentials":   p.CredentialsFile != "",
		"IncludeImpersonation": p.ImpersonateServiceAccount != "",
	})
}

// Variables renders variables.tf including the free-tier check blocks.
func Variables(p Params) (string, error) {
	p = p.withDefaults()
	limits := freetier.Default()
	return renderHCL("variables.tf.tmpl", map[string]any{
		"ProjectID":            p.ProjectID,
		"Region":               p.Region,
		"Zone":                 p.Zone,
		"InstanceName":         p.InstanceName,
		"MachineType":          p.MachineType,
		"BootDiskSizeGB":       p.BootDiskSizeGB,
		"IncludeCredentials":   p.CredentialsFile != "",
		"IncludeImpersonation": p.ImpersonateServiceAccount != "",
		"IncludeStorage":       p.StorageRegion != "",
		"StorageRegion":        p.StorageRegion,
		"FreeMachineType":      limits.FreeMachineType,
		"FreeStandardPDGB":     limits.FreeStandardPDGB,
		"ComputeRegionList":    quoteList(limits.ComputeRegions()),
		"StorageRegionList":    quoteList(limits.StorageRegions()),
	})
}

// DataSources renders data_sources.tf.
func DataSources() (string, error) {
	src, err := templates.ReadFile("templates/data_sources.tf")
	if err != nil {
		return "", err
	}
	out, err := hclfmt.Format("data_sources.tf", src)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Main renders main.tf: network, firewalls, boot disk, the instance and
// its outputs.
func Main() (string, error) {
	src, err := templates.ReadFile("templates/main.tf")
	if err != nil {
		return "", err
	}
	out, err := hclfmt.Format("main.tf", src)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// CloudInit renders the cloud-init user data for the given hostname and
// verifies it parses as YAML.
func CloudInit(hostname string, extraPackages []string) (string, error) {
	var sb strings.Builder
	err := tmpl.ExecuteTemplate(&sb, "cloud-init.yaml.tmpl", map[string]any{
		"Hostname":      hostname,
		"ExtraPackages": extraPackages,
	})
	if err != nil {
		return "", fmt.Errorf("render cloud-init.yaml: %w", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(sb.String()), &doc); err != nil {
		return "", fmt.Errorf("generated cloud-init.yaml is not valid YAML: %w", err)
	}
	return sb.String(), nil
}

// WriteFiles renders the full Terraform working directory into dir,
// creating it if needed.
func WriteFiles(dir string, p Params) error {
	p = p.withDefaults()

	provider, err := Provider(p)
	if err != nil {
		return err
	}
	variables, err := Variables(p)
	if err != nil {
		return err
	}
	dataSources, err := DataSources()
	if err != nil {
		return err
	}
	mainTF, err := Main()
	if err != nil {
		return err
	}
	cloudInit, err := CloudInit(p.InstanceName, p.ExtraPackages)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create terraform dir: %w", err)
	}
	files := map[string]string{
		"provider.tf":     provider,
		"variables.tf":    variables,
		"data_sources.tf": dataSources,
		"main.tf":         mainTF,
		"cloud-init.yaml": cloudInit,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}
