// Package render produces the Terraform working directory for an OCI
// deployment: provider.tf, variables.tf, data_sources.tf, main.tf,
// block_volumes.tf and the cloud-init user data. Planned values land in
// locals so a generated directory is self-contained and reviewable.
// Every .tf file is formatted and parse-checked before being returned.
package render

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/cloudbooter/cloudbooter/internal/hclfmt"
	"github.com/cloudbooter/cloudbooter/internal/oci/auth"
	"github.com/cloudbooter/cloudbooter/internal/oci/freetier"
	"github.com/cloudbooter/cloudbooter/internal/oci/plan"
)

//go:embed templates
var templates embed.FS

var tmpl = template.Must(template.ParseFS(templates,
	"templates/provider.tf.tmpl",
	"templates/variables.tf.tmpl",
	"templates/main.tf.tmpl",
))

// Params describes one OCI deployment to render.
type Params struct {
	Context auth.Context
	Plan    plan.Config

	AuthMode auth.Mode
	Profile  string
	// StrictProviderParity renders the fixed SecurityToken provider block
	// regardless of AuthMode.
	StrictProviderParity bool
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

func staticHCL(name string) (string, error) {
	src, err := templates.ReadFile("templates/" + name)
	if err != nil {
		return "", err
	}
	out, err := hclfmt.Format(name, src)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Provider renders provider.tf for the configured auth mode.
func Provider(p Params) (string, error) {
	profile := ""
	if p.AuthMode.RequiresProfile() {
		profile = p.Profile
		if profile == "" {
			profile = "DEFAULT"
		}
	}
	return renderHCL("provider.tf.tmpl", map[string]any{
		"Region":       p.Context.Region,
		"StrictParity": p.StrictProviderParity,
		"AuthValue":    p.AuthMode.TerraformAuthValue(),
		"Profile":      profile,
	})
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func numberList(items []int) string {
	nums := make([]string, len(items))
	for i, n := range items {
		nums[i] = strconv.Itoa(n)
	}
	return "[" + strings.Join(nums, ", ") + "]"
}

// Variables renders variables.tf: all planned values as locals plus the
// free-tier limit variables and their check blocks.
func Variables(p Params) (string, error) {
	limits := freetier.Default()
	cfg := p.Plan
	cfg.MustBeConsistent()

	return renderHCL("variables.tf.tmpl", map[string]any{
		"TenancyOCID":        p.Context.TenancyOCID,
		"UserOCID":           p.Context.UserOCID,
		"Region":             p.Context.Region,
		"UbuntuX86ImageOCID": p.Context.UbuntuX86ImageOCID,
		"UbuntuARMImageOCID": p.Context.UbuntuARMImageOCID,
		"AMDCount":           cfg.AMDInstanceCount,
		"AMDBootGB":          cfg.AMDBootVolumeSizeGB,
		"AMDHostnames":       quoteList(cfg.AMDHostnames),
		"AMDBlockGB":         cfg.AMDBlockVolumeSizeGB,
		"ARMCount":           cfg.ARMInstanceCount,
		"ARMOCPUs":           numberList(cfg.ARMOCPUs),
		"ARMMemory":          numberList(cfg.ARMMemoryGB),
		"ARMBootGB":          numberList(cfg.ARMBootVolumeSizeGB),
		"ARMHostnames":       quoteList(cfg.ARMHostnames),
		"ARMBlockGB":         numberList(cfg.ARMBlockVolumeSizesGB),
		"MaxStorageGB":       limits.MaxStorageGB,
		"MaxARMOCPUs":        limits.MaxARMOCPUs,
		"MaxARMMemoryGB":     limits.MaxARMMemoryGB,
	})
}

// DataSources renders data_sources.tf.
func DataSources() (string, error) {
	return staticHCL("data_sources.tf")
}

// Main renders main.tf: networking, both instance classes, reserved IPv6
// addresses and the outputs.
func Main() (string, error) {
	return renderHCL("main.tf.tmpl", map[string]any{
		"MaxStorageGB": freetier.Default().MaxStorageGB,
	})
}

// BlockVolumes renders block_volumes.tf.
func BlockVolumes() (string, error) {
	return staticHCL("block_volumes.tf")
}

// CloudInit returns the cloud-init user data template. Hostnames are
// substituted by terraform's templatefile at apply time, so the content
// is static here; it is still checked to parse as YAML.
func CloudInit() (string, error) {
	src, err := templates.ReadFile("templates/cloud-init.yaml")
	if err != nil {
		return "", err
	}
	var doc map[string]any
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return "", fmt.Errorf("cloud-init.yaml is not valid YAML: %w", err)
	}
	return string(src), nil
}

// WriteFiles renders the full Terraform working directory into dir,
// creating it if needed.
func WriteFiles(dir string, p Params) error {
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
	blockVolumes, err := BlockVolumes()
	if err != nil {
		return err
	}
	cloudInit, err := CloudInit()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create terraform dir: %w", err)
	}
	files := map[string]string{
		"provider.tf":      provider,
		"variables.tf":     variables,
		"data_sources.tf":  dataSources,
		"main.tf":          mainTF,
		"block_volumes.tf": blockVolumes,
		"cloud-init.yaml":  cloudInit,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}
