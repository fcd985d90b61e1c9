// Package auth maps the supported OCI authentication modes onto
// oci-go-sdk configuration providers and resolves the deployment context
// (tenancy, region, availability domain, base images) used by the
// planner and the renderers.
package auth

import (
	"fmt"

	"github.com/oracle/oci-go-sdk/v65/common"
	ociauth "github.com/oracle/oci-go-sdk/v65/common/auth"
)

// Mode selects how API calls are signed.
type Mode string

const (
	ModeAPIKey            Mode = "api_key"
	ModeInstancePrincipal Mode = "instance_principal"
	ModeResourcePrincipal Mode = "resource_principal"
	ModeSecurityToken     Mode = "security_token"
)

// ParseMode validates a user-supplied auth mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAPIKey, ModeInstancePrincipal, ModeResourcePrincipal, ModeSecurityToken:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unsupported auth mode %q (want api_key, instance_principal, resource_principal or security_token)", s)
	}
}

// TerraformAuthValue returns the value the OCI Terraform provider expects
// in its auth attribute.
func (m Mode) TerraformAuthValue() string {
	switch m {
	case ModeInstancePrincipal:
		return "InstancePrincipal"
	case ModeResourcePrincipal:
		return "ResourcePrincipal"
	case ModeSecurityToken:
		return "SecurityToken"
	default:
		return "APIKey"
	}
}

// RequiresProfile reports whether the mode reads ~/.oci/config, in which
// case the rendered provider block carries a config_file_profile.
func (m Mode) RequiresProfile() bool {
	return m == ModeAPIKey || m == ModeSecurityToken
}

// ConfigurationProvider builds the SDK configuration provider for the
// given mode. configFile may be empty to use the default ~/.oci/config
// location; profile is only consulted for the file-based modes.
func ConfigurationProvider(mode Mode, configFile, profile string) (common.ConfigurationProvider, error) {
	switch mode {
	case ModeAPIKey:
		if configFile != "" {
			return common.CustomProfileConfigProvider(configFile, profile), nil
		}
		if profile != "" && profile != "DEFAULT" {
			return common.CustomProfileConfigProvider("", profile), nil
		}
		return common.DefaultConfigProvider(), nil
	case ModeSecurityToken:
		return common.CustomProfileSessionTokenConfigProvider(configFile, profile), nil
	case ModeInstancePrincipal:
		provider, err := ociauth.InstancePrincipalConfigurationProvider()
		if err != nil {
			return nil, fmt.Errorf("instance principal auth: %w", err)
		}
		return provider, nil
	case ModeResourcePrincipal:
		provider, err := ociauth.ResourcePrincipalConfigurationProvider()
		if err != nil {
			return nil, fmt.Errorf("resource principal auth: %w", err)
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", string(mode))
	}
}
