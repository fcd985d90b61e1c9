package gcp

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := New()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate_FreeConfigPasses(t *testing.T) {
	out, err := runCommand(t,
		"validate",
		"--project", "demo",
		"--region", "us-central1",
		"--machine-type", "e2-micro",
		"--disk-size", "30",
	)

	require.NoError(t, err)
	assert.Contains(t, out, "Config is within GCP Always Free limits.")
}

func TestValidate_PaidConfigBlocks(t *testing.T) {
	out, err := runCommand(t,
		"validate",
		"--project", "demo",
		"--region", "europe-west1",
		"--machine-type", "n2-standard-4",
		"--disk-size", "100",
	)

	require.Error(t, err)
	assert.Contains(t, out, "Machine type 'n2-standard-4' is not Always Free.")
	assert.Contains(t, out, "Region 'europe-west1' is not Always Free for Compute Engine.")
	assert.Contains(t, out, "Boot disk 100 GB exceeds Always Free cap of 30 GB standard PD.")
}

func TestValidate_AllowPaidSuppresses(t *testing.T) {
	out, err := runCommand(t,
		"validate",
		"--project", "demo",
		"--region", "europe-west1",
		"--machine-type", "n2-standard-4",
		"--disk-size", "100",
		"--allow-paid",
	)

	require.NoError(t, err)
	assert.Contains(t, out, "Config is within GCP Always Free limits.")
}

func TestResolveSSHKey_InlineValuePassesThrough(t *testing.T) {
	key, err := resolveSSHKey("ssh-ed25519 AAAA user@host")

	require.NoError(t, err)
	assert.Equal(t, "ssh-ed25519 AAAA user@host", key)
}

func TestResolveSSHKey_AtPathReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "id_ed25519.pub")
	require.NoError(t, os.WriteFile(path, []byte("ssh-ed25519 BBBB user@host\n"), 0o644))

	key, err := resolveSSHKey("@" + path)

	require.NoError(t, err)
	assert.Equal(t, "ssh-ed25519 BBBB user@host", key)
}

func TestResolveSSHKey_MissingFileErrors(t *testing.T) {
	_, err := resolveSSHKey("@" + filepath.Join(t.TempDir(), "absent.pub"))

	assert.Error(t, err)
}

func TestWriteTfvars_PinsSSHKey(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, writeTfvars(dir, "ssh-ed25519 CCCC user@host"))

	raw, err := os.ReadFile(filepath.Join(dir, "terraform.tfvars"))
	require.NoError(t, err)
	assert.Equal(t, "ssh_public_key = \"ssh-ed25519 CCCC user@host\"\n", string(raw))
}
