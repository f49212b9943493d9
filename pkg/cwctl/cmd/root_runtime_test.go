package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campuswatch/campuswatch/pkg/cwctl/auth"
	"github.com/campuswatch/campuswatch/pkg/cwctl/config"
	"github.com/campuswatch/campuswatch/pkg/cwctl/output"
)

func TestOutputFormatPrecedence(t *testing.T) {
	rt := &runtimeState{}
	assert.Equal(t, output.FormatTable, rt.OutputFormat())

	rt.cfg = &config.Config{Settings: config.Settings{OutputFormat: "yaml"}}
	assert.Equal(t, output.FormatYAML, rt.OutputFormat())

	rt.outputFormat = "json"
	assert.Equal(t, output.FormatJSON, rt.OutputFormat())
}

func TestResolveContextName(t *testing.T) {
	rt := &runtimeState{cfg: &config.Config{
		CurrentContext: "prod",
		Contexts:       []config.Context{{Name: "prod"}, {Name: "dev"}},
	}}
	assert.Equal(t, "prod", rt.ResolveContextName())

	rt.contextOverride = "dev"
	assert.Equal(t, "dev", rt.ResolveContextName())
}

func TestResolveServerPrefersOverride(t *testing.T) {
	rt := &runtimeState{}
	ctx := &config.Context{Server: "https://from-config.example.edu"}
	assert.Equal(t, "https://from-config.example.edu", rt.resolveServer(ctx))

	rt.serverOverride = "https://override.example.edu"
	assert.Equal(t, "https://override.example.edu", rt.resolveServer(ctx))
}

func TestTokenStoragePrecedence(t *testing.T) {
	rt := &runtimeState{cfg: &config.Config{Settings: config.Settings{TokenStorage: "keyring"}}}
	assert.Equal(t, "keyring", rt.TokenStorage())

	rt.tokenStorageOverride = "file"
	assert.Equal(t, "file", rt.TokenStorage())

	mgr, err := rt.TokenManager()
	assert.NoError(t, err)
	assert.NotNil(t, mgr)
	assert.IsType(t, &auth.TokenManager{}, mgr)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CWCTL_SERVER", "https://env.example.edu")
	t.Setenv("CWCTL_TOKEN", "env-token")
	t.Setenv("CWCTL_OUTPUT", "json")

	// With server and token from env no config file is needed.
	out, err := runCommand(t, "/nonexistent/config.yaml", "version")
	assert.NoError(t, err)
	assert.Contains(t, out, "cwctl")
}

func TestMissingConfigFails(t *testing.T) {
	_, err := runCommand(t, "/nonexistent/config.yaml", "college", "list")
	assert.Error(t, err)
}
