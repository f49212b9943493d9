package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campuswatch/campuswatch/pkg/cwctl/config"
)

// runCommand executes the root command with args against the given
// config path and returns captured stdout.
func runCommand(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := NewRootCommand(Config{ConfigPath: configPath, OutputWriter: &buf})
	root.SetArgs(args)
	root.SetOut(&buf)
	root.SetErr(&buf)
	err := root.Execute()
	return buf.String(), err
}

// writeTestConfig saves a minimal single-context config and returns its
// path.
func writeTestConfig(t *testing.T, server string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := config.DefaultConfig()
	cfg.CurrentContext = "test"
	cfg.OIDCProviders = []config.OIDCProvider{{
		Name:      "test-idp",
		Authority: "https://idp.example.edu",
		ClientID:  "cwctl",
		GrantType: "device-code",
	}}
	cfg.Contexts = []config.Context{{
		Name:         "test",
		Server:       server,
		OIDCProvider: "test-idp",
	}}
	require.NoError(t, config.Save(path, &cfg))
	return path
}
