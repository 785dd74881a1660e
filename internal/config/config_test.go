// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkattest/zkattest/pkg/credential"
)

// TestDefault tests the shipped defaults: commitment scheme at production
// security, input-based threshold, 60s proof timeout.
func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, credential.VariantCommitment, cfg.Variant())
	assert.Equal(t, credential.SecurityProduction, cfg.SecurityLevel())
	assert.Equal(t, int64(0), cfg.Scheme.FixedThreshold)
	assert.Equal(t, "ZKATTEST_PASSPHRASE", cfg.Issuer.PassphraseEnv)
	assert.Equal(t, 60*time.Second, cfg.ProofTimeout())
	assert.True(t, cfg.Issuer.WatchRegistry)
}

// TestValidate tests the rejection cases, in particular the threshold
// bounds: negative and oversized values fail loudly instead of being
// clamped.
func TestValidate(t *testing.T) {
	valid := Default()

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown_variant", func(c *Config) { c.Scheme.Variant = "rsa" }},
		{"unknown_security", func(c *Config) { c.Scheme.Security = "medium" }},
		{"negative_fixed_threshold", func(c *Config) {
			c.Scheme.Variant = string(credential.VariantHashSignature)
			c.Scheme.Security = string(credential.SecurityDemo)
			c.Scheme.FixedThreshold = -1
		}},
		{"oversized_fixed_threshold", func(c *Config) {
			c.Scheme.Variant = string(credential.VariantHashSignature)
			c.Scheme.Security = string(credential.SecurityDemo)
			c.Scheme.FixedThreshold = 1 << 33
		}},
		{"fixed_threshold_wrong_scheme", func(c *Config) { c.Scheme.FixedThreshold = 18 }},
		{"empty_key_path", func(c *Config) { c.Issuer.KeyPath = "" }},
		{"empty_registry_path", func(c *Config) { c.Issuer.RegistryPath = "" }},
		{"zero_timeout", func(c *Config) { c.Proof.TimeoutSeconds = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

// TestValidate_FixedThresholdWithHashSignature tests the one combination
// where a fixed threshold is allowed.
func TestValidate_FixedThresholdWithHashSignature(t *testing.T) {
	cfg := Default()
	cfg.Scheme.Variant = string(credential.VariantHashSignature)
	cfg.Scheme.Security = string(credential.SecurityDemo)
	cfg.Scheme.FixedThreshold = 18

	assert.NoError(t, cfg.Validate())
}

// TestLoadAndSave tests the TOML round trip.
func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.Scheme.Variant = string(credential.VariantEdDSA)
	cfg.Proof.TimeoutSeconds = 120
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, credential.VariantEdDSA, loaded.Variant())
	assert.Equal(t, 120*time.Second, loaded.ProofTimeout())
}

// TestLoad_PartialFile tests that unspecified sections keep defaults.
func TestLoad_PartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	partial := []byte("[proof]\ntimeout_seconds = 5\n")
	require.NoError(t, os.WriteFile(path, partial, 0600))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, loaded.ProofTimeout())
	assert.Equal(t, credential.VariantCommitment, loaded.Variant(), "unset sections fall back to defaults")
}

// TestLoad_InvalidFile tests parse and validation failures.
func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("scheme = nonsense ["), 0600))
	_, err = Load(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.toml")
	require.NoError(t, os.WriteFile(invalid, []byte("[scheme]\nvariant = \"rsa\"\n"), 0600))
	_, err = Load(invalid)
	assert.Error(t, err)
}

// TestExpandPath tests ~ expansion.
func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		input    string
		expected string
	}{
		{"~/Documents", filepath.Join(home, "Documents")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"~", home},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ExpandPath(tt.input))
	}
}
