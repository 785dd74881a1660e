package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkattest/zkattest/internal/config"
	"github.com/zkattest/zkattest/pkg/credential"
)

// newTestCLI builds a CLI over temp paths and the cheap hash-signature
// circuit, capturing output in a buffer.
func newTestCLI(t *testing.T) (*CLI, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Scheme.Variant = string(credential.VariantHashSignature)
	cfg.Scheme.Security = string(credential.SecurityDemo)
	cfg.Issuer.KeyPath = filepath.Join(dir, "issuer.key")
	cfg.Issuer.RegistryPath = filepath.Join(dir, "subjects.json")
	cfg.Issuer.WatchRegistry = false
	require.NoError(t, cfg.Validate())

	require.NoError(t, os.WriteFile(cfg.Issuer.RegistryPath,
		[]byte(`{"alice": 25, "bob": 16}`), 0600))

	cli := NewCLI(cfg)
	buf := &bytes.Buffer{}
	cli.output = buf
	return cli, buf
}

// TestParseThreshold tests boundary parsing, in particular the rejection
// of negative values at the CLI boundary.
func TestParseThreshold(t *testing.T) {
	v, err := parseThreshold("18")
	require.NoError(t, err)
	assert.Equal(t, uint64(18), v)

	v, err = parseThreshold("0")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)

	_, err = parseThreshold("-1")
	assert.Error(t, err, "negative thresholds are rejected, not clamped")

	_, err = parseThreshold("eighteen")
	assert.Error(t, err)

	_, err = parseThreshold("4294967296")
	assert.Error(t, err, "threshold past 32 bits")
}

// TestKeygen tests key initialization and the mnemonic backup output.
func TestKeygen(t *testing.T) {
	cli, buf := newTestCLI(t)

	require.NoError(t, cli.Keygen(nil))
	assert.FileExists(t, cli.cfg.Issuer.KeyPath)

	out := buf.String()
	assert.Contains(t, out, "Public key:")
	assert.Contains(t, out, "Recovery phrase")
}

// TestKeygen_FromMnemonic tests deterministic recovery: the same phrase
// yields the same public key.
func TestKeygen_FromMnemonic(t *testing.T) {
	cli, buf := newTestCLI(t)
	require.NoError(t, cli.Keygen(nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	phrase := strings.TrimSpace(lines[len(lines)-1])
	require.Len(t, strings.Fields(phrase), 24)

	var pubLine string
	for _, l := range lines {
		if strings.HasPrefix(l, "Public key:") {
			pubLine = l
		}
	}
	require.NotEmpty(t, pubLine)

	other, otherBuf := newTestCLI(t)
	require.NoError(t, other.Keygen([]string{"--mnemonic", phrase}))
	assert.Contains(t, otherBuf.String(), strings.TrimPrefix(pubLine, "Public key: "))
}

// TestIssue tests credential issuance to stdout.
func TestIssue(t *testing.T) {
	cli, buf := newTestCLI(t)

	require.NoError(t, cli.Issue("alice"))

	var cred credential.Credential
	require.NoError(t, json.Unmarshal(buf.Bytes(), &cred))
	assert.Equal(t, "alice", cred.SubjectID)
	assert.Equal(t, uint64(25), cred.AttributeValue)
	assert.NotEmpty(t, cred.IssuerPublicKey)
}

// TestIssue_UnknownSubject tests the error path.
func TestIssue_UnknownSubject(t *testing.T) {
	cli, _ := newTestCLI(t)
	assert.Error(t, cli.Issue("nonExistentUser"))
}

// TestProveAndVerify tests the file-based prove/verify round trip.
func TestProveAndVerify(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping proof generation in short mode")
	}

	cli, buf := newTestCLI(t)
	dir := t.TempDir()

	require.NoError(t, cli.Issue("alice"))
	credPath := filepath.Join(dir, "credential.json")
	require.NoError(t, os.WriteFile(credPath, buf.Bytes(), 0600))
	buf.Reset()

	require.NoError(t, cli.Prove(credPath, "18"))
	bundlePath := filepath.Join(dir, "bundle.json")
	require.NoError(t, os.WriteFile(bundlePath, buf.Bytes(), 0600))
	buf.Reset()

	require.NoError(t, cli.Verify(bundlePath, "18"))
	assert.Contains(t, buf.String(), "ACCEPTED")
}

// TestVerify_WrongThreshold tests that a bundle proved for 18 is rejected
// at 21.
func TestVerify_WrongThreshold(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping proof generation in short mode")
	}

	cli, buf := newTestCLI(t)
	dir := t.TempDir()

	require.NoError(t, cli.Issue("alice"))
	credPath := filepath.Join(dir, "credential.json")
	require.NoError(t, os.WriteFile(credPath, buf.Bytes(), 0600))
	buf.Reset()

	require.NoError(t, cli.Prove(credPath, "18"))
	bundlePath := filepath.Join(dir, "bundle.json")
	require.NoError(t, os.WriteFile(bundlePath, buf.Bytes(), 0600))
	buf.Reset()

	assert.Error(t, cli.Verify(bundlePath, "21"))
	assert.Contains(t, buf.String(), "REJECTED")
}

// TestDemo tests the end-to-end command for both outcomes.
func TestDemo(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping proof generation in short mode")
	}

	cli, buf := newTestCLI(t)

	require.NoError(t, cli.Demo("alice", "18"))
	assert.Contains(t, buf.String(), "ACCEPTED")
	buf.Reset()

	require.NoError(t, cli.Demo("bob", "18"))
	assert.Contains(t, buf.String(), "REJECTED")
}

// TestStatus tests the configuration summary.
func TestStatus(t *testing.T) {
	cli, buf := newTestCLI(t)

	require.NoError(t, cli.Status())
	out := buf.String()
	assert.Contains(t, out, "hash-signature")
	assert.Contains(t, out, "demo")
}
