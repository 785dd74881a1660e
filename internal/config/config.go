// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/zkattest/zkattest/pkg/circuit"
	"github.com/zkattest/zkattest/pkg/credential"
)

// Paths holds XDG-compliant paths for zkattest.
type Paths struct {
	ConfigDir    string // ~/.config/zkattest
	DataDir      string // ~/.local/share/zkattest
	KeyPath      string // ~/.local/share/zkattest/issuer.key
	RegistryPath string // ~/.local/share/zkattest/subjects.json
}

// ExpandPath expands ~ to the user's home directory.
// Returns the path unchanged if it doesn't start with ~.
// Panics if home directory cannot be determined when ~ expansion is needed.
func ExpandPath(path string) string {
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			panic(fmt.Sprintf("failed to get home directory: %v", err))
		}
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			panic(fmt.Sprintf("failed to get home directory: %v", err))
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// DefaultPaths returns the default XDG-compliant paths.
// Panics if the user's home directory cannot be determined.
func DefaultPaths() Paths {
	home, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Sprintf("failed to get home directory: %v", err))
	}
	configDir := filepath.Join(home, ".config", "zkattest")
	dataDir := filepath.Join(home, ".local", "share", "zkattest")

	return Paths{
		ConfigDir:    configDir,
		DataDir:      dataDir,
		KeyPath:      filepath.Join(dataDir, "issuer.key"),
		RegistryPath: filepath.Join(dataDir, "subjects.json"),
	}
}

// EnsureDirectories creates config and data directories if they don't exist.
func (p Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.ConfigDir, 0700); err != nil {
		return err
	}
	return os.MkdirAll(p.DataDir, 0700)
}

// Config is the top-level zkattest configuration.
type Config struct {
	Scheme SchemeConfig `toml:"scheme"`
	Issuer IssuerConfig `toml:"issuer"`
	Proof  ProofConfig  `toml:"proof"`
}

// SchemeConfig selects the credential binding scheme and circuit shape.
type SchemeConfig struct {
	// Variant is one of "hash-signature", "commitment", "eddsa".
	Variant string `toml:"variant"`

	// Security is "demo" or "production". The symmetric hash-signature
	// scheme is only constructible at "demo".
	Security string `toml:"security"`

	// FixedThreshold, when nonzero, compiles the threshold into the
	// circuit (the explicitly weaker configuration; hash-signature
	// only). Zero means the threshold is a public input.
	FixedThreshold int64 `toml:"fixed_threshold"`
}

// IssuerConfig holds issuer-side paths and the registry watch switch.
type IssuerConfig struct {
	KeyPath      string `toml:"key_path"`
	RegistryPath string `toml:"registry_path"`

	// PassphraseEnv names the environment variable carrying the key-file
	// passphrase. The passphrase itself never lives in the config file.
	PassphraseEnv string `toml:"passphrase_env"`

	// WatchRegistry reloads the subject registry when the file changes.
	WatchRegistry bool `toml:"watch_registry"`
}

// ProofConfig holds prover-side limits.
type ProofConfig struct {
	// TimeoutSeconds bounds how long a caller waits for proof
	// generation. The computation itself runs to completion.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Default returns a Config with sensible defaults: the commitment scheme
// at production security, threshold as a public input, 60s proof timeout.
func Default() Config {
	paths := DefaultPaths()
	return Config{
		Scheme: SchemeConfig{
			Variant:  string(credential.VariantCommitment),
			Security: string(credential.SecurityProduction),
		},
		Issuer: IssuerConfig{
			KeyPath:       paths.KeyPath,
			RegistryPath:  paths.RegistryPath,
			PassphraseEnv: "ZKATTEST_PASSPHRASE",
			WatchRegistry: true,
		},
		Proof: ProofConfig{
			TimeoutSeconds: 60,
		},
	}
}

// Load reads a Config from a TOML file over the defaults.
// Paths with ~ are expanded to the user's home directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.Issuer.KeyPath = ExpandPath(cfg.Issuer.KeyPath)
	cfg.Issuer.RegistryPath = ExpandPath(cfg.Issuer.RegistryPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config as TOML.
func (c Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode TOML: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Validate checks the configuration for errors, including the negative
// and oversized threshold cases: both are rejected here, never silently
// clamped or truncated.
func (c Config) Validate() error {
	variant, err := credential.ParseVariant(c.Scheme.Variant)
	if err != nil {
		return err
	}
	switch credential.SecurityLevel(c.Scheme.Security) {
	case credential.SecurityDemo, credential.SecurityProduction:
	default:
		return fmt.Errorf("config: unknown security level %q", c.Scheme.Security)
	}

	if c.Scheme.FixedThreshold < 0 {
		return fmt.Errorf("config: fixed_threshold must be non-negative")
	}
	if uint64(c.Scheme.FixedThreshold) > circuit.MaxAttributeValue {
		return fmt.Errorf("config: fixed_threshold exceeds %d bits", circuit.AttributeBits)
	}
	if c.Scheme.FixedThreshold > 0 && variant != credential.VariantHashSignature {
		return fmt.Errorf("config: fixed_threshold requires the %s scheme", credential.VariantHashSignature)
	}

	if c.Issuer.KeyPath == "" {
		return fmt.Errorf("config: issuer key_path must be set")
	}
	if c.Issuer.RegistryPath == "" {
		return fmt.Errorf("config: issuer registry_path must be set")
	}
	if c.Proof.TimeoutSeconds <= 0 {
		return fmt.Errorf("config: proof timeout_seconds must be positive")
	}
	return nil
}

// Variant returns the parsed scheme variant. Validate first.
func (c Config) Variant() credential.Variant {
	return credential.Variant(c.Scheme.Variant)
}

// SecurityLevel returns the parsed security level. Validate first.
func (c Config) SecurityLevel() credential.SecurityLevel {
	return credential.SecurityLevel(c.Scheme.Security)
}

// ProofTimeout returns the proof wait bound as a duration.
func (c Config) ProofTimeout() time.Duration {
	return time.Duration(c.Proof.TimeoutSeconds) * time.Second
}
