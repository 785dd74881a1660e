package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zkattest/zkattest/internal/config"
	internalcrypto "github.com/zkattest/zkattest/internal/crypto"
	"github.com/zkattest/zkattest/internal/issuer"
	"github.com/zkattest/zkattest/internal/session"
	"github.com/zkattest/zkattest/pkg/credential"
	"github.com/zkattest/zkattest/pkg/zkproof"
)

// proofBundle is the file format produced by `prove` and consumed by
// `verify`: the wire proof plus its ordered public signals.
type proofBundle struct {
	Proof         *zkproof.Proof        `json:"proof"`
	PublicSignals zkproof.PublicSignals `json:"publicSignals"`
}

// CLI provides the zkattest commands over one loaded configuration.
type CLI struct {
	cfg    config.Config
	output io.Writer
}

// NewCLI creates a CLI over an explicit configuration.
func NewCLI(cfg config.Config) *CLI {
	return &CLI{cfg: cfg, output: os.Stdout}
}

// NewCLIWithDefaults loads ~/.config/zkattest/config.toml when present and
// falls back to defaults otherwise.
func NewCLIWithDefaults() (*CLI, error) {
	paths := config.DefaultPaths()
	cfgPath := filepath.Join(paths.ConfigDir, "config.toml")

	if _, err := os.Stat(cfgPath); err == nil {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, err
		}
		return NewCLI(*cfg), nil
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewCLI(cfg), nil
}

// passphrase reads the key-file passphrase from the configured env var.
func (c *CLI) passphrase() string {
	return os.Getenv(c.cfg.Issuer.PassphraseEnv)
}

// keyStore builds the issuer key store from the configuration.
func (c *CLI) keyStore() *issuer.KeyStore {
	return issuer.NewKeyStore(c.cfg.Issuer.KeyPath, c.passphrase(), c.cfg.Variant(), c.cfg.SecurityLevel())
}

// parseThreshold parses and bounds a threshold argument. Negative values
// are rejected here, at the boundary, so the libraries only ever see a
// valid uint64.
func parseThreshold(arg string) (uint64, error) {
	v, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("threshold %q is not an integer", arg)
	}
	if v < 0 {
		return 0, fmt.Errorf("threshold must be non-negative")
	}
	if uint64(v) > zkproof.MaxThreshold() {
		return 0, fmt.Errorf("threshold exceeds the supported maximum %d", zkproof.MaxThreshold())
	}
	return uint64(v), nil
}

// Keygen initializes the issuer key. With --mnemonic it recovers the key
// from a BIP-39 phrase; otherwise a fresh key with a new backup phrase is
// generated.
func (c *CLI) Keygen(args []string) error {
	var key *credential.KeyPair
	var mnemonic string
	var err error

	if len(args) >= 2 && args[0] == "--mnemonic" {
		// The phrase may arrive quoted as one argument or as 24 words.
		phrase := strings.Join(args[1:], " ")
		key, err = internalcrypto.KeyPairFromMnemonic(c.cfg.Variant(), phrase)
		if err != nil {
			return err
		}
	} else {
		key, mnemonic, err = internalcrypto.NewKeyPairWithMnemonic(c.cfg.Variant())
		if err != nil {
			return err
		}
	}

	if err := internalcrypto.SaveKeyPair(key, c.cfg.Issuer.KeyPath, c.passphrase()); err != nil {
		return err
	}

	fmt.Fprintf(c.output, "Issuer key written to %s\n", c.cfg.Issuer.KeyPath)
	fmt.Fprintf(c.output, "Public key: %s\n", credential.PublicKeyString(key.Public))
	if mnemonic != "" {
		fmt.Fprintf(c.output, "Recovery phrase (write this down):\n  %s\n", mnemonic)
	}
	return nil
}

// Issue issues a credential for a subject and prints it as JSON.
func (c *CLI) Issue(subjectID string) error {
	iss, reg, err := c.buildIssuer()
	if err != nil {
		return err
	}
	defer reg.Close()

	cred, err := iss.Issue(subjectID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.output)
	enc.SetIndent("", "  ")
	return enc.Encode(cred)
}

// Prove reads a credential file and produces a proof bundle for the
// threshold.
func (c *CLI) Prove(credentialPath, thresholdArg string) error {
	threshold, err := parseThreshold(thresholdArg)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(credentialPath)
	if err != nil {
		return fmt.Errorf("read credential: %w", err)
	}
	var cred credential.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return fmt.Errorf("parse credential: %w", err)
	}

	artifacts, err := zkproof.Load(c.options())
	if err != nil {
		return err
	}
	prover, err := zkproof.NewProver(artifacts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.ProofTimeout())
	defer cancel()

	proof, signals, err := prover.GenerateProof(ctx, &cred, threshold)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.output)
	enc.SetIndent("", "  ")
	return enc.Encode(proofBundle{Proof: proof, PublicSignals: signals})
}

// Verify checks a proof bundle against the threshold and the locally
// pinned issuer key.
func (c *CLI) Verify(bundlePath, thresholdArg string) error {
	threshold, err := parseThreshold(thresholdArg)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(bundlePath)
	if err != nil {
		return fmt.Errorf("read bundle: %w", err)
	}
	var bundle proofBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return fmt.Errorf("parse bundle: %w", err)
	}

	issuerKey, err := c.keyStore().PublicKey()
	if err != nil {
		return err
	}

	svc, err := c.service()
	if err != nil {
		return err
	}

	sess, err := session.NewSession(threshold, issuerKey)
	if err != nil {
		return err
	}
	if err := sess.ImportProof(bundle.Proof, bundle.PublicSignals); err != nil {
		return err
	}

	outcome := svc.Verify(sess)
	fmt.Fprintln(c.output, string(outcome))
	if outcome != session.OutcomeAccepted {
		return errors.New("verification rejected")
	}
	return nil
}

// Demo runs the full flow for one subject and threshold.
func (c *CLI) Demo(subjectID, thresholdArg string) error {
	threshold, err := parseThreshold(thresholdArg)
	if err != nil {
		return err
	}

	iss, reg, err := c.buildIssuer()
	if err != nil {
		return err
	}
	defer reg.Close()

	svc, err := c.service()
	if err != nil {
		return err
	}

	_, outcome, err := svc.Run(context.Background(), iss, subjectID, threshold)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.output, string(outcome))
	return nil
}

// Status prints the effective scheme configuration.
func (c *CLI) Status() error {
	fmt.Fprintln(c.output, "=== zkattest status ===")
	fmt.Fprintf(c.output, "Scheme:          %s\n", c.cfg.Scheme.Variant)
	fmt.Fprintf(c.output, "Security level:  %s\n", c.cfg.Scheme.Security)
	if c.cfg.Scheme.FixedThreshold > 0 {
		fmt.Fprintf(c.output, "Fixed threshold: %d (weaker configuration)\n", c.cfg.Scheme.FixedThreshold)
	} else {
		fmt.Fprintln(c.output, "Threshold:       public input (session cross-checked)")
	}
	fmt.Fprintf(c.output, "Key path:        %s\n", c.cfg.Issuer.KeyPath)
	fmt.Fprintf(c.output, "Registry path:   %s\n", c.cfg.Issuer.RegistryPath)
	return nil
}

// buildIssuer assembles the issuer from the configuration.
func (c *CLI) buildIssuer() (*issuer.Issuer, *issuer.Registry, error) {
	reg, err := issuer.NewRegistry(c.cfg.Issuer.RegistryPath)
	if err != nil {
		return nil, nil, err
	}
	if c.cfg.Issuer.WatchRegistry {
		if err := reg.Watch(); err != nil {
			reg.Close()
			return nil, nil, err
		}
	}

	scheme, err := credential.New(c.cfg.Variant(), c.cfg.SecurityLevel())
	if err != nil {
		reg.Close()
		return nil, nil, err
	}

	return issuer.New(c.keyStore(), reg, scheme), reg, nil
}

// options maps the configuration onto circuit options.
func (c *CLI) options() zkproof.Options {
	return zkproof.Options{
		Variant:        c.cfg.Variant(),
		FixedThreshold: uint64(c.cfg.Scheme.FixedThreshold),
	}
}

// service builds the session service for the configured circuit.
func (c *CLI) service() (*session.Service, error) {
	return session.NewService(c.options(), c.cfg.ProofTimeout())
}
