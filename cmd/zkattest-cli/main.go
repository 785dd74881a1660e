package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cli, err := NewCLIWithDefaults()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "keygen":
		err = cli.Keygen(os.Args[2:])
	case "issue":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: zkattest-cli issue <subjectId>")
			os.Exit(1)
		}
		err = cli.Issue(os.Args[2])
	case "prove":
		if len(os.Args) < 4 {
			fmt.Fprintln(os.Stderr, "Usage: zkattest-cli prove <credential.json> <threshold>")
			os.Exit(1)
		}
		err = cli.Prove(os.Args[2], os.Args[3])
	case "verify":
		if len(os.Args) < 4 {
			fmt.Fprintln(os.Stderr, "Usage: zkattest-cli verify <bundle.json> <threshold>")
			os.Exit(1)
		}
		err = cli.Verify(os.Args[2], os.Args[3])
	case "demo":
		if len(os.Args) < 4 {
			fmt.Fprintln(os.Stderr, "Usage: zkattest-cli demo <subjectId> <threshold>")
			os.Exit(1)
		}
		err = cli.Demo(os.Args[2], os.Args[3])
	case "status":
		err = cli.Status()
	case "help", "-h", "--help":
		printUsage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`zkattest-cli - zero-knowledge attribute attestation

Usage:
  zkattest-cli keygen [--mnemonic <phrase>]   Initialize the issuer key
  zkattest-cli issue <subjectId>              Issue a credential (JSON on stdout)
  zkattest-cli prove <credential.json> <t>    Prove attribute >= t (bundle on stdout)
  zkattest-cli verify <bundle.json> <t>       Verify a proof bundle against t
  zkattest-cli demo <subjectId> <t>           Run issue -> prove -> verify end to end
  zkattest-cli status                         Show scheme configuration
  zkattest-cli help                           Show this help

Configuration is read from ~/.config/zkattest/config.toml when present.
The key-file passphrase comes from the environment variable named by
issuer.passphrase_env (default ZKATTEST_PASSPHRASE).`)
}
