// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/slackline/lib/config"
	"github.com/bureau-foundation/slackline/lib/credential"
	"github.com/bureau-foundation/slackline/lib/sealed"
	"github.com/bureau-foundation/slackline/lib/secret"
	"github.com/bureau-foundation/slackline/lib/version"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		printUsage(stderr)
		return fmt.Errorf("subcommand required")
	}

	subcommand := args[0]
	switch subcommand {
	case "keygen":
		return runKeygen(args[1:], stdout, stderr)
	case "seal":
		return runSeal(args[1:], stdin, stdout, stderr)
	case "check":
		return runCheck(args[1:], stdout)
	case "version", "--version":
		fmt.Fprintf(stdout, "slackline-credentials %s\n", version.Info())
		return nil
	case "-h", "--help", "help":
		printUsage(stderr)
		return nil
	default:
		printUsage(stderr)
		return fmt.Errorf("unknown subcommand: %q", subcommand)
	}
}

func printUsage(output io.Writer) {
	fmt.Fprintf(output, `Usage: slackline-credentials <subcommand> [flags]

Subcommands:
  keygen      Generate an age identity for sealing tokens
  seal        Encrypt a workspace token to one or more recipients
  check       Verify that a sealed token opens with an identity
  version     Print version information

Run 'slackline-credentials <subcommand> --help' for subcommand flags.
`)
}

// parseSubcommand parses flags for a subcommand. It reports done when
// help was requested.
func parseSubcommand(flagSet *pflag.FlagSet, args []string, output io.Writer) (bool, error) {
	flagSet.SetOutput(output)
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return true, nil
		}
		return false, err
	}
	if flagSet.NArg() > 0 {
		return false, fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}
	return false, nil
}

// runKeygen generates an identity. The public key goes to stdout; the
// private key goes to --out (mode 0600) or, without it, to stderr.
func runKeygen(args []string, stdout, stderr io.Writer) error {
	var outputPath string
	flagSet := pflag.NewFlagSet("keygen", pflag.ContinueOnError)
	flagSet.StringVar(&outputPath, "out", "", "write the identity to this file instead of stderr")
	if done, err := parseSubcommand(flagSet, args, stderr); err != nil || done {
		return err
	}

	keypair, err := sealed.GenerateKeypair()
	if err != nil {
		return fmt.Errorf("generating keypair: %w", err)
	}
	defer keypair.Close()

	identity := fmt.Sprintf("# public key: %s\n%s\n", keypair.PublicKey, keypair.PrivateKey.String())
	if outputPath == "" {
		fmt.Fprintf(stderr, "# Private key (keep this secret):\n%s", identity)
	} else if err := writeNew(outputPath, []byte(identity)); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s\n", keypair.PublicKey)
	return nil
}

// runSeal encrypts a token to the given recipients.
func runSeal(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var (
		recipients []string
		fromFile   string
		outputPath string
	)
	flagSet := pflag.NewFlagSet("seal", pflag.ContinueOnError)
	flagSet.StringArrayVarP(&recipients, "recipient", "r", nil, "age public key to encrypt to (repeatable, required)")
	flagSet.StringVar(&fromFile, "from-file", "", "read the token from this file instead of stdin")
	flagSet.StringVarP(&outputPath, "out", "o", "", "write the sealed token to this file instead of stdout")
	if done, err := parseSubcommand(flagSet, args, stderr); err != nil || done {
		return err
	}
	if len(recipients) == 0 {
		return fmt.Errorf("at least one --recipient is required")
	}
	for _, recipient := range recipients {
		if err := sealed.ParsePublicKey(recipient); err != nil {
			return fmt.Errorf("invalid recipient: %w", err)
		}
	}

	token, err := readToken(fromFile, stdin, stderr)
	if err != nil {
		return err
	}
	defer token.Close()

	ciphertext, err := sealed.Seal([]byte(token.String()), recipients)
	if err != nil {
		return fmt.Errorf("sealing token: %w", err)
	}
	if outputPath == "" {
		_, err := stdout.Write(ciphertext)
		return err
	}
	return writeNew(outputPath, ciphertext)
}

// readToken reads the plaintext token from fromFile, from a terminal
// prompt with echo disabled, or from piped stdin.
func readToken(fromFile string, stdin io.Reader, stderr io.Writer) (*secret.Buffer, error) {
	if fromFile != "" {
		return secret.ReadFile(fromFile)
	}
	if file, ok := stdin.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		fmt.Fprint(stderr, "Token: ")
		tokenBytes, err := term.ReadPassword(int(file.Fd()))
		fmt.Fprintln(stderr)
		if err != nil {
			return nil, fmt.Errorf("reading token: %w", err)
		}
		return secret.FromBytesTrimmed(tokenBytes, "terminal input")
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		secret.Zero(data)
		return nil, fmt.Errorf("reading token: %w", err)
	}
	buffer, err := secret.FromBytesTrimmed(data, "stdin")
	if err != nil {
		secret.Zero(data)
		return nil, fmt.Errorf("%w (pipe the token to stdin or use --from-file)", err)
	}
	return buffer, nil
}

// runCheck opens a sealed token the way the client does and reports
// its length.
func runCheck(args []string, stdout io.Writer) error {
	var tokenConfig config.TokenConfig
	flagSet := pflag.NewFlagSet("check", pflag.ContinueOnError)
	flagSet.StringVar(&tokenConfig.SealedFile, "sealed-file", "", "sealed token file (required)")
	flagSet.StringVar(&tokenConfig.Identity, "identity", "", "age identity file (required)")
	if done, err := parseSubcommand(flagSet, args, stdout); err != nil || done {
		return err
	}
	if tokenConfig.SealedFile == "" || tokenConfig.Identity == "" {
		return fmt.Errorf("--sealed-file and --identity are required")
	}

	token, err := credential.Resolve(tokenConfig, nil)
	if err != nil {
		return err
	}
	defer token.Close()
	fmt.Fprintf(stdout, "%s: opens to a %d-byte token\n", credential.Describe(tokenConfig), token.Len())
	return nil
}

// writeNew creates path with mode 0600, refusing to overwrite.
func writeNew(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return file.Close()
}
