// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/muesli/termenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/slackline/client"
	"github.com/bureau-foundation/slackline/events"
	"github.com/bureau-foundation/slackline/lib/config"
	"github.com/bureau-foundation/slackline/lib/credential"
	"github.com/bureau-foundation/slackline/lib/metrics"
	"github.com/bureau-foundation/slackline/lib/secret"
	"github.com/bureau-foundation/slackline/lib/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options are the parsed command-line flags.
type options struct {
	configPath    string
	envFile       string
	logFormat     string
	logLevel      string
	metricsListen string
	snapshotPath  string
	patterns      []string
	raw           bool
	color         string
	tokenPrompt   bool
}

func parseFlags(args []string) (*options, bool, error) {
	var opts options
	flagSet := pflag.NewFlagSet("slackline-watch", pflag.ContinueOnError)
	flagSet.StringVar(&opts.configPath, "config", "", "config file (default: $SLACKLINE_CONFIG)")
	flagSet.StringVar(&opts.envFile, "env-file", "", "load environment variables from this file first")
	flagSet.StringVar(&opts.logFormat, "log-format", "auto", "log format: auto, text, or json")
	flagSet.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, or error")
	flagSet.StringVar(&opts.metricsListen, "metrics-listen", "", "serve /metrics on this address (overrides metrics.listen)")
	flagSet.StringVar(&opts.snapshotPath, "snapshot", "", "cache snapshot path (overrides cache.snapshot_path)")
	flagSet.StringSliceVar(&opts.patterns, "events", []string{events.Wildcard}, "event patterns to print")
	flagSet.BoolVar(&opts.raw, "raw", false, "also print every undecoded frame")
	flagSet.StringVar(&opts.color, "color", "auto", "colorize output: auto, always, or never")
	flagSet.BoolVar(&opts.tokenPrompt, "token-prompt", false, "read the token from the terminal instead of the configured source")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil, true, nil
		}
		return nil, false, err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil, true, nil
	}
	if flagSet.NArg() > 0 {
		return nil, false, fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}
	switch opts.color {
	case "auto", "always", "never":
	default:
		return nil, false, fmt.Errorf("invalid --color %q (want auto, always, or never)", opts.color)
	}
	return &opts, false, nil
}

func run(args []string) error {
	if len(args) > 0 && args[0] == "--version" {
		version.Print("slackline-watch")
		return nil
	}
	opts, done, err := parseFlags(args)
	if err != nil || done {
		return err
	}

	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err != nil {
			return fmt.Errorf("loading %s: %w", opts.envFile, err)
		}
	}

	logger, err := newLogger(os.Stderr, opts.logFormat, opts.logLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var instruments *metrics.Collectors
	if cfg.Metrics.Listen != "" {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		if instruments, err = metrics.New(registry); err != nil {
			return fmt.Errorf("registering metrics: %w", err)
		}
		shutdown, err := serveMetrics(cfg.Metrics.Listen, registry, logger)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	token, err := resolveToken(cfg, opts.tokenPrompt)
	if err != nil {
		return err
	}
	clientConfig, err := client.ConfigFromFile(cfg, token)
	if err != nil {
		token.Close()
		return err
	}
	clientConfig.Logger = logger
	clientConfig.Metrics = instruments

	session, err := client.New(clientConfig)
	if err != nil {
		token.Close()
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Error("closing client", "error", err)
		}
	}()

	out := &printer{output: os.Stdout, palette: choosePalette(opts.color), now: time.Now, raw: opts.raw}
	for _, pattern := range opts.patterns {
		session.On(pattern, out.handle)
	}

	logger.Info("connecting",
		"token_source", credential.Describe(cfg.Token),
		"api", cfg.API.BaseURL,
		"client_id", session.ID(),
	)
	if err := session.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(opts *options) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if opts.metricsListen != "" {
		cfg.Metrics.Listen = opts.metricsListen
	}
	if opts.snapshotPath != "" {
		cfg.Cache.SnapshotPath = opts.snapshotPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// resolveToken reads the token from the configured source, or from
// the terminal with echo disabled when prompt is set.
func resolveToken(cfg *config.Config, prompt bool) (*secret.Buffer, error) {
	if !prompt {
		return credential.Resolve(cfg.Token, nil)
	}
	stdinFileDescriptor := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFileDescriptor) {
		return nil, fmt.Errorf("no terminal available for --token-prompt")
	}
	fmt.Fprint(os.Stderr, "Token: ")
	tokenBytes, err := term.ReadPassword(stdinFileDescriptor)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}
	buffer, err := secret.FromBytesTrimmed(tokenBytes, "terminal")
	if err != nil {
		secret.Zero(tokenBytes)
		return nil, err
	}
	return buffer, nil
}

// serveMetrics starts the /metrics endpoint and returns its shutdown
// function.
func serveMetrics(address string, registry *prometheus.Registry, logger *slog.Logger) (func(), error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("listening for metrics on %s: %w", address, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	logger.Info("serving metrics", "address", listener.Addr().String())
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}, nil
}

func choosePalette(mode string) palette {
	switch mode {
	case "always":
		// Styles render as plain text on a pipe unless the profile is
		// forced.
		lipgloss.SetColorProfile(termenv.ANSI256)
		return colorPalette()
	case "never":
		return plainPalette()
	default:
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return colorPalette()
		}
		return plainPalette()
	}
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `slackline-watch prints a workspace's live event stream.

Connects with the token from the config's token section, keeps the
entity cache current, and writes one line per event to stdout. Logs go
to stderr.

Usage:
  slackline-watch [flags]

Examples:
  slackline-watch --config slackline.yaml
  slackline-watch --env-file .env --events message --events user.presence
  slackline-watch --token-prompt --raw --log-format json

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
