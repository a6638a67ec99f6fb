/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ssargent/nasbench/pkg/config"
	"github.com/ssargent/nasbench/pkg/logging"
	"github.com/ssargent/nasbench/pkg/metrics"
	"github.com/ssargent/nasbench/pkg/nasbench"
)

// app is the state shared by every subcommand for one invocation
type app struct {
	config   *config.Config
	logger   zerolog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

type appKey struct{}

func appFrom(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New("application not initialised")
	}
	a, ok := ctx.Value(appKey{}).(*app)
	if !ok {
		return nil, errors.New("application not initialised")
	}
	return a, nil
}

func (a *app) scannerConfig() nasbench.ScannerConfig {
	return a.config.ScannerConfig(&a.logger, a.metrics)
}

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nasbench",
		Short: "nasbench - NAS benchmark TFRecord decoder",
		Long: `nasbench reads NAS-Bench-101 style datasets stored as TFRecord files.

Every frame is checked against its length and data checksums, and every
payload is decoded into a module hash, adjacency matrix and operation list.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Config file (YAML, or TOML with a .toml extension)")
	flags.String("log-level", "", "Log level: trace, debug, info, warn, error, off")
	flags.String("log-format", "", "Log format: console or json")
	flags.Uint64("max-record-size", 0, "Largest frame payload accepted, in bytes")
	flags.Bool("skip-malformed", false, "Skip records whose payload cannot be decoded")
	flags.Bool("strict", false, "Require every graph to start at input and end at output")
	flags.Bool("metrics", false, "Print decode counters when the command finishes")

	rootCmd.AddCommand(
		newVerifyCmd(),
		newDumpCmd(),
		newImportCmd(),
		newInitCmd(),
	)
	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := execute(newRootCmd()); err != nil {
		os.Exit(1)
	}
}

// execute runs root and prints the decode counters when --metrics is set,
// whether or not the command succeeded.
func execute(root *cobra.Command) error {
	cmd, err := root.ExecuteC()
	if cmd == nil {
		return err
	}
	if show, _ := cmd.Flags().GetBool("metrics"); show {
		if a, appErr := appFrom(cmd); appErr == nil {
			printMetrics(cmd, a.registry)
		}
	}
	return err
}

// setup loads configuration, applies flag overrides and builds the logger
func setup(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format, _ = flags.GetString("log-format")
	}
	if flags.Changed("max-record-size") {
		cfg.Decoder.MaxRecordSize, _ = flags.GetUint64("max-record-size")
	}
	if flags.Changed("skip-malformed") {
		cfg.Scanner.SkipMalformed, _ = flags.GetBool("skip-malformed")
	}
	if flags.Changed("strict") {
		cfg.Scanner.Strict, _ = flags.GetBool("strict")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Level, logging.Format(cfg.Logging.Format), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	a := &app{
		config:   cfg,
		logger:   logger,
		registry: registry,
		metrics:  metrics.NewMetrics(registry),
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, appKey{}, a))
	return nil
}

func printMetrics(cmd *cobra.Command, registry *prometheus.Registry) {
	families, err := registry.Gather()
	if err != nil {
		cmd.PrintErrf("Error gathering metrics: %v\n", err)
		return
	}

	var lines []string
	for _, family := range families {
		for _, m := range family.GetMetric() {
			var labels []string
			for _, l := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
			}
			name := family.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			lines = append(lines, fmt.Sprintf("%s %g", name, m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		cmd.PrintErrln(line)
	}
}
