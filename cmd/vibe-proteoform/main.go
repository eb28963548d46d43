// Package main provides the vibe-proteoform command-line tool.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/inodb/vibe-proteoform/internal/config"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var cfgFile string

func main() {
	os.Exit(run())
}

func run() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vibe-proteoform",
		Short: "Expand protein and RNA databases into variant proteoforms and decoys",
		Long: `vibe-proteoform applies genotyped sequence variants to protein and RNA
databases and generates reverse or slide decoys for target-decoy search.

Input is a YAML polymer database (.yaml, .yml) or a FASTA file (.fasta,
.fa, optionally gzipped). Settings are read from ~/.vibe-proteoform.yaml,
VIBE_PROTEOFORM_* environment variables and flags, in increasing priority.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default: ~/.vibe-proteoform.yaml)")
	pf.BoolP("verbose", "v", false, "Log debug messages")
	pf.Int("workers", 0, "Parallel workers (0 = one per CPU)")
	pf.String("decoy-type", "reverse", "Decoy type: none, reverse, slide")
	pf.String("decoy-identifier", "DECOY_", "Prefix for decoy accessions")
	pf.StringP("format", "f", "tab", "Output format: tab, fasta, duckdb, sqlite")
	pf.String("store", "", "DuckDB store path for --format duckdb")

	viper.BindPFlag("verbose", pf.Lookup("verbose"))
	viper.BindPFlag("workers", pf.Lookup("workers"))
	viper.BindPFlag("decoys.type", pf.Lookup("decoy-type"))
	viper.BindPFlag("decoys.identifier", pf.Lookup("decoy-identifier"))
	viper.BindPFlag("output.format", pf.Lookup("format"))
	viper.BindPFlag("output.store", pf.Lookup("store"))

	cmd.AddCommand(newVariantsCmd())
	cmd.AddCommand(newDecoysCmd())
	cmd.AddCommand(newPalindromeCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vibe-proteoform version %s (%s) built %s\n", version, commit, date)
		},
	}
}

// initConfig wires the config file and environment into the global viper.
func initConfig() error {
	config.SetDefaults(viper.GetViper())
	config.BindEnv(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		viper.SetConfigFile(filepath.Join(home, ".vibe-proteoform.yaml"))
	}

	if err := viper.ReadInConfig(); err != nil {
		// The default file is optional.
		if cfgFile == "" && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// newLogger builds a console logger on stderr. Warnings and errors are
// always shown; verbose adds info and debug.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
