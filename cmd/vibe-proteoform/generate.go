package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-proteoform/internal/bio"
	"github.com/inodb/vibe-proteoform/internal/config"
	"github.com/inodb/vibe-proteoform/internal/dbfile"
	"github.com/inodb/vibe-proteoform/internal/decoy"
	"github.com/inodb/vibe-proteoform/internal/duckdb"
	"github.com/inodb/vibe-proteoform/internal/output"
	"github.com/inodb/vibe-proteoform/internal/pipeline"
	"github.com/inodb/vibe-proteoform/internal/sqlite"
	"github.com/inodb/vibe-proteoform/internal/variant"
)

// generateFlags are the per-command flags of variants and decoys.
type generateFlags struct {
	outputFile     string
	kind           string
	includeTargets bool
}

func newVariantsCmd() *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "variants <database>",
		Short: "Apply genotyped sequence variants and write proteoforms",
		Long: `Apply the genotyped sequence variants of every polymer in a database and
write the resulting proteoforms. Decoys of the proteoforms are appended
unless --decoy-type none is given.

By default only the consensus proteoform of each polymer is written
(variants.max-isoforms = 1). Pass --max-isoforms 0 to keep every proteoform.`,
		Example: `  vibe-proteoform variants db.yaml
  vibe-proteoform variants --max-isoforms 0 --decoy-type none db.yaml
  vibe-proteoform variants -f duckdb --store results.duckdb db.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, "variants", args[0], flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.outputFile, "output", "o", "", "Output file (default: stdout)")
	f.StringVar(&flags.kind, "kind", dbfile.KindProtein, "Polymer kind of FASTA input: protein, rna")
	f.Int("max-per-isoform", 4, "Heterozygous variants per isoform before branching collapses")
	f.Int("min-allele-depth", 1, "Minimum allele depth for a genotype to be applied")
	f.Int("max-isoforms", 1, "Maximum proteoforms per polymer (0 = no limit)")

	viper.BindPFlag("variants.max-per-isoform", f.Lookup("max-per-isoform"))
	viper.BindPFlag("variants.min-allele-depth", f.Lookup("min-allele-depth"))
	viper.BindPFlag("variants.max-isoforms", f.Lookup("max-isoforms"))

	return cmd
}

func newDecoysCmd() *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "decoys <database>",
		Short: "Generate decoys for every polymer in a database",
		Example: `  vibe-proteoform decoys --decoy-type slide db.yaml
  vibe-proteoform decoys --include-targets -f fasta -o search.fasta uniprot.fasta.gz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, "decoys", args[0], flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.outputFile, "output", "o", "", "Output file (default: stdout)")
	f.StringVar(&flags.kind, "kind", dbfile.KindProtein, "Polymer kind of FASTA input: protein, rna")
	f.BoolVar(&flags.includeTargets, "include-targets", false, "Write the targets before their decoys")

	return cmd
}

func runGenerate(cmd *cobra.Command, command, input string, flags generateFlags) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	db, err := loadDatabase(input, flags.kind, logger)
	if err != nil {
		return err
	}
	logger.Info("loaded database",
		zap.String("path", input),
		zap.Int("proteins", db.Proteins.Len()),
		zap.Int("rnas", db.RNAs.Len()),
		zap.Int("skipped", db.Skipped))

	var results []bio.BioPolymer
	switch command {
	case "variants":
		results = append(results, expand(db.Proteins.Polymers(), cfg, logger)...)
		results = append(results, expand(db.RNAs.Polymers(), cfg, logger)...)
	case "decoys":
		results = append(results, decoys(db.Proteins.Polymers(), cfg, logger, flags.includeTargets)...)
		results = append(results, decoys(db.RNAs.Polymers(), cfg, logger, flags.includeTargets)...)
	}

	return writeResults(cmd, cfg, logger, command, input, flags.outputFile, results)
}

// loadDatabase picks the loader from the file extension.
func loadDatabase(path, kind string, logger *zap.Logger) (*dbfile.Database, error) {
	loader := dbfile.NewLoader(logger)
	switch detectInputFormat(path) {
	case "yaml":
		return loader.LoadFile(path)
	case "fasta":
		return loader.LoadFASTA(path, kind)
	default:
		return nil, fmt.Errorf("cannot detect input format of %s (want .yaml, .yml, .fasta or .fa)", path)
	}
}

// detectInputFormat detects the input file format based on extension.
func detectInputFormat(path string) string {
	lowerPath := strings.ToLower(path)

	// Handle gzipped files
	lowerPath = strings.TrimSuffix(lowerPath, ".gz")

	switch filepath.Ext(lowerPath) {
	case ".yaml", ".yml":
		return "yaml"
	case ".fasta", ".fa", ".faa", ".fna":
		return "fasta"
	}
	return ""
}

// expand applies variants to every polymer in parallel and appends decoys
// of the expanded set when a decoy type is configured.
func expand[T bio.Polymer[T]](polymers []T, cfg config.Config, logger *zap.Logger) []bio.BioPolymer {
	opts := cfg.VariantOptions()
	opts.Logger = logger

	forms := pipeline.Map(polymers, cfg.Workers, func(p T) ([]T, error) {
		return variant.GetVariantBioPolymers(p, opts), nil
	}, logFailure[T](logger, "applying variants"))

	out := bio.AsBioPolymers(forms)
	dopts := cfg.DecoyOptions()
	if dopts.Type == decoy.TypeNone {
		return out
	}
	return append(out, generateDecoys(forms, dopts, cfg.Workers, logger)...)
}

func decoys[T bio.Polymer[T]](polymers []T, cfg config.Config, logger *zap.Logger, includeTargets bool) []bio.BioPolymer {
	var out []bio.BioPolymer
	if includeTargets {
		out = bio.AsBioPolymers(polymers)
	}
	return append(out, generateDecoys(polymers, cfg.DecoyOptions(), cfg.Workers, logger)...)
}

func generateDecoys[T bio.Polymer[T]](polymers []T, opts decoy.Options, workers int, logger *zap.Logger) []bio.BioPolymer {
	opts.Logger = logger
	out := pipeline.Map(polymers, workers, func(p T) ([]T, error) {
		return decoy.Generate([]T{p}, opts), nil
	}, logFailure[T](logger, "generating decoys"))
	return bio.AsBioPolymers(out)
}

func logFailure[T bio.BioPolymer](logger *zap.Logger, step string) func(T, error) {
	return func(p T, err error) {
		logger.Warn(step+" failed",
			zap.String("accession", p.Accession()),
			zap.Error(err))
	}
}

// writeResults sends results to the configured output format.
func writeResults(cmd *cobra.Command, cfg config.Config, logger *zap.Logger, command, input, outputFile string, results []bio.BioPolymer) error {
	switch cfg.Output.Format {
	case "duckdb":
		return writeStore(cfg, logger, command, input, outputFile, results)
	case "sqlite":
		if outputFile == "" {
			return fmt.Errorf("--output is required for sqlite format")
		}
		return writeSQLite(outputFile, command, input, results)
	}

	var out io.Writer = cmd.OutOrStdout()
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch cfg.Output.Format {
	case "fasta":
		w := output.NewFASTAWriter(out)
		for _, p := range results {
			if err := w.Write(p); err != nil {
				return fmt.Errorf("writing FASTA: %w", err)
			}
		}
		return w.Flush()
	default:
		w := output.NewTabWriter(out)
		if err := w.WriteHeader(); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
		for _, p := range results {
			if err := w.Write(p); err != nil {
				return fmt.Errorf("writing row: %w", err)
			}
		}
		return w.Flush()
	}
}

func writeStore(cfg config.Config, logger *zap.Logger, command, input, outputFile string, results []bio.BioPolymer) error {
	path := cfg.Output.Store
	if outputFile != "" {
		path = outputFile
	}
	if path == "" {
		return fmt.Errorf("--store or --output is required for duckdb format")
	}

	store, err := duckdb.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.BeginRun(command, input)
	if err != nil {
		return err
	}
	if err := store.WriteProteoforms(run.ID, results); err != nil {
		return fmt.Errorf("writing proteoforms: %w", err)
	}

	targets, decoys, err := store.CountProteoforms(run.ID)
	if err != nil {
		return err
	}
	logger.Info("stored run",
		zap.String("run_id", run.ID),
		zap.String("store", path),
		zap.Int("targets", targets),
		zap.Int("decoys", decoys))
	return nil
}

func writeSQLite(path, command, input string, results []bio.BioPolymer) error {
	w, err := sqlite.NewWriter(path, command+" "+input)
	if err != nil {
		return err
	}
	for _, p := range results {
		if err := w.Write(p); err != nil {
			w.Close()
			return err
		}
	}
	return w.Finalize()
}
