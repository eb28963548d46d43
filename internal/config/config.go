// Package config holds the settings shared by the CLI commands. Values are
// unmarshalled from Viper, which layers flags over environment variables
// over ~/.vibe-proteoform.yaml.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/inodb/vibe-proteoform/internal/decoy"
	"github.com/inodb/vibe-proteoform/internal/variant"
)

// EnvPrefix prefixes environment overrides, e.g. VIBE_PROTEOFORM_DECOYS_TYPE.
const EnvPrefix = "VIBE_PROTEOFORM"

// VariantConfig bounds variant application.
type VariantConfig struct {
	// heterozygous variants per isoform before branching collapses
	MaxPerIsoform int `mapstructure:"max-per-isoform"`

	// minimum allele depth for a genotype to be used
	MinAlleleDepth int `mapstructure:"min-allele-depth"`

	// maximum proteoforms per input polymer, 0 for no limit
	MaxIsoforms int `mapstructure:"max-isoforms"`
}

// DecoyConfig selects decoy generation.
type DecoyConfig struct {
	// none, reverse or slide
	Type string `mapstructure:"type"`

	// prefix for decoy accessions and annotation types
	Identifier string `mapstructure:"identifier"`
}

// OutputConfig controls where results go.
type OutputConfig struct {
	// tab, fasta, duckdb or sqlite
	Format string `mapstructure:"format"`

	// DuckDB store path used by the duckdb format
	Store string `mapstructure:"store"`
}

// Config is the root-level settings struct.
type Config struct {
	Variants VariantConfig `mapstructure:"variants"`
	Decoys   DecoyConfig   `mapstructure:"decoys"`
	Output   OutputConfig  `mapstructure:"output"`

	// parallel workers, 0 for one per CPU
	Workers int  `mapstructure:"workers"`
	Verbose bool `mapstructure:"verbose"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	opts := variant.DefaultOptions()
	v.SetDefault("variants.max-per-isoform", opts.MaxVariantsPerIsoform)
	v.SetDefault("variants.min-allele-depth", opts.MinAlleleDepth)
	v.SetDefault("variants.max-isoforms", opts.MaxIsoforms)
	v.SetDefault("decoys.type", decoy.TypeReverse.String())
	v.SetDefault("decoys.identifier", decoy.DefaultIdentifier)
	v.SetDefault("output.format", "tab")
	v.SetDefault("output.store", "")
	v.SetDefault("workers", 0)
	v.SetDefault("verbose", false)
}

// BindEnv makes v read VIBE_PROTEOFORM_* variables, with dots and dashes in
// keys mapped to underscores.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings no command can run with.
func (c Config) Validate() error {
	if c.Variants.MaxPerIsoform < 0 {
		return fmt.Errorf("variants.max-per-isoform must be >= 0, got %d", c.Variants.MaxPerIsoform)
	}
	if c.Variants.MinAlleleDepth < 0 {
		return fmt.Errorf("variants.min-allele-depth must be >= 0, got %d", c.Variants.MinAlleleDepth)
	}
	if c.Variants.MaxIsoforms < 0 {
		return fmt.Errorf("variants.max-isoforms must be >= 0, got %d", c.Variants.MaxIsoforms)
	}
	if _, err := decoy.ParseType(c.Decoys.Type); err != nil {
		return err
	}
	switch c.Output.Format {
	case "tab", "fasta", "duckdb", "sqlite":
	default:
		return fmt.Errorf("unknown output format %q (want tab, fasta, duckdb or sqlite)", c.Output.Format)
	}
	return nil
}

// VariantOptions returns the engine options for c. The logger is left unset.
func (c Config) VariantOptions() variant.Options {
	return variant.Options{
		MaxVariantsPerIsoform: c.Variants.MaxPerIsoform,
		MinAlleleDepth:        c.Variants.MinAlleleDepth,
		MaxIsoforms:           c.Variants.MaxIsoforms,
	}
}

// DecoyOptions returns the decoy options for c. Validate must have passed.
func (c Config) DecoyOptions() decoy.Options {
	t, _ := decoy.ParseType(c.Decoys.Type)
	return decoy.Options{Type: t, Identifier: c.Decoys.Identifier}
}
