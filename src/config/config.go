// Package config is for the settings shared by the kmervec subcommands, unmarshalled
// from Viper (see: /cmd) so they can come from flags, a settings file or the environment
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/will-rowe/kmervec/src/dataset"
	"github.com/will-rowe/kmervec/src/seqio"
	"github.com/will-rowe/kmervec/src/vocabulary"
)

// EnvPrefix is prepended to environment variables that override settings (e.g. KMERVEC_K)
const EnvPrefix = "KMERVEC"

// VocabularyConfig holds the settings that shape the feature columns
type VocabularyConfig struct {
	// the k-mer size
	K int `mapstructure:"k"`

	// observed or exhaustive
	Mode string `mapstructure:"mode"`

	// first-seen or lexical, observed vocabularies only
	Order string `mapstructure:"order"`

	// kmer or composition
	Feature string `mapstructure:"feature"`

	// the ceiling on the number of columns
	MaxColumns int `mapstructure:"max-columns"`
}

// RecordConfig holds the settings for cleaning and filtering input records
type RecordConfig struct {
	// reject or strip characters outside of ACGT
	Policy string `mapstructure:"policy"`

	// reject or skip records that can't be vectorised
	OnInvalid string `mapstructure:"on-invalid"`
}

// TrainConfig holds the settings used by the train subcommand
type TrainConfig struct {
	// proportion of records held back for evaluation
	TestFraction float64 `mapstructure:"test-fraction"`

	// seed for the train/test split
	Seed int64 `mapstructure:"seed"`

	// drop columns that are zero in every row before training
	Prune bool `mapstructure:"prune"`
}

// Config is the root-level settings struct
type Config struct {
	Vocabulary VocabularyConfig `mapstructure:"vocabulary"`
	Records    RecordConfig     `mapstructure:"records"`
	Train      TrainConfig      `mapstructure:"train"`

	// divide counts by the number of k-mers in each sequence
	Normalise bool `mapstructure:"normalise"`

	// number of goroutines used to vectorise records
	Workers int `mapstructure:"workers"`

	// save plots alongside the outputs
	Plot bool `mapstructure:"plot"`
}

// SetDefaults registers the default settings with a Viper instance
func SetDefaults(v *viper.Viper) {
	def := dataset.DefaultConfig()
	v.SetDefault("vocabulary.k", def.K)
	v.SetDefault("vocabulary.mode", def.Mode.String())
	v.SetDefault("vocabulary.order", def.Order.String())
	v.SetDefault("vocabulary.feature", def.Feature.String())
	v.SetDefault("vocabulary.max-columns", vocabulary.DefaultMaxColumns)
	v.SetDefault("records.policy", def.Policy.String())
	v.SetDefault("records.on-invalid", def.OnInvalid.String())
	v.SetDefault("train.test-fraction", 0.2)
	v.SetDefault("train.seed", int64(1))
	v.SetDefault("train.prune", false)
	v.SetDefault("normalise", def.Normalise)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("plot", false)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// NewConfig returns a Config populated by the Viper settings and checks it
func NewConfig(v *viper.Viper) (*Config, error) {
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}
	if _, err := c.Dataset(); err != nil {
		return nil, err
	}
	if c.Train.TestFraction <= 0 || c.Train.TestFraction >= 1 {
		return nil, fmt.Errorf("test fraction must be between 0 and 1 (exclusive): %v", c.Train.TestFraction)
	}
	return c, nil
}

// Dataset converts the settings into a dataset assembly config
func (c *Config) Dataset() (dataset.Config, error) {
	cfg := dataset.DefaultConfig()
	var err error
	if cfg.Mode, err = vocabulary.ParseMode(c.Vocabulary.Mode); err != nil {
		return cfg, err
	}
	if cfg.Order, err = vocabulary.ParseOrder(c.Vocabulary.Order); err != nil {
		return cfg, err
	}
	if cfg.Feature, err = vocabulary.ParseFeature(c.Vocabulary.Feature); err != nil {
		return cfg, err
	}
	if cfg.Policy, err = seqio.ParsePolicy(c.Records.Policy); err != nil {
		return cfg, err
	}
	if cfg.OnInvalid, err = dataset.ParseInvalidPolicy(c.Records.OnInvalid); err != nil {
		return cfg, err
	}
	cfg.K = c.Vocabulary.K
	cfg.MaxColumns = c.Vocabulary.MaxColumns
	cfg.Normalise = c.Normalise
	cfg.Workers = c.Workers
	return cfg, cfg.Validate()
}
