package models

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Debug          bool   `yaml:"debug" envconfig:"LOCUS_DEBUG"`
	SemVer         string `yaml:"semVer" envconfig:"LOCUS_SEMVER"`
	ServiceContact string `yaml:"serviceContact" envconfig:"LOCUS_SERVICE_CONTACT"`
	Api            struct {
		Port    string `yaml:"port" envconfig:"LOCUS_API_INTERNAL_PORT"`
		VcfPath string `yaml:"vcfPath" envconfig:"LOCUS_API_VCF_PATH"`

		// widest window (in coordinate units) a single non-streaming
		// region query may span
		MaxRegionSize uint64 `yaml:"maxRegionSize" envconfig:"LOCUS_API_MAX_REGION_SIZE"`

		// keep the identifier index and statistics in memory only
		// (read-only filesystems)
		NeverSaveIndexes bool `yaml:"neverSaveIndexes" envconfig:"LOCUS_API_NEVER_SAVE_INDEXES"`
	} `yaml:"api"`
	Streams struct {
		SessionTimeoutSeconds int `yaml:"sessionTimeoutSeconds" envconfig:"LOCUS_STREAMS_SESSION_TIMEOUT_SECONDS"`
		SweepIntervalSeconds  int `yaml:"sweepIntervalSeconds" envconfig:"LOCUS_STREAMS_SWEEP_INTERVAL_SECONDS"`
	} `yaml:"streams"`
}

func defaultConfig() *Config {
	cfg := &Config{
		SemVer:         "0.1.0",
		ServiceContact: "mailto:info@c3g.ca",
	}
	cfg.Api.Port = "5000"
	cfg.Api.MaxRegionSize = 10000
	cfg.Streams.SessionTimeoutSeconds = 300
	cfg.Streams.SweepIntervalSeconds = 60
	return cfg
}

// LoadConfig layers an optional yaml file (LOCUS_CONFIG_FILE) between
// the built-in defaults and the environment; environment always wins.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	if configFile := os.Getenv("LOCUS_CONFIG_FILE"); configFile != "" {
		contents, err := os.ReadFile(configFile)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(contents, cfg); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
