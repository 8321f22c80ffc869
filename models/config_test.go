package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("should fall back to the built-in defaults", func(t *testing.T) {
		cfg, err := LoadConfig()

		assert.Nil(t, err)
		assert.Equal(t, "5000", cfg.Api.Port)
		assert.Equal(t, uint64(10000), cfg.Api.MaxRegionSize)
		assert.Equal(t, 300, cfg.Streams.SessionTimeoutSeconds)
		assert.Equal(t, 60, cfg.Streams.SweepIntervalSeconds)
	})

	t.Run("should layer a yaml file over the defaults", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "config.yaml")
		contents := "api:\n  port: \"8080\"\n  vcfPath: /data/test.vcf.gz\n"
		assert.Nil(t, os.WriteFile(configFile, []byte(contents), 0644))
		t.Setenv("LOCUS_CONFIG_FILE", configFile)

		cfg, err := LoadConfig()

		assert.Nil(t, err)
		assert.Equal(t, "8080", cfg.Api.Port)
		assert.Equal(t, "/data/test.vcf.gz", cfg.Api.VcfPath)

		// untouched fields keep their defaults
		assert.Equal(t, uint64(10000), cfg.Api.MaxRegionSize)
	})

	t.Run("should let the environment win over yaml", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "config.yaml")
		assert.Nil(t, os.WriteFile(configFile, []byte("api:\n  port: \"8080\"\n"), 0644))
		t.Setenv("LOCUS_CONFIG_FILE", configFile)
		t.Setenv("LOCUS_API_INTERNAL_PORT", "9090")

		cfg, err := LoadConfig()

		assert.Nil(t, err)
		assert.Equal(t, "9090", cfg.Api.Port)
	})

	t.Run("should fail on an unreadable yaml file", func(t *testing.T) {
		t.Setenv("LOCUS_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

		_, err := LoadConfig()
		assert.NotNil(t, err)
	})
}
