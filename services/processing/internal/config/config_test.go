package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "jobs.raw", cfg.RawSubject)
	assert.Equal(t, "jobs.rejected", cfg.RejectSubject)
	assert.Equal(t, PolicySkip, cfg.FailurePolicy)
	assert.Equal(t, time.Now().Year(), cfg.CurrentYear)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, "dsjobs", cfg.ClickHouseDatabase)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("CURRENT_YEAR", "2024")
	t.Setenv("FAILURE_POLICY", "nullfill")
	t.Setenv("WORKERS", "0")
	t.Setenv("PROCESSING_TIMEOUT", "30s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 2024, cfg.CurrentYear)
	assert.Equal(t, PolicyNullFill, cfg.FailurePolicy)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 30*time.Second, cfg.ProcessingTimeout)
}

func TestLoadConfigRejectsUnknownPolicy(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("FAILURE_POLICY", "abort")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestCleanerConfig(t *testing.T) {
	cfg := &Config{CurrentYear: 2024}
	cc, err := cfg.CleanerConfig()
	require.NoError(t, err)
	assert.Equal(t, 2024, cc.CurrentYear)
	assert.Len(t, cc.Skills, 18)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("skills_case_insensitive: true\n"), 0o600))
	cfg.RulesFile = path

	cc, err = cfg.CleanerConfig()
	require.NoError(t, err)
	assert.True(t, cc.SkillsCaseInsensitive)
}
