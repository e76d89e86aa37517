package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.ProofComments)
	assert.True(t, cfg.DeterministicSkolem)
	assert.False(t, cfg.SuperRestricted)
	assert.Nil(t, cfg.FixedNow)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := DefaultConfig()
	cfg.SuperRestricted = true
	cfg.FactLimit = 10000
	cfg.MaxResults = 50

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, loaded.SuperRestricted)
	assert.Equal(t, 10000, loaded.FactLimit)
	assert.Equal(t, 50, loaded.MaxResults)
	// Fields the file omits still come from DefaultConfig.
	assert.True(t, loaded.DeterministicSkolem)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNowUsesFixedNowWhenSet(t *testing.T) {
	cfg := DefaultConfig()
	fixed := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg.FixedNow = &fixed
	assert.Equal(t, fixed, cfg.Now())
}

func TestNowFallsBackToRealClock(t *testing.T) {
	cfg := DefaultConfig()
	before := time.Now()
	got := cfg.Now()
	assert.False(t, got.Before(before))
}
