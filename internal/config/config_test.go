package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Mohsinsiddi/bidcli/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8545", cfg.RPCURL)
	assert.Equal(t, int64(31337), cfg.ChainID)
	assert.Equal(t, "http://localhost:3000/deployment-info.json", cfg.DeploymentURL)
	assert.Equal(t, 20, cfg.SyncInterval)
	assert.Equal(t, 15, cfg.SyncQuietPeriod)
	assert.False(t, cfg.Demo)
}

func TestSaveAndReloadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	cfg.RPCURL = "http://10.0.0.5:8545"
	cfg.DefaultWallet = "alice"
	cfg.Demo = true

	require.NoError(t, cfg.Save())

	reloaded, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.5:8545", reloaded.RPCURL)
	assert.Equal(t, "alice", reloaded.DefaultWallet)
	assert.True(t, reloaded.Demo)
	// Untouched keys keep their defaults.
	assert.Equal(t, int64(31337), reloaded.ChainID)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	cfg.RPCURL = "http://from-file:8545"
	require.NoError(t, cfg.Save())

	t.Setenv("BIDCLI_RPC_URL", "http://from-env:8545")
	t.Setenv("BIDCLI_SYNC_INTERVAL", "7")

	reloaded, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:8545", reloaded.RPCURL)
	assert.Equal(t, 7*time.Second, reloaded.SyncEvery())
}

func TestInvalidConfigFileErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o600))

	_, err := config.Load(dir)
	assert.Error(t, err)
}

func TestConfigFileCreatedOnSave(t *testing.T) {
	dir := t.TempDir()
	cfg, _ := config.Load(dir)
	require.NoError(t, cfg.Save())

	_, err := os.Stat(filepath.Join(dir, "config.json"))
	assert.NoError(t, err, "config.json should be created on save")
}

func TestConfigPaths(t *testing.T) {
	dir := t.TempDir()
	cfg, _ := config.Load(dir)
	assert.Equal(t, dir, cfg.Dir())
	assert.Equal(t, filepath.Join(dir, "wallets.json"), cfg.WalletsPath())
	assert.Equal(t, filepath.Join(dir, "state.json"), cfg.StatePath())
}

func TestLoadFromNonExistentDir(t *testing.T) {
	dir := t.TempDir() + "/subdir"
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	// Should create dir and return defaults.
	assert.Equal(t, int64(31337), cfg.ChainID)
}

func TestDurationsFallBackOnZero(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())
	cfg.SyncInterval = 0
	cfg.SyncQuietPeriod = -1
	cfg.WatchInterval = 0

	assert.Equal(t, 20*time.Second, cfg.SyncEvery())
	assert.Equal(t, 15*time.Second, cfg.SyncQuiet())
	assert.Equal(t, 5*time.Second, cfg.WatchEvery())
}
