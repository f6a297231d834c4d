package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	defaultRPCURL          = "http://127.0.0.1:8545"
	defaultDeploymentURL   = "http://localhost:3000/deployment-info.json"
	defaultDeploymentFile  = "deployment-info.json"
	defaultGeneratedConfig = "contract-config.env"
	defaultSyncInterval    = 20
	defaultSyncQuiet       = 15
	defaultListenAddr      = "127.0.0.1:8080"
	defaultWatchInterval   = 5

	envPrefix   = "BIDCLI"
	configFile  = "config.json"
	walletsFile = "wallets.json"
	stateFile   = "state.json"
)

// Load reads config from dir (or creates defaults). dir defaults to ~/.bidcli.
// Every key can be overridden by a BIDCLI_<KEY> environment variable.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := homedir.Dir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".bidcli")
	}
	dir, err := homedir.Expand(dir)
	if err != nil {
		return nil, fmt.Errorf("expanding config dir: %w", err)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	for key, val := range defaultKeys(cfg) {
		v.SetDefault(key, val)
	}

	path := filepath.Join(dir, configFile)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.configDir = dir

	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// WalletsPath is where the wallet list is persisted.
func (c *Config) WalletsPath() string {
	return filepath.Join(c.configDir, walletsFile)
}

// StatePath is the durable key/value file (last known deployment etc).
func (c *Config) StatePath() string {
	return filepath.Join(c.configDir, stateFile)
}

// SyncEvery returns the background sync timer interval.
func (c *Config) SyncEvery() time.Duration {
	return seconds(c.SyncInterval, defaultSyncInterval)
}

// SyncQuiet returns the minimum gap between two background syncs.
func (c *Config) SyncQuiet() time.Duration {
	return seconds(c.SyncQuietPeriod, defaultSyncQuiet)
}

// WatchEvery returns the poll interval of the live board.
func (c *Config) WatchEvery() time.Duration {
	return seconds(c.WatchInterval, defaultWatchInterval)
}

// --- helpers ---

func defaults(dir string) *Config {
	return &Config{
		RPCURL:          defaultRPCURL,
		ChainID:         HardhatChainID,
		DeploymentURL:   defaultDeploymentURL,
		DeploymentFile:  defaultDeploymentFile,
		GeneratedConfig: defaultGeneratedConfig,
		SyncInterval:    defaultSyncInterval,
		SyncQuietPeriod: defaultSyncQuiet,
		ListenAddr:      defaultListenAddr,
		WatchInterval:   defaultWatchInterval,
		configDir:       dir,
	}
}

// defaultKeys registers every key with viper so AutomaticEnv can see it
// during Unmarshal.
func defaultKeys(c *Config) map[string]any {
	return map[string]any{
		"rpc_url":          c.RPCURL,
		"chain_id":         c.ChainID,
		"deployment_url":   c.DeploymentURL,
		"deployment_file":  c.DeploymentFile,
		"generated_config": c.GeneratedConfig,
		"default_wallet":   c.DefaultWallet,
		"demo":             c.Demo,
		"sync_interval":    c.SyncInterval,
		"sync_quiet":       c.SyncQuietPeriod,
		"listen_addr":      c.ListenAddr,
		"watch_interval":   c.WatchInterval,
	}
}

func seconds(n, fallback int) time.Duration {
	if n <= 0 {
		n = fallback
	}
	return time.Duration(n) * time.Second
}
