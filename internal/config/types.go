package config

// Config holds all bidcli configuration.
type Config struct {
	RPCURL          string `json:"rpc_url"          mapstructure:"rpc_url"`
	ChainID         int64  `json:"chain_id"         mapstructure:"chain_id"` // required network, 31337 for Hardhat
	DeploymentURL   string `json:"deployment_url"   mapstructure:"deployment_url"`
	DeploymentFile  string `json:"deployment_file"  mapstructure:"deployment_file"`
	GeneratedConfig string `json:"generated_config" mapstructure:"generated_config"` // dotenv written by the deploy script
	DefaultWallet   string `json:"default_wallet"   mapstructure:"default_wallet"`
	Demo            bool   `json:"demo"             mapstructure:"demo"`
	SyncInterval    int    `json:"sync_interval"    mapstructure:"sync_interval"`    // seconds
	SyncQuietPeriod int    `json:"sync_quiet"       mapstructure:"sync_quiet"`       // seconds
	ListenAddr      string `json:"listen_addr"      mapstructure:"listen_addr"`
	WatchInterval   int    `json:"watch_interval"   mapstructure:"watch_interval"`   // seconds

	// internal: config dir path used for Save()
	configDir string
}
