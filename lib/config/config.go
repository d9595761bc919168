package config

import (
	"os"
	"path/filepath"

	"github.com/go-remailer/go-remailer/lib/util"
	"github.com/go-remailer/go-remailer/lib/util/logger"
	"github.com/spf13/viper"
)

var (
	CfgFile string
	log     = logger.GetLogger()
)

const BASE_DIR = ".go-remailer"

func InitConfig() {
	if CfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(CfgFile)
	} else {
		// Set up viper to use the default config path $HOME/.go-remailer/
		viper.AddConfigPath(BuildBaseDirPath())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Load defaults
	setDefaults()

	// handle config file creating it if needed
	handleConfigFile()
}

func setDefaults() {
	viper.SetDefault("stats.url", DefaultStatsConfig.URL)
	viper.SetDefault("stats.timeout", DefaultStatsConfig.Timeout)
	viper.SetDefault("stats.requests_per_second", DefaultStatsConfig.RequestsPerSecond)

	viper.SetDefault("keyring.dir", DefaultKeyringConfig.Dir)

	viper.SetDefault("chain.max_length", DefaultChainConfig.MaxLength)

	viper.SetDefault("route.redundancy", DefaultRouteConfig.Redundancy)
	viper.SetDefault("route.workers", DefaultRouteConfig.Workers)

	viper.SetDefault("output.format", DefaultOutputConfig.Format)
}

func handleConfigFile() {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if CfgFile != "" {
				log.Fatalf("Config file %s is not found: %s", CfgFile, err)
			} else {
				createDefaultConfig(BuildBaseDirPath())
			}
		} else {
			log.Fatalf("Error reading config file: %s", err)
		}
	}
}

func createDefaultConfig(defaultConfigDir string) {
	defaultConfigFile := filepath.Join(defaultConfigDir, "config.yaml")
	// Ensure directory exists
	if err := os.MkdirAll(defaultConfigDir, 0o755); err != nil {
		log.Fatalf("Could not create config directory %s: %s", defaultConfigDir, err)
	}
	// Write current config file
	if err := viper.SafeWriteConfigAs(defaultConfigFile); err != nil {
		log.Fatalf("Could not write default config file: %s", err)
	}
	log.Debugf("Created default configuration at: %s", defaultConfigFile)
}

func BuildBaseDirPath() string {
	return filepath.Join(util.UserHome(), BASE_DIR)
}

// CurrentConfig assembles a Config from the current viper settings.
// This is the preferred way to read configuration instead of touching
// viper keys directly at call sites.
func CurrentConfig() *Config {
	return &Config{
		Stats: StatsConfig{
			URL:               viper.GetString("stats.url"),
			Timeout:           viper.GetDuration("stats.timeout"),
			RequestsPerSecond: viper.GetFloat64("stats.requests_per_second"),
		},
		Keyring: KeyringConfig{
			Dir: viper.GetString("keyring.dir"),
		},
		Chain: ChainConfig{
			MaxLength: viper.GetInt("chain.max_length"),
		},
		Route: RouteConfig{
			Redundancy: viper.GetInt("route.redundancy"),
			Workers:    viper.GetInt("route.workers"),
		},
		Output: OutputConfig{
			Format: viper.GetString("output.format"),
		},
	}
}
