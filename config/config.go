package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	ConfigDebug                   = "debug"
	ConfigCPUProfile              = "cpu-profile"
	ConfigMemProfile              = "mem-profile"
	ConfigDataPath                = "data-path"
	ConfigNatsURL                 = "nats-url"
	ConfigRedisURL                = "redis-url"
	ConfigSqlitePath              = "sqlite-path"
	ConfigServerAddr              = "server-addr"
	ConfigWorkerURL               = "worker-url"
	ConfigWorkerAPIKey            = "worker-api-key"
	ConfigWorkerPollInterval      = "worker-poll-interval"
	ConfigWorkerHeartbeatInterval = "worker-heartbeat-interval"
	ConfigLambdaFunction          = "lambda-function"
	ConfigCacheMemoryFraction     = "cache-memory-fraction"
	ConfigCacheMaxCost            = "cache-max-cost"
	ConfigSimThreads              = "sim-threads"
	ConfigDefaultPrevalentWind    = "default-prevalent-wind"
	ConfigDefaultSeatWind         = "default-seat-wind"
	ConfigConfigFile              = "config-file"
	ConfigAliases                 = "aliases"
)

// Config wraps a viper instance. Values come from defaults, then
// GUOBIAO_* environment variables, then --key=value arguments.
type Config struct {
	*viper.Viper
}

func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigDataPath, "./data")
	c.SetDefault(ConfigNatsURL, "nats://127.0.0.1:4222")
	c.SetDefault(ConfigRedisURL, "")
	c.SetDefault(ConfigSqlitePath, "./data/hands.db")
	c.SetDefault(ConfigServerAddr, ":8088")
	c.SetDefault(ConfigWorkerPollInterval, "5s")
	c.SetDefault(ConfigWorkerHeartbeatInterval, "30s")
	c.SetDefault(ConfigLambdaFunction, "guobiao-score")
	c.SetDefault(ConfigCacheMemoryFraction, 0.25)
	c.SetDefault(ConfigCacheMaxCost, 1<<26)
	c.SetDefault(ConfigSimThreads, 0)
	c.SetDefault(ConfigDefaultPrevalentWind, "E")
	c.SetDefault(ConfigDefaultSeatWind, "E")
}

// Load reads the environment and then any --key=value or --flag
// arguments. Arguments that are not flags are ignored.
func (c *Config) Load(args []string) error {
	c.SetEnvPrefix("GUOBIAO")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	c.setDefaults()

	for _, arg := range args {
		if !strings.HasPrefix(arg, "--") {
			continue
		}
		key, val, found := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		if key == "" {
			return fmt.Errorf("bad argument %q", arg)
		}
		if !found {
			val = "true"
		}
		c.Set(key, val)
	}
	if path := c.GetString(ConfigConfigFile); path != "" {
		c.SetConfigFile(path)
		if err := c.MergeInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("reading %s: %w", path, err)
		}
	}
	return nil
}

// Write saves the current settings to the config file, if one is set.
func (c *Config) Write() error {
	path := c.GetString(ConfigConfigFile)
	if path == "" {
		return nil
	}
	return c.WriteConfigAs(path)
}

// AdjustRelativePaths makes relative data paths relative to the
// executable's directory, so binaries work from anywhere.
func (c *Config) AdjustRelativePaths(exPath string) {
	for _, key := range []string{ConfigDataPath, ConfigSqlitePath} {
		p := c.GetString(key)
		if p == "" || filepath.IsAbs(p) {
			continue
		}
		c.Set(key, filepath.Join(exPath, p))
	}
}

// SanitizedSettings is AllSettings with secrets masked, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	s := c.AllSettings()
	for _, k := range []string{ConfigWorkerAPIKey, ConfigRedisURL} {
		if v, ok := s[k]; ok && v != "" {
			s[k] = "********"
		}
	}
	return s
}
