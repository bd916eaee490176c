package config

import (
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func TestLoad(t *testing.T) {
	is := is.New(t)
	t.Setenv("GUOBIAO_NATS_URL", "nats://example:4222")
	c := DefaultConfig()
	is.NoErr(c.Load([]string{"--debug", "--sim-threads=3", "score", "--data-path=/tmp/x"}))
	is.True(c.GetBool(ConfigDebug))
	is.Equal(c.GetInt(ConfigSimThreads), 3)
	is.Equal(c.GetString(ConfigDataPath), "/tmp/x")
	is.Equal(c.GetString(ConfigNatsURL), "nats://example:4222")
	is.Equal(c.GetString(ConfigDefaultSeatWind), "E")

	is.True(c.Load([]string{"--=x"}) != nil)
}

func TestAdjustRelativePaths(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()
	is.NoErr(c.Load(nil))
	c.AdjustRelativePaths("/opt/guobiao")
	is.Equal(c.GetString(ConfigDataPath), "/opt/guobiao/data")
	is.Equal(c.GetString(ConfigSqlitePath), "/opt/guobiao/data/hands.db")
}

func TestSanitizedSettings(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()
	is.NoErr(c.Load([]string{"--worker-api-key=sekrit"}))
	s := c.SanitizedSettings()
	is.Equal(s[ConfigWorkerAPIKey], "********")
	is.Equal(s[ConfigRedisURL], "")
}

func TestConfigFile(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "guobiao.yaml")
	c := DefaultConfig()
	is.NoErr(c.Load([]string{"--config-file=" + path}))
	c.Set(ConfigAliases, map[string]string{"tw": "fan -seat W"})
	is.NoErr(c.Write())

	c2 := DefaultConfig()
	is.NoErr(c2.Load([]string{"--config-file=" + path}))
	is.Equal(c2.GetStringMapString(ConfigAliases)["tw"], "fan -seat W")
}
