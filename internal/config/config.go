package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	commoncfg "wave-client/common/config"

	"gopkg.in/yaml.v3"
)

// Storage drivers
const (
	StorageFile     = "file"
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Config wave-client configuration
type Config struct {
	API struct {
		// Origin is the scheme+host a relative Base resolves against.
		Origin  string        `yaml:"origin"`
		Base    string        `yaml:"base"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"api"`

	Storage struct {
		Driver    string `yaml:"driver"`
		Path      string `yaml:"path"`
		Namespace string `yaml:"namespace"`
	} `yaml:"storage"`

	Redis    commoncfg.RedisConfig    `yaml:"redis"`
	Database commoncfg.DatabaseConfig `yaml:"database"`

	Session struct {
		TokenFile string `yaml:"token_file"`
	} `yaml:"session"`

	MQTT struct {
		Enabled              bool   `yaml:"enabled"`
		Topic                string `yaml:"topic"`
		commoncfg.MQTTConfig `yaml:",inline"`
	} `yaml:"mqtt"`

	Music struct {
		Command string `yaml:"command"`
		Track   string `yaml:"track"`
		Volume  int    `yaml:"volume"`
	} `yaml:"music"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Load builds the configuration from defaults and environment variables.
func Load() *Config {
	cfg := defaults()
	applyEnv(cfg)
	return cfg
}

// LoadFile decodes the YAML file at path over the defaults, then applies
// environment overrides. An empty path is the same as Load.
func LoadFile(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Load(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	cfg := defaults()
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %q: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values that cannot be used.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageFile, StorageMemory, StorageRedis, StoragePostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("negative api timeout %s", c.API.Timeout)
	}
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt enabled without broker")
	}
	return nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.API.Origin = "http://localhost:5173"
	cfg.API.Base = "/api"

	cfg.Storage.Driver = StorageFile
	cfg.Storage.Path = defaultStoragePath()

	cfg.Redis.Addr = "localhost:6379"

	cfg.Database.Host = "localhost"
	cfg.Database.Port = 5432
	cfg.Database.User = "postgres"
	cfg.Database.Password = "postgres"
	cfg.Database.Database = "wave"
	cfg.Database.SSLMode = "disable"

	cfg.Session.TokenFile = filepath.Join(configDir(), "session.token")

	cfg.MQTT.Broker = "tcp://localhost:1883"
	cfg.MQTT.ClientID = "wavectl"
	cfg.MQTT.QoS = 1
	cfg.MQTT.Topic = "wave/focus-mode"

	cfg.Music.Command = "ffplay"
	cfg.Music.Track = "audio/videoplayback.m4a"
	cfg.Music.Volume = 50

	cfg.Log.Level = "info"
	cfg.Log.Format = "console"
	return cfg
}

func applyEnv(cfg *Config) {
	cfg.API.Origin = getEnv("WAVE_API_ORIGIN", cfg.API.Origin)
	cfg.API.Base = getEnv("WAVE_API_BASE", cfg.API.Base)
	if secs := parseInt(getEnv("WAVE_API_TIMEOUT", ""), -1); secs >= 0 {
		cfg.API.Timeout = time.Duration(secs) * time.Second
	}

	cfg.Storage.Driver = strings.ToLower(getEnv("WAVE_STORAGE", cfg.Storage.Driver))
	cfg.Storage.Path = getEnv("WAVE_STORAGE_PATH", cfg.Storage.Path)
	cfg.Storage.Namespace = getEnv("WAVE_STORAGE_NAMESPACE", cfg.Storage.Namespace)

	cfg.Redis.LoadFromEnv("REDIS")
	cfg.Database.LoadFromEnv("DB")

	cfg.Session.TokenFile = getEnv("WAVE_ACCESS_TOKEN_FILE", cfg.Session.TokenFile)

	if v := os.Getenv("MQTT_ENABLED"); v != "" {
		cfg.MQTT.Enabled = v == "true"
	}
	cfg.MQTT.MQTTConfig.LoadFromEnv("MQTT")
	cfg.MQTT.Topic = getEnv("WAVE_FOCUS_TOPIC", cfg.MQTT.Topic)

	cfg.Music.Command = getEnv("WAVE_MUSIC_COMMAND", cfg.Music.Command)
	cfg.Music.Track = getEnv("WAVE_MUSIC_TRACK", cfg.Music.Track)
	cfg.Music.Volume = parseInt(getEnv("WAVE_MUSIC_VOLUME", ""), cfg.Music.Volume)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
}

func configDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "wave")
	}
	return ".wave"
}

func defaultStoragePath() string {
	return filepath.Join(configDir(), "storage.json")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
