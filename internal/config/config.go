package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-yaml/yaml"
	"github.com/pkg/errors"
)

const (
	DefaultPort           = 3000
	DefaultBaseURL        = "https://offchain.syscoin.org"
	DefaultDatabaseURL    = "host=localhost user=postgres password=postgres dbname=offchain port=5432 sslmode=disable"
	DefaultSyscoinHost    = "localhost"
	DefaultSyscoinPort    = 8369
	DefaultSyscoinTimeout = 5 * time.Second
	DefaultRateWindow     = 15 * time.Minute
	DefaultRateMax        = 100
	DefaultCacheTTL       = 10 * time.Minute
)

type Config struct {
	Server    Server    `yaml:"server"`
	Syscoin   Syscoin   `yaml:"syscoin"`
	RateLimit RateLimit `yaml:"rateLimit"`
}

type Server struct {
	Port          int           `yaml:"port"`
	BaseURL       string        `yaml:"baseURL"`
	DatabaseURL   string        `yaml:"databaseURL"`
	RedisAddr     string        `yaml:"redisAddr"`
	RedisPassword string        `yaml:"redisPassword"`
	RedisDB       int           `yaml:"redisDB"`
	MemcachedAddr string        `yaml:"memcachedAddr"`
	CacheTTL      time.Duration `yaml:"cacheTTL"`
	EnableTrace   bool          `yaml:"enableTrace"`
	TraceEndpoint string        `yaml:"traceEndpoint"`
}

// Syscoin addresses the syscoind JSON-RPC interface.
type Syscoin struct {
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	ConfPath string        `yaml:"confPath"` // syscoin.conf, consulted when credentials are missing
	Timeout  time.Duration `yaml:"timeout"`
}

// RateLimit bounds report submissions per client within a window.
type RateLimit struct {
	Window time.Duration `yaml:"window"`
	Max    int           `yaml:"max"`
}

// Load reads the yaml config at path (skipped when path is empty), applies
// environment overrides and fills in defaults.
func Load(path string) (Config, error) {
	var config Config

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return Config{}, err
		}
		defer file.Close()

		err = yaml.NewDecoder(file).Decode(&config)
		if err != nil {
			return Config{}, errors.Wrap(err, "failed to decode config")
		}
	}

	err := applyEnv(&config, os.Getenv)
	if err != nil {
		return Config{}, err
	}

	applyDefaults(&config)

	err = validateDatabaseURL(config.Server.DatabaseURL)
	if err != nil {
		return Config{}, err
	}

	if config.Syscoin.ConfPath != "" && (config.Syscoin.Username == "" || config.Syscoin.Password == "") {
		nodeConf, err := LoadNodeConf(config.Syscoin.ConfPath)
		if err != nil {
			return Config{}, errors.Wrap(err, "failed to read node config")
		}
		nodeConf.apply(&config.Syscoin)
	}

	if config.Syscoin.Port == 0 {
		config.Syscoin.Port = DefaultSyscoinPort
	}

	return config, nil
}

// validateDatabaseURL rejects MongoDB urls left over from older deployments;
// records live in postgres or sqlite.
func validateDatabaseURL(dsn string) error {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	if strings.HasPrefix(lower, "mongodb://") || strings.HasPrefix(lower, "mongodb+srv://") {
		return errors.New("mongodb urls are not supported: set DATABASE_URL to a postgres dsn or sqlite://<path>")
	}
	return nil
}

func applyEnv(config *Config, getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "invalid PORT")
		}
		config.Server.Port = port
	}
	if v := getenv("DATABASE_URL"); v != "" {
		config.Server.DatabaseURL = v
	} else if v := getenv("MONGODB_URL"); v != "" {
		config.Server.DatabaseURL = v
	}
	if v := getenv("BASE_URL"); v != "" {
		config.Server.BaseURL = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		config.Server.RedisAddr = v
	}
	if v := getenv("MEMCACHED_ADDR"); v != "" {
		config.Server.MemcachedAddr = v
	}
	if v := getenv("SYSCOIND_HOST"); v != "" {
		config.Syscoin.Host = v
	}
	if v := getenv("SYSCOIND_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "invalid SYSCOIND_PORT")
		}
		config.Syscoin.Port = port
	}
	if v := getenv("SYSCOIND_USER"); v != "" {
		config.Syscoin.Username = v
	}
	if v := getenv("SYSCOIND_PASS"); v != "" {
		config.Syscoin.Password = v
	}
	if v := getenv("SYSCOIND_CONF"); v != "" {
		config.Syscoin.ConfPath = v
	}
	return nil
}

func applyDefaults(config *Config) {
	if config.Server.Port == 0 {
		config.Server.Port = DefaultPort
	}
	if config.Server.BaseURL == "" {
		config.Server.BaseURL = DefaultBaseURL
	}
	if config.Server.DatabaseURL == "" {
		config.Server.DatabaseURL = DefaultDatabaseURL
	}
	if config.Server.CacheTTL <= 0 {
		config.Server.CacheTTL = DefaultCacheTTL
	}
	if config.Syscoin.Host == "" {
		config.Syscoin.Host = DefaultSyscoinHost
	}
	if config.Syscoin.Timeout <= 0 {
		config.Syscoin.Timeout = DefaultSyscoinTimeout
	}
	if config.RateLimit.Window <= 0 {
		config.RateLimit.Window = DefaultRateWindow
	}
	if config.RateLimit.Max <= 0 {
		config.RateLimit.Max = DefaultRateMax
	}
}
