// backend/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	DSN      string `yaml:"dsn"` // overrides the individual fields when set
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`

	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"` // total time spent retrying the first ping
}

type ModelConfig struct {
	FallbackPath string `yaml:"fallback_path"`
	DefaultTopK  int    `yaml:"default_top_k"`
}

type IngestConfig struct {
	BatchSize    int `yaml:"batch_size"`
	MaxBatchSize int `yaml:"max_batch_size"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type SimulatorConfig struct {
	APIURL   string        `yaml:"api_url"`
	Interval time.Duration `yaml:"interval"`
	Count    int           `yaml:"count"` // 0 runs until interrupted
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Model     ModelConfig     `yaml:"model"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Log       LogConfig       `yaml:"log"`
	Simulator SimulatorConfig `yaml:"simulator"`
}

var AppConfig Config

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Server: ServerConfig{Port: "8000", ShutdownTimeout: 10 * time.Second},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            "3306",
			User:            "agri",
			DBName:          "smart_agri",
			MaxOpenConns:    25,
			MaxIdleConns:    25,
			ConnMaxLifetime: 5 * time.Minute,
			ConnectTimeout:  30 * time.Second,
		},
		Model:  ModelConfig{FallbackPath: "models/crop_rf.json", DefaultTopK: 5},
		Ingest: IngestConfig{BatchSize: 500, MaxBatchSize: 5000},
		Log:    LogConfig{Level: "info"},
		Simulator: SimulatorConfig{
			APIURL:   "http://localhost:8000/ingest",
			Interval: 2 * time.Second,
		},
	}
}

// LoadConfig reads configuration from file, then applies .env and
// environment overrides. An empty path searches the usual locations and
// falls back to defaults when none exists.
func LoadConfig(configPath string) error {
	cfg, err := Load(configPath)
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

// Load is LoadConfig without touching AppConfig.
func Load(configPath string) (Config, error) {
	cfg := Default()

	if configPath == "" {
		potentialPaths := []string{
			"config/config.yaml",           // running from backend/
			"config.yaml",                  // running from backend/config/
			"./backend/config/config.yaml", // running from the project root
		}
		for _, p := range potentialPaths {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	if configPath != "" {
		log.Infof("Loading configuration from: %s", configPath)
		file, err := os.ReadFile(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	} else {
		log.Info("No config file found, using defaults")
	}

	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("could not parse .env file")
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	var result *multierror.Error

	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}

	setString("PORT", &cfg.Server.Port)
	setString("DATABASE_DSN", &cfg.Database.DSN)
	setString("DB_HOST", &cfg.Database.Host)
	setString("DB_PORT", &cfg.Database.Port)
	setString("DB_USER", &cfg.Database.User)
	setString("DB_PASSWORD", &cfg.Database.Password)
	setString("DB_NAME", &cfg.Database.DBName)
	setString("MODEL_PATH", &cfg.Model.FallbackPath)
	setString("LOG_LEVEL", &cfg.Log.Level)
	setString("API_URL", &cfg.Simulator.APIURL)
	setInt("BULK_BATCH_SIZE", &cfg.Ingest.BatchSize)
	setInt("SIMULATOR_COUNT", &cfg.Simulator.Count)

	if v, ok := os.LookupEnv("SIMULATOR_INTERVAL"); ok {
		// Accept both "2s" and a bare number of seconds.
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Simulator.Interval = d
		} else if secs, ferr := strconv.ParseFloat(v, 64); ferr == nil {
			cfg.Simulator.Interval = time.Duration(secs * float64(time.Second))
		} else {
			result = multierror.Append(result, fmt.Errorf("SIMULATOR_INTERVAL: %w", err))
		}
	}
	return result.ErrorOrNil()
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.Server.Port == "" {
		result = multierror.Append(result, fmt.Errorf("server.port must be set"))
	}
	if c.Database.DSN == "" && (c.Database.Host == "" || c.Database.DBName == "") {
		result = multierror.Append(result, fmt.Errorf("database.dsn or database.host and database.dbname must be set"))
	}
	if c.Ingest.BatchSize <= 0 {
		result = multierror.Append(result, fmt.Errorf("ingest.batch_size must be positive, got %d", c.Ingest.BatchSize))
	}
	if c.Ingest.MaxBatchSize < c.Ingest.BatchSize {
		result = multierror.Append(result, fmt.Errorf("ingest.max_batch_size (%d) is below ingest.batch_size (%d)",
			c.Ingest.MaxBatchSize, c.Ingest.BatchSize))
	}
	if c.Model.DefaultTopK <= 0 {
		result = multierror.Append(result, fmt.Errorf("model.default_top_k must be positive, got %d", c.Model.DefaultTopK))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// DataSourceName builds the MySQL DSN. parseTime is required for DATETIME
// columns to scan into time.Time.
func (d DatabaseConfig) DataSourceName() string {
	if d.DSN != "" {
		return d.DSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.DBName,
	)
}
