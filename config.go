package sqldialect

import (
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"gorm.io/sqldialect/logger"
	"gorm.io/sqldialect/schema"
	"gorm.io/sqldialect/utils"
)

// Environment variables overriding a loaded config
const (
	EnvVendor      = "SQLDIALECT_VENDOR"
	EnvVersion     = "SQLDIALECT_VERSION"
	EnvLogColorful = "SQLDIALECT_LOG_COLORFUL"
)

// Config sqldialect config
type Config struct {
	// Vendor dialect vendor or driver name, e.g. postgresql, pgx, mssql
	Vendor string `yaml:"vendor"`
	// Version server version; when empty the server is probed if DB is
	// set, otherwise the vendor default version is used
	Version string `yaml:"version"`
	// Probe read server facts (version, character set, LOB settings) from DB
	Probe bool `yaml:"probe"`
	// TimeZone IANA name used by the codecs for values without an offset,
	// UTC when empty
	TimeZone string    `yaml:"time_zone"`
	Log      LogConfig `yaml:"log"`

	// NamingStrategy names aggregate types and attributes of parsed structs
	NamingStrategy schema.Namer `yaml:"-"`
	// Logger overrides the logger built from Log
	Logger logger.Interface `yaml:"-"`
	// DB pool used by probes
	DB *sql.DB `yaml:"-"`

	cacheStore *sync.Map
	location   *time.Location
}

// LogConfig logger settings of a config file
type LogConfig struct {
	// Level silent, error, warn or info; SQLDIALECT_LOG_LEVEL when empty
	Level         string        `yaml:"level"`
	SlowThreshold time.Duration `yaml:"slow_threshold"`
	Colorful      bool          `yaml:"colorful"`
	// Format text (default), zap, zerolog, logrus or slog
	Format string `yaml:"format"`
}

// LoadConfig reads a YAML config file and applies the environment overrides
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	config, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// ParseConfig decodes YAML config data and applies the environment overrides
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	config.ApplyEnv()
	return &config, nil
}

// ApplyEnv overrides fields from SQLDIALECT_* environment variables
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvVendor); v != "" {
		c.Vendor = v
	}
	if v := os.Getenv(EnvVersion); v != "" {
		c.Version = v
	}
	if v := os.Getenv(logger.EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv(EnvLogColorful); ok {
		c.Log.Colorful = utils.CheckTruth(v)
	}
}

// Apply update config to new config
func (c *Config) Apply(config *Config) error {
	if config != c {
		*config = *c
	}
	return nil
}

// AfterInitialize initialize plugins after db connected
func (c *Config) AfterInitialize(db *DB) error {
	return nil
}

// Option sqldialect option interface
type Option interface {
	Apply(*Config) error
	AfterInitialize(*DB) error
}

func (c *Config) newLogger() (logger.Interface, error) {
	level := logger.DefaultLevel()
	if c.Log.Level != "" {
		var err error
		if level, err = logger.ParseLevel(c.Log.Level); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}

	config := logger.Config{
		SlowThreshold:             c.Log.SlowThreshold,
		Colorful:                  c.Log.Colorful,
		IgnoreRecordNotFoundError: true,
		LogLevel:                  level,
	}

	switch c.Log.Format {
	case "", "text":
		return logger.New(log.New(os.Stderr, "\r\n", log.LstdFlags), config), nil
	case "zap":
		return logger.NewZapLoggerWithConfig(config), nil
	case "zerolog":
		return logger.NewZerologConsoleLogger(config), nil
	case "logrus":
		l := logrus.New()
		l.SetOutput(os.Stderr)
		return logger.NewLogrusLogger(l, config), nil
	case "slog":
		return logger.NewSlogLogger(slog.Default(), config), nil
	}
	return nil, fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Log.Format)
}
