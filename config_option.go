package sqldialect

import (
	"database/sql"
	"time"

	"gorm.io/sqldialect/logger"
	"gorm.io/sqldialect/schema"
)

// ConfigOption use functional option for Config.
type ConfigOption func(c *Config)

// Apply implements Option
func (o ConfigOption) Apply(c *Config) error {
	o(c)
	return nil
}

// AfterInitialize implements Option
func (o ConfigOption) AfterInitialize(*DB) error {
	return nil
}

// WithVendor set the dialect vendor.
func WithVendor(vendor string) ConfigOption {
	return func(c *Config) {
		c.Vendor = vendor
	}
}

// WithVersion set the server version.
func WithVersion(version string) ConfigOption {
	return func(c *Config) {
		c.Version = version
	}
}

// WithProbe probe db for server facts.
func WithProbe(db *sql.DB) ConfigOption {
	return func(c *Config) {
		c.DB = db
		c.Probe = true
	}
}

// WithNameStrategy set schema namer.
func WithNameStrategy(namer schema.Namer) ConfigOption {
	return func(c *Config) {
		c.NamingStrategy = namer
	}
}

// WithLogger set logger.
func WithLogger(logger logger.Interface) ConfigOption {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithTimeZone set the codec time zone.
func WithTimeZone(loc *time.Location) ConfigOption {
	return func(c *Config) {
		c.location = loc
		c.TimeZone = loc.String()
	}
}
