// Package sqldialect bootstraps a vendor dialect together with the codecs
// and error translation that depend on it.
//
//	db, err := sqldialect.Open(&sqldialect.Config{Vendor: "postgresql"})
//	column, _ := db.Dialect().ColumnType(sqltypes.Varchar, dialect.Size{Length: 255})
package sqldialect

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/sqldialect/codec"
	"gorm.io/sqldialect/dialect"
	"gorm.io/sqldialect/logger"
	"gorm.io/sqldialect/probe"
	"gorm.io/sqldialect/schema"
)

// DB frozen handle over a resolved dialect, safe for concurrent use
type DB struct {
	*Config
	dialect *dialect.Dialect
	options *codec.Options
}

// Open resolves the dialect of config
func Open(config *Config, opts ...Option) (*DB, error) {
	return OpenContext(context.Background(), config, opts...)
}

// OpenContext like Open, probing the server with ctx
func OpenContext(ctx context.Context, config *Config, opts ...Option) (db *DB, err error) {
	if config == nil {
		config = &Config{}
	} else {
		copied := *config
		config = &copied
	}

	for _, opt := range opts {
		if opt != nil {
			if err := opt.Apply(config); err != nil {
				return nil, err
			}
		}
	}

	if config.Vendor == "" {
		return nil, ErrMissingVendor
	}

	if config.NamingStrategy == nil {
		config.NamingStrategy = schema.NamingStrategy{}
	}

	if config.Logger == nil {
		if config.Logger, err = config.newLogger(); err != nil {
			return nil, err
		}
	}

	if config.location == nil {
		if config.location, err = loadLocation(config.TimeZone); err != nil {
			return nil, err
		}
	}

	if config.cacheStore == nil {
		config.cacheStore = &sync.Map{}
	}

	vendor, err := dialect.ParseVendor(config.Vendor)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithVendor(ctx, string(vendor))

	var info dialect.Info
	if config.Probe && config.DB != nil {
		info = probe.New(config.DB, config.Logger).Info(ctx, vendor)
	}
	if config.Version != "" {
		if info.Version, err = dialect.ParseVersion(config.Version); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}

	d, err := dialect.New(vendor, info)
	if err != nil {
		return nil, err
	}
	config.Logger.Info(ctx, "using dialect %s", d)

	db = &DB{Config: config, dialect: d, options: &codec.Options{TimeZone: config.location}}
	for _, opt := range opts {
		if opt != nil {
			if err := opt.AfterInitialize(db); err != nil {
				return nil, err
			}
		}
	}
	return db, nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: time zone: %v", ErrInvalidConfig, err)
	}
	return loc, nil
}

// Dialect resolved dialect
func (db *DB) Dialect() *dialect.Dialect {
	return db.dialect
}

// CodecOptions options shared by the codecs of db
func (db *DB) CodecOptions() *codec.Options {
	return db.options
}

// Parse builds the embeddable of a struct value or type, cached per type
func (db *DB) Parse(value interface{}) (*schema.Embeddable, error) {
	return schema.Parse(value, db.cacheStore, db.NamingStrategy)
}

// Composite PostgreSQL composite text codec of e
func (db *DB) Composite(e *schema.Embeddable) *codec.Composite {
	return codec.NewComposite(e, db.options)
}

// JSON JSON codec of e
func (db *DB) JSON(e *schema.Embeddable) *codec.JSON {
	return codec.NewJSON(e, db.options)
}

// Codec codec storing e the way the dialect stores aggregates: JSON when
// the vendor only has JSON aggregates, composite text otherwise
func (db *DB) Codec(e *schema.Embeddable) codec.Codec {
	if !db.dialect.Supports(dialect.StructAggregates) && db.dialect.Supports(dialect.JSONAggregates) {
		return db.JSON(e)
	}
	return db.Composite(e)
}

// TranslateError classifies a driver error raised by sql, returning err
// itself when it is not recognised
func (db *DB) TranslateError(err error, sql string) error {
	return db.dialect.TranslateError(err, sql)
}
