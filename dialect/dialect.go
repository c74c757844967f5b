// Package dialect renders vendor specific SQL fragments: column types,
// locking and pagination clauses, literals, temporal arithmetic and
// identifier quoting. One frozen *Dialect is built per vendor and version;
// it has no mutable state and is safe for concurrent use.
package dialect

import (
	"fmt"

	"gorm.io/sqldialect/errtranslator"
	"gorm.io/sqldialect/functions"
	"gorm.io/sqldialect/sqltypes"
)

// Info server facts refining a dialect, usually read by the probe package
type Info struct {
	Version Version
	// BytesPerCharacter of the MySQL database character set, 4 if unknown
	BytesPerCharacter int
	// NoBackslashEscapes MySQL sql_mode contains NO_BACKSLASH_ESCAPES
	NoBackslashEscapes bool
	// LobPrefetchSize HANA max_lob_prefetch_size in bytes
	LobPrefetchSize int
}

// Dialect vendor specific SQL rendering, built by New or a Builder
type Dialect struct {
	vendor  Vendor
	version Version
	info    Info

	columnTypes map[sqltypes.Code][]columnType
	castTypes   map[sqltypes.Code]string
	features    map[Feature]bool
	templates   map[Template]string
	keywords    map[string]struct{}

	openQuote           byte
	closeQuote          byte
	folding             Folding
	maxIdentifierLength int
	maxVarcharLength    int
	nativePrecision     int64

	limit      LimitStyle
	locks      LockStyle
	literals   LiteralStyle
	temporal   TemporalPatterns
	selectNull func(d *Dialect, code sqltypes.Code) string

	functions *functions.Registry
	types     *TypeRegistry
	errors    *errtranslator.Translator
}

// New builds the dialect of a vendor; a zero info.Version selects the
// vendor default version
func New(vendor Vendor, info Info) (*Dialect, error) {
	entry, ok := vendors[vendor]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVendor, vendor)
	}
	if info.Version.IsZero() {
		info.Version = entry.fallback
	}
	if info.Version.Compare(entry.minimum) < 0 {
		return nil, fmt.Errorf("%w: %s %s, minimum is %s", ErrUnsupportedVersion, entry.product, info.Version, entry.minimum)
	}

	b := NewBuilder(vendor, info)
	entry.configure(b)
	return b.Build()
}

// ForName builds a dialect from a vendor or driver name and an optional
// version string
func ForName(name, version string) (*Dialect, error) {
	vendor, err := ParseVendor(name)
	if err != nil {
		return nil, err
	}

	var info Info
	if version != "" {
		if info.Version, err = ParseVersion(version); err != nil {
			return nil, err
		}
	}
	return New(vendor, info)
}

// Name product name and version, e.g. "PostgreSQL 15.2"
func (d *Dialect) Name() string {
	return d.vendor.Product() + " " + d.version.String()
}

func (d *Dialect) String() string {
	return d.Name()
}

func (d *Dialect) Vendor() Vendor {
	return d.vendor
}

func (d *Dialect) Version() Version {
	return d.version
}

// Info server facts the dialect was built with
func (d *Dialect) Info() Info {
	return d.info
}

// Supports reports whether the dialect has the capability
func (d *Dialect) Supports(f Feature) bool {
	return d.features[f]
}

// Template vendor fragment, false when the dialect has none
func (d *Dialect) Template(t Template) (string, bool) {
	s, ok := d.templates[t]
	return s, ok
}

// NativePrecision smallest fraction of a second the dialect stores, in
// nanoseconds
func (d *Dialect) NativePrecision() int64 {
	return d.nativePrecision
}

// Functions frozen function registry
func (d *Dialect) Functions() *functions.Registry {
	return d.functions
}

// Types frozen type registry
func (d *Dialect) Types() *TypeRegistry {
	return d.types
}

// ClassifyError translates a driver error, nil when the vendor classifier
// and the SQLSTATE fallback both do not recognise it
func (d *Dialect) ClassifyError(err error, sql string) *errtranslator.Error {
	return d.errors.Classify(err, sql)
}

// TranslateError returns the classified *errtranslator.Error, or err itself
func (d *Dialect) TranslateError(err error, sql string) error {
	if translated := d.errors.Classify(err, sql); translated != nil {
		return translated
	}
	return err
}

// CurrentTimestampSelectString query returning the database time
func (d *Dialect) CurrentTimestampSelectString() (string, bool) {
	return d.Template(CurrentTimestampSelect)
}

// CurrentSchemaCommand query returning the current schema
func (d *Dialect) CurrentSchemaCommand() (string, bool) {
	return d.Template(CurrentSchemaCommand)
}

// CascadeConstraints suffix of drop statements, may be empty
func (d *Dialect) CascadeConstraints() string {
	s, _ := d.Template(CascadeConstraints)
	return s
}

// NoColumnsInsert insert tail for a row of default values
func (d *Dialect) NoColumnsInsert() string {
	if s, ok := d.Template(NoColumnsInsert); ok {
		return s
	}
	return "values ( )"
}

// CaseInsensitiveLike operator of case insensitive pattern matching
func (d *Dialect) CaseInsensitiveLike() string {
	if s, ok := d.Template(CaseInsensitiveLike); ok {
		return s
	}
	return "like"
}

// SequenceNextValString query returning the next value of a sequence
func (d *Dialect) SequenceNextValString(sequence string) (string, bool) {
	pattern, ok := d.Template(SequenceNextVal)
	if !ok || !d.Supports(Sequences) {
		return "", false
	}
	s, err := functions.Pattern{Name: "nextval", Template: pattern, Arity: 1}.Render(sequence)
	return s, err == nil
}

// IdentityColumnString column definition suffix of identity columns
func (d *Dialect) IdentityColumnString() (string, bool) {
	if !d.Supports(IdentityColumns) {
		return "", false
	}
	return d.Template(IdentityColumn)
}
