package dialect

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnknownVendor no dialect for the vendor name
	ErrUnknownVendor = errors.New("unknown database vendor")
	// ErrUnsupportedVersion version older than the vendor minimum
	ErrUnsupportedVersion = errors.New("unsupported database version")
)

// Vendor database product a dialect is built for
type Vendor string

const (
	PostgreSQL  Vendor = "postgresql"
	CockroachDB Vendor = "cockroachdb"
	MySQL       Vendor = "mysql"
	Oracle      Vendor = "oracle"
	SQLServer   Vendor = "sqlserver"
	HANA        Vendor = "hana"
	H2          Vendor = "h2"
	Spanner     Vendor = "spanner"
	SQLite      Vendor = "sqlite"
	DB2         Vendor = "db2"
)

type vendorInfo struct {
	product   string
	minimum   Version
	fallback  Version
	configure func(b *Builder)
}

var vendors map[Vendor]vendorInfo

func init() {
	vendors = map[Vendor]vendorInfo{
		PostgreSQL:  {"PostgreSQL", V(8), V(12), configurePostgreSQL},
		CockroachDB: {"CockroachDB", V(21, 1), V(23, 1), configureCockroachDB},
		MySQL:       {"MySQL", V(5, 7), V(8), configureMySQL},
		Oracle:      {"Oracle", V(11, 2), V(19), configureOracle},
		SQLServer:   {"SQL Server", V(10), V(15), configureSQLServer},
		HANA:        {"HANA", V(2), V(2, 0, 50), configureHANA},
		H2:          {"H2", V(1, 4, 197), V(2, 2, 220), configureH2},
		Spanner:     {"Spanner", V(1), V(1), configureSpanner},
		SQLite:      {"SQLite", V(3, 8), V(3, 45), configureSQLite},
		DB2:         {"DB2", V(10, 5), V(11, 5), configureDB2},
	}
}

var vendorAliases = map[string]Vendor{
	"postgres":   PostgreSQL,
	"pg":         PostgreSQL,
	"pgx":        PostgreSQL,
	"cockroach":  CockroachDB,
	"crdb":       CockroachDB,
	"mariadb":    MySQL,
	"oci8":       Oracle,
	"godror":     Oracle,
	"mssql":      SQLServer,
	"sqlserver":  SQLServer,
	"hdb":        HANA,
	"saphana":    HANA,
	"sqlite3":    SQLite,
	"ibmdb":      DB2,
	"googlesql":  Spanner,
	"postgresql": PostgreSQL,
}

// ParseVendor resolves a vendor or driver name, case insensitively
func ParseVendor(name string) (Vendor, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if v, ok := vendorAliases[key]; ok {
		return v, nil
	}
	if _, ok := vendors[Vendor(key)]; ok {
		return Vendor(key), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVendor, name)
}

// Vendors every supported vendor, sorted by name
func Vendors() []Vendor {
	all := make([]Vendor, 0, len(vendors))
	for v := range vendors {
		all = append(all, v)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return all
}

// Product display name of the vendor
func (v Vendor) Product() string {
	if info, ok := vendors[v]; ok {
		return info.product
	}
	return string(v)
}

// DefaultVersion version assumed when none is configured or probed
func (v Vendor) DefaultVersion() Version {
	return vendors[v].fallback
}

// MinimumVersion oldest supported version
func (v Vendor) MinimumVersion() Version {
	return vendors[v].minimum
}
