// Package probe reads server facts that refine a dialect: version, MySQL
// character set width, HANA LOB prefetch size and PostgreSQL settings.
//
// Every probe is best effort. Failures are logged and the default is
// returned, so a dialect can always be built.
package probe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gorm.io/sqldialect/dialect"
	"gorm.io/sqldialect/logger"
)

// ErrUnsafeParameter PostgreSQL parameter name that is not a plain identifier
var ErrUnsafeParameter = errors.New("unsafe parameter name")

var versionQueries = map[dialect.Vendor]string{
	dialect.PostgreSQL:  "show server_version_num",
	dialect.CockroachDB: "select version()",
	dialect.MySQL:       "select version()",
	dialect.Oracle:      "select version from v$instance",
	dialect.SQLServer:   "select cast(serverproperty('ProductVersion') as varchar(128))",
	dialect.HANA:        "select version from sys.m_database",
	dialect.H2:          "select h2version()",
	dialect.SQLite:      "select sqlite_version()",
	dialect.DB2:         "select service_level from sysibmadm.env_inst_info",
}

const (
	mysqlCharsetQuery = "select @@character_set_database"
	mysqlSQLModeQuery = "select @@sql_mode"
	hanaLobQuery      = "select value from sys.m_inifile_contents where file_name = 'indexserver.ini' and section = 'session' and key = 'max_lob_prefetch_size'"
)

var (
	cockroachVersion = regexp.MustCompile(`v(\d+\.\d+(\.\d+)?)`)
	pgParameter      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
)

// Prober runs metadata queries on a caller supplied pool
type Prober struct {
	db     *sql.DB
	logger logger.Interface
}

// New prober over db, logging through l (logger.Default when nil)
func New(db *sql.DB, l logger.Interface) *Prober {
	if l == nil {
		l = logger.Default
	}
	return &Prober{db: db, logger: l}
}

// Info collects every fact the vendor's dialect consumes; fields that
// could not be read keep their zero value, which New in package dialect
// replaces with the vendor default
func (p *Prober) Info(ctx context.Context, vendor dialect.Vendor) dialect.Info {
	ctx = logger.WithVendor(ctx, string(vendor))
	info := dialect.Info{Version: p.ServerVersion(ctx, vendor)}

	switch vendor {
	case dialect.MySQL:
		info.BytesPerCharacter = p.BytesPerCharacter(ctx)
		info.NoBackslashEscapes = p.NoBackslashEscapes(ctx)
	case dialect.HANA:
		info.LobPrefetchSize = p.LobPrefetchSize(ctx)
	}
	return info
}

// ServerVersion server version, zero if unknown
func (p *Prober) ServerVersion(ctx context.Context, vendor dialect.Vendor) dialect.Version {
	query, ok := versionQueries[vendor]
	if !ok {
		return dialect.Version{}
	}

	text, err := p.queryString(ctx, query)
	if err != nil {
		p.logger.Warn(ctx, "server version unavailable, using default: %v", err)
		return dialect.Version{}
	}

	var version dialect.Version
	switch vendor {
	case dialect.PostgreSQL:
		version, err = parseVersionNum(text)
	case dialect.CockroachDB:
		m := cockroachVersion.FindStringSubmatch(text)
		if m == nil {
			err = fmt.Errorf("invalid version %q", text)
			break
		}
		version, err = dialect.ParseVersion(m[1])
	default:
		version, err = dialect.ParseVersion(text)
	}
	if err != nil {
		p.logger.Warn(ctx, "server version unreadable, using default: %v", err)
		return dialect.Version{}
	}
	return version
}

// parseVersionNum PostgreSQL server_version_num, e.g. 150004 or 90605
func parseVersionNum(text string) (dialect.Version, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n <= 0 {
		return dialect.ParseVersion(text)
	}
	if n >= 100000 {
		return dialect.V(n/10000, n%10000), nil
	}
	return dialect.V(n/10000, n/100%100, n%100), nil
}

// BytesPerCharacter maximum bytes per character of the MySQL database
// character set, 4 if unknown
func (p *Prober) BytesPerCharacter(ctx context.Context) int {
	charset, err := p.queryString(ctx, mysqlCharsetQuery)
	if err != nil {
		p.logger.Warn(ctx, "character set unavailable, assuming 4 bytes per character: %v", err)
		return 4
	}
	return charsetWidth(charset)
}

func charsetWidth(charset string) int {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "latin1", "ascii", "binary", "cp1250", "cp1251", "cp1252", "latin2", "latin5", "latin7", "greek", "hebrew", "koi8r", "koi8u", "swe7", "dec8", "hp8", "armscii8", "geostd8", "keybcs2", "cp850", "cp852", "cp866", "macce", "macroman", "tis620":
		return 1
	case "ucs2", "big5", "gbk", "sjis", "cp932", "euckr":
		return 2
	case "utf8", "utf8mb3", "ujis", "eucjpms":
		return 3
	default:
		return 4
	}
}

// NoBackslashEscapes reports NO_BACKSLASH_ESCAPES in the MySQL sql_mode
func (p *Prober) NoBackslashEscapes(ctx context.Context) bool {
	mode, err := p.queryString(ctx, mysqlSQLModeQuery)
	if err != nil {
		p.logger.Warn(ctx, "sql_mode unavailable, assuming backslash escapes: %v", err)
		return false
	}
	for _, m := range strings.Split(mode, ",") {
		if strings.EqualFold(strings.TrimSpace(m), "NO_BACKSLASH_ESCAPES") {
			return true
		}
	}
	return false
}

// LobPrefetchSize HANA max_lob_prefetch_size in bytes,
// dialect.DefaultLobPrefetchSize if unknown
func (p *Prober) LobPrefetchSize(ctx context.Context) int {
	text, err := p.queryString(ctx, hanaLobQuery)
	if err == nil {
		var size int
		if size, err = strconv.Atoi(strings.TrimSpace(text)); err == nil && size > 0 {
			return size
		}
		if err == nil {
			err = fmt.Errorf("invalid size %q", text)
		}
	}
	if errors.Is(err, sql.ErrNoRows) {
		p.logger.Info(ctx, "max_lob_prefetch_size not configured, using %d", dialect.DefaultLobPrefetchSize)
	} else {
		p.logger.Warn(ctx, "max_lob_prefetch_size unavailable, using %d: %v", dialect.DefaultLobPrefetchSize, err)
	}
	return dialect.DefaultLobPrefetchSize
}

// Show reads a PostgreSQL run-time parameter; ok is false when the
// parameter could not be read
func (p *Prober) Show(ctx context.Context, parameter string) (value string, ok bool) {
	if !pgParameter.MatchString(parameter) {
		p.logger.Warn(ctx, "show %q: %v", parameter, ErrUnsafeParameter)
		return "", false
	}

	value, err := p.queryString(ctx, "show "+parameter)
	if err != nil {
		p.logger.Warn(ctx, "show %s failed: %v", parameter, err)
		return "", false
	}
	return value, true
}

func (p *Prober) queryString(ctx context.Context, query string) (string, error) {
	if p.db == nil {
		return "", errors.New("no database")
	}

	var (
		begin = time.Now()
		value sql.NullString
	)
	err := p.db.QueryRowContext(ctx, query).Scan(&value)
	p.logger.Trace(ctx, begin, func() (string, int64) {
		if err != nil {
			return query, 0
		}
		return query, 1
	}, err)

	if err != nil {
		return "", err
	}
	if !value.Valid {
		return "", sql.ErrNoRows
	}
	return value.String, nil
}
