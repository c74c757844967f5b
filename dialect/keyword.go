package dialect

import (
	"sort"
	"strings"
)

// reserved words of the SQL standard that commonly collide with column names
var ansiKeywords = []string{
	"all", "and", "any", "as", "asc", "between", "both", "by", "case", "cast",
	"check", "column", "constraint", "create", "cross", "current_date",
	"current_time", "current_timestamp", "current_user", "default", "delete",
	"desc", "distinct", "drop", "else", "end", "except", "false", "fetch",
	"for", "foreign", "from", "full", "grant", "group", "having", "in", "inner",
	"insert", "intersect", "into", "is", "join", "leading", "left", "like",
	"natural", "not", "null", "of", "on", "or", "order", "outer", "primary",
	"references", "right", "select", "session_user", "some", "table", "then",
	"to", "trailing", "true", "union", "unique", "update", "user", "using",
	"values", "when", "where", "with",
}

var hanaKeywords = []string{
	"all", "alter", "as", "before", "begin", "both", "case", "char", "condition",
	"connect", "cross", "cube", "current_connection", "current_date",
	"current_schema", "current_time", "current_timestamp",
	"current_transaction_isolation_level", "current_user", "current_utcdate",
	"current_utctime", "current_utctimestamp", "currval", "cursor", "declare",
	"deferred", "distinct", "else", "elseif", "end", "except", "exception",
	"exec", "false", "for", "from", "full", "group", "having", "if", "in",
	"inner", "inout", "intersect", "into", "is", "join", "lateral", "leading",
	"left", "limit", "loop", "minus", "natural", "nchar", "nextval", "null",
	"on", "order", "out", "prior", "return", "returns", "reverse", "right",
	"rollup", "rowid", "select", "session_user", "set", "sql", "start",
	"sysuuid", "tablesample", "top", "trailing", "true", "union", "unknown",
	"using", "utctimestamp", "values", "when", "where", "while", "with",
}

// reserved from HANA Cloud (version 4) on
var hanaCloudKeywords = []string{
	"array", "at", "authorization", "between", "by", "collate", "empty",
	"filter", "grouping", "no", "not", "of", "over", "recursive", "row",
	"table", "to", "unnest", "window", "within",
}

var cockroachKeywords = []string{
	"analyse", "analyze", "array", "asymmetric", "collate", "concurrently",
	"current_catalog", "current_role", "current_schema", "deferrable", "do",
	"family", "index", "initially", "lateral", "limit", "localtime",
	"localtimestamp", "nothing", "offset", "only", "placing", "returning",
	"symmetric", "variadic", "window",
}

// Keywords registers reserved words; unquoted identifiers equal to one of
// them must be quoted
func (b *Builder) Keywords(words ...string) *Builder {
	for _, word := range words {
		b.dialect.keywords[strings.ToLower(word)] = struct{}{}
	}
	return b
}

// IsKeyword name, compared case insensitively, is a reserved word
func (d *Dialect) IsKeyword(name string) bool {
	_, ok := d.keywords[strings.ToLower(name)]
	return ok
}

// Keywords registered reserved words, lower case and sorted
func (d *Dialect) Keywords() []string {
	words := make([]string, 0, len(d.keywords))
	for word := range d.keywords {
		words = append(words, word)
	}
	sort.Strings(words)
	return words
}

// QuoteIfKeyword quotes reserved words, converts back-ticked names like Quote
// and returns other names unchanged
func (d *Dialect) QuoteIfKeyword(name string) string {
	if d.IsQuoted(name) {
		return d.Quote(name)
	}
	if d.IsKeyword(name) {
		return d.QuoteIdentifier(name)
	}
	return name
}
