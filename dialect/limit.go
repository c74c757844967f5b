package dialect

import (
	"strconv"
	"strings"
)

// LimitStrategy how a dialect paginates
type LimitStrategy int

const (
	// LimitOffsetClause "limit n offset m"
	LimitOffsetClause LimitStrategy = iota + 1
	// OffsetFetchClause "offset m rows fetch first n rows only"
	OffsetFetchClause
	// TopClause "select top (n)", no offset
	TopClause
	// RowNumClause nested selects filtering on rownum
	RowNumClause
)

func (s LimitStrategy) String() string {
	switch s {
	case LimitOffsetClause:
		return "limit_offset"
	case OffsetFetchClause:
		return "offset_fetch"
	case TopClause:
		return "top"
	case RowNumClause:
		return "rownum"
	}
	return "none"
}

// LimitStyle pagination of a dialect
type LimitStyle struct {
	Strategy LimitStrategy
	// Unbounded limit written before an offset when the dialect does not
	// accept an offset alone, e.g. "-1" for SQLite
	Unbounded string
	// OrderBy appended when the query has no order by clause and the
	// dialect requires one for offset/fetch
	OrderBy string
	// AlwaysOffset write "offset 0 rows" when only a limit is given
	AlwaysOffset bool
}

// LimitStrategy pagination strategy of the dialect
func (d *Dialect) LimitStrategy() LimitStrategy {
	return d.limit.Strategy
}

// LimitOffset applies a row limit and offset to a select; zero values mean
// none. It returns false when the dialect cannot express the request.
func (d *Dialect) LimitOffset(sql string, limit, offset int) (string, bool) {
	if limit < 0 || offset < 0 {
		return "", false
	}
	if limit == 0 && offset == 0 {
		return sql, true
	}

	var sb strings.Builder
	switch d.limit.Strategy {
	case LimitOffsetClause:
		sb.WriteString(sql)
		switch {
		case limit > 0:
			sb.WriteString(" limit ")
			sb.WriteString(strconv.Itoa(limit))
		case d.limit.Unbounded != "":
			sb.WriteString(" limit ")
			sb.WriteString(d.limit.Unbounded)
		}
		if offset > 0 {
			sb.WriteString(" offset ")
			sb.WriteString(strconv.Itoa(offset))
		}
	case OffsetFetchClause:
		sb.WriteString(sql)
		if d.limit.OrderBy != "" && !strings.Contains(strings.ToLower(sql), "order by") {
			sb.WriteString(d.limit.OrderBy)
		}
		if offset > 0 || d.limit.AlwaysOffset {
			sb.WriteString(" offset ")
			sb.WriteString(strconv.Itoa(offset))
			sb.WriteString(" rows")
		}
		if limit > 0 {
			if offset > 0 || d.limit.AlwaysOffset {
				sb.WriteString(" fetch next ")
			} else {
				sb.WriteString(" fetch first ")
			}
			sb.WriteString(strconv.Itoa(limit))
			sb.WriteString(" rows only")
		}
	case TopClause:
		if offset > 0 {
			return "", false
		}
		insertTop(&sb, sql, limit)
	case RowNumClause:
		if offset == 0 {
			sb.WriteString("select * from (")
			sb.WriteString(sql)
			sb.WriteString(") where rownum <= ")
			sb.WriteString(strconv.Itoa(limit))
			break
		}
		sb.WriteString("select * from (select row_.*, rownum rownum_ from (")
		sb.WriteString(sql)
		sb.WriteString(") row_")
		if limit > 0 {
			sb.WriteString(" where rownum <= ")
			sb.WriteString(strconv.Itoa(limit + offset))
		}
		sb.WriteString(") where rownum_ > ")
		sb.WriteString(strconv.Itoa(offset))
	default:
		return "", false
	}
	return sb.String(), true
}

func insertTop(sb *strings.Builder, sql string, limit int) {
	lower := strings.ToLower(sql)
	pos := strings.Index(lower, "select")
	if pos < 0 {
		sb.WriteString(sql)
		return
	}
	pos += len("select")
	if rest := strings.TrimLeft(lower[pos:], " "); strings.HasPrefix(rest, "distinct") {
		pos = len(lower) - len(rest) + len("distinct")
	}
	sb.WriteString(sql[:pos])
	sb.WriteString(" top (")
	sb.WriteString(strconv.Itoa(limit))
	sb.WriteByte(')')
	sb.WriteString(sql[pos:])
}
