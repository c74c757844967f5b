package dialect

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// LockMode pessimistic lock requested for the rows of a query
type LockMode int

const (
	LockNone LockMode = iota
	LockRead
	LockWrite
)

func (m LockMode) String() string {
	switch m {
	case LockRead:
		return "read"
	case LockWrite:
		return "write"
	}
	return "none"
}

// Special lock timeouts; positive values wait at most that long
const (
	WaitForever time.Duration = 0
	NoWait      time.Duration = -1
	SkipLocked  time.Duration = -2
)

// LockOptions lock requested by a query
type LockOptions struct {
	Mode    LockMode
	Timeout time.Duration
	// Aliases tables (or columns) to lock, all when empty
	Aliases []string
}

// LockStyle lock clause strings of a dialect
type LockStyle struct {
	// Write clause of write locks, empty when the dialect cannot lock rows
	Write string
	// Read clause of read locks, empty to use Write
	Read string
	// SkipLocked suffix, " skip locked" when empty
	SkipLocked string
	// Hints locks are table hints, see AppendLockHint
	Hints bool
}

// ForUpdateString lock clause appended to a select, empty when no clause is
// needed or the dialect locks through table hints
func (d *Dialect) ForUpdateString(opts LockOptions) string {
	if opts.Mode == LockNone || d.locks.Hints || d.locks.Write == "" {
		return ""
	}

	clause := d.locks.Write
	if opts.Mode == LockRead && d.locks.Read != "" {
		clause = d.locks.Read
	}
	if len(opts.Aliases) > 0 && d.Supports(AliasLocks) {
		clause += " of " + strings.Join(opts.Aliases, ", ")
	}
	return clause + d.lockTimeout(opts.Timeout)
}

func (d *Dialect) lockTimeout(timeout time.Duration) string {
	switch {
	case timeout == NoWait:
		if d.Supports(NoWaitLocks) {
			return " nowait"
		}
	case timeout == SkipLocked:
		if d.Supports(SkipLockedLocks) {
			if d.locks.SkipLocked != "" {
				return d.locks.SkipLocked
			}
			return " skip locked"
		}
	case timeout > 0:
		if d.Supports(WaitLocks) {
			return " wait " + strconv.Itoa(timeoutSeconds(timeout))
		}
	}
	return ""
}

func timeoutSeconds(timeout time.Duration) int {
	seconds := int(math.Round(timeout.Seconds()))
	if seconds < 1 {
		return 1
	}
	return seconds
}

// AppendLockHint table reference carrying a lock hint, for dialects that lock
// through table hints; tableName unchanged for the others
func (d *Dialect) AppendLockHint(opts LockOptions, tableName string) string {
	if !d.locks.Hints || opts.Mode == LockNone {
		return tableName
	}

	var sb strings.Builder
	sb.WriteString(tableName)
	if opts.Mode == LockWrite {
		sb.WriteString(" with (updlock,holdlock,rowlock")
	} else {
		sb.WriteString(" with (holdlock,rowlock")
	}
	switch opts.Timeout {
	case NoWait:
		sb.WriteString(",nowait")
	case SkipLocked:
		sb.WriteString(",readpast")
	}
	sb.WriteByte(')')
	return sb.String()
}
