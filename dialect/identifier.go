package dialect

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Folding case applied by the database to unquoted identifiers
type Folding int

const (
	FoldNone Folding = iota
	FoldUpper
	FoldLower
)

func (f Folding) String() string {
	switch f {
	case FoldUpper:
		return "upper"
	case FoldLower:
		return "lower"
	}
	return "none"
}

func (d *Dialect) OpenQuote() byte {
	return d.openQuote
}

func (d *Dialect) CloseQuote() byte {
	return d.closeQuote
}

// MaxIdentifierLength 0 means unlimited
func (d *Dialect) MaxIdentifierLength() int {
	return d.maxIdentifierLength
}

// Folding of unquoted identifiers
func (d *Dialect) Folding() Folding {
	return d.folding
}

// QuoteIdentifier quotes name, doubling embedded close quotes
func (d *Dialect) QuoteIdentifier(name string) string {
	var sb strings.Builder
	sb.Grow(len(name) + 2)
	sb.WriteByte(d.openQuote)
	for i := 0; i < len(name); i++ {
		if name[i] == d.closeQuote {
			sb.WriteByte(d.closeQuote)
		}
		sb.WriteByte(name[i])
	}
	sb.WriteByte(d.closeQuote)
	return sb.String()
}

// Quote turns a back-ticked name into a dialect quoted one, other names are
// returned as they are
func (d *Dialect) Quote(name string) string {
	if len(name) >= 2 && name[0] == '`' && name[len(name)-1] == '`' {
		return d.QuoteIdentifier(name[1 : len(name)-1])
	}
	return name
}

// IsQuoted name is enclosed in back-ticks or in the dialect quotes
func (d *Dialect) IsQuoted(name string) bool {
	if len(name) < 2 {
		return false
	}
	first, last := name[0], name[len(name)-1]
	return (first == '`' && last == '`') || (first == d.openQuote && last == d.closeQuote)
}

// Unquote strips quotes and undoubles embedded close quotes
func (d *Dialect) Unquote(name string) string {
	if !d.IsQuoted(name) {
		return name
	}
	inner := name[1 : len(name)-1]
	if name[0] == '`' {
		return inner
	}
	doubled := string([]byte{d.closeQuote, d.closeQuote})
	return strings.ReplaceAll(inner, doubled, string(d.closeQuote))
}

// NormalizeIdentifier name as the database stores it: quoted names keep
// their case, unquoted ones are folded
func (d *Dialect) NormalizeIdentifier(name string) string {
	if d.IsQuoted(name) {
		return d.Unquote(name)
	}
	switch d.folding {
	case FoldUpper:
		return cases.Upper(language.Und).String(name)
	case FoldLower:
		return cases.Lower(language.Und).String(name)
	}
	return name
}
