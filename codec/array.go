package codec

import (
	"strings"
	"time"

	"gorm.io/sqldialect/schema"
)

// formatArray renders a PostgreSQL array literal, {1,NULL,"a \"b\""}, as
// logical text; composite escaping is applied by the caller
func formatArray(elem *schema.Field, values []interface{}, loc *time.Location) (string, error) {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, value := range values {
		if i > 0 {
			sb.WriteByte(',')
		}
		leaf, err := normalize(elem, value, compositeFormat, loc)
		if err == errNull {
			sb.WriteString("NULL")
			continue
		} else if err != nil {
			return "", err
		}
		text, quoted, err := compositeText(leaf, loc)
		if err != nil {
			return "", err
		}
		if !quoted {
			sb.WriteString(text)
			continue
		}
		sb.WriteByte('"')
		for j := 0; j < len(text); j++ {
			if c := text[j]; c == '"' || c == '\\' {
				sb.WriteByte('\\')
			}
			sb.WriteByte(text[j])
		}
		sb.WriteByte('"')
	}
	sb.WriteByte('}')
	return sb.String(), nil
}

// parseArray reads a one dimensional PostgreSQL array literal
func parseArray(elem *schema.Field, s string, loc *time.Location) ([]interface{}, error) {
	const f = "array"
	if len(s) == 0 || s[0] != '{' {
		return nil, syntaxError(f, s, 0, "{")
	}

	values := []interface{}{}
	i := 1
	if i < len(s) && s[i] == '}' {
		if i+1 != len(s) {
			return nil, malformed(f, s, i+1, "trailing characters after array")
		}
		return values, nil
	}

	for {
		if i >= len(s) {
			return nil, syntaxError(f, s, i, `"}`)
		}

		var (
			value interface{}
			err   error
		)
		if s[i] == '"' {
			var sb strings.Builder
			i++
			for ; i < len(s) && s[i] != '"'; i++ {
				if s[i] == '\\' {
					i++
					if i >= len(s) {
						return nil, malformed(f, s, i, "truncated escape")
					}
				}
				sb.WriteByte(s[i])
			}
			if i >= len(s) {
				return nil, malformed(f, s, i, "unterminated quoted element")
			}
			i++
			if value, err = parseLeaf(elem, sb.String(), true, compositeFormat, loc); err != nil {
				return nil, err
			}
		} else {
			start := i
			for i < len(s) && s[i] != ',' && s[i] != '}' {
				if s[i] == '"' || s[i] == '{' || s[i] == '\\' {
					return nil, syntaxError(f, s, i, ",}")
				}
				i++
			}
			text := s[start:i]
			switch {
			case text == "":
				return nil, syntaxError(f, s, i, `"`)
			case strings.EqualFold(text, "NULL"):
				value = nil
			default:
				if value, err = parseLeaf(elem, text, false, compositeFormat, loc); err != nil {
					return nil, err
				}
			}
		}
		values = append(values, value)

		if i >= len(s) {
			return nil, syntaxError(f, s, i, ",}")
		}
		switch s[i] {
		case ',':
			i++
		case '}':
			if i+1 != len(s) {
				return nil, malformed(f, s, i+1, "trailing characters after array")
			}
			return values, nil
		default:
			return nil, syntaxError(f, s, i, ",}")
		}
	}
}
