package schema

import "sort"

// Record generic representation of an embeddable value, keyed by field
// name. Nested embeddables are Records too.
type Record map[string]interface{}

// Get value of a field, nil when unset
func (r Record) Get(name string) interface{} {
	return r[name]
}

// Set assigns a field value and returns the record
func (r Record) Set(name string, value interface{}) Record {
	r[name] = value
	return r
}

// Names field names present in the record, sorted
func (r Record) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewRecord builds a record for the embeddable from values in declaration
// order; missing trailing values are nil
func NewRecord(e *Embeddable, values ...interface{}) Record {
	record := make(Record, len(e.Fields))
	for i, field := range e.Fields {
		if i < len(values) {
			record[field.Name] = values[i]
		} else {
			record[field.Name] = nil
		}
	}
	return record
}
