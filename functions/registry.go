// Package functions maps portable SQL function names to vendor specific
// rendering patterns.
//
// Patterns reference their arguments as ?1, ?2, ...; a varargs pattern uses
// ?* for the whole argument list, joined with the pattern's separator.
package functions

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrUnknownFunction no pattern registered under the name
	ErrUnknownFunction = errors.New("unknown function")
	// ErrArgumentCount wrong number of arguments for a pattern
	ErrArgumentCount = errors.New("wrong number of arguments")
)

// Pattern rendering template of one function
type Pattern struct {
	Name     string
	Template string
	// Arity number of positional arguments, the minimum for varargs
	Arity     int
	Varargs   bool
	Separator string
}

// Render substitutes the arguments into the template
func (p Pattern) Render(args ...string) (string, error) {
	if (!p.Varargs && len(args) != p.Arity) || len(args) < p.Arity {
		return "", fmt.Errorf("%w: %s expects %d, got %d", ErrArgumentCount, p.Name, p.Arity, len(args))
	}

	var sb strings.Builder
	for i := 0; i < len(p.Template); i++ {
		c := p.Template[i]
		if c != '?' || i+1 >= len(p.Template) {
			sb.WriteByte(c)
			continue
		}
		if p.Template[i+1] == '*' {
			sb.WriteString(strings.Join(args, p.Separator))
			i++
			continue
		}
		j := i + 1
		for j < len(p.Template) && p.Template[j] >= '0' && p.Template[j] <= '9' {
			j++
		}
		if j == i+1 {
			sb.WriteByte(c)
			continue
		}
		n, _ := strconv.Atoi(p.Template[i+1 : j])
		sb.WriteString(args[n-1])
		i = j - 1
	}
	return sb.String(), nil
}

// NewPattern a fixed arity pattern, the arity being its highest placeholder
func NewPattern(name, template string) (Pattern, error) {
	n, err := arity(template)
	if err != nil {
		return Pattern{}, fmt.Errorf("function %s: %w", name, err)
	}
	return Pattern{Name: name, Template: template, Arity: n}, nil
}

// arity highest ?n placeholder of a template
func arity(template string) (int, error) {
	max := 0
	for i := 0; i < len(template); i++ {
		if template[i] != '?' {
			continue
		}
		j := i + 1
		for j < len(template) && template[j] >= '0' && template[j] <= '9' {
			j++
		}
		if j == i+1 {
			continue
		}
		n, err := strconv.Atoi(template[i+1 : j])
		if err != nil || n == 0 {
			return 0, fmt.Errorf("invalid placeholder %s in %q", template[i:j], template)
		}
		if n > max {
			max = n
		}
	}
	return max, nil
}

// Builder collects patterns while a dialect is assembled; Build freezes
// them into a Registry. A Builder is not safe for concurrent use.
type Builder struct {
	patterns map[string]Pattern
	errs     []error
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{patterns: map[string]Pattern{}}
}

// Register adds or replaces a fixed arity pattern
func (b *Builder) Register(name, template string) *Builder {
	p, err := NewPattern(name, template)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.patterns[strings.ToLower(name)] = p
	return b
}

// RegisterVarargs adds or replaces a pattern taking at least minArgs
// arguments, rendered at ?* joined by separator
func (b *Builder) RegisterVarargs(name, template, separator string, minArgs int) *Builder {
	if !strings.Contains(template, "?*") {
		b.errs = append(b.errs, fmt.Errorf("function %s: varargs template %q has no ?* placeholder", name, template))
		return b
	}
	b.patterns[strings.ToLower(name)] = Pattern{Name: name, Template: template, Arity: minArgs, Varargs: true, Separator: separator}
	return b
}

// Alias registers name as another name for an already registered function
func (b *Builder) Alias(alias, name string) *Builder {
	p, ok := b.patterns[strings.ToLower(name)]
	if !ok {
		b.errs = append(b.errs, fmt.Errorf("alias %s: %w %s", alias, ErrUnknownFunction, name))
		return b
	}
	p.Name = alias
	b.patterns[strings.ToLower(alias)] = p
	return b
}

// Remove drops a pattern, e.g. one inherited from a base dialect
func (b *Builder) Remove(name string) *Builder {
	delete(b.patterns, strings.ToLower(name))
	return b
}

// Build returns the frozen registry, or the first registration error
func (b *Builder) Build() (*Registry, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	r := &Registry{patterns: make(map[string]Pattern, len(b.patterns))}
	for key, p := range b.patterns {
		r.patterns[key] = p
		r.names = append(r.names, key)
	}
	sort.Strings(r.names)
	return r, nil
}

// Clone a builder seeded with the patterns of the registry
func (r *Registry) Clone() *Builder {
	b := NewBuilder()
	for key, p := range r.patterns {
		b.patterns[key] = p
	}
	return b
}

// Registry read only function registry, safe for concurrent use
type Registry struct {
	patterns map[string]Pattern
	names    []string
}

// Lookup finds a pattern by case insensitive name
func (r *Registry) Lookup(name string) (Pattern, bool) {
	p, ok := r.patterns[strings.ToLower(name)]
	return p, ok
}

// Render renders a registered function
func (r *Registry) Render(name string, args ...string) (string, error) {
	p, ok := r.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	return p.Render(args...)
}

// Names registered (lower case) names, sorted
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Len number of registered functions
func (r *Registry) Len() int {
	return len(r.patterns)
}
