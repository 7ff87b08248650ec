package dispatch

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/config"
	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/registry"
)

// Entry is one statically instantiated combination in a catalog: one Choice
// per type-list field and the factory that builds the specialized value
// once all choices have resolved.
type Entry[R any] struct {
	Choices []Choice
	Make    func(b config.Bundle, resolved []any) (R, error)
}

// Entry1 builds a single-field entry from a typed factory.
func Entry1[A, R any](mk func(b config.Bundle, a A) (R, error)) Entry[R] {
	return Entry[R]{
		Choices: []Choice{Of[A]()},
		Make: func(b config.Bundle, vs []any) (R, error) {
			return mk(b, vs[0].(A))
		},
	}
}

// Entry2 builds a two-field entry from a typed factory.
func Entry2[A, B, R any](mk func(b config.Bundle, a A, bv B) (R, error)) Entry[R] {
	return Entry[R]{
		Choices: []Choice{Of[A](), Of[B]()},
		Make: func(b config.Bundle, vs []any) (R, error) {
			return mk(b, vs[0].(A), vs[1].(B))
		},
	}
}

// Match is a resolved entry returned by Dispatch.
type Match struct {
	Signature string
	Fields    []string
	Values    []any
}

// Value returns the resolved value for field, or nil if the field is not a
// type-list field of the catalog.
func (m Match) Value(field string) any {
	for i, f := range m.Fields {
		if f == field {
			return m.Values[i]
		}
	}
	return nil
}

// Catalog is a closed, ordered set of entries over a fixed list of
// type-list fields. It is sealed on construction.
type Catalog[R any] struct {
	name    string
	fields  []string
	entries *registry.Registry[string, Entry[R]]
}

// New builds and seals a catalog. It panics if an entry's arity differs
// from len(fields), if an entry has no factory, or if two entries share a
// type signature.
func New[R any](name string, fields []string, entries ...Entry[R]) *Catalog[R] {
	c := &Catalog[R]{
		name:    name,
		fields:  append([]string(nil), fields...),
		entries: registry.New[string, Entry[R]](),
	}
	for i, e := range entries {
		if len(e.Choices) != len(fields) {
			panic(fmt.Sprintf("dispatch %s: entry %d has %d choices for %d fields",
				name, i, len(e.Choices), len(fields)))
		}
		if e.Make == nil {
			panic(fmt.Sprintf("dispatch %s: entry %d has no factory", name, i))
		}
		sig := Signature(e.Choices...)
		if c.entries.Has(sig) {
			panic(fmt.Sprintf("dispatch %s: duplicate entry %s", name, sig))
		}
		c.entries.Register(sig, e)
	}
	c.entries.Seal()
	return c
}

// Name returns the catalog name.
func (c *Catalog[R]) Name() string { return c.name }

// Fields returns the type-list field names.
func (c *Catalog[R]) Fields() []string {
	return append([]string(nil), c.fields...)
}

// Len returns the number of entries.
func (c *Catalog[R]) Len() int { return c.entries.Len() }

// Signatures lists entry signatures in enumeration order.
func (c *Catalog[R]) Signatures() []string { return c.entries.Keys() }

// MakeDispatch resolves the bundle against the catalog and calls fn exactly
// once with the value built by the first matching entry.
//
// A factory error is returned without calling fn. When no entry matches,
// a *DispatchError wrapping ErrNoMatch is returned unless AllowNotFound is
// given, in which case MakeDispatch returns nil without calling fn.
func (c *Catalog[R]) MakeDispatch(b config.Bundle, fn func(R), opts ...Option) error {
	sig, e, vals, err := c.find(b, opts)
	if err != nil || vals == nil {
		return err
	}
	r, err := e.Make(b, vals)
	if err != nil {
		return fmt.Errorf("dispatch %s %s: %w", c.name, sig, err)
	}
	fn(r)
	return nil
}

// Dispatch resolves the bundle without building anything and calls fn
// with the resolved values of the first matching entry. Not-found handling
// follows MakeDispatch.
func (c *Catalog[R]) Dispatch(b config.Bundle, fn func(Match), opts ...Option) error {
	sig, _, vals, err := c.find(b, opts)
	if err != nil || vals == nil {
		return err
	}
	fn(Match{Signature: sig, Fields: c.Fields(), Values: vals})
	return nil
}

// find returns the first entry whose choices all resolve. vals is nil when
// nothing matched and not-found is allowed.
func (c *Catalog[R]) find(b config.Bundle, opts []Option) (string, Entry[R], []any, error) {
	o := applyOptions(opts)
	for _, f := range c.fields {
		if !b.Has(f) {
			return "", Entry[R]{}, nil, &DispatchError{Catalog: c.name, Field: f, Err: ErrMissingTypeField}
		}
	}

	var (
		sig   string
		entry Entry[R]
		vals  []any
	)
	c.entries.Range(func(s string, e Entry[R]) bool {
		resolved := make([]any, len(c.fields))
		for i, ch := range e.Choices {
			v, err := ch.resolve(b, c.fields[i])
			if err != nil {
				return true
			}
			resolved[i] = v
		}
		sig, entry, vals = s, e, resolved
		return false
	})
	if vals != nil {
		return sig, entry, vals, nil
	}
	if o.allowNotFound {
		return "", Entry[R]{}, nil, nil
	}
	return "", Entry[R]{}, nil, &DispatchError{Catalog: c.name, Got: c.describe(b), Err: ErrNoMatch}
}

func (c *Catalog[R]) describe(b config.Bundle) []string {
	got := make([]string, 0, len(c.fields))
	for _, f := range c.fields {
		raw, _ := b.Lookup(f)
		if h, ok := raw.(config.Holder); ok {
			raw = h.Held()
		}
		got = append(got, fmt.Sprintf("%s=%T", f, raw))
	}
	return got
}

// Signature formats choices the way catalogs key their entries, e.g.
// "(*pkg.State, []int)".
func Signature(choices ...Choice) string {
	names := make([]string, len(choices))
	for i, ch := range choices {
		names[i] = ch.TypeName()
	}
	return "(" + strings.Join(names, ", ") + ")"
}
