package label

import (
	"errors"
	"fmt"
)

// ErrNotInDomain is returned when a label value is outside a dimension's
// declared domain.
var ErrNotInDomain = errors.New("value not in label domain")

// Dimension declares one label: its name, ordered domain and ordering.
//
// An empty Domain leaves the label unrestricted. A nil Ordering means Natural.
type Dimension struct {
	Name     string
	Domain   []Value
	Ordering Ordering
}

// autoDimension is implicitly declared on every grid.
var autoDimension = Dimension{
	Name:     AutoLabel,
	Domain:   []Value{Bool(false), Bool(true)},
	Ordering: Natural{},
}

// Grid is the LabelGrid: the declared dimensions of a parameter space, in
// declaration order.
type Grid struct {
	dims  []Dimension
	index map[string]int
	ranks []map[string]int
}

// NewGrid creates a grid from dimensions. Domains are deduplicated keeping
// the first occurrence; reserved or duplicate names are rejected.
func NewGrid(dims ...Dimension) (*Grid, error) {
	g := &Grid{
		dims:  make([]Dimension, 0, len(dims)),
		index: make(map[string]int, len(dims)),
		ranks: make([]map[string]int, 0, len(dims)),
	}
	for _, d := range dims {
		if d.Name == "" {
			return nil, errors.New("dimension name must not be empty")
		}
		if IsReserved(d.Name) {
			return nil, fmt.Errorf("dimension name %q is reserved", d.Name)
		}
		if _, dup := g.index[d.Name]; dup {
			return nil, fmt.Errorf("dimension %q declared twice", d.Name)
		}
		g.add(d)
	}
	return g, nil
}

// MustGrid is like NewGrid but panics on error.
func MustGrid(dims ...Dimension) *Grid {
	g, err := NewGrid(dims...)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Grid) add(d Dimension) {
	if d.Ordering == nil {
		d.Ordering = Natural{}
	}
	ranks := make(map[string]int, len(d.Domain))
	domain := make([]Value, 0, len(d.Domain))
	for _, v := range d.Domain {
		k := v.Key()
		if _, seen := ranks[k]; seen {
			continue
		}
		ranks[k] = len(domain)
		domain = append(domain, v)
	}
	d.Domain = domain

	g.index[d.Name] = len(g.dims)
	g.dims = append(g.dims, d)
	g.ranks = append(g.ranks, ranks)
}

// Len returns the number of declared dimensions (excluding AutoLabel).
func (g *Grid) Len() int {
	if g == nil {
		return 0
	}
	return len(g.dims)
}

// Names returns the declared label names in declaration order
// (excluding AutoLabel).
func (g *Grid) Names() []string {
	if g == nil {
		return nil
	}
	names := make([]string, len(g.dims))
	for i, d := range g.dims {
		names[i] = d.Name
	}
	return names
}

// Has reports whether the label is declared. AutoLabel is always declared.
func (g *Grid) Has(name string) bool {
	if name == AutoLabel {
		return true
	}
	if g == nil {
		return false
	}
	_, ok := g.index[name]
	return ok
}

// Dimension returns the declaration of a label.
func (g *Grid) Dimension(name string) (Dimension, bool) {
	if name == AutoLabel {
		return autoDimension, true
	}
	if g == nil {
		return Dimension{}, false
	}
	i, ok := g.index[name]
	if !ok {
		return Dimension{}, false
	}
	return g.dims[i], true
}

// Domain returns the ordered domain of a label, or nil if undeclared.
func (g *Grid) Domain(name string) []Value {
	d, _ := g.Dimension(name)
	return d.Domain
}

// Ordering returns the ordering of a label. Undeclared labels order
// naturally.
func (g *Grid) Ordering(name string) Ordering {
	d, ok := g.Dimension(name)
	if !ok || d.Ordering == nil {
		return Natural{}
	}
	return d.Ordering
}

// Rank returns the position of v within the label's domain.
func (g *Grid) Rank(name string, v Value) (int, bool) {
	if name == AutoLabel {
		b, ok := v.AsBool()
		if !ok {
			return 0, false
		}
		if b {
			return 1, true
		}
		return 0, true
	}
	if g == nil {
		return 0, false
	}
	i, ok := g.index[name]
	if !ok {
		return 0, false
	}
	r, ok := g.ranks[i][v.Key()]
	return r, ok
}

// Contains reports whether v is a legal value for the label. Labels with an
// empty domain accept any value.
func (g *Grid) Contains(name string, v Value) bool {
	d, ok := g.Dimension(name)
	if !ok {
		return false
	}
	if len(d.Domain) == 0 {
		return true
	}
	_, ok = g.Rank(name, v)
	return ok
}

// Narrow returns a view of the grid whose domain for label is restricted to
// values, kept in the grid's declared order. An empty domain means
// unrestricted, so values must not be empty.
func (g *Grid) Narrow(name string, values []Value) (*Grid, error) {
	if name == AutoLabel || !g.Has(name) {
		return nil, &ErrUnknownLabel{Label: name}
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: %s: no values given", ErrNotInDomain, name)
	}
	keep := make(map[string]struct{}, len(values))
	for _, v := range values {
		if !g.Contains(name, v) {
			return nil, fmt.Errorf("%w: %s=%s", ErrNotInDomain, name, v)
		}
		keep[v.Key()] = struct{}{}
	}

	out := &Grid{
		dims:  make([]Dimension, 0, len(g.dims)),
		index: make(map[string]int, len(g.dims)),
		ranks: make([]map[string]int, 0, len(g.dims)),
	}
	for _, d := range g.dims {
		if d.Name == name {
			domain := d.Domain
			if len(domain) == 0 {
				domain = values
			} else {
				domain = make([]Value, 0, len(values))
				for _, v := range d.Domain {
					if _, ok := keep[v.Key()]; ok {
						domain = append(domain, v)
					}
				}
			}
			d = Dimension{Name: d.Name, Domain: domain, Ordering: d.Ordering}
		}
		out.add(d)
	}
	return out, nil
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	if g == nil {
		return nil
	}
	out := &Grid{
		dims:  make([]Dimension, 0, len(g.dims)),
		index: make(map[string]int, len(g.dims)),
		ranks: make([]map[string]int, 0, len(g.dims)),
	}
	for _, d := range g.dims {
		domain := make([]Value, len(d.Domain))
		copy(domain, d.Domain)
		out.add(Dimension{Name: d.Name, Domain: domain, Ordering: d.Ordering})
	}
	return out
}
