package labeltree

import (
	"slices"

	"github.com/hupe1980/paramgrid/internal/rowset"
	"github.com/hupe1980/paramgrid/label"
)

// Update overwrites the payload of the base record at Index with the payload
// and auto flag of Record.
type Update struct {
	Index  int
	Record label.Record
}

// Plan is the outcome of matching an adjustment against a base tree. It is
// computed without touching the base, so an aborted merge leaves it intact.
type Plan struct {
	// Replace drops every base record before Appends are inserted.
	Replace bool
	// Updates in ascending index order.
	Updates []Update
	// Deletes in descending index order.
	Deletes []int
	// Appends in adjustment order.
	Appends []label.Record
}

// IsEmpty reports whether applying the plan changes nothing.
func (p *Plan) IsEmpty() bool {
	return !p.Replace && len(p.Updates) == 0 && len(p.Deletes) == 0 && len(p.Appends) == 0
}

// NewPlan matches adj against the records indexed by base.
//
// Each adjustment record is matched label by label. A label the record omits
// is a wildcard; a value the base never carries leaves the record unmatched.
// Matched records overwrite (non-null) or delete (null) their matches;
// unmatched non-null records are appended. Later records win over earlier
// ones on the same base index or the same coordinates.
//
// When the base carries no labels, a non-empty adjustment replaces it
// wholesale with its non-null records. Records sharing coordinates still
// collapse to the last one, so an unlabeled adjustment leaves a single
// record.
func NewPlan(base *Tree, grid *label.Grid, adj []label.Record) (*Plan, error) {
	for _, r := range adj {
		for name := range r.Labels {
			if name != label.AutoLabel && !grid.Has(name) {
				return nil, &label.ErrUndeclaredLabel{Label: name, Record: r.Labels.Clone()}
			}
		}
	}

	p := &Plan{}
	if len(adj) == 0 {
		return p, nil
	}

	names := base.Labels()
	if len(names) == 0 {
		pending := newAppendSet()
		for _, r := range adj {
			pending.put(r)
		}
		p.Replace = true
		p.Appends = pending.records()
		return p, nil
	}

	for _, r := range adj {
		for name := range r.Labels {
			if name != label.AutoLabel && !base.Has(name) {
				return nil, &label.ErrUndeclaredLabel{Label: name, Record: r.Labels.Clone()}
			}
		}
	}

	winner := make(map[int]int)
	pending := newAppendSet()
	for pos, r := range adj {
		matched := base.match(names, r)
		if matched.IsEmpty() {
			pending.put(r)
			continue
		}
		for idx := range matched.All() {
			winner[idx] = pos
		}
	}

	indices := make([]int, 0, len(winner))
	for idx := range winner {
		indices = append(indices, idx)
	}
	slices.Sort(indices)
	for _, idx := range indices {
		r := adj[winner[idx]]
		if r.HasValue() {
			p.Updates = append(p.Updates, Update{Index: idx, Record: r})
		} else {
			p.Deletes = append(p.Deletes, idx)
		}
	}
	slices.Reverse(p.Deletes)
	p.Appends = pending.records()
	return p, nil
}

// match intersects the base records agreeing with r on every label r
// specifies.
func (t *Tree) match(names []string, r label.Record) *rowset.Set {
	candidates := t.all.Clone()
	for _, name := range names {
		v, ok := r.Labels[name]
		if !ok {
			continue
		}
		b, ok := t.labels[name][matchKey(v)]
		if !ok {
			return rowset.New()
		}
		candidates.And(b.set)
		if candidates.IsEmpty() {
			break
		}
	}
	return candidates
}

// appendSet collects unmatched records keyed by their coordinates; a later
// record replaces an earlier one in place.
type appendSet struct {
	pos     map[uint64]int
	entries []label.Record
}

func newAppendSet() *appendSet {
	return &appendSet{pos: make(map[uint64]int)}
}

func (a *appendSet) put(r label.Record) {
	fp := r.Labels.Fingerprint()
	if i, ok := a.pos[fp]; ok {
		a.entries[i] = r
		return
	}
	if !r.HasValue() {
		return
	}
	a.pos[fp] = len(a.entries)
	a.entries = append(a.entries, r)
}

func (a *appendSet) records() []label.Record {
	out := make([]label.Record, 0, len(a.entries))
	for _, r := range a.entries {
		if r.HasValue() {
			out = append(out, r.Clone())
		}
	}
	return out
}
