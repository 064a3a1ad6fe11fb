package paramgrid

import (
	"context"
	"errors"
	"maps"
	"slices"
	"time"

	"github.com/hupe1980/paramgrid/dense"
	"github.com/hupe1980/paramgrid/label"
	"github.com/hupe1980/paramgrid/store"
)

// Parameters is a set of named parameters sharing one label grid.
//
// Each parameter is held in its own store.Store. An optional state narrows
// the grid to a view that Active, ToArray and FromArray honor.
//
// Parameters is not safe for concurrent use.
type Parameters struct {
	grid   *label.Grid
	view   *label.Grid
	state  map[string][]label.Value
	params map[string]*store.Store
	opts   options
}

// New creates an empty parameter set over grid.
func New(grid *label.Grid, optFns ...Option) *Parameters {
	if grid == nil {
		grid = label.MustGrid()
	}
	opts := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Parameters{
		grid:   grid,
		view:   grid,
		state:  make(map[string][]label.Value),
		params: make(map[string]*store.Store),
		opts:   opts,
	}
}

// Grid returns the declared grid, ignoring state.
func (p *Parameters) Grid() *label.Grid { return p.grid }

// View returns the grid narrowed by the current state.
func (p *Parameters) View() *label.Grid { return p.view }

// Names returns the parameter names in lexical order.
func (p *Parameters) Names() []string {
	return slices.Sorted(maps.Keys(p.params))
}

// Add validates records and stores them as a parameter, replacing any
// previous records of that name. The records must share one label set.
func (p *Parameters) Add(ctx context.Context, name string, records []label.Record) error {
	if err := p.validate(map[string][]label.Record{name: records}); err != nil {
		return err
	}
	if _, err := label.CheckConsistent(records); err != nil {
		return err
	}
	st, err := store.FromRecords(p.grid, records, p.storeOptions()...)
	if err != nil {
		return err
	}
	p.params[name] = st
	p.opts.logger.DebugContext(ctx, "parameter added", "param", name, "records", len(records))
	return nil
}

func (p *Parameters) storeOptions() []store.Option {
	return []store.Option{
		store.WithIndexObserver(indexObserver{metrics: p.opts.metricsCollector, logger: p.opts.logger}),
	}
}

// Sel returns the store of a parameter.
func (p *Parameters) Sel(name string) (*store.Store, error) {
	st, ok := p.params[name]
	if !ok {
		return nil, &ErrUnknownParameter{Name: name}
	}
	return st, nil
}

func (p *Parameters) validate(adj map[string][]label.Record) error {
	if p.opts.validator == nil {
		return nil
	}
	verr := &ValidationError{}
	for _, name := range slices.Sorted(maps.Keys(adj)) {
		err := p.opts.validator.Validate(name, adj[name])
		if err == nil {
			continue
		}
		var ve *ValidationError
		if errors.As(err, &ve) {
			verr.merge(ve)
			continue
		}
		verr.Add(name, err.Error())
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

// Adjust validates and merges adjustments onto the named parameters.
//
// The update is all-or-nothing: if any parameter is unknown, fails
// validation or fails to merge, no parameter is changed.
func (p *Parameters) Adjust(ctx context.Context, adj map[string][]label.Record) (map[string]store.MergeStats, error) {
	names := slices.Sorted(maps.Keys(adj))
	for _, name := range names {
		if _, ok := p.params[name]; !ok {
			err := &ErrUnknownParameter{Name: name}
			p.opts.logger.LogAdjust(ctx, name, store.MergeStats{}, err)
			return nil, err
		}
	}
	if err := p.validate(adj); err != nil {
		p.opts.logger.LogAdjust(ctx, "", store.MergeStats{}, err)
		return nil, err
	}

	next := make(map[string]*store.Store, len(names))
	stats := make(map[string]store.MergeStats, len(names))
	for _, name := range names {
		start := time.Now()
		st, s, err := p.params[name].Apply(adj[name])
		if err == nil {
			_, err = st.ConsistentLabels()
		}
		p.opts.metricsCollector.RecordAdjust(name, s, time.Since(start), err)
		if err != nil {
			p.opts.logger.LogAdjust(ctx, name, s, err)
			return nil, err
		}
		next[name] = st
		stats[name] = s
	}

	for _, name := range names {
		p.params[name] = next[name]
		p.opts.logger.LogAdjust(ctx, name, stats[name], nil)
	}
	return stats, nil
}

// Delete removes the records matching each label set. A label set
// matches like an adjustment record: omitted labels are wildcards.
func (p *Parameters) Delete(ctx context.Context, del map[string][]label.Labels) (map[string]store.MergeStats, error) {
	adj := make(map[string][]label.Record, len(del))
	for name, sets := range del {
		recs := make([]label.Record, len(sets))
		for i, ls := range sets {
			recs[i] = label.NewRecord(label.Null(), ls.Clone())
		}
		adj[name] = recs
	}
	return p.Adjust(ctx, adj)
}

// SetState narrows the view to the given label values. State accumulates
// across calls; a failing call leaves the state unchanged.
func (p *Parameters) SetState(state map[string][]label.Value) error {
	next := maps.Clone(p.state)
	for name, values := range state {
		next[name] = slices.Clone(values)
	}
	view, err := p.narrow(next)
	if err != nil {
		return err
	}
	p.state = next
	p.view = view
	return nil
}

func (p *Parameters) narrow(state map[string][]label.Value) (*label.Grid, error) {
	view := p.grid
	for _, name := range slices.Sorted(maps.Keys(state)) {
		var err error
		view, err = view.Narrow(name, state[name])
		if err != nil {
			return nil, err
		}
	}
	return view, nil
}

// ViewState returns a copy of the current state.
func (p *Parameters) ViewState() map[string][]label.Value {
	out := make(map[string][]label.Value, len(p.state))
	for name, values := range p.state {
		out[name] = slices.Clone(values)
	}
	return out
}

// ClearState drops the state and restores the full grid.
func (p *Parameters) ClearState() {
	p.state = make(map[string][]label.Value)
	p.view = p.grid
}

// Active returns the records of a parameter admitted by the current state.
// Records lacking a state label are admitted.
func (p *Parameters) Active(name string) (*store.Result, error) {
	st, err := p.Sel(name)
	if err != nil {
		return nil, err
	}
	res := st.Everything()
	for _, lbl := range slices.Sorted(maps.Keys(p.state)) {
		hits, err := st.Label(lbl).Isin(p.state[lbl], store.Strict(false))
		if err != nil {
			return nil, err
		}
		res = res.And(hits)
	}
	return res, nil
}

// Select returns the records of a parameter whose labels satisfy op against
// the given values. A list of values is a union within its label; labels
// combine as an intersection. Non-strict selection admits records lacking a
// label.
func (p *Parameters) Select(ctx context.Context, name string, op store.Op, labels map[string][]label.Value, strict bool) ([]label.Record, error) {
	start := time.Now()
	records, err := p.selectRecords(name, op, labels, strict)
	p.opts.metricsCollector.RecordQuery(name, len(records), time.Since(start), err)
	p.opts.logger.LogQuery(ctx, name, len(records), err)
	return records, err
}

func (p *Parameters) selectRecords(name string, op store.Op, labels map[string][]label.Value, strict bool) ([]label.Record, error) {
	st, err := p.Sel(name)
	if err != nil {
		return nil, err
	}
	var cmp store.Comparator
	switch op {
	case store.OpEq:
		cmp = store.EqualAny
	case store.OpNe:
		cmp = store.NotEqualAll
	default:
		cmp = store.CompareAny(op)
	}
	res, err := st.Select(labels, cmp, store.Strict(strict))
	if err != nil {
		return nil, err
	}
	return res.Records(), nil
}

// ToArray densifies the active records of a parameter over the view.
func (p *Parameters) ToArray(ctx context.Context, name string) (*dense.Array, error) {
	start := time.Now()
	arr, err := p.toArray(name)
	cells := 0
	var shape []int
	if arr != nil {
		cells = arr.Size()
		shape = arr.Shape
	}
	p.opts.metricsCollector.RecordArray(name, cells, time.Since(start), err)
	p.opts.logger.LogArray(ctx, name, shape, err)
	return arr, err
}

func (p *Parameters) toArray(name string) (*dense.Array, error) {
	active, err := p.Active(name)
	if err != nil {
		return nil, err
	}
	return dense.ToArray(active.Records(), p.view)
}

// FromArray expands a nested array payload into records of a parameter,
// using the parameter's labels and the view's domains as axes.
func (p *Parameters) FromArray(ctx context.Context, name string, v label.Value) ([]label.Record, error) {
	start := time.Now()
	records, err := p.fromArray(name, v)
	p.opts.metricsCollector.RecordArray(name, len(records), time.Since(start), err)
	p.opts.logger.LogArray(ctx, name, nil, err)
	return records, err
}

func (p *Parameters) fromArray(name string, v label.Value) ([]label.Record, error) {
	active, err := p.Active(name)
	if err != nil {
		return nil, err
	}
	axes, err := dense.ResolveOrder(p.view, active.Records())
	if err != nil {
		return nil, err
	}
	arr, err := dense.FromValue(axes, v)
	if err != nil {
		return nil, err
	}
	return dense.FromArray(arr)
}

// Records returns copies of a parameter's records, sorted by SortRecords.
func (p *Parameters) Records(name string) ([]label.Record, error) {
	st, err := p.Sel(name)
	if err != nil {
		return nil, err
	}
	return SortRecords(p.grid, st.Records()), nil
}
