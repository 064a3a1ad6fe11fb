package store

import (
	"github.com/hupe1980/paramgrid/internal/labeltree"
	"github.com/hupe1980/paramgrid/label"
)

// MergeStats summarizes an applied adjustment.
type MergeStats struct {
	Updated  int
	Deleted  int
	Appended int
	// Replaced counts base records dropped because the base carried no
	// labels.
	Replaced int
}

// Apply returns a new store with adj merged onto s. s is left unchanged.
func (s *Store) Apply(adj []label.Record) (*Store, MergeStats, error) {
	out := s.Clone()
	stats, err := out.ApplyInPlace(adj)
	if err != nil {
		return nil, MergeStats{}, err
	}
	return out, stats, nil
}

// ApplyInPlace merges adj onto s.
//
// Adjustment records match base records on every label they specify. Matched
// records are overwritten (non-null value) or deleted (null value);
// unmatched non-null records are appended. A label absent from the grid, or
// carried by no base record, fails the merge with ErrUndeclaredLabel before
// anything is changed.
func (s *Store) ApplyInPlace(adj []label.Record) (MergeStats, error) {
	plan, err := labeltree.NewPlan(s.tree, s.grid, adj)
	if err != nil {
		return MergeStats{}, err
	}

	var stats MergeStats
	if plan.Replace {
		stats.Replaced = s.Delete(s.ids.Slice()...)
	}
	for _, u := range plan.Updates {
		s.overwrite(u.Index, u.Record)
	}
	stats.Updated = len(plan.Updates)

	for _, idx := range plan.Deletes {
		if s.remove(idx) {
			stats.Deleted++
		}
	}
	if stats.Deleted > 0 {
		s.invalidate()
	}

	for _, r := range plan.Appends {
		if _, err := s.Insert(r); err != nil {
			return stats, err
		}
		stats.Appended++
	}
	return stats, nil
}

// overwrite replaces the payload of the record at index. The adjustment's
// auto flag replaces the record's own.
func (s *Store) overwrite(index int, adj label.Record) {
	base := s.records[index]
	labels := base.Labels.Without(label.AutoLabel)
	if labels == nil {
		labels = label.Labels{}
	}
	auto, hasAuto := adj.Labels[label.AutoLabel]
	if hasAuto {
		labels[label.AutoLabel] = auto
	}
	s.records[index] = label.Record{Labels: labels, Value: adj.Value.Clone()}

	old, hadAuto := base.Labels[label.AutoLabel]
	if hadAuto != hasAuto || (hasAuto && !old.Equal(auto)) {
		delete(s.indexes, label.AutoLabel)
		s.tree.Invalidate()
	}
}
