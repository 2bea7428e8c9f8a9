package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// AreaOutcome records whether an entire service area was assessed, and if
// not, why. An unassessed area never aborts the run; it surfaces as a
// finding in the report instead.
type AreaOutcome struct {
	Assessed bool
	Reason   string
}

// Snapshot is the merged, read-only view of everything collected in one
// run. It is built once by the aggregator, sealed, and then only read —
// the rule engine never mutates it.
type Snapshot struct {
	runID     string
	tenantID  string
	startedAt time.Time

	areas    []Area
	results  map[Ref]CollectionResult
	outcomes map[Area]AreaOutcome
}

// RunID returns the unique identifier of the run that built this snapshot.
func (s *Snapshot) RunID() string { return s.runID }

// TenantID returns the assessed tenant's identifier.
func (s *Snapshot) TenantID() string { return s.tenantID }

// StartedAt returns when the run began.
func (s *Snapshot) StartedAt() time.Time { return s.startedAt }

// Areas returns the requested service areas in declaration order.
// The returned slice is a copy.
func (s *Snapshot) Areas() []Area {
	areas := make([]Area, len(s.areas))
	copy(areas, s.areas)
	return areas
}

// Requested reports whether the area was part of this run.
func (s *Snapshot) Requested(area Area) bool {
	for _, a := range s.areas {
		if a == area {
			return true
		}
	}
	return false
}

// Result returns the collection result for a sub-resource reference.
// The second return is false when the reference was never collected
// (area not requested, or key unknown to the adapter).
func (s *Snapshot) Result(ref Ref) (CollectionResult, bool) {
	r, ok := s.results[ref]
	return r, ok
}

// Outcome returns the per-area outcome for a requested area.
func (s *Snapshot) Outcome(area Area) (AreaOutcome, bool) {
	o, ok := s.outcomes[area]
	return o, ok
}

// Unassessed reports whether the area was requested but could not be
// assessed at all, together with the recorded reason.
func (s *Snapshot) Unassessed(area Area) (string, bool) {
	o, ok := s.outcomes[area]
	if !ok || o.Assessed {
		return "", false
	}
	return o.Reason, true
}

// Refs returns every collected reference in deterministic order: area
// declaration order first, then lexical resource key order within an area.
func (s *Snapshot) Refs() []Ref {
	refs := make([]Ref, 0, len(s.results))
	for _, area := range s.areas {
		var keys []string
		for ref := range s.results {
			if ref.Area == area {
				keys = append(keys, string(ref.Resource))
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			refs = append(refs, Ref{Area: area, Resource: ResourceKey(k)})
		}
	}
	return refs
}

// Builder accumulates collection results into a snapshot. Put and
// MarkUnassessed may be called from one goroutine at a time per area; the
// aggregator serializes merges. Seal finishes construction — the builder
// must not be used afterwards.
type Builder struct {
	snapshot *Snapshot
	sealed   bool
}

// NewBuilder starts a snapshot for the given tenant and requested areas.
func NewBuilder(tenantID string, areas []Area) *Builder {
	requested := make([]Area, len(areas))
	copy(requested, areas)
	return &Builder{
		snapshot: &Snapshot{
			runID:     uuid.NewString(),
			tenantID:  tenantID,
			startedAt: time.Now().UTC(),
			areas:     requested,
			results:   make(map[Ref]CollectionResult),
			outcomes:  make(map[Area]AreaOutcome),
		},
	}
}

// Put records the result for one sub-resource. Duplicate references and
// writes after Seal are programming errors and are rejected.
func (b *Builder) Put(ref Ref, result CollectionResult) error {
	if b.sealed {
		return fmt.Errorf("snapshot already sealed")
	}
	if _, exists := b.snapshot.results[ref]; exists {
		return fmt.Errorf("duplicate collection result for %s", ref)
	}
	b.snapshot.results[ref] = result
	return nil
}

// MarkAssessed records that the area's adapter ran to completion.
func (b *Builder) MarkAssessed(area Area) {
	if b.sealed {
		return
	}
	b.snapshot.outcomes[area] = AreaOutcome{Assessed: true}
}

// MarkUnassessed records that an entire area could not be assessed
// (declined consent, broker failure, missing adapter) with the reason
// surfaced to the user.
func (b *Builder) MarkUnassessed(area Area, reason string) {
	if b.sealed {
		return
	}
	b.snapshot.outcomes[area] = AreaOutcome{Assessed: false, Reason: reason}
}

// Seal finishes construction and returns the immutable snapshot.
// Further builder calls fail.
func (b *Builder) Seal() *Snapshot {
	b.sealed = true
	return b.snapshot
}
