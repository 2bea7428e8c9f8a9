// Package rules evaluates a sealed snapshot against the declarative rule
// catalog and produces the ordered recommendation records. Evaluation is
// pure: same snapshot, same catalog, same records, every time.
package rules

import (
	"github.com/felixgeelhaar/tenantready/internal/domain"
)

// Evidence is a rule's read-only window onto the snapshot, scoped to the
// rule's own service area.
type Evidence struct {
	snapshot *domain.Snapshot
	area     domain.Area
}

// Payload returns the typed payload for a sub-resource of the rule's
// area, or false when it was not collected successfully.
func (e Evidence) Payload(key domain.ResourceKey) (domain.Payload, bool) {
	result, ok := e.snapshot.Result(domain.Ref{Area: e.area, Resource: key})
	if !ok || !result.OK() {
		return nil, false
	}
	return result.Payload, true
}

// Result returns the raw collection result for a sub-resource, including
// denied and unavailable markers. Gap rules use this to turn access and
// activation gaps into findings.
func (e Evidence) Result(key domain.ResourceKey) (domain.CollectionResult, bool) {
	return e.snapshot.Result(domain.Ref{Area: e.area, Resource: key})
}

// Unassessed reports whether the rule's whole area was skipped, with the
// recorded reason.
func (e Evidence) Unassessed() (string, bool) {
	return e.snapshot.Unassessed(e.area)
}

// Outcome is what a rule concludes about its feature. The engine derives
// the record's priority from it: compliant and informational outcomes
// carry no priority, everything else carries the rule's declared one.
type Outcome struct {
	Status         domain.Status
	Observation    string
	Recommendation string

	// Informational marks a for-your-information record that carries no
	// recommendation and sorts after all prioritized records.
	Informational bool
}

// Compliant builds a passing outcome.
func Compliant(observation string) Outcome {
	return Outcome{Status: domain.StatusCompliant, Observation: observation}
}

// Warn builds a partial-configuration outcome.
func Warn(observation, recommendation string) Outcome {
	return Outcome{Status: domain.StatusWarning, Observation: observation, Recommendation: recommendation}
}

// NotConfigured builds an absent-or-disabled outcome.
func NotConfigured(observation, recommendation string) Outcome {
	return Outcome{Status: domain.StatusNotConfigured, Observation: observation, Recommendation: recommendation}
}

// PendingInput builds an outcome for a feature that needs a one-time
// manual action before API-based assessment is meaningful.
func PendingInput(observation, recommendation string) Outcome {
	return Outcome{Status: domain.StatusPendingInput, Observation: observation, Recommendation: recommendation}
}

// Info builds an informational outcome with no recommendation attached.
func Info(observation string) Outcome {
	return Outcome{Status: domain.StatusCompliant, Observation: observation, Informational: true}
}

// Rule is one declarative check. Needs lists the sub-resources the rule
// reads; when any of them is denied or unavailable the engine blocks the
// rule and emits a cannot-determine record in its place. Rules with an
// empty Needs list always run and inspect raw results themselves.
type Rule struct {
	ID       string
	Area     domain.Area
	Feature  string
	Priority domain.Priority
	Needs    []domain.ResourceKey
	LinkText string
	LinkURL  string
	Evaluate func(ev Evidence) Outcome
}
