package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/felixgeelhaar/tenantready/internal/domain"
)

// Evaluate runs every applicable catalog rule against the snapshot and
// returns the ordered record list. A rule is applicable when its area was
// requested; applicable rules always produce exactly one record, so the
// output length never falls below the applicable rule count.
//
// Ordering is deterministic: priority first (informational records last),
// then area declaration order, then catalog declaration order.
func Evaluate(snapshot *domain.Snapshot, catalog []Rule) []domain.Record {
	type ranked struct {
		record domain.Record
		index  int
	}

	var out []ranked
	for i, rule := range catalog {
		if !snapshot.Requested(rule.Area) {
			continue
		}
		out = append(out, ranked{record: apply(snapshot, rule), index: i})
	}

	sort.SliceStable(out, func(a, b int) bool {
		ra, rb := out[a].record, out[b].record
		if ra.Priority != rb.Priority {
			return ra.Priority < rb.Priority
		}
		if ra.Area != rb.Area {
			return ra.Area < rb.Area
		}
		return out[a].index < out[b].index
	})

	records := make([]domain.Record, len(out))
	for i, r := range out {
		records[i] = r.record
	}
	return records
}

func apply(snapshot *domain.Snapshot, rule Rule) domain.Record {
	ev := Evidence{snapshot: snapshot, area: rule.Area}

	if blocked, detail := blockedNeeds(ev, rule); blocked {
		return domain.Record{
			Area:           rule.Area,
			Feature:        rule.Feature,
			Status:         domain.StatusNotConfigured,
			Priority:       rule.Priority,
			Observation:    fmt.Sprintf("Could not determine the state of %s: %s.", rule.Feature, detail),
			Recommendation: "Resolve access to the listed data and re-run the assessment.",
			LinkText:       rule.LinkText,
			LinkURL:        rule.LinkURL,
		}
	}

	outcome := rule.Evaluate(ev)

	priority := rule.Priority
	if outcome.Status == domain.StatusCompliant || outcome.Informational {
		priority = domain.PriorityNone
	}

	return domain.Record{
		Area:           rule.Area,
		Feature:        rule.Feature,
		Status:         outcome.Status,
		Priority:       priority,
		Observation:    outcome.Observation,
		Recommendation: outcome.Recommendation,
		LinkText:       rule.LinkText,
		LinkURL:        rule.LinkURL,
	}
}

// blockedNeeds reports whether any declared need of the rule is missing,
// denied, or unavailable, with a human-readable detail. A blocked rule
// never evaluates, so denied data can never be read as compliant.
func blockedNeeds(ev Evidence, rule Rule) (bool, string) {
	var details []string
	for _, key := range rule.Needs {
		result, ok := ev.Result(key)
		if !ok {
			details = append(details, fmt.Sprintf("%s was not collected", key))
			continue
		}
		if result.OK() {
			continue
		}
		switch result.State {
		case domain.StatePermissionDenied:
			details = append(details, fmt.Sprintf("access to %s was denied", key))
		default:
			details = append(details, fmt.Sprintf("%s was unavailable (%s)", key, result.Reason))
		}
	}
	if len(details) == 0 {
		return false, ""
	}
	return true, strings.Join(details, "; ")
}
