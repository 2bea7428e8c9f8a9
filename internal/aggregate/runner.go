// Package aggregate fans collection out across the requested service
// areas and merges the results into one sealed snapshot. An area that
// cannot be assessed — declined sign-in, missing adapter, collector
// failure — is recorded as unassessed; only context cancellation and an
// empty area list stop a run.
package aggregate

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/tenantready/internal/auth"
	"github.com/felixgeelhaar/tenantready/internal/collector"
	"github.com/felixgeelhaar/tenantready/internal/domain"
	"github.com/felixgeelhaar/tenantready/internal/errors"
	"github.com/felixgeelhaar/tenantready/internal/log"
)

// Unassessed-area reasons surfaced in reports.
const (
	ReasonNoAdapter    = "no collector is configured for this area"
	ReasonAuthDeclined = "sign-in for this area was declined or timed out"
	ReasonAuthFailed   = "a credential for this area could not be acquired"
	ReasonCollectError = "the collector for this area failed"
	ReasonRunCancelled = "the run was cancelled before this area completed"
)

// Observer receives area lifecycle events during a run. Used by the
// command layer to drive the progress display.
type Observer interface {
	AreaStarted(area domain.Area)
	AreaFinished(area domain.Area, assessed bool)
}

type noopObserver struct{}

func (noopObserver) AreaStarted(domain.Area)        {}
func (noopObserver) AreaFinished(domain.Area, bool) {}

// Runner orchestrates one assessment run.
type Runner struct {
	broker   *auth.Broker
	registry *collector.Registry
	logger   *log.Logger
	observer Observer
}

// NewRunner creates a runner over a credential broker and an adapter
// registry.
func NewRunner(broker *auth.Broker, registry *collector.Registry, logger *log.Logger) *Runner {
	return &Runner{broker: broker, registry: registry, logger: logger, observer: noopObserver{}}
}

// WithObserver attaches a run observer.
func (r *Runner) WithObserver(observer Observer) *Runner {
	r.observer = observer
	return r
}

// areaReport is the complete outcome of collecting one area, produced by
// a worker goroutine and merged into the builder on the main goroutine.
// The builder is the single merge point; workers never share state.
type areaReport struct {
	area     domain.Area
	results  map[domain.ResourceKey]domain.CollectionResult
	assessed bool
	reason   string
}

// Run collects every requested area concurrently and returns the sealed
// snapshot. The returned snapshot always carries exactly one result per
// sub-resource key declared by each area's adapter, even for areas that
// failed partway.
func (r *Runner) Run(ctx context.Context, tenantID string, areas []domain.Area) (*domain.Snapshot, error) {
	if len(areas) == 0 {
		return nil, errors.New(errors.ErrCodeAreaUnknown, "no service areas requested")
	}

	builder := domain.NewBuilder(tenantID, areas)

	reports := make(chan areaReport, len(areas))
	var wg sync.WaitGroup
	for _, area := range areas {
		wg.Add(1)
		go func(area domain.Area) {
			defer wg.Done()
			reports <- r.collectArea(ctx, area)
		}(area)
	}
	wg.Wait()
	close(reports)

	for report := range reports {
		for key, result := range report.results {
			ref := domain.Ref{Area: report.area, Resource: key}
			if err := builder.Put(ref, result); err != nil {
				return nil, errors.Wrap(errors.ErrCodeCollectorExec, "merge collection results", err)
			}
		}
		if report.assessed {
			builder.MarkAssessed(report.area)
		} else {
			builder.MarkUnassessed(report.area, report.reason)
		}
	}

	snapshot := builder.Seal()
	r.logger.InfoContext(ctx, "assessment collection finished",
		"run_id", snapshot.RunID(),
		"areas", len(areas),
		"results", len(snapshot.Refs()),
	)
	return snapshot, nil
}

// collectArea resolves the area's credential and runs its adapter. All
// failure modes degrade to an unassessed area with placeholder results
// for every declared key; nothing here fails the run.
func (r *Runner) collectArea(ctx context.Context, area domain.Area) (report areaReport) {
	logger := r.logger.WithArea(area.String())

	r.observer.AreaStarted(area)
	defer func() { r.observer.AreaFinished(area, report.assessed) }()

	adapter, ok := r.registry.For(area)
	if !ok {
		logger.Warn("no adapter registered, area skipped")
		return areaReport{area: area, reason: ReasonNoAdapter}
	}

	cred, err := r.broker.Resolve(ctx, area)
	if err != nil {
		logger.WithError(err).Warn("credential resolution failed, area skipped")
		return areaReport{
			area:    area,
			results: placeholders(adapter, domain.ReasonForbidden, err.Error()),
			reason:  authReason(err),
		}
	}

	results, err := adapter.Collect(ctx, cred)
	if err != nil {
		if ctx.Err() != nil {
			logger.Warn("collection cancelled")
			return areaReport{
				area:    area,
				results: placeholders(adapter, domain.ReasonCancelled, "run cancelled"),
				reason:  ReasonRunCancelled,
			}
		}
		logger.WithError(err).Warn("collection failed, area skipped")
		return areaReport{
			area:    area,
			results: placeholders(adapter, domain.ReasonCollectorFailed, err.Error()),
			reason:  ReasonCollectError,
		}
	}

	logger.Debug("area collected", "resources", len(results))
	return areaReport{area: area, results: results, assessed: true}
}

// placeholders fills every declared key of an adapter with one
// denied/unavailable result so the one-result-per-key invariant holds
// even when the area never produced an envelope.
func placeholders(adapter *collector.Adapter, reason domain.ReasonCode, detail string) map[domain.ResourceKey]domain.CollectionResult {
	results := make(map[domain.ResourceKey]domain.CollectionResult)
	for _, key := range adapter.Resources() {
		if reason == domain.ReasonForbidden {
			results[key] = domain.Denied(detail)
		} else {
			results[key] = domain.Unavailable(reason, detail)
		}
	}
	return results
}

func authReason(err error) string {
	if errors.HasCode(err, errors.ErrCodeAuthenticationFailed) {
		return ReasonAuthDeclined
	}
	return ReasonAuthFailed
}
