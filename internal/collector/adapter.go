package collector

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/tenantready/internal/auth"
	"github.com/felixgeelhaar/tenantready/internal/domain"
)

// Fetcher obtains the raw collection envelope for one service area. The
// production fetcher runs an external collector process; tests and the
// pre-collected input path substitute a reader.
type Fetcher interface {
	Fetch(ctx context.Context, cred *auth.Credential) (*Envelope, error)
}

// ResourceSpec declares one sub-resource an adapter collects and the
// payload schema its data must validate against.
type ResourceSpec struct {
	Key  domain.ResourceKey
	Kind domain.PayloadKind
}

// Adapter collects every sub-resource of one service area through a
// Fetcher and validates the output at the boundary. Collect returns
// exactly one result per declared sub-resource, always: per-resource
// failures become denied or unavailable results, never errors.
type Adapter struct {
	area    domain.Area
	specs   []ResourceSpec
	fetcher Fetcher
}

// NewAdapter creates an adapter for a service area.
func NewAdapter(area domain.Area, specs []ResourceSpec, fetcher Fetcher) *Adapter {
	return &Adapter{area: area, specs: specs, fetcher: fetcher}
}

// Area returns the service area this adapter collects.
func (a *Adapter) Area() domain.Area { return a.area }

// Resources returns the sub-resource keys this adapter produces, in
// declaration order.
func (a *Adapter) Resources() []domain.ResourceKey {
	keys := make([]domain.ResourceKey, len(a.specs))
	for i, spec := range a.specs {
		keys[i] = spec.Key
	}
	return keys
}

// Collect fetches the area's envelope and maps it onto per-resource
// results. Only a whole-envelope failure (process error, malformed or
// wrong-version envelope) returns an error; the caller then marks the
// area unassessed.
func (a *Adapter) Collect(ctx context.Context, cred *auth.Credential) (map[domain.ResourceKey]domain.CollectionResult, error) {
	env, err := a.fetcher.Fetch(ctx, cred)
	if err != nil {
		return nil, err
	}
	if env.Area != "" && env.Area != a.area.String() {
		return nil, fmt.Errorf("envelope is for area %q, expected %q", env.Area, a.area)
	}

	results := make(map[domain.ResourceKey]domain.CollectionResult, len(a.specs))
	for _, spec := range a.specs {
		results[spec.Key] = a.resolve(spec, env)
	}
	return results, nil
}

func (a *Adapter) resolve(spec ResourceSpec, env *Envelope) domain.CollectionResult {
	out, ok := env.Resources[string(spec.Key)]
	if !ok {
		return domain.Unavailable(domain.ReasonCollectorFailed, "collector returned no result for this resource")
	}

	switch out.Status {
	case StatusOK:
		payload, err := domain.DecodePayload(spec.Kind, out.Data)
		if err != nil {
			return domain.Unavailable(domain.ReasonMalformed, err.Error())
		}
		return domain.Collected(payload)

	case StatusDenied:
		return domain.Denied(out.Detail)

	case StatusUnavailable:
		return domain.Unavailable(reasonFromWire(out.Reason), out.Detail)

	default:
		return domain.Unavailable(domain.ReasonMalformed,
			fmt.Sprintf("collector reported unknown status %q", out.Status))
	}
}

func reasonFromWire(reason string) domain.ReasonCode {
	switch domain.ReasonCode(reason) {
	case domain.ReasonNotActivated, domain.ReasonNotProvisioned, domain.ReasonCollectorFailed:
		return domain.ReasonCode(reason)
	default:
		return domain.ReasonCollectorFailed
	}
}
