package domain

// ResultState classifies the outcome of collecting one sub-resource.
type ResultState int

const (
	// StateCollected means the sub-resource was fetched and validated.
	StateCollected ResultState = iota

	// StatePermissionDenied means the backend refused access (HTTP 403
	// or an equivalent authorization failure) for this sub-resource only.
	StatePermissionDenied

	// StateUnavailable means the capability behind the sub-resource is
	// not provisioned, not activated, or could not be read for a reason
	// other than authorization. Never a hard failure for the run.
	StateUnavailable
)

// String returns the state's machine name.
func (s ResultState) String() string {
	switch s {
	case StateCollected:
		return "collected"
	case StatePermissionDenied:
		return "permission-denied"
	case StateUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// ReasonCode explains why a sub-resource is denied or unavailable.
// Rules use reason codes to turn access gaps into specific findings.
type ReasonCode string

const (
	// ReasonForbidden marks an authorization refusal.
	ReasonForbidden ReasonCode = "forbidden"

	// ReasonNotActivated marks a backend that exists in licensing terms
	// but has never been switched on (e.g. the security analytics
	// platform before its one-time portal activation).
	ReasonNotActivated ReasonCode = "not-activated"

	// ReasonNotProvisioned marks a capability absent from the tenant's
	// licenses entirely.
	ReasonNotProvisioned ReasonCode = "not-provisioned"

	// ReasonMalformed marks collector output that could not be parsed
	// or failed payload validation.
	ReasonMalformed ReasonCode = "malformed-output"

	// ReasonCancelled marks a fetch abandoned because the run-level
	// deadline expired before it completed.
	ReasonCancelled ReasonCode = "cancelled"

	// ReasonCollectorFailed marks a collector process or transport
	// failure unrelated to authorization.
	ReasonCollectorFailed ReasonCode = "collector-failed"
)

// CollectionResult is the per-sub-resource outcome: either a typed payload
// or a denied/unavailable marker with a reason. It is never an error that
// terminates the run.
type CollectionResult struct {
	State   ResultState
	Payload Payload
	Count   int
	Reason  ReasonCode
	Detail  string
}

// Collected builds a successful result from a validated payload.
func Collected(p Payload) CollectionResult {
	return CollectionResult{
		State:   StateCollected,
		Payload: p,
		Count:   p.Len(),
	}
}

// Denied builds a permission-denied result.
func Denied(detail string) CollectionResult {
	return CollectionResult{
		State:  StatePermissionDenied,
		Reason: ReasonForbidden,
		Detail: detail,
	}
}

// Unavailable builds an unavailable result with a reason code.
func Unavailable(reason ReasonCode, detail string) CollectionResult {
	return CollectionResult{
		State:  StateUnavailable,
		Reason: reason,
		Detail: detail,
	}
}

// OK reports whether the sub-resource was collected successfully.
func (r CollectionResult) OK() bool {
	return r.State == StateCollected
}
