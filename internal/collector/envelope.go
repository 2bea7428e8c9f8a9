// Package collector defines the adapter boundary between the assessment
// core and the per-area collection backends. Collectors are external
// processes that emit a versioned JSON envelope on stdout; the same
// envelope can be supplied pre-collected from a file or a pipe, and the
// two paths are interchangeable. Validation happens here, at the
// boundary, so the rule engine only ever sees typed payloads.
package collector

import (
	"encoding/json"
	"fmt"
	"io"
)

// SchemaVersion is the envelope schema this build understands. Envelopes
// carrying any other version are rejected whole.
const SchemaVersion = 1

// Resource statuses a collector may report.
const (
	StatusOK          = "ok"
	StatusDenied      = "denied"
	StatusUnavailable = "unavailable"
)

// Envelope is the complete output of one collector invocation.
type Envelope struct {
	SchemaVersion int                       `json:"schema_version"`
	Area          string                    `json:"area"`
	Resources     map[string]ResourceOutput `json:"resources"`
}

// ResourceOutput is the collector's report for one sub-resource.
type ResourceOutput struct {
	Status string          `json:"status"`
	Reason string          `json:"reason,omitempty"`
	Detail string          `json:"detail,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// DecodeEnvelope reads and validates one envelope from r.
func DecodeEnvelope(r io.Reader) (*Envelope, error) {
	var env Envelope
	dec := json.NewDecoder(r)
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if env.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("unsupported envelope schema version %d (want %d)", env.SchemaVersion, SchemaVersion)
	}
	if env.Resources == nil {
		return nil, fmt.Errorf("envelope has no resources map")
	}
	return &env, nil
}
