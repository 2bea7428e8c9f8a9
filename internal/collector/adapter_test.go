package collector

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tenantready/internal/auth"
	"github.com/felixgeelhaar/tenantready/internal/domain"
)

type stubFetcher struct {
	env *Envelope
	err error
}

func (s *stubFetcher) Fetch(context.Context, *auth.Credential) (*Envelope, error) {
	return s.env, s.err
}

func envelopeFor(area string, resources map[string]ResourceOutput) *Envelope {
	return &Envelope{SchemaVersion: SchemaVersion, Area: area, Resources: resources}
}

func TestAdapterCollectTyped(t *testing.T) {
	fetcher := &stubFetcher{env: envelopeFor("licensing", map[string]ResourceOutput{
		"subscribed-skus": {
			Status: StatusOK,
			Data: json.RawMessage(`{"skus":[
				{"part_number":"SPE_E5","consumed_units":90,"prepaid_units":100,
				 "service_plans":[{"name":"AAD_PREMIUM_P2","status":"Success"}]}
			]}`),
		},
		"copilot-seats": {
			Status: StatusOK,
			Data:   json.RawMessage(`{"product":"Copilot","total":50,"assigned":12}`),
		},
	})}

	adapter := NewLicensingAdapter(fetcher)
	results, err := adapter.Collect(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	skus := results[KeySubscribedSKUs]
	require.True(t, skus.OK())
	inv, ok := skus.Payload.(domain.LicenseInventory)
	require.True(t, ok)
	assert.Equal(t, "SPE_E5", inv.SKUs[0].PartNumber)
	assert.Equal(t, 1, skus.Count)

	seats := results[KeyCopilotSeats]
	require.True(t, seats.OK())
	assert.Equal(t, 50, seats.Count)
}

func TestAdapterDeniedAndUnavailable(t *testing.T) {
	fetcher := &stubFetcher{env: envelopeFor("security", map[string]ResourceOutput{
		"security-analytics": {Status: StatusUnavailable, Reason: "not-activated", Detail: "workspace never activated"},
		"secure-score":       {Status: StatusDenied, Detail: "403 from score API"},
		"device-onboarding":  {Status: StatusOK, Data: json.RawMessage(`{"total":200,"onboarded":150}`)},
	})}

	adapter := NewSecurityAdapter(fetcher)
	results, err := adapter.Collect(context.Background(), nil)
	require.NoError(t, err)

	analytics := results[KeySecurityAnalytics]
	assert.Equal(t, domain.StateUnavailable, analytics.State)
	assert.Equal(t, domain.ReasonNotActivated, analytics.Reason)

	score := results[KeySecureScore]
	assert.Equal(t, domain.StatePermissionDenied, score.State)
	assert.Equal(t, domain.ReasonForbidden, score.Reason)
	assert.Contains(t, score.Detail, "403")

	assert.True(t, results[KeyDeviceOnboarding].OK())
}

func TestAdapterMissingResourceIsUnavailable(t *testing.T) {
	// Envelope carries only conditional access; every other declared key
	// must still get exactly one result.
	fetcher := &stubFetcher{env: envelopeFor("identity", map[string]ResourceOutput{
		"conditional-access-policies": {Status: StatusOK, Data: json.RawMessage(`{"policies":[]}`)},
	})}

	adapter := NewIdentityAdapter(fetcher)
	results, err := adapter.Collect(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, domain.StateUnavailable, results[KeyRiskyUsers].State)
	assert.Equal(t, domain.ReasonCollectorFailed, results[KeyRiskyUsers].Reason)
	assert.Equal(t, domain.StateUnavailable, results[KeyMFARegistration].State)
}

func TestAdapterMalformedPayloadIsPerResource(t *testing.T) {
	fetcher := &stubFetcher{env: envelopeFor("compliance", map[string]ResourceOutput{
		"dlp-policies":       {Status: StatusOK, Data: json.RawMessage(`"not an object"`)},
		"sensitivity-labels": {Status: StatusOK, Data: json.RawMessage(`{"labels":[{"name":"Confidential","published":true}]}`)},
		"retention-policies": {Status: StatusOK, Data: json.RawMessage(`{"policies":[]}`)},
		"audit-log":          {Status: StatusOK, Data: json.RawMessage(`{"enabled":true}`)},
		"ediscovery-cases":   {Status: StatusOK, Data: json.RawMessage(`{"open":2,"closed":5}`)},
	})}

	adapter := NewComplianceAdapter(fetcher)
	results, err := adapter.Collect(context.Background(), nil)
	require.NoError(t, err)

	dlp := results[KeyDLPPolicies]
	assert.Equal(t, domain.StateUnavailable, dlp.State)
	assert.Equal(t, domain.ReasonMalformed, dlp.Reason)

	// A malformed sibling never poisons the rest of the envelope.
	assert.True(t, results[KeySensitivityLabels].OK())
	assert.True(t, results[KeyAuditLog].OK())
}

func TestAdapterRejectsWrongArea(t *testing.T) {
	fetcher := &stubFetcher{env: envelopeFor("identity", map[string]ResourceOutput{})}

	adapter := NewLicensingAdapter(fetcher)
	_, err := adapter.Collect(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "identity")
}

func TestAdapterUnknownStatus(t *testing.T) {
	fetcher := &stubFetcher{env: envelopeFor("governance", map[string]ResourceOutput{
		"environments":       {Status: "partial"},
		"connector-policies": {Status: StatusOK, Data: json.RawMessage(`{"policies":[]}`)},
	})}

	adapter := NewGovernanceAdapter(fetcher)
	results, err := adapter.Collect(context.Background(), nil)
	require.NoError(t, err)

	envs := results[KeyEnvironments]
	assert.Equal(t, domain.StateUnavailable, envs.State)
	assert.Equal(t, domain.ReasonMalformed, envs.Reason)
}

func TestDecodeEnvelopeVersionCheck(t *testing.T) {
	_, err := DecodeEnvelope(strings.NewReader(`{"schema_version":2,"area":"licensing","resources":{}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema version")

	_, err = DecodeEnvelope(strings.NewReader(`{"schema_version":1,"area":"licensing"}`))
	require.Error(t, err)

	env, err := DecodeEnvelope(strings.NewReader(`{"schema_version":1,"area":"licensing","resources":{}}`))
	require.NoError(t, err)
	assert.Equal(t, "licensing", env.Area)
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(NewAgentsAdapter(&stubFetcher{})))
	require.NoError(t, registry.Register(NewLicensingAdapter(&stubFetcher{})))

	err := registry.Register(NewLicensingAdapter(&stubFetcher{}))
	require.Error(t, err)

	_, ok := registry.For(domain.AreaIdentity)
	assert.False(t, ok)

	adapter, ok := registry.For(domain.AreaAgents)
	require.True(t, ok)
	assert.Equal(t, domain.AreaAgents, adapter.Area())

	// Canonical order regardless of registration order.
	assert.Equal(t, []domain.Area{domain.AreaLicensing, domain.AreaAgents}, registry.Areas())
}

func TestFileFetcher(t *testing.T) {
	input := `{"schema_version":1,"area":"agents","resources":{
		"agent-inventory":{"status":"ok","data":{"agents":[]}},
		"message-capacity":{"status":"unavailable","reason":"not-provisioned"}
	}}`

	fetcher := NewFileFetcher("-", strings.NewReader(input))
	env, err := fetcher.Fetch(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "agents", env.Area)

	adapter := NewAgentsAdapter(&stubFetcher{env: env})
	results, err := adapter.Collect(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, results[KeyAgentInventory].OK())
	assert.Equal(t, domain.ReasonNotProvisioned, results[KeyMessageCapacity].Reason)
}
