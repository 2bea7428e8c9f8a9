package collector

import (
	"github.com/felixgeelhaar/tenantready/internal/domain"
)

// Sub-resource keys per service area. Rule definitions reference these
// keys, so they are part of the module's stable surface.
const (
	KeySubscribedSKUs domain.ResourceKey = "subscribed-skus"
	KeyCopilotSeats   domain.ResourceKey = "copilot-seats"

	KeyConditionalAccess domain.ResourceKey = "conditional-access-policies"
	KeyRiskyUsers        domain.ResourceKey = "risky-users"
	KeyMFARegistration   domain.ResourceKey = "mfa-registration"
	KeyPrivilegedRoles   domain.ResourceKey = "privileged-roles"

	KeySecurityAnalytics domain.ResourceKey = "security-analytics"
	KeySecureScore       domain.ResourceKey = "secure-score"
	KeyDeviceOnboarding  domain.ResourceKey = "device-onboarding"

	KeyDLPPolicies         domain.ResourceKey = "dlp-policies"
	KeySensitivityLabels   domain.ResourceKey = "sensitivity-labels"
	KeyRetentionPolicies   domain.ResourceKey = "retention-policies"
	KeyAuditLog            domain.ResourceKey = "audit-log"
	KeyEDiscoveryCases     domain.ResourceKey = "ediscovery-cases"
	KeyInsiderRiskPolicies domain.ResourceKey = "insider-risk-policies"

	KeyEnvironments      domain.ResourceKey = "environments"
	KeyConnectorPolicies domain.ResourceKey = "connector-policies"

	KeyAgentInventory  domain.ResourceKey = "agent-inventory"
	KeyMessageCapacity domain.ResourceKey = "message-capacity"
)

// NewLicensingAdapter collects the tenant's license posture.
func NewLicensingAdapter(fetcher Fetcher) *Adapter {
	return NewAdapter(domain.AreaLicensing, []ResourceSpec{
		{Key: KeySubscribedSKUs, Kind: domain.KindLicenseInventory},
		{Key: KeyCopilotSeats, Kind: domain.KindSeatAssignment},
	}, fetcher)
}

// NewIdentityAdapter collects identity protection state.
func NewIdentityAdapter(fetcher Fetcher) *Adapter {
	return NewAdapter(domain.AreaIdentity, []ResourceSpec{
		{Key: KeyConditionalAccess, Kind: domain.KindPolicySet},
		{Key: KeyRiskyUsers, Kind: domain.KindRiskReport},
		{Key: KeyMFARegistration, Kind: domain.KindRegistration},
		{Key: KeyPrivilegedRoles, Kind: domain.KindRoleReport},
	}, fetcher)
}

// NewSecurityAdapter collects security platform state.
func NewSecurityAdapter(fetcher Fetcher) *Adapter {
	return NewAdapter(domain.AreaSecurity, []ResourceSpec{
		{Key: KeySecurityAnalytics, Kind: domain.KindActivation},
		{Key: KeySecureScore, Kind: domain.KindScore},
		{Key: KeyDeviceOnboarding, Kind: domain.KindDeviceReport},
	}, fetcher)
}

// NewComplianceAdapter collects data protection and records state.
func NewComplianceAdapter(fetcher Fetcher) *Adapter {
	return NewAdapter(domain.AreaCompliance, []ResourceSpec{
		{Key: KeyDLPPolicies, Kind: domain.KindPolicySet},
		{Key: KeySensitivityLabels, Kind: domain.KindLabelSet},
		{Key: KeyRetentionPolicies, Kind: domain.KindPolicySet},
		{Key: KeyAuditLog, Kind: domain.KindAuditState},
		{Key: KeyEDiscoveryCases, Kind: domain.KindCaseList},
		{Key: KeyInsiderRiskPolicies, Kind: domain.KindPolicySet},
	}, fetcher)
}

// NewGovernanceAdapter collects low-code platform governance state.
func NewGovernanceAdapter(fetcher Fetcher) *Adapter {
	return NewAdapter(domain.AreaGovernance, []ResourceSpec{
		{Key: KeyEnvironments, Kind: domain.KindEnvironmentList},
		{Key: KeyConnectorPolicies, Kind: domain.KindPolicySet},
	}, fetcher)
}

// NewAgentsAdapter collects agent platform readiness state.
func NewAgentsAdapter(fetcher Fetcher) *Adapter {
	return NewAdapter(domain.AreaAgents, []ResourceSpec{
		{Key: KeyAgentInventory, Kind: domain.KindAgentInventory},
		{Key: KeyMessageCapacity, Kind: domain.KindCapacity},
	}, fetcher)
}

// DefaultRegistry builds a registry with every area adapter wired to the
// fetchers the caller supplies, one per area.
func DefaultRegistry(fetchers map[domain.Area]Fetcher) (*Registry, error) {
	build := []func(Fetcher) *Adapter{
		NewLicensingAdapter,
		NewIdentityAdapter,
		NewSecurityAdapter,
		NewComplianceAdapter,
		NewGovernanceAdapter,
		NewAgentsAdapter,
	}

	registry := NewRegistry()
	for i, area := range domain.AllAreas() {
		fetcher, ok := fetchers[area]
		if !ok {
			continue
		}
		if err := registry.Register(build[i](fetcher)); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
