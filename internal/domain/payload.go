package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PayloadKind tags the concrete payload type carried by a collection result.
// Every sub-resource declares the kind it produces; the collector boundary
// rejects anything else so the rule engine only ever sees typed payloads.
type PayloadKind string

const (
	KindLicenseInventory PayloadKind = "license-inventory"
	KindSeatAssignment   PayloadKind = "seat-assignment"
	KindPolicySet        PayloadKind = "policy-set"
	KindLabelSet         PayloadKind = "label-set"
	KindRiskReport       PayloadKind = "risk-report"
	KindRoleReport       PayloadKind = "role-report"
	KindRegistration     PayloadKind = "registration-report"
	KindScore            PayloadKind = "score-report"
	KindActivation       PayloadKind = "activation-state"
	KindDeviceReport     PayloadKind = "device-report"
	KindAuditState       PayloadKind = "audit-state"
	KindCaseList         PayloadKind = "case-list"
	KindEnvironmentList  PayloadKind = "environment-list"
	KindAgentInventory   PayloadKind = "agent-inventory"
	KindCapacity         PayloadKind = "capacity-report"
)

// Payload is the typed content of a successfully collected sub-resource.
type Payload interface {
	// Kind returns the payload's schema tag.
	Kind() PayloadKind

	// Len returns the number of items the payload carries, used for the
	// item count surfaced on the collection result.
	Len() int
}

// ServicePlan is one plan inside a subscription SKU.
type ServicePlan struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// SKU is one subscribed license SKU with its service plans.
type SKU struct {
	PartNumber    string        `json:"part_number"`
	ConsumedUnits int           `json:"consumed_units"`
	PrepaidUnits  int           `json:"prepaid_units"`
	ServicePlans  []ServicePlan `json:"service_plans"`
}

// LicenseInventory lists the tenant's subscribed SKUs.
type LicenseInventory struct {
	SKUs []SKU `json:"skus"`
}

func (LicenseInventory) Kind() PayloadKind { return KindLicenseInventory }
func (p LicenseInventory) Len() int        { return len(p.SKUs) }

// PlansMatching returns every service plan whose name contains one of the
// given fragments, across all SKUs, deduplicated by plan name.
func (p LicenseInventory) PlansMatching(fragments ...string) []ServicePlan {
	seen := make(map[string]bool)
	var plans []ServicePlan
	for _, sku := range p.SKUs {
		for _, plan := range sku.ServicePlans {
			if seen[plan.Name] {
				continue
			}
			for _, fragment := range fragments {
				if strings.Contains(strings.ToUpper(plan.Name), strings.ToUpper(fragment)) {
					seen[plan.Name] = true
					plans = append(plans, plan)
					break
				}
			}
		}
	}
	return plans
}

// HasPlan reports whether any SKU carries the named service plan.
func (p LicenseInventory) HasPlan(name string) bool {
	for _, sku := range p.SKUs {
		for _, plan := range sku.ServicePlans {
			if plan.Name == name {
				return true
			}
		}
	}
	return false
}

// SeatAssignment reports seat coverage for a licensed capability.
type SeatAssignment struct {
	Product  string `json:"product"`
	Total    int    `json:"total"`
	Assigned int    `json:"assigned"`
}

func (SeatAssignment) Kind() PayloadKind { return KindSeatAssignment }
func (p SeatAssignment) Len() int        { return p.Total }

// Policy is one named on/off policy (conditional access, DLP, retention,
// connector governance). Scope carries an adapter-specific qualifier such
// as "endpoint" for device-scoped DLP policies.
type Policy struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Scope   string `json:"scope,omitempty"`
}

// PolicySet is a collection of policies of one kind.
type PolicySet struct {
	Policies []Policy `json:"policies"`
}

func (PolicySet) Kind() PayloadKind { return KindPolicySet }
func (p PolicySet) Len() int        { return len(p.Policies) }

// EnabledCount returns how many policies in the set are enabled.
func (p PolicySet) EnabledCount() int {
	n := 0
	for _, pol := range p.Policies {
		if pol.Enabled {
			n++
		}
	}
	return n
}

// ScopedCount returns how many policies carry the given scope qualifier.
func (p PolicySet) ScopedCount(scope string) int {
	n := 0
	for _, pol := range p.Policies {
		if pol.Scope == scope {
			n++
		}
	}
	return n
}

// Label is one classification label and whether it is published to users.
type Label struct {
	Name      string `json:"name"`
	Published bool   `json:"published"`
}

// LabelSet is a collection of sensitivity or retention labels.
type LabelSet struct {
	Labels []Label `json:"labels"`
}

func (LabelSet) Kind() PayloadKind { return KindLabelSet }
func (p LabelSet) Len() int        { return len(p.Labels) }

// PublishedCount returns how many labels are published.
func (p LabelSet) PublishedCount() int {
	n := 0
	for _, l := range p.Labels {
		if l.Published {
			n++
		}
	}
	return n
}

// RiskReport summarizes users flagged by identity protection.
type RiskReport struct {
	HighRisk   int `json:"high_risk"`
	MediumRisk int `json:"medium_risk"`
	LowRisk    int `json:"low_risk"`
}

func (RiskReport) Kind() PayloadKind { return KindRiskReport }
func (p RiskReport) Len() int        { return p.HighRisk + p.MediumRisk + p.LowRisk }

// RoleReport summarizes privileged role assignments: how many are held
// permanently versus eligible for just-in-time activation.
type RoleReport struct {
	Permanent int `json:"permanent"`
	Eligible  int `json:"eligible"`
}

func (RoleReport) Kind() PayloadKind { return KindRoleReport }
func (p RoleReport) Len() int        { return p.Permanent + p.Eligible }

// RegistrationReport summarizes strong-auth registration coverage.
type RegistrationReport struct {
	Total      int `json:"total"`
	Capable    int `json:"capable"`
	Registered int `json:"registered"`
}

func (RegistrationReport) Kind() PayloadKind { return KindRegistration }
func (p RegistrationReport) Len() int        { return p.Total }

// ScoreReport carries the tenant's secure score.
type ScoreReport struct {
	Current float64 `json:"current"`
	Max     float64 `json:"max"`
}

func (ScoreReport) Kind() PayloadKind { return KindScore }
func (ScoreReport) Len() int          { return 1 }

// Percent returns the score as a 0–100 percentage, 0 when Max is 0.
func (p ScoreReport) Percent() float64 {
	if p.Max <= 0 {
		return 0
	}
	return p.Current / p.Max * 100
}

// ActivationState reports whether a platform capability has been switched
// on. Message carries the backend's own explanation when it has not.
type ActivationState struct {
	Activated bool   `json:"activated"`
	Message   string `json:"message,omitempty"`
}

func (ActivationState) Kind() PayloadKind { return KindActivation }
func (ActivationState) Len() int          { return 1 }

// DeviceReport summarizes endpoint onboarding into the security platform.
type DeviceReport struct {
	Total     int `json:"total"`
	Onboarded int `json:"onboarded"`
}

func (DeviceReport) Kind() PayloadKind { return KindDeviceReport }
func (p DeviceReport) Len() int        { return p.Total }

// AuditState reports whether unified audit logging is enabled.
type AuditState struct {
	Enabled bool `json:"enabled"`
}

func (AuditState) Kind() PayloadKind { return KindAuditState }
func (AuditState) Len() int          { return 1 }

// CaseList counts open cases of one kind (eDiscovery, insider risk).
type CaseList struct {
	Open   int `json:"open"`
	Closed int `json:"closed"`
}

func (CaseList) Kind() PayloadKind { return KindCaseList }
func (p CaseList) Len() int        { return p.Open + p.Closed }

// Environment is one low-code platform environment.
type Environment struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Managed bool   `json:"managed"`
}

// EnvironmentList lists the tenant's platform environments.
type EnvironmentList struct {
	Environments []Environment `json:"environments"`
}

func (EnvironmentList) Kind() PayloadKind { return KindEnvironmentList }
func (p EnvironmentList) Len() int        { return len(p.Environments) }

// ManagedCount returns how many environments are managed.
func (p EnvironmentList) ManagedCount() int {
	n := 0
	for _, e := range p.Environments {
		if e.Managed {
			n++
		}
	}
	return n
}

// Agent is one authored agent on the agent platform.
type Agent struct {
	Name      string `json:"name"`
	Published bool   `json:"published"`
	Shared    bool   `json:"shared"`
}

// AgentInventory lists agents authored in the tenant.
type AgentInventory struct {
	Agents []Agent `json:"agents"`
}

func (AgentInventory) Kind() PayloadKind { return KindAgentInventory }
func (p AgentInventory) Len() int        { return len(p.Agents) }

// PublishedCount returns how many agents are published.
func (p AgentInventory) PublishedCount() int {
	n := 0
	for _, a := range p.Agents {
		if a.Published {
			n++
		}
	}
	return n
}

// Capacity reports message capacity consumption for the agent platform.
type Capacity struct {
	IncludedMessages int64 `json:"included_messages"`
	UsedMessages     int64 `json:"used_messages"`
}

func (Capacity) Kind() PayloadKind { return KindCapacity }
func (Capacity) Len() int          { return 1 }

// DecodePayload decodes raw JSON into the concrete payload type for the
// given kind. Collector adapters use this at the process boundary so that
// only validated, typed payloads enter a snapshot. Payloads are returned
// as values, never pointers.
func DecodePayload(kind PayloadKind, raw json.RawMessage) (Payload, error) {
	switch kind {
	case KindLicenseInventory:
		return decodeAs[LicenseInventory](kind, raw)
	case KindSeatAssignment:
		return decodeAs[SeatAssignment](kind, raw)
	case KindPolicySet:
		return decodeAs[PolicySet](kind, raw)
	case KindLabelSet:
		return decodeAs[LabelSet](kind, raw)
	case KindRiskReport:
		return decodeAs[RiskReport](kind, raw)
	case KindRoleReport:
		return decodeAs[RoleReport](kind, raw)
	case KindRegistration:
		return decodeAs[RegistrationReport](kind, raw)
	case KindScore:
		return decodeAs[ScoreReport](kind, raw)
	case KindActivation:
		return decodeAs[ActivationState](kind, raw)
	case KindDeviceReport:
		return decodeAs[DeviceReport](kind, raw)
	case KindAuditState:
		return decodeAs[AuditState](kind, raw)
	case KindCaseList:
		return decodeAs[CaseList](kind, raw)
	case KindEnvironmentList:
		return decodeAs[EnvironmentList](kind, raw)
	case KindAgentInventory:
		return decodeAs[AgentInventory](kind, raw)
	case KindCapacity:
		return decodeAs[Capacity](kind, raw)
	default:
		return nil, fmt.Errorf("unknown payload kind: %q", kind)
	}
}

func decodeAs[T Payload](kind PayloadKind, raw json.RawMessage) (Payload, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", kind, err)
	}
	return v, nil
}
