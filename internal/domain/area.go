// Package domain defines the shared data model for a readiness assessment
// run: service areas, per-resource collection results, the immutable tenant
// snapshot, and the recommendation record emitted by the rule engine.
package domain

import (
	"fmt"
	"strings"
)

// Area identifies one of the six independent service areas assessed in a run.
// The declaration order below is the canonical ordering used everywhere a
// stable area order is required (aggregation, report ordering).
type Area int

const (
	// AreaLicensing covers subscription SKUs, service plans, and Copilot
	// seat coverage read from the directory API.
	AreaLicensing Area = iota

	// AreaIdentity covers identity configuration: conditional access,
	// MFA registration, risky users, privileged roles.
	AreaIdentity

	// AreaSecurity covers the security platform: analytics backend
	// activation, secure score, device onboarding.
	AreaSecurity

	// AreaCompliance covers the compliance platform: DLP, sensitivity
	// labels, retention, audit, eDiscovery.
	AreaCompliance

	// AreaGovernance covers platform governance: environments and
	// connector policies of the low-code platform.
	AreaGovernance

	// AreaAgents covers the agent platform: agent inventory, sharing
	// controls, and message capacity.
	AreaAgents
)

// AllAreas returns every service area in declaration order.
func AllAreas() []Area {
	return []Area{
		AreaLicensing,
		AreaIdentity,
		AreaSecurity,
		AreaCompliance,
		AreaGovernance,
		AreaAgents,
	}
}

// String returns the short machine name of the area.
func (a Area) String() string {
	switch a {
	case AreaLicensing:
		return "licensing"
	case AreaIdentity:
		return "identity"
	case AreaSecurity:
		return "security"
	case AreaCompliance:
		return "compliance"
	case AreaGovernance:
		return "governance"
	case AreaAgents:
		return "agents"
	default:
		return fmt.Sprintf("area(%d)", int(a))
	}
}

// DisplayName returns the human-readable area name used in reports.
func (a Area) DisplayName() string {
	switch a {
	case AreaLicensing:
		return "Licensing"
	case AreaIdentity:
		return "Identity"
	case AreaSecurity:
		return "Security"
	case AreaCompliance:
		return "Compliance"
	case AreaGovernance:
		return "Platform Governance"
	case AreaAgents:
		return "Agent Platform"
	default:
		return a.String()
	}
}

// Valid reports whether a is one of the declared service areas.
func (a Area) Valid() bool {
	return a >= AreaLicensing && a <= AreaAgents
}

// ParseArea parses a machine or display name into an Area.
// Matching is case-insensitive and tolerates the hyphenated display forms
// used in configuration files ("platform-governance", "agent-platform").
func ParseArea(s string) (Area, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "licensing":
		return AreaLicensing, nil
	case "identity":
		return AreaIdentity, nil
	case "security":
		return AreaSecurity, nil
	case "compliance":
		return AreaCompliance, nil
	case "governance", "platform-governance", "platform governance":
		return AreaGovernance, nil
	case "agents", "agent-platform", "agent platform":
		return AreaAgents, nil
	default:
		return 0, fmt.Errorf("unknown service area: %q", s)
	}
}

// ParseAreas parses a list of area names, preserving canonical declaration
// order and dropping duplicates. An empty input selects all areas.
func ParseAreas(names []string) ([]Area, error) {
	if len(names) == 0 {
		return AllAreas(), nil
	}

	requested := make(map[Area]bool, len(names))
	for _, name := range names {
		area, err := ParseArea(name)
		if err != nil {
			return nil, err
		}
		requested[area] = true
	}

	areas := make([]Area, 0, len(requested))
	for _, area := range AllAreas() {
		if requested[area] {
			areas = append(areas, area)
		}
	}
	return areas, nil
}

// ResourceKey names one sub-resource within a service area
// (e.g. "dlp-policies", "risky-users").
type ResourceKey string

// Ref addresses one collected sub-resource inside a snapshot.
type Ref struct {
	Area     Area
	Resource ResourceKey
}

// String returns "area/resource" for logs and error messages.
func (r Ref) String() string {
	return r.Area.String() + "/" + string(r.Resource)
}
