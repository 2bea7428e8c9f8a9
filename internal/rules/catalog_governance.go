package rules

import (
	"fmt"

	"github.com/felixgeelhaar/tenantready/internal/collector"
	"github.com/felixgeelhaar/tenantready/internal/domain"
)

func governanceRules() []Rule {
	return []Rule{
		{
			ID:       "governance/platform-access",
			Area:     domain.AreaGovernance,
			Feature:  "Platform Governance Access",
			Priority: domain.PriorityHigh,
			LinkText: "Power Platform admin roles",
			LinkURL:  "https://learn.microsoft.com/power-platform/admin/use-service-admin-role-manage-tenant",
			Evaluate: func(ev Evidence) Outcome {
				if reason, skipped := ev.Unassessed(); skipped {
					return PendingInput(
						fmt.Sprintf("The governance area was not assessed: %s.", reason),
						"Re-run the assessment and complete the interactive sign-in with a platform admin account.")
				}
				return Info("Delegated access to the platform admin APIs was verified for this run.")
			},
		},
		{
			ID:       "governance/managed-environments",
			Area:     domain.AreaGovernance,
			Feature:  "Managed Environments",
			Priority: domain.PriorityMedium,
			Needs:    []domain.ResourceKey{collector.KeyEnvironments},
			LinkText: "Managed Environments overview",
			LinkURL:  "https://learn.microsoft.com/power-platform/admin/managed-environment-overview",
			Evaluate: func(ev Evidence) Outcome {
				envs := mustPayload[domain.EnvironmentList](ev, collector.KeyEnvironments)
				switch {
				case envs.Len() == 0:
					return NotConfigured(
						"No low-code platform environments exist.",
						"Create at least a dedicated environment for agent development instead of using the default one.")
				case envs.ManagedCount() == 0:
					return Warn(
						fmt.Sprintf("None of the %d environments are managed.", envs.Len()),
						"Enable Managed Environments on the environments that will host agents.")
				default:
					return Compliant(fmt.Sprintf("%d of %d environments are managed.",
						envs.ManagedCount(), envs.Len()))
				}
			},
		},
		{
			ID:       "governance/connector-policies",
			Area:     domain.AreaGovernance,
			Feature:  "Connector Data Policies",
			Priority: domain.PriorityHigh,
			Needs:    []domain.ResourceKey{collector.KeyConnectorPolicies},
			LinkText: "Data policies for connectors",
			LinkURL:  "https://learn.microsoft.com/power-platform/admin/wp-data-loss-prevention",
			Evaluate: func(ev Evidence) Outcome {
				policies := mustPayload[domain.PolicySet](ev, collector.KeyConnectorPolicies)
				switch {
				case policies.Len() == 0:
					return NotConfigured(
						"No connector data policies exist, every connector can reach every environment.",
						"Create a tenant-wide connector policy separating business and non-business connectors.")
				case policies.EnabledCount() == 0:
					return Warn(
						fmt.Sprintf("%d connector data policies exist but none are enabled.", policies.Len()),
						"Enable the connector policies so data boundaries are actually enforced.")
				default:
					return Compliant(fmt.Sprintf("%d of %d connector data policies are enabled.",
						policies.EnabledCount(), policies.Len()))
				}
			},
		},
	}
}
