package rules

import (
	"fmt"

	"github.com/felixgeelhaar/tenantready/internal/collector"
	"github.com/felixgeelhaar/tenantready/internal/domain"
)

func complianceRules() []Rule {
	return []Rule{
		{
			// Gap rule: reports the delegated access state of the whole
			// area so a declined sign-in becomes an actionable record.
			ID:       "compliance/data-access",
			Area:     domain.AreaCompliance,
			Feature:  "Compliance Data Access",
			Priority: domain.PriorityHigh,
			LinkText: "Compliance portal permissions",
			LinkURL:  "https://learn.microsoft.com/purview/purview-permissions",
			Evaluate: func(ev Evidence) Outcome {
				if reason, skipped := ev.Unassessed(); skipped {
					return PendingInput(
						fmt.Sprintf("The compliance area was not assessed: %s.", reason),
						"Re-run the assessment and complete the interactive sign-in with a compliance admin account.")
				}
				return Info("Delegated access to the compliance APIs was verified for this run.")
			},
		},
		{
			ID:       "compliance/dlp",
			Area:     domain.AreaCompliance,
			Feature:  "Data Loss Prevention",
			Priority: domain.PriorityHigh,
			Needs:    []domain.ResourceKey{collector.KeyDLPPolicies},
			LinkText: "Plan for DLP",
			LinkURL:  "https://learn.microsoft.com/purview/dlp-overview-plan-for-dlp",
			Evaluate: func(ev Evidence) Outcome {
				policies := mustPayload[domain.PolicySet](ev, collector.KeyDLPPolicies)
				switch {
				case policies.Len() == 0:
					return NotConfigured(
						"No data loss prevention policies exist.",
						"Create DLP policies for sensitive content before Copilot can surface it broadly.")
				case policies.EnabledCount() < policies.Len():
					return Warn(
						fmt.Sprintf("The tenant has %d DLP policies (%d enabled).",
							policies.Len(), policies.EnabledCount()),
						"Enable the remaining DLP policies; policies in test mode do not block anything.")
				default:
					return Compliant(fmt.Sprintf("All %d DLP policies are enabled.", policies.Len()))
				}
			},
		},
		{
			ID:       "compliance/sensitivity-labels",
			Area:     domain.AreaCompliance,
			Feature:  "Sensitivity Labels",
			Priority: domain.PriorityHigh,
			Needs:    []domain.ResourceKey{collector.KeySensitivityLabels},
			LinkText: "Get started with sensitivity labels",
			LinkURL:  "https://learn.microsoft.com/purview/get-started-with-sensitivity-labels",
			Evaluate: func(ev Evidence) Outcome {
				labels := mustPayload[domain.LabelSet](ev, collector.KeySensitivityLabels)
				switch {
				case labels.Len() == 0:
					return NotConfigured(
						"No sensitivity labels are defined.",
						"Define and publish a label taxonomy so Copilot responses inherit content classification.")
				case labels.PublishedCount() == 0:
					return Warn(
						fmt.Sprintf("%d sensitivity labels exist but none are published.", labels.Len()),
						"Publish the labels to users; unpublished labels classify nothing.")
				default:
					return Compliant(fmt.Sprintf("%d of %d sensitivity labels are published.",
						labels.PublishedCount(), labels.Len()))
				}
			},
		},
		{
			ID:       "compliance/retention",
			Area:     domain.AreaCompliance,
			Feature:  "Retention Policies",
			Priority: domain.PriorityMedium,
			Needs:    []domain.ResourceKey{collector.KeyRetentionPolicies},
			LinkText: "Learn about retention",
			LinkURL:  "https://learn.microsoft.com/purview/retention",
			Evaluate: func(ev Evidence) Outcome {
				policies := mustPayload[domain.PolicySet](ev, collector.KeyRetentionPolicies)
				switch {
				case policies.Len() == 0:
					return NotConfigured(
						"No retention policies exist.",
						"Create retention policies covering Copilot interaction data and core workloads.")
				case policies.EnabledCount() == 0:
					return Warn(
						fmt.Sprintf("%d retention policies exist but none are enabled.", policies.Len()),
						"Enable the retention policies so records obligations are actually met.")
				default:
					return Compliant(fmt.Sprintf("%d of %d retention policies are enabled.",
						policies.EnabledCount(), policies.Len()))
				}
			},
		},
		{
			ID:       "compliance/audit",
			Area:     domain.AreaCompliance,
			Feature:  "Unified Audit Logging",
			Priority: domain.PriorityHigh,
			Needs:    []domain.ResourceKey{collector.KeyAuditLog},
			LinkText: "Turn auditing on or off",
			LinkURL:  "https://learn.microsoft.com/purview/audit-log-enable-disable",
			Evaluate: func(ev Evidence) Outcome {
				audit := mustPayload[domain.AuditState](ev, collector.KeyAuditLog)
				if audit.Enabled {
					return Compliant("Unified audit logging is enabled.")
				}
				return NotConfigured(
					"Unified audit logging is disabled, Copilot interactions will leave no audit trail.",
					"Enable unified audit logging before rollout.")
			},
		},
		{
			ID:       "compliance/ediscovery",
			Area:     domain.AreaCompliance,
			Feature:  "eDiscovery Readiness",
			Priority: domain.PriorityLow,
			Needs:    []domain.ResourceKey{collector.KeyEDiscoveryCases},
			LinkText: "eDiscovery solutions",
			LinkURL:  "https://learn.microsoft.com/purview/ediscovery",
			Evaluate: func(ev Evidence) Outcome {
				cases := mustPayload[domain.CaseList](ev, collector.KeyEDiscoveryCases)
				if cases.Len() == 0 {
					return Warn(
						"eDiscovery has never been exercised in this tenant.",
						"Run a test eDiscovery case so the legal workflow is proven before it is needed.")
				}
				return Compliant(fmt.Sprintf("eDiscovery is in use: %d open and %d closed cases.",
					cases.Open, cases.Closed))
			},
		},
		{
			ID:       "compliance/insider-risk",
			Area:     domain.AreaCompliance,
			Feature:  "Insider Risk Management",
			Priority: domain.PriorityMedium,
			Needs:    []domain.ResourceKey{collector.KeyInsiderRiskPolicies},
			LinkText: "Learn about insider risk management",
			LinkURL:  "https://learn.microsoft.com/purview/insider-risk-management",
			Evaluate: func(ev Evidence) Outcome {
				policies := mustPayload[domain.PolicySet](ev, collector.KeyInsiderRiskPolicies)
				switch {
				case policies.Len() == 0:
					return NotConfigured(
						"No insider risk management policies exist.",
						"Create insider risk policies covering data leaks before Copilot widens data reach.")
				case policies.EnabledCount() == 0:
					return Warn(
						fmt.Sprintf("%d insider risk policies exist but none are enabled.", policies.Len()),
						"Enable the insider risk policies so detections actually run.")
				default:
					return Compliant(fmt.Sprintf("%d of %d insider risk policies are enabled.",
						policies.EnabledCount(), policies.Len()))
				}
			},
		},
	}
}
