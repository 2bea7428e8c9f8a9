package rules

import (
	"fmt"

	"github.com/felixgeelhaar/tenantready/internal/collector"
	"github.com/felixgeelhaar/tenantready/internal/domain"
)

func identityRules() []Rule {
	return []Rule{
		{
			ID:       "identity/conditional-access",
			Area:     domain.AreaIdentity,
			Feature:  "Conditional Access Policies",
			Priority: domain.PriorityHigh,
			Needs:    []domain.ResourceKey{collector.KeyConditionalAccess},
			LinkText: "Plan conditional access",
			LinkURL:  "https://learn.microsoft.com/entra/identity/conditional-access/plan-conditional-access",
			Evaluate: func(ev Evidence) Outcome {
				policies := mustPayload[domain.PolicySet](ev, collector.KeyConditionalAccess)
				switch {
				case policies.Len() == 0:
					return NotConfigured(
						"The tenant has no conditional access policies.",
						"Create baseline conditional access policies requiring MFA before enabling Copilot.")
				case policies.EnabledCount() == 0:
					return Warn(
						fmt.Sprintf("%d conditional access policies exist but none are enabled.", policies.Len()),
						"Enable at least the baseline MFA policy; report-only policies protect nothing.")
				default:
					return Compliant(fmt.Sprintf("%d of %d conditional access policies are enabled.",
						policies.EnabledCount(), policies.Len()))
				}
			},
		},
		{
			ID:       "identity/mfa-registration",
			Area:     domain.AreaIdentity,
			Feature:  "Multifactor Authentication Coverage",
			Priority: domain.PriorityHigh,
			Needs:    []domain.ResourceKey{collector.KeyMFARegistration},
			LinkText: "MFA registration campaign",
			LinkURL:  "https://learn.microsoft.com/entra/identity/authentication/how-to-mfa-registration-campaign",
			Evaluate: func(ev Evidence) Outcome {
				reg := mustPayload[domain.RegistrationReport](ev, collector.KeyMFARegistration)
				if reg.Total == 0 {
					return NotConfigured(
						"No MFA registration data is available for the tenant's users.",
						"Verify the registration report and run an MFA registration campaign.")
				}
				pct := 100 * reg.Registered / reg.Total
				switch {
				case pct >= 95:
					return Compliant(fmt.Sprintf("%d%% of users are registered for MFA.", pct))
				case pct >= 50:
					return Warn(
						fmt.Sprintf("Only %d%% of users are registered for MFA.", pct),
						"Run a registration campaign to close the MFA gap before rollout.")
				default:
					return NotConfigured(
						fmt.Sprintf("MFA registration stands at %d%%, most users are unprotected.", pct),
						"Enforce MFA registration tenant-wide before granting Copilot access.")
				}
			},
		},
		{
			ID:       "identity/risky-users",
			Area:     domain.AreaIdentity,
			Feature:  "User Risk Remediation",
			Priority: domain.PriorityHigh,
			Needs:    []domain.ResourceKey{collector.KeyRiskyUsers},
			LinkText: "Remediate risky users",
			LinkURL:  "https://learn.microsoft.com/entra/id-protection/howto-identity-protection-remediate-unblock",
			Evaluate: func(ev Evidence) Outcome {
				risk := mustPayload[domain.RiskReport](ev, collector.KeyRiskyUsers)
				switch {
				case risk.HighRisk > 0:
					return Warn(
						fmt.Sprintf("%d users are currently flagged as high risk.", risk.HighRisk),
						"Remediate or block the high-risk accounts before they gain Copilot access to tenant data.")
				case risk.MediumRisk > 0:
					return Warn(
						fmt.Sprintf("%d users are flagged at medium risk.", risk.MediumRisk),
						"Review the medium-risk accounts and confirm or dismiss the detections.")
				default:
					return Compliant("No users are currently flagged at elevated risk.")
				}
			},
		},
		{
			ID:       "identity/privileged-roles",
			Area:     domain.AreaIdentity,
			Feature:  "Privileged Role Management",
			Priority: domain.PriorityMedium,
			Needs:    []domain.ResourceKey{collector.KeyPrivilegedRoles},
			LinkText: "Plan a PIM deployment",
			LinkURL:  "https://learn.microsoft.com/entra/id-governance/privileged-identity-management/pim-deployment-plan",
			Evaluate: func(ev Evidence) Outcome {
				roles := mustPayload[domain.RoleReport](ev, collector.KeyPrivilegedRoles)
				switch {
				case roles.Len() == 0:
					return NotConfigured(
						"No privileged role assignments were reported for the tenant.",
						"Verify role assignment data; a tenant always has at least one global administrator.")
				case roles.Permanent > 0 && roles.Eligible == 0:
					return Warn(
						fmt.Sprintf("All %d privileged role assignments are permanent.", roles.Permanent),
						"Convert standing admin access to just-in-time eligible assignments before rollout.")
				case roles.Permanent > roles.Eligible:
					return Warn(
						fmt.Sprintf("%d of %d privileged role assignments are permanent.",
							roles.Permanent, roles.Len()),
						"Reduce standing admin access; most privileged roles should be activation-based.")
				default:
					return Compliant(fmt.Sprintf("%d of %d privileged role assignments are just-in-time eligible.",
						roles.Eligible, roles.Len()))
				}
			},
		},
	}
}
