package rules

import (
	"fmt"

	"github.com/felixgeelhaar/tenantready/internal/collector"
	"github.com/felixgeelhaar/tenantready/internal/domain"
)

func securityRules() []Rule {
	return []Rule{
		{
			// Gap rule: inspects the raw result so a never-activated
			// analytics platform surfaces as an actionable manual step
			// instead of a cannot-determine record.
			ID:       "security/platform-activation",
			Area:     domain.AreaSecurity,
			Feature:  "Security Platform Activation",
			Priority: domain.PriorityHigh,
			LinkText: "Activate the unified security platform",
			LinkURL:  "https://learn.microsoft.com/defender-xdr/m365d-enable",
			Evaluate: func(ev Evidence) Outcome {
				result, ok := ev.Result(collector.KeySecurityAnalytics)
				if !ok {
					return NotConfigured(
						"The security analytics workspace state was not collected.",
						"Re-run the assessment with the security area enabled.")
				}
				switch {
				case result.OK():
					state := result.Payload.(domain.ActivationState)
					if state.Activated {
						return Compliant("The unified security analytics platform is activated.")
					}
					return PendingInput(
						"The security analytics platform exists but has never been activated.",
						"Open the security portal once as a global admin to complete the one-time activation, then re-run the assessment.")
				case result.State == domain.StateUnavailable && result.Reason == domain.ReasonNotActivated:
					return PendingInput(
						"The security analytics workspace has never been activated, so its APIs return no data.",
						"Open the security portal once as a global admin to complete the one-time activation, then re-run the assessment.")
				case result.State == domain.StatePermissionDenied:
					return NotConfigured(
						"Access to the security analytics workspace was denied.",
						"Grant the assessment app the security read role and re-run.")
				default:
					return NotConfigured(
						fmt.Sprintf("The security analytics workspace could not be read (%s).", result.Reason),
						"Resolve the collection failure and re-run the assessment.")
				}
			},
		},
		{
			ID:       "security/secure-score",
			Area:     domain.AreaSecurity,
			Feature:  "Security Posture Score",
			Priority: domain.PriorityMedium,
			Needs:    []domain.ResourceKey{collector.KeySecureScore},
			LinkText: "Improve your secure score",
			LinkURL:  "https://learn.microsoft.com/defender-xdr/microsoft-secure-score-improvement-actions",
			Evaluate: func(ev Evidence) Outcome {
				score := mustPayload[domain.ScoreReport](ev, collector.KeySecureScore)
				pct := score.Percent()
				switch {
				case pct >= 70:
					return Compliant(fmt.Sprintf("Secure score is %.0f%% of the achievable maximum.", pct))
				case pct >= 40:
					return Warn(
						fmt.Sprintf("Secure score is %.0f%% of the achievable maximum.", pct),
						"Work through the top improvement actions to harden the tenant before rollout.")
				default:
					return NotConfigured(
						fmt.Sprintf("Secure score is only %.0f%% of the achievable maximum.", pct),
						"Prioritize the recommended security improvement actions; the tenant is weakly configured.")
				}
			},
		},
		{
			ID:       "security/device-onboarding",
			Area:     domain.AreaSecurity,
			Feature:  "Endpoint Onboarding",
			Priority: domain.PriorityMedium,
			Needs:    []domain.ResourceKey{collector.KeyDeviceOnboarding},
			LinkText: "Onboard devices",
			LinkURL:  "https://learn.microsoft.com/defender-endpoint/onboarding",
			Evaluate: func(ev Evidence) Outcome {
				devices := mustPayload[domain.DeviceReport](ev, collector.KeyDeviceOnboarding)
				if devices.Total == 0 {
					return NotConfigured(
						"No devices are enrolled for endpoint protection.",
						"Onboard managed devices so endpoint signals feed the security platform.")
				}
				pct := 100 * devices.Onboarded / devices.Total
				if pct >= 80 {
					return Compliant(fmt.Sprintf("%d%% of known devices are onboarded to endpoint protection.", pct))
				}
				return Warn(
					fmt.Sprintf("Only %d%% of known devices are onboarded to endpoint protection.", pct),
					"Onboard the remaining devices before expanding Copilot access to them.")
			},
		},
	}
}
