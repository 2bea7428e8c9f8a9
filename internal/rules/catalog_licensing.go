package rules

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/tenantready/internal/collector"
	"github.com/felixgeelhaar/tenantready/internal/domain"
)

// friendlySKUNames maps the wire part numbers of common suites to the
// names admins see in the admin center.
var friendlySKUNames = map[string]string{
	"SPE_E3":                "Microsoft 365 E3",
	"SPE_E5":                "Microsoft 365 E5",
	"ENTERPRISEPACK":        "Office 365 E3",
	"ENTERPRISEPREMIUM":     "Office 365 E5",
	"SPB":                   "Microsoft 365 Business Premium",
	"Microsoft_365_Copilot": "Microsoft 365 Copilot",
}

func friendlySKU(partNumber string) string {
	if name, ok := friendlySKUNames[partNumber]; ok {
		return name
	}
	return partNumber
}

// eligibleSuites are the base suites that satisfy the Copilot licensing
// prerequisite.
var eligibleSuites = []string{"SPE_E3", "SPE_E5", "ENTERPRISEPACK", "ENTERPRISEPREMIUM", "SPB"}

func licensingRules() []Rule {
	return []Rule{
		{
			ID:       "licensing/base-suite",
			Area:     domain.AreaLicensing,
			Feature:  "Eligible Base License",
			Priority: domain.PriorityHigh,
			Needs:    []domain.ResourceKey{collector.KeySubscribedSKUs},
			LinkText: "Copilot licensing requirements",
			LinkURL:  "https://learn.microsoft.com/copilot/microsoft-365/microsoft-365-copilot-requirements",
			Evaluate: func(ev Evidence) Outcome {
				inv := mustPayload[domain.LicenseInventory](ev, collector.KeySubscribedSKUs)
				var found []string
				for _, sku := range inv.SKUs {
					for _, suite := range eligibleSuites {
						if sku.PartNumber == suite {
							found = append(found, friendlySKU(sku.PartNumber))
						}
					}
				}
				if len(found) == 0 {
					return NotConfigured(
						"No eligible base suite was found among the tenant's subscribed licenses.",
						"Purchase an eligible base suite such as Microsoft 365 E3 or E5 before assigning Copilot licenses.")
				}
				return Compliant(fmt.Sprintf("Eligible base suite present: %s.", strings.Join(found, ", ")))
			},
		},
		{
			ID:       "licensing/copilot-seats",
			Area:     domain.AreaLicensing,
			Feature:  "Copilot Seat Assignment",
			Priority: domain.PriorityMedium,
			Needs:    []domain.ResourceKey{collector.KeyCopilotSeats},
			LinkText: "Assign Copilot licenses",
			LinkURL:  "https://learn.microsoft.com/copilot/microsoft-365/microsoft-365-copilot-setup",
			Evaluate: func(ev Evidence) Outcome {
				seats := mustPayload[domain.SeatAssignment](ev, collector.KeyCopilotSeats)
				switch {
				case seats.Total == 0:
					return NotConfigured(
						"No Copilot seats are provisioned in this tenant.",
						"Purchase Copilot licenses for the users in the rollout group.")
				case seats.Assigned == 0:
					return Warn(
						fmt.Sprintf("%d Copilot seats are provisioned but none are assigned.", seats.Total),
						"Assign the purchased seats to the pilot users so adoption can start.")
				default:
					return Compliant(fmt.Sprintf("%d of %d Copilot seats are assigned.", seats.Assigned, seats.Total))
				}
			},
		},
		{
			ID:       "licensing/identity-protection-plan",
			Area:     domain.AreaLicensing,
			Feature:  "Identity Protection Licensing",
			Priority: domain.PriorityMedium,
			Needs:    []domain.ResourceKey{collector.KeySubscribedSKUs},
			LinkText: "Microsoft Entra plans",
			LinkURL:  "https://learn.microsoft.com/entra/fundamentals/licensing",
			Evaluate: func(ev Evidence) Outcome {
				inv := mustPayload[domain.LicenseInventory](ev, collector.KeySubscribedSKUs)
				switch {
				case inv.HasPlan("AAD_PREMIUM_P2"):
					return Compliant("Entra ID P2 is licensed, risk-based policies are available.")
				case inv.HasPlan("AAD_PREMIUM"):
					return Warn(
						"Entra ID P1 is licensed but P2 is not; risk-based conditional access is unavailable.",
						"Consider Entra ID P2 to enable risk-based access policies before broad Copilot rollout.")
				default:
					return NotConfigured(
						"No Entra ID premium plan was found in the subscribed licenses.",
						"License Entra ID P1 or P2 so conditional access can protect Copilot-enabled accounts.")
				}
			},
		},
		{
			ID:       "licensing/utilization",
			Area:     domain.AreaLicensing,
			Feature:  "License Utilization",
			Priority: domain.PriorityLow,
			Needs:    []domain.ResourceKey{collector.KeySubscribedSKUs},
			LinkText: "Manage licenses",
			LinkURL:  "https://learn.microsoft.com/microsoft-365/admin/manage/assign-licenses-to-users",
			Evaluate: func(ev Evidence) Outcome {
				inv := mustPayload[domain.LicenseInventory](ev, collector.KeySubscribedSKUs)
				consumed, prepaid := 0, 0
				for _, sku := range inv.SKUs {
					consumed += sku.ConsumedUnits
					prepaid += sku.PrepaidUnits
				}
				return Info(fmt.Sprintf("%d of %d purchased license units are assigned across %d SKUs.",
					consumed, prepaid, len(inv.SKUs)))
			},
		},
	}
}

// mustPayload fetches a typed payload for a key the rule declared in
// Needs. The engine guarantees availability before calling Evaluate, so a
// miss here is a catalog bug.
func mustPayload[T domain.Payload](ev Evidence, key domain.ResourceKey) T {
	p, ok := ev.Payload(key)
	if !ok {
		panic(fmt.Sprintf("rule evaluated without its declared need %q", key))
	}
	return p.(T)
}
