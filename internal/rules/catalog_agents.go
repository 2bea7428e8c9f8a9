package rules

import (
	"fmt"

	"github.com/felixgeelhaar/tenantready/internal/collector"
	"github.com/felixgeelhaar/tenantready/internal/domain"
)

func agentsRules() []Rule {
	return []Rule{
		{
			ID:       "agents/platform-access",
			Area:     domain.AreaAgents,
			Feature:  "Agent Platform Access",
			Priority: domain.PriorityHigh,
			LinkText: "Copilot Studio security",
			LinkURL:  "https://learn.microsoft.com/microsoft-copilot-studio/security-and-governance",
			Evaluate: func(ev Evidence) Outcome {
				if reason, skipped := ev.Unassessed(); skipped {
					return PendingInput(
						fmt.Sprintf("The agents area was not assessed: %s.", reason),
						"Re-run the assessment and complete the interactive sign-in with a platform admin account.")
				}
				return Info("Delegated access to the agent platform APIs was verified for this run.")
			},
		},
		{
			ID:       "agents/inventory",
			Area:     domain.AreaAgents,
			Feature:  "Agent Inventory",
			Priority: domain.PriorityLow,
			Needs:    []domain.ResourceKey{collector.KeyAgentInventory},
			LinkText: "Manage agents",
			LinkURL:  "https://learn.microsoft.com/microsoft-copilot-studio/admin-overview",
			Evaluate: func(ev Evidence) Outcome {
				agents := mustPayload[domain.AgentInventory](ev, collector.KeyAgentInventory)
				if agents.Len() == 0 {
					return Info("No custom agents exist in the tenant yet.")
				}
				return Compliant(fmt.Sprintf("%d custom agents exist, %d of them published.",
					agents.Len(), agents.PublishedCount()))
			},
		},
		{
			ID:       "agents/message-capacity",
			Area:     domain.AreaAgents,
			Feature:  "Message Capacity",
			Priority: domain.PriorityMedium,
			Needs:    []domain.ResourceKey{collector.KeyMessageCapacity},
			LinkText: "Copilot Studio capacity",
			LinkURL:  "https://learn.microsoft.com/microsoft-copilot-studio/requirements-messages-management",
			Evaluate: func(ev Evidence) Outcome {
				capacity := mustPayload[domain.Capacity](ev, collector.KeyMessageCapacity)
				switch {
				case capacity.IncludedMessages == 0:
					return NotConfigured(
						"No agent message capacity is provisioned.",
						"Provision message capacity before publishing agents to users.")
				case capacity.UsedMessages*5 >= capacity.IncludedMessages*4:
					return Warn(
						fmt.Sprintf("Message capacity is %d%% consumed.",
							100*capacity.UsedMessages/capacity.IncludedMessages),
						"Add message capacity before usage hits the cap and agents stop responding.")
				default:
					return Compliant(fmt.Sprintf("%d of %d included messages consumed.",
						capacity.UsedMessages, capacity.IncludedMessages))
				}
			},
		},
	}
}
