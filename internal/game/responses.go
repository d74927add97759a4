package game

import (
	"strings"

	"github.com/aaronzipp/chrono-agents/internal/models"
)

type roleIndex int

const (
	roleIndexHuman roleIndex = iota
	roleIndexSaboteur
	numRoles
)

func indexOfRole(r models.Role) roleIndex {
	if r == models.RoleSaboteur {
		return roleIndexSaboteur
	}
	return roleIndexHuman
}

type phrases [5]string

// responseTable is indexed by role then personality (PersonalityNone is slot 0 and unused)
var responseTable = [numRoles][models.NumPersonalities + 1]phrases{
	roleIndexHuman: {
		models.PersonalityLoyal: {
			"I trust the mission parameters. Let's proceed.",
			"We need to identify the saboteurs quickly.",
			"This team composition looks solid to me.",
			"I'm detecting some inconsistencies in recent behavior patterns.",
			"The mission success rate depends on our team selection.",
		},
		models.PersonalityAnalytical: {
			"Based on previous voting patterns, I calculate a 73% success probability.",
			"The statistical evidence suggests infiltration in our ranks.",
			"My analysis indicates potential deception markers.",
			"Cross-referencing behavioral data with mission outcomes...",
			"The probability matrices don't align with stated intentions.",
		},
		models.PersonalityLogical: {
			"Processing... Team configuration suboptimal.",
			"Error detected in voting consistency protocols.",
			"Analyzing behavioral anomalies... Results inconclusive.",
			"Logic circuits indicate deception probability: High.",
			"Mission parameters suggest optimal team size achieved.",
		},
		models.PersonalityAggressive: {
			"Someone here isn't who they claim to be!",
			"I don't trust this selection at all.",
			"We're being played, and I know it!",
			"This mission is compromised - I can feel it.",
			"Time to expose the infiltrators once and for all!",
		},
	},
	roleIndexSaboteur: {
		models.PersonalityLoyal: {
			"I'm committed to the mission's success, whatever it takes.",
			"We should trust in the team's collective judgment.",
			"Perhaps we're being too paranoid about sabotage.",
			"This looks like a strong team for the mission.",
			"I have complete faith in our selection process.",
		},
		models.PersonalityAnalytical: {
			"The data suggests this is our best strategic option.",
			"My calculations support this team configuration.",
			"Statistically speaking, paranoia reduces mission efficiency.",
			"The evidence doesn't conclusively point to sabotage.",
			"We should focus on mission objectives, not suspicions.",
		},
		models.PersonalityLogical: {
			"Logic dictates we proceed with current parameters.",
			"Paranoia.exe not found. Proceeding with mission.",
			"Team optimization complete. Ready for deployment.",
			"Suspicion protocols unnecessary at this time.",
			"Mission success probability: Acceptable levels.",
		},
		models.PersonalityAggressive: {
			"Let's stop pointing fingers and focus on the mission!",
			"All this suspicion is exactly what the enemy wants!",
			"We're wasting time with these accusations!",
			"The real saboteurs are the ones sowing discord!",
			"This paranoia is going to cost us everything!",
		},
	},
}

var defensiveResponses = phrases{
	"That accusation is completely unfounded!",
	"I've been nothing but loyal to this mission!",
	"These baseless suspicions are dividing us!",
	"My record speaks for itself - check the data!",
	"This is exactly what the real saboteurs want!",
}

var confusedResponses = phrases{
	"I don't understand why I'm being suspected.",
	"My loyalty has never been in question.",
	"These accusations are hurting our mission focus.",
	"I'm committed to humanity's survival!",
	"We need to find the real infiltrators.",
}

// RecentChat returns the last RecentMessages entries of the chat
func RecentChat(chat []models.ChatMessage) []models.ChatMessage {
	if len(chat) <= RecentMessages {
		return chat
	}
	return chat[len(chat)-RecentMessages:]
}

// IsAccused reports whether any message names the agent alongside an accusation keyword.
// The name match ignores case; the keywords do not.
func IsAccused(agent models.Player, recent []models.ChatMessage) bool {
	name := strings.ToLower(agent.Name)
	for _, msg := range recent {
		if !strings.Contains(strings.ToLower(msg.Message), name) {
			continue
		}
		if strings.Contains(msg.Message, "suspicious") || strings.Contains(msg.Message, "saboteur") {
			return true
		}
	}
	return false
}

// SelectResponse picks one chat line for an AI agent. It returns false for
// players without a personality.
func SelectResponse(agent models.Player, recent []models.ChatMessage, rng Rand) (string, bool) {
	if agent.Personality <= models.PersonalityNone || agent.Personality > models.NumPersonalities || agent.Tone == "" {
		return "", false
	}

	table := responseTable[indexOfRole(agent.Role)][agent.Personality]
	if IsAccused(agent, RecentChat(recent)) {
		if agent.Role == models.RoleSaboteur {
			table = defensiveResponses
		} else {
			table = confusedResponses
		}
	}
	return table[rng.Intn(len(table))], true
}
