package game

import (
	"strconv"

	"github.com/aaronzipp/chrono-agents/internal/models"
)

// Rand is the subset of *math/rand.Rand the AI needs
type Rand interface {
	Float64() float64
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// agentProfile is the fixed identity behind a personality
type agentProfile struct {
	Name        string
	Personality models.Personality
	Tone        string
	Avatar      string
}

var agentProfiles = [models.NumPersonalities]agentProfile{
	{Name: "Commander Rex", Personality: models.PersonalityLoyal, Tone: "authoritative", Avatar: "🎖️"},
	{Name: "Dr. Nova", Personality: models.PersonalityAnalytical, Tone: "scientific", Avatar: "🔬"},
	{Name: "Cyber-7", Personality: models.PersonalityLogical, Tone: "robotic", Avatar: "🤖"},
	{Name: "Agent Storm", Personality: models.PersonalityAggressive, Tone: "intense", Avatar: "⚡"},
}

// NewAIRoster deals the four AI agents: one per personality, two of each role.
// Personalities and roles are shuffled independently.
func NewAIRoster(rng Rand) []models.Player {
	profiles := agentProfiles
	rng.Shuffle(len(profiles), func(i, j int) {
		profiles[i], profiles[j] = profiles[j], profiles[i]
	})

	roles := make([]models.Role, 0, AIPlayerCount)
	for i := 0; i < AIPlayerCount; i++ {
		if i < AIPlayerCount-AISaboteurs {
			roles = append(roles, models.RoleHuman)
		} else {
			roles = append(roles, models.RoleSaboteur)
		}
	}
	rng.Shuffle(len(roles), func(i, j int) {
		roles[i], roles[j] = roles[j], roles[i]
	})

	players := make([]models.Player, 0, AIPlayerCount)
	for i, profile := range profiles {
		players = append(players, models.Player{
			ID:          "ai-" + strconv.Itoa(i),
			Name:        profile.Name,
			Role:        roles[i],
			Faction:     roles[i].Faction(),
			Personality: profile.Personality,
			Tone:        profile.Tone,
			Avatar:      profile.Avatar,
			Memory:      models.NewMemory(),
		})
	}
	return players
}

// NewHumanPlayer seats the human with a role resolved from the lobby preference
func NewHumanPlayer(pref models.RolePreference, probs Probabilities, rng Rand) models.Player {
	role := models.RoleSaboteur
	switch pref {
	case models.PreferGood:
		role = models.RoleHuman
	case models.PreferRandom:
		if rng.Float64() < probs.HumanGoodChance {
			role = models.RoleHuman
		}
	}
	return models.Player{
		ID:      HumanPlayerID,
		Name:    "Agent Alpha",
		Role:    role,
		Faction: role.Faction(),
		IsHuman: true,
		Memory:  models.NewMemory(),
		Avatar:  "👤",
	}
}

// NewRoster returns the full table in seating order: human first, then AI
func NewRoster(pref models.RolePreference, probs Probabilities, rng Rand) []models.Player {
	players := make([]models.Player, 0, PlayerCount)
	players = append(players, NewHumanPlayer(pref, probs, rng))
	return append(players, NewAIRoster(rng)...)
}
