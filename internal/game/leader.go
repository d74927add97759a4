package game

import "github.com/aaronzipp/chrono-agents/internal/models"

// ProposeTeam is how an AI leader picks a team: a uniform shuffle of the whole
// table, truncated to the mission's team size.
func ProposeTeam(players []models.Player, teamSize int, rng Rand) []string {
	ids := make([]string, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	if teamSize > len(ids) {
		teamSize = len(ids)
	}
	return ids[:teamSize]
}
