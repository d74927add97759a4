package game

import (
	"github.com/aaronzipp/chrono-agents/internal/models"
)

// SimulateTeamVotes casts one approve/reject per AI player on the selected team
func SimulateTeamVotes(state *models.GameState, probs Probabilities, rng Rand) []models.TeamVote {
	votes := make([]models.TeamVote, 0, len(state.Players))
	for _, p := range state.Players {
		if p.IsHuman {
			continue
		}
		var approve bool
		if p.Role == models.RoleSaboteur {
			chance := probs.SaboteurApproveOffTeam
			if state.OnTeam(p.ID) {
				chance = probs.SaboteurApproveOnTeam
			}
			approve = rng.Float64() < chance
		} else {
			approve = !suspectsTeam(p, state.SelectedTeam) && rng.Float64() < probs.LoyalApprove
		}
		votes = append(votes, models.TeamVote{PlayerID: p.ID, Approve: approve})
	}
	return votes
}

func suspectsTeam(p models.Player, team []string) bool {
	for _, id := range team {
		for _, suspect := range p.Memory.Suspicions {
			if suspect == id {
				return true
			}
		}
	}
	return false
}

// CountApprovals counts the approving votes
func CountApprovals(votes []models.TeamVote) int {
	n := 0
	for _, v := range votes {
		if v.Approve {
			n++
		}
	}
	return n
}

// TeamApproved reports a strict majority: approvals > playerCount/2
func TeamApproved(approvals, playerCount int) bool {
	return 2*approvals > playerCount
}

// SimulateMissionVotes draws a card for every AI player on the team.
// Loyal agents always play success.
func SimulateMissionVotes(players []models.Player, team []string, probs Probabilities, rng Rand) []models.MissionVote {
	onTeam := make(map[string]bool, len(team))
	for _, id := range team {
		onTeam[id] = true
	}

	votes := make([]models.MissionVote, 0, len(team))
	for _, p := range players {
		if p.IsHuman || !onTeam[p.ID] {
			continue
		}
		vote := models.VoteSuccess
		if p.Role == models.RoleSaboteur && rng.Float64() < probs.SaboteurFail {
			vote = models.VoteFail
		}
		votes = append(votes, models.MissionVote{PlayerID: p.ID, Vote: vote})
	}
	return votes
}

// CountFails counts the fail cards
func CountFails(votes []models.MissionVote) int {
	n := 0
	for _, v := range votes {
		if v.Vote == models.VoteFail {
			n++
		}
	}
	return n
}

// ResolveMission decides a mission: it succeeds iff fails < failsNeeded
func ResolveMission(votes []models.MissionVote, failsNeeded int) models.MissionStatus {
	if CountFails(votes) < failsNeeded {
		return models.MissionSuccess
	}
	return models.MissionFailed
}

// MissionTally is the campaign scoreboard
type MissionTally struct {
	Successes int
	Failures  int
	Pending   int
}

// Tally counts mission outcomes
func Tally(missions []models.Mission) MissionTally {
	var t MissionTally
	for _, m := range missions {
		switch m.Status {
		case models.MissionSuccess:
			t.Successes++
		case models.MissionFailed:
			t.Failures++
		default:
			t.Pending++
		}
	}
	return t
}

// Decided reports whether either side reached the win threshold
func (t MissionTally) Decided() bool {
	return t.Successes >= WinThreshold || t.Failures >= WinThreshold
}

// Winner returns the winning faction. Humans only win with WinThreshold
// successes; any other finished campaign goes to the saboteurs.
func (t MissionTally) Winner() models.Faction {
	if t.Successes >= WinThreshold {
		return models.FactionHumanAgents
	}
	return models.FactionSaboteurs
}
