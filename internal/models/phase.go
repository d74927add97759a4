package models

// Phase represents the current node of the game state machine
type Phase string

const (
	PhaseStart         Phase = "start"
	PhaseLobby         Phase = "lobby"
	PhaseHowToPlay     Phase = "howToPlay"
	PhaseRoleReveal    Phase = "roleReveal"
	PhaseMissionSelect Phase = "missionSelect"
	PhaseTeamVote      Phase = "teamVote"
	PhaseDiscussion    Phase = "discussion"
	PhaseMissionVote   Phase = "missionVote"
	PhaseMissionResult Phase = "missionResult"
	PhaseGameEnd       Phase = "gameEnd"
)

// Phases lists every phase in the order a game normally visits them
var Phases = []Phase{
	PhaseStart,
	PhaseLobby,
	PhaseHowToPlay,
	PhaseRoleReveal,
	PhaseMissionSelect,
	PhaseTeamVote,
	PhaseDiscussion,
	PhaseMissionVote,
	PhaseMissionResult,
	PhaseGameEnd,
}

// Valid reports whether p is one of the known phases
func (p Phase) Valid() bool {
	for _, known := range Phases {
		if p == known {
			return true
		}
	}
	return false
}

// InGame reports whether a roster exists in this phase
func (p Phase) InGame() bool {
	switch p {
	case PhaseStart, PhaseLobby, PhaseHowToPlay:
		return false
	default:
		return p.Valid()
	}
}
