package render

import (
	"github.com/aaronzipp/chrono-agents/internal/game"
	"github.com/aaronzipp/chrono-agents/internal/models"
)

// PlayerView is a player as the human is allowed to see them
type PlayerView struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Avatar      string         `json:"avatar"`
	IsHuman     bool           `json:"isHuman"`
	Personality string         `json:"personality,omitempty"`
	Tone        string         `json:"tone,omitempty"`
	Role        models.Role    `json:"role,omitempty"`
	Faction     models.Faction `json:"faction,omitempty"`
	IsLeader    bool           `json:"isLeader"`
	OnTeam      bool           `json:"onTeam"`
}

// MissionView hides who played which card until the game is over
type MissionView struct {
	ID          int                  `json:"id"`
	Name        string               `json:"name"`
	Location    string               `json:"location"`
	Era         string               `json:"era"`
	Description string               `json:"description"`
	TeamSize    int                  `json:"teamSize"`
	FailsNeeded int                  `json:"failsNeeded"`
	Status      models.MissionStatus `json:"status"`
	Team        []string             `json:"team,omitempty"`
	Successes   int                  `json:"successes"`
	Fails       int                  `json:"fails"`
	Votes       []models.MissionVote `json:"votes,omitempty"`
}

// Score is the running mission tally
type Score struct {
	Successes int `json:"successes"`
	Failures  int `json:"failures"`
}

// Result is only present once the game has ended
type Result struct {
	Winner   models.Faction `json:"winner"`
	HumanWon bool           `json:"humanWon"`
}

// View is the client-facing projection of a GameState
type View struct {
	Code           string                 `json:"code"`
	Phase          models.Phase           `json:"phase"`
	Players        []PlayerView           `json:"players"`
	Missions       []MissionView          `json:"missions"`
	CurrentMission int                    `json:"currentMission"`
	CurrentLeader  int                    `json:"currentLeader"`
	HumanIsLeader  bool                   `json:"humanIsLeader"`
	CanSabotage    bool                   `json:"canSabotage"`
	SelectedTeam   []string               `json:"selectedTeam"`
	Chat           []models.ChatMessage   `json:"chat"`
	Settings       models.Settings        `json:"gameSettings"`
	TimeOptions    []int                  `json:"discussionTimeOptions,omitempty"`
	Timer          int                    `json:"timer"`
	LastTeamVote   *models.TeamVoteResult `json:"lastTeamVote,omitempty"`
	Score          Score                  `json:"score"`
	Result         *Result                `json:"result,omitempty"`
	Version        int                    `json:"version"`
}

// NewView projects state for the human at the table. AI roles, factions and
// individual mission cards stay hidden until gameEnd.
func NewView(code string, state models.GameState) View {
	revealed := state.Phase == models.PhaseGameEnd
	leader, hasLeader := state.Leader()

	v := View{
		Code:           code,
		Phase:          state.Phase,
		Players:        make([]PlayerView, 0, len(state.Players)),
		Missions:       make([]MissionView, 0, len(state.Missions)),
		CurrentMission: state.CurrentMission,
		CurrentLeader:  state.CurrentLeader,
		SelectedTeam:   append([]string{}, state.SelectedTeam...),
		Chat:           append([]models.ChatMessage{}, state.Chat...),
		Settings:       state.GameSettings,
		Timer:          state.Timer,
		Version:        state.Version,
	}
	if state.Phase == models.PhaseLobby {
		v.TimeOptions = append([]int{}, game.DiscussionTimeOptions...)
	}

	for _, p := range state.Players {
		pv := PlayerView{
			ID:       p.ID,
			Name:     p.Name,
			Avatar:   p.Avatar,
			IsHuman:  p.IsHuman,
			Tone:     p.Tone,
			IsLeader: hasLeader && leader.ID == p.ID,
			OnTeam:   state.OnTeam(p.ID),
		}
		if p.Personality != models.PersonalityNone {
			pv.Personality = p.Personality.String()
		}
		if p.IsHuman || revealed {
			pv.Role = p.Role
			pv.Faction = p.Faction
		}
		if p.IsHuman {
			v.HumanIsLeader = pv.IsLeader
			v.CanSabotage = p.Role == models.RoleSaboteur
		}
		v.Players = append(v.Players, pv)
	}

	for _, m := range state.Missions {
		mv := MissionView{
			ID:          m.ID,
			Name:        m.Name,
			Location:    m.Location,
			Era:         m.Era,
			Description: m.Description,
			TeamSize:    m.TeamSize,
			FailsNeeded: m.FailsNeeded,
			Status:      m.Status,
			Team:        append([]string(nil), m.Team...),
			Fails:       game.CountFails(m.Votes),
		}
		mv.Successes = len(m.Votes) - mv.Fails
		if revealed {
			mv.Votes = append([]models.MissionVote(nil), m.Votes...)
		}
		v.Missions = append(v.Missions, mv)
	}

	if state.LastTeamVote != nil {
		tv := *state.LastTeamVote
		tv.Team = append([]string{}, tv.Team...)
		tv.Votes = append([]models.TeamVote{}, tv.Votes...)
		v.LastTeamVote = &tv
	}

	tally := game.Tally(state.Missions)
	v.Score = Score{Successes: tally.Successes, Failures: tally.Failures}
	if revealed {
		winner := tally.Winner()
		human, ok := state.HumanPlayer()
		v.Result = &Result{
			Winner:   winner,
			HumanWon: ok && human.Faction == winner,
		}
	}
	return v
}
