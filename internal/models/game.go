package models

// RolePreference is the human's requested allegiance
type RolePreference string

const (
	PreferGood   RolePreference = "good"
	PreferEvil   RolePreference = "evil"
	PreferRandom RolePreference = "random"
)

// Valid reports whether the preference is good, evil or random
func (r RolePreference) Valid() bool {
	return r == PreferGood || r == PreferEvil || r == PreferRandom
}

// Settings are chosen in the lobby
type Settings struct {
	DiscussionTime int            `json:"discussionTime"` // seconds
	PlayerRole     RolePreference `json:"playerRole"`
}

// TeamVote is one player's approve/reject on a proposed team
type TeamVote struct {
	PlayerID string `json:"playerId"`
	Approve  bool   `json:"approve"`
}

// TeamVoteResult is the outcome of the most recent team vote
type TeamVoteResult struct {
	Mission   int        `json:"mission"`
	Team      []string   `json:"team"`
	Votes     []TeamVote `json:"votes"`
	Approvals int        `json:"approvals"`
	Approved  bool       `json:"approved"`
}

// GameState is the single source of truth for one game session
type GameState struct {
	Phase          Phase           `json:"phase"`
	Players        []Player        `json:"players"`
	Missions       []Mission       `json:"missions"`
	CurrentMission int             `json:"currentMission"`
	CurrentLeader  int             `json:"currentLeader"`
	SelectedTeam   []string        `json:"selectedTeam"`
	Chat           []ChatMessage   `json:"chat"`
	GameSettings   Settings        `json:"gameSettings"`
	Timer          int             `json:"timer"`
	IsTyping       map[string]bool `json:"isTyping"`
	LastTeamVote   *TeamVoteResult `json:"lastTeamVote,omitempty"`
	Version        int             `json:"version"`
}

// Clone deep-copies the state
func (g GameState) Clone() GameState {
	out := g
	out.Players = make([]Player, len(g.Players))
	for i, p := range g.Players {
		out.Players[i] = p.Clone()
	}
	out.Missions = make([]Mission, len(g.Missions))
	for i, m := range g.Missions {
		out.Missions[i] = m.Clone()
	}
	out.SelectedTeam = append([]string{}, g.SelectedTeam...)
	out.Chat = append([]ChatMessage{}, g.Chat...)
	out.IsTyping = make(map[string]bool, len(g.IsTyping))
	for k, v := range g.IsTyping {
		out.IsTyping[k] = v
	}
	if g.LastTeamVote != nil {
		tv := *g.LastTeamVote
		tv.Team = append([]string{}, tv.Team...)
		tv.Votes = append([]TeamVote{}, tv.Votes...)
		out.LastTeamVote = &tv
	}
	return out
}

// PlayerByID returns the player with the given id
func (g *GameState) PlayerByID(id string) (*Player, bool) {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return &g.Players[i], true
		}
	}
	return nil, false
}

// HumanPlayer returns the single human-controlled player, if the roster exists
func (g *GameState) HumanPlayer() (*Player, bool) {
	for i := range g.Players {
		if g.Players[i].IsHuman {
			return &g.Players[i], true
		}
	}
	return nil, false
}

// Leader returns the current team leader
func (g *GameState) Leader() (*Player, bool) {
	if g.CurrentLeader < 0 || g.CurrentLeader >= len(g.Players) {
		return nil, false
	}
	return &g.Players[g.CurrentLeader], true
}

// Mission returns the mission currently being played
func (g *GameState) Mission() (*Mission, bool) {
	if g.CurrentMission < 0 || g.CurrentMission >= len(g.Missions) {
		return nil, false
	}
	return &g.Missions[g.CurrentMission], true
}

// OnTeam reports whether id is part of the selected team
func (g *GameState) OnTeam(id string) bool {
	for _, member := range g.SelectedTeam {
		if member == id {
			return true
		}
	}
	return false
}
