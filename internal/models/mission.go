package models

// MissionStatus tracks a mission's outcome; it leaves pending exactly once
type MissionStatus string

const (
	MissionPending MissionStatus = "pending"
	MissionSuccess MissionStatus = "success"
	MissionFailed  MissionStatus = "failed"
)

// MissionVoteChoice is a secret mission card
type MissionVoteChoice string

const (
	VoteSuccess MissionVoteChoice = "success"
	VoteFail    MissionVoteChoice = "fail"
)

// Valid reports whether the choice is success or fail
func (c MissionVoteChoice) Valid() bool {
	return c == VoteSuccess || c == VoteFail
}

// MissionVote is one team member's card
type MissionVote struct {
	PlayerID string            `json:"playerId"`
	Vote     MissionVoteChoice `json:"vote"`
}

// Mission represents one round of the game
type Mission struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	Location    string        `json:"location"`
	Era         string        `json:"era"`
	Description string        `json:"description"`
	TeamSize    int           `json:"teamSize"`
	FailsNeeded int           `json:"failsNeeded"`
	Status      MissionStatus `json:"status"`
	Team        []string      `json:"team,omitempty"`
	Votes       []MissionVote `json:"votes,omitempty"`
}

// Clone deep-copies the mission
func (m Mission) Clone() Mission {
	if m.Team != nil {
		m.Team = append([]string{}, m.Team...)
	}
	if m.Votes != nil {
		m.Votes = append([]MissionVote{}, m.Votes...)
	}
	return m
}
