package game

import (
	"time"

	"github.com/aaronzipp/chrono-agents/internal/models"
)

const (
	// PlayerCount is the fixed table size: one human and four AI agents
	PlayerCount = 5

	// AIPlayerCount is the number of scripted agents
	AIPlayerCount = PlayerCount - 1

	// AISaboteurs is how many AI agents are dealt the saboteur role
	AISaboteurs = 2

	// WinThreshold is the number of successes (or failures) that ends the game
	WinThreshold = 3

	// RecentMessages is how much chat history an agent reads before replying
	RecentMessages = 5

	// DefaultDiscussionTime is the discussion length in seconds when none is chosen
	DefaultDiscussionTime = 60

	// MaxDiscussionTime caps the lobby setting
	MaxDiscussionTime = 600

	// HumanPlayerID is the stable id of the human seat
	HumanPlayerID = "human"

	// SystemPlayerID marks chat lines posted by the game itself
	SystemPlayerID = "system"

	// SystemPlayerName is the speaker name of system chat lines
	SystemPlayerName = "Mission Control"

	// WelcomeMessage is posted when a game starts
	WelcomeMessage = "Welcome to the time displacement chamber. Year 2408. Your mission: retrieve the cosmic relics before the Chronari sabotage humanity's last hope."
)

const (
	// TickInterval is the discussion countdown cadence
	TickInterval = time.Second

	// AILeaderDelay is how long an AI leader "thinks" before proposing a team
	AILeaderDelay = 2 * time.Second
)

// DiscussionTimeOptions are the presets offered in the lobby
var DiscussionTimeOptions = []int{30, 60, 75, 90, 120}

// Probabilities holds every random branch of the AI so tests can force outcomes
type Probabilities struct {
	HumanGoodChance        float64 // random role preference resolves to human
	SaboteurApproveOnTeam  float64
	SaboteurApproveOffTeam float64
	LoyalApprove           float64
	SaboteurFail           float64
	AIChatChance           float64 // per discussion tick
}

// DefaultProbabilities returns the tuned values used in real games
func DefaultProbabilities() Probabilities {
	return Probabilities{
		HumanGoodChance:        0.6,
		SaboteurApproveOnTeam:  0.8,
		SaboteurApproveOffTeam: 0.4,
		LoyalApprove:           0.7,
		SaboteurFail:           0.8,
		AIChatChance:           0.3,
	}
}

// missionTable is the fixed campaign; NewMissions copies it
var missionTable = [...]models.Mission{
	{
		ID:          1,
		Name:        "Ancient Egypt Artifact",
		Location:    "Valley of Kings",
		Era:         "1323 BCE",
		Description: "Retrieve the Pharaoh's temporal crystal from Tutankhamun's tomb",
		TeamSize:    3,
		FailsNeeded: 1,
	},
	{
		ID:          2,
		Name:        "Medieval Relic",
		Location:    "Camelot",
		Era:         "537 CE",
		Description: "Secure the Chronos Blade from King Arthur's armory",
		TeamSize:    4,
		FailsNeeded: 1,
	},
	{
		ID:          3,
		Name:        "Future Core",
		Location:    "Neo Tokyo",
		Era:         "2847 CE",
		Description: "Extract the quantum core from the cybernetic archives",
		TeamSize:    4,
		FailsNeeded: 1,
	},
}

// NewMissions returns a fresh, all-pending copy of the campaign
func NewMissions() []models.Mission {
	missions := make([]models.Mission, len(missionTable))
	for i, m := range missionTable {
		m.Status = models.MissionPending
		missions[i] = m
	}
	return missions
}
