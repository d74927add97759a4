package models

// Role is a player's hidden allegiance
type Role string

const (
	RoleHuman    Role = "human"
	RoleSaboteur Role = "saboteur"
)

// Faction is the display label derived from a Role
type Faction string

const (
	FactionHumanAgents Faction = "Human Agents"
	FactionSaboteurs   Faction = "Chronari Saboteurs"
)

// Faction returns the display label for the role
func (r Role) Faction() Faction {
	if r == RoleSaboteur {
		return FactionSaboteurs
	}
	return FactionHumanAgents
}

// Personality selects an AI agent's chat voice
type Personality int

const (
	PersonalityNone Personality = iota
	PersonalityLoyal
	PersonalityAnalytical
	PersonalityLogical
	PersonalityAggressive
)

// NumPersonalities is the number of real personalities (excluding PersonalityNone)
const NumPersonalities = 4

var personalityNames = [...]string{"", "loyal", "analytical", "logical", "aggressive"}

func (p Personality) String() string {
	if p < 0 || int(p) >= len(personalityNames) {
		return ""
	}
	return personalityNames[p]
}

// MarshalText encodes the personality by name
func (p Personality) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a personality name; unknown names become PersonalityNone
func (p *Personality) UnmarshalText(text []byte) error {
	*p = PersonalityNone
	for i, name := range personalityNames {
		if name == string(text) {
			*p = Personality(i)
			return nil
		}
	}
	return nil
}

// Memory is what an AI agent has observed during the game
type Memory struct {
	Accusations []string     `json:"accusations"`
	Votes       []VoteRecord `json:"votes"`
	Suspicions  []string     `json:"suspicions"`
	Alliances   []string     `json:"alliances"`
	Behaviors   []string     `json:"behaviors"`
}

// NewMemory returns an empty memory with non-nil slices
func NewMemory() Memory {
	return Memory{
		Accusations: []string{},
		Votes:       []VoteRecord{},
		Suspicions:  []string{},
		Alliances:   []string{},
		Behaviors:   []string{},
	}
}

// Clone deep-copies the memory
func (m Memory) Clone() Memory {
	return Memory{
		Accusations: append([]string{}, m.Accusations...),
		Votes:       append([]VoteRecord{}, m.Votes...),
		Suspicions:  append([]string{}, m.Suspicions...),
		Alliances:   append([]string{}, m.Alliances...),
		Behaviors:   append([]string{}, m.Behaviors...),
	}
}

// VoteKind distinguishes team votes from mission votes in memory
type VoteKind string

const (
	VoteKindTeam    VoteKind = "team"
	VoteKindMission VoteKind = "mission"
)

// VoteRecord is a vote an agent remembers
type VoteRecord struct {
	Mission int      `json:"mission"`
	Kind    VoteKind `json:"type"`
	Approve bool     `json:"approve,omitempty"`
	Outcome string   `json:"outcome,omitempty"`
	Target  string   `json:"target,omitempty"`
}

// Player represents one seat at the table, human or AI
type Player struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Role        Role        `json:"role"`
	Faction     Faction     `json:"faction"`
	IsHuman     bool        `json:"isHuman"`
	Personality Personality `json:"personality,omitempty"`
	Tone        string      `json:"tone,omitempty"`
	Memory      Memory      `json:"memory"`
	Avatar      string      `json:"avatar"`
}

// Clone deep-copies the player
func (p Player) Clone() Player {
	p.Memory = p.Memory.Clone()
	return p
}
