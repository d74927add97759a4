package session

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/aaronzipp/chrono-agents/internal/game"
	"github.com/aaronzipp/chrono-agents/internal/models"
)

// manualClock only fires timers when Advance is called
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance fires due timers in order, without holding the clock lock during callbacks
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *manualTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at > target {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.fired = true
		c.now = next.at
		c.mu.Unlock()
		next.f()
	}
}

func (c *manualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// leakyClock hands out timers whose Stop never prevents the callback, so the
// epoch guard is the only thing between a late timer and the state.
type leakyClock struct {
	mu        sync.Mutex
	callbacks []func()
}

type leakyTimer struct{}

func (leakyTimer) Stop() bool { return false }

func (c *leakyClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callbacks = append(c.callbacks, f)
	return leakyTimer{}
}

func (c *leakyClock) FireAll() {
	c.mu.Lock()
	callbacks := append([]func(){}, c.callbacks...)
	c.callbacks = nil
	c.mu.Unlock()
	for _, f := range callbacks {
		f()
	}
}

var (
	alwaysProbs = game.Probabilities{
		HumanGoodChance:        1,
		SaboteurApproveOnTeam:  1,
		SaboteurApproveOffTeam: 1,
		LoyalApprove:           1,
		SaboteurFail:           1,
		AIChatChance:           1,
	}
	neverProbs = game.Probabilities{HumanGoodChance: 1}
)

func testOptions(clock Clock, probs game.Probabilities) Options {
	n := 0
	return Options{
		Probabilities: probs,
		Rand:          rand.New(rand.NewSource(1)),
		Clock:         clock,
		TickInterval:  time.Second,
		AILeaderDelay: game.AILeaderDelay,
		Now:           func() time.Time { return time.Unix(1700000000, 0) },
		NewID: func() string {
			n++
			return fmt.Sprintf("msg-%d", n)
		},
	}
}

// fixedState is an in-game state with a known roster: the human and two loyal
// agents, then two saboteurs.
func fixedState(phase models.Phase) models.GameState {
	agent := func(id, name string, role models.Role, p models.Personality, tone string) models.Player {
		return models.Player{
			ID:          id,
			Name:        name,
			Role:        role,
			Faction:     role.Faction(),
			Personality: p,
			Tone:        tone,
			Memory:      models.NewMemory(),
		}
	}
	return models.GameState{
		Phase: phase,
		Players: []models.Player{
			{
				ID:      game.HumanPlayerID,
				Name:    "Agent Alpha",
				Role:    models.RoleHuman,
				Faction: models.FactionHumanAgents,
				IsHuman: true,
				Memory:  models.NewMemory(),
				Avatar:  "👤",
			},
			agent("ai-0", "Commander Rex", models.RoleHuman, models.PersonalityLoyal, "authoritative"),
			agent("ai-1", "Dr. Nova", models.RoleHuman, models.PersonalityAnalytical, "scientific"),
			agent("ai-2", "Cyber-7", models.RoleSaboteur, models.PersonalityLogical, "robotic"),
			agent("ai-3", "Agent Storm", models.RoleSaboteur, models.PersonalityAggressive, "intense"),
		},
		Missions:     game.NewMissions(),
		SelectedTeam: []string{},
		Chat:         []models.ChatMessage{},
		GameSettings: models.Settings{DiscussionTime: 3, PlayerRole: models.PreferGood},
		IsTyping:     map[string]bool{},
	}
}
