package session

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/aaronzipp/chrono-agents/internal/game"
	"github.com/aaronzipp/chrono-agents/internal/logger"
	"github.com/aaronzipp/chrono-agents/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Options configures a Session. Zero values fall back to the defaults of NewOptions.
type Options struct {
	Probabilities         game.Probabilities
	Rand                  game.Rand
	Clock                 Clock
	TickInterval          time.Duration
	AILeaderDelay         time.Duration
	DefaultDiscussionTime int
	ChatRate              rate.Limit
	ChatBurst             int
	MemoryEnabled         bool
	Now                   func() time.Time
	NewID                 func() string
}

// NewOptions returns the production defaults
func NewOptions() Options {
	return Options{
		Probabilities:         game.DefaultProbabilities(),
		Rand:                  rand.New(rand.NewSource(time.Now().UnixNano())),
		Clock:                 RealClock(),
		TickInterval:          game.TickInterval,
		AILeaderDelay:         game.AILeaderDelay,
		DefaultDiscussionTime: game.DefaultDiscussionTime,
		ChatRate:              rate.Limit(1),
		ChatBurst:             5,
		Now:                   time.Now,
		NewID:                 uuid.NewString,
	}
}

func (o Options) withDefaults() Options {
	d := NewOptions()
	if o.Probabilities == (game.Probabilities{}) {
		o.Probabilities = d.Probabilities
	}
	if o.Rand == nil {
		o.Rand = d.Rand
	}
	if o.Clock == nil {
		o.Clock = d.Clock
	}
	if o.TickInterval <= 0 {
		o.TickInterval = d.TickInterval
	}
	if o.AILeaderDelay <= 0 {
		o.AILeaderDelay = d.AILeaderDelay
	}
	if o.DefaultDiscussionTime <= 0 {
		o.DefaultDiscussionTime = d.DefaultDiscussionTime
	}
	if o.ChatRate <= 0 {
		o.ChatRate = d.ChatRate
	}
	if o.ChatBurst <= 0 {
		o.ChatBurst = d.ChatBurst
	}
	if o.Now == nil {
		o.Now = d.Now
	}
	if o.NewID == nil {
		o.NewID = d.NewID
	}
	return o
}

// Listener is notified with a snapshot after every committed change
type Listener func(code string, state models.GameState)

// Session owns one game's state. Every mutation goes through its action
// methods, which run one at a time under mu.
type Session struct {
	code string
	opts Options
	log  zerolog.Logger

	mu          sync.Mutex
	state       models.GameState
	epoch       uint64
	timers      []Timer
	chatLimiter *rate.Limiter
	listeners   []Listener
}

// New creates a session at phase start
func New(code string, opts Options) *Session {
	opts = opts.withDefaults()
	s := &Session{
		code: code,
		opts: opts,
		log:  logger.For("session").With().Str("session", code).Logger(),
	}
	s.state = s.initialState(models.Settings{
		DiscussionTime: opts.DefaultDiscussionTime,
		PlayerRole:     models.PreferRandom,
	})
	s.chatLimiter = rate.NewLimiter(opts.ChatRate, opts.ChatBurst)
	return s
}

// Code returns the session's share code
func (s *Session) Code() string {
	return s.code
}

// Subscribe registers a listener for committed changes
func (s *Session) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Snapshot returns a deep copy of the current state
func (s *Session) Snapshot() models.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Close cancels every pending timer
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.stopTimers()
}

func (s *Session) initialState(settings models.Settings) models.GameState {
	return models.GameState{
		Phase:          models.PhaseStart,
		Players:        []models.Player{},
		Missions:       game.NewMissions(),
		CurrentMission: 0,
		CurrentLeader:  0,
		SelectedTeam:   []string{},
		Chat:           []models.ChatMessage{},
		GameSettings:   settings,
		Timer:          0,
		IsTyping:       map[string]bool{},
	}
}

// mutate runs fn under the lock and, if it succeeds, bumps the version and
// notifies listeners after the lock is released.
func (s *Session) mutate(action string, fn func() error) error {
	s.mu.Lock()
	if err := fn(); err != nil {
		phase := s.state.Phase
		s.mu.Unlock()
		if !errors.Is(err, errStale) {
			s.log.Debug().Str("action", action).Str("phase", string(phase)).Err(err).Msg("action rejected")
		}
		return err
	}
	s.state.Version++
	snap := s.state.Clone()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(s.code, snap)
	}
	return nil
}

// enter moves to phase, cancels the previous phase's timers and arms the new
// phase's ones. Must be called with mu held.
func (s *Session) enter(phase models.Phase) {
	from := s.state.Phase
	s.state.Phase = phase
	s.epoch++
	s.stopTimers()
	s.log.Info().Str("from", string(from)).Str("phase", string(phase)).Msg("phase change")

	switch phase {
	case models.PhaseDiscussion:
		if s.state.Timer <= 0 {
			s.state.Timer = 0
			s.enter(models.PhaseMissionVote)
			return
		}
		s.schedule(s.opts.TickInterval, "tick", s.autoTick)
	case models.PhaseMissionSelect:
		if leader, ok := s.state.Leader(); ok && !leader.IsHuman {
			s.schedule(s.opts.AILeaderDelay, "ai-leader", s.proposeAITeam)
		}
	}
}

// schedule arms a callback that only runs if the phase has not changed since.
// Must be called with mu held.
func (s *Session) schedule(d time.Duration, name string, fn func() error) {
	epoch := s.epoch
	t := s.opts.Clock.AfterFunc(d, func() {
		s.mutate(name, func() error {
			if s.epoch != epoch {
				s.log.Debug().Str("timer", name).Msg("dropping stale timer")
				return errStale
			}
			return fn()
		})
	})
	s.timers = append(s.timers, t)
}

func (s *Session) stopTimers() {
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}

func (s *Session) wrongPhase(action string) error {
	return fmt.Errorf("%w: %s during %s", ErrWrongPhase, action, s.state.Phase)
}

func (s *Session) aiPlayers() []models.Player {
	ai := make([]models.Player, 0, game.AIPlayerCount)
	for _, p := range s.state.Players {
		if !p.IsHuman {
			ai = append(ai, p)
		}
	}
	return ai
}
