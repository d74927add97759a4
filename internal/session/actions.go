package session

import (
	"fmt"

	"github.com/aaronzipp/chrono-agents/internal/game"
	"github.com/aaronzipp/chrono-agents/internal/models"
	"golang.org/x/time/rate"
)

// Begin leaves the title screen for the lobby
func (s *Session) Begin() error {
	return s.mutate("begin", func() error {
		if s.state.Phase != models.PhaseStart {
			return s.wrongPhase("begin")
		}
		s.enter(models.PhaseLobby)
		return nil
	})
}

// ShowHowToPlay opens the rules screen from the title screen
func (s *Session) ShowHowToPlay() error {
	return s.mutate("how-to-play", func() error {
		if s.state.Phase != models.PhaseStart {
			return s.wrongPhase("how-to-play")
		}
		s.enter(models.PhaseHowToPlay)
		return nil
	})
}

// StartGame confirms the lobby settings, deals the roster and reveals roles
func (s *Session) StartGame(settings models.Settings) error {
	return s.mutate("start", func() error {
		if s.state.Phase != models.PhaseLobby {
			return s.wrongPhase("start")
		}
		if settings.DiscussionTime == 0 {
			settings.DiscussionTime = s.opts.DefaultDiscussionTime
		}
		if settings.DiscussionTime < 0 || settings.DiscussionTime > game.MaxDiscussionTime {
			return fmt.Errorf("%w: discussion time %d", ErrInvalidSettings, settings.DiscussionTime)
		}
		if settings.PlayerRole == "" {
			settings.PlayerRole = models.PreferRandom
		}
		if !settings.PlayerRole.Valid() {
			return fmt.Errorf("%w: player role %q", ErrInvalidSettings, settings.PlayerRole)
		}

		s.state.GameSettings = settings
		s.state.Players = game.NewRoster(settings.PlayerRole, s.opts.Probabilities, s.opts.Rand)
		s.state.Missions = game.NewMissions()
		s.state.CurrentMission = 0
		s.state.CurrentLeader = 0
		s.state.SelectedTeam = []string{}
		s.state.LastTeamVote = nil
		s.state.Timer = 0
		s.appendChat(game.SystemPlayerID, game.SystemPlayerName, game.WelcomeMessage, models.MessageSystem)
		s.enter(models.PhaseRoleReveal)
		return nil
	})
}

// NextPhase is the generic "continue": role reveal to team selection, and
// mission result to the next mission or the end of the game.
func (s *Session) NextPhase() error {
	return s.mutate("next", func() error {
		switch s.state.Phase {
		case models.PhaseRoleReveal:
			s.enter(models.PhaseMissionSelect)
		case models.PhaseMissionResult:
			next := s.state.CurrentMission + 1
			if game.Tally(s.state.Missions).Decided() || next >= len(s.state.Missions) {
				s.enter(models.PhaseGameEnd)
				return nil
			}
			s.state.CurrentMission = next
			s.state.CurrentLeader = (s.state.CurrentLeader + 1) % len(s.state.Players)
			s.state.SelectedTeam = []string{}
			s.enter(models.PhaseMissionSelect)
		default:
			return s.wrongPhase("next")
		}
		return nil
	})
}

// SelectTeam replaces the human leader's current selection
func (s *Session) SelectTeam(ids []string) error {
	return s.mutate("select-team", func() error {
		mission, err := s.checkSelection("select-team")
		if err != nil {
			return err
		}
		if len(ids) > mission.TeamSize {
			return fmt.Errorf("%w: %d > %d", ErrTeamTooLarge, len(ids), mission.TeamSize)
		}
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			if _, ok := s.state.PlayerByID(id); !ok {
				return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
			}
			if seen[id] {
				return fmt.Errorf("%w: %s", ErrDuplicatePlayer, id)
			}
			seen[id] = true
		}
		s.state.SelectedTeam = append([]string{}, ids...)
		return nil
	})
}

// ToggleTeamMember adds or removes one player from the human leader's selection
func (s *Session) ToggleTeamMember(id string) error {
	return s.mutate("toggle-team", func() error {
		mission, err := s.checkSelection("toggle-team")
		if err != nil {
			return err
		}
		if _, ok := s.state.PlayerByID(id); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
		}
		for i, member := range s.state.SelectedTeam {
			if member == id {
				s.state.SelectedTeam = append(s.state.SelectedTeam[:i:i], s.state.SelectedTeam[i+1:]...)
				return nil
			}
		}
		if len(s.state.SelectedTeam) >= mission.TeamSize {
			return fmt.Errorf("%w: already %d", ErrTeamTooLarge, mission.TeamSize)
		}
		s.state.SelectedTeam = append(s.state.SelectedTeam, id)
		return nil
	})
}

// ConfirmTeam sends a full selection to the team vote
func (s *Session) ConfirmTeam() error {
	return s.mutate("confirm-team", func() error {
		mission, err := s.checkSelection("confirm-team")
		if err != nil {
			return err
		}
		if len(s.state.SelectedTeam) != mission.TeamSize {
			return fmt.Errorf("%w: %d of %d", ErrTeamIncomplete, len(s.state.SelectedTeam), mission.TeamSize)
		}
		s.enter(models.PhaseTeamVote)
		return nil
	})
}

func (s *Session) checkSelection(action string) (*models.Mission, error) {
	if s.state.Phase != models.PhaseMissionSelect {
		return nil, s.wrongPhase(action)
	}
	leader, ok := s.state.Leader()
	if !ok || !leader.IsHuman {
		return nil, ErrNotLeader
	}
	mission, ok := s.state.Mission()
	if !ok {
		return nil, fmt.Errorf("%w: no mission %d", ErrInvalidState, s.state.CurrentMission)
	}
	return mission, nil
}

// proposeAITeam runs when an AI leader's thinking delay elapses
func (s *Session) proposeAITeam() error {
	if s.state.Phase != models.PhaseMissionSelect {
		return s.wrongPhase("ai-leader")
	}
	mission, ok := s.state.Mission()
	if !ok {
		return fmt.Errorf("%w: no mission %d", ErrInvalidState, s.state.CurrentMission)
	}
	s.state.SelectedTeam = game.ProposeTeam(s.state.Players, mission.TeamSize, s.opts.Rand)
	s.log.Info().Strs("team", s.state.SelectedTeam).Msg("ai leader proposed team")
	s.enter(models.PhaseTeamVote)
	return nil
}

// SubmitTeamVote records the human's vote, simulates the AI votes and either
// opens discussion or rotates the leader.
func (s *Session) SubmitTeamVote(approve bool) error {
	return s.mutate("team-vote", func() error {
		if s.state.Phase != models.PhaseTeamVote {
			return s.wrongPhase("team-vote")
		}

		human, ok := s.state.HumanPlayer()
		if !ok {
			return fmt.Errorf("%w: no human player", ErrInvalidState)
		}
		votes := []models.TeamVote{{PlayerID: human.ID, Approve: approve}}
		votes = append(votes, game.SimulateTeamVotes(&s.state, s.opts.Probabilities, s.opts.Rand)...)
		approvals := game.CountApprovals(votes)
		approved := game.TeamApproved(approvals, len(s.state.Players))

		s.state.LastTeamVote = &models.TeamVoteResult{
			Mission:   s.state.CurrentMission,
			Team:      append([]string{}, s.state.SelectedTeam...),
			Votes:     votes,
			Approvals: approvals,
			Approved:  approved,
		}
		if s.opts.MemoryEnabled {
			s.rememberTeamVote(votes)
		}
		s.log.Info().Int("approvals", approvals).Bool("approved", approved).Msg("team vote")

		if approved {
			s.state.Timer = s.state.GameSettings.DiscussionTime
			s.enter(models.PhaseDiscussion)
			return nil
		}
		s.state.CurrentLeader = (s.state.CurrentLeader + 1) % len(s.state.Players)
		s.state.SelectedTeam = []string{}
		s.enter(models.PhaseMissionSelect)
		return nil
	})
}

// Tick advances the discussion countdown by one step
func (s *Session) Tick() error {
	return s.mutate("tick", s.tick)
}

func (s *Session) tick() error {
	if s.state.Phase != models.PhaseDiscussion {
		return s.wrongPhase("tick")
	}
	if s.state.Timer > 0 {
		s.state.Timer--
	}
	s.maybeAIChat()
	if s.state.Timer <= 0 {
		s.enter(models.PhaseMissionVote)
	}
	return nil
}

// autoTick is the clock-driven tick; it re-arms itself while discussion lasts
func (s *Session) autoTick() error {
	if err := s.tick(); err != nil {
		return err
	}
	if s.state.Phase == models.PhaseDiscussion {
		s.schedule(s.opts.TickInterval, "tick", s.autoTick)
	}
	return nil
}

// maybeAIChat lets one random AI agent speak with AIChatChance
func (s *Session) maybeAIChat() {
	ai := s.aiPlayers()
	if len(ai) == 0 {
		return
	}
	speaker := ai[s.opts.Rand.Intn(len(ai))]
	if s.opts.Rand.Float64() >= s.opts.Probabilities.AIChatChance {
		return
	}
	line, ok := game.SelectResponse(speaker, s.state.Chat, s.opts.Rand)
	if !ok {
		return
	}
	s.appendChat(speaker.ID, speaker.Name, line, models.MessageNormal)
}

// ExpireTimer ends the discussion immediately
func (s *Session) ExpireTimer() error {
	return s.mutate("expire", func() error {
		if s.state.Phase != models.PhaseDiscussion {
			return s.wrongPhase("expire")
		}
		s.state.Timer = 0
		s.enter(models.PhaseMissionVote)
		return nil
	})
}

// SubmitMissionVote plays the human's card, simulates the AI team members and
// resolves the mission.
func (s *Session) SubmitMissionVote(choice models.MissionVoteChoice) error {
	return s.mutate("mission-vote", func() error {
		if s.state.Phase != models.PhaseMissionVote {
			return s.wrongPhase("mission-vote")
		}
		if !choice.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidVote, choice)
		}
		mission, ok := s.state.Mission()
		if !ok {
			return fmt.Errorf("%w: no mission %d", ErrInvalidState, s.state.CurrentMission)
		}
		human, ok := s.state.HumanPlayer()
		if !ok {
			return fmt.Errorf("%w: no human player", ErrInvalidState)
		}

		var votes []models.MissionVote
		if s.state.OnTeam(human.ID) {
			if choice == models.VoteFail && human.Role != models.RoleSaboteur {
				return fmt.Errorf("%w: loyal agents cannot sabotage", ErrInvalidVote)
			}
			votes = append(votes, models.MissionVote{PlayerID: human.ID, Vote: choice})
		}
		votes = append(votes, game.SimulateMissionVotes(s.state.Players, s.state.SelectedTeam, s.opts.Probabilities, s.opts.Rand)...)

		mission.Status = game.ResolveMission(votes, mission.FailsNeeded)
		mission.Votes = votes
		mission.Team = append([]string{}, s.state.SelectedTeam...)
		if s.opts.MemoryEnabled && mission.Status == models.MissionFailed {
			s.rememberFailure(mission.Name)
		}

		tally := game.Tally(s.state.Missions)
		s.log.Info().
			Int("mission", mission.ID).
			Str("status", string(mission.Status)).
			Int("fails", game.CountFails(votes)).
			Msg("mission resolved")

		if tally.Decided() {
			s.log.Info().Str("winner", string(tally.Winner())).Msg("game over")
			s.enter(models.PhaseGameEnd)
			return nil
		}
		s.enter(models.PhaseMissionResult)
		return nil
	})
}

// Restart returns a finished game to the title screen, keeping the discussion time
func (s *Session) Restart() error {
	return s.mutate("restart", func() error {
		if s.state.Phase != models.PhaseGameEnd {
			return s.wrongPhase("restart")
		}
		s.reset(true)
		return nil
	})
}

// MainMenu abandons whatever is in progress and returns to the title screen
func (s *Session) MainMenu() error {
	return s.mutate("main-menu", func() error {
		s.reset(true)
		return nil
	})
}

// Reset discards everything, settings included
func (s *Session) Reset() error {
	return s.mutate("reset", func() error {
		s.reset(false)
		return nil
	})
}

func (s *Session) reset(keepDiscussionTime bool) {
	settings := models.Settings{
		DiscussionTime: s.opts.DefaultDiscussionTime,
		PlayerRole:     models.PreferRandom,
	}
	if keepDiscussionTime {
		settings.DiscussionTime = s.state.GameSettings.DiscussionTime
	}
	version := s.state.Version
	s.state = s.initialState(settings)
	s.state.Version = version
	s.chatLimiter = rate.NewLimiter(s.opts.ChatRate, s.opts.ChatBurst)
	s.enter(models.PhaseStart)
}

// Replace swaps in a whole state. Timers for the new phase are re-armed.
func (s *Session) Replace(state models.GameState) error {
	return s.mutate("replace", func() error {
		if !state.Phase.Valid() {
			return fmt.Errorf("%w: phase %q", ErrInvalidState, state.Phase)
		}
		if state.Phase.InGame() {
			if len(state.Players) == 0 {
				return fmt.Errorf("%w: no players in %s", ErrInvalidState, state.Phase)
			}
			if state.CurrentMission < 0 || state.CurrentMission >= len(state.Missions) {
				return fmt.Errorf("%w: mission index %d", ErrInvalidState, state.CurrentMission)
			}
			if state.CurrentLeader < 0 || state.CurrentLeader >= len(state.Players) {
				return fmt.Errorf("%w: leader index %d", ErrInvalidState, state.CurrentLeader)
			}
		}
		version := s.state.Version
		s.state = state.Clone()
		s.state.Version = version
		s.enter(state.Phase)
		return nil
	})
}
