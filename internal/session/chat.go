package session

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aaronzipp/chrono-agents/internal/game"
	"github.com/aaronzipp/chrono-agents/internal/models"
)

// MaxMessageLength bounds a single chat line, in runes
const MaxMessageLength = 500

// ChatInput is a chat line before it gets an id and timestamp
type ChatInput struct {
	PlayerID   string             `json:"playerId"`
	PlayerName string             `json:"playerName"`
	Message    string             `json:"message"`
	Type       models.MessageType `json:"type"`
}

// AddChatMessage appends a line to the chat. Lines from the human are rate limited.
func (s *Session) AddChatMessage(in ChatInput) error {
	return s.mutate("chat", func() error {
		text := strings.TrimSpace(in.Message)
		if text == "" {
			return ErrEmptyMessage
		}
		if utf8.RuneCountInString(text) > MaxMessageLength {
			return fmt.Errorf("%w: %d runes", ErrMessageTooLong, utf8.RuneCountInString(text))
		}
		if in.Type == "" {
			in.Type = models.MessageNormal
		}
		if !in.Type.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidMessageType, in.Type)
		}

		name := in.PlayerName
		if in.PlayerID == game.SystemPlayerID {
			if name == "" {
				name = game.SystemPlayerName
			}
		} else {
			p, ok := s.state.PlayerByID(in.PlayerID)
			if !ok {
				return fmt.Errorf("%w: %s", ErrUnknownPlayer, in.PlayerID)
			}
			if name == "" {
				name = p.Name
			}
			if p.IsHuman && !s.chatLimiter.Allow() {
				return ErrChatRateLimited
			}
		}

		s.appendChat(in.PlayerID, name, text, in.Type)
		if s.opts.MemoryEnabled && in.Type == models.MessageAccusation {
			s.rememberAccusation(in.PlayerID, text)
		}
		return nil
	})
}

// appendChat must be called with mu held
func (s *Session) appendChat(playerID, playerName, text string, typ models.MessageType) {
	s.state.Chat = append(s.state.Chat, models.ChatMessage{
		ID:         s.opts.NewID(),
		PlayerID:   playerID,
		PlayerName: playerName,
		Message:    text,
		Timestamp:  s.opts.Now().UnixMilli(),
		Type:       typ,
	})
}

// rememberAccusation makes every other AI note the agents named in an accusation
func (s *Session) rememberAccusation(from, text string) {
	lower := strings.ToLower(text)
	for _, accused := range s.aiPlayers() {
		if !strings.Contains(lower, strings.ToLower(accused.Name)) {
			continue
		}
		for i, p := range s.state.Players {
			if p.IsHuman || p.ID == accused.ID {
				continue
			}
			s.state.Players[i] = game.UpdateMemory(p, game.EventAccused, accused.ID, from+": "+text)
		}
	}
}

// rememberTeamVote records each AI's own vote and, on rejection, makes the
// approving AI suspicious of everyone who rejected
func (s *Session) rememberTeamVote(votes []models.TeamVote) {
	rejected := !game.TeamApproved(game.CountApprovals(votes), len(s.state.Players))
	for i, p := range s.state.Players {
		if p.IsHuman {
			continue
		}
		var own models.TeamVote
		for _, v := range votes {
			if v.PlayerID == p.ID {
				own = v
			}
		}
		p = p.Clone()
		p.Memory.Votes = append(p.Memory.Votes, models.VoteRecord{
			Mission: s.state.CurrentMission,
			Kind:    models.VoteKindTeam,
			Approve: own.Approve,
		})
		if rejected && own.Approve {
			for _, v := range votes {
				if !v.Approve && v.PlayerID != p.ID {
					p = game.UpdateMemory(p, game.EventVotedNo, v.PlayerID, "")
				}
			}
		}
		s.state.Players[i] = p
	}
}

// rememberFailure notes a failed mission in every AI's behaviour log
func (s *Session) rememberFailure(missionName string) {
	for i, p := range s.state.Players {
		if p.IsHuman {
			continue
		}
		s.state.Players[i] = game.UpdateMemory(p, game.EventMissionFailed, "", missionName)
	}
}
