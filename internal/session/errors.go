package session

import "errors"

var (
	ErrWrongPhase         = errors.New("action not allowed in current phase")
	ErrNotLeader          = errors.New("human player is not the leader")
	ErrTeamTooLarge       = errors.New("team exceeds mission size")
	ErrTeamIncomplete     = errors.New("team is not complete")
	ErrUnknownPlayer      = errors.New("unknown player")
	ErrDuplicatePlayer    = errors.New("player selected twice")
	ErrInvalidSettings    = errors.New("invalid game settings")
	ErrInvalidVote        = errors.New("invalid vote")
	ErrEmptyMessage       = errors.New("empty message")
	ErrMessageTooLong     = errors.New("message too long")
	ErrInvalidMessageType = errors.New("invalid message type")
	ErrChatRateLimited    = errors.New("chat rate limited")
	ErrInvalidState       = errors.New("invalid game state")
)

// errStale marks a timer that fired after its phase was left
var errStale = errors.New("stale timer")
