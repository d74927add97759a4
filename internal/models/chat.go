package models

// MessageType classifies a chat line
type MessageType string

const (
	MessageNormal     MessageType = "normal"
	MessageSystem     MessageType = "system"
	MessageAccusation MessageType = "accusation"
)

// Valid reports whether t is a known message type
func (t MessageType) Valid() bool {
	switch t {
	case MessageNormal, MessageSystem, MessageAccusation:
		return true
	}
	return false
}

// ChatMessage is one append-only chat entry
type ChatMessage struct {
	ID         string      `json:"id"`
	PlayerID   string      `json:"playerId"`
	PlayerName string      `json:"playerName"`
	Message    string      `json:"message"`
	Timestamp  int64       `json:"timestamp"` // unix milliseconds
	Type       MessageType `json:"type"`
}
