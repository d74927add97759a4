package sse

import (
	"fmt"
	"io"
	"strings"
)

// Event names sent to clients
const (
	EventState  = "state"
	EventError  = "error-message"
	EventClosed = "session-closed"
)

// Message is one Server-Sent Event
type Message struct {
	Event string `json:"event"`
	Data  string `json:"data"`
}

// Write frames msg in the text/event-stream format. Multi-line data is split
// into one data: field per line.
func Write(w io.Writer, msg Message) error {
	if _, err := fmt.Fprintf(w, "event: %s\n", msg.Event); err != nil {
		return err
	}
	for _, line := range strings.Split(msg.Data, "\n") {
		if _, err := fmt.Fprintf(w, "data: %s\n", line); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}
