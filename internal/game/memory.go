package game

import (
	"math"
	"strings"

	"github.com/aaronzipp/chrono-agents/internal/models"
)

// MemoryEvent is something an agent can remember
type MemoryEvent string

const (
	EventVotedNo       MemoryEvent = "voted no"
	EventAccused       MemoryEvent = "accused"
	EventMissionFailed MemoryEvent = "mission failed"
)

// UpdateMemory returns a copy of the player with the event recorded.
// Rejections add the target to suspicions, accusations are logged against the
// target and failed missions are kept as behaviour notes.
func UpdateMemory(p models.Player, event MemoryEvent, target, detail string) models.Player {
	out := p.Clone()
	switch event {
	case EventVotedNo:
		if target != "" {
			out.Memory.Suspicions = append(out.Memory.Suspicions, target)
		}
	case EventAccused:
		if target != "" {
			out.Memory.Accusations = append(out.Memory.Accusations, target+": "+detail)
		}
	case EventMissionFailed:
		out.Memory.Behaviors = append(out.Memory.Behaviors, string(event)+": "+detail)
	}
	return out
}

// Suspiciousness scores how much an agent has seen go wrong, clamped to [0, 1]
func Suspiciousness(p models.Player) float64 {
	failed := 0
	for _, b := range p.Memory.Behaviors {
		if strings.Contains(b, "failed") {
			failed++
		}
	}
	score := float64(len(p.Memory.Suspicions))*0.2 +
		float64(len(p.Memory.Accusations))*0.3 +
		float64(failed)*0.4
	return math.Min(1, score)
}
