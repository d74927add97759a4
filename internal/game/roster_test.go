package game

import (
	"math/rand"
	"testing"

	"github.com/aaronzipp/chrono-agents/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRand always draws the same float, index 0, and never shuffles
type fixedRand struct {
	f float64
}

func (r fixedRand) Float64() float64                  { return r.f }
func (r fixedRand) Intn(n int) int                    { return 0 }
func (r fixedRand) Shuffle(n int, swap func(i, j int)) {}

func TestNewAIRoster_RoleSplitAndUniqueness(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 1000; trial++ {
		roster := NewAIRoster(rng)
		require.Len(t, roster, AIPlayerCount)

		roles := map[models.Role]int{}
		personalities := map[models.Personality]bool{}
		ids := map[string]bool{}
		for _, p := range roster {
			roles[p.Role]++
			personalities[p.Personality] = true
			ids[p.ID] = true
			assert.False(t, p.IsHuman)
			assert.Equal(t, p.Role.Faction(), p.Faction)
			assert.Empty(t, p.Memory.Suspicions)
			assert.Empty(t, p.Memory.Accusations)
		}
		require.Equal(t, 2, roles[models.RoleHuman], "trial %d", trial)
		require.Equal(t, 2, roles[models.RoleSaboteur], "trial %d", trial)
		require.Len(t, personalities, 4, "trial %d", trial)
		require.Len(t, ids, 4, "trial %d", trial)
	}
}

func TestNewAIRoster_ShufflesPersonalitiesAndRolesIndependently(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pairs := map[string]bool{}
	for trial := 0; trial < 500; trial++ {
		for _, p := range NewAIRoster(rng) {
			pairs[p.Personality.String()+"/"+string(p.Role)] = true
		}
	}
	// every personality shows up with both roles
	assert.Len(t, pairs, 8)
}

func TestNewHumanPlayer(t *testing.T) {
	probs := DefaultProbabilities()

	good := NewHumanPlayer(models.PreferGood, probs, fixedRand{f: 0.99})
	assert.Equal(t, models.RoleHuman, good.Role)
	assert.Equal(t, models.FactionHumanAgents, good.Faction)
	assert.True(t, good.IsHuman)
	assert.Equal(t, HumanPlayerID, good.ID)

	evil := NewHumanPlayer(models.PreferEvil, probs, fixedRand{f: 0})
	assert.Equal(t, models.RoleSaboteur, evil.Role)
	assert.Equal(t, models.FactionSaboteurs, evil.Faction)

	assert.Equal(t, models.RoleHuman, NewHumanPlayer(models.PreferRandom, probs, fixedRand{f: 0.59}).Role)
	assert.Equal(t, models.RoleSaboteur, NewHumanPlayer(models.PreferRandom, probs, fixedRand{f: 0.6}).Role)
}

func TestNewRoster_SeatsHumanFirst(t *testing.T) {
	roster := NewRoster(models.PreferGood, DefaultProbabilities(), rand.New(rand.NewSource(1)))
	require.Len(t, roster, PlayerCount)
	assert.True(t, roster[0].IsHuman)

	humans := 0
	for _, p := range roster {
		if p.IsHuman {
			humans++
		}
	}
	assert.Equal(t, 1, humans)
}

func TestNewMissions_FreshCopy(t *testing.T) {
	missions := NewMissions()
	require.Len(t, missions, 3)
	for i, m := range missions {
		assert.Equal(t, i+1, m.ID)
		assert.Equal(t, models.MissionPending, m.Status)
		assert.Equal(t, 1, m.FailsNeeded)
	}
	assert.Equal(t, []int{3, 4, 4}, []int{missions[0].TeamSize, missions[1].TeamSize, missions[2].TeamSize})

	missions[0].Status = models.MissionFailed
	assert.Equal(t, models.MissionPending, NewMissions()[0].Status)
}

func TestProposeTeam(t *testing.T) {
	roster := NewRoster(models.PreferGood, DefaultProbabilities(), rand.New(rand.NewSource(3)))
	team := ProposeTeam(roster, 3, rand.New(rand.NewSource(9)))
	require.Len(t, team, 3)

	seen := map[string]bool{}
	for _, id := range team {
		assert.False(t, seen[id], "duplicate %s", id)
		seen[id] = true
	}

	assert.Len(t, ProposeTeam(roster, 10, fixedRand{}), len(roster))
}
