package handlers

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aaronzipp/chrono-agents/internal/game"
	"github.com/aaronzipp/chrono-agents/internal/models"
	"github.com/aaronzipp/chrono-agents/internal/render"
	"github.com/aaronzipp/chrono-agents/internal/session"
	"github.com/aaronzipp/chrono-agents/internal/sse"
	"github.com/aaronzipp/chrono-agents/internal/store"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var forcedProbs = game.Probabilities{
	HumanGoodChance:        1,
	SaboteurApproveOnTeam:  1,
	SaboteurApproveOffTeam: 1,
	LoyalApprove:           1,
	SaboteurFail:           1,
}

type testServer struct {
	ctx *Context
	srv *httptest.Server
}

func newTestServer(t *testing.T, allowReplace bool, tweak func(*session.Options)) *testServer {
	t.Helper()
	newOptions := func() session.Options {
		opts := session.Options{
			Probabilities: forcedProbs,
			Rand:          rand.New(rand.NewSource(7)),
			TickInterval:  time.Hour,
			AILeaderDelay: time.Hour,
		}
		if tweak != nil {
			tweak(&opts)
		}
		return opts
	}
	ctx := NewContext(store.NewSessionStore(), sse.NewHub(10, time.Second), newOptions, "http://agents.test/", allowReplace)
	srv := httptest.NewServer(ctx.Router())
	t.Cleanup(srv.Close)
	return &testServer{ctx: ctx, srv: srv}
}

func (ts *testServer) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.srv.URL+path, r)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func (ts *testServer) create(t *testing.T) string {
	t.Helper()
	res := ts.do(t, http.MethodPost, "/v1/sessions", "")
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var body createResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, "http://agents.test/v1/sessions/"+body.Code, body.URL)
	assert.Equal(t, models.PhaseStart, body.View.Phase)
	return body.Code
}

// act posts an action and decodes the resulting view
func (ts *testServer) act(t *testing.T, method, path, body string) render.View {
	t.Helper()
	res := ts.do(t, method, path, body)
	raw, _ := io.ReadAll(res.Body)
	require.Equal(t, http.StatusOK, res.StatusCode, string(raw))
	var v render.View
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestHTTP_FullMission(t *testing.T) {
	ts := newTestServer(t, false, nil)
	code := ts.create(t)
	base := "/v1/sessions/" + code

	v := ts.act(t, http.MethodPost, base+"/begin", "")
	assert.Equal(t, models.PhaseLobby, v.Phase)

	v = ts.act(t, http.MethodPost, base+"/start", `{"discussionTime":30,"playerRole":"good"}`)
	assert.Equal(t, models.PhaseRoleReveal, v.Phase)
	require.Len(t, v.Players, game.PlayerCount)
	assert.Equal(t, models.RoleHuman, v.Players[0].Role)
	for _, p := range v.Players[1:] {
		assert.Empty(t, p.Role)
	}

	v = ts.act(t, http.MethodPost, base+"/next", "")
	assert.Equal(t, models.PhaseMissionSelect, v.Phase)
	assert.True(t, v.HumanIsLeader)

	v = ts.act(t, http.MethodPut, base+"/team", `{"ids":["human","ai-0"]}`)
	assert.Equal(t, []string{"human", "ai-0"}, v.SelectedTeam)
	v = ts.act(t, http.MethodPost, base+"/team/ai-1", "")
	assert.Equal(t, []string{"human", "ai-0", "ai-1"}, v.SelectedTeam)

	v = ts.act(t, http.MethodPost, base+"/confirm-team", "")
	assert.Equal(t, models.PhaseTeamVote, v.Phase)

	v = ts.act(t, http.MethodPost, base+"/team-vote", `{"approve":true}`)
	assert.Equal(t, models.PhaseDiscussion, v.Phase)
	assert.Equal(t, 30, v.Timer)
	require.NotNil(t, v.LastTeamVote)
	assert.Equal(t, 5, v.LastTeamVote.Approvals)

	v = ts.act(t, http.MethodPost, base+"/chat", `{"message":"Dr. Nova seems suspicious","type":"accusation"}`)
	require.Len(t, v.Chat, 2)
	assert.Equal(t, game.HumanPlayerID, v.Chat[1].PlayerID)
	assert.Equal(t, models.MessageAccusation, v.Chat[1].Type)

	v = ts.act(t, http.MethodPost, base+"/expire", "")
	assert.Equal(t, models.PhaseMissionVote, v.Phase)

	v = ts.act(t, http.MethodPost, base+"/mission-vote", `{"vote":"success"}`)
	assert.Equal(t, models.PhaseMissionResult, v.Phase)
	m := v.Missions[0]
	assert.NotEqual(t, models.MissionPending, m.Status)
	assert.Equal(t, 3, m.Successes+m.Fails)
	assert.Nil(t, m.Votes)

	v = ts.act(t, http.MethodPost, base+"/next", "")
	assert.Equal(t, models.PhaseMissionSelect, v.Phase)
	assert.Equal(t, 1, v.CurrentMission)
	assert.Equal(t, 1, v.CurrentLeader)

	v = ts.act(t, http.MethodPost, base+"/main-menu", "")
	assert.Equal(t, models.PhaseStart, v.Phase)
	assert.Equal(t, 30, v.Settings.DiscussionTime)
}

func TestHTTP_Errors(t *testing.T) {
	ts := newTestServer(t, false, func(o *session.Options) {
		o.ChatBurst = 1
		o.ChatRate = 0.0001
	})
	code := ts.create(t)
	base := "/v1/sessions/" + code

	testCases := []struct {
		desc     string
		method   string
		path     string
		body     string
		expected int
	}{
		{desc: "unknown session", method: http.MethodGet, path: "/v1/sessions/ZZZZZZ", expected: http.StatusNotFound},
		{desc: "unknown action", method: http.MethodPost, path: base + "/dance", expected: http.StatusNotFound},
		{desc: "wrong phase", method: http.MethodPost, path: base + "/next", expected: http.StatusConflict},
		{desc: "restart before game end", method: http.MethodPost, path: base + "/restart", expected: http.StatusConflict},
		{desc: "replace disabled", method: http.MethodPut, path: base + "/state", body: `{}`, expected: http.StatusForbidden},
		{desc: "begin", method: http.MethodPost, path: base + "/begin", expected: http.StatusOK},
		{desc: "malformed body", method: http.MethodPost, path: base + "/start", body: `{"discussionTime":`, expected: http.StatusBadRequest},
		{desc: "unknown field", method: http.MethodPost, path: base + "/start", body: `{"difficulty":"hard"}`, expected: http.StatusBadRequest},
		{desc: "bad settings", method: http.MethodPost, path: base + "/start", body: `{"discussionTime":9000}`, expected: http.StatusBadRequest},
		{desc: "start", method: http.MethodPost, path: base + "/start", body: `{"playerRole":"good"}`, expected: http.StatusOK},
		{desc: "next", method: http.MethodPost, path: base + "/next", expected: http.StatusOK},
		{desc: "team too large", method: http.MethodPut, path: base + "/team", body: `{"ids":["human","ai-0","ai-1","ai-2"]}`, expected: http.StatusBadRequest},
		{desc: "unknown member", method: http.MethodPost, path: base + "/team/ai-9", expected: http.StatusBadRequest},
		{desc: "incomplete team", method: http.MethodPost, path: base + "/confirm-team", expected: http.StatusBadRequest},
		{desc: "team vote needs approve", method: http.MethodPost, path: base + "/team-vote", body: `{}`, expected: http.StatusBadRequest},
		{desc: "system chat reserved", method: http.MethodPost, path: base + "/chat", body: `{"message":"hi","type":"system"}`, expected: http.StatusBadRequest},
		{desc: "empty chat", method: http.MethodPost, path: base + "/chat", body: `{"message":"  "}`, expected: http.StatusBadRequest},
		{desc: "chat", method: http.MethodPost, path: base + "/chat", body: `{"message":"hello"}`, expected: http.StatusOK},
		{desc: "chat rate limited", method: http.MethodPost, path: base + "/chat", body: `{"message":"hello again"}`, expected: http.StatusTooManyRequests},
	}
	for _, tc := range testCases {
		res := ts.do(t, tc.method, tc.path, tc.body)
		raw, _ := io.ReadAll(res.Body)
		assert.Equal(t, tc.expected, res.StatusCode, "%s: %s", tc.desc, raw)
		if tc.expected >= 400 && tc.expected != http.StatusNotFound {
			var body errorResponse
			require.NoError(t, json.Unmarshal(raw, &body), tc.desc)
			assert.NotEmpty(t, body.Error, tc.desc)
		}
	}
}

func TestHTTP_ReplaceState(t *testing.T) {
	ts := newTestServer(t, true, nil)
	code := ts.create(t)

	state := models.GameState{
		Phase: models.PhaseGameEnd,
		Players: []models.Player{
			{ID: "human", Name: "Agent Alpha", Role: models.RoleHuman, Faction: models.FactionHumanAgents, IsHuman: true},
			{ID: "ai-0", Name: "Cyber-7", Role: models.RoleSaboteur, Faction: models.FactionSaboteurs, Personality: models.PersonalityLogical, Tone: "robotic"},
		},
		Missions: game.NewMissions(),
	}
	for i := range state.Missions {
		state.Missions[i].Status = models.MissionSuccess
	}
	raw, err := json.Marshal(state)
	require.NoError(t, err)

	v := ts.act(t, http.MethodPut, "/v1/sessions/"+code+"/state", string(raw))
	assert.Equal(t, models.PhaseGameEnd, v.Phase)
	assert.Equal(t, models.RoleSaboteur, v.Players[1].Role)
	require.NotNil(t, v.Result)
	assert.Equal(t, models.FactionHumanAgents, v.Result.Winner)
	assert.True(t, v.Result.HumanWon)

	res := ts.do(t, http.MethodPut, "/v1/sessions/"+code+"/state", `{"phase":"limbo"}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestHTTP_CloseSession(t *testing.T) {
	ts := newTestServer(t, false, nil)
	code := ts.create(t)

	res := ts.do(t, http.MethodGet, "/health", "")
	var health map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&health))
	assert.Equal(t, "ok", health["status"])
	assert.EqualValues(t, 1, health["sessions"])

	res = ts.do(t, http.MethodDelete, "/v1/sessions/"+code, "")
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res = ts.do(t, http.MethodGet, "/v1/sessions/"+code, "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, 0, ts.ctx.Store.Len())
}

func TestHTTP_LowercaseCode(t *testing.T) {
	ts := newTestServer(t, false, nil)
	code := ts.create(t)
	v := ts.act(t, http.MethodGet, "/v1/sessions/"+strings.ToLower(code), "")
	assert.Equal(t, code, v.Code)
}

func TestHTTP_QRCode(t *testing.T) {
	ts := newTestServer(t, false, nil)
	code := ts.create(t)

	res := ts.do(t, http.MethodGet, "/v1/sessions/"+code+"/qr.png", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "image/png", res.Header.Get("Content-Type"))
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("\x89PNG\r\n\x1a\n")))
}

// readEvent reads one text/event-stream frame
func readEvent(t *testing.T, r *bufio.Reader) sse.Message {
	t.Helper()
	var msg sse.Message
	var data []string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			msg.Data = strings.Join(data, "\n")
			return msg
		case strings.HasPrefix(line, "event: "):
			msg.Event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = append(data, strings.TrimPrefix(line, "data: "))
		}
	}
}

func TestSSE_StreamsStateChanges(t *testing.T) {
	ts := newTestServer(t, false, nil)
	code := ts.create(t)

	res := ts.do(t, http.MethodGet, "/v1/sessions/"+code+"/events", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))
	r := bufio.NewReader(res.Body)

	first := readEvent(t, r)
	assert.Equal(t, sse.EventState, first.Event)
	var v render.View
	require.NoError(t, json.Unmarshal([]byte(first.Data), &v))
	assert.Equal(t, models.PhaseStart, v.Phase)

	require.Eventually(t, func() bool { return ts.ctx.Hub.ClientCount(code) == 1 }, time.Second, 10*time.Millisecond)
	ts.act(t, http.MethodPost, "/v1/sessions/"+code+"/begin", "")

	next := readEvent(t, r)
	assert.Equal(t, sse.EventState, next.Event)
	require.NoError(t, json.Unmarshal([]byte(next.Data), &v))
	assert.Equal(t, models.PhaseLobby, v.Phase)
	assert.Equal(t, 1, v.Version)

	ts.do(t, http.MethodDelete, "/v1/sessions/"+code, "")
	closed := readEvent(t, r)
	assert.Equal(t, sse.EventClosed, closed.Event)
}

func TestWebSocket_ActionsAndPushes(t *testing.T) {
	ts := newTestServer(t, false, nil)
	code := ts.create(t)

	wsURL := "ws" + strings.TrimPrefix(ts.srv.URL, "http") + "/v1/sessions/" + code + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var env struct {
		Type  string      `json:"type"`
		View  render.View `json:"view"`
		Error string      `json:"error"`
	}
	require.NoError(t, conn.ReadJSON(&env))
	assert.Equal(t, sse.EventState, env.Type)
	assert.Equal(t, models.PhaseStart, env.View.Phase)

	require.NoError(t, conn.WriteJSON(map[string]any{"action": ActionBegin}))
	require.NoError(t, conn.ReadJSON(&env))
	assert.Equal(t, sse.EventState, env.Type)
	assert.Equal(t, models.PhaseLobby, env.View.Phase)

	require.NoError(t, conn.WriteJSON(map[string]any{"action": ActionNext}))
	env.Error = ""
	require.NoError(t, conn.ReadJSON(&env))
	assert.Equal(t, sse.EventError, env.Type)
	assert.Contains(t, env.Error, "not allowed in current phase")

	require.NoError(t, conn.WriteJSON(map[string]any{"action": ActionStart, "playerRole": "evil", "discussionTime": 45}))
	require.NoError(t, conn.ReadJSON(&env))
	assert.Equal(t, models.PhaseRoleReveal, env.View.Phase)
	assert.True(t, env.View.CanSabotage)
	assert.Equal(t, 45, env.View.Settings.DiscussionTime)
}
