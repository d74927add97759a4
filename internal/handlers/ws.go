package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aaronzipp/chrono-agents/internal/render"
	"github.com/aaronzipp/chrono-agents/internal/session"
	"github.com/aaronzipp/chrono-agents/internal/sse"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsEnvelope is what the server pushes over the socket
type wsEnvelope struct {
	Type  string          `json:"type"`
	View  json.RawMessage `json:"view,omitempty"`
	Error string          `json:"error,omitempty"`
}

// HandleWebSocket pushes views like the SSE stream and accepts
// {"action": ..., ...} frames that drive the session
func (ctx *Context) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sess, err := ctx.getSession(r)
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		ctx.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	code := sess.Code()
	clientChan := ctx.Hub.Subscribe(code)
	log := ctx.log.With().Str("session", code).Str("remote", r.RemoteAddr).Logger()
	log.Debug().Msg("websocket client connected")

	// replies carries action errors from the read loop to the single writer
	replies := make(chan wsEnvelope, 8)
	done := make(chan struct{})
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		wsWritePump(conn, sess, clientChan, replies, done, log)
	}()
	wsReadPump(conn, sess, replies, writerDone, log)

	close(done)
	<-writerDone
	ctx.Hub.Unsubscribe(code, clientChan)
	log.Debug().Msg("websocket client disconnected")
}

func wsReadPump(conn *websocket.Conn, sess *session.Session, replies chan<- wsEnvelope, writerDone <-chan struct{}, log zerolog.Logger) {
	reply := func(err error) bool {
		select {
		case replies <- wsEnvelope{Type: sse.EventError, Error: err.Error()}:
			return true
		case <-writerDone:
			return false
		}
	}

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msg("websocket read error")
			}
			return
		}

		var req actionRequest
		if err := json.Unmarshal(data, &req); err != nil {
			if !reply(fmt.Errorf("%w: %v", errBadRequest, err)) {
				return
			}
			continue
		}
		// successful actions reach this client through the hub like every other change
		if err := dispatch(sess, req); err != nil && !reply(err) {
			return
		}
	}
}

func wsWritePump(conn *websocket.Conn, sess *session.Session, clientChan <-chan sse.Message, replies <-chan wsEnvelope, done <-chan struct{}, log zerolog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	view, err := json.Marshal(render.NewView(sess.Code(), sess.Snapshot()))
	if err != nil {
		log.Error().Err(err).Msg("rendering view")
		return
	}
	if err := writeEnvelope(conn, wsEnvelope{Type: sse.EventState, View: view}); err != nil {
		return
	}

	for {
		select {
		case <-done:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case msg := <-clientChan:
			env := wsEnvelope{Type: msg.Event}
			if msg.Event == sse.EventState {
				env.View = json.RawMessage(msg.Data)
			}
			if err := writeEnvelope(conn, env); err != nil {
				return
			}
			if msg.Event == sse.EventClosed {
				return
			}
		case env := <-replies:
			if err := writeEnvelope(conn, env); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeEnvelope(conn *websocket.Conn, env wsEnvelope) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}
