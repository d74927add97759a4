package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aaronzipp/chrono-agents/internal/render"
	"github.com/aaronzipp/chrono-agents/internal/sse"
)

// HandleSSE streams a session's views as Server-Sent Events
func (ctx *Context) HandleSSE(w http.ResponseWriter, r *http.Request) {
	sess, err := ctx.getSession(r)
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable buffering in nginx/proxies

	code := sess.Code()
	clientChan := ctx.Hub.Subscribe(code)
	defer ctx.Hub.Unsubscribe(code, clientChan)
	log := ctx.log.With().Str("session", code).Str("remote", r.RemoteAddr).Logger()
	log.Debug().Msg("sse client connected")

	// Send the current view so the client never starts blank
	data, err := json.Marshal(render.NewView(code, sess.Snapshot()))
	if err != nil {
		log.Error().Err(err).Msg("rendering view")
		return
	}
	if err := sse.Write(w, sse.Message{Event: sse.EventState, Data: string(data)}); err != nil {
		return
	}
	flusher.Flush()

	reqCtx := r.Context()
	for {
		select {
		case <-reqCtx.Done():
			log.Debug().Msg("sse client disconnected")
			return
		case msg := <-clientChan:
			if err := sse.Write(w, msg); err != nil {
				log.Debug().Err(err).Msg("sse write failed")
				return
			}
			flusher.Flush()
			if msg.Event == sse.EventClosed {
				return
			}
		}
	}
}
