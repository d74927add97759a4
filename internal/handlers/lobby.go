package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aaronzipp/chrono-agents/internal/models"
	"github.com/aaronzipp/chrono-agents/internal/render"
	"github.com/aaronzipp/chrono-agents/internal/sse"
	"github.com/skip2/go-qrcode"
)

const qrSize = 256

type createResponse struct {
	Code string      `json:"code"`
	URL  string      `json:"url"`
	View render.View `json:"view"`
}

// HandleCreateSession starts a new game session at the title screen
func (ctx *Context) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := ctx.Store.Create(ctx.NewOptions())
	sess.Subscribe(ctx.publish)

	ctx.log.Info().Str("session", sess.Code()).Msg("created session")
	w.Header().Set("Location", "/v1/sessions/"+sess.Code())
	writeJSON(w, http.StatusCreated, createResponse{
		Code: sess.Code(),
		URL:  ctx.sessionURL(sess.Code()),
		View: render.NewView(sess.Code(), sess.Snapshot()),
	})
}

// HandleGetSession returns the client view of a session
func (ctx *Context) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := ctx.getSession(r)
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	ctx.respond(w, r, sess, nil)
}

// HandleCloseSession drops a session, cancels its timers and disconnects its clients
func (ctx *Context) HandleCloseSession(w http.ResponseWriter, r *http.Request) {
	sess, err := ctx.getSession(r)
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	ctx.Store.Delete(sess.Code())
	ctx.Hub.Close(sess.Code())
	ctx.log.Info().Str("session", sess.Code()).Msg("closed session")
	w.WriteHeader(http.StatusNoContent)
}

// HandleQRCode serves a PNG QR code that points at the session
func (ctx *Context) HandleQRCode(w http.ResponseWriter, r *http.Request) {
	sess, err := ctx.getSession(r)
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	png, err := qrcode.Encode(ctx.sessionURL(sess.Code()), qrcode.Medium, qrSize)
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(png)
}

func (ctx *Context) sessionURL(code string) string {
	return strings.TrimRight(ctx.BaseURL, "/") + "/v1/sessions/" + code
}

// publish is every session's listener: it renders the new state once and fans
// it out to SSE and WebSocket clients
func (ctx *Context) publish(code string, state models.GameState) {
	data, err := json.Marshal(render.NewView(code, state))
	if err != nil {
		ctx.log.Error().Err(err).Str("session", code).Msg("rendering view")
		return
	}
	ctx.Hub.Broadcast(code, sse.EventState, string(data))
}
