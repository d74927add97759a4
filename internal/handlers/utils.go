package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aaronzipp/chrono-agents/internal/render"
	"github.com/aaronzipp/chrono-agents/internal/session"
	"github.com/aaronzipp/chrono-agents/internal/store"
	"github.com/gorilla/mux"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

var (
	errSessionNotFound = errors.New("session not found")
	errBadRequest      = errors.New("invalid request body")
	errReplaceDisabled = errors.New("state replace is disabled")
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (ctx *Context) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		ctx.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps session and transport errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, errSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, errReplaceDisabled):
		return http.StatusForbidden
	case errors.Is(err, session.ErrWrongPhase), errors.Is(err, session.ErrNotLeader):
		return http.StatusConflict
	case errors.Is(err, session.ErrChatRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, errBadRequest),
		errors.Is(err, session.ErrTeamTooLarge),
		errors.Is(err, session.ErrTeamIncomplete),
		errors.Is(err, session.ErrUnknownPlayer),
		errors.Is(err, session.ErrDuplicatePlayer),
		errors.Is(err, session.ErrInvalidSettings),
		errors.Is(err, session.ErrInvalidVote),
		errors.Is(err, session.ErrEmptyMessage),
		errors.Is(err, session.ErrMessageTooLong),
		errors.Is(err, session.ErrInvalidMessageType),
		errors.Is(err, session.ErrInvalidState):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// getSession resolves the {code} route variable
func (ctx *Context) getSession(r *http.Request) (*session.Session, error) {
	code := store.NormalizeCode(mux.Vars(r)["code"])
	sess, exists := ctx.Store.Get(code)
	if !exists {
		return nil, fmt.Errorf("%w: %s", errSessionNotFound, code)
	}
	return sess, nil
}

// decode reads a JSON body into v; an empty body leaves v untouched
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// respond answers with the session's current view, or with err
func (ctx *Context) respond(w http.ResponseWriter, r *http.Request, sess *session.Session, err error) {
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, render.NewView(sess.Code(), sess.Snapshot()))
}
