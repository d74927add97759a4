package handlers

import (
	"net/http"

	"github.com/aaronzipp/chrono-agents/internal/logger"
	"github.com/aaronzipp/chrono-agents/internal/session"
	"github.com/aaronzipp/chrono-agents/internal/sse"
	"github.com/aaronzipp/chrono-agents/internal/store"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Context holds shared application dependencies
type Context struct {
	Store             *store.SessionStore
	Hub               *sse.Hub
	NewOptions        func() session.Options
	BaseURL           string
	AllowStateReplace bool

	log zerolog.Logger
}

// NewContext wires the dependencies every handler needs
func NewContext(sessions *store.SessionStore, hub *sse.Hub, newOptions func() session.Options, baseURL string, allowStateReplace bool) *Context {
	if newOptions == nil {
		newOptions = session.NewOptions
	}
	return &Context{
		Store:             sessions,
		Hub:               hub,
		NewOptions:        newOptions,
		BaseURL:           baseURL,
		AllowStateReplace: allowStateReplace,
		log:               logger.For("http"),
	}
}

// Router builds the HTTP routes
func (ctx *Context) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", ctx.HandleHealth).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/sessions", ctx.HandleCreateSession).Methods(http.MethodPost)
	v1.HandleFunc("/sessions/{code}", ctx.HandleGetSession).Methods(http.MethodGet)
	v1.HandleFunc("/sessions/{code}", ctx.HandleCloseSession).Methods(http.MethodDelete)
	v1.HandleFunc("/sessions/{code}/qr.png", ctx.HandleQRCode).Methods(http.MethodGet)
	v1.HandleFunc("/sessions/{code}/events", ctx.HandleSSE).Methods(http.MethodGet)
	v1.HandleFunc("/sessions/{code}/ws", ctx.HandleWebSocket).Methods(http.MethodGet)

	v1.HandleFunc("/sessions/{code}/start", ctx.HandleStartGame).Methods(http.MethodPost)
	v1.HandleFunc("/sessions/{code}/team", ctx.HandleSelectTeam).Methods(http.MethodPut)
	v1.HandleFunc("/sessions/{code}/team/{id}", ctx.HandleToggleTeamMember).Methods(http.MethodPost)
	v1.HandleFunc("/sessions/{code}/team-vote", ctx.HandleTeamVote).Methods(http.MethodPost)
	v1.HandleFunc("/sessions/{code}/mission-vote", ctx.HandleMissionVote).Methods(http.MethodPost)
	v1.HandleFunc("/sessions/{code}/chat", ctx.HandleChat).Methods(http.MethodPost)
	v1.HandleFunc("/sessions/{code}/state", ctx.HandleReplaceState).Methods(http.MethodPut)
	v1.HandleFunc("/sessions/{code}/{action}", ctx.HandleAction).Methods(http.MethodPost)

	r.Use(ctx.logRequests)
	return r
}

// HandleHealth reports liveness and the number of live sessions
func (ctx *Context) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": ctx.Store.Len(),
	})
}

func (ctx *Context) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx.log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("request")
		next.ServeHTTP(w, r)
	})
}
