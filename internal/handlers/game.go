package handlers

import (
	"fmt"
	"net/http"

	"github.com/aaronzipp/chrono-agents/internal/game"
	"github.com/aaronzipp/chrono-agents/internal/models"
	"github.com/aaronzipp/chrono-agents/internal/session"
	"github.com/gorilla/mux"
)

// Action names shared by the HTTP routes and the WebSocket protocol
const (
	ActionBegin       = "begin"
	ActionHowToPlay   = "how-to-play"
	ActionMainMenu    = "main-menu"
	ActionNext        = "next"
	ActionRestart     = "restart"
	ActionReset       = "reset"
	ActionConfirmTeam = "confirm-team"
	ActionSkipTimer   = "expire"
	ActionStart       = "start"
	ActionSelectTeam  = "select-team"
	ActionToggleTeam  = "toggle-team"
	ActionTeamVote    = "team-vote"
	ActionMissionVote = "mission-vote"
	ActionChat        = "chat"
)

var simpleActions = map[string]func(*session.Session) error{
	ActionBegin:       (*session.Session).Begin,
	ActionHowToPlay:   (*session.Session).ShowHowToPlay,
	ActionMainMenu:    (*session.Session).MainMenu,
	ActionNext:        (*session.Session).NextPhase,
	ActionRestart:     (*session.Session).Restart,
	ActionReset:       (*session.Session).Reset,
	ActionConfirmTeam: (*session.Session).ConfirmTeam,
	ActionSkipTimer:   (*session.Session).ExpireTimer,
}

// actionRequest is the union of every action's parameters
type actionRequest struct {
	Action         string                   `json:"action,omitempty"`
	DiscussionTime int                      `json:"discussionTime,omitempty"`
	PlayerRole     models.RolePreference    `json:"playerRole,omitempty"`
	IDs            []string                 `json:"ids,omitempty"`
	ID             string                   `json:"id,omitempty"`
	Approve        *bool                    `json:"approve,omitempty"`
	Vote           models.MissionVoteChoice `json:"vote,omitempty"`
	Message        string                   `json:"message,omitempty"`
	Type           models.MessageType       `json:"type,omitempty"`
}

// dispatch applies one action to a session on behalf of the human player
func dispatch(sess *session.Session, req actionRequest) error {
	if fn, ok := simpleActions[req.Action]; ok {
		return fn(sess)
	}
	switch req.Action {
	case ActionStart:
		return sess.StartGame(models.Settings{
			DiscussionTime: req.DiscussionTime,
			PlayerRole:     req.PlayerRole,
		})
	case ActionSelectTeam:
		return sess.SelectTeam(req.IDs)
	case ActionToggleTeam:
		return sess.ToggleTeamMember(req.ID)
	case ActionTeamVote:
		if req.Approve == nil {
			return fmt.Errorf("%w: approve is required", errBadRequest)
		}
		return sess.SubmitTeamVote(*req.Approve)
	case ActionMissionVote:
		return sess.SubmitMissionVote(req.Vote)
	case ActionChat:
		if req.Type == models.MessageSystem {
			return fmt.Errorf("%w: system messages are reserved", session.ErrInvalidMessageType)
		}
		return sess.AddChatMessage(session.ChatInput{
			PlayerID: game.HumanPlayerID,
			Message:  req.Message,
			Type:     req.Type,
		})
	default:
		return fmt.Errorf("%w: unknown action %q", errBadRequest, req.Action)
	}
}

// HandleAction runs a parameterless action named by the {action} route variable
func (ctx *Context) HandleAction(w http.ResponseWriter, r *http.Request) {
	action := mux.Vars(r)["action"]
	if _, ok := simpleActions[action]; !ok {
		http.NotFound(w, r)
		return
	}
	ctx.handle(w, r, actionRequest{Action: action}, false)
}

// HandleStartGame applies the lobby settings and deals roles
func (ctx *Context) HandleStartGame(w http.ResponseWriter, r *http.Request) {
	ctx.handle(w, r, actionRequest{Action: ActionStart}, true)
}

// HandleSelectTeam replaces the proposed team
func (ctx *Context) HandleSelectTeam(w http.ResponseWriter, r *http.Request) {
	ctx.handle(w, r, actionRequest{Action: ActionSelectTeam}, true)
}

// HandleToggleTeamMember adds or removes {id} from the proposed team
func (ctx *Context) HandleToggleTeamMember(w http.ResponseWriter, r *http.Request) {
	ctx.handle(w, r, actionRequest{Action: ActionToggleTeam, ID: mux.Vars(r)["id"]}, false)
}

// HandleTeamVote records the human's approve/reject
func (ctx *Context) HandleTeamVote(w http.ResponseWriter, r *http.Request) {
	ctx.handle(w, r, actionRequest{Action: ActionTeamVote}, true)
}

// HandleMissionVote plays the human's mission card
func (ctx *Context) HandleMissionVote(w http.ResponseWriter, r *http.Request) {
	ctx.handle(w, r, actionRequest{Action: ActionMissionVote}, true)
}

// HandleChat posts a chat line as the human player
func (ctx *Context) HandleChat(w http.ResponseWriter, r *http.Request) {
	ctx.handle(w, r, actionRequest{Action: ActionChat}, true)
}

// HandleReplaceState swaps in a whole game state. Only enabled for debugging.
func (ctx *Context) HandleReplaceState(w http.ResponseWriter, r *http.Request) {
	if !ctx.AllowStateReplace {
		ctx.writeError(w, r, errReplaceDisabled)
		return
	}
	sess, err := ctx.getSession(r)
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	var state models.GameState
	if err := decode(w, r, &state); err != nil {
		ctx.writeError(w, r, err)
		return
	}
	ctx.log.Warn().Str("session", sess.Code()).Str("phase", string(state.Phase)).Msg("replacing state")
	ctx.respond(w, r, sess, sess.Replace(state))
}

// handle resolves the session, optionally decodes the body into req and dispatches
func (ctx *Context) handle(w http.ResponseWriter, r *http.Request, req actionRequest, withBody bool) {
	sess, err := ctx.getSession(r)
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	if withBody {
		action, id := req.Action, req.ID
		if err := decode(w, r, &req); err != nil {
			ctx.writeError(w, r, err)
			return
		}
		req.Action, req.ID = action, id
	}
	ctx.respond(w, r, sess, dispatch(sess, req))
}
