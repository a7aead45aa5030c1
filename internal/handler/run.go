package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/ugaemi/citycourier-server/internal/game"
	"github.com/ugaemi/citycourier-server/internal/session"
	"github.com/ugaemi/citycourier-server/internal/ws"
)

const maxNicknameLength = 20

// RunHandler handles run lifecycle and in-run control messages.
type RunHandler struct {
	sm     *session.Manager
	router *Router
}

// NewRunHandler creates a new run handler.
func NewRunHandler(sm *session.Manager, router *Router) *RunHandler {
	return &RunHandler{
		sm:     sm,
		router: router,
	}
}

type startRunRequest struct {
	Nickname string `json:"nickname"`
}

// HandleStartRun starts a new run for the client. The first run needs a
// nickname; later runs reuse the client's driver unless a new one is given.
func (h *RunHandler) HandleStartRun(client *ws.Client, msg ws.Message) {
	var req startRunRequest
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			client.SendMessage(ws.NewErrorMessage("invalid start_run data"))
			return
		}
	}
	nickname := strings.TrimSpace(req.Nickname)
	if len([]rune(nickname)) > maxNicknameLength {
		client.SendMessage(ws.NewErrorMessage("nickname is too long"))
		return
	}

	driver := h.router.GetDriver(client.ID)
	switch {
	case driver == nil && nickname == "":
		client.SendMessage(ws.NewErrorMessage("nickname is required"))
		return
	case driver == nil:
		driver = game.NewDriver(nickname)
		h.router.RegisterDriver(client.ID, driver)
	}

	s, err := h.sm.Create(driver, client)
	if errors.Is(err, session.ErrRunInProgress) {
		client.SendMessage(ws.NewErrorMessage("run already in progress"))
		return
	}
	if err != nil {
		slog.Error("failed to create session", "client", client.ID, "error", err)
		client.SendMessage(ws.NewErrorMessage("failed to start run"))
		return
	}
	if nickname != "" {
		driver.Nickname = nickname
	}

	if err := s.Start(); err != nil {
		slog.Error("failed to start session", "session", s.ID, "error", err)
		client.SendMessage(ws.NewErrorMessage("failed to start run"))
		h.sm.Remove(s.ID)
		return
	}
}

// HandleSubmitInput replaces the held controls of the client's run.
func (h *RunHandler) HandleSubmitInput(client *ws.Client, msg ws.Message) {
	var flags game.InputFlags
	if err := json.Unmarshal(msg.Data, &flags); err != nil {
		client.SendMessage(ws.NewErrorMessage("invalid input data"))
		return
	}

	s := h.activeSession(client)
	if s == nil {
		return
	}
	s.SubmitInput(flags)
}

type setMinimapRequest struct {
	Orientation string `json:"orientation"`
}

// HandleSetMinimap switches the minimap orientation of the client's run.
func (h *RunHandler) HandleSetMinimap(client *ws.Client, msg ws.Message) {
	var req setMinimapRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		client.SendMessage(ws.NewErrorMessage("invalid minimap data"))
		return
	}
	switch req.Orientation {
	case game.NorthLocked.String(), game.HeadingLocked.String():
	default:
		client.SendMessage(ws.NewErrorMessage("orientation must be north or heading"))
		return
	}

	s := h.activeSession(client)
	if s == nil {
		return
	}
	s.SetMinimapOrientation(game.ParseMinimapOrientation(req.Orientation))
}

// HandleEndRun quits the client's run early.
func (h *RunHandler) HandleEndRun(client *ws.Client, _ ws.Message) {
	s := h.activeSession(client)
	if s == nil {
		return
	}
	s.Stop()
}

// HandleDisconnect handles client disconnection.
func (h *RunHandler) HandleDisconnect(client *ws.Client) {
	if s := h.sm.FindByClientID(client.ID); s != nil {
		h.sm.Remove(s.ID)
	}

	driver := h.router.GetDriver(client.ID)
	h.router.UnregisterDriver(client.ID)
	if driver != nil {
		slog.Info("driver left", "driver", driver.Nickname, "best_score", driver.BestScore)
	}
}

// activeSession returns the client's running session, or reports an error
// to the client and returns nil.
func (h *RunHandler) activeSession(client *ws.Client) *session.Session {
	s := h.sm.FindByClientID(client.ID)
	if s == nil || !s.IsRunning() {
		client.SendMessage(ws.NewErrorMessage("no active run"))
		return nil
	}
	return s
}
