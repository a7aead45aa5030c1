package handler

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/ugaemi/citycourier-server/internal/game"
	"github.com/ugaemi/citycourier-server/internal/session"
	"github.com/ugaemi/citycourier-server/internal/ws"
)

// Router dispatches incoming messages to the appropriate handler.
type Router struct {
	runs *RunHandler

	// drivers tracks client ID -> driver, so best scores survive restarts.
	drivers map[string]*game.Driver
	mu      sync.RWMutex
}

// NewRouter creates a new message router.
func NewRouter(sm *session.Manager) *Router {
	r := &Router{
		drivers: make(map[string]*game.Driver),
	}
	r.runs = NewRunHandler(sm, r)
	return r
}

// RegisterDriver maps a client ID to a driver.
func (r *Router) RegisterDriver(clientID string, driver *game.Driver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drivers[clientID] = driver
}

// UnregisterDriver removes a client's driver mapping.
func (r *Router) UnregisterDriver(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drivers, clientID)
}

// GetDriver returns the driver for a client, or nil if not found.
func (r *Router) GetDriver(clientID string) *game.Driver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.drivers[clientID]
}

// HandleMessage parses and routes an incoming client message.
func (r *Router) HandleMessage(cm *ws.ClientMessage) {
	var msg ws.Message
	if err := json.Unmarshal(cm.Data, &msg); err != nil {
		slog.Warn("invalid message format", "client", cm.Client.ID, "error", err)
		cm.Client.SendMessage(ws.NewErrorMessage("invalid message format"))
		return
	}

	switch msg.Type {
	case ws.TypeStartRun:
		r.runs.HandleStartRun(cm.Client, msg)
	case ws.TypeSubmitInput:
		r.runs.HandleSubmitInput(cm.Client, msg)
	case ws.TypeSetMinimap:
		r.runs.HandleSetMinimap(cm.Client, msg)
	case ws.TypeEndRun:
		r.runs.HandleEndRun(cm.Client, msg)

	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", cm.Client.ID)
		cm.Client.SendMessage(ws.NewErrorMessage("unknown message type: " + msg.Type))
	}
}

// HandleDisconnect handles client disconnection.
func (r *Router) HandleDisconnect(client *ws.Client) {
	r.runs.HandleDisconnect(client)
}
