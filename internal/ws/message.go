package ws

import "encoding/json"

// Message represents a WebSocket message with type-based routing.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Message types - client to server
const (
	TypeStartRun    = "start_run"
	TypeSubmitInput = "submit_input"
	TypeSetMinimap  = "set_minimap"
	TypeEndRun      = "end_run"
)

// Message types - server to client
const (
	TypeRunStarted        = "run_started"
	TypeRunState          = "run_state"
	TypeDeliveryCompleted = "delivery_completed"
	TypeMissionExpired    = "mission_expired"
	TypeGameOver          = "game_over"
)

// Message types - System
const (
	TypeError = "error"
)

// ErrorMessage is sent when an error occurs.
type ErrorMessage struct {
	Message string `json:"message"`
}

// NewErrorMessage creates a Message with an error payload.
func NewErrorMessage(msg string) Message {
	data, _ := json.Marshal(ErrorMessage{Message: msg})
	return Message{Type: TypeError, Data: data}
}

// NewMessage creates a Message with a typed payload.
func NewMessage(msgType string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Data: data}, nil
}
