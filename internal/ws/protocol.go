package ws

import (
	"github.com/hackersim/backend/internal/progress"
	"github.com/hackersim/backend/internal/state"
	"github.com/hackersim/backend/internal/telemetry"
)

type MessageType string

const (
	MsgSnapshot  MessageType = "snapshot"
	MsgEvent     MessageType = "event"
	MsgTelemetry MessageType = "telemetry"
	MsgError     MessageType = "error"
)

type WSMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// SnapshotPayload carries the full game state plus derived level progress.
type SnapshotPayload struct {
	State    *state.GameState  `json:"state"`
	Progress progress.Progress `json:"progress"`
}

// EventPayload forwards one bus event to connected clients.
type EventPayload struct {
	Topic string      `json:"topic"`
	Data  interface{} `json:"data"`
}

type TelemetryPayload struct {
	Host telemetry.HostStatus `json:"host"`
}
