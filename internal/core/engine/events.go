package engine

import (
	"time"

	"zerohour/internal/core/model"
)

// EventType defines the type of engine event.
type EventType string

const (
	// EventTick carries refreshed components and progress for one timer.
	EventTick EventType = "tick"
	// EventWarning fires once per epoch when the alert threshold is crossed.
	EventWarning EventType = "warning"
	// EventExpired fires once per epoch when a timer reaches zero.
	EventExpired EventType = "expired"
	// EventListChanged asks the embedder for a full re-render.
	EventListChanged EventType = "list_changed"
)

// Event represents an engine update for observers.
type Event struct {
	Type        EventType
	TimerID     string
	Name        string
	Components  model.Components
	Progress    float64
	MinutesLeft int
	At          time.Time
}
