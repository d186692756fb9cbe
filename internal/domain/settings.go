package domain

import (
	"context"
	"time"
)

// EventState is the lifecycle phase of the barcamp.
type EventState string

const (
	EventStateDraft        EventState = "DRAFT"
	EventStateGridOpen     EventState = "GRID_OPEN"
	EventStateGridClosed   EventState = "GRID_CLOSED"
	EventStateEventStarted EventState = "EVENT_STARTED"
	EventStateEventOver    EventState = "EVENT_OVER"
)

// eventStateTransitions lists the states reachable from each state.
var eventStateTransitions = map[EventState][]EventState{
	EventStateDraft:        {EventStateGridOpen},
	EventStateGridOpen:     {EventStateGridClosed},
	EventStateGridClosed:   {EventStateGridOpen, EventStateEventStarted},
	EventStateEventStarted: {EventStateEventOver},
}

// Valid reports whether s is a known state.
func (s EventState) Valid() bool {
	switch s {
	case EventStateDraft, EventStateGridOpen, EventStateGridClosed, EventStateEventStarted, EventStateEventOver:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle may move from s to next.
func (s EventState) CanTransitionTo(next EventState) bool {
	for _, allowed := range eventStateTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// GridVisible reports whether attendees may look at the grid in this state.
func (s EventState) GridVisible() bool {
	return s == EventStateGridOpen || s == EventStateGridClosed || s == EventStateEventStarted
}

// GlobalSettings is the singleton settings record of a deployment.
// swagger:model GlobalSettings
type GlobalSettings struct {
	EventState EventState `json:"event_state"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// SettingsReader gives read-only access to the global settings.
type SettingsReader interface {
	Get(ctx context.Context) (*GlobalSettings, error)
}

// SettingsRepository defines storage for the global settings row.
type SettingsRepository interface {
	SettingsReader
	// UpdateEventState stores the new state only if the current state is still from.
	UpdateEventState(ctx context.Context, from, to EventState) (*GlobalSettings, error)
}

// SettingsService defines the administrative operations on the event lifecycle.
type SettingsService interface {
	SettingsReader
	TransitionEventState(ctx context.Context, to EventState) (*GlobalSettings, error)
}
