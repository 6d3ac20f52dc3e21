// Package steps tracks the 4-step setup checklist and fans status changes
// out to the UI sink and the persistent state store.
package steps

import (
	"sync"

	"github.com/mcpdeck/mcpdeck/internal/sink"
	"github.com/mcpdeck/mcpdeck/pkg/types"
)

// Labels maps each fixed step id to its display name.
var Labels = map[int]string{
	types.StepWorkspaceConfig:   "Workspace configuration scaffolded",
	types.StepAssistantSettings: "Assistant settings configured",
	types.StepControlPlane:      "Control plane launched",
	types.StepServerRunning:     "Server running",
}

// Store persists step statuses across process restarts.
// *state.Service satisfies this.
type Store interface {
	SetStepStatus(stepID int, status types.StepStatus) error
	GetStepStatus(stepID int) (types.StepStatus, error)
}

// Tracker holds the in-session view of the checklist.
type Tracker struct {
	sink  sink.Sink
	store Store

	mu       sync.Mutex
	statuses map[int]types.StepStatus
}

// NewTracker creates a tracker publishing to s. store may be nil, in which
// case statuses live only for the session.
func NewTracker(s sink.Sink, store Store) *Tracker {
	t := &Tracker{
		sink:     s,
		store:    store,
		statuses: make(map[int]types.StepStatus),
	}
	for id := range Labels {
		t.statuses[id] = types.StepPending
	}
	if store != nil {
		for id := range Labels {
			if status, err := store.GetStepStatus(id); err == nil {
				t.statuses[id] = status
			}
		}
	}
	return t
}

// Set updates one step, publishes the change to the sink and persists it.
// Persistence failures are swallowed: the checklist is presentational and
// must never block an operation.
func (t *Tracker) Set(stepID int, status types.StepStatus) {
	t.mu.Lock()
	t.statuses[stepID] = status
	t.mu.Unlock()

	t.sink.SetStepStatus(stepID, status)
	if t.store != nil {
		_ = t.store.SetStepStatus(stepID, status)
	}
}

// Get returns the current status of one step.
func (t *Tracker) Get(stepID int) types.StepStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	if status, ok := t.statuses[stepID]; ok {
		return status
	}
	return types.StepPending
}

// Statuses returns a copy of the whole checklist.
func (t *Tracker) Statuses() map[int]types.StepStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[int]types.StepStatus, len(t.statuses))
	for id, status := range t.statuses {
		out[id] = status
	}
	return out
}
