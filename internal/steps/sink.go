package steps

import (
	"github.com/mcpdeck/mcpdeck/internal/sink"
	"github.com/mcpdeck/mcpdeck/pkg/types"
)

// TrackerSink is a sink whose step updates are routed through a Tracker, so
// components that only know the Sink interface (like the health monitor)
// still keep the persisted checklist consistent. Log lines and tool listings
// pass straight through to the wrapped sink.
type TrackerSink struct {
	sink.Sink
	Tracker *Tracker
}

func (s TrackerSink) SetStepStatus(stepID int, status types.StepStatus) {
	s.Tracker.Set(stepID, status)
}

var _ sink.Sink = TrackerSink{}
