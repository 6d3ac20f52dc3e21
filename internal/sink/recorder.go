package sink

import (
	"sync"

	"github.com/mcpdeck/mcpdeck/pkg/types"
)

// LogEntry is one captured LogLine call.
type LogEntry struct {
	Message  string
	Severity types.Severity
}

// StepUpdate is one captured SetStepStatus call.
type StepUpdate struct {
	StepID int
	Status types.StepStatus
}

// ToolsUpdate is one captured PublishTools call.
type ToolsUpdate struct {
	Tools  []types.Tool
	ErrMsg string
}

// Recorder is a Sink that captures every call for later inspection in tests.
type Recorder struct {
	mu sync.Mutex

	Logs  []LogEntry
	Steps []StepUpdate
	Tools []ToolsUpdate
}

func (r *Recorder) LogLine(message string, severity types.Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Logs = append(r.Logs, LogEntry{Message: message, Severity: severity})
}

func (r *Recorder) SetStepStatus(stepID int, status types.StepStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Steps = append(r.Steps, StepUpdate{StepID: stepID, Status: status})
}

func (r *Recorder) PublishTools(tools []types.Tool, errMsg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Tools = append(r.Tools, ToolsUpdate{Tools: tools, ErrMsg: errMsg})
}

// LogsCopy returns a snapshot of the captured log lines.
func (r *Recorder) LogsCopy() []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]LogEntry, len(r.Logs))
	copy(out, r.Logs)
	return out
}

// StepUpdatesFor returns the captured updates for one step id.
func (r *Recorder) StepUpdatesFor(stepID int) []StepUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []StepUpdate
	for _, s := range r.Steps {
		if s.StepID == stepID {
			out = append(out, s)
		}
	}
	return out
}

// ErrorLogs returns the captured log lines with error severity.
func (r *Recorder) ErrorLogs() []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []LogEntry
	for _, l := range r.Logs {
		if l.Severity == types.SeverityError {
			out = append(out, l)
		}
	}
	return out
}
