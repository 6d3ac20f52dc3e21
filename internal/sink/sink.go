// Package sink defines the interface through which mcpdeck publishes progress
// to whatever UI surface is currently attached, of which there may be zero or one.
package sink

import (
	"go.uber.org/zap"

	"github.com/mcpdeck/mcpdeck/pkg/types"
)

// Sink receives log lines, step-status updates and tool listings.
// Implementations must tolerate being called from multiple goroutines.
type Sink interface {
	// LogLine publishes one human-readable line with its severity.
	LogLine(message string, severity types.Severity)

	// SetStepStatus updates one entry of the setup checklist.
	SetStepStatus(stepID int, status types.StepStatus)

	// PublishTools replaces the displayed tool list. On failure the list is
	// empty and errMsg carries the reason; a call never publishes both a
	// non-empty list and an error.
	PublishTools(tools []types.Tool, errMsg string)
}

// Noop is the default sink used when no UI surface is attached.
type Noop struct{}

func (Noop) LogLine(string, types.Severity)      {}
func (Noop) SetStepStatus(int, types.StepStatus) {}
func (Noop) PublishTools([]types.Tool, string)   {}

// Logger is a Sink that writes everything to a zap logger. It is the surface
// used by the CLI commands.
type Logger struct {
	log *zap.SugaredLogger
}

// NewLogger creates a Logger sink on top of the given zap logger.
func NewLogger(log *zap.Logger) *Logger {
	return &Logger{log: log.Sugar()}
}

func (l *Logger) LogLine(message string, severity types.Severity) {
	switch severity {
	case types.SeverityError:
		l.log.Error(message)
	case types.SeverityCommand:
		l.log.Infow(message, "kind", "command")
	default:
		l.log.Info(message)
	}
}

func (l *Logger) SetStepStatus(stepID int, status types.StepStatus) {
	l.log.Infow("step status changed", "step", stepID, "status", status)
}

func (l *Logger) PublishTools(tools []types.Tool, errMsg string) {
	if errMsg != "" {
		l.log.Errorw("tool list unavailable", "error", errMsg)
		return
	}
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name)
	}
	l.log.Infow("tool list updated", "count", len(tools), "tools", names)
}
