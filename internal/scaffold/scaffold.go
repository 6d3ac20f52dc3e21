// Package scaffold creates and updates local developer environment
// configuration: the workspace compose include and the settings files of
// AI coding assistants. All file access goes through an injected afero.Fs
// and an injected settings path resolver, so everything here is testable
// against an in-memory filesystem.
package scaffold

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/mcpdeck/mcpdeck/internal/sink"
	"github.com/mcpdeck/mcpdeck/internal/steps"
	"github.com/mcpdeck/mcpdeck/pkg/types"
)

// Scaffolder performs the file-level setup operations.
type Scaffolder struct {
	fs       afero.Fs
	sink     sink.Sink
	tracker  *steps.Tracker
	resolver PathResolver
	port     int
}

// New creates a Scaffolder. tracker may be nil when checklist updates are
// not wanted (eg when invoked from control-plane tools).
func New(fs afero.Fs, s sink.Sink, tracker *steps.Tracker, resolver PathResolver, port int) *Scaffolder {
	return &Scaffolder{fs: fs, sink: s, tracker: tracker, resolver: resolver, port: port}
}

// Setup runs the scaffolding stages of the checklist: the workspace compose
// include (step 1) and the assistant settings files (step 2). Each stage is
// marked doing before it runs and done or error after.
func (s *Scaffolder) Setup(dir string, assistants []string) error {
	s.setStep(types.StepWorkspaceConfig, types.StepDoing)
	created, err := s.WriteComposeInclude(dir)
	if err != nil {
		s.setStep(types.StepWorkspaceConfig, types.StepError)
		s.sink.LogLine(fmt.Sprintf("failed to scaffold workspace config: %v", err), types.SeverityError)
		return err
	}
	if created {
		s.sink.LogLine("created "+ComposeIncludeFile, types.SeveritySuccess)
	} else {
		s.sink.LogLine(ComposeIncludeFile+" already exists, leaving it untouched", types.SeverityInfo)
	}
	s.setStep(types.StepWorkspaceConfig, types.StepDone)

	s.setStep(types.StepAssistantSettings, types.StepDoing)
	for _, assistant := range assistants {
		path, err := s.ConfigureAssistant(assistant)
		if err != nil {
			s.setStep(types.StepAssistantSettings, types.StepError)
			s.sink.LogLine(fmt.Sprintf("failed to configure %s: %v", assistant, err), types.SeverityError)
			return err
		}
		s.sink.LogLine(fmt.Sprintf("configured %s settings at %s", assistant, path), types.SeveritySuccess)
	}
	s.setStep(types.StepAssistantSettings, types.StepDone)

	return nil
}

func (s *Scaffolder) setStep(stepID int, status types.StepStatus) {
	if s.tracker != nil {
		s.tracker.Set(stepID, status)
	}
}
