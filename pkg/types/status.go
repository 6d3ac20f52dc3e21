package types

// Severity classifies a log line published to a UI sink.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityCommand Severity = "command"
)

// StepStatus is the state of one entry in the setup checklist.
type StepStatus string

const (
	StepPending StepStatus = "pending"
	StepDoing   StepStatus = "doing"
	StepDone    StepStatus = "done"
	StepError   StepStatus = "error"
)

// Fixed identifiers for the setup checklist steps.
// StepServerRunning is the step the health monitor forces back to pending
// when the control plane stops responding.
const (
	StepWorkspaceConfig   = 1
	StepAssistantSettings = 2
	StepControlPlane      = 3
	StepServerRunning     = 4
)
