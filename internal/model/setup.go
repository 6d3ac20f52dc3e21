// Package model contains the database models for mcpdeck's persisted setup state.
package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Step persists the status of one setup checklist entry so that progress
// survives process restarts.
type Step struct {
	gorm.Model

	// StepID is the fixed checklist identifier (see pkg/types).
	StepID int `json:"step_id" gorm:"uniqueIndex;not null"`

	Status string `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
}

// ToolRun records that a tool has been invoked at least once.
// It exists for presentational purposes only and has no effect on
// protocol behavior.
type ToolRun struct {
	gorm.Model

	ToolName string `json:"tool_name" gorm:"index;not null"`

	// Arguments is the JSON representation of the argument map the tool
	// was invoked with.
	Arguments datatypes.JSON `json:"arguments" gorm:"type:jsonb"`

	Success bool `json:"success"`
}
