// Package state persists mcpdeck's setup progress and tool-run history.
package state

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mcpdeck/mcpdeck/internal/model"
	"github.com/mcpdeck/mcpdeck/pkg/types"
)

// Service provides access to the persisted setup state.
type Service struct {
	db *gorm.DB
}

// NewService creates the state service and ensures its tables exist.
func NewService(db *gorm.DB) (*Service, error) {
	if err := db.AutoMigrate(&model.Step{}, &model.ToolRun{}); err != nil {
		return nil, fmt.Errorf("failed to migrate state tables: %w", err)
	}
	return &Service{db: db}, nil
}

// SetStepStatus upserts the status of one checklist step.
func (s *Service) SetStepStatus(stepID int, status types.StepStatus) error {
	var step model.Step
	err := s.db.Where("step_id = ?", stepID).First(&step).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		step = model.Step{StepID: stepID, Status: string(status)}
		if err := s.db.Create(&step).Error; err != nil {
			return fmt.Errorf("failed to create step %d: %w", stepID, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load step %d: %w", stepID, err)
	}

	step.Status = string(status)
	if err := s.db.Save(&step).Error; err != nil {
		return fmt.Errorf("failed to update step %d: %w", stepID, err)
	}
	return nil
}

// GetStepStatus returns the persisted status of one step.
// A step that was never written reports pending.
func (s *Service) GetStepStatus(stepID int) (types.StepStatus, error) {
	var step model.Step
	err := s.db.Where("step_id = ?", stepID).First(&step).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.StepPending, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load step %d: %w", stepID, err)
	}
	return types.StepStatus(step.Status), nil
}

// RecordToolRun stores one tool invocation. Failures to serialize the
// arguments are not fatal; the run is recorded without them.
func (s *Service) RecordToolRun(toolName string, arguments map[string]any, success bool) error {
	argsJSON, err := json.Marshal(arguments)
	if err != nil {
		argsJSON = nil
	}
	run := model.ToolRun{
		ToolName:  toolName,
		Arguments: datatypes.JSON(argsJSON),
		Success:   success,
	}
	if err := s.db.Create(&run).Error; err != nil {
		return fmt.Errorf("failed to record run of tool %s: %w", toolName, err)
	}
	return nil
}

// HasToolRun reports whether the named tool has been invoked at least once.
func (s *Service) HasToolRun(toolName string) (bool, error) {
	var count int64
	if err := s.db.Model(&model.ToolRun{}).Where("tool_name = ?", toolName).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count runs of tool %s: %w", toolName, err)
	}
	return count > 0, nil
}
