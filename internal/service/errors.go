package service

import (
	"fmt"

	"health-finance-api/internal/model"
)

// ErrInvalidInput - причина ошибок входных данных (для errors.Is в обработчиках)
var ErrInvalidInput = model.ErrInvalidInput

// Стадии построения аналитики
const (
	StageInput     = "input"
	StageRootCause = "root_cause"
	StageScenario  = "scenario"
)

// StageError указывает, на какой стадии сломалось построение аналитики
type StageError struct {
	Stage    string
	Scenario model.ScenarioName
	Err      error
}

func (e *StageError) Error() string {
	if e.Scenario != "" {
		return fmt.Sprintf("%s stage (%s): %v", e.Stage, e.Scenario, e.Err)
	}
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
