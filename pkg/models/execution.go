package models

import "time"

// ExecutionStatus represents the terminal or running state of one workflow run.
type ExecutionStatus string

const (
	ExecutionStatusSuccess ExecutionStatus = "success"
	ExecutionStatusError   ExecutionStatus = "error"
	ExecutionStatusRunning ExecutionStatus = "running"
)

// Execution is a single run of a workflow as recorded by the execution
// backend. The dashboard only declares the shape; no view reads it yet.
type Execution struct {
	ID            string          `json:"id"`
	WorkflowID    string          `json:"workflow_id"`
	UserID        string          `json:"user_id"`
	Status        ExecutionStatus `json:"status"`
	StartedAt     time.Time       `json:"started_at"`
	FinishedAt    *time.Time      `json:"finished_at"`
	ErrorMessage  *string         `json:"error_message"`
	ExecutionData map[string]any  `json:"execution_data"`
}
