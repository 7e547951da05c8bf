package models

import "time"

// WorkflowStatus represents the lifecycle state of an installed workflow.
type WorkflowStatus string

const (
	WorkflowStatusActive WorkflowStatus = "active"
	WorkflowStatusPaused WorkflowStatus = "paused"
)

// Workflow is a user's instantiated automation, derived from a template or
// created manually. Rows live in the remote `workflows` table; the engine
// columns point at the execution backend's copy of the workflow.
type Workflow struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	Name          string         `json:"name"`
	Description   *string        `json:"description"`
	EngineID      *string        `json:"n8n_workflow_id"`
	WebhookURL    *string        `json:"n8n_webhook_url"`
	Config        map[string]any `json:"workflow_config"`
	Status        WorkflowStatus `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// IsActive reports whether the workflow is currently running.
func (w Workflow) IsActive() bool {
	return w.Status == WorkflowStatusActive
}
