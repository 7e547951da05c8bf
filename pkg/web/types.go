package web

import (
	"github.com/flowdeck/flowdeck/pkg/models"
)

// signInForm is the sign-in page submission.
type signInForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// signUpForm is the account creation submission.
type signUpForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	FullName string
}

// CreateWorkflowRequest represents the request body for creating a new workflow.
type CreateWorkflowRequest struct {
	Name        string `json:"name"        validate:"required,min=3"`
	Description string `json:"description"`
}

// UpdateWorkflowRequest represents the request body for updating an existing
// workflow. All fields are optional to support partial updates.
type UpdateWorkflowRequest struct {
	Name        *string                `json:"name,omitempty"            validate:"omitempty,min=3"`
	Description *string                `json:"description,omitempty"`
	Status      *models.WorkflowStatus `json:"status,omitempty"          validate:"omitempty,oneof=active paused"`
	Config      map[string]any         `json:"workflow_config,omitempty"`
}

type loginData struct {
	Title string
	Flash *Flash
}

type dashboardData struct {
	Title            string
	DisplayName      string
	Plan             string
	Workflows        []models.Workflow
	WorkflowCount    int
	ActiveCount      int
	TemplateCount    int
	Categories       []string
	SelectedCategory string
	Templates        []models.WorkflowTemplate
	InstallingID     string
	Flash            *Flash
}
