package models

// Difficulty grades the setup effort of a workflow template.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// TemplateConfig is the pre-authored automation blueprint carried by a
// template: a trigger spec, an ordered step list, and a settings map. The
// dashboard treats it as opaque beyond schema validation; the execution
// backend interprets it.
type TemplateConfig struct {
	Trigger  map[string]any   `json:"trigger"`
	Steps    []map[string]any `json:"steps"`
	Settings map[string]any   `json:"settings"`
}

// WorkflowTemplate is an immutable descriptor of an installable automation.
// Template ids are unique across the catalog and double as routing keys for
// install-endpoint selection.
type WorkflowTemplate struct {
	ID                    string         `json:"id"`
	Name                  string         `json:"name"`
	Description           string         `json:"description"`
	Category              string         `json:"category"`
	Difficulty            Difficulty     `json:"difficulty"`
	EstimatedSetupMinutes int            `json:"estimated_setup_minutes"`
	RequiredIntegrations  []string       `json:"required_integrations"`
	Tags                  []string       `json:"tags"`
	Icon                  string         `json:"icon"`
	UseCase               string         `json:"use_case"`
	Config                TemplateConfig `json:"config"`
}
