package catalog

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema constrains the template config blob: a trigger with a type,
// at least one step carrying an action, and a settings object.
var configSchema = map[string]any{
	"type":     "object",
	"required": []any{"trigger", "steps", "settings"},
	"properties": map[string]any{
		"trigger": map[string]any{
			"type":     "object",
			"required": []any{"type"},
			"properties": map[string]any{
				"type": map[string]any{"type": "string", "minLength": 1},
			},
		},
		"steps": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":     "object",
				"required": []any{"action"},
				"properties": map[string]any{
					"action": map[string]any{"type": "string", "minLength": 1},
				},
			},
		},
		"settings": map[string]any{"type": "object"},
	},
}

// Validate checks every template in the catalog: unique ids and a config
// blob matching the schema. Run at server start so a malformed catalog
// fails fast instead of surfacing as a broken install.
func Validate() error {
	schemaLoader := gojsonschema.NewGoLoader(configSchema)

	seen := make(map[string]struct{}, len(templates))

	for _, t := range templates {
		if _, ok := seen[t.ID]; ok {
			return fmt.Errorf("duplicate template id %q", t.ID)
		}

		seen[t.ID] = struct{}{}

		doc := map[string]any{
			"trigger":  t.Config.Trigger,
			"steps":    stepsAsAny(t.Config.Steps),
			"settings": t.Config.Settings,
		}

		result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
		if err != nil {
			return fmt.Errorf("template %q: config validation: %w", t.ID, err)
		}

		if !result.Valid() {
			return fmt.Errorf("template %q: invalid config: %v", t.ID, result.Errors())
		}
	}

	return nil
}

func stepsAsAny(steps []map[string]any) []any {
	out := make([]any, len(steps))
	for i, s := range steps {
		out[i] = s
	}

	return out
}
