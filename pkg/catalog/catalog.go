// Package catalog holds the static catalog of installable workflow templates
// and its lookup accessors. The catalog is compiled into the binary; there is
// no lifecycle and no mutation.
package catalog

import "github.com/flowdeck/flowdeck/pkg/models"

// AllCategories is the filter value that selects the whole catalog.
const AllCategories = "all"

// List returns the full catalog in presentation order.
func List() []models.WorkflowTemplate {
	out := make([]models.WorkflowTemplate, len(templates))
	copy(out, templates)

	return out
}

// Count returns the number of templates in the catalog.
func Count() int {
	return len(templates)
}

// Categories returns the distinct template categories in order of first
// appearance.
func Categories() []string {
	seen := make(map[string]struct{}, len(templates))
	categories := make([]string, 0, len(templates))

	for _, t := range templates {
		if _, ok := seen[t.Category]; ok {
			continue
		}

		seen[t.Category] = struct{}{}
		categories = append(categories, t.Category)
	}

	return categories
}

// ByCategory partitions the catalog by category. Every template appears in
// exactly one bucket and the union of buckets equals the full catalog.
func ByCategory() map[string][]models.WorkflowTemplate {
	buckets := make(map[string][]models.WorkflowTemplate)

	for _, t := range templates {
		buckets[t.Category] = append(buckets[t.Category], t)
	}

	return buckets
}

// ByID returns the template with the given id, or false when no template
// matches.
func ByID(id string) (models.WorkflowTemplate, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}

	return models.WorkflowTemplate{}, false
}

// Filter returns the templates matching the selected category. "all" selects
// the full catalog; an unknown category yields an empty list.
func Filter(category string) []models.WorkflowTemplate {
	if category == AllCategories || category == "" {
		return List()
	}

	var out []models.WorkflowTemplate

	for _, t := range templates {
		if t.Category == category {
			out = append(out, t)
		}
	}

	return out
}
