package installer

// routes maps known template ids to their namespaced install paths.
// Namespaced endpoints take no request body; the generic fallback always
// receives {"templateId": id}. The asymmetry is part of the backend
// contract.
var routes = map[string]string{
	"gmail-ai-responder": "/workflows/gmail-ai-responder/install",
	"gmail-summary":      "/workflows/gmail-summary/install",
}

const genericPath = "/workflows/install"

// RouteFor returns the install path for a template id and whether the
// request carries a JSON body.
func RouteFor(templateID string) (path string, withBody bool) {
	if p, ok := routes[templateID]; ok {
		return p, false
	}

	return genericPath, true
}
