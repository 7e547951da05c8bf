// Package installer drives template installation against the external
// workflow-execution backend.
package installer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/flowdeck/flowdeck/pkg/otelhelper"
)

// ErrNotConfigured is returned when no install backend base URL was
// supplied. It surfaces as a configuration alert, never a crash.
var ErrNotConfigured = errors.New("install backend URL is not configured")

const requestTimeout = 30 * time.Second

// OutcomeKind tags the install result variants.
type OutcomeKind string

const (
	// OutcomeRedirect hands control to an external OAuth flow; the install
	// is not resumed in-process. A later page load reconciles state.
	OutcomeRedirect OutcomeKind = "redirect"
	// OutcomeActivated means the backend provisioned and activated the
	// workflow directly.
	OutcomeActivated OutcomeKind = "activated"
	// OutcomeError carries a user-visible failure message.
	OutcomeError OutcomeKind = "error"
)

// Outcome is the tagged result of an install attempt. Exactly the fields of
// the active variant are meaningful.
type Outcome struct {
	Kind OutcomeKind

	// OutcomeRedirect
	AuthURL    string
	State      string
	TemplateID string

	// OutcomeActivated
	WorkflowID int64

	// OutcomeError
	Message string
}

// installResponse is the backend's wire shape. The backend distinguishes
// variants by field presence; Install maps that into the tagged Outcome.
type installResponse struct {
	NeedsAuth  bool   `json:"needsAuth"`
	AuthURL    string `json:"authUrl"`
	State      string `json:"state"`
	TemplateID string `json:"templateId"`
	Activated  bool   `json:"activated"`
	WorkflowID int64  `json:"workflowId"`
	Error      string `json:"error"`
}

// Client issues install requests. It tracks a single in-flight template id
// so the view can disable that template's trigger; this is a UI affordance,
// not a mutex over logical installs.
type Client struct {
	http    *resty.Client
	baseURL string
	logger  *slog.Logger
	tracer  trace.Tracer

	mu           sync.Mutex
	installingID string
}

// New creates an install client. An empty baseURL is allowed; every install
// attempt then fails with ErrNotConfigured.
func New(baseURL string, logger *slog.Logger) *Client {
	c := &Client{
		baseURL: baseURL,
		logger:  logger,
		tracer:  otel.Tracer("flowdeck.installer"),
	}

	if baseURL != "" {
		c.http = resty.New().
			SetBaseURL(baseURL).
			SetTimeout(requestTimeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json")
	}

	return c
}

// Configured reports whether a backend base URL was supplied.
func (c *Client) Configured() bool {
	return c.http != nil
}

// InstallingID returns the template id currently marked in flight, or "".
func (c *Client) InstallingID() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.installingID
}

func (c *Client) markInstalling(templateID string) {
	c.mu.Lock()
	c.installingID = templateID
	c.mu.Unlock()
}

func (c *Client) clearInstalling() {
	c.mu.Lock()
	c.installingID = ""
	c.mu.Unlock()
}

// Install runs one install attempt for templateID with the caller's access
// token. Handled backend responses come back as an Outcome with a nil
// error; transport and decode failures return an error and the caller shows
// a generic alert. The in-flight marker is cleared on every exit path.
func (c *Client) Install(ctx context.Context, token, templateID string) (Outcome, error) {
	c.markInstalling(templateID)
	defer c.clearInstalling()

	if c.http == nil {
		return Outcome{}, ErrNotConfigured
	}

	path, withBody := RouteFor(templateID)

	ctx, span := otelhelper.StartSpan(ctx, c.tracer, "installer.install",
		attribute.String(otelhelper.TemplateIDKey, templateID),
		attribute.String(otelhelper.InstallPathKey, path),
	)
	defer span.End()

	req := c.http.R().
		SetContext(ctx).
		SetAuthToken(token)

	if withBody {
		req.SetBody(map[string]string{"templateId": templateID})
	}

	resp, err := req.Post(path)
	if err != nil {
		otelhelper.SetError(span, err)
		c.logger.Error("Install request failed", "template_id", templateID, "error", err)

		return Outcome{}, fmt.Errorf("install request: %w", err)
	}

	var decoded installResponse
	if err := json.Unmarshal(resp.Body(), &decoded); err != nil {
		if resp.IsSuccess() {
			otelhelper.SetError(span, err)

			return Outcome{}, fmt.Errorf("decode install response: %w", err)
		}

		// Unparseable error body; fall through to the generic message.
		decoded = installResponse{}
	}

	outcome := c.mapResponse(resp.IsSuccess(), templateID, decoded)

	span.SetAttributes(attribute.String(otelhelper.OutcomeKey, string(outcome.Kind)))

	if outcome.WorkflowID != 0 {
		span.SetAttributes(attribute.Int64(otelhelper.WorkflowIDKey, outcome.WorkflowID))
	}

	return outcome, nil
}

func (c *Client) mapResponse(success bool, templateID string, decoded installResponse) Outcome {
	if !success {
		message := decoded.Error
		if message == "" {
			message = "Install failed"
		}

		return Outcome{Kind: OutcomeError, Message: message}
	}

	if decoded.NeedsAuth && decoded.AuthURL != "" {
		resolvedID := decoded.TemplateID
		if resolvedID == "" {
			resolvedID = templateID
		}

		return Outcome{
			Kind:       OutcomeRedirect,
			AuthURL:    decoded.AuthURL,
			State:      decoded.State,
			TemplateID: resolvedID,
		}
	}

	if decoded.Activated {
		// The workflow cache is not refreshed here; the next dashboard
		// load re-fetches the collection.
		return Outcome{Kind: OutcomeActivated, WorkflowID: decoded.WorkflowID}
	}

	return Outcome{Kind: OutcomeError, Message: "Unexpected response from server"}
}
