// Package workflows provides CRUD access to the user's workflow rows in the
// remote database service, with an optimistically synced local cache.
package workflows

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/supabase"
)

var (
	// ErrNotAuthenticated is returned by operations that need a session
	// when none exists.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrEmptyPatch is returned by Update when no fields are set.
	ErrEmptyPatch = errors.New("empty patch")
)

// identityFunc resolves the caller's access token and user id at call time.
type identityFunc func() (token, userID string, err error)

// Accessor reads and mutates the caller's workflow collection. The local
// cache mirrors the server optimistically: mutations apply the server's
// returned row, failures leave the cache untouched. Row ownership is
// enforced server-side; the accessor only forwards the caller's token.
type Accessor struct {
	client   *supabase.Client
	logger   *slog.Logger
	identity identityFunc

	mu     sync.RWMutex
	cached []models.Workflow
}

// NewAccessor scopes the accessor to the client's own session.
func NewAccessor(client *supabase.Client, logger *slog.Logger) *Accessor {
	return &Accessor{
		client: client,
		logger: logger,
		identity: func() (string, string, error) {
			session := client.CurrentSession()
			if session == nil || session.User == nil {
				return "", "", ErrNotAuthenticated
			}

			return session.AccessToken, session.User.ID, nil
		},
	}
}

// NewAccessorForToken scopes the accessor to an explicit caller identity,
// as resolved per request by the web layer.
func NewAccessorForToken(client *supabase.Client, token, userID string, logger *slog.Logger) *Accessor {
	return &Accessor{
		client: client,
		logger: logger,
		identity: func() (string, string, error) {
			if token == "" {
				return "", "", ErrNotAuthenticated
			}

			return token, userID, nil
		},
	}
}

// Fetch retrieves all workflow rows in the caller's scope, newest first.
// On failure the previous cache is left untouched.
func (a *Accessor) Fetch(ctx context.Context) error {
	token, _, err := a.identity()
	if err != nil {
		return err
	}

	var rows []models.Workflow
	if err := a.client.SelectList(ctx, token, supabase.TableWorkflows, "created_at.desc", &rows); err != nil {
		a.logger.Error("Failed to fetch workflows", "error", err)

		return err
	}

	a.mu.Lock()
	a.cached = rows
	a.mu.Unlock()

	return nil
}

// Create inserts a workflow with status active and prepends the server's
// row to the cache.
func (a *Accessor) Create(ctx context.Context, name, description string) (*models.Workflow, error) {
	token, userID, err := a.identity()
	if err != nil {
		return nil, err
	}

	row := map[string]any{
		"user_id":     userID,
		"name":        name,
		"description": description,
		"status":      models.WorkflowStatusActive,
	}

	var created models.Workflow
	if err := a.client.Insert(ctx, token, supabase.TableWorkflows, row, &created); err != nil {
		a.logger.Error("Failed to create workflow", "error", err)

		return nil, err
	}

	a.mu.Lock()
	a.cached = append([]models.Workflow{created}, a.cached...)
	a.mu.Unlock()

	return &created, nil
}

// Patch is a partial workflow update; nil fields are left unchanged.
type Patch struct {
	Name        *string
	Description *string
	Status      *models.WorkflowStatus
	Config      map[string]any
	EngineID    *string
	WebhookURL  *string
}

func (p Patch) fields() map[string]any {
	out := make(map[string]any)

	if p.Name != nil {
		out["name"] = *p.Name
	}

	if p.Description != nil {
		out["description"] = *p.Description
	}

	if p.Status != nil {
		out["status"] = *p.Status
	}

	if p.Config != nil {
		out["workflow_config"] = p.Config
	}

	if p.EngineID != nil {
		out["n8n_workflow_id"] = *p.EngineID
	}

	if p.WebhookURL != nil {
		out["n8n_webhook_url"] = *p.WebhookURL
	}

	return out
}

// Update patches the row by id and merges the returned representation into
// the matching cached entry. On failure the cache is unchanged.
func (a *Accessor) Update(ctx context.Context, id string, patch Patch) (*models.Workflow, error) {
	token, _, err := a.identity()
	if err != nil {
		return nil, err
	}

	fields := patch.fields()
	if len(fields) == 0 {
		return nil, ErrEmptyPatch
	}

	var updated models.Workflow
	if err := a.client.Update(ctx, token, supabase.TableWorkflows, id, fields, &updated); err != nil {
		a.logger.Error("Failed to update workflow", "workflow_id", id, "error", err)

		return nil, err
	}

	a.mu.Lock()
	for i := range a.cached {
		if a.cached[i].ID == id {
			a.cached[i] = updated

			break
		}
	}
	a.mu.Unlock()

	return &updated, nil
}

// Delete removes the row by id and drops it from the cache.
func (a *Accessor) Delete(ctx context.Context, id string) error {
	token, _, err := a.identity()
	if err != nil {
		return err
	}

	if err := a.client.Delete(ctx, token, supabase.TableWorkflows, id); err != nil {
		a.logger.Error("Failed to delete workflow", "workflow_id", id, "error", err)

		return err
	}

	a.mu.Lock()
	kept := a.cached[:0]

	for _, w := range a.cached {
		if w.ID != id {
			kept = append(kept, w)
		}
	}

	a.cached = kept
	a.mu.Unlock()

	return nil
}

// Workflows returns a snapshot of the cached collection.
func (a *Accessor) Workflows() []models.Workflow {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]models.Workflow, len(a.cached))
	copy(out, a.cached)

	return out
}

// ActiveCount reports how many cached workflows are active.
func (a *Accessor) ActiveCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	count := 0

	for i := range a.cached {
		if a.cached[i].IsActive() {
			count++
		}
	}

	return count
}
