package supabase

import (
	"context"
	"fmt"
)

// Table names the dashboard touches. Row ownership on these tables is the
// remote service's authorization contract: requests carry the caller's
// bearer token and the service scopes rows server-side.
const (
	TableProfiles  = "profiles"
	TableWorkflows = "workflows"
)

const (
	singleObjectAccept   = "application/vnd.pgrst.object+json"
	returnRepresentation = "return=representation"
)

// SelectSingle fetches the row with the given primary key into dest. A miss
// surfaces as a ServiceError with CodeRowNotFound.
func (c *Client) SelectSingle(ctx context.Context, token, table, id string, dest any) error {
	var body restError

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.bearerOr(token)).
		SetHeader("Accept", singleObjectAccept).
		SetQueryParam("select", "*").
		SetQueryParam("id", "eq."+id).
		SetResult(dest).
		SetError(&body).
		Get(restPrefix + "/" + table)
	if err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}

	if !resp.IsSuccess() {
		return body.toServiceError(resp.StatusCode())
	}

	return nil
}

// SelectList fetches all rows visible to the caller into dest, optionally
// ordered (e.g. "created_at.desc").
func (c *Client) SelectList(ctx context.Context, token, table, order string, dest any) error {
	var body restError

	req := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.bearerOr(token)).
		SetQueryParam("select", "*").
		SetResult(dest).
		SetError(&body)

	if order != "" {
		req.SetQueryParam("order", order)
	}

	resp, err := req.Get(restPrefix + "/" + table)
	if err != nil {
		return fmt.Errorf("list %s: %w", table, err)
	}

	if !resp.IsSuccess() {
		return body.toServiceError(resp.StatusCode())
	}

	return nil
}

// Insert creates a row and decodes the server's representation into dest.
func (c *Client) Insert(ctx context.Context, token, table string, row, dest any) error {
	var body restError

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.bearerOr(token)).
		SetHeader("Accept", singleObjectAccept).
		SetHeader("Prefer", returnRepresentation).
		SetBody(row).
		SetResult(dest).
		SetError(&body).
		Post(restPrefix + "/" + table)
	if err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}

	if !resp.IsSuccess() {
		return body.toServiceError(resp.StatusCode())
	}

	return nil
}

// Update patches the row with the given primary key and decodes the
// returned representation into dest. Last write wins at the service.
func (c *Client) Update(ctx context.Context, token, table, id string, patch, dest any) error {
	var body restError

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.bearerOr(token)).
		SetHeader("Accept", singleObjectAccept).
		SetHeader("Prefer", returnRepresentation).
		SetQueryParam("id", "eq."+id).
		SetBody(patch).
		SetResult(dest).
		SetError(&body).
		Patch(restPrefix + "/" + table)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}

	if !resp.IsSuccess() {
		return body.toServiceError(resp.StatusCode())
	}

	return nil
}

// Delete removes the row with the given primary key.
func (c *Client) Delete(ctx context.Context, token, table, id string) error {
	var body restError

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.bearerOr(token)).
		SetQueryParam("id", "eq."+id).
		SetError(&body).
		Delete(restPrefix + "/" + table)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}

	if !resp.IsSuccess() {
		return body.toServiceError(resp.StatusCode())
	}

	return nil
}
