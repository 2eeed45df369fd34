// Package restapi persists through the ledger's REST persistence service.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/ledger_desk/internal/apperrors"
	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
	"golang.org/x/oauth2"
)

// BranchHeader carries the active branch scope on every request.
const BranchHeader = "X-Branch-ID"

const maxErrorBody = 4 << 10

// Client talks JSON to the persistence service.
type Client struct {
	baseURL string
	base    http.RoundTripper
	timeout time.Duration
}

// NewClient constructs a client for baseURL. A zero timeout means 15s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		base:    http.DefaultTransport,
		timeout: timeout,
	}
}

// request describes one call.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// token overrides the caller's token source; used by the auth endpoints.
	token string
	// anonymous calls carry no credentials at all.
	anonymous bool
}

func (c *Client) httpClient(tokens oauth2.TokenSource) *http.Client {
	transport := c.base
	if tokens != nil {
		transport = &oauth2.Transport{Source: tokens, Base: c.base}
	}
	return &http.Client{Transport: transport, Timeout: c.timeout}
}

// do performs r and decodes the response payload into out, unwrapping a
// {"data": ...} envelope when present. out may be nil.
func (c *Client) do(ctx context.Context, r request, out any) error {
	caller, hasCaller := portsrepo.CallerFromCtx(ctx)

	var tokens oauth2.TokenSource
	switch {
	case r.anonymous:
	case r.token != "":
		tokens = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: r.token, TokenType: "Bearer"})
	case hasCaller && caller.Tokens != nil:
		tokens = caller.Tokens
	default:
		return apperrors.ErrNotAuthenticated
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return apperrors.Internal("encoding request", err)
		}
		body = bytes.NewReader(payload)
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return apperrors.Internal("building request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if hasCaller && !caller.BranchID.IsZero() {
		req.Header.Set(BranchHeader, caller.BranchID.String())
	}

	resp, err := c.httpClient(tokens).Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		var retrieve *oauth2.RetrieveError
		if errors.As(err, &retrieve) || errors.Is(err, apperrors.ErrNotAuthenticated) {
			return apperrors.ErrNotAuthenticated
		}
		return apperrors.ErrNetworkFailure.Wrap(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		msg := errorMessage(resp.Body)
		if resp.StatusCode == http.StatusUnauthorized && r.token == "" && !r.anonymous && hasCaller && caller.OnUnauthorized != nil {
			caller.OnUnauthorized(ctx)
		}
		return statusError(resp.StatusCode, msg)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.ErrNetworkFailure.Wrap(err)
	}
	return decodePayload(payload, out)
}

// statusError maps a failed response to the error taxonomy.
func statusError(status int, msg string) error {
	switch {
	case status == http.StatusUnauthorized:
		return apperrors.ErrSessionExpired
	case status == http.StatusForbidden:
		return apperrors.ErrPermissionDenied
	case status == http.StatusNotFound:
		return fmt.Errorf("%s: %w", msg, apperrors.ErrNotFound)
	case status == http.StatusConflict:
		return apperrors.NewState("Conflict", "conflicting change").WithDetail("%s", msg)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return apperrors.NewValidation("Rejected", "rejected by the persistence service").WithDetail("%s", msg)
	default:
		return apperrors.ErrServerFailure.WithDetail("status %d: %s", status, msg)
	}
}

// errorMessage extracts a human readable message from an error body.
func errorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	if s := strings.TrimSpace(string(raw)); s != "" {
		return s
	}
	return "no details"
}

// decodePayload accepts either the bare value or {"data": value}.
func decodePayload(payload []byte, out any) error {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return nil
	}
	if payload[0] == '{' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(payload, &envelope); err != nil {
			return apperrors.ErrServerFailure.WithDetail("malformed response").Wrap(err)
		}
		if data, ok := envelope["data"]; ok && len(envelope) <= 3 {
			payload = data
		}
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return apperrors.ErrServerFailure.WithDetail("malformed response").Wrap(err)
	}
	return nil
}

func itemPath(collection string, id fmt.Stringer) string {
	return collection + "/" + url.PathEscape(id.String())
}
