package vortex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// callOptions shape a single gateway request.
type callOptions struct {
	method  string
	body    any
	headers map[string]string
	query   url.Values
}

// gateway issues requests against the configured bases and normalizes every
// failure, transport or status, into *APIError before it escapes. The
// onError hook fires for each failure as a side channel, independent of the
// caller's own handling.
type gateway struct {
	apiBase    string
	jwtBase    string
	httpClient *http.Client
	onError    func(error)
	logger     Logger

	// authToken supplies the current credential for the Authorization
	// header; empty means no credential is attached.
	authToken func() string
}

// envelope is the generic response wrapper `{data?, error?}`. Data stays a
// RawMessage so an explicitly-null or otherwise falsy value is still
// distinguishable from an absent field.
type envelope map[string]json.RawMessage

// call performs one request. useJWTBase selects the credential-issuing base
// when one is configured. The returned payload is the envelope's data field
// when the body defines one, otherwise the whole body.
func (g *gateway) call(ctx context.Context, operation, path string, opts callOptions, useJWTBase bool) (json.RawMessage, error) {
	requestID := uuid.NewString()

	fullURL := g.baseFor(useJWTBase) + path
	if len(opts.query) > 0 {
		fullURL += "?" + opts.query.Encode()
	}

	method := opts.method
	if method == "" {
		method = http.MethodGet
	}

	var bodyReader io.Reader
	if opts.body != nil {
		encoded, err := json.Marshal(opts.body)
		if err != nil {
			return nil, g.fail(&APIError{
				Operation: operation,
				Path:      path,
				Message:   "failed to encode request body",
				RequestID: requestID,
				Err:       err,
			})
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, g.fail(&APIError{
			Operation: operation,
			Path:      path,
			Message:   "failed to build request",
			RequestID: requestID,
			Err:       err,
		})
	}

	for k, v := range opts.headers {
		req.Header.Set(k, v)
	}
	// Defaults win over caller headers.
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if g.authToken != nil {
		if token := g.authToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, g.fail(&APIError{
			Operation: operation,
			Path:      path,
			Message:   fmt.Sprintf("request to %s failed: %v", path, err),
			RequestID: requestID,
			Err:       err,
		})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, g.fail(&APIError{
			Operation: operation,
			Path:      path,
			Message:   "failed to read response body",
			RequestID: requestID,
			Err:       err,
		})
	}

	var env envelope
	// A non-JSON or non-object body is fine on success: the body itself is
	// then the payload.
	_ = json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := envelopeError(env)
		if message == "" {
			message = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		return nil, g.fail(&APIError{
			Operation: operation,
			Path:      path,
			Status:    resp.StatusCode,
			Message:   message,
			RequestID: requestID,
		})
	}

	if data, ok := env["data"]; ok {
		return data, nil
	}
	return body, nil
}

func (g *gateway) baseFor(useJWTBase bool) string {
	if useJWTBase && g.jwtBase != "" {
		return g.jwtBase
	}
	return g.apiBase
}

// fail runs the error side channel and hands the normalized error back for
// the caller to return.
func (g *gateway) fail(apiErr *APIError) error {
	g.logger.Debug("gateway %s %s failed: %v", apiErr.Operation, apiErr.Path, apiErr)
	if g.onError != nil {
		g.onError(apiErr)
	}
	return apiErr
}

func envelopeError(env envelope) string {
	raw, ok := env["error"]
	if !ok {
		return ""
	}
	var message string
	if err := json.Unmarshal(raw, &message); err != nil {
		return ""
	}
	return message
}

// callJSON runs a gateway call and decodes the payload into T. An empty
// payload (or explicit null) leaves T at its zero value, which covers the
// void endpoints.
func callJSON[T any](ctx context.Context, g *gateway, operation, path string, opts callOptions, useJWTBase bool) (T, error) {
	var out T

	payload, err := g.call(ctx, operation, path, opts, useJWTBase)
	if err != nil {
		return out, err
	}

	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return out, nil
	}

	if err := json.Unmarshal(payload, &out); err != nil {
		return out, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to decode response payload").
			WithMetadata(map[string]any{"operation": operation, "path": path})
	}
	return out, nil
}
