package vortex

import (
	"fmt"
	"strings"
	"sync"
)

// Operation names used to build loading/error keys.
const (
	opRenewJWT                 = "renewJWT"
	opGetInvitationsByTarget   = "getInvitationsByTarget"
	opGetInvitation            = "getInvitation"
	opRevokeInvitation         = "revokeInvitation"
	opAcceptInvitations        = "acceptInvitations"
	opGetInvitationsByGroup    = "getInvitationsByGroup"
	opDeleteInvitationsByGroup = "deleteInvitationsByGroup"
	opReinviteInvitation       = "reinviteInvitation"
)

// OperationKey derives the deterministic loading/error key for an operation
// and its arguments. Array arguments are comma-joined, so repeated calls
// with identical arguments share one key while differing arguments never
// collide across the same operation.
func OperationKey(name string, args ...any) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, arg := range args {
		switch v := arg.(type) {
		case []string:
			parts = append(parts, strings.Join(v, ","))
		case string:
			parts = append(parts, v)
		default:
			parts = append(parts, fmt.Sprintf("%v", v))
		}
	}
	return strings.Join(parts, "-")
}

// operationTracker records per-key loading flags and last errors for the
// invitation facade. Keys are owned by it alone; the auth lifecycle never
// touches it.
type operationTracker struct {
	mu      sync.RWMutex
	loading map[string]bool
	errs    map[string]error
}

func newOperationTracker() *operationTracker {
	return &operationTracker{
		loading: map[string]bool{},
		errs:    map[string]error{},
	}
}

// begin marks the key loading and clears any prior error for it.
func (t *operationTracker) begin(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loading[key] = true
	delete(t.errs, key)
}

// finish clears loading unconditionally, so no key can be stuck loading, and
// records the error when there is one.
func (t *operationTracker) finish(key string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.loading, key)
	if err != nil {
		t.errs[key] = err
	}
}

func (t *operationTracker) isLoading(key string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loading[key]
}

func (t *operationTracker) err(key string) error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.errs[key]
}

// IsLoading reports whether the operation identified by key is in flight.
// Build keys with OperationKey and the operation's method name, e.g.
// OperationKey("revokeInvitation", id).
func (c *Client) IsLoading(key string) bool {
	return c.ops.isLoading(key)
}

// OperationErr returns the last error recorded for the key, nil after a
// success or once a retry of the same operation begins.
func (c *Client) OperationErr(key string) error {
	return c.ops.err(key)
}

// trackOperation wraps a facade call with the key lifecycle: loading on and
// error cleared before the call, loading off and error recorded after.
func trackOperation[T any](c *Client, name string, args []any, fn func() (T, error)) (T, error) {
	key := OperationKey(name, args...)
	c.ops.begin(key)
	out, err := fn()
	c.ops.finish(key, err)
	return out, err
}
