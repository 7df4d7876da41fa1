package vortex

import (
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStatus_HappyPath(t *testing.T) {
	tests := []struct {
		name  string
		from  AuthStatus
		event authEvent
		want  AuthStatus
	}{
		{"anonymous renew", StatusAnonymous, eventRenewStarted, StatusAcquiring},
		{"acquire success", StatusAcquiring, eventCredentialReceived, StatusAuthenticated},
		{"acquire failure", StatusAcquiring, eventRenewalFailed, StatusRetrying},
		{"acquire exhausted", StatusAcquiring, eventRenewalExhausted, StatusFailed},
		{"authenticated re-renew", StatusAuthenticated, eventRenewStarted, StatusAcquiring},
		{"retry timer fires", StatusRetrying, eventRenewStarted, StatusAcquiring},
		{"manual retry after terminal", StatusFailed, eventRenewStarted, StatusAcquiring},
		{"overlapping renewals", StatusAcquiring, eventRenewStarted, StatusAcquiring},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := nextStatus(tt.from, tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.want, next)
		})
	}
}

func TestNextStatus_ClearedFromAnyStatus(t *testing.T) {
	for _, from := range []AuthStatus{StatusAnonymous, StatusAcquiring, StatusAuthenticated, StatusRetrying, StatusFailed} {
		next, err := nextStatus(from, eventCleared)
		require.NoError(t, err)
		assert.Equal(t, StatusAnonymous, next)
	}
}

func TestNextStatus_LateCompletionsAccepted(t *testing.T) {
	// A racing renewal may complete after another one already moved the
	// status; completions are legal from every in-session status.
	for _, from := range []AuthStatus{StatusAuthenticated, StatusRetrying, StatusFailed} {
		for _, event := range []authEvent{eventCredentialReceived, eventRenewalFailed, eventRenewalExhausted} {
			_, err := nextStatus(from, event)
			assert.NoError(t, err, "from=%s event=%s", from, event)
		}
	}
}

func TestNextStatus_InvalidTransition(t *testing.T) {
	next, err := nextStatus(StatusAnonymous, eventCredentialReceived)
	require.Error(t, err)
	assert.Equal(t, StatusAnonymous, next, "status is unchanged on rejection")

	var richErr *goerrors.Error
	require.True(t, goerrors.As(err, &richErr))
	assert.Equal(t, TextCodeInvalidTransition, richErr.TextCode)
}

func TestNextStatus_UnknownStatus(t *testing.T) {
	_, err := nextStatus(AuthStatus("bogus"), eventRenewStarted)
	assert.Error(t, err)
}
