package vortex

// AuthStatus is the credential lifecycle state observable by consumers.
type AuthStatus string

const (
	// StatusAnonymous means no credential is installed and nothing is in flight.
	StatusAnonymous AuthStatus = "anonymous"
	// StatusAcquiring means a credential request is in flight. A previously
	// installed credential, if any, stays in effect until the new one arrives.
	StatusAcquiring AuthStatus = "acquiring"
	// StatusAuthenticated means a credential is installed.
	StatusAuthenticated AuthStatus = "authenticated"
	// StatusRetrying means the last renewal failed and a backoff timer is
	// pending. The failure is not yet visible to consumers.
	StatusRetrying AuthStatus = "retrying"
	// StatusFailed means the backoff ceiling was reached. Terminal until an
	// explicit renewal or clear.
	StatusFailed AuthStatus = "failed"
)

// authEvent drives status transitions. Keeping the transition function pure
// lets the table be tested with no I/O behind it.
type authEvent string

const (
	eventRenewStarted       authEvent = "renew_started"
	eventCredentialReceived authEvent = "credential_received"
	eventRenewalFailed      authEvent = "renewal_failed"
	eventRenewalExhausted   authEvent = "renewal_exhausted"
	eventCleared            authEvent = "cleared"
)

// Completion events are accepted from every in-session status, not just
// acquiring: concurrent manual renewals race last-write-wins, so a response
// may land after another renewal already moved the status.
var authTransitions = map[AuthStatus]map[authEvent]AuthStatus{
	StatusAnonymous: {
		eventRenewStarted: StatusAcquiring,
	},
	StatusAcquiring: {
		eventRenewStarted:       StatusAcquiring,
		eventCredentialReceived: StatusAuthenticated,
		eventRenewalFailed:      StatusRetrying,
		eventRenewalExhausted:   StatusFailed,
	},
	StatusAuthenticated: {
		eventRenewStarted:       StatusAcquiring,
		eventCredentialReceived: StatusAuthenticated,
		eventRenewalFailed:      StatusRetrying,
		eventRenewalExhausted:   StatusFailed,
	},
	StatusRetrying: {
		eventRenewStarted:       StatusAcquiring,
		eventCredentialReceived: StatusAuthenticated,
		eventRenewalFailed:      StatusRetrying,
		eventRenewalExhausted:   StatusFailed,
	},
	StatusFailed: {
		eventRenewStarted:       StatusAcquiring,
		eventCredentialReceived: StatusAuthenticated,
		eventRenewalFailed:      StatusRetrying,
		eventRenewalExhausted:   StatusFailed,
	},
}

// nextStatus applies an event to a status. eventCleared is accepted from any
// status; everything else must appear in the transition table.
func nextStatus(current AuthStatus, event authEvent) (AuthStatus, error) {
	if event == eventCleared {
		return StatusAnonymous, nil
	}

	if allowed, ok := authTransitions[current]; ok {
		if next, ok := allowed[event]; ok {
			return next, nil
		}
	}

	return current, ErrInvalidTransition.WithMetadata(map[string]any{
		"from":  string(current),
		"event": string(event),
	})
}
