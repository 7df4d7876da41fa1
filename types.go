package vortex

import "fmt"

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// RenewalScope carries caller-supplied context for credential issuing. The
// client remembers the last scope it was given and reuses it for scheduled
// renewals, so a silent refresh asks for the same grant as the original call.
type RenewalScope map[string]any

// AuthState is a point-in-time snapshot of the credential lifecycle, safe to
// hand to consumers without exposing the client's internals.
type AuthState struct {
	Status  AuthStatus
	Token   string
	User    *User
	Err     error
	Attempt int
}

// Loading reports whether a credential request is currently in flight.
func (s AuthState) Loading() bool {
	return s.Status == StatusAcquiring
}

// Authenticated reports whether a credential is installed.
func (s AuthState) Authenticated() bool {
	return s.Token != ""
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] VORTEX "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] VORTEX "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] VORTEX "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
