package vortex

import (
	"context"
	"net/http"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// Client owns the credential lifecycle and the invitation facade. Construct
// one per process (or per tenant) and share it; all methods are safe for
// concurrent use.
//
// Concurrent manual Renew calls are not serialized: whichever response
// resolves last determines the installed credential. ClearAuth fences any
// response still in flight, so a cleared client cannot be repopulated by a
// late arrival.
type Client struct {
	cfg    Config
	gw     *gateway
	logger Logger
	ops    *operationTracker

	mu         sync.Mutex
	status     AuthStatus
	token      string
	user       *User
	lastErr    error
	renewScope RenewalScope
	attempt    int
	epoch      uint64
	timer      *time.Timer
	closed     bool
}

// New builds a client from the config, applying defaults before validating.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg = cfg.withDefaults()

	c := &Client{
		cfg:    cfg,
		logger: defLogger{},
		status: StatusAnonymous,
		ops:    newOperationTracker(),
	}
	c.gw = &gateway{
		apiBase:    cfg.APIBaseURL,
		jwtBase:    cfg.JWTBaseURL,
		httpClient: cfg.HTTPClient,
		onError:    cfg.OnError,
		authToken:  c.Token,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.gw.logger = c.logger

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

type jwtRequest struct {
	Context RenewalScope `json:"context,omitempty"`
}

type jwtResponse struct {
	JWT string `json:"jwt"`
}

// Renew requests a fresh credential. A supplied scope replaces the
// remembered one used by scheduled renewals; omitting it reuses the last
// remembered scope, which is what the renewal timer does for silent refresh.
//
// On success the credential and decoded identity are installed, the retry
// counter resets, and the next automatic renewal is armed. On failure the
// backoff policy decides: retries are scheduled silently (the returned error
// is the caller's only signal), and only once attempts are exhausted does
// the failure surface on the client's state.
func (c *Client) Renew(ctx context.Context, scope ...RenewalScope) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClientClosed
	}
	if len(scope) > 0 && scope[0] != nil {
		c.renewScope = scope[0]
	}
	requestScope := c.renewScope
	epoch := c.epoch
	c.lastErr = nil
	c.transition(eventRenewStarted)
	c.mu.Unlock()

	return c.renew(ctx, requestScope, epoch)
}

func (c *Client) renew(ctx context.Context, scope RenewalScope, epoch uint64) error {
	resp, err := callJSON[jwtResponse](ctx, c.gw, opRenewJWT, "/jwt", callOptions{
		method: http.MethodPost,
		body:   jwtRequest{Context: scope},
	}, true)
	if err != nil {
		return c.renewFailed(err, epoch)
	}
	return c.renewSucceeded(resp.JWT, epoch)
}

func (c *Client) renewSucceeded(token string, epoch uint64) error {
	c.mu.Lock()
	if c.closed || epoch != c.epoch {
		// Auth was cleared while this response was in flight.
		c.mu.Unlock()
		return nil
	}

	c.token = token
	c.user = DecodeUser(token, c.cfg.DefaultGroups)
	c.lastErr = nil
	c.attempt = 0
	c.transition(eventCredentialReceived)
	if !c.cfg.DisableAutoRenewal {
		c.schedule(c.cfg.RenewalInterval, epoch)
		c.logger.Debug("credential renewed, next renewal in %s", c.cfg.RenewalInterval)
	} else {
		c.logger.Debug("credential renewed")
	}
	user := c.user
	c.mu.Unlock()

	if c.cfg.OnRenewed != nil {
		c.cfg.OnRenewed(token, user)
	}
	return nil
}

func (c *Client) renewFailed(callErr error, epoch uint64) error {
	c.mu.Lock()
	if c.closed || epoch != c.epoch {
		c.mu.Unlock()
		return callErr
	}

	decision := c.cfg.Backoff.Decide(c.attempt)
	if decision.Retry {
		c.attempt++
		c.transition(eventRenewalFailed)
		c.schedule(decision.Delay, epoch)
		attempt := c.attempt
		c.mu.Unlock()

		c.logger.Debug("credential renewal failed (attempt %d), retrying in %s: %v", attempt, decision.Delay, callErr)
		return callErr
	}

	terminal := goerrors.Wrap(callErr, ErrRenewalExhausted.Category, ErrRenewalExhausted.Message).
		WithTextCode(TextCodeRenewalExhausted)
	c.lastErr = terminal
	c.attempt = 0
	c.transition(eventRenewalExhausted)
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()

	c.logger.Error("credential renewal exhausted: %v", callErr)
	return terminal
}

// renewAuto is the timer path: it reuses the remembered scope and drops
// silently if auth was cleared or the client closed since it was armed.
func (c *Client) renewAuto(epoch uint64) {
	c.mu.Lock()
	if c.closed || epoch != c.epoch {
		c.mu.Unlock()
		return
	}
	scope := c.renewScope
	c.lastErr = nil
	c.transition(eventRenewStarted)
	c.mu.Unlock()

	_ = c.renew(context.Background(), scope, epoch)
}

// schedule arms the single renewal timer, cancelling any pending one first.
// At most one timer exists at any instant. Callers hold c.mu.
func (c *Client) schedule(d time.Duration, epoch uint64) {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(d, func() {
		c.renewAuto(epoch)
	})
}

// transition applies an event to the status table. Callers hold c.mu.
func (c *Client) transition(event authEvent) {
	next, err := nextStatus(c.status, event)
	if err != nil {
		c.logger.Error("auth status transition rejected: %v", err)
		return
	}
	c.status = next
}

// ClearAuth cancels any pending renewal, discards the credential, identity,
// and error, and resets the retry counter. Idempotent. Responses to requests
// still in flight when ClearAuth runs are discarded on arrival.
func (c *Client) ClearAuth() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
}

func (c *Client) clearLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.token = ""
	c.user = nil
	c.lastErr = nil
	c.attempt = 0
	c.epoch++
	c.transition(eventCleared)
}

// Close clears auth and permanently disables the client. Safe to call more
// than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
	c.closed = true
	return nil
}

// State returns a snapshot of the credential lifecycle.
func (c *Client) State() AuthState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return AuthState{
		Status:  c.status,
		Token:   c.token,
		User:    c.user,
		Err:     c.lastErr,
		Attempt: c.attempt,
	}
}

// Token returns the current credential, empty when anonymous.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// CurrentUser returns the identity decoded from the current credential, nil
// when anonymous or when the token could not be decoded.
func (c *Client) CurrentUser() *User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// IsAuthenticated reports whether a credential is installed.
func (c *Client) IsAuthenticated() bool {
	return c.Token() != ""
}

// Status returns the current lifecycle status.
func (c *Client) Status() AuthStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Err returns the terminal renewal error. It is nil while retries are still
// pending, after a successful renewal, and from the moment a new renewal
// cycle starts until that cycle itself exhausts.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
