package vortex

import (
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

const (
	defaultAPIBaseURL      = "/api/vortex"
	defaultRenewalInterval = 30 * time.Minute
	defaultHTTPTimeout     = 10 * time.Second
)

// Config holds client options. The zero value is usable: defaults are
// applied at construction time.
type Config struct {
	// APIBaseURL prefixes every invitation call. Defaults to "/api/vortex";
	// set an absolute URL when the client does not share an origin with the
	// service.
	APIBaseURL string

	// JWTBaseURL, when set, prefixes credential-issuing calls instead of
	// APIBaseURL. Empty means the primary base serves both.
	JWTBaseURL string

	// RenewalInterval is how long after a successful renewal the next
	// automatic one is scheduled. Zero means the 30 minute default; set
	// DisableAutoRenewal to turn scheduled renewal off entirely.
	RenewalInterval time.Duration

	// DisableAutoRenewal turns off interval-based renewal. Backoff retries
	// after a failed renewal still run.
	DisableAutoRenewal bool

	// DefaultGroups is projected onto decoded identities whose token carries
	// no group memberships.
	DefaultGroups []Group

	// Backoff is the retry policy for failed renewals. Zero fields take the
	// documented defaults.
	Backoff BackoffConfig

	// OnError is invoked with every normalized gateway error, independent of
	// whether the caller also handles it. Useful for centralized telemetry.
	OnError func(error)

	// OnRenewed is invoked after each successful renewal with the fresh
	// token and the identity decoded from it (nil when undecodable).
	OnRenewed func(token string, user *User)

	// HTTPClient overrides the transport. Defaults to a client with a 10s
	// timeout.
	HTTPClient *http.Client
}

func (c Config) withDefaults() Config {
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaultAPIBaseURL
	}
	if c.RenewalInterval == 0 {
		c.RenewalInterval = defaultRenewalInterval
	}
	c.Backoff = c.Backoff.withDefaults()
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return c
}

// Validate checks the config after defaults have been applied.
func (c Config) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.APIBaseURL, validation.Required),
		validation.Field(&c.RenewalInterval, validation.Min(time.Duration(0))),
	); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid vortex config")
	}

	b := c.Backoff
	if err := validation.ValidateStruct(&b,
		validation.Field(&b.InitialDelay, validation.Min(time.Duration(0))),
		validation.Field(&b.MaxDelay, validation.Min(time.Duration(0))),
		validation.Field(&b.Multiplier, validation.Min(1.0)),
		validation.Field(&b.MaxRetries, validation.Min(0)),
	); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid backoff config")
	}

	return nil
}

type envConfig struct {
	APIBaseURL          string        `env:"VORTEX_API_BASE_URL"`
	JWTBaseURL          string        `env:"VORTEX_JWT_BASE_URL"`
	RenewalInterval     time.Duration `env:"VORTEX_RENEWAL_INTERVAL"`
	DisableAutoRenewal  bool          `env:"VORTEX_DISABLE_AUTO_RENEWAL"`
	BackoffInitialDelay time.Duration `env:"VORTEX_BACKOFF_INITIAL_DELAY"`
	BackoffMaxDelay     time.Duration `env:"VORTEX_BACKOFF_MAX_DELAY"`
	BackoffMultiplier   float64       `env:"VORTEX_BACKOFF_MULTIPLIER"`
	BackoffMaxRetries   int           `env:"VORTEX_BACKOFF_MAX_RETRIES"`
}

// ConfigFromEnv builds a Config from VORTEX_* environment variables.
// Unset variables leave the corresponding field at its zero value, so the
// construction-time defaults still apply.
func ConfigFromEnv() (Config, error) {
	var e envConfig
	if err := env.Parse(&e); err != nil {
		return Config{}, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse vortex environment config")
	}

	return Config{
		APIBaseURL:         e.APIBaseURL,
		JWTBaseURL:         e.JWTBaseURL,
		RenewalInterval:    e.RenewalInterval,
		DisableAutoRenewal: e.DisableAutoRenewal,
		Backoff: BackoffConfig{
			InitialDelay: e.BackoffInitialDelay,
			MaxDelay:     e.BackoffMaxDelay,
			Multiplier:   e.BackoffMultiplier,
			MaxRetries:   e.BackoffMaxRetries,
		},
	}, nil
}

// Option customizes client construction beyond what Config carries.
type Option func(*Client)

// WithLogger overrides the logger used for lifecycle events.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient overrides the transport, taking precedence over
// Config.HTTPClient.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.gw.httpClient = client
		}
	}
}
