package autocrud

import (
	"runtime"
	"time"
)

// Config defines a public type used by autocrud APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Cache       CacheConfig
	Concurrency ConcurrencyConfig
	Login       LoginConfig
	Auth        AuthConfig
	Sessions    SessionsConfig
	Metrics     MetricsConfig
	Audit       AuditConfig
}

/*
====================================
CACHE CONFIG
====================================
*/

// CacheConfig defines a public type used by autocrud APIs.
//
// CacheConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CacheConfig struct {
	// TTL is the lifetime of cached read responses. Zero or negative disables
	// caching entirely: lookups and population become no-ops and every read
	// delegates to the repository.
	TTL         time.Duration
	RedisPrefix string
}

/*
====================================
CONCURRENCY CONFIG
====================================
*/

// ConcurrencyConfig defines a public type used by autocrud APIs.
//
// ConcurrencyConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ConcurrencyConfig struct {
	// MaxConcurrent bounds simultaneous in-flight operations for the model.
	// Zero means "unset" and defaults to runtime.NumCPU() at build time;
	// a negative value is rejected with a ConfigError.
	MaxConcurrent int
}

/*
====================================
LOGIN / AUTH CONFIG
====================================
*/

// LoginConfig defines a public type used by autocrud APIs.
//
// LoginConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LoginConfig struct {
	Enabled bool
	// Fields name the descriptor fields used to locate the candidate record
	// during login. Required when Enabled is true.
	Fields []string
	// TTL is the session token lifetime. Zero defaults to one hour.
	TTL time.Duration
}

// AuthConfig defines a public type used by autocrud APIs.
//
// AuthConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuthConfig struct {
	// Required gates every generated operation (except login) behind bearer
	// token validation.
	Required bool
}

// SessionsConfig defines a public type used by autocrud APIs.
//
// SessionsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionsConfig struct {
	RedisPrefix string
	// SignedTokens wraps the opaque session id in an HS256-signed envelope.
	// Validation still resolves the session record, so revocation and expiry
	// semantics are identical to opaque mode.
	SignedTokens bool
	SigningKey   []byte
}

/*
====================================
METRICS / AUDIT CONFIG
====================================
*/

// MetricsConfig defines a public type used by autocrud APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// AuditConfig defines a public type used by autocrud APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

func defaultConfig() Config {
	return Config{
		Cache: CacheConfig{
			TTL:         0,
			RedisPrefix: "ac",
		},
		Concurrency: ConcurrencyConfig{
			MaxConcurrent: 0,
		},
		Login: LoginConfig{
			Enabled: false,
			TTL:     time.Hour,
		},
		Auth: AuthConfig{
			Required: false,
		},
		Sessions: SessionsConfig{
			RedisPrefix:  "acs",
			SignedTokens: false,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if cfg.Login.Fields != nil {
		out.Login.Fields = make([]string, len(cfg.Login.Fields))
		copy(out.Login.Fields, cfg.Login.Fields)
	}
	out.Sessions.SigningKey = cloneBytes(cfg.Sessions.SigningKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	if c.Concurrency.MaxConcurrent < 0 {
		return &ConfigError{Option: "Concurrency.MaxConcurrent", Reason: "must be at least 1"}
	}

	if c.Login.Enabled {
		if len(c.Login.Fields) == 0 {
			return &ConfigError{Option: "Login.Fields", Reason: "required when login is enabled"}
		}
		seen := make(map[string]struct{}, len(c.Login.Fields))
		for _, f := range c.Login.Fields {
			if f == "" {
				return &ConfigError{Option: "Login.Fields", Reason: "contains an empty field name"}
			}
			if _, dup := seen[f]; dup {
				return &ConfigError{Option: "Login.Fields", Reason: "contains duplicate field " + f}
			}
			seen[f] = struct{}{}
		}
		if c.Login.TTL < 0 {
			return &ConfigError{Option: "Login.TTL", Reason: "must not be negative"}
		}
	}

	if c.Sessions.SignedTokens && len(c.Sessions.SigningKey) == 0 {
		return &ConfigError{Option: "Sessions.SigningKey", Reason: "required when signed tokens are enabled"}
	}

	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return &ConfigError{Option: "Audit.BufferSize", Reason: "must not be negative"}
	}

	return nil
}

// effectiveMaxConcurrent resolves the admission slot count, deriving the
// default from host parallelism when unset.
func (c *Config) effectiveMaxConcurrent() int {
	if c.Concurrency.MaxConcurrent > 0 {
		return c.Concurrency.MaxConcurrent
	}
	return runtime.NumCPU()
}

// effectiveLoginTTL resolves the session token lifetime.
func (c *Config) effectiveLoginTTL() time.Duration {
	if c.Login.TTL > 0 {
		return c.Login.TTL
	}
	return time.Hour
}
