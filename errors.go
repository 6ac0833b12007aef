package autocrud

import (
	"errors"
	"fmt"
)

var (
	// ErrDescriptor is an exported constant or variable used by the route generator.
	ErrDescriptor = errors.New("invalid model descriptor")
	// ErrConfig is an exported constant or variable used by the route generator.
	ErrConfig = errors.New("invalid configuration")
	// ErrValidation is an exported constant or variable used by the route generator.
	ErrValidation = errors.New("invalid request payload")
	// ErrNotFound is an exported constant or variable used by the route generator.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidCredentials is an exported constant or variable used by the route generator.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated is an exported constant or variable used by the route generator.
	ErrUnauthenticated = errors.New("missing or invalid token")
	// ErrRepository is an exported constant or variable used by the route generator.
	ErrRepository = errors.New("repository failure")
	// ErrRouterNotReady is an exported constant or variable used by the route generator.
	ErrRouterNotReady = errors.New("router not initialized")
)

// DescriptorError reports a structural problem with a registered model. It is
// fatal at generation time and satisfies errors.Is against [ErrDescriptor].
type DescriptorError struct {
	Model  string
	Reason string
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("invalid model descriptor for %q: %s", e.Model, e.Reason)
}

// Unwrap describes the unwrap operation and its observable behavior.
func (e *DescriptorError) Unwrap() error { return ErrDescriptor }

// ConfigError reports a bad RouteConfig value. It is fatal at generation time
// and satisfies errors.Is against [ErrConfig].
type ConfigError struct {
	Option string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration option %s: %s", e.Option, e.Reason)
}

// Unwrap describes the unwrap operation and its observable behavior.
func (e *ConfigError) Unwrap() error { return ErrConfig }

// ValidationError reports a bad request payload. The request is rejected with
// no side effects and the error satisfies errors.Is against [ErrValidation].
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid payload: %s", e.Reason)
	}
	return fmt.Sprintf("invalid payload field %q: %s", e.Field, e.Reason)
}

// Unwrap describes the unwrap operation and its observable behavior.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// wrapRepository normalizes repository collaborator failures. ErrNotFound
// passes through untouched so callers can branch on it; everything else is
// folded under ErrRepository.
func wrapRepository(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrRepository, err)
}
