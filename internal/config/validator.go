package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/fbcorp/gleo/internal/logger"
)

// Upper bounds mirrored from the wizard limits; config cannot seed more than
// the wizard accepts.
const (
	maxSeedVendors = 8
	maxSeedItems   = 5
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidTransports returns the accepted transport names.
func ValidTransports() []string {
	return []string{TransportHTTP, TransportNATS, TransportDryRun}
}

// Validate checks the Config for invalid values and returns all validation errors found.
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors

	if !slices.Contains(ValidTransports(), c.Transport) {
		errs = append(errs, ValidationError{
			Field:   "transport",
			Value:   c.Transport,
			Message: "must be one of " + strings.Join(ValidTransports(), ", "),
		})
	}

	if c.Transport == TransportHTTP {
		u, err := url.Parse(c.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "endpoint",
				Value:   c.Endpoint,
				Message: "must be an absolute http(s) URL",
			})
		}
	}

	if c.Transport == TransportNATS && strings.TrimSpace(c.NatsSubject) == "" {
		errs = append(errs, ValidationError{
			Field:   "nats_subject",
			Value:   c.NatsSubject,
			Message: "must not be empty",
		})
	}

	if c.Timeout < 0 {
		errs = append(errs, ValidationError{Field: "timeout", Value: c.Timeout, Message: "must be >= 0 (0 disables the timeout)"})
	}
	if c.RefreshDelayMs < 0 {
		errs = append(errs, ValidationError{Field: "refresh_delay_ms", Value: c.RefreshDelayMs, Message: "must be >= 0"})
	}
	if c.SeedVendors < 0 || c.SeedVendors > maxSeedVendors {
		errs = append(errs, ValidationError{Field: "seed_vendors", Value: c.SeedVendors, Message: fmt.Sprintf("must be between 0 and %d", maxSeedVendors)})
	}
	if c.SeedItems < 0 || c.SeedItems > maxSeedItems {
		errs = append(errs, ValidationError{Field: "seed_items", Value: c.SeedItems, Message: fmt.Sprintf("must be between 0 and %d", maxSeedItems)})
	}

	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, ValidationError{Field: "log_level", Value: c.LogLevel, Message: "must be one of debug, info, warn, error"})
	}

	return errs
}
