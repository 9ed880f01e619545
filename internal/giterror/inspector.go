package giterror

import (
	"errors"
	"net"
	"strings"
)

// Inspector provides methods for analyzing GitHub API errors.
type Inspector interface {
	// IsAuthError returns true if the error represents an authentication or authorization failure.
	IsAuthError(err error) bool

	// IsNotFoundError returns true if the error reports an unknown user or resource.
	IsNotFoundError(err error) bool

	// IsRateLimitError returns true if the error represents a rate limit error.
	IsRateLimitError(err error) bool

	// IsNetworkError returns true if the error represents a network connectivity error.
	IsNetworkError(err error) bool
}

// GitHubErrorInspector implements the Inspector interface for GitHub API errors
// by looking at the error text.
type GitHubErrorInspector struct{}

// NewInspector creates a new GitHubErrorInspector.
func NewInspector() Inspector {
	return &GitHubErrorInspector{}
}

// IsAuthError checks if the error is an authentication or authorization error.
func (i *GitHubErrorInspector) IsAuthError(err error) bool {
	return containsAny(err,
		"401",
		"403",
		"unauthorized",
		"forbidden",
		"bad credentials",
		"authentication")
}

// IsNotFoundError checks if the error is a not found error.
// GraphQL reports an unknown login as "Could not resolve to a User".
func (i *GitHubErrorInspector) IsNotFoundError(err error) bool {
	return containsAny(err,
		"404",
		"not found",
		"could not resolve to a user")
}

// IsRateLimitError checks if the error is a rate limit error.
func (i *GitHubErrorInspector) IsRateLimitError(err error) bool {
	return containsAny(err,
		"rate limit",
		"429")
}

// IsNetworkError checks if the error is a network connectivity error.
func (i *GitHubErrorInspector) IsNetworkError(err error) bool {
	return containsAny(err,
		"connection refused",
		"connection reset",
		"no such host",
		"timeout",
		"temporary failure",
		"dial tcp",
		"tls handshake",
		"network is unreachable")
}

func containsAny(err error, needles ...string) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	for _, needle := range needles {
		if strings.Contains(errStr, needle) {
			return true
		}
	}
	return false
}

// ErrorChainInspector wraps a base inspector and adds support for checking errors
// in the error chain using errors.As.
type ErrorChainInspector struct {
	base Inspector
}

// NewErrorChainInspector creates a new ErrorChainInspector that checks both
// the error chain and falls back to string-based inspection.
func NewErrorChainInspector(base Inspector) Inspector {
	return &ErrorChainInspector{base: base}
}

// IsAuthError checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsAuthError(err error) bool {
	var authErr interface{ IsAuthError() bool }
	if errors.As(err, &authErr) && authErr.IsAuthError() {
		return true
	}
	return e.base.IsAuthError(err)
}

// IsNotFoundError checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsNotFoundError(err error) bool {
	var notFoundErr interface{ IsNotFoundError() bool }
	if errors.As(err, &notFoundErr) && notFoundErr.IsNotFoundError() {
		return true
	}
	return e.base.IsNotFoundError(err)
}

// IsRateLimitError checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsRateLimitError(err error) bool {
	var rateLimitErr interface{ IsRateLimitError() bool }
	if errors.As(err, &rateLimitErr) && rateLimitErr.IsRateLimitError() {
		return true
	}
	return e.base.IsRateLimitError(err)
}

// IsNetworkError treats any net.Error in the chain as a network failure
// before falling back to the base inspector.
func (e *ErrorChainInspector) IsNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var networkErr interface{ IsNetworkError() bool }
	if errors.As(err, &networkErr) && networkErr.IsNetworkError() {
		return true
	}
	return e.base.IsNetworkError(err)
}
