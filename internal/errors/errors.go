package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ConfigurationError is a fatal problem with user-supplied configuration.
// It carries the offending value and, where one exists, the valid set.
type ConfigurationError struct {
	Value  string
	Valid  []string
	Remedy string
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid configuration: %q", e.Value)
	if len(e.Valid) > 0 {
		fmt.Fprintf(&b, " (valid: %s)", strings.Join(e.Valid, ", "))
	}
	if e.Remedy != "" {
		b.WriteString("\n\n")
		b.WriteString(e.Remedy)
	}
	return b.String()
}

// ResolutionError wraps a failure to resolve a Git reference.
type ResolutionError struct {
	Ref string
	Err error
}

func (e *ResolutionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("failed to resolve git ref %q", e.Ref)
	}
	return fmt.Sprintf("failed to resolve git ref %q: %v", e.Ref, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// FetchError records a golden image or test page that could not be downloaded.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsConfiguration reports whether err is or wraps a ConfigurationError.
func IsConfiguration(err error) bool {
	var cfgErr *ConfigurationError
	return stderrors.As(err, &cfgErr)
}

// IsResolution reports whether err is or wraps a ResolutionError.
func IsResolution(err error) bool {
	var resErr *ResolutionError
	return stderrors.As(err, &resErr)
}
