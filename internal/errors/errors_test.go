package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestConfigurationErrorMessage(t *testing.T) {
	err := &ConfigurationError{
		Value:  "laptop",
		Valid:  []string{"desktop", "mobile"},
		Remedy: "Fix the alias",
	}

	msg := err.Error()
	for _, want := range []string{`"laptop"`, "desktop, mobile", "Fix the alias"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in message, got: %s", want, msg)
		}
	}
}

func TestIsConfigurationWrapped(t *testing.T) {
	err := fmt.Errorf("expanding user agents: %w", &ConfigurationError{Value: "x"})
	if !IsConfiguration(err) {
		t.Error("expected wrapped ConfigurationError to be detected")
	}
	if IsConfiguration(stderrors.New("plain")) {
		t.Error("plain error should not be a ConfigurationError")
	}
}

func TestResolutionErrorUnwrap(t *testing.T) {
	cause := stderrors.New("unknown revision")
	err := fmt.Errorf("resolve: %w", &ResolutionError{Ref: "origin/nope", Err: cause})

	if !IsResolution(err) {
		t.Error("expected ResolutionError to be detected")
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be reachable via errors.Is")
	}
}

func TestFetchErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *FetchError
		want string
	}{
		{
			name: "status code",
			err:  &FetchError{URL: "https://x/a.png", StatusCode: 404},
			want: "HTTP 404",
		},
		{
			name: "transport error",
			err:  &FetchError{URL: "https://x/a.png", Err: stderrors.New("connection refused")},
			want: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.err.Error(), tt.want) {
				t.Errorf("expected %q in %q", tt.want, tt.err.Error())
			}
		})
	}
}
