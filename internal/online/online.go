package online

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultURL answers 204 with an empty body
	DefaultURL = "https://www.gstatic.com/generate_204"
	// DefaultTimeout bounds the probe
	DefaultTimeout = 2 * time.Second
)

// Checker decides whether the network is reachable
type Checker interface {
	IsOnline(ctx context.Context) bool
}

// Probe checks connectivity with a single bounded HTTP request
type Probe struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
}

// NewProbe creates a probe, filling in defaults for empty values
func NewProbe(url string, timeout time.Duration) *Probe {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Probe{URL: url, Timeout: timeout, Client: http.DefaultClient}
}

// IsOnline reports false on any error or when the probe does not finish in time
func (p *Probe) IsOnline(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return false
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		slog.Debug("online check failed", "url", p.URL, "error", err)
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 400
}

// Fixed is a Checker with a predetermined answer (used for --offline)
type Fixed bool

func (f Fixed) IsOnline(context.Context) bool {
	return bool(f)
}
