package mojang

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Profile is the profile API response body.
type Profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Resolver maps player handles to account identifiers through the profile API.
type Resolver struct {
	BaseURL string
	Client  *http.Client
}

// NewResolver creates a resolver from configuration.
func NewResolver(cfg Config) *Resolver {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 10
	}
	return &Resolver{
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		Client:  &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

// Resolve returns the identifier for handle. Failures are *APIError values.
func (r *Resolver) Resolve(ctx context.Context, handle string) (string, error) {
	profile, err := r.Lookup(ctx, handle)
	if err != nil {
		return "", err
	}
	return profile.ID, nil
}

// Lookup fetches the full profile for handle.
func (r *Resolver) Lookup(ctx context.Context, handle string) (*Profile, error) {
	endpoint := r.BaseURL + "/" + url.PathEscape(handle)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &APIError{Handle: handle, Message: "failed to build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, &APIError{Handle: handle, Message: "request failed", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &APIError{Handle: handle, StatusCode: resp.StatusCode, Message: resp.Status}
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, &APIError{Handle: handle, StatusCode: resp.StatusCode, Message: "malformed profile", Err: err}
	}
	if profile.ID == "" {
		return nil, &APIError{Handle: handle, StatusCode: http.StatusNoContent, Message: "profile without id"}
	}

	return &profile, nil
}
