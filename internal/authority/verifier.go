// Package authority answers "is this principal authorized to create
// agreements?". The registry holds no allow-list of its own; it asks one of
// these collaborators on every admission.
package authority

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"sponsorreg/internal/registry/models"
	"sponsorreg/pkg/platform/circuit"
	"sponsorreg/pkg/platform/sentinel"
)

// Static verifies principals against a fixed allow-list. Suitable for
// local deployments and tests.
type Static struct {
	mu       sync.RWMutex
	verified map[models.Principal]bool
}

func NewStatic(principals ...models.Principal) *Static {
	verified := make(map[models.Principal]bool, len(principals))
	for _, p := range principals {
		verified[p] = true
	}
	return &Static{verified: verified}
}

func (s *Static) IsVerifiedAuthority(_ context.Context, principal models.Principal) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.verified[principal], nil
}

// Add marks a principal as verified.
func (s *Static) Add(principal models.Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verified[principal] = true
}

// AllowAll verifies every principal. Only for local deployments where no
// verification service exists.
type AllowAll struct{}

func (AllowAll) IsVerifiedAuthority(context.Context, models.Principal) (bool, error) {
	return true, nil
}

// HTTPVerifier queries an external authority-verification service over
// HTTP: GET {base}/v1/verify?principal=... -> {"verified": bool}.
type HTTPVerifier struct {
	baseURL string
	client  *http.Client
}

func NewHTTPVerifier(baseURL string, timeout time.Duration) *HTTPVerifier {
	return &HTTPVerifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (v *HTTPVerifier) IsVerifiedAuthority(ctx context.Context, principal models.Principal) (bool, error) {
	endpoint := fmt.Sprintf("%s/v1/verify?principal=%s", v.baseURL, url.QueryEscape(principal.String()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("build verify request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("verify %s: %w", principal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("verify %s: unexpected status %d", principal, resp.StatusCode)
	}

	var body struct {
		Verified bool `json:"verified"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decode verify response: %w", err)
	}
	return body.Verified, nil
}

// Verifier is the shared contract of this package's implementations.
type Verifier interface {
	IsVerifiedAuthority(ctx context.Context, principal models.Principal) (bool, error)
}

// Breaking wraps a verifier with a circuit breaker. While the breaker is
// open, upstream failures surface as sentinel.ErrUnavailable so callers
// see one stable error for a struggling dependency; successful probes
// close the breaker again. Verification stays fail-closed either way.
type Breaking struct {
	inner   Verifier
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewBreaking(inner Verifier, breaker *circuit.Breaker, logger *slog.Logger) *Breaking {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Breaking{inner: inner, breaker: breaker, logger: logger}
}

func (b *Breaking) IsVerifiedAuthority(ctx context.Context, principal models.Principal) (bool, error) {
	if b.breaker.IsOpen() {
		// Probe so successes can close the breaker.
		verified, err := b.inner.IsVerifiedAuthority(ctx, principal)
		if err != nil {
			b.breaker.RecordFailure()
			return false, fmt.Errorf("authority verification unavailable: %w", sentinel.ErrUnavailable)
		}
		if _, change := b.breaker.RecordSuccess(); change.Closed {
			b.logger.InfoContext(ctx, "authority verifier circuit closed", "breaker", b.breaker.Name())
		}
		return verified, nil
	}

	verified, err := b.inner.IsVerifiedAuthority(ctx, principal)
	if err != nil {
		if _, change := b.breaker.RecordFailure(); change.Opened {
			b.logger.WarnContext(ctx, "authority verifier circuit opened",
				"breaker", b.breaker.Name(), "error", err)
		}
		return false, err
	}
	b.breaker.RecordSuccess()
	return verified, nil
}
