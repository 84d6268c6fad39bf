package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/patrimonia/portal/pkg/apierror"
)

// refreshOp is one shared refresh cycle. Joiners wait on done and read err
// afterwards; err is written exactly once before done is closed.
type refreshOp struct {
	done chan struct{}
	err  error
}

// refreshCoordinator guarantees at most one in-flight refresh call. Callers
// that arrive while a cycle is pending join it and share its outcome instead
// of issuing redundant refresh requests.
type refreshCoordinator struct {
	httpClient *http.Client
	endpoint   *url.URL
	tokens     *TokenStore
	csrf       *csrfFetcher
	timeout    time.Duration
	onDeauth   func(ctx context.Context)
	logger     *logrus.Logger

	mu       sync.Mutex
	inflight *refreshOp
}

// Refresh returns once the current (or a newly started) refresh cycle
// completes. A rejected cycle is terminal for the caller's original request;
// callers must not retry again.
func (r *refreshCoordinator) Refresh(ctx context.Context) error {
	r.mu.Lock()
	if op := r.inflight; op != nil {
		// Join semantics: no new network call, share the pending outcome.
		r.mu.Unlock()
		return r.wait(ctx, op)
	}
	op := &refreshOp{done: make(chan struct{})}
	r.inflight = op
	r.mu.Unlock()

	go r.run(op)
	return r.wait(ctx, op)
}

func (r *refreshCoordinator) wait(ctx context.Context, op *refreshOp) error {
	select {
	case <-op.done:
		return op.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run executes one cycle detached from any single caller's context so a
// cancelled joiner cannot abort the shared operation. The cycle itself is
// bounded by the refresh timeout: without it, an unresponsive backend would
// hang every retry joined on the slot.
func (r *refreshCoordinator) run(op *refreshOp) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	op.err = r.cycle(ctx)

	// Reset the slot before waking joiners so a later expiry can start a
	// fresh cycle immediately.
	r.mu.Lock()
	r.inflight = nil
	r.mu.Unlock()
	close(op.done)
}

func (r *refreshCoordinator) cycle(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint.String(), nil)
	if err != nil {
		return r.fail(ctx, fmt.Errorf("create refresh request: %w", err))
	}
	if csrf := r.tokens.CsrfToken(); csrf != "" {
		req.Header.Set(CSRFTokenHeader, csrf)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return r.fail(ctx, fmt.Errorf("refresh call: %w", err))
	}
	defer resp.Body.Close()

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return r.fail(ctx, fmt.Errorf("decode refresh response: %w", err))
	}
	if !env.Success {
		return r.fail(ctx, fmt.Errorf("refresh rejected: %s", env.Message))
	}

	// Rotate the anti-forgery token; a failed rotation is non-fatal and the
	// next mutating request will fetch one itself.
	if err := r.csrf.Fetch(ctx); err != nil {
		r.logger.WithError(err).Warn("csrf rotation after refresh failed")
	}

	r.logger.Debug("access token refreshed")
	return nil
}

// fail tears the session down: persisted token and user are removed and the
// deauthentication hook (the redirect-to-login analog) fires. Teardown runs
// under its own context because the cycle context may already be expired.
func (r *refreshCoordinator) fail(_ context.Context, cause error) error {
	r.logger.WithError(cause).Warn("token refresh failed, clearing session")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.tokens.ClearSession(ctx); err != nil {
		r.logger.WithError(err).Error("session teardown failed")
	}
	if r.onDeauth != nil {
		r.onDeauth(ctx)
	}
	return fmt.Errorf("%w: %v", apierror.ErrRefreshFailed, cause)
}
