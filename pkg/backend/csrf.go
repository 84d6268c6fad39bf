package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CSRFTokenHeader is the header carrying the anti-forgery token on mutating
// requests.
const CSRFTokenHeader = "CSRF-Token"

type csrfResponse struct {
	CsrfToken string `json:"csrfToken"`
}

// csrfFetcher retrieves a fresh anti-forgery token from the backend and
// stores it. Failure here is non-fatal: the previous token (or none) stays in
// place and the next mutating request retries the fetch.
type csrfFetcher struct {
	httpClient *http.Client
	endpoint   *url.URL
	tokens     *TokenStore
	logger     *logrus.Logger
}

// Fetch issues a cache-busted GET for a fresh token, with credentials
// included so the backend can bind the token to the session cookie.
func (f *csrfFetcher) Fetch(ctx context.Context) error {
	u := *f.endpoint
	q := u.Query()
	q.Set("_t", uuid.NewString())
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create csrf request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.logger.WithError(err).Warn("csrf token fetch failed")
		return fmt.Errorf("csrf token fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.WithField("status", resp.StatusCode).Warn("csrf endpoint returned non-200")
		return fmt.Errorf("csrf endpoint returned status %d", resp.StatusCode)
	}

	var body csrfResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		f.logger.WithError(err).Warn("csrf response malformed")
		return fmt.Errorf("decode csrf response: %w", err)
	}
	if body.CsrfToken == "" {
		f.logger.Warn("csrf response missing token field")
		return fmt.Errorf("csrf response missing csrfToken field")
	}

	f.tokens.SetCsrfToken(body.CsrfToken)
	return nil
}
