package gerrit

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"
)

// retryTransport retries transient failures of idempotent requests with
// exponential backoff. Retry policy belongs to this network layer alone; the
// pager and the orchestrator above it never retry.
type retryTransport struct {
	base       http.RoundTripper
	maxElapsed time.Duration
}

func newRetryTransport(base http.RoundTripper) *retryTransport {
	return &retryTransport{base: base, maxElapsed: 30 * time.Second}
}

// RoundTrip implements http.RoundTripper. Only GET requests are retried:
// transport errors and gateway-class 5xx responses count as transient,
// everything else is returned as-is.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return t.base.RoundTrip(req)
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 500 * time.Millisecond
	expBackoff.MaxElapsedTime = t.maxElapsed

	var resp *http.Response
	operation := func() error {
		var err error
		resp, err = t.base.RoundTrip(req)
		if err != nil {
			if permanentFailure(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		if retryableStatus(resp.StatusCode) {
			resp.Body.Close()
			return fmt.Errorf("transient status %d", resp.StatusCode)
		}
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(expBackoff, req.Context())); err != nil {
		return nil, err
	}
	return resp, nil
}

// permanentFailure reports errors that no amount of retrying will fix, such
// as certificate verification failures or an already-cancelled context.
func permanentFailure(err error) bool {
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
