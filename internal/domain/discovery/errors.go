package discovery

import "errors"

// A set of error variables for the failure modes of a scan. Callers match
// them with errors.Is; every error produced by this package and its
// collaborators wraps exactly one of these.
var (
	// ErrMalformedEndpoint indicates the configured server URL could not be
	// parsed into a usable endpoint. User-input error, never retryable.
	ErrMalformedEndpoint = errors.New("malformed server endpoint")

	// ErrConnection indicates the API client could not be constructed or the
	// server could not be reached for the first page.
	ErrConnection = errors.New("server connection failed")

	// ErrPageFetch indicates a mid-pagination network or decode failure.
	// Projects already submitted before the failure remain valid.
	ErrPageFetch = errors.New("project page fetch failed")

	// ErrCancelled indicates the scan was aborted cooperatively. It is an
	// early termination, not a failure.
	ErrCancelled = errors.New("discovery cancelled")

	// ErrPaginationLimit indicates the defensive page cap was hit, which
	// points at a server that never signals completion.
	ErrPaginationLimit = errors.New("pagination limit exceeded")
)
