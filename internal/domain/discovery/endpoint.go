// Package discovery contains the domain model for scanning a Gerrit server
// and converting every hosted project into a candidate source. It holds the
// value objects shared by the API client, the pager and the orchestrator,
// along with the ports they communicate through.
package discovery

import (
	"fmt"
	"net/url"
	"strings"
)

// authPathPrefix is the path segment Gerrit requires in front of REST calls
// made with credentials.
const authPathPrefix = "/a"

// ServerEndpoint is an immutable value object holding the original server URL
// together with the two URIs derived from it: the base used for web access
// and the base used for REST API calls. Both are produced from a single parse
// of the input so they can never drift apart.
type ServerEndpoint struct {
	raw string
	web url.URL
	api url.URL
}

// ResolveEndpoint parses a raw server URL into a ServerEndpoint. It fails
// with ErrMalformedEndpoint when the input is blank, unparsable, or missing a
// scheme or host. Resolution is pure and idempotent: the same input always
// yields byte-identical URIs.
func ResolveEndpoint(raw string) (ServerEndpoint, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ServerEndpoint{}, fmt.Errorf("%w: server url is blank", ErrMalformedEndpoint)
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return ServerEndpoint{}, fmt.Errorf("%w: %v", ErrMalformedEndpoint, err)
	}
	if u.Scheme == "" {
		return ServerEndpoint{}, fmt.Errorf("%w: missing scheme in %q", ErrMalformedEndpoint, trimmed)
	}
	if u.Host == "" {
		return ServerEndpoint{}, fmt.Errorf("%w: missing host in %q", ErrMalformedEndpoint, trimmed)
	}

	base := *u
	base.Path = strings.TrimRight(u.Path, "/")
	base.RawQuery = ""
	base.Fragment = ""

	return ServerEndpoint{raw: trimmed, web: base, api: base}, nil
}

// CheckServerURL validates a server URL the same way ResolveEndpoint does
// without keeping the result. Intended for configuration validation.
func CheckServerURL(raw string) error {
	_, err := ResolveEndpoint(raw)
	return err
}

// Raw returns the server URL exactly as it was configured.
func (e ServerEndpoint) Raw() string { return e.raw }

// WebURI returns the base URI used for web access.
func (e ServerEndpoint) WebURI() url.URL { return e.web }

// APIURI returns the base URI for anonymous REST API calls.
func (e ServerEndpoint) APIURI() url.URL { return e.api }

// AuthenticatedAPIURI returns the REST base with Gerrit's authenticated path
// prefix inserted. Only requests carrying credentials use it.
func (e ServerEndpoint) AuthenticatedAPIURI() url.URL {
	api := e.api
	api.Path += authPathPrefix
	return api
}

// String returns the web base URI, which is what diagnostics should show.
func (e ServerEndpoint) String() string { return e.web.String() }
