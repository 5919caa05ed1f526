// Package memory provides an in-memory credential store built from the
// configuration's auth section.
package memory

import (
	"fmt"
	"net/url"

	"github.com/ahrav/gerrit-scout/internal/config"
	"github.com/ahrav/gerrit-scout/internal/config/credentials"
	"github.com/ahrav/gerrit-scout/internal/domain/discovery"
)

var _ credentials.Store = (*Store)(nil)

// Store holds the configured credentials keyed by identifier. It is
// immutable after construction and safe for concurrent lookups.
type Store struct {
	auth map[string]config.AuthConfig
}

// NewStore builds a store from the configuration's auth map.
func NewStore(auth map[string]config.AuthConfig) *Store {
	return &Store{auth: auth}
}

// Lookup resolves ref into a credential scoped to serverURL. An unknown ref
// or an out-of-scope credential resolves to nil, leaving the scan anonymous;
// only a malformed scope in the configuration is an error.
func (s *Store) Lookup(serverURL, ref string) (*discovery.Credential, error) {
	if ref == "" {
		return nil, nil
	}

	auth, ok := s.auth[ref]
	if !ok {
		return nil, nil
	}

	inScope, err := matchesScope(serverURL, auth.Scope)
	if err != nil {
		return nil, fmt.Errorf("credential %q: %w", ref, err)
	}
	if !inScope {
		return nil, nil
	}

	return discovery.NewCredential(auth.Username, auth.Password), nil
}

// matchesScope reports whether serverURL falls inside the credential's scope
// URI. An empty scope matches everything; otherwise scheme, hostname and
// port must agree.
func matchesScope(serverURL, scope string) (bool, error) {
	if scope == "" {
		return true, nil
	}

	scopeURL, err := url.Parse(scope)
	if err != nil {
		return false, fmt.Errorf("invalid scope %q: %w", scope, err)
	}
	target, err := url.Parse(serverURL)
	if err != nil {
		return false, fmt.Errorf("invalid server url %q: %w", serverURL, err)
	}

	if scopeURL.Scheme != target.Scheme {
		return false, nil
	}
	if scopeURL.Hostname() != target.Hostname() {
		return false, nil
	}
	if scopeURL.Port() != target.Port() {
		return false, nil
	}
	return true, nil
}
