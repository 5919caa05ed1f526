// Package credentials defines the port through which discovery resolves a
// configured credential identifier into a username/secret pair.
package credentials

import (
	"github.com/ahrav/gerrit-scout/internal/domain/discovery"
)

// Store resolves credential identifiers. Lookup is a pure, synchronous
// function with no side effects; discovery calls it exactly once per scan,
// before any network activity.
type Store interface {
	// Lookup returns the credential registered under ref that is in scope
	// for serverURL, or nil when no matching credential exists.
	Lookup(serverURL, ref string) (*discovery.Credential, error)
}
