package discovery

import (
	"fmt"

	"github.com/ahrav/gerrit-scout/internal/config"
	"github.com/ahrav/gerrit-scout/internal/config/credentials"
	"github.com/ahrav/gerrit-scout/internal/domain/discovery"
	"github.com/ahrav/gerrit-scout/pkg/common/logger"
)

// BuildSettings resolves a configured server into the immutable connection
// settings for one scan. The endpoint is resolved first, so a malformed URL
// fails before any credential or network work, and the credential is looked
// up exactly once; the scan never re-resolves it.
func BuildSettings(
	server config.GerritServer,
	creds credentials.Store,
	log *logger.Logger,
) (discovery.ConnectionSettings, error) {
	endpoint, err := discovery.ResolveEndpoint(server.URL)
	if err != nil {
		return discovery.ConnectionSettings{}, err
	}

	var credential *discovery.Credential
	if server.CredentialsRef != "" {
		credential, err = creds.Lookup(server.URL, server.CredentialsRef)
		if err != nil {
			return discovery.ConnectionSettings{}, fmt.Errorf("resolving credentials %q: %w", server.CredentialsRef, err)
		}
	}

	return discovery.NewConnectionSettings(
		endpoint,
		server.InsecureHTTPS,
		credential,
		server.CredentialsRef,
		log,
	), nil
}

// TraitsFor converts the server's configured trait list into the domain
// shape, preserving order. The configs stay opaque.
func TraitsFor(server config.GerritServer) []discovery.TraitConfig {
	if len(server.Traits) == 0 {
		return nil
	}
	traits := make([]discovery.TraitConfig, 0, len(server.Traits))
	for _, t := range server.Traits {
		traits = append(traits, discovery.TraitConfig{Name: t.Name, Config: t.Config})
	}
	return traits
}
