package discovery

import (
	"fmt"
	"strings"

	"github.com/ahrav/gerrit-scout/pkg/common/logger"
)

// ConnectionSettings is an immutable value object bundling everything a scan
// needs to talk to one server: the resolved endpoint, the TLS verification
// toggle, the optional resolved credential, and the diagnostic log sink. It
// is owned exclusively by the scan that created it and never shared across
// concurrent scans.
type ConnectionSettings struct {
	endpoint       ServerEndpoint
	insecureHTTPS  bool
	credential     *Credential
	credentialsRef string
	log            *logger.Logger
}

// NewConnectionSettings creates the settings for one scan. The credential may
// be nil for anonymous access; credentialsRef is the configured identifier
// the credential was resolved from and participates in the scan identity.
func NewConnectionSettings(
	endpoint ServerEndpoint,
	insecureHTTPS bool,
	credential *Credential,
	credentialsRef string,
	log *logger.Logger,
) ConnectionSettings {
	if log == nil {
		log = logger.Noop()
	}
	return ConnectionSettings{
		endpoint:       endpoint,
		insecureHTTPS:  insecureHTTPS,
		credential:     credential,
		credentialsRef: credentialsRef,
		log:            log,
	}
}

// Endpoint returns the resolved server endpoint.
func (s ConnectionSettings) Endpoint() ServerEndpoint { return s.endpoint }

// InsecureHTTPS reports whether TLS certificate verification is skipped.
func (s ConnectionSettings) InsecureHTTPS() bool { return s.insecureHTTPS }

// Credential returns the resolved credential, or nil for anonymous access.
func (s ConnectionSettings) Credential() *Credential { return s.credential }

// CredentialsRef returns the configured credential identifier, or "".
func (s ConnectionSettings) CredentialsRef() string { return s.credentialsRef }

// Logger returns the scan's diagnostic log sink. Never nil.
func (s ConnectionSettings) Logger() *logger.Logger { return s.log }

// ScanIdentity returns the stable identity of scans using these settings,
// derived from the server URL and the credential identifier.
func (s ConnectionSettings) ScanIdentity() string {
	attrs := []string{
		fmt.Sprintf("server-url=%s", s.endpoint.Raw()),
		fmt.Sprintf("credentials-id=%s", s.credentialsRef),
	}
	return strings.Join(attrs, "::")
}
