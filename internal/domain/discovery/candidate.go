package discovery

// TraitConfig is an opaque, ordered behavior modifier supplied by the host
// tool's configuration. Discovery passes traits through to candidates
// unmodified and never interprets them.
type TraitConfig struct {
	Name   string
	Config map[string]any
}

// CandidateSource is the per-project descriptor handed to the observer. It
// carries everything needed to later configure a full repository source for
// that one project. Ownership passes to the observer on submission.
type CandidateSource struct {
	sourceID       string
	projectName    string
	endpoint       ServerEndpoint
	insecureHTTPS  bool
	credentialsRef string
	traits         []TraitConfig
}

// NewCandidateSource builds a candidate for one discovered project. The
// source ID composes the scan identity with the project name, which keeps it
// stable across scans of the same server.
func NewCandidateSource(
	scanID string,
	projectName string,
	endpoint ServerEndpoint,
	insecureHTTPS bool,
	credentialsRef string,
	traits []TraitConfig,
) *CandidateSource {
	return &CandidateSource{
		sourceID:       scanID + "::" + projectName,
		projectName:    projectName,
		endpoint:       endpoint,
		insecureHTTPS:  insecureHTTPS,
		credentialsRef: credentialsRef,
		traits:         traits,
	}
}

// SourceID returns the candidate's identifier.
func (c *CandidateSource) SourceID() string { return c.sourceID }

// ProjectName returns the name of the discovered project.
func (c *CandidateSource) ProjectName() string { return c.projectName }

// Endpoint returns the server endpoint the project lives on.
func (c *CandidateSource) Endpoint() ServerEndpoint { return c.endpoint }

// InsecureHTTPS reports whether TLS verification is skipped for this source.
func (c *CandidateSource) InsecureHTTPS() bool { return c.insecureHTTPS }

// CredentialsRef returns the credential identifier to use when accessing the
// project, or "" for anonymous access.
func (c *CandidateSource) CredentialsRef() string { return c.credentialsRef }

// Traits returns the ordered trait configurations, passed through unmodified.
func (c *CandidateSource) Traits() []TraitConfig { return c.traits }
