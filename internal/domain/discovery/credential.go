package discovery

// Credential is an immutable username/secret pair resolved once before a scan
// starts. It is read-only for the remainder of the scan.
type Credential struct {
	username string
	secret   string
}

// NewCredential creates a new Credential value.
func NewCredential(username, secret string) *Credential {
	return &Credential{username: username, secret: secret}
}

// Username returns the credential's username.
func (c *Credential) Username() string { return c.username }

// Secret returns the credential's secret.
func (c *Credential) Secret() string { return c.secret }
