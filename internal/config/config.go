// Package config defines the configuration surface of the discovery tool and
// the Loader abstraction used to obtain it.
package config

// AuthConfig describes one named credential. Scope optionally restricts the
// credential to servers whose URL matches its scheme, host and port.
type AuthConfig struct {
	Type     string `yaml:"type" validate:"omitempty,oneof=basic"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Scope    string `yaml:"scope,omitempty" validate:"omitempty,url"`
}

// TraitConfig is one opaque trait entry. Discovery passes traits through to
// candidate sources unmodified; only the host tool interprets them.
type TraitConfig struct {
	Name   string         `yaml:"name" validate:"required"`
	Config map[string]any `yaml:"config,omitempty"`
}

// GerritServer describes one server to discover projects on.
type GerritServer struct {
	Name           string        `yaml:"name" validate:"required"`
	URL            string        `yaml:"url" validate:"required"`
	InsecureHTTPS  bool          `yaml:"insecure_https"`
	CredentialsRef string        `yaml:"credentials_ref,omitempty"`
	Traits         []TraitConfig `yaml:"traits,omitempty" validate:"dive"`
}

// Config is the top-level configuration.
type Config struct {
	Auth     map[string]AuthConfig `yaml:"auth,omitempty" validate:"dive"`
	Servers  []GerritServer        `yaml:"servers" validate:"required,min=1,dive"`
	PageSize int                   `yaml:"page_size,omitempty" validate:"omitempty,gte=1,lte=500"`
}
