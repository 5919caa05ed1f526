package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"

	"github.com/ahrav/gerrit-scout/internal/domain/discovery"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	translator, _ = uni.GetTranslator("en")
	_ = entrans.RegisterDefaultTranslations(validate, translator)
}

// Validate checks the configuration for structural problems and verifies that
// every server URL resolves to a usable endpoint. It reports all server URL
// problems, not just the first.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]error, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, errors.New(fe.Translate(translator)))
			}
			return fmt.Errorf("invalid configuration: %w", errors.Join(msgs...))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var errs []error
	for _, server := range c.Servers {
		if err := discovery.CheckServerURL(server.URL); err != nil {
			errs = append(errs, fmt.Errorf("server %q: %w", server.Name, err))
		}
		if server.CredentialsRef != "" {
			if _, ok := c.Auth[server.CredentialsRef]; !ok {
				errs = append(errs, fmt.Errorf("server %q: unknown credentials_ref %q", server.Name, server.CredentialsRef))
			}
		}
	}
	return errors.Join(errs...)
}
