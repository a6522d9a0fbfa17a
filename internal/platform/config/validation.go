package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the package-level validator instance. Field names are reported
// using their koanf keys so errors match the YAML and env var names.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	return v
}

// Validate validates the configuration and returns an error if invalid.
// Validation fails fast - the service should not start with invalid config.
//
// The vendor section selected by provider.name is validated on its own after
// the common sections, so credentials of unused vendors may be left blank.
func (c *Config) Validate() error {
	var errs []string

	if err := validate.Struct(c); err != nil {
		msgs, fatal := collectFieldErrors(err, "")
		if fatal != nil {
			return fatal
		}
		errs = append(errs, msgs...)
	}

	if section, prefix := c.providerSection(); section != nil {
		if err := validate.Struct(section); err != nil {
			msgs, fatal := collectFieldErrors(err, prefix)
			if fatal != nil {
				return fatal
			}
			errs = append(errs, msgs...)
		}
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
}

// providerSection returns the vendor config selected by provider.name.
func (c *Config) providerSection() (section any, prefix string) {
	switch c.Provider.Name {
	case ProviderBaseKit:
		return &c.BaseKit, ProviderBaseKit
	case ProviderWeebly:
		return &c.Weebly, ProviderWeebly
	case ProviderYola:
		return &c.Yola, ProviderYola
	case ProviderWebsitecom:
		return &c.Websitecom, ProviderWebsitecom
	default:
		return nil, ""
	}
}

// collectFieldErrors converts validator errors to readable lines. A prefix
// replaces the root struct name, e.g. "basekit" for BaseKitConfig fields.
func collectFieldErrors(err error, prefix string) ([]string, error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil, err
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, formatFieldError(e, prefix))
	}

	return msgs, nil
}

// formatFieldError formats a single field validation error.
func formatFieldError(e validator.FieldError, prefix string) string {
	field := formatFieldPath(e.Namespace())
	if prefix != "" {
		field = prefix + "." + field
	}

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}

// formatFieldPath converts "Config.server.port" to "server.port".
func formatFieldPath(namespace string) string {
	// Remove the root struct name (Config.)
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}

	for i, part := range parts {
		parts[i] = strings.ToLower(part)
	}

	return strings.Join(parts, ".")
}
