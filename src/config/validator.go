package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
)

var (
	validProviders  = []string{"openrouter", "openai", "local"}
	validLogLevels  = []string{"debug", "info", "warn", "warning", "error"}
	validLogFormats = []string{"text", "json"}
)

// Validator validates configuration values using go-playground/validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	v := validator.New()

	// Register custom validation functions
	v.RegisterValidation("provider", oneOf(validProviders))
	v.RegisterValidation("log_level", oneOf(validLogLevels))
	v.RegisterValidation("log_format", oneOf(validLogFormats))

	return &Validator{
		validate: v,
	}
}

// Validate validates a complete configuration
func (v *Validator) Validate(config *Config) error {
	if err := v.validate.Struct(config); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			// Report the first failure in our own format
			e := validationErrors[0]
			return ValidationError{
				Field:   e.Namespace(),
				Message: fmt.Sprintf("validation failed on tag '%s' with value '%v'", e.Tag(), e.Value()),
				Value:   e.Value(),
			}
		}
		return err
	}

	if config.API.Provider == "local" && config.API.BaseURL == "" {
		return ValidationError{
			Field:   "Config.API.BaseURL",
			Message: "base_url is required for the local provider",
		}
	}

	return nil
}

// oneOf accepts empty values or one of the allowed strings.
func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		return slices.Contains(allowed, value)
	}
}
