// Package validation checks configuration values.
//
// Struct tag validation uses go-playground/validator:
//
//	type Settings struct {
//	    BaseURL string        `yaml:"base_url" validate:"omitempty,url"`
//	    Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
//	}
//	err := validation.Validate(settings)
//
// Programmatic checks collect field errors the same way:
//
//	v := validation.New()
//	v.Required("url", rawURL).OneOf("method", method, methods)
//	err := v.Validate()
//
// Both return *Error, which lists every failing field.
package validation
