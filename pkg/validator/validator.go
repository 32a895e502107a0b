package validator

import (
	"github.com/go-playground/validator/v10"
)

// Echo adapts go-playground/validator to echo's Validator interface so
// handlers can call c.Validate on bound payloads.
type Echo struct {
	validate *validator.Validate
}

// New returns a validator ready to register on an echo instance.
func New() *Echo {
	return &Echo{validate: validator.New()}
}

// Validate checks struct tags on i and returns the first violation.
func (e *Echo) Validate(i interface{}) error {
	return e.validate.Struct(i)
}

// Struct validates a tagged struct outside the request path, such as
// configuration loaded at startup.
func Struct(i interface{}) error {
	return validator.New().Struct(i)
}
