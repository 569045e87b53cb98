package service

import (
	"errors"
	"fmt"

	"github.com/projectvantage/vantage/internal/adapters/backend"
	"github.com/projectvantage/vantage/internal/domain/model"
)

// User-facing texts.
const (
	msgMissingCredentials = "Please enter your email and password."
	msgAuthNetwork        = "A network error occurred. Please try again."
	msgToolNetwork        = "A network error occurred"
	msgLoginOK            = "Login successful!"
	msgSignupOK           = "User created successfully!"
	msgSectionUnavailable = "%s unavailable: %s"
)

func requestFailed(status int) string {
	return fmt.Sprintf("Request failed (%d)", status)
}

// describe turns a backend error into the text shown after "<Tool> failed: ".
// The second return is false for transport failures, which use their own message.
func describe(err error) (string, bool) {
	if se, ok := backend.AsStatus(err); ok {
		if se.Message != "" {
			return se.Message, true
		}
		return requestFailed(se.Status), true
	}
	var fe *model.FieldError
	if errors.As(err, &fe) {
		return fmt.Sprintf("invalid response (%s)", fe.Field), true
	}
	if errors.Is(err, model.ErrMalformed) {
		return "invalid response", true
	}
	return "", false
}
