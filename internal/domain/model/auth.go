// Package model holds the request and response schemas exchanged with the
// Vantage backend. Responses are decoded and checked here so that callers
// never render a field the backend did not send.
package model

import (
	"fmt"
	"strings"
)

// AuthMode selects the auth endpoint.
type AuthMode string

const (
	AuthLogin  AuthMode = "login"
	AuthSignup AuthMode = "signup"
)

// Credentials is the body of POST /api/login and /api/signup.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate rejects empty fields. The email is trimmed; the password is sent as typed.
func (c Credentials) Validate() (Credentials, error) {
	c.Email = strings.TrimSpace(c.Email)
	switch {
	case c.Email == "":
		return c, fmt.Errorf("%w: email", ErrMissingInput)
	case c.Password == "":
		return c, fmt.Errorf("%w: password", ErrMissingInput)
	}
	return c, nil
}

// MessageResponse is the common {message} body. Some handlers answer with
// {error} instead, so both are kept.
type MessageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Text returns the server text, preferring message over error.
func (m MessageResponse) Text() string {
	if m.Message != "" {
		return m.Message
	}
	return m.Error
}

// DecodeMessage parses a message body. Empty bodies yield a zero value.
func DecodeMessage(data []byte) (MessageResponse, error) {
	var m MessageResponse
	if len(strings.TrimSpace(string(data))) == 0 {
		return m, nil
	}
	if err := decode("message", data, &m); err != nil {
		return MessageResponse{}, err
	}
	return m, nil
}

// SessionStatus is the optional body of the session check.
type SessionStatus struct {
	LoggedIn bool `json:"logged_in"`
	UserID   Text `json:"user_id"`
}

// DecodeSessionStatus parses a session check body. An empty body is valid;
// the status code alone decides the session.
func DecodeSessionStatus(data []byte) (SessionStatus, error) {
	var s SessionStatus
	if len(strings.TrimSpace(string(data))) == 0 {
		return s, nil
	}
	if err := decode("session", data, &s); err != nil {
		return SessionStatus{}, err
	}
	return s, nil
}
