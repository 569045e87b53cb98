package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Text holds a JSON scalar as display text. The backend sends the same
// field as a string in one deployment and a number in another.
type Text string

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*t = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	case b[0] == '{' || b[0] == '[':
		return fmt.Errorf("%w: expected a scalar, got %s", ErrMalformed, b[:1])
	default:
		*t = Text(b)
	}
	return nil
}

func (t Text) String() string { return string(t) }

// Or returns fallback when t is empty.
func (t Text) Or(fallback string) string {
	if t == "" {
		return fallback
	}
	return string(t)
}

func decode(schema string, data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformed, schema, err)
	}
	return nil
}
