package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// ErrInvalidCredentials is returned by Login for an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Column limits of the users and posts tables.
const (
	UsernameMinLen = 2
	UsernameMaxLen = 20
	EmailMaxLen    = 120
	TitleMaxLen    = 100
)

const (
	msgRequired      = "This field is required."
	msgUsernameTaken = "That username is taken. Please choose a different one."
	msgEmailTaken    = "That email is taken. Please choose a different one."
)

// ValidationError carries per-field messages shown inline on a form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// checkLength records a message for value (already trimmed) outside [min, max] runes.
// A zero max means no upper bound.
func (e *ValidationError) checkLength(field, value string, min, max int) {
	n := utf8.RuneCountInString(value)
	switch {
	case n == 0:
		e.add(field, msgRequired)
	case n < min:
		e.add(field, fmt.Sprintf("Field must be at least %d characters long.", min))
	case max > 0 && n > max:
		e.add(field, fmt.Sprintf("Field must be at most %d characters long.", max))
	}
}
