package gate

import (
	"fmt"
	"strings"

	"schemagate/internal/schema/types"
)

// ParseError reports schema text that could not be read or parsed. It fails
// only the subject it belongs to.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidModeError reports a compatibility declaration outside the closed
// level set. The message names every valid level so a typo is correctable
// from the report alone.
type InvalidModeError struct {
	Value string
}

func (e *InvalidModeError) Error() string {
	levels := types.Levels()
	names := make([]string, 0, len(levels))
	for _, level := range levels {
		names = append(names, string(level))
	}
	return fmt.Sprintf("invalid compatibility mode %q, valid modes are %s", e.Value, strings.Join(names, ", "))
}

// FetchError reports a registry failure other than an unknown subject.
type FetchError struct {
	Subject string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch history for %s: %v", e.Subject, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
