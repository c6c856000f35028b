package ass

import (
	"errors"
	"fmt"
)

var (
	// ErrParse marks malformed document input.
	ErrParse = errors.New("ass parse error")
	// ErrAlreadyOwned reports an attempt to insert an entity that belongs to another list.
	ErrAlreadyOwned = errors.New("entity already belongs to a list")
	// ErrMissingField reports construction without a required field.
	ErrMissingField = errors.New("required field missing")
	// ErrDuplicateStyle reports a second style with an existing name.
	ErrDuplicateStyle = errors.New("duplicate style name")
)

// ParseError describes where a document failed to parse.
type ParseError struct {
	Line    int
	Section string
	Msg     string
}

func (e *ParseError) Error() string {
	if e.Section == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("line %d [%s]: %s", e.Line, e.Section, e.Msg)
}

// Is lets errors.Is(err, ErrParse) match any ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
