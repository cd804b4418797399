package shape

import (
	"errors"
	"fmt"
)

// ErrorKind enumerates the ways a collision query can be rejected.
type ErrorKind uint8

const (
	// InvalidShapeType means a shape tag outside {circle, rect, line} reached a dispatcher.
	InvalidShapeType ErrorKind = iota + 1
	// InvalidShapeConversion means a shape could not be reinterpreted as the requested variant.
	InvalidShapeConversion
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidShapeType:
		return "invalid_shape_type"
	case InvalidShapeConversion:
		return "invalid_shape_conversion"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. Every *Error matches the sentinel of its Kind.
var (
	ErrInvalidShapeType       = errors.New("invalid shape type")
	ErrInvalidShapeConversion = errors.New("shape is invalid, cannot convert")
)

// Error is returned by dispatchers and conversions. Both kinds are contract
// violations by the caller and are never retried.
type Error struct {
	Kind ErrorKind
	// Type is the name of the offending shape type as supplied by the caller.
	Type string
	// Target is the variant a conversion was attempted to; TagInvalid for dispatch errors.
	Target Tag
	// Reason optionally names the missing or degenerate field.
	Reason string
}

func (e *Error) Error() string {
	switch e.Kind {
	case InvalidShapeType:
		if e.Type == "" {
			return ErrInvalidShapeType.Error()
		}
		return fmt.Sprintf("%s: %q", ErrInvalidShapeType, e.Type)
	case InvalidShapeConversion:
		msg := ErrInvalidShapeConversion.Error()
		if e.Target != TagInvalid {
			msg = fmt.Sprintf("%s to %s", msg, e.Target)
		}
		if e.Reason != "" {
			msg = fmt.Sprintf("%s: %s", msg, e.Reason)
		}
		return msg
	default:
		return "shape error"
	}
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidShapeType:
		return e.Kind == InvalidShapeType
	case ErrInvalidShapeConversion:
		return e.Kind == InvalidShapeConversion
	}
	return false
}

// KindOf returns the ErrorKind carried by err, or 0 if err is not a shape error.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

func invalidType(tag Tag) *Error {
	return &Error{Kind: InvalidShapeType, Type: tag.String()}
}

func invalidTypeName(name string) *Error {
	return &Error{Kind: InvalidShapeType, Type: name}
}

func invalidConversion(from, to Tag, reason string) *Error {
	if reason == "" && from != to {
		reason = fmt.Sprintf("got %s", from)
	}
	return &Error{Kind: InvalidShapeConversion, Type: from.String(), Target: to, Reason: reason}
}
