package problemdetails

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStatus marks a status member that is not an unsigned
	// integer in [100, 599].
	ErrInvalidStatus = errors.New("status must be an integer in [100, 599]")

	// ErrInvalidURI marks a type or instance member that cannot be parsed
	// as a URI reference.
	ErrInvalidURI = errors.New("invalid uri reference")

	// ErrNotAnObject marks an extension payload that does not encode to an
	// object and therefore cannot be flattened.
	ErrNotAnObject = errors.New("extensions do not encode to an object")

	// ErrInvalidElementName marks an extension member whose name cannot be
	// used as an XML element name.
	ErrInvalidElementName = errors.New("extension member is not a valid xml element name")

	// ErrReservedExtension marks an extension member that shadows one of
	// the reserved members.
	ErrReservedExtension = errors.New("extension member shadows a reserved member")
)

// DecodeError reports a reserved member that was present but invalid. A
// wholly absent member never produces a DecodeError.
type DecodeError struct {
	// Field is the reserved member that failed to decode.
	Field string

	// Value is the offending wire value.
	Value any

	// Err is the failure kind, one of ErrInvalidStatus or ErrInvalidURI.
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("problemdetails: decode %q: %v: got %v", e.Field, e.Err, e.Value)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodeError reports an extension payload that cannot be represented in
// the target wire format.
type EncodeError struct {
	// Field is the offending extension member, when one can be named.
	Field string

	// Err is the failure kind.
	Err error
}

func (e *EncodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("problemdetails: encode: %v", e.Err)
	}
	return fmt.Sprintf("problemdetails: encode %q: %v", e.Field, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}
