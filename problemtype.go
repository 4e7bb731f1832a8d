package problemdetails

import (
	"fmt"
	"net/url"
)

// UnsetType is the URI reference consumers assume when no problem type is
// given, per RFC 9457 section 3.1.1.
const UnsetType = "about:blank"

// ProblemType is a URI reference that identifies a problem category.
//
// The wrapped value is always a syntactically valid URI reference; no
// semantic validation (reachability, scheme whitelist) is performed. Two
// syntactically different URIs are never considered equal, even when they
// would dereference to the same resource.
//
// The zero value means "no type given".
type ProblemType struct {
	uri *url.URL
}

// NewProblemType parses raw as a URI reference and wraps it.
func NewProblemType(raw string) (ProblemType, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return ProblemType{}, fmt.Errorf("problemdetails: %w: %q", ErrInvalidURI, raw)
	}
	return ProblemType{uri: u}, nil
}

// MustProblemType is like NewProblemType but panics on invalid input.
// Intended for type URIs known at compile time.
func MustProblemType(raw string) ProblemType {
	t, err := NewProblemType(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// ProblemTypeFromURL wraps an already parsed URI reference.
func ProblemTypeFromURL(u *url.URL) ProblemType {
	return ProblemType{uri: u}
}

// DefaultProblemType returns the "about:blank" problem type.
func DefaultProblemType() ProblemType {
	return MustProblemType(UnsetType)
}

// URI returns the wrapped URI reference, or nil for the zero value.
func (t ProblemType) URI() *url.URL {
	return t.uri
}

// IsZero reports whether no type was given.
func (t ProblemType) IsZero() bool {
	return t.uri == nil
}

// String returns the canonical string form of the wrapped URI reference.
func (t ProblemType) String() string {
	if t.uri == nil {
		return ""
	}
	return t.uri.String()
}

// Equal reports whether both types wrap the same URI reference, comparing
// the canonical string forms.
func (t ProblemType) Equal(other ProblemType) bool {
	if t.IsZero() || other.IsZero() {
		return t.IsZero() == other.IsZero()
	}
	return t.String() == other.String()
}
