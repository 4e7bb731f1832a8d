// Package problemdetails implements the problem details object defined in
// RFC 9457 (which obsoletes RFC 7807), a standardized payload for carrying
// machine-readable details of errors in HTTP response bodies.
//
// A ProblemDetails is built from an empty value or from a status code, then
// refined with builder methods that return new values:
//
//	details := problemdetails.FromStatusCode(http.StatusNotFound).
//		WithDetail("no schedule named backup-weekly")
//
// Extension members are carried by the type parameter and flattened next to
// the reserved members when the object is encoded. See WithExtensions.
package problemdetails

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// ProblemDetails is an RFC 9457 problem details object.
//
// Every reserved member is optional; the zero value of a field means the
// member is unset and it is omitted entirely from encoded representations,
// never emitted as null or as an empty string.
type ProblemDetails[Ext any] struct {
	// Type is a URI reference that identifies the problem type.
	// Unset is equivalent to "about:blank".
	Type ProblemType

	// Status is the HTTP status code for this occurrence of the problem.
	// It is advisory and duplicates the response status line.
	Status int

	// Title is a short, human-readable summary of the problem type. It
	// should not change from occurrence to occurrence of the problem.
	Title string

	// Detail is a human-readable explanation specific to this occurrence.
	Detail string

	// Instance is a URI reference that identifies this specific occurrence.
	Instance *url.URL

	// Extensions carries additional members. When the object is encoded,
	// the members of Extensions appear as siblings of the reserved
	// members, not nested under an "extensions" key.
	Extensions Ext
}

// New creates an empty problem details object. Every member is unset and
// the value is encodable as-is.
func New() ProblemDetails[NoExtensions] {
	return ProblemDetails[NoExtensions]{}
}

// FromStatusCode creates a problem details object for the given status
// code. Title is set to the canonical reason phrase of the code when one
// exists; type, detail and instance are left unset.
func FromStatusCode(status int) ProblemDetails[NoExtensions] {
	return ProblemDetails[NoExtensions]{
		Status: status,
		Title:  http.StatusText(status),
	}
}

// WithType returns a copy with the type member set.
func (p ProblemDetails[Ext]) WithType(t ProblemType) ProblemDetails[Ext] {
	p.Type = t
	return p
}

// WithStatus returns a copy with the status member set.
func (p ProblemDetails[Ext]) WithStatus(status int) ProblemDetails[Ext] {
	p.Status = status
	return p
}

// WithTitle returns a copy with the title member set.
func (p ProblemDetails[Ext]) WithTitle(title string) ProblemDetails[Ext] {
	p.Title = title
	return p
}

// WithDetail returns a copy with the detail member set.
func (p ProblemDetails[Ext]) WithDetail(detail string) ProblemDetails[Ext] {
	p.Detail = detail
	return p
}

// WithInstance returns a copy with the instance member set.
func (p ProblemDetails[Ext]) WithInstance(instance *url.URL) ProblemDetails[Ext] {
	p.Instance = instance
	return p
}

// WithExtensions returns a problem details object with the same reserved
// members as p but with the extension payload replaced by ext, whose type
// may differ entirely from p's.
//
// This is a function rather than a method because Go methods cannot
// introduce new type parameters.
func WithExtensions[Ext, NewExt any](p ProblemDetails[Ext], ext NewExt) ProblemDetails[NewExt] {
	return ProblemDetails[NewExt]{
		Type:       p.Type,
		Status:     p.Status,
		Title:      p.Title,
		Detail:     p.Detail,
		Instance:   p.Instance,
		Extensions: ext,
	}
}

// StatusOrDefault returns the status member, or
// http.StatusInternalServerError when it is unset. Response-building
// collaborators use it to pick the transport status line.
func (p ProblemDetails[Ext]) StatusOrDefault() int {
	if p.Status == 0 {
		return http.StatusInternalServerError
	}
	return p.Status
}

// NewInstance returns a fresh urn:uuid URI reference, a convenient opaque
// identifier for the instance member.
func NewInstance() *url.URL {
	return &url.URL{Scheme: "urn", Opaque: "uuid:" + uuid.NewString()}
}

// String returns a single-line human-readable summary:
// "[type status] title: detail", where unset type falls back to
// "about:blank", unset title falls back to the reason phrase of the status
// code, and segments of unset members are dropped.
func (p ProblemDetails[Ext]) String() string {
	var b strings.Builder

	typeStr := UnsetType
	if !p.Type.IsZero() {
		typeStr = p.Type.String()
	}

	if p.Status != 0 {
		fmt.Fprintf(&b, "[%s %d]", typeStr, p.Status)
	} else {
		fmt.Fprintf(&b, "[%s]", typeStr)
	}

	title := p.Title
	if title == "" && p.Status != 0 {
		title = http.StatusText(p.Status)
	}
	if title != "" {
		b.WriteString(" ")
		b.WriteString(title)
	}

	if p.Detail != "" {
		if title != "" {
			b.WriteString(":")
		}
		b.WriteString(" ")
		b.WriteString(p.Detail)
	}

	return b.String()
}

// Error returns the same summary as String, letting a problem details
// object travel as an ordinary error value.
func (p ProblemDetails[Ext]) Error() string {
	return p.String()
}
