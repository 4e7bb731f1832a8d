// Package ginproblem renders problem details objects as gin responses.
//
// The JSON and XML types plug into gin's render pipeline:
//
//	c.Render(http.StatusNotFound, ginproblem.U(
//		http.StatusNotFound,
//		"Not Found",
//		fmt.Sprintf("path %s not found", c.Request.URL.Path)))
//
// Respond and RespondXML write a complete response, taking the status line
// from the problem itself.
package ginproblem

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/3lvia/problemdetails"
)

const (
	contentTypeJSON = problemdetails.ContentTypeJSON + "; charset=utf-8"
	contentTypeXML  = problemdetails.ContentTypeXML + "; charset=utf-8"
)

// JSON renders a problem details object as an application/problem+json body.
type JSON[Ext any] struct {
	Details problemdetails.ProblemDetails[Ext]
}

func (r JSON[Ext]) Render(w http.ResponseWriter) error {
	body, err := r.Details.JSONBody()
	if err != nil {
		return err
	}
	r.WriteContentType(w)
	_, err = w.Write(body)
	return err
}

func (r JSON[Ext]) WriteContentType(w http.ResponseWriter) {
	writeContentType(w, contentTypeJSON)
}

// XML renders a problem details object as an application/problem+xml body.
type XML[Ext any] struct {
	Details problemdetails.ProblemDetails[Ext]
}

func (r XML[Ext]) Render(w http.ResponseWriter) error {
	body, err := r.Details.XMLBody()
	if err != nil {
		return err
	}
	r.WriteContentType(w)
	_, err = w.Write(body)
	return err
}

func (r XML[Ext]) WriteContentType(w http.ResponseWriter) {
	writeContentType(w, contentTypeXML)
}

// D renders a problem details response.
func D[Ext any](details problemdetails.ProblemDetails[Ext]) JSON[Ext] {
	return JSON[Ext]{Details: details}
}

// U renders a problem details response with the given status code, title
// and detail.
func U(code int, title, detail string) JSON[problemdetails.NoExtensions] {
	return D(problemdetails.New().
		WithStatus(code).
		WithTitle(title).
		WithDetail(detail))
}

// Respond writes details as a problem+json response, with the status line
// taken from the problem's status member, or 500 when unset. When the body
// cannot be encoded the response degrades to a bare 500 without a body.
func Respond[Ext any](c *gin.Context, details problemdetails.ProblemDetails[Ext]) {
	body, err := details.JSONBody()
	if err != nil {
		fallback(c, err)
		return
	}
	c.Data(details.StatusOrDefault(), contentTypeJSON, body)
	c.Abort()
}

// RespondXML is Respond for problem+xml.
func RespondXML[Ext any](c *gin.Context, details problemdetails.ProblemDetails[Ext]) {
	body, err := details.XMLBody()
	if err != nil {
		fallback(c, err)
		return
	}
	c.Data(details.StatusOrDefault(), contentTypeXML, body)
	c.Abort()
}

func fallback(c *gin.Context, err error) {
	ctx := context.Background()
	if c.Request != nil {
		ctx = c.Request.Context()
	}
	slog.ErrorContext(ctx, "could not encode problem details", "error", err)
	c.AbortWithStatus(http.StatusInternalServerError)
}

func writeContentType(w http.ResponseWriter, value string) {
	header := w.Header()
	if val := header["Content-Type"]; len(val) == 0 {
		header["Content-Type"] = []string{value}
	}
}
