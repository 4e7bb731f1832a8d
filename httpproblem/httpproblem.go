// Package httpproblem writes problem details objects to plain net/http
// responses, for servers that do not use a router framework.
package httpproblem

import (
	"net/http"

	"github.com/3lvia/problemdetails"
)

// WriteJSON writes details as a problem+json response, with the status
// line taken from the problem's status member, or 500 when unset. When the
// body cannot be encoded the response degrades to a bare 500 without a
// body and the encode error is returned.
func WriteJSON[Ext any](w http.ResponseWriter, details problemdetails.ProblemDetails[Ext]) error {
	body, err := details.JSONBody()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return err
	}
	return write(w, problemdetails.ContentTypeJSON, details.StatusOrDefault(), body)
}

// WriteXML is WriteJSON for problem+xml.
func WriteXML[Ext any](w http.ResponseWriter, details problemdetails.ProblemDetails[Ext]) error {
	body, err := details.XMLBody()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return err
	}
	return write(w, problemdetails.ContentTypeXML, details.StatusOrDefault(), body)
}

func write(w http.ResponseWriter, contentType string, status int, body []byte) error {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, err := w.Write(body)
	return err
}
