package problemdetails

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// ContentTypeJSON is the media type for JSON-encoded problem details.
const ContentTypeJSON = "application/problem+json"

var reservedMembers = map[string]struct{}{
	"type":     {},
	"status":   {},
	"title":    {},
	"detail":   {},
	"instance": {},
}

// JSONBody encodes the problem details object to a JSON response body.
// Encoding fails with an *EncodeError when the extension payload cannot be
// represented as an object, or when an extension member shadows a reserved
// member.
func (p ProblemDetails[Ext]) JSONBody() ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		var merr *json.MarshalerError
		if errors.As(err, &merr) {
			return nil, merr.Unwrap()
		}
		return nil, err
	}
	return data, nil
}

// MarshalJSON produces one flat object: each set reserved member under its
// literal name, each unset member fully omitted, and the members of the
// extension payload merged at the same nesting level.
func (p ProblemDetails[Ext]) MarshalJSON() ([]byte, error) {
	members, err := flattenExtensions(p.Extensions)
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = make(map[string]json.RawMessage, 5)
	}

	if !p.Type.IsZero() {
		members["type"] = encodeJSONString(p.Type.String())
	}
	if p.Status != 0 {
		members["status"] = json.RawMessage(strconv.Itoa(p.Status))
	}
	if p.Title != "" {
		members["title"] = encodeJSONString(p.Title)
	}
	if p.Detail != "" {
		members["detail"] = encodeJSONString(p.Detail)
	}
	if p.Instance != nil {
		members["instance"] = encodeJSONString(p.Instance.String())
	}

	return json.Marshal(members)
}

// UnmarshalJSON populates the reserved members through their codecs and
// hands every remaining key to the extension payload's own decoder. Keys
// the extension type does not claim are ignored.
func (p *ProblemDetails[Ext]) UnmarshalJSON(data []byte) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}

	var out ProblemDetails[Ext]

	if raw, ok := takeMember(members, "type"); ok {
		u, err := decodeURIMember("type", raw)
		if err != nil {
			return err
		}
		out.Type = ProblemType{uri: u}
	}
	if raw, ok := takeMember(members, "status"); ok {
		status, err := decodeStatusMember(raw)
		if err != nil {
			return err
		}
		out.Status = status
	}
	if raw, ok := takeMember(members, "title"); ok {
		if err := decodeStringMember("title", raw, &out.Title); err != nil {
			return err
		}
	}
	if raw, ok := takeMember(members, "detail"); ok {
		if err := decodeStringMember("detail", raw, &out.Detail); err != nil {
			return err
		}
	}
	if raw, ok := takeMember(members, "instance"); ok {
		u, err := decodeURIMember("instance", raw)
		if err != nil {
			return err
		}
		out.Instance = u
	}

	if len(members) > 0 {
		rest, err := json.Marshal(members)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(rest, &out.Extensions); err != nil {
			return err
		}
	}

	*p = out
	return nil
}

// flattenExtensions encodes ext and splits it into its members. A payload
// encoding to null contributes nothing; anything that is not an object is
// rejected, as is a member that shadows a reserved member.
func flattenExtensions(ext any) (map[string]json.RawMessage, error) {
	data, err := json.Marshal(ext)
	if err != nil {
		return nil, &EncodeError{Err: err}
	}
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	if len(data) == 0 || data[0] != '{' {
		return nil, &EncodeError{Err: ErrNotAnObject}
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, &EncodeError{Err: err}
	}
	for name := range members {
		if _, reserved := reservedMembers[name]; reserved {
			return nil, &EncodeError{Field: name, Err: ErrReservedExtension}
		}
	}
	return members, nil
}

// takeMember removes the named member and reports whether a decodable
// value was present. An explicit null counts as absent.
func takeMember(members map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	raw, ok := members[name]
	if !ok {
		return nil, false
	}
	delete(members, name)
	if string(bytes.TrimSpace(raw)) == "null" {
		return nil, false
	}
	return raw, true
}

func decodeStatusMember(raw json.RawMessage) (int, error) {
	// Parse the raw token instead of unmarshaling, so that quoted numbers
	// and non-integers are rejected alike.
	token := string(bytes.TrimSpace(raw))
	status, err := strconv.ParseUint(token, 10, 64)
	if err != nil || status < 100 || status > 599 {
		return 0, &DecodeError{Field: "status", Value: token, Err: ErrInvalidStatus}
	}
	return int(status), nil
}

func decodeURIMember(name string, raw json.RawMessage) (*url.URL, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, &DecodeError{Field: name, Value: string(raw), Err: ErrInvalidURI}
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, &DecodeError{Field: name, Value: s, Err: ErrInvalidURI}
	}
	return u, nil
}

func decodeStringMember(name string, raw json.RawMessage, dst *string) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("problemdetails: decode %q: %w", name, err)
	}
	return nil
}

func encodeJSONString(s string) json.RawMessage {
	data, _ := json.Marshal(s)
	return data
}
