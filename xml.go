package problemdetails

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"unicode"
)

// ContentTypeXML is the media type for XML-encoded problem details.
const ContentTypeXML = "application/problem+xml"

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>`

// XMLBody encodes the problem details object to an XML response body: the
// declaration immediately followed by a "problem" root element whose
// children are the set reserved members in fixed order, then the extension
// members as sibling elements under the same names as their JSON keys.
//
// Encoding fails with an *EncodeError when the extension payload is not an
// object, when a member name is not a valid element name, or when a member
// shadows a reserved member.
func (p ProblemDetails[Ext]) XMLBody() ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(xmlDeclaration)
	b.WriteString("<problem>")

	if !p.Type.IsZero() {
		writeXMLElement(&b, "type", p.Type.String())
	}
	if p.Status != 0 {
		fmt.Fprintf(&b, "<status>%d</status>", p.Status)
	}
	if p.Title != "" {
		writeXMLElement(&b, "title", p.Title)
	}
	if p.Detail != "" {
		writeXMLElement(&b, "detail", p.Detail)
	}
	if p.Instance != nil {
		writeXMLElement(&b, "instance", p.Instance.String())
	}

	if err := writeXMLExtensions(&b, p.Extensions); err != nil {
		return nil, err
	}

	b.WriteString("</problem>")
	return b.Bytes(), nil
}

// writeXMLExtensions walks the encoded extension payload in member order,
// which keeps the element order deterministic: struct members appear in
// declaration order, map members sorted by key.
func writeXMLExtensions(b *bytes.Buffer, ext any) error {
	data, err := json.Marshal(ext)
	if err != nil {
		return &EncodeError{Err: err}
	}
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) == 0 || data[0] != '{' {
		return &EncodeError{Err: ErrNotAnObject}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if _, err := dec.Token(); err != nil { // opening '{'
		return &EncodeError{Err: err}
	}
	return writeXMLMembers(b, dec, true)
}

// writeXMLMembers emits the members of an already opened object up to and
// including its closing brace.
func writeXMLMembers(b *bytes.Buffer, dec *json.Decoder, topLevel bool) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return &EncodeError{Err: err}
		}
		name, ok := tok.(string)
		if !ok {
			return &EncodeError{Err: fmt.Errorf("unexpected token %v", tok)}
		}
		if topLevel {
			if _, reserved := reservedMembers[name]; reserved {
				return &EncodeError{Field: name, Err: ErrReservedExtension}
			}
		}
		if !isValidElementName(name) {
			return &EncodeError{Field: name, Err: ErrInvalidElementName}
		}
		if err := writeXMLValue(b, dec, name); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return &EncodeError{Err: err}
	}
	return nil
}

// writeXMLValue emits one value as an element named name. Objects become
// nested elements, arrays repeat the element once per item, and null
// becomes an empty element.
func writeXMLValue(b *bytes.Buffer, dec *json.Decoder, name string) error {
	tok, err := dec.Token()
	if err != nil {
		return &EncodeError{Err: err}
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			b.WriteString("<" + name + ">")
			if err := writeXMLMembers(b, dec, false); err != nil {
				return err
			}
			b.WriteString("</" + name + ">")
		case '[':
			for dec.More() {
				if err := writeXMLValue(b, dec, name); err != nil {
					return err
				}
			}
			if _, err := dec.Token(); err != nil { // closing ']'
				return &EncodeError{Err: err}
			}
		}
	case string:
		writeXMLElement(b, name, t)
	case json.Number:
		b.WriteString("<" + name + ">" + t.String() + "</" + name + ">")
	case bool:
		fmt.Fprintf(b, "<%s>%t</%s>", name, t, name)
	case nil:
		b.WriteString("<" + name + "></" + name + ">")
	}
	return nil
}

func writeXMLElement(b *bytes.Buffer, name, text string) {
	b.WriteString("<" + name + ">")
	_ = xml.EscapeText(b, []byte(text))
	b.WriteString("</" + name + ">")
}

// isValidElementName checks name against the XML Name production, limited
// to the letter, digit and punctuation classes seen in practice.
func isValidElementName(name string) bool {
	for i, r := range name {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '.' && r != '_' {
			return false
		}
	}
	return len(name) > 0
}
