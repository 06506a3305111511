package portability

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/getmockd/routestore/pkg/route"
)

// DocumentVersion is the only document version understood.
const DocumentVersion = 1

// ErrEmptyDocument is returned when decoding a document with no content.
var ErrEmptyDocument = errors.New("route document is empty")

// Document is the portable form of a set of routes.
type Document struct {
	Version int        `json:"version" yaml:"version"`
	Routes  []DocRoute `json:"routes" yaml:"routes"`
}

// DocRoute is one route in a Document.
type DocRoute struct {
	Route            string      `json:"route" yaml:"route"`
	Request          DocRequest  `json:"request" yaml:"request"`
	ExpectedResponse DocResponse `json:"expectedResponse" yaml:"expectedResponse"`
}

// DocRequest is a route's request in a Document.
type DocRequest struct {
	Method        string  `json:"method" yaml:"method"`
	Payload       *string `json:"payload,omitempty" yaml:"payload,omitempty"`
	PayloadBase64 *string `json:"payloadBase64,omitempty" yaml:"payloadBase64,omitempty"`
}

// DocResponse is a route's expected response in a Document.
type DocResponse struct {
	Status     uint64  `json:"status" yaml:"status"`
	Body       *string `json:"body,omitempty" yaml:"body,omitempty"`
	BodyBase64 *string `json:"bodyBase64,omitempty" yaml:"bodyBase64,omitempty"`
}

// NewDocument builds a document holding routes, in the given order.
func NewDocument(routes []route.Route) *Document {
	doc := &Document{Version: DocumentVersion, Routes: make([]DocRoute, 0, len(routes))}
	for _, r := range routes {
		text, b64 := encodeBytes(r.Request.Payload)
		body, bodyB64 := encodeBytes(r.ExpectedResponse.Body)
		doc.Routes = append(doc.Routes, DocRoute{
			Route:            r.Route,
			Request:          DocRequest{Method: r.Request.Method, Payload: text, PayloadBase64: b64},
			ExpectedResponse: DocResponse{Status: r.ExpectedResponse.Status, Body: body, BodyBase64: bodyB64},
		})
	}
	return doc
}

// ToRoutes converts the document back into routes.
func (d *Document) ToRoutes() ([]route.Route, error) {
	routes := make([]route.Route, 0, len(d.Routes))
	for i, dr := range d.Routes {
		payload, err := decodeBytes(dr.Request.Payload, dr.Request.PayloadBase64)
		if err != nil {
			return nil, fmt.Errorf("routes[%d] (%s): request payload: %w", i, dr.Route, err)
		}
		body, err := decodeBytes(dr.ExpectedResponse.Body, dr.ExpectedResponse.BodyBase64)
		if err != nil {
			return nil, fmt.Errorf("routes[%d] (%s): response body: %w", i, dr.Route, err)
		}
		routes = append(routes, route.Route{
			Route:            dr.Route,
			Request:          route.Request{Method: dr.Request.Method, Payload: payload},
			ExpectedResponse: route.Response{Status: dr.ExpectedResponse.Status, Body: body},
		})
	}
	return routes, nil
}

// Decode parses and validates a document in the given format.
func Decode(data []byte, format Format) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument
	}

	var jsonData []byte
	switch format {
	case FormatJSON:
		jsonData = data
	case FormatYAML:
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("invalid YAML syntax: %w", err)
		}
		var err error
		if jsonData, err = json.Marshal(v); err != nil {
			return nil, fmt.Errorf("convert YAML document: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.UseNumber()
	var instance any
	if err := dec.Decode(&instance); err != nil {
		return nil, fmt.Errorf("invalid JSON syntax: %w", err)
	}
	if err := validateValue(instance); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("decode route document: %w", err)
	}
	return &doc, nil
}

// Encode renders the document in the given format.
func (d *Document) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// encodeBytes returns the text form of b when it is printable UTF-8, the
// base64 form otherwise, and neither for nil.
func encodeBytes(b []byte) (text, b64 *string) {
	if b == nil {
		return nil, nil
	}
	if isText(b) {
		s := string(b)
		return &s, nil
	}
	s := base64.StdEncoding.EncodeToString(b)
	return nil, &s
}

func decodeBytes(text, b64 *string) ([]byte, error) {
	switch {
	case text != nil:
		return []byte(*text), nil
	case b64 != nil:
		return base64.StdEncoding.DecodeString(*b64)
	default:
		return nil, nil
	}
}

func isText(b []byte) bool {
	if !utf8.Valid(b) {
		return false
	}
	for _, r := range string(b) {
		if !unicode.IsPrint(r) && r != '\n' && r != '\t' {
			return false
		}
	}
	return true
}
