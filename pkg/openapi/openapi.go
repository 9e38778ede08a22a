// Package openapi builds OpenAPI 3.1 documents for the HTTP surface and
// serves them as pre-serialised JSON.
package openapi

import (
	"encoding/json"
	"maps"
	"net/http"
)

// Spec is an OpenAPI 3.1 document.
type Spec struct {
	OpenAPI    string               `json:"openapi"`
	Info       *Info                `json:"info"`
	Servers    []*Server            `json:"servers,omitempty"`
	Paths      map[string]*PathItem `json:"paths"`
	Components *Components          `json:"components,omitempty"`
}

// Info is the document's info object.
type Info struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

// Server is a base URL the API is served from.
type Server struct {
	URL string `json:"url"`
}

// PathItem groups the operations of one path.
type PathItem struct {
	Get    *Operation `json:"get,omitempty"`
	Post   *Operation `json:"post,omitempty"`
	Delete *Operation `json:"delete,omitempty"`
}

// Operation describes one method on a path.
type Operation struct {
	Summary     string            `json:"summary,omitempty"`
	Description string            `json:"description,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Parameters  []*Parameter      `json:"parameters,omitempty"`
	RequestBody *RequestBody      `json:"requestBody,omitempty"`
	Responses   map[int]*Response `json:"responses"`
}

// Parameter is a path or query parameter.
type Parameter struct {
	Name        string  `json:"name"`
	In          string  `json:"in"`
	Required    bool    `json:"required,omitempty"`
	Description string  `json:"description,omitempty"`
	Schema      *Schema `json:"schema"`
}

// RequestBody is an operation's request payload.
type RequestBody struct {
	Required bool                  `json:"required,omitempty"`
	Content  map[string]*MediaType `json:"content"`
}

// Response is one status code's response. A Ref replaces the other fields.
type Response struct {
	Description string                `json:"description,omitempty"`
	Content     map[string]*MediaType `json:"content,omitempty"`
	Ref         string                `json:"$ref,omitempty"`
}

// MediaType binds a schema to a content type.
type MediaType struct {
	Schema *Schema `json:"schema,omitempty"`
}

// Schema is the JSON Schema subset used by the API documents.
type Schema struct {
	Type        string             `json:"type,omitempty"`
	Format      string             `json:"format,omitempty"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Ref         string             `json:"$ref,omitempty"`
	Enum        []any              `json:"enum,omitempty"`
	Example     any                `json:"example,omitempty"`
}

// Components holds reusable schemas and responses.
type Components struct {
	Schemas   map[string]*Schema   `json:"schemas,omitempty"`
	Responses map[string]*Response `json:"responses,omitempty"`
}

// ErrorSchema is the body every error response carries.
var ErrorSchema = &Schema{
	Type:       "object",
	Properties: map[string]*Schema{"error": {Type: "string"}},
	Required:   []string{"error"},
}

// NewSpec creates a document with the shared Error schema and the
// BadRequest, NotFound and Conflict responses.
func NewSpec(title, version string) *Spec {
	return &Spec{
		OpenAPI: "3.1.0",
		Info:    &Info{Title: title, Version: version},
		Paths:   make(map[string]*PathItem),
		Components: &Components{
			Schemas: map[string]*Schema{"Error": ErrorSchema},
			Responses: map[string]*Response{
				"BadRequest": ResponseJSON("Malformed request body or parameter", "Error"),
				"NotFound":   ResponseJSON("Unknown or expired resource", "Error"),
				"Conflict":   ResponseJSON("Resource is not in a state that allows the operation", "Error"),
			},
		},
	}
}

// AddServer appends a base URL.
func (s *Spec) AddServer(url string) {
	s.Servers = append(s.Servers, &Server{URL: url})
}

// AddSchemas merges schemas into the component schemas.
func (s *Spec) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(s.Components.Schemas, schemas)
}

// Handler serialises the document once and serves the bytes.
func (s *Spec) Handler() (http.HandlerFunc, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}, nil
}

// SchemaRef references a component schema.
func SchemaRef(name string) *Schema {
	return &Schema{Ref: "#/components/schemas/" + name}
}

// ResponseRef references a component response.
func ResponseRef(name string) *Response {
	return &Response{Ref: "#/components/responses/" + name}
}

// RequestBodyJSON is a JSON request body of the named schema.
func RequestBodyJSON(schemaName string) *RequestBody {
	return &RequestBody{
		Required: true,
		Content:  map[string]*MediaType{"application/json": {Schema: SchemaRef(schemaName)}},
	}
}

// ResponseJSON is a JSON response of the named schema.
func ResponseJSON(description, schemaName string) *Response {
	return &Response{
		Description: description,
		Content:     map[string]*MediaType{"application/json": {Schema: SchemaRef(schemaName)}},
	}
}

// PathParam is a required string path parameter in the given format.
func PathParam(name, format, description string) *Parameter {
	return &Parameter{
		Name:        name,
		In:          "path",
		Required:    true,
		Description: description,
		Schema:      &Schema{Type: "string", Format: format},
	}
}
