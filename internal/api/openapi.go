package api

import (
	"net/http"

	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/openapi"
)

func newSpec(version, basePath string) *openapi.Spec {
	spec := openapi.NewSpec("hrdocs API", version)
	spec.Info.Description = "Plain-English requests for payslips, T4 and T4A slips."
	spec.AddServer(basePath)

	spec.AddSchemas(map[string]*openapi.Schema{
		"SubmitRequest": {
			Type:       "object",
			Properties: map[string]*openapi.Schema{"text": {Type: "string", Example: "T4 for 2023 for Jordan Lee"}},
			Required:   []string{"text"},
		},
		"SelectionRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"index": {Type: "integer", Description: "0-based position in candidates"},
			},
			Required: []string{"index"},
		},
		"Subject": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string"},
				"display_name": {Type: "string"},
				"secondary_id": {Type: "string"},
			},
		},
		"Run": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id": {Type: "string", Format: "uuid"},
				"state": {Type: "string", Enum: []any{
					"classified", "awaiting_selection", "resolved", "query_built",
					"data_fetched", "rendered", "persisted", "aborted",
				}},
				"request":    {Type: "object"},
				"usage":      {Type: "object"},
				"candidates": {Type: "array", Items: openapi.SchemaRef("Subject")},
				"subject":    openapi.SchemaRef("Subject"),
				"document":   {Type: "object"},
				"location":   {Type: "string", Format: "uri"},
				"error":      {Type: "string"},
				"stage":      {Type: "string"},
				"history":    {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
		"Usage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"prompt_tokens":     {Type: "integer"},
				"completion_tokens": {Type: "integer"},
				"total_tokens":      {Type: "integer"},
				"requests":          {Type: "integer"},
			},
		},
		"TemplateStatus": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"name":      {Type: "string"},
				"key":       {Type: "string"},
				"available": {Type: "boolean"},
				"error":     {Type: "string"},
			},
		},
	})

	runID := openapi.PathParam("id", "uuid", "Suspended run id")
	aborted := openapi.ResponseJSON("Run aborted; error holds the summary", "Run")

	spec.Paths["/requests"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Submit a document request",
			Tags:        []string{"requests"},
			RequestBody: openapi.RequestBodyJSON("SubmitRequest"),
			Responses: map[int]*openapi.Response{
				http.StatusCreated:             openapi.ResponseJSON("Document generated and stored", "Run"),
				http.StatusAccepted:            openapi.ResponseJSON("Several employees match; choose one", "Run"),
				http.StatusBadRequest:          openapi.ResponseRef("BadRequest"),
				http.StatusNotFound:            aborted,
				http.StatusUnprocessableEntity: aborted,
				http.StatusBadGateway:          aborted,
			},
		},
	}
	spec.Paths["/requests/{id}/selection"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Choose a candidate for a suspended run",
			Tags:        []string{"requests"},
			Parameters:  []*openapi.Parameter{runID},
			RequestBody: openapi.RequestBodyJSON("SelectionRequest"),
			Responses: map[int]*openapi.Response{
				http.StatusCreated:    openapi.ResponseJSON("Document generated and stored", "Run"),
				http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
				http.StatusNotFound:   openapi.ResponseRef("NotFound"),
				http.StatusConflict:   aborted,
			},
		},
	}
	spec.Paths["/requests/{id}"] = &openapi.PathItem{
		Delete: &openapi.Operation{
			Summary:    "Cancel a suspended run",
			Tags:       []string{"requests"},
			Parameters: []*openapi.Parameter{runID},
			Responses: map[int]*openapi.Response{
				http.StatusOK:         openapi.ResponseJSON("Run cancelled", "Run"),
				http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
				http.StatusNotFound:   openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/usage"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:   "Token usage since start",
			Tags:      []string{"status"},
			Responses: map[int]*openapi.Response{http.StatusOK: openapi.ResponseJSON("Running totals", "Usage")},
		},
	}
	spec.Paths["/templates"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Template availability",
			Tags:    []string{"status"},
			Responses: map[int]*openapi.Response{
				http.StatusOK: {
					Description: "One entry per configured template",
					Content: map[string]*openapi.MediaType{
						"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("TemplateStatus")}},
					},
				},
			},
		},
	}

	return spec
}
