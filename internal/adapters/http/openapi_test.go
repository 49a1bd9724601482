package http_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/samirrijal/geopin/api"
)

func loadOpenAPI(t *testing.T) *openapi3.T {
	t.Helper()
	loader := &openapi3.Loader{IsExternalRefsAllowed: false}
	spec, err := loader.LoadFromData(api.OpenAPI)
	if err != nil {
		t.Fatalf("failed to parse OpenAPI spec: %v", err)
	}
	return spec
}

// TestOpenAPISpec validates the OpenAPI specification is valid.
func TestOpenAPISpec(t *testing.T) {
	spec := loadOpenAPI(t)

	// Validate the spec
	if err := spec.Validate(context.Background()); err != nil {
		t.Fatalf("OpenAPI spec validation failed: %v", err)
	}

	// Check that key paths exist
	expectedPaths := []string{
		"/v1/health",
		"/v1/ready",
		"/v1/convert/dms-to-dd",
		"/v1/convert/dd-to-dms",
		"/v1/convert/normalize",
		"/v1/sessions",
		"/v1/sessions/{id}",
		"/v1/sessions/{id}/modal",
		"/v1/sessions/{id}/mode",
		"/v1/sessions/{id}/form",
		"/v1/sessions/{id}/form/convert",
		"/v1/sessions/{id}/form/clear",
		"/v1/sessions/{id}/click",
		"/v1/sessions/{id}/markers",
		"/v1/sessions/{id}/markers.geojson",
		"/graphql",
	}

	for _, path := range expectedPaths {
		if item := spec.Paths.Find(path); item == nil {
			t.Errorf("expected path %s not found in spec", path)
		}
	}

	// Verify key schemas exist
	expectedSchemas := []string{
		"GeoPoint",
		"DMS",
		"DDResult",
		"Form",
		"FormPatch",
		"Session",
		"Marker",
		"APIError",
		"Pagination",
	}

	for _, schema := range expectedSchemas {
		if spec.Components.Schemas[schema] == nil {
			t.Errorf("expected schema %s not found", schema)
		}
	}

	t.Logf("OpenAPI spec valid: %d paths, %d schemas", len(spec.Paths.Map()), len(spec.Components.Schemas))
}

// TestOpenAPIInfo verifies spec metadata.
func TestOpenAPIInfo(t *testing.T) {
	spec := loadOpenAPI(t)

	if spec.Info.Title != "GeoPin API" {
		t.Errorf("expected title 'GeoPin API', got %q", spec.Info.Title)
	}

	if spec.Info.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %q", spec.Info.Version)
	}

	if spec.Info.Description == "" {
		t.Error("expected non-empty description")
	}

	if len(spec.Servers) == 0 {
		t.Error("expected at least one server")
	}

	t.Logf("OpenAPI Info: %s v%s @ %s", spec.Info.Title, spec.Info.Version, spec.Servers[0].URL)
}

func TestDocsServesEmbeddedSpec(t *testing.T) {
	app := setupApp(makeDeps())

	resp, err := app.Test(httptest.NewRequest("GET", "/docs/openapi.yaml", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/yaml" {
		t.Errorf("expected application/yaml, got %q", ct)
	}
	if body := readBody(t, resp.Body); !bytes.Equal(body, api.OpenAPI) {
		t.Errorf("served spec differs from the embedded document")
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/docs", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if body := readBody(t, resp.Body); !bytes.Contains(body, []byte("<title>GeoPin API</title>")) {
		t.Errorf("expected the docs page to carry the API title")
	}
}
