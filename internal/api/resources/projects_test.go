package resources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youtrack-mcp/internal/api"
	"youtrack-mcp/internal/fields"
)

const projectListJSON = `[
	{"id":"0-1","name":"Demo Project","shortName":"DEMO","archived":false},
	{"id":"0-2","name":"Old Stuff","shortName":"OLD","archived":true},
	{"id":"0-3","name":"Customer Support","shortName":"CS","archived":false}
]`

func projectServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/projects", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(projectListJSON))
	})
	mux.HandleFunc("/api/admin/projects/0-1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"0-1","name":"Demo Project","shortName":"DEMO"}`))
	})
	mux.HandleFunc("/api/admin/projects/0-1/customFields", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"field":{"id":"93-1","name":"Priority","fieldType":{"id":"enum[1]"}},"canBeEmpty":false,
			 "bundle":{"values":[{"id":"100-1","name":"Critical"},{"id":"100-2","name":"Normal"}]}},
			{"field":{"id":"93-2","name":"Notes","fieldType":{"id":"text"}},"canBeEmpty":true}
		]`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestProjectsList_FiltersArchived(t *testing.T) {
	server := projectServer(t)
	client := NewProjectsClient(testClient(server.URL))

	active, err := client.List(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	all, err := client.List(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestProjectsGetByName_MatchOrder(t *testing.T) {
	server := projectServer(t)
	client := NewProjectsClient(testClient(server.URL))

	// Exact short name wins.
	raw, err := client.GetByName(context.Background(), "CS")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Customer Support")

	// Exact name.
	raw, err = client.GetByName(context.Background(), "Old Stuff")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"0-2"`)

	// Substring, case-insensitive.
	raw, err = client.GetByName(context.Background(), "demo")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"0-1"`)

	_, err = client.GetByName(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.True(t, api.IsKind(err, api.KindNotFound))
}

func TestProjectsResolveID(t *testing.T) {
	server := projectServer(t)
	client := NewProjectsClient(testClient(server.URL))

	// Internal IDs pass through without a lookup.
	id, err := client.ResolveID(context.Background(), "0-42")
	require.NoError(t, err)
	assert.Equal(t, "0-42", id)

	id, err = client.ResolveID(context.Background(), "DEMO")
	require.NoError(t, err)
	assert.Equal(t, "0-1", id)

	_, err = client.ResolveID(context.Background(), "")
	require.Error(t, err)
	assert.True(t, api.IsKind(err, api.KindValidation))
}

func TestProjectsFieldSchemas(t *testing.T) {
	server := projectServer(t)
	client := NewProjectsClient(testClient(server.URL))

	schema, err := client.FieldSchemas(context.Background(), "0-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]fields.Type{
		"Priority": fields.TypeEnum,
		"Notes":    fields.TypeText,
	}, schema)
}

func TestProjectsGetDetailed(t *testing.T) {
	server := projectServer(t)
	client := NewProjectsClient(testClient(server.URL))

	detailed, err := client.GetDetailed(context.Background(), "0-1")
	require.NoError(t, err)

	required, ok := detailed["required_fields"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"Priority"}, required)

	customFields, ok := detailed["custom_fields"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, customFields, 2)
	assert.Equal(t, "Priority", customFields[0]["name"])
	assert.Equal(t, true, customFields[0]["required"])
	assert.NotEmpty(t, customFields[0]["possible_values"])
	assert.Equal(t, false, customFields[1]["required"])
}

func TestProjectsIssues_UsesShortNameQuery(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/projects/0-1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"0-1","name":"Demo Project","shortName":"DEMO"}`))
	})
	mux.HandleFunc("/api/issues", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "project: DEMO", r.URL.Query().Get("query"))
		assert.Equal(t, "10", r.URL.Query().Get("$top"))
		w.Write([]byte(`[]`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewProjectsClient(testClient(server.URL))
	_, err := client.Issues(context.Background(), "0-1", 10)
	require.NoError(t, err)
}

func TestProjectsCreate_Validation(t *testing.T) {
	client := NewProjectsClient(testClient("http://unused"))

	_, err := client.Create(context.Background(), "", "CS", "1-1", "")
	assert.True(t, api.IsKind(err, api.KindValidation))

	_, err = client.Create(context.Background(), "Customer Support", "", "1-1", "")
	assert.True(t, api.IsKind(err, api.KindValidation))

	_, err = client.Create(context.Background(), "Customer Support", "CS", "", "")
	assert.True(t, api.IsKind(err, api.KindValidation))
}

func TestProjectsUpdate_OnlySendsSetFields(t *testing.T) {
	var updates int
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/projects/0-1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			updates++
		}
		w.Write([]byte(`{"id":"0-1","name":"Demo Project","shortName":"DEMO"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewProjectsClient(testClient(server.URL))

	// No changes: just a read back, no write.
	_, err := client.Update(context.Background(), "0-1", ProjectUpdate{})
	require.NoError(t, err)
	assert.Equal(t, 0, updates)

	name := "Renamed"
	_, err = client.Update(context.Background(), "0-1", ProjectUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, 1, updates)
}
