package resources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youtrack-mcp/internal/api"
)

func queryCapturingServer(t *testing.T, response string) (*httptest.Server, *string) {
	t.Helper()
	var captured string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query().Get("query")
		w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return server, &captured
}

func TestAdvanced_AppendsSortClause(t *testing.T) {
	server, captured := queryCapturingServer(t, `[]`)
	client := NewSearchClient(testClient(server.URL))

	_, err := client.Advanced(context.Background(), "project: DEMO", 10, "updated", "desc")
	require.NoError(t, err)
	assert.Equal(t, "project: DEMO sort by: updated desc", *captured)

	_, err = client.Advanced(context.Background(), "project: DEMO", 10, "priority", "")
	require.NoError(t, err)
	assert.Equal(t, "project: DEMO sort by: priority", *captured)
}

func TestAdvanced_RejectsBadSortOrder(t *testing.T) {
	client := NewSearchClient(testClient("http://unused"))

	_, err := client.Advanced(context.Background(), "project: DEMO", 10, "updated", "sideways")
	require.Error(t, err)
	assert.True(t, api.IsKind(err, api.KindValidation))

	// Rejected before any query assembly, even without a sort field.
	_, err = client.Advanced(context.Background(), "project: DEMO", 10, "", "sideways")
	require.Error(t, err)
	assert.True(t, api.IsKind(err, api.KindValidation))
}

func TestFilter_BuildsQuery(t *testing.T) {
	server, captured := queryCapturingServer(t, `[]`)
	client := NewSearchClient(testClient(server.URL))

	_, err := client.Filter(context.Background(), FilterOptions{
		Project:       "DEMO",
		Author:        "john.doe",
		Assignee:      "jane.roe",
		State:         "In Progress",
		Priority:      "Critical",
		Text:          "timeout",
		CreatedAfter:  "2024-01-01",
		CreatedBefore: "2024-06-30",
		UpdatedAfter:  "2024-03-01",
		Limit:         5,
	})
	require.NoError(t, err)

	assert.Equal(t,
		"project: DEMO by: john.doe for: jane.roe State: {In Progress} Priority: {Critical} "+
			"created: 2024-01-01 .. 2024-06-30 updated: 2024-03-01 .. * timeout",
		*captured)
}

func TestFilter_RequiresAtLeastOneCriterion(t *testing.T) {
	client := NewSearchClient(testClient("http://unused"))
	_, err := client.Filter(context.Background(), FilterOptions{Limit: 10})
	require.Error(t, err)
	assert.True(t, api.IsKind(err, api.KindValidation))
}

func TestWithCustomFields_TrimsToNamedFields(t *testing.T) {
	const response = `[
		{"id":"2-1","summary":"one","customFields":[
			{"name":"Priority","value":{"name":"Critical"}},
			{"name":"Subsystem","value":{"name":"Backend"}},
			{"name":"State","value":{"name":"Open"}}
		]}
	]`
	server, _ := queryCapturingServer(t, response)
	client := NewSearchClient(testClient(server.URL))

	raw, err := client.WithCustomFields(context.Background(), "project: DEMO", []string{"priority", "State"}, 10)
	require.NoError(t, err)

	assert.Contains(t, string(raw), "Priority")
	assert.Contains(t, string(raw), "State")
	assert.NotContains(t, string(raw), "Subsystem")
}

func TestDateRange(t *testing.T) {
	assert.Equal(t, "created: 2024-01-01 .. 2024-06-30", dateRange("created", "2024-01-01", "2024-06-30"))
	assert.Equal(t, "created: 2024-01-01 .. *", dateRange("created", "2024-01-01", ""))
	assert.Equal(t, "updated: * .. 2024-06-30", dateRange("updated", "", "2024-06-30"))
	assert.Equal(t, "", dateRange("created", "", ""))
}
