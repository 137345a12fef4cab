package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youtrack-mcp/internal/config"
)

func newTestServer(t *testing.T, handler http.Handler) (*Server, *int32) {
	t.Helper()
	var calls int32
	counting := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if handler != nil {
			handler.ServeHTTP(w, r)
			return
		}
		w.Write([]byte(`{}`))
	})
	backend := httptest.NewServer(counting)
	t.Cleanup(backend.Close)

	cfg := &config.Config{
		BaseURL:        backend.URL,
		APIToken:       "test-token",
		VerifySSL:      true,
		MaxRetries:     0,
		RequestTimeout: 5 * time.Second,
		MaxConcurrent:  4,
		ServerName:     "youtrack-mcp-test",
	}
	srv := NewServer(cfg)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })
	return srv, &calls
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestHandleGetIssue_MissingParamMakesNoRequest(t *testing.T) {
	srv, calls := newTestServer(t, nil)

	result, err := srv.handleGetIssue(context.Background(), callRequest("get_issue", map[string]interface{}{}))
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "issue_id")
	assert.Equal(t, int32(0), atomic.LoadInt32(calls), "validation must fail before any HTTP request")
}

func TestHandleGetIssue_Success(t *testing.T) {
	srv, calls := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"2-1","idReadable":"DEMO-1","summary":"Login broken"}`))
	}))

	result, err := srv.handleGetIssue(context.Background(), callRequest("get_issue",
		map[string]interface{}{"issue_id": "DEMO-1"}))
	require.NoError(t, err)

	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Login broken")
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestHandleGetIssue_AcceptsAlias(t *testing.T) {
	srv, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"2-1"}`))
	}))

	result, err := srv.handleGetIssue(context.Background(), callRequest("get_issue",
		map[string]interface{}{"issue": "DEMO-1"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
}

func TestHandleCreateIssue_MissingSummary(t *testing.T) {
	srv, calls := newTestServer(t, nil)

	result, err := srv.handleCreateIssue(context.Background(), callRequest("create_issue",
		map[string]interface{}{"project": "DEMO"}))
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "summary")
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestHandleSearchIssues_ErrorIsStructured(t *testing.T) {
	srv, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_query","error_description":"Unknown attribute: potato"}`))
	}))

	result, err := srv.handleSearchIssues(context.Background(), callRequest("search_issues",
		map[string]interface{}{"query": "potato: yes"}))
	require.NoError(t, err)

	assert.True(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, "Unknown attribute: potato")
	assert.Contains(t, text, `"kind"`)
	assert.NotContains(t, text, "goroutine", "tool errors must never carry stack traces")
}

func TestHandleFilterIssues_NoCriteria(t *testing.T) {
	srv, calls := newTestServer(t, nil)

	result, err := srv.handleFilterIssues(context.Background(), callRequest("filter_issues",
		map[string]interface{}{"limit": float64(10)}))
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestHandleGetCurrentUser(t *testing.T) {
	srv, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"1-1","login":"admin","name":"Administrator"}`))
	}))

	result, err := srv.handleGetCurrentUser(context.Background(), callRequest("get_current_user", nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Administrator")
}

func TestGuideTools_ServeStaticText(t *testing.T) {
	srv, calls := newTestServer(t, nil)

	result, err := srv.handleGetSearchSyntaxGuide(context.Background(), callRequest("get_search_syntax_guide", nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "sort by")

	result, err = srv.handleGetCommonQueries(context.Background(), callRequest("get_common_queries", nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "#Unresolved")

	assert.Equal(t, int32(0), atomic.LoadInt32(calls), "guides are static, no network")
}
