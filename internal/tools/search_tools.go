package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"youtrack-mcp/internal/api/resources"
	"youtrack-mcp/internal/bridge"
)

func (s *Server) setupSearchTools() {
	advancedSearchTool := mcp.NewTool("advanced_search",
		mcp.WithDescription("Perform advanced issue search with optional sorting."),
		mcp.WithString("query", mcp.Required(),
			mcp.Description("YouTrack search query")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (default: 10)")),
		mcp.WithString("sort_by",
			mcp.Description("Field to sort by (e.g., created, updated, priority)")),
		mcp.WithString("sort_order",
			mcp.Description("Sort order (asc or desc)")),
	)
	s.mcpServer.AddTool(advancedSearchTool, s.handleAdvancedSearch)

	filterIssuesTool := mcp.NewTool("filter_issues",
		mcp.WithDescription("Filter issues by structured criteria. At least one criterion is required."),
		mcp.WithString("project", mcp.Description("Project ID or short name to filter issues from")),
		mcp.WithString("author", mcp.Description("Filter by author login")),
		mcp.WithString("assignee", mcp.Description("Filter by assignee login")),
		mcp.WithString("state", mcp.Description("Filter by issue state")),
		mcp.WithString("priority", mcp.Description("Filter by priority level")),
		mcp.WithString("text", mcp.Description("Search in issue text")),
		mcp.WithString("created_after", mcp.Description("Filter by creation date (YYYY-MM-DD)")),
		mcp.WithString("created_before", mcp.Description("Filter by creation date (YYYY-MM-DD)")),
		mcp.WithString("updated_after", mcp.Description("Filter by update date (YYYY-MM-DD)")),
		mcp.WithString("updated_before", mcp.Description("Filter by update date (YYYY-MM-DD)")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results to return (default: 10)")),
	)
	s.mcpServer.AddTool(filterIssuesTool, s.handleFilterIssues)

	searchWithCustomFieldsTool := mcp.NewTool("search_with_custom_fields",
		mcp.WithDescription("Search issues and include only the named custom fields in the results."),
		mcp.WithString("query", mcp.Required(),
			mcp.Description("YouTrack search query")),
		mcp.WithString("custom_fields", mcp.Required(),
			mcp.Description("JSON array of custom field names to include, e.g. [\"Priority\", \"State\"]")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of issues to return (default: 10)")),
	)
	s.mcpServer.AddTool(searchWithCustomFieldsTool, s.handleSearchWithCustomFields)
}

func (s *Server) handleAdvancedSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := stringParam(request, "query")
	if query == "" {
		return mcp.NewToolResultError("Missing 'query' parameter"), nil
	}
	limit := intParam(request, "limit", 10)
	sortBy := stringParam(request, "sort_by")
	sortOrder := stringParam(request, "sort_order")

	raw, err := bridge.Run(s.executor, ctx, func(ctx context.Context) (json.RawMessage, error) {
		return s.search.Advanced(ctx, query, limit, sortBy, sortOrder)
	})
	if err != nil {
		return toolError(err), nil
	}
	return textResult(raw), nil
}

func (s *Server) handleFilterIssues(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts := resources.FilterOptions{
		Project:       stringParam(request, "project", "project_id"),
		Author:        stringParam(request, "author"),
		Assignee:      stringParam(request, "assignee"),
		State:         stringParam(request, "state"),
		Priority:      stringParam(request, "priority"),
		Text:          stringParam(request, "text"),
		CreatedAfter:  stringParam(request, "created_after"),
		CreatedBefore: stringParam(request, "created_before"),
		UpdatedAfter:  stringParam(request, "updated_after"),
		UpdatedBefore: stringParam(request, "updated_before"),
		Limit:         intParam(request, "limit", 10),
	}

	raw, err := bridge.Run(s.executor, ctx, func(ctx context.Context) (json.RawMessage, error) {
		return s.search.Filter(ctx, opts)
	})
	if err != nil {
		return toolError(err), nil
	}
	return textResult(raw), nil
}

func (s *Server) handleSearchWithCustomFields(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := stringParam(request, "query")
	if query == "" {
		return mcp.NewToolResultError("Missing 'query' parameter"), nil
	}
	limit := intParam(request, "limit", 10)

	fieldNames, err := customFieldNamesParam(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(fieldNames) == 0 {
		return mcp.NewToolResultError("Missing 'custom_fields' parameter"), nil
	}

	raw, err := bridge.Run(s.executor, ctx, func(ctx context.Context) (json.RawMessage, error) {
		return s.search.WithCustomFields(ctx, query, fieldNames, limit)
	})
	if err != nil {
		return toolError(err), nil
	}
	return textResult(raw), nil
}

// customFieldNamesParam reads custom_fields as a list of field names: a JSON
// array, a JSON-encoded string of one, or a comma-separated string.
func customFieldNamesParam(request mcp.CallToolRequest) ([]string, error) {
	args := arguments(request)
	raw, ok := args["custom_fields"]
	if !ok || raw == nil {
		return nil, nil
	}

	switch v := raw.(type) {
	case []interface{}:
		names := make([]string, 0, len(v))
		for _, item := range v {
			name, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("custom_fields entries must be strings")
			}
			names = append(names, name)
		}
		return names, nil
	case string:
		var names []string
		if err := json.Unmarshal([]byte(v), &names); err == nil {
			return names, nil
		}
		return splitNonEmpty(v), nil
	}
	return nil, fmt.Errorf("custom_fields must be an array of field names")
}
