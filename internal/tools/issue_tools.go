package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"youtrack-mcp/internal/bridge"
	"youtrack-mcp/internal/logging"
)

func (s *Server) setupIssueTools() {
	getIssueTool := mcp.NewTool("get_issue",
		mcp.WithDescription("Get information about a specific issue by its ID."),
		mcp.WithString("issue_id", mcp.Required(),
			mcp.Description("The issue ID or readable ID (e.g., PROJECT-123)")),
	)
	s.mcpServer.AddTool(getIssueTool, s.handleGetIssue)

	getIssueRawTool := mcp.NewTool("get_issue_raw",
		mcp.WithDescription("Get raw information about a specific issue by its ID, without a field selector."),
		mcp.WithString("issue_id", mcp.Required(),
			mcp.Description("The issue ID or readable ID (e.g., PROJECT-123)")),
	)
	s.mcpServer.AddTool(getIssueRawTool, s.handleGetIssueRaw)

	createIssueTool := mcp.NewTool("create_issue",
		mcp.WithDescription("Create a new issue in a project."),
		mcp.WithString("project", mcp.Required(),
			mcp.Description("Project ID or short name where the issue will be created")),
		mcp.WithString("summary", mcp.Required(),
			mcp.Description("Brief summary/title of the issue")),
		mcp.WithString("description",
			mcp.Description("Detailed description of the issue")),
		mcp.WithObject("custom_fields",
			mcp.Description("Object mapping custom field names to their values, "+
				"e.g. {\"Priority\": \"Critical\", \"Type\": \"Bug\"}. "+
				"A JSON-encoded string of the same object is also accepted.")),
	)
	s.mcpServer.AddTool(createIssueTool, s.handleCreateIssue)

	updateIssueTool := mcp.NewTool("update_issue",
		mcp.WithDescription("Update the summary, description or custom fields of an existing issue."),
		mcp.WithString("issue_id", mcp.Required(),
			mcp.Description("The issue ID or readable ID (e.g., PROJECT-123)")),
		mcp.WithString("summary", mcp.Description("New summary for the issue")),
		mcp.WithString("description", mcp.Description("New description for the issue")),
		mcp.WithObject("custom_fields",
			mcp.Description("Object mapping custom field names to new values")),
	)
	s.mcpServer.AddTool(updateIssueTool, s.handleUpdateIssue)

	addCommentTool := mcp.NewTool("add_comment",
		mcp.WithDescription("Add a comment to an existing issue."),
		mcp.WithString("issue_id", mcp.Required(),
			mcp.Description("The issue ID or readable ID (e.g., PROJECT-123)")),
		mcp.WithString("text", mcp.Required(),
			mcp.Description("The comment text to add to the issue")),
	)
	s.mcpServer.AddTool(addCommentTool, s.handleAddComment)

	searchIssuesTool := mcp.NewTool("search_issues",
		mcp.WithDescription("Search for issues using YouTrack query syntax."),
		mcp.WithString("query", mcp.Required(),
			mcp.Description("YouTrack search query (e.g., 'project: PROJECT-KEY #Unresolved')")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of issues to return (default: 10)")),
	)
	s.mcpServer.AddTool(searchIssuesTool, s.handleSearchIssues)
}

func (s *Server) handleGetIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueID := stringParam(request, "issue_id", "issue")
	if issueID == "" {
		return mcp.NewToolResultError("Missing 'issue_id' parameter"), nil
	}

	raw, err := bridge.Run(s.executor, ctx, func(ctx context.Context) (json.RawMessage, error) {
		return s.issues.Get(ctx, issueID)
	})
	if err != nil {
		return toolError(err), nil
	}
	return textResult(raw), nil
}

func (s *Server) handleGetIssueRaw(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueID := stringParam(request, "issue_id", "issue")
	if issueID == "" {
		return mcp.NewToolResultError("Missing 'issue_id' parameter"), nil
	}

	raw, err := bridge.Run(s.executor, ctx, func(ctx context.Context) (json.RawMessage, error) {
		return s.issues.GetRaw(ctx, issueID)
	})
	if err != nil {
		return toolError(err), nil
	}
	return textResult(raw), nil
}

func (s *Server) handleCreateIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := stringParam(request, "project", "project_id")
	if project == "" {
		return mcp.NewToolResultError("Missing 'project' parameter"), nil
	}
	summary := stringParam(request, "summary")
	if summary == "" {
		return mcp.NewToolResultError("Missing 'summary' parameter"), nil
	}
	description := stringParam(request, "description")

	customFields, err := customFieldsParam(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := bridge.Run(s.executor, ctx, func(ctx context.Context) (map[string]interface{}, error) {
		projectID, err := s.projects.ResolveID(ctx, project)
		if err != nil {
			return nil, err
		}
		raw, err := s.issues.Create(ctx, projectID, summary, description, customFields)
		if err != nil {
			return nil, err
		}
		return s.issueWithURL(raw), nil
	})
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(result), nil
}

func (s *Server) handleUpdateIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueID := stringParam(request, "issue_id", "issue")
	if issueID == "" {
		return mcp.NewToolResultError("Missing 'issue_id' parameter"), nil
	}
	summary := stringParam(request, "summary")
	description := stringParam(request, "description")

	customFields, err := customFieldsParam(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if summary == "" && description == "" && len(customFields) == 0 {
		return mcp.NewToolResultError("Nothing to update: provide 'summary', 'description' or 'custom_fields'"), nil
	}

	raw, err := bridge.Run(s.executor, ctx, func(ctx context.Context) (json.RawMessage, error) {
		return s.issues.Update(ctx, issueID, summary, description, customFields)
	})
	if err != nil {
		return toolError(err), nil
	}
	return textResult(raw), nil
}

func (s *Server) handleAddComment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueID := stringParam(request, "issue_id", "issue")
	if issueID == "" {
		return mcp.NewToolResultError("Missing 'issue_id' parameter"), nil
	}
	text := stringParam(request, "text")
	if text == "" {
		return mcp.NewToolResultError("Missing 'text' parameter"), nil
	}

	raw, err := bridge.Run(s.executor, ctx, func(ctx context.Context) (json.RawMessage, error) {
		return s.issues.AddComment(ctx, issueID, text)
	})
	if err != nil {
		return toolError(err), nil
	}
	return textResult(raw), nil
}

func (s *Server) handleSearchIssues(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := stringParam(request, "query")
	if query == "" {
		return mcp.NewToolResultError("Missing 'query' parameter"), nil
	}
	limit := intParam(request, "limit", 10)

	raw, err := bridge.Run(s.executor, ctx, func(ctx context.Context) (json.RawMessage, error) {
		return s.issues.Search(ctx, query, limit)
	})
	if err != nil {
		return toolError(err), nil
	}
	return textResult(raw), nil
}

// issueWithURL decorates a created/updated issue with its human-facing URL,
// preferring the readable ID.
func (s *Server) issueWithURL(raw json.RawMessage) map[string]interface{} {
	var issue map[string]interface{}
	if err := json.Unmarshal(raw, &issue); err != nil {
		return map[string]interface{}{"issue": string(raw)}
	}

	id, _ := issue["id"].(string)
	readable, _ := issue["idReadable"].(string)
	switch {
	case readable != "":
		issue["url"] = s.config.IssueURL(readable)
	case id != "":
		issue["url"] = s.config.IssueURL(id)
	}
	if url, ok := issue["url"]; ok {
		logging.Info("issue available at %s", url)
	}
	issue["status"] = "success"
	return issue
}
