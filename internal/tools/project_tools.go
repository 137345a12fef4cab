package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"youtrack-mcp/internal/api/resources"
	"youtrack-mcp/internal/bridge"
)

func (s *Server) setupProjectTools() {
	getProjectsTool := mcp.NewTool("get_projects",
		mcp.WithDescription("Get a list of all projects. Each project has a shortName used in issue IDs."),
		mcp.WithBoolean("include_archived",
			mcp.Description("Include archived projects in the results (default: false)")),
	)
	s.mcpServer.AddTool(getProjectsTool, s.handleGetProjects)

	getProjectTool := mcp.NewTool("get_project",
		mcp.WithDescription("Get detailed information about a specific project."),
		mcp.WithString("project_id",
			mcp.Description("Project ID or short name to retrieve information for")),
		mcp.WithString("project",
			mcp.Description("Alternative parameter name for project ID")),
	)
	s.mcpServer.AddTool(getProjectTool, s.handleGetProject)

	getProjectByNameTool := mcp.NewTool("get_project_by_name",
		mcp.WithDescription("Find a project by name. Searches exact short name, exact name, then partial name."),
		mcp.WithString("project_name", mcp.Required(),
			mcp.Description("The project name or short name to search for")),
	)
	s.mcpServer.AddTool(getProjectByNameTool, s.handleGetProjectByName)

	getProjectIssuesTool := mcp.NewTool("get_project_issues",
		mcp.WithDescription("Get all issues for a specific project."),
		mcp.WithString("project_id",
			mcp.Description("Project ID or short name to get issues from")),
		mcp.WithString("project",
			mcp.Description("Alternative parameter name for project ID")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of issues to return (default: 50)")),
	)
	s.mcpServer.AddTool(getProjectIssuesTool, s.handleGetProjectIssues)

	getCustomFieldsTool := mcp.NewTool("get_custom_fields",
		mcp.WithDescription("Get custom field definitions for a project, including possible values for enum fields."),
		mcp.WithString("project_id",
			mcp.Description("Project ID or short name to get custom fields from")),
		mcp.WithString("project",
			mcp.Description("Alternative parameter name for project ID")),
	)
	s.mcpServer.AddTool(getCustomFieldsTool, s.handleGetCustomFields)

	getProjectDetailedTool := mcp.NewTool("get_project_detailed",
		mcp.WithDescription("Get project information plus all custom fields with their configuration "+
			"and the list of fields required when creating issues. Use before create_issue."),
		mcp.WithString("project_id",
			mcp.Description("Project ID or short name")),
		mcp.WithString("project",
			mcp.Description("Alternative parameter name for project ID")),
	)
	s.mcpServer.AddTool(getProjectDetailedTool, s.handleGetProjectDetailed)

	createProjectTool := mcp.NewTool("create_project",
		mcp.WithDescription("Create a new project with a required leader."),
		mcp.WithString("name", mcp.Required(),
			mcp.Description("The full display name of the project")),
		mcp.WithString("short_name", mcp.Required(),
			mcp.Description("The short identifier used as prefix for issue IDs (e.g., 'CS')")),
		mcp.WithString("lead_id", mcp.Required(),
			mcp.Description("The user ID of the project leader (e.g., '1-621')")),
		mcp.WithString("description",
			mcp.Description("Optional description of the project's purpose")),
	)
	s.mcpServer.AddTool(createProjectTool, s.handleCreateProject)

	updateProjectTool := mcp.NewTool("update_project",
		mcp.WithDescription("Update an existing project. Only provided parameters are changed."),
		mcp.WithString("project_id",
			mcp.Description("The project ID to update")),
		mcp.WithString("project",
			mcp.Description("Alternative parameter name for project ID")),
		mcp.WithString("name", mcp.Description("New name for the project")),
		mcp.WithString("description", mcp.Description("New project description")),
		mcp.WithBoolean("archived", mcp.Description("Whether the project should be archived")),
		mcp.WithString("lead_id", mcp.Description("The ID of the new project leader")),
		mcp.WithString("short_name", mcp.Description("New short name; affects future issue IDs only")),
	)
	s.mcpServer.AddTool(updateProjectTool, s.handleUpdateProject)
}

func (s *Server) handleGetProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	includeArchived := boolParam(request, "include_archived", false)

	projects, err := bridge.Run(s.executor, ctx, func(ctx context.Context) ([]json.RawMessage, error) {
		return s.projects.List(ctx, includeArchived)
	})
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(projects), nil
}

func (s *Server) handleGetProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := stringParam(request, "project_id", "project")
	if projectID == "" {
		return mcp.NewToolResultError("Missing 'project_id' parameter"), nil
	}

	raw, err := bridge.Run(s.executor, ctx, func(ctx context.Context) (json.RawMessage, error) {
		return s.projects.Get(ctx, projectID)
	})
	if err != nil {
		return toolError(err), nil
	}
	return textResult(raw), nil
}

func (s *Server) handleGetProjectByName(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := stringParam(request, "project_name", "name")
	if name == "" {
		return mcp.NewToolResultError("Missing 'project_name' parameter"), nil
	}

	raw, err := bridge.Run(s.executor, ctx, func(ctx context.Context) (json.RawMessage, error) {
		return s.projects.GetByName(ctx, name)
	})
	if err != nil {
		return toolError(err), nil
	}
	return textResult(raw), nil
}

func (s *Server) handleGetProjectIssues(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := stringParam(request, "project_id", "project")
	if projectID == "" {
		return mcp.NewToolResultError("Missing 'project_id' parameter"), nil
	}
	limit := intParam(request, "limit", 50)

	raw, err := bridge.Run(s.executor, ctx, func(ctx context.Context) (json.RawMessage, error) {
		return s.projects.Issues(ctx, projectID, limit)
	})
	if err != nil {
		return toolError(err), nil
	}
	return textResult(raw), nil
}

func (s *Server) handleGetCustomFields(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := stringParam(request, "project_id", "project")
	if projectID == "" {
		return mcp.NewToolResultError("Missing 'project_id' parameter"), nil
	}

	raw, err := bridge.Run(s.executor, ctx, func(ctx context.Context) (json.RawMessage, error) {
		return s.projects.CustomFields(ctx, projectID)
	})
	if err != nil {
		return toolError(err), nil
	}
	return textResult(raw), nil
}

func (s *Server) handleGetProjectDetailed(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := stringParam(request, "project_id", "project")
	if projectID == "" {
		return mcp.NewToolResultError("Missing 'project_id' parameter"), nil
	}

	detailed, err := bridge.Run(s.executor, ctx, func(ctx context.Context) (map[string]interface{}, error) {
		return s.projects.GetDetailed(ctx, projectID)
	})
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(detailed), nil
}

func (s *Server) handleCreateProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := stringParam(request, "name")
	if name == "" {
		return mcp.NewToolResultError("Missing 'name' parameter"), nil
	}
	shortName := stringParam(request, "short_name")
	if shortName == "" {
		return mcp.NewToolResultError("Missing 'short_name' parameter"), nil
	}
	leadID := stringParam(request, "lead_id")
	if leadID == "" {
		return mcp.NewToolResultError("Missing 'lead_id' parameter"), nil
	}
	description := stringParam(request, "description")

	raw, err := bridge.Run(s.executor, ctx, func(ctx context.Context) (json.RawMessage, error) {
		return s.projects.Create(ctx, name, shortName, leadID, description)
	})
	if err != nil {
		return toolError(err), nil
	}
	return textResult(raw), nil
}

func (s *Server) handleUpdateProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := stringParam(request, "project_id", "project")
	if projectID == "" {
		return mcp.NewToolResultError("Missing 'project_id' parameter"), nil
	}

	args := arguments(request)
	var upd resources.ProjectUpdate
	if v, ok := args["name"].(string); ok {
		upd.Name = &v
	}
	if v, ok := args["description"].(string); ok {
		upd.Description = &v
	}
	if v, ok := args["archived"].(bool); ok {
		upd.Archived = &v
	}
	if v, ok := args["lead_id"].(string); ok {
		upd.LeadID = &v
	}
	if v, ok := args["short_name"].(string); ok {
		upd.ShortName = &v
	}

	raw, err := bridge.Run(s.executor, ctx, func(ctx context.Context) (json.RawMessage, error) {
		return s.projects.Update(ctx, projectID, upd)
	})
	if err != nil {
		return toolError(err), nil
	}
	return textResult(raw), nil
}
