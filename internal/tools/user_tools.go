package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"youtrack-mcp/internal/bridge"
)

func (s *Server) setupUserTools() {
	getUserTool := mcp.NewTool("get_user",
		mcp.WithDescription("Get information about a specific user by ID."),
		mcp.WithString("user_id",
			mcp.Description("User ID to retrieve information for")),
		mcp.WithString("user",
			mcp.Description("Alternative parameter name for user ID")),
	)
	s.mcpServer.AddTool(getUserTool, s.handleGetUser)

	getUserByLoginTool := mcp.NewTool("get_user_by_login",
		mcp.WithDescription("Get information about a specific user by login."),
		mcp.WithString("login", mcp.Required(),
			mcp.Description("User login/username to retrieve information for")),
	)
	s.mcpServer.AddTool(getUserByLoginTool, s.handleGetUserByLogin)

	searchUsersTool := mcp.NewTool("search_users",
		mcp.WithDescription("Search for users by name or login."),
		mcp.WithString("query", mcp.Required(),
			mcp.Description("Search query for user name or login")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of users to return (default: 10)")),
	)
	s.mcpServer.AddTool(searchUsersTool, s.handleSearchUsers)

	getCurrentUserTool := mcp.NewTool("get_current_user",
		mcp.WithDescription("Get information about the currently authenticated user."),
	)
	s.mcpServer.AddTool(getCurrentUserTool, s.handleGetCurrentUser)
}

func (s *Server) handleGetUser(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := stringParam(request, "user_id", "user")
	if userID == "" {
		return mcp.NewToolResultError("Missing 'user_id' parameter"), nil
	}

	raw, err := bridge.Run(s.executor, ctx, func(ctx context.Context) (json.RawMessage, error) {
		return s.users.Get(ctx, userID)
	})
	if err != nil {
		return toolError(err), nil
	}
	return textResult(raw), nil
}

func (s *Server) handleGetUserByLogin(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	login := stringParam(request, "login")
	if login == "" {
		return mcp.NewToolResultError("Missing 'login' parameter"), nil
	}

	raw, err := bridge.Run(s.executor, ctx, func(ctx context.Context) (json.RawMessage, error) {
		return s.users.GetByLogin(ctx, login)
	})
	if err != nil {
		return toolError(err), nil
	}
	return textResult(raw), nil
}

func (s *Server) handleSearchUsers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := stringParam(request, "query")
	if query == "" {
		return mcp.NewToolResultError("Missing 'query' parameter"), nil
	}
	limit := intParam(request, "limit", 10)

	raw, err := bridge.Run(s.executor, ctx, func(ctx context.Context) (json.RawMessage, error) {
		return s.users.Search(ctx, query, limit)
	})
	if err != nil {
		return toolError(err), nil
	}
	return textResult(raw), nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := bridge.Run(s.executor, ctx, func(ctx context.Context) (json.RawMessage, error) {
		return s.users.Current(ctx)
	})
	if err != nil {
		return toolError(err), nil
	}
	return textResult(raw), nil
}
