package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) setupGuideTools() {
	syntaxGuideTool := mcp.NewTool("get_search_syntax_guide",
		mcp.WithDescription("Get a guide to YouTrack search query syntax."),
	)
	s.mcpServer.AddTool(syntaxGuideTool, s.handleGetSearchSyntaxGuide)

	commonQueriesTool := mcp.NewTool("get_common_queries",
		mcp.WithDescription("Get examples of common YouTrack search queries."),
	)
	s.mcpServer.AddTool(commonQueriesTool, s.handleGetCommonQueries)
}

func (s *Server) handleGetSearchSyntaxGuide(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(searchSyntaxGuide), nil
}

func (s *Server) handleGetCommonQueries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(commonQueries), nil
}

// searchSyntaxGuide is the query-language reference served by
// get_search_syntax_guide. Queries built from it are passed to the tracker
// verbatim; mistakes surface as tracker-side errors.
const searchSyntaxGuide = `# YouTrack Search Syntax Guide

## Basic structure

A query is a sequence of clauses separated by spaces. Each clause is either an
attribute filter ("attribute: value") or free text. All clauses must match.

    project: DEMO State: Open login issues

## Attribute filters

    project: DEMO          Issues in project with short name DEMO
    State: Open            Issues in the Open state
    Priority: Critical     Issues with Critical priority
    Type: Bug              Issues of type Bug
    by: john.doe           Issues reported by login john.doe
    for: jane.roe          Issues assigned to login jane.roe
    tag: regression        Issues tagged "regression"

Values containing spaces go in braces:

    State: {In Progress}
    Subsystem: {User Interface}

## Special values

    for: me                Assigned to the current user
    by: me                 Reported by the current user
    #Unresolved            Any unresolved state
    #Resolved              Any resolved state
    has: attachments       Issues with attachments
    has: comments          Issues with comments

## Dates

    created: 2024-01-01 .. 2024-06-30
    created: 2024-01-01 .. *         From a date onward
    updated: * .. 2024-06-30         Up to a date
    created: {This week}
    updated: Today

## Custom fields

Any custom field can be filtered by name:

    Subsystem: Backend
    {Fix versions}: 2024.2
    Assignee: jane.roe

## Sorting

Append ordering with "sort by":

    project: DEMO sort by: updated desc
    #Unresolved sort by: priority

## Text search

Bare words search summary, description and comments:

    project: DEMO timeout connection

Quote phrases for exact matches:

    "connection refused"
`

// commonQueries is the example catalogue served by get_common_queries.
const commonQueries = `# Common YouTrack Queries

## My work

    for: me #Unresolved                      My open issues
    for: me #Unresolved sort by: priority    My open issues, most urgent first
    by: me created: {This month}             Issues I reported this month

## Project status

    project: DEMO #Unresolved                Open issues in DEMO
    project: DEMO State: {In Progress}       Work currently in flight
    project: DEMO #Resolved updated: {This week}   Recently resolved

## Triage

    project: DEMO has: -{assignee}           Unassigned issues
    project: DEMO Priority: Critical #Unresolved   Open critical issues
    project: DEMO Type: Bug created: {This week}   New bugs this week

## Housekeeping

    project: DEMO #Unresolved updated: * .. 2024-01-01   Stale open issues
    project: DEMO State: Open has: -{comments}           Open and never discussed
    tag: regression #Unresolved                          Open regressions

## Cross-project

    for: me #Unresolved sort by: updated desc            Everything on my plate
    by: me sort by: created desc                         Everything I reported
    #Unresolved Priority: Show-stopper                   Show-stoppers anywhere
`
