package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"youtrack-mcp/internal/api"
)

// SearchClient wraps the issue search endpoint. Queries are passed to the
// tracker's own query language; nothing is parsed locally.
type SearchClient struct {
	client *api.Client
}

func NewSearchClient(client *api.Client) *SearchClient {
	return &SearchClient{client: client}
}

// Advanced runs a query with optional ordering. YouTrack has no sort query
// parameter; ordering rides the query language as "sort by: <field> <order>".
func (c *SearchClient) Advanced(ctx context.Context, query string, limit int, sortBy, sortOrder string) (json.RawMessage, error) {
	if query == "" {
		return nil, api.NewValidationError("search query is required")
	}
	if sortOrder != "" && sortOrder != "asc" && sortOrder != "desc" {
		return nil, api.NewValidationError("sort_order must be \"asc\" or \"desc\", got %q", sortOrder)
	}
	if sortBy != "" {
		query += " sort by: " + sortBy
		if sortOrder != "" {
			query += " " + sortOrder
		}
	}
	return c.run(ctx, query, limit, issueFields)
}

// FilterOptions are the structured criteria Filter turns into a query.
// Date strings use the YYYY-MM-DD format the tracker accepts.
type FilterOptions struct {
	Project       string
	Author        string
	Assignee      string
	State         string
	Priority      string
	Text          string
	CreatedAfter  string
	CreatedBefore string
	UpdatedAfter  string
	UpdatedBefore string
	Limit         int
}

// Filter builds a query from the set options and runs it. At least one
// criterion must be set.
func (c *SearchClient) Filter(ctx context.Context, opts FilterOptions) (json.RawMessage, error) {
	var parts []string
	if opts.Project != "" {
		parts = append(parts, "project: "+opts.Project)
	}
	if opts.Author != "" {
		parts = append(parts, "by: "+opts.Author)
	}
	if opts.Assignee != "" {
		parts = append(parts, "for: "+opts.Assignee)
	}
	if opts.State != "" {
		parts = append(parts, fmt.Sprintf("State: {%s}", opts.State))
	}
	if opts.Priority != "" {
		parts = append(parts, fmt.Sprintf("Priority: {%s}", opts.Priority))
	}
	if r := dateRange("created", opts.CreatedAfter, opts.CreatedBefore); r != "" {
		parts = append(parts, r)
	}
	if r := dateRange("updated", opts.UpdatedAfter, opts.UpdatedBefore); r != "" {
		parts = append(parts, r)
	}
	if opts.Text != "" {
		parts = append(parts, opts.Text)
	}
	if len(parts) == 0 {
		return nil, api.NewValidationError("at least one filter criterion is required")
	}
	return c.run(ctx, strings.Join(parts, " "), opts.Limit, issueFields)
}

// WithCustomFields runs a query and trims each issue's customFields array to
// the named fields.
func (c *SearchClient) WithCustomFields(ctx context.Context, query string, fieldNames []string, limit int) (json.RawMessage, error) {
	if query == "" {
		return nil, api.NewValidationError("search query is required")
	}
	if len(fieldNames) == 0 {
		return nil, api.NewValidationError("at least one custom field name is required")
	}

	raw, err := c.run(ctx, query, limit, issueFields)
	if err != nil {
		return nil, err
	}

	var issues []map[string]interface{}
	if err := json.Unmarshal(raw, &issues); err != nil {
		return nil, &api.Error{Kind: api.KindRemote, Message: "decoding issues: " + err.Error()}
	}

	wanted := make(map[string]bool, len(fieldNames))
	for _, name := range fieldNames {
		wanted[strings.ToLower(name)] = true
	}
	for _, issue := range issues {
		all, ok := issue["customFields"].([]interface{})
		if !ok {
			continue
		}
		var kept []interface{}
		for _, cf := range all {
			if m, ok := cf.(map[string]interface{}); ok {
				if name, _ := m["name"].(string); wanted[strings.ToLower(name)] {
					kept = append(kept, cf)
				}
			}
		}
		issue["customFields"] = kept
	}

	filtered, err := json.Marshal(issues)
	if err != nil {
		return nil, &api.Error{Kind: api.KindRemote, Message: "encoding issues: " + err.Error()}
	}
	return filtered, nil
}

func (c *SearchClient) run(ctx context.Context, query string, limit int, selector string) (json.RawMessage, error) {
	if limit <= 0 {
		limit = 10
	}
	params := url.Values{
		"query":  {query},
		"$top":   {strconv.Itoa(limit)},
		"fields": {selector},
	}
	return c.client.Get(ctx, "issues", params)
}

// dateRange renders "created: 2024-01-01 .. 2024-06-30" style clauses, with
// an open end when only one bound is set.
func dateRange(field, after, before string) string {
	switch {
	case after != "" && before != "":
		return fmt.Sprintf("%s: %s .. %s", field, after, before)
	case after != "":
		return fmt.Sprintf("%s: %s .. *", field, after)
	case before != "":
		return fmt.Sprintf("%s: * .. %s", field, before)
	}
	return ""
}
