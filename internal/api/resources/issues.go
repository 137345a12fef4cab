package resources

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"youtrack-mcp/internal/api"
	"youtrack-mcp/internal/fields"
	"youtrack-mcp/internal/logging"
)

// issueFields is the explicit field selector used for issue reads so the
// tracker returns full objects instead of bare ids.
const issueFields = "id,idReadable,summary,description,created,updated," +
	"project(id,name,shortName),reporter(id,login,name)," +
	"assignee(id,login,name),customFields(id,name,value(id,name,login,text,presentation))"

// IssuesClient wraps the issue endpoints. Custom field values on writes are
// serialized according to the types resolved through the field cache.
type IssuesClient struct {
	client *api.Client
	fields *fields.Cache
}

func NewIssuesClient(client *api.Client, fieldCache *fields.Cache) *IssuesClient {
	return &IssuesClient{client: client, fields: fieldCache}
}

// Get returns an issue by ID or readable ID (e.g. PROJECT-123).
func (c *IssuesClient) Get(ctx context.Context, issueID string) (json.RawMessage, error) {
	if issueID == "" {
		return nil, api.NewValidationError("issue ID is required")
	}
	return c.client.Get(ctx, "issues/"+issueID, url.Values{"fields": {issueFields}})
}

// GetRaw returns an issue without a field selector, exactly as the tracker
// serializes it by default.
func (c *IssuesClient) GetRaw(ctx context.Context, issueID string) (json.RawMessage, error) {
	if issueID == "" {
		return nil, api.NewValidationError("issue ID is required")
	}
	return c.client.Get(ctx, "issues/"+issueID, nil)
}

// Create creates an issue in the given project. customFields maps field names
// to values; each value is wrapped in the JSON shape its declared type
// requires.
func (c *IssuesClient) Create(ctx context.Context, projectID, summary, description string, customFields map[string]string) (json.RawMessage, error) {
	if projectID == "" {
		return nil, api.NewValidationError("project is required")
	}
	if summary == "" {
		return nil, api.NewValidationError("summary is required")
	}

	payload := map[string]interface{}{
		"project": map[string]string{"id": projectID},
		"summary": summary,
	}
	if description != "" {
		payload["description"] = description
	}

	if len(customFields) > 0 {
		entries, err := c.customFieldEntries(ctx, projectID, customFields)
		if err != nil {
			return nil, err
		}
		payload["customFields"] = entries
	}

	return c.client.Post(ctx, "issues", url.Values{"fields": {issueFields}}, payload)
}

// Update applies partial changes to an existing issue. Only non-empty
// summary/description and listed custom fields are sent.
func (c *IssuesClient) Update(ctx context.Context, issueID, summary, description string, customFields map[string]string) (json.RawMessage, error) {
	if issueID == "" {
		return nil, api.NewValidationError("issue ID is required")
	}
	if summary == "" && description == "" && len(customFields) == 0 {
		return nil, api.NewValidationError("nothing to update: provide summary, description or custom_fields")
	}

	payload := map[string]interface{}{}
	if summary != "" {
		payload["summary"] = summary
	}
	if description != "" {
		payload["description"] = description
	}

	if len(customFields) > 0 {
		projectID, err := c.issueProject(ctx, issueID)
		if err != nil {
			return nil, err
		}
		entries, err := c.customFieldEntries(ctx, projectID, customFields)
		if err != nil {
			return nil, err
		}
		payload["customFields"] = entries
	}

	return c.client.Post(ctx, "issues/"+issueID, url.Values{"fields": {issueFields}}, payload)
}

// AddComment adds a comment to an issue.
func (c *IssuesClient) AddComment(ctx context.Context, issueID, text string) (json.RawMessage, error) {
	if issueID == "" {
		return nil, api.NewValidationError("issue ID is required")
	}
	if text == "" {
		return nil, api.NewValidationError("comment text is required")
	}
	query := url.Values{"fields": {"id,text,created,author(id,login,name)"}}
	return c.client.Post(ctx, "issues/"+issueID+"/comments", query, map[string]string{"text": text})
}

// Search runs a YouTrack query and returns up to limit issues. The query is
// passed through untouched; syntax errors surface as tracker errors.
func (c *IssuesClient) Search(ctx context.Context, query string, limit int) (json.RawMessage, error) {
	if query == "" {
		return nil, api.NewValidationError("search query is required")
	}
	if limit <= 0 {
		limit = 10
	}
	params := url.Values{
		"query":  {query},
		"$top":   {strconv.Itoa(limit)},
		"fields": {issueFields},
	}
	return c.client.Get(ctx, "issues", params)
}

func (c *IssuesClient) customFieldEntries(ctx context.Context, projectID string, customFields map[string]string) ([]map[string]interface{}, error) {
	entries := make([]map[string]interface{}, 0, len(customFields))
	for name, value := range customFields {
		fieldType, err := c.fields.Resolve(ctx, projectID, name)
		if err != nil {
			return nil, err
		}
		logging.Debug("field %s resolved to type %s", name, fieldType)
		entries = append(entries, fieldType.IssueValue(name, value))
	}
	return entries, nil
}

// issueProject looks up the project an issue belongs to, needed to resolve
// custom field types on update.
func (c *IssuesClient) issueProject(ctx context.Context, issueID string) (string, error) {
	raw, err := c.client.Get(ctx, "issues/"+issueID, url.Values{"fields": {"project(id,shortName)"}})
	if err != nil {
		return "", err
	}
	var issue struct {
		Project api.Project `json:"project"`
	}
	if err := json.Unmarshal(raw, &issue); err != nil {
		return "", &api.Error{Kind: api.KindRemote, Message: "decoding issue project: " + err.Error()}
	}
	if issue.Project.ID == "" {
		return "", &api.Error{Kind: api.KindNotFound, Message: "issue " + issueID + " has no project"}
	}
	return issue.Project.ID, nil
}
