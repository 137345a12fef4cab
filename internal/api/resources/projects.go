package resources

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"youtrack-mcp/internal/api"
	"youtrack-mcp/internal/fields"
)

const projectFields = "id,name,shortName,description,archived,leader(id,login,name)"

// customFieldSelector pulls the field definitions plus bundle values so
// callers can see which values an enum-like field accepts.
const customFieldSelector = "field(id,name,fieldType(id)),canBeEmpty,emptyFieldText," +
	"bundle(id,values(id,name))"

// ProjectsClient wraps the project administration endpoints.
type ProjectsClient struct {
	client *api.Client
}

func NewProjectsClient(client *api.Client) *ProjectsClient {
	return &ProjectsClient{client: client}
}

// List returns all projects, optionally including archived ones.
func (c *ProjectsClient) List(ctx context.Context, includeArchived bool) ([]json.RawMessage, error) {
	raw, err := c.client.Get(ctx, "admin/projects", url.Values{"fields": {projectFields}})
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &api.Error{Kind: api.KindRemote, Message: "decoding project list: " + err.Error()}
	}
	if includeArchived {
		return items, nil
	}

	active := items[:0]
	for _, item := range items {
		var p api.Project
		if err := json.Unmarshal(item, &p); err == nil && p.Archived {
			continue
		}
		active = append(active, item)
	}
	return active, nil
}

// Get returns a project by its internal ID or short name.
func (c *ProjectsClient) Get(ctx context.Context, projectID string) (json.RawMessage, error) {
	if projectID == "" {
		return nil, api.NewValidationError("project ID is required")
	}
	return c.client.Get(ctx, "admin/projects/"+projectID, url.Values{"fields": {projectFields}})
}

// GetByName finds a project by short name or name: exact short name match
// first, then exact name, then substring.
func (c *ProjectsClient) GetByName(ctx context.Context, name string) (json.RawMessage, error) {
	if name == "" {
		return nil, api.NewValidationError("project name is required")
	}

	items, err := c.List(ctx, true)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		raw     json.RawMessage
		project api.Project
	}
	parsed := make([]candidate, 0, len(items))
	for _, item := range items {
		var p api.Project
		if err := json.Unmarshal(item, &p); err != nil {
			continue
		}
		parsed = append(parsed, candidate{raw: item, project: p})
	}

	for _, cand := range parsed {
		if cand.project.ShortName == name {
			return cand.raw, nil
		}
	}
	for _, cand := range parsed {
		if cand.project.Name == name {
			return cand.raw, nil
		}
	}
	lower := strings.ToLower(name)
	for _, cand := range parsed {
		if strings.Contains(strings.ToLower(cand.project.Name), lower) {
			return cand.raw, nil
		}
	}
	return nil, &api.Error{Kind: api.KindNotFound, Message: "project not found: " + name}
}

// ResolveID turns a project ID or short name into the internal project ID
// issue creation requires. Internal IDs (e.g. "0-167") pass through.
func (c *ProjectsClient) ResolveID(ctx context.Context, project string) (string, error) {
	if project == "" {
		return "", api.NewValidationError("project is required")
	}
	if strings.HasPrefix(project, "0-") {
		return project, nil
	}
	raw, err := c.GetByName(ctx, project)
	if err != nil {
		return "", err
	}
	var p api.Project
	if err := json.Unmarshal(raw, &p); err != nil {
		return "", &api.Error{Kind: api.KindRemote, Message: "decoding project: " + err.Error()}
	}
	return p.ID, nil
}

// Issues returns up to limit issues of a project.
func (c *ProjectsClient) Issues(ctx context.Context, projectID string, limit int) (json.RawMessage, error) {
	if projectID == "" {
		return nil, api.NewValidationError("project ID is required")
	}
	if limit <= 0 {
		limit = 50
	}

	// Issue search wants the short name; look it up when given an internal ID.
	shortName := projectID
	if strings.HasPrefix(projectID, "0-") {
		raw, err := c.Get(ctx, projectID)
		if err != nil {
			return nil, err
		}
		var p api.Project
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, &api.Error{Kind: api.KindRemote, Message: "decoding project: " + err.Error()}
		}
		shortName = p.ShortName
	}

	params := url.Values{
		"query":  {"project: " + shortName},
		"$top":   {strconv.Itoa(limit)},
		"fields": {issueFields},
	}
	return c.client.Get(ctx, "issues", params)
}

// CustomFields returns the raw custom field definitions of a project.
func (c *ProjectsClient) CustomFields(ctx context.Context, projectID string) (json.RawMessage, error) {
	if projectID == "" {
		return nil, api.NewValidationError("project ID is required")
	}
	query := url.Values{"fields": {customFieldSelector}}
	return c.client.Get(ctx, "admin/projects/"+projectID+"/customFields", query)
}

// FieldSchemas fetches the custom field schema of a project keyed by field
// name. This is the metadata source behind the field cache.
func (c *ProjectsClient) FieldSchemas(ctx context.Context, projectID string) (map[string]fields.Type, error) {
	raw, err := c.CustomFields(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var defs []struct {
		Field struct {
			Name      string `json:"name"`
			FieldType struct {
				ID string `json:"id"`
			} `json:"fieldType"`
		} `json:"field"`
	}
	if err := json.Unmarshal(raw, &defs); err != nil {
		return nil, &api.Error{Kind: api.KindRemote, Message: "decoding custom fields: " + err.Error()}
	}

	schema := make(map[string]fields.Type, len(defs))
	for _, def := range defs {
		if def.Field.Name == "" {
			continue
		}
		schema[def.Field.Name] = fields.TypeFromAPI(def.Field.FieldType.ID)
	}
	return schema, nil
}

// GetDetailed combines project info with its field definitions and a summary
// of which fields are required when creating issues.
func (c *ProjectsClient) GetDetailed(ctx context.Context, projectID string) (map[string]interface{}, error) {
	project, err := c.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	rawFields, err := c.CustomFields(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var defs []struct {
		Field struct {
			ID        string `json:"id"`
			Name      string `json:"name"`
			FieldType struct {
				ID string `json:"id"`
			} `json:"fieldType"`
		} `json:"field"`
		CanBeEmpty bool `json:"canBeEmpty"`
		Bundle     *struct {
			Values []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"values"`
		} `json:"bundle"`
	}
	if err := json.Unmarshal(rawFields, &defs); err != nil {
		return nil, &api.Error{Kind: api.KindRemote, Message: "decoding custom fields: " + err.Error()}
	}

	customFields := make([]map[string]interface{}, 0, len(defs))
	var required []string
	for _, def := range defs {
		entry := map[string]interface{}{
			"id":       def.Field.ID,
			"name":     def.Field.Name,
			"type":     string(fields.TypeFromAPI(def.Field.FieldType.ID)),
			"required": !def.CanBeEmpty,
		}
		if def.Bundle != nil && len(def.Bundle.Values) > 0 {
			values := make([]map[string]string, 0, len(def.Bundle.Values))
			for _, v := range def.Bundle.Values {
				values = append(values, map[string]string{"id": v.ID, "name": v.Name})
			}
			entry["possible_values"] = values
		}
		if !def.CanBeEmpty {
			required = append(required, def.Field.Name)
		}
		customFields = append(customFields, entry)
	}

	return map[string]interface{}{
		"project":         project,
		"custom_fields":   customFields,
		"required_fields": required,
	}, nil
}

// ProjectUpdate carries the optional changes Update applies. Nil pointers are
// left untouched on the tracker.
type ProjectUpdate struct {
	Name        *string
	Description *string
	Archived    *bool
	LeadID      *string
	ShortName   *string
}

// Create creates a project. YouTrack requires a leader.
func (c *ProjectsClient) Create(ctx context.Context, name, shortName, leadID, description string) (json.RawMessage, error) {
	if name == "" {
		return nil, api.NewValidationError("project name is required")
	}
	if shortName == "" {
		return nil, api.NewValidationError("project short name is required")
	}
	if leadID == "" {
		return nil, api.NewValidationError("project leader ID is required")
	}

	payload := map[string]interface{}{
		"name":      name,
		"shortName": shortName,
		"leader":    map[string]string{"id": leadID},
	}
	if description != "" {
		payload["description"] = description
	}
	return c.client.Post(ctx, "admin/projects", url.Values{"fields": {projectFields}}, payload)
}

// Update applies the set fields of upd to a project and returns the updated
// project. With no changes it returns the current state.
func (c *ProjectsClient) Update(ctx context.Context, projectID string, upd ProjectUpdate) (json.RawMessage, error) {
	if projectID == "" {
		return nil, api.NewValidationError("project ID is required")
	}

	payload := map[string]interface{}{}
	if upd.Name != nil {
		payload["name"] = *upd.Name
	}
	if upd.Description != nil {
		payload["description"] = *upd.Description
	}
	if upd.Archived != nil {
		payload["archived"] = *upd.Archived
	}
	if upd.LeadID != nil {
		payload["leader"] = map[string]string{"id": *upd.LeadID}
	}
	if upd.ShortName != nil {
		payload["shortName"] = *upd.ShortName
	}

	if len(payload) == 0 {
		return c.Get(ctx, projectID)
	}

	if _, err := c.client.Post(ctx, "admin/projects/"+projectID, nil, payload); err != nil {
		return nil, err
	}
	return c.Get(ctx, projectID)
}
