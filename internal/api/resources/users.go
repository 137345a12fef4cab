package resources

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"youtrack-mcp/internal/api"
)

const userFields = "id,login,name,email,guest,online,banned"

// UsersClient wraps the user endpoints.
type UsersClient struct {
	client *api.Client
}

func NewUsersClient(client *api.Client) *UsersClient {
	return &UsersClient{client: client}
}

// Get returns a user by internal ID.
func (c *UsersClient) Get(ctx context.Context, userID string) (json.RawMessage, error) {
	if userID == "" {
		return nil, api.NewValidationError("user ID is required")
	}
	return c.client.Get(ctx, "users/"+userID, url.Values{"fields": {userFields}})
}

// GetByLogin returns the user with the given login.
func (c *UsersClient) GetByLogin(ctx context.Context, login string) (json.RawMessage, error) {
	if login == "" {
		return nil, api.NewValidationError("login is required")
	}

	params := url.Values{
		"query":  {"login: " + login},
		"fields": {userFields},
		"$top":   {"1"},
	}
	raw, err := c.client.Get(ctx, "users", params)
	if err != nil {
		return nil, err
	}

	var users []json.RawMessage
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, &api.Error{Kind: api.KindRemote, Message: "decoding user list: " + err.Error()}
	}
	if len(users) == 0 {
		return nil, &api.Error{Kind: api.KindNotFound, Message: "user not found: " + login}
	}
	return users[0], nil
}

// Search finds users by name or login.
func (c *UsersClient) Search(ctx context.Context, query string, limit int) (json.RawMessage, error) {
	if query == "" {
		return nil, api.NewValidationError("search query is required")
	}
	if limit <= 0 {
		limit = 10
	}
	params := url.Values{
		"query":  {query},
		"fields": {userFields},
		"$top":   {strconv.Itoa(limit)},
	}
	return c.client.Get(ctx, "users", params)
}

// Current returns the authenticated user.
func (c *UsersClient) Current(ctx context.Context) (json.RawMessage, error) {
	return c.client.Get(ctx, "users/me", url.Values{"fields": {userFields}})
}
