// Package fields resolves and memoizes project custom field schemas.
//
// The cache is owned by the process: constructed once at startup and handed to
// every client that serializes custom field values. Entries never expire; a
// field created on the tracker after the first lookup for its project is not
// visible until restart.
package fields

import (
	"context"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"youtrack-mcp/internal/api"
	"youtrack-mcp/internal/logging"
)

// MetadataFunc fetches the full custom field schema of a project, keyed by
// field name.
type MetadataFunc func(ctx context.Context, projectID string) (map[string]Type, error)

// Cache memoizes custom field types per (project, field name). Concurrent
// misses for a project collapse into a single metadata request; all waiters
// share its result. Safe for concurrent use.
type Cache struct {
	entries *gocache.Cache
	group   singleflight.Group
	fetch   MetadataFunc
}

func NewCache(fetch MetadataFunc) *Cache {
	return &Cache{
		entries: gocache.New(gocache.NoExpiration, 0),
		fetch:   fetch,
	}
}

// Resolve returns the declared type of fieldName in projectID.
//
// A permission-denied metadata response degrades to TypeString instead of
// failing the caller: issue writes still go through with the value serialized
// as a plain string, at the cost of weaker type validation. Unknown field
// names degrade the same way. Other metadata errors propagate and are not
// cached.
func (c *Cache) Resolve(ctx context.Context, projectID, fieldName string) (Type, error) {
	key := cacheKey(projectID, fieldName)
	if v, ok := c.entries.Get(key); ok {
		return v.(Type), nil
	}

	// One metadata request primes every field of the project, so the flight
	// is keyed by project rather than by field.
	_, err, _ := c.group.Do(projectID, func() (interface{}, error) {
		schema, err := c.fetch(ctx, projectID)
		if err != nil {
			if api.IsKind(err, api.KindAuth) {
				logging.Info("no permission to read custom field schema for project %s, falling back to string typing", projectID)
				return nil, nil
			}
			return nil, err
		}
		for name, t := range schema {
			c.entries.Set(cacheKey(projectID, name), t, gocache.NoExpiration)
		}
		logging.Debug("cached %d custom field types for project %s", len(schema), projectID)
		return nil, nil
	})
	if err != nil {
		return "", err
	}

	if v, ok := c.entries.Get(key); ok {
		return v.(Type), nil
	}

	// Field absent from the schema (or schema unreadable): infer string and
	// remember the inference so repeated lookups stay cheap.
	c.entries.Set(key, TypeString, gocache.NoExpiration)
	return TypeString, nil
}

// Len returns the number of cached field entries.
func (c *Cache) Len() int {
	return c.entries.ItemCount()
}

func cacheKey(projectID, fieldName string) string {
	return projectID + "/" + fieldName
}
