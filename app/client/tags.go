package client

import (
	"context"
	"fmt"
	"time"
)

const tagsCacheTTL = 5 * time.Minute

// Tag is a user-defined label jobs can be assigned to.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Tags returns the tag catalog, cached for a few minutes. Tags change rarely and
// the list backs a picker, slight staleness is fine.
func (c *Client) Tags(ctx context.Context) ([]Tag, error) {
	c.tagsMu.RLock()
	if c.tagsCache != nil && time.Since(c.tagsFetched) < tagsCacheTTL {
		cached := c.tagsCache
		c.tagsMu.RUnlock()
		return cached, nil
	}
	c.tagsMu.RUnlock()

	var data struct {
		Tags []Tag `json:"tags"`
	}
	if err := c.getJSON(ctx, "/api/v1/tags", &data); err != nil {
		return nil, fmt.Errorf("fetch tags: %w", err)
	}
	if data.Tags == nil {
		data.Tags = []Tag{}
	}

	c.tagsMu.Lock()
	c.tagsCache = data.Tags
	c.tagsFetched = time.Now()
	c.tagsMu.Unlock()

	return data.Tags, nil
}
