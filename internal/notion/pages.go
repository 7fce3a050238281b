package notion

import (
	"context"
	"fmt"
	"net/http"
)

type numberValue struct {
	Number int `json:"number"`
}

type updatePageRequest struct {
	Properties map[string]numberValue `json:"properties"`
}

// UpdateNumber sets a number property on a database page
func (c *Client) UpdateNumber(ctx context.Context, pageID, property string, value int) error {
	url := fmt.Sprintf("%s/pages/%s", c.baseURL, pageID)
	body := updatePageRequest{Properties: map[string]numberValue{property: {Number: value}}}
	if err := doJSON(ctx, c.http, http.MethodPatch, url, c.Header(), body, nil); err != nil {
		return fmt.Errorf("update %q on page %s: %w", property, pageID, err)
	}
	return nil
}
