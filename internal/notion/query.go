package notion

import (
	"context"
	"encoding/json"
	"net/http"
)

type queryRequest struct {
	StartCursor string `json:"start_cursor,omitempty"`
}

type queryResponse struct {
	Results    []json.RawMessage `json:"results"`
	HasMore    bool              `json:"has_more"`
	NextCursor *string           `json:"next_cursor"`
}

// FetchAll queries endpoint page by page, following next_cursor until the API
// reports no more results. Entries keep the order the API returned them in.
// Any failed page aborts the whole fetch.
func FetchAll(ctx context.Context, client Doer, endpoint string, header http.Header) ([]json.RawMessage, error) {
	var all []json.RawMessage
	req := queryRequest{}

	for {
		var resp queryResponse
		if err := doJSON(ctx, client, http.MethodPost, endpoint, header, req, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Results...)

		if !resp.HasMore || resp.NextCursor == nil || *resp.NextCursor == "" {
			break
		}
		req = queryRequest{StartCursor: *resp.NextCursor}
	}

	return all, nil
}
