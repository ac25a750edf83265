package commerce

import (
	"context"
	"encoding/json"
	"net/url"
)

// Envelope is the fixed wrapper around every upstream response.
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// listPayload is the paginated shape the platform nests inside the envelope's
// data field: the real rows sit one level deeper under data.data.
type listPayload struct {
	CurrentPage int             `json:"current_page"`
	Data        json.RawMessage `json:"data"`
	LastPage    int             `json:"last_page"`
	Total       int             `json:"total"`
	PerPage     int             `json:"per_page"`
}

// Page is the flattened list shape handed to callers.
type Page[T any] struct {
	Data        []T `json:"data"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	Total       int `json:"total"`
	PerPage     int `json:"per_page"`
}

// GetPage fetches a paginated listing and flattens the double-nested data
// field into a Page.
func GetPage[T any](ctx context.Context, c *Client, path string, query url.Values) (Page[T], error) {
	var payload listPayload
	if err := c.Get(ctx, path, query, &payload); err != nil {
		return Page[T]{}, err
	}

	page := Page[T]{
		CurrentPage: payload.CurrentPage,
		LastPage:    payload.LastPage,
		Total:       payload.Total,
		PerPage:     payload.PerPage,
	}
	if len(payload.Data) == 0 || string(payload.Data) == "null" {
		page.Data = []T{}
		return page, nil
	}
	if err := unmarshalData(payload.Data, &page.Data); err != nil {
		return Page[T]{}, err
	}
	return page, nil
}
