package api

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/gimenezdev/rentalops/internal/model"
)

// NotificationQuery controls filtering and pagination for the feed.
type NotificationQuery struct {
	// Limit is the page size; the server applies its own default when 0.
	Limit int

	// Status filters by read state: "all", "unread", or "read".
	Status string

	// Category restricts results to one category; "" means all.
	Category string

	// Cursor is the created_at of the last item of the previous page.
	// "" fetches the newest page.
	Cursor string
}

// NotificationPage is one page of feed items, newest first. NextCursor is
// "" once the collection is exhausted.
type NotificationPage struct {
	Data       []model.Notification `json:"data"`
	NextCursor string               `json:"next_cursor"`
}

// ListNotifications fetches one page of the organization's notifications.
func (c *Client) ListNotifications(
	ctx context.Context,
	q NotificationQuery,
) (*NotificationPage, error) {
	params := url.Values{}
	params.Set("org_id", c.orgID)
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.Cursor != "" {
		params.Set("cursor", q.Cursor)
	}

	var page NotificationPage
	if err := c.Get(ctx, "/notifications?"+params.Encode(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UnreadCount fetches the organization's unread notification count.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	params := url.Values{}
	params.Set("org_id", c.orgID)

	var out struct {
		Unread int `json:"unread"`
	}
	path := "/notifications/unread-count?" + params.Encode()
	if err := c.Get(ctx, path, &out); err != nil {
		return 0, err
	}
	return out.Unread, nil
}

// MarkRead marks a single notification as read and returns the server's
// read timestamp. The endpoint is idempotent: an already-read notification
// keeps its original timestamp.
func (c *Client) MarkRead(ctx context.Context, id string) (time.Time, error) {
	params := url.Values{}
	params.Set("org_id", c.orgID)

	var out struct {
		ID     string    `json:"id"`
		ReadAt time.Time `json:"read_at"`
	}
	path := "/notifications/" + url.PathEscape(id) + "/read?" + params.Encode()
	if err := c.Post(ctx, path, nil, &out); err != nil {
		return time.Time{}, err
	}
	return out.ReadAt, nil
}

// MarkAllRead marks every unread notification in the organization as read
// and returns how many the server updated.
func (c *Client) MarkAllRead(ctx context.Context) (int, error) {
	body := map[string]string{"org_id": c.orgID}

	var out struct {
		Updated int `json:"updated"`
	}
	if err := c.Post(ctx, "/notifications/read-all", body, &out); err != nil {
		return 0, err
	}
	return out.Updated, nil
}
