package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListNotificationsBuildsQueryAndDecodes(t *testing.T) {
	assert := assert.New(t)

	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal("/notifications", r.URL.Path)
			assert.Equal("Bearer tok-123", r.Header.Get("Authorization"))
			gotQuery = r.URL.Query()
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{
				"data": [
					{
						"id": "n1",
						"event_type": "reservation.created",
						"category": "reservations",
						"severity": "info",
						"title": "New reservation",
						"body": "Unit 4B, 3 nights",
						"read_at": null,
						"created_at": "2026-02-10T12:00:00Z",
						"occurred_at": "2026-02-10T11:59:58Z"
					}
				],
				"next_cursor": "2026-02-10T12:00:00Z"
			}`)
		}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok-123", "org-9")
	page, err := c.ListNotifications(context.Background(), NotificationQuery{
		Limit:    20,
		Status:   "unread",
		Category: "reservations",
		Cursor:   "2026-02-11T00:00:00Z",
	})
	require.NoError(t, err)

	assert.Equal([]string{"org-9"}, gotQuery["org_id"])
	assert.Equal([]string{"20"}, gotQuery["limit"])
	assert.Equal([]string{"unread"}, gotQuery["status"])
	assert.Equal([]string{"reservations"}, gotQuery["category"])
	assert.Equal([]string{"2026-02-11T00:00:00Z"}, gotQuery["cursor"])

	require.Len(t, page.Data, 1)
	n := page.Data[0]
	assert.Equal("n1", n.ID)
	assert.Equal("reservation.created", n.EventType)
	assert.True(n.Unread())
	assert.Equal("2026-02-10T12:00:00Z", page.NextCursor)
}

func TestListNotificationsNullCursorMeansExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"data": [], "next_cursor": null}`)
		}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", "org-9")
	page, err := c.ListNotifications(context.Background(), NotificationQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.NextCursor)
	assert.Empty(t, page.Data)
}

func TestUnreadCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/notifications/unread-count", r.URL.Path)
			assert.Equal(t, "org-9", r.URL.Query().Get("org_id"))
			io.WriteString(w, `{"unread": 7}`)
		}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", "org-9")
	n, err := c.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestMarkRead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/notifications/n1/read", r.URL.Path)
			assert.Equal(t, "org-9", r.URL.Query().Get("org_id"))
			io.WriteString(w, `{"id": "n1", "read_at": "2026-02-10T12:30:00Z"}`)
		}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", "org-9")
	readAt, err := c.MarkRead(context.Background(), "n1")
	require.NoError(t, err)
	assert.Equal(t,
		time.Date(2026, 2, 10, 12, 30, 0, 0, time.UTC),
		readAt.UTC(),
	)
}

func TestMarkAllReadSendsOrgInBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/notifications/read-all", r.URL.Path)
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "org-9", body["org_id"])
			io.WriteString(w, `{"updated": 12}`)
		}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", "org-9")
	updated, err := c.MarkAllRead(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, updated)
}

func TestUpdateFieldPatchesAndEchoesRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "/properties/p1", r.URL.Path)
			var patch map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
			assert.Equal(t, map[string]any{"name": "Casa Norte"}, patch)
			io.WriteString(w, `{"id": "p1", "name": "Casa Norte", "status": "active"}`)
		}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", "org-9")
	row, err := c.UpdateField(
		context.Background(), "properties", "p1", "name", "Casa Norte",
	)
	require.NoError(t, err)
	assert.Equal(t, "Casa Norte", row["name"])
	assert.Equal(t, "active", row["status"])
}

func TestRetryAfter429(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				w.Header().Set("Retry-After", "0")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			io.WriteString(w, `{"unread": 1}`)
		}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", "org-9")
	n, err := c.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, calls)
}

func TestUnauthorizedReturnsAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad-token", "org-9")
	_, err := c.UnreadCount(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
}

func TestServerErrorMessageExtraction(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"error key", `{"error": "row not found"}`, "row not found"},
		{"detail key", `{"detail": "org mismatch"}`, "org mismatch"},
		{"plain text", `boom`, "boom"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusBadRequest)
					io.WriteString(w, tc.body)
				}))
			defer srv.Close()

			c := NewClient(srv.URL, "tok", "org-9")
			_, err := c.UnreadCount(context.Background())
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			assert.Equal(t, tc.want, apiErr.Message)
			assert.Equal(t, tc.want, ErrorMessage(err))
		})
	}
}
