package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dokim/coordclient/internal/metrics"
	"github.com/dokim/coordclient/internal/models"
	"github.com/dokim/coordclient/internal/transport"
)

// Client talks to the notification endpoints of the coordinate-sharing
// server. Mutations are CSRF-authenticated POSTs with no body.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a notification client. httpClient should carry the
// session/CSRF transport; nil falls back to an unauthenticated client.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = transport.NewClient("", "")
	}
	return &Client{baseURL: baseURL, client: httpClient}
}

type unreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

type listResponse struct {
	Notifications []models.NotificationItem `json:"notifications"`
}

// UnreadCount fetches the current unread notification count.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var data unreadCountResponse
	if err := c.getJSON(ctx, "/interactions/notifications/unread-count/", "unread-count", &data); err != nil {
		return 0, err
	}
	return data.UnreadCount, nil
}

// List fetches the notification list (server returns the 20 most recent).
func (c *Client) List(ctx context.Context) ([]models.NotificationItem, error) {
	var data listResponse
	if err := c.getJSON(ctx, "/interactions/notifications/", "list", &data); err != nil {
		return nil, err
	}
	return data.Notifications, nil
}

// MarkRead marks a single notification read.
func (c *Client) MarkRead(ctx context.Context, id int64) error {
	return c.post(ctx, fmt.Sprintf("/interactions/notifications/%d/read/", id), "read")
}

// MarkAllRead marks every unread notification read.
func (c *Client) MarkAllRead(ctx context.Context) error {
	return c.post(ctx, "/interactions/notifications/read-all/", "read-all")
}

// DeleteAll deletes every notification. Callers must confirm with the user
// before invoking this.
func (c *Client) DeleteAll(ctx context.Context) error {
	return c.post(ctx, "/interactions/notifications/delete-all/", "delete-all")
}

func (c *Client) getJSON(ctx context.Context, path, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.NotificationFetchesTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.NotificationFetchesTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("fetch %s: status %d", endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.NotificationFetchesTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	metrics.NotificationFetchesTotal.WithLabelValues(endpoint, "ok").Inc()
	return nil
}

func (c *Client) post(ctx context.Context, path, action string) error {
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.NotificationMutationsTotal.WithLabelValues(action, "error").Inc()
		return fmt.Errorf("%s: %w", action, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.NotificationMutationsTotal.WithLabelValues(action, "error").Inc()
		return fmt.Errorf("%s: status %d", action, resp.StatusCode)
	}
	metrics.NotificationMutationsTotal.WithLabelValues(action, "ok").Inc()
	return nil
}
