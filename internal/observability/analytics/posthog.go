// Package analytics forwards product usage events to PostHog. A client built without an
// API key is inert, so callers never need to nil-check it.
package analytics

import (
	"log/slog"

	"github.com/posthog/posthog-go"
)

// DefaultEndpoint is used when no endpoint is configured.
const DefaultEndpoint = "https://eu.i.posthog.com"

// Client wraps posthog.Client.
type Client struct {
	posthogClient posthog.Client
	logger        *slog.Logger
}

// NewClient returns an enabled client when apiKey is set and an inert one otherwise.
func NewClient(apiKey, endpoint string, logger *slog.Logger) *Client {
	if apiKey == "" {
		logger.Info("PostHog API key not set, usage analytics disabled")
		return &Client{}
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	pc, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	if err != nil {
		logger.Error("Failed to create PostHog client, usage analytics disabled", slog.String("error", err.Error()))
		return &Client{}
	}
	logger.Info("Usage analytics enabled", slog.String("endpoint", endpoint))
	return &Client{posthogClient: pc, logger: logger}
}

// newClientWith is used by tests to inject a fake posthog.Client.
func newClientWith(pc posthog.Client, logger *slog.Logger) *Client {
	return &Client{posthogClient: pc, logger: logger}
}

// Enabled reports whether events are forwarded. It is false for a client built
// without an API key.
func (c *Client) Enabled() bool {
	return c != nil && c.posthogClient != nil
}

// Capture enqueues one event. distinctID is the acting user; the tenant is attached as
// a group so events aggregate per tenant.
func (c *Client) Capture(distinctID, tenantID, event string, properties map[string]any) {
	if !c.Enabled() {
		return
	}
	capture := posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: posthog.Properties(properties),
	}
	if tenantID != "" {
		capture.Groups = posthog.NewGroups().Set("tenant", tenantID)
	}
	if err := c.posthogClient.Enqueue(capture); err != nil {
		c.logger.Warn("Failed to enqueue analytics event", slog.String("event", event), slog.String("error", err.Error()))
	}
}

// Close flushes queued events.
func (c *Client) Close() {
	if !c.Enabled() {
		return
	}
	if err := c.posthogClient.Close(); err != nil {
		c.logger.Warn("Failed to flush analytics events", slog.String("error", err.Error()))
	}
}
