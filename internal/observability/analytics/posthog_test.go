package analytics

import (
	"io"
	"log/slog"
	"testing"

	"github.com/posthog/posthog-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePosthog records enqueued messages. Methods other than Enqueue and Close are never
// called by Client and panic through the nil embedded interface if they are.
type fakePosthog struct {
	posthog.Client
	messages []posthog.Message
	closed   bool
}

func (f *fakePosthog) Enqueue(m posthog.Message) error {
	f.messages = append(f.messages, m)
	return nil
}

func (f *fakePosthog) Close() error {
	f.closed = true
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewClientWithoutKeyIsInert(t *testing.T) {
	c := NewClient("", "", discardLogger())
	assert.False(t, c.Enabled())

	c.Capture("user-1", "tenant-a", "anything", nil)
	c.Close()

	var nilClient *Client
	assert.False(t, nilClient.Enabled())
}

func TestCaptureAttachesTenantGroup(t *testing.T) {
	fake := &fakePosthog{}
	c := newClientWith(fake, discardLogger())

	c.Capture("user-1", "tenant-a", "api_v1_journals_:entryID_reverse", map[string]any{"method": "POST"})
	c.Close()

	require.Len(t, fake.messages, 1)
	capture, ok := fake.messages[0].(posthog.Capture)
	require.True(t, ok)
	assert.Equal(t, "user-1", capture.DistinctId)
	assert.Equal(t, "api_v1_journals_:entryID_reverse", capture.Event)
	assert.Equal(t, "tenant-a", capture.Groups["tenant"])
	assert.Equal(t, "POST", capture.Properties["method"])
	assert.True(t, fake.closed)
}
