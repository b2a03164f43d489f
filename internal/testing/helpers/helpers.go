package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/forgo/raidsign/internal/model"
)

// ============================================================================
// Chat Helpers
// ============================================================================

// Handler is anything that answers chat messages
type Handler interface {
	Handle(ctx context.Context, req *model.Request) *model.Response
}

// Chat sends messages to a handler as one author
type Chat struct {
	t        *testing.T
	h        Handler
	AuthorID string
	Channel  string
}

// NewChat creates a chat session with a fixed author and channel
func NewChat(t *testing.T, h Handler) *Chat {
	return &Chat{t: t, h: h, AuthorID: "author-1", Channel: "channel-1"}
}

// Send delivers content and returns the reply, which may be nil
func (c *Chat) Send(content string) *model.Response {
	c.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return c.h.Handle(ctx, &model.Request{
		Content:   content,
		AuthorID:  c.AuthorID,
		ChannelID: c.Channel,
	})
}

// Text sends content and fails unless the reply is plain text
func (c *Chat) Text(content string) string {
	c.t.Helper()
	resp := c.Send(content)
	if resp == nil || resp.Text == "" {
		c.t.Fatalf("helpers: expected text reply to %q, got %+v", content, resp)
	}
	return resp.Text
}

// Embed sends content and fails unless the reply is exactly one embed
func (c *Chat) Embed(content string) model.Embed {
	c.t.Helper()
	resp := c.Send(content)
	if resp == nil || len(resp.Embeds) != 1 {
		c.t.Fatalf("helpers: expected one embed in reply to %q, got %+v", content, resp)
	}
	return resp.Embeds[0]
}

// ExpectText sends content and fails unless the reply text equals want
func (c *Chat) ExpectText(content, want string) {
	c.t.Helper()
	if got := c.Text(content); got != want {
		c.t.Errorf("reply to %q = %q, want %q", content, got, want)
	}
}

// ExpectSilence sends content and fails if anything is replied
func (c *Chat) ExpectSilence(content string) {
	c.t.Helper()
	if resp := c.Send(content); !resp.IsEmpty() {
		c.t.Errorf("expected no reply to %q, got %+v", content, resp)
	}
}

// ============================================================================
// Time Helpers
// ============================================================================

// FixedClock returns a clock that always reads at
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// FieldNames returns the field names of an embed in order
func FieldNames(e model.Embed) []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Name)
	}
	return names
}
