package model

import "strings"

// DefaultPrefix marks a chat message as a command
const DefaultPrefix = "!"

// Request is one inbound chat message addressed to the bot
type Request struct {
	Content    string `json:"content"`
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name"`
	GuildID    string `json:"guild_id,omitempty"`
	ChannelID  string `json:"channel_id"`
	MessageID  string `json:"message_id"`

	// Set by ParseCommand
	Keyword string   `json:"keyword,omitempty"`
	Args    []string `json:"args,omitempty"`
}

// ParseCommand splits Content on whitespace and fills Keyword and Args. It
// reports false when the first token does not start with prefix. Quotes have
// no special meaning.
func (r *Request) ParseCommand(prefix string) bool {
	tokens := strings.Fields(r.Content)
	if len(tokens) == 0 {
		return false
	}
	keyword, ok := strings.CutPrefix(tokens[0], prefix)
	if !ok || keyword == "" {
		return false
	}
	r.Keyword = keyword
	r.Args = tokens[1:]
	return true
}

// Rest joins Args from index i with single spaces
func (r *Request) Rest(i int) string {
	if i >= len(r.Args) {
		return ""
	}
	return strings.Join(r.Args[i:], " ")
}
