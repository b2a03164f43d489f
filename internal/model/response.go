package model

import "time"

// Embed colours used by the bot
const (
	ColorRed   = 0xff0000
	ColorGreen = 0x00ff00
	ColorBlue  = 0x3498db
)

// Response is what a command produces: plain text, rich embeds, or nothing
type Response struct {
	Text   string  `json:"text,omitempty"`
	Embeds []Embed `json:"embeds,omitempty"`
}

// Embed is a gateway-neutral rich message
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Footer      string       `json:"footer,omitempty"`
	Timestamp   time.Time    `json:"timestamp,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
}

// EmbedField is one name/value cell of an embed
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// TextResponse builds a plain reply
func TextResponse(text string) *Response {
	return &Response{Text: text}
}

// EmbedResponse builds a rich reply
func EmbedResponse(embeds ...Embed) *Response {
	return &Response{Embeds: embeds}
}

// IsEmpty reports whether nothing should be sent
func (r *Response) IsEmpty() bool {
	return r == nil || (r.Text == "" && len(r.Embeds) == 0)
}
