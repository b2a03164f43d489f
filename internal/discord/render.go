package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/forgo/raidsign/internal/model"
)

// Discord message layout limits
const (
	MaxEmbedFields      = 25
	MaxEmbedsPerMessage = 10
)

// RenderEmbed converts a model embed into one or more Discord embeds, splitting
// the fields so that none carries more than MaxEmbedFields. The description goes
// on the first part; footer and timestamp go on the last.
func RenderEmbed(e model.Embed) []*discordgo.MessageEmbed {
	parts := (len(e.Fields) + MaxEmbedFields - 1) / MaxEmbedFields
	if parts == 0 {
		parts = 1
	}

	out := make([]*discordgo.MessageEmbed, 0, parts)
	for i := 0; i < parts; i++ {
		start := i * MaxEmbedFields
		end := min(start+MaxEmbedFields, len(e.Fields))

		embed := &discordgo.MessageEmbed{
			Title: e.Title,
			Color: e.Color,
		}
		if i == 0 {
			embed.Description = e.Description
		}
		if i == parts-1 {
			if e.Footer != "" {
				embed.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
			}
			embed.Timestamp = formatTimestamp(e.Timestamp)
		}
		for _, f := range e.Fields[start:end] {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:   f.Name,
				Value:  f.Value,
				Inline: f.Inline,
			})
		}
		out = append(out, embed)
	}
	return out
}

// RenderMessages renders every embed of a response and groups the result into
// messages of at most MaxEmbedsPerMessage embeds each.
func RenderMessages(embeds []model.Embed) [][]*discordgo.MessageEmbed {
	var rendered []*discordgo.MessageEmbed
	for _, e := range embeds {
		rendered = append(rendered, RenderEmbed(e)...)
	}

	var messages [][]*discordgo.MessageEmbed
	for len(rendered) > 0 {
		n := min(MaxEmbedsPerMessage, len(rendered))
		messages = append(messages, rendered[:n])
		rendered = rendered[n:]
	}
	return messages
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
