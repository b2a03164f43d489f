package middleware

import (
	"context"
	"log/slog"

	"github.com/forgo/raidsign/internal/model"
)

// GuildIDKey is the context key for guild ID
const GuildIDKey contextKey = "guildID"

// GetGuildID extracts the guild ID from context
func GetGuildID(ctx context.Context) string {
	if id, ok := ctx.Value(GuildIDKey).(string); ok {
		return id
	}
	return ""
}

// GuildAccess returns a middleware that only lets commands from the allowed
// guilds through. An empty list allows every guild. Commands from elsewhere,
// direct messages included, get no reply so the bot does not reveal itself.
func GuildAccess(allowed []string) Middleware {
	set := make(map[string]struct{}, len(allowed))
	for _, id := range allowed {
		if id != "" {
			set[id] = struct{}{}
		}
	}

	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *model.Request) *model.Response {
			if len(set) > 0 {
				if _, ok := set[req.GuildID]; !ok {
					slog.DebugContext(ctx, "command from guild not allowed",
						slog.String("guild_id", req.GuildID),
						slog.String("keyword", req.Keyword),
					)
					return nil
				}
			}

			if req.GuildID != "" {
				ctx = context.WithValue(ctx, GuildIDKey, req.GuildID)
			}
			return next(ctx, req)
		}
	}
}
