// Package middleware provides command middleware for the raid bot.
//
// A HandlerFunc answers one parsed chat command; a Middleware wraps it.
// The dispatcher only runs the chain for recognised commands.
//
// # Available Middleware
//
//   - RequestID: tags each command with a uuid for log correlation
//   - Logger: one structured log line per command
//   - Recovery: turns a panic into the generic failure reply
//   - GuildAccess: ignores commands from guilds outside an allowlist
//   - Idempotency: drops messages the gateway delivers twice
//   - RateLimit: token bucket per author
//   - Timeout: per-command deadline
//
// # Usage
//
//	chain := []middleware.Middleware{
//	    middleware.RequestID,
//	    middleware.Logger,
//	    middleware.Recovery,
//	    middleware.RateLimit(limiter),
//	}
//	d := handler.NewDispatcher(handler.DispatcherConfig{Raids: svc, Middleware: chain})
//
// # Context Values
//
//   - GetRequestID(ctx): unique command identifier
//   - GetGuildID(ctx): guild the command came from
package middleware
