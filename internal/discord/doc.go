// Package discord adapts the raid command dispatcher to a Discord gateway
// session. It turns MessageCreate events into model requests and renders
// model responses as replies and embeds within Discord's layout limits.
package discord
