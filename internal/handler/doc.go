// Package handler turns chat messages into raid commands and replies.
//
// The Dispatcher owns the command table. A message is a command when its
// first whitespace-separated token is the prefix followed by a known keyword;
// everything else is ignored without a reply and never reaches middleware.
//
// # Commands
//
//	newraid  <difficulty> <date/time> <raid name...>
//	signup   <name-realm> <role> <class> <raid name...>
//	showraid <raid name...>
//	delraid  <raid name...>
//	raidlist
//	help
//
// The trailing raid name absorbs every remaining token joined by single
// spaces. A raid may also be referenced as "#<id>".
//
// # Replies
//
// Missing arguments produce the command's usage reply. Service errors are
// classified by MapServiceError; store and internal failures are logged and
// answered with the command's generic failure text. Embeds are built by
// RosterEmbed, RaidListEmbed and HelpEmbed and rendered by the transport.
//
// # Example Usage
//
//	d := handler.NewDispatcher(handler.DispatcherConfig{
//	    Raids:      raidService,
//	    Middleware: []middleware.Middleware{middleware.Recovery, middleware.Logger},
//	})
//	resp := d.Handle(ctx, &model.Request{Content: "!raidlist"})
package handler
