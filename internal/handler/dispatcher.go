package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/forgo/raidsign/internal/middleware"
	"github.com/forgo/raidsign/internal/model"
)

// RaidService is the business logic the dispatcher drives
type RaidService interface {
	CreateRaid(ctx context.Context, req *model.CreateRaidRequest) (*model.Raid, error)
	SignUp(ctx context.Context, ref string, req *model.CreateSignupRequest) (*model.Raid, error)
	ShowRaid(ctx context.Context, ref string) (*model.Raid, *model.RosterSummary, error)
	DeleteRaid(ctx context.Context, ref string) (*model.Raid, error)
	ListRaids(ctx context.Context) ([]*model.Raid, error)
}

// DispatcherConfig holds dispatcher dependencies
type DispatcherConfig struct {
	Raids      RaidService
	Prefix     string                  // Defaults to model.DefaultPrefix
	Middleware []middleware.Middleware // Applied to recognised commands only
	Clock      func() time.Time        // Embed timestamps
}

// Dispatcher routes chat messages to command handlers
type Dispatcher struct {
	raids    RaidService
	prefix   string
	now      func() time.Time
	commands map[string]*Command
	ordered  []*Command
	handle   middleware.HandlerFunc
}

// NewDispatcher creates a dispatcher with the built-in command set
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	d := &Dispatcher{
		raids:  cfg.Raids,
		prefix: cfg.Prefix,
		now:    cfg.Clock,
	}
	if d.prefix == "" {
		d.prefix = model.DefaultPrefix
	}
	if d.now == nil {
		d.now = time.Now
	}

	d.ordered = d.builtinCommands()
	d.commands = make(map[string]*Command, len(d.ordered))
	for _, c := range d.ordered {
		d.commands[c.Name] = c
	}

	d.handle = middleware.Chain(d.dispatch, cfg.Middleware...)
	return d
}

// Prefix returns the command prefix in use
func (d *Dispatcher) Prefix() string {
	return d.prefix
}

// Commands returns the command table in help order
func (d *Dispatcher) Commands() []*Command {
	return d.ordered
}

// Handle processes one chat message. Messages that are not a known command
// return nil and are never seen by the middleware.
func (d *Dispatcher) Handle(ctx context.Context, req *model.Request) *model.Response {
	if !req.ParseCommand(d.prefix) {
		return nil
	}
	if _, ok := d.commands[req.Keyword]; !ok {
		return nil
	}
	return d.handle(ctx, req)
}

func (d *Dispatcher) dispatch(ctx context.Context, req *model.Request) *model.Response {
	cmd, ok := d.commands[req.Keyword]
	if !ok {
		return nil
	}

	if len(req.Args) < cmd.MinArgs {
		return model.TextResponse(cmd.Missing)
	}

	resp, err := cmd.run(ctx, req)
	if err != nil {
		return d.fail(ctx, cmd, err)
	}
	return resp
}

// fail turns an error into the user-visible reply for cmd. Internal causes
// are logged and never shown.
func (d *Dispatcher) fail(ctx context.Context, cmd *Command, err error) *model.Response {
	pd := MapServiceError(err)

	switch {
	case pd.IsInternal():
		slog.ErrorContext(ctx, "command failed",
			slog.String("keyword", cmd.Name),
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(ctx)),
		)
		return model.TextResponse(cmd.Failure)
	case pd.Code == model.ErrCodeValidation:
		return model.TextResponse(cmd.Missing)
	default:
		return model.TextResponse(pd.Detail)
	}
}
