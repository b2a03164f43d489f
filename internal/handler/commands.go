package handler

import (
	"context"
	"fmt"

	"github.com/forgo/raidsign/internal/model"
)

// Command describes one chat command
type Command struct {
	Name    string // Keyword without prefix
	Args    string // Argument synopsis for help
	Summary string
	MinArgs int
	Missing string // Reply when arguments are missing
	Failure string // Reply when the store fails

	run func(ctx context.Context, req *model.Request) (*model.Response, error)
}

func (d *Dispatcher) builtinCommands() []*Command {
	return []*Command{
		{
			Name:    "newraid",
			Args:    "<difficulty> <date/time> <raid name>",
			Summary: "Create a raid",
			MinArgs: 3,
			Missing: "Please provide the difficulty, date and time, and a name for the raid.",
			Failure: "There was an error creating the raid.",
			run:     d.newRaid,
		},
		{
			Name:    "signup",
			Args:    "<name-realm> <role> <class> <raid name>",
			Summary: "Sign up for a raid as tank, healer or dps",
			MinArgs: 4,
			Missing: "Please provide your name-realm, role, class, and the name of the raid.",
			Failure: "There was an error signing up for the raid.",
			run:     d.signUp,
		},
		{
			Name:    "showraid",
			Args:    "<raid name>",
			Summary: "Show a raid's roster",
			MinArgs: 1,
			Missing: "Please provide the name of the raid you want to view.",
			Failure: "There was an error fetching raid signups.",
			run:     d.showRaid,
		},
		{
			Name:    "delraid",
			Args:    "<raid name>",
			Summary: "Delete a raid and its signups",
			MinArgs: 1,
			Missing: "Please provide the name of the raid you want to delete.",
			Failure: "There was an error deleting the raid.",
			run:     d.deleteRaid,
		},
		{
			Name:    "raidlist",
			Summary: "List all raids",
			Failure: "There was an error fetching the raid list.",
			run:     d.listRaids,
		},
		{
			Name:    "help",
			Summary: "Show this message",
			Failure: "There was an error showing help.",
			run:     d.help,
		},
	}
}

// newRaid handles: newraid <difficulty> <dateTime> <name...>
func (d *Dispatcher) newRaid(ctx context.Context, req *model.Request) (*model.Response, error) {
	raid, err := d.raids.CreateRaid(ctx, &model.CreateRaidRequest{
		Difficulty: req.Args[0],
		DateTime:   req.Args[1],
		Name:       req.Rest(2),
	})
	if err != nil {
		return nil, err
	}
	return model.TextResponse(fmt.Sprintf("Raid \"%s\" created successfully!", raid.Name)), nil
}

// signUp handles: signup <nameRealm> <role> <class> <raid...>
func (d *Dispatcher) signUp(ctx context.Context, req *model.Request) (*model.Response, error) {
	signup := &model.CreateSignupRequest{
		NameRealm: req.Args[0],
		Role:      req.Args[1],
		Class:     req.Args[2],
	}
	raid, err := d.raids.SignUp(ctx, req.Rest(3), signup)
	if err != nil {
		return nil, err
	}
	return model.TextResponse(fmt.Sprintf("You have signed up for \"%s\" as %s %s!", raid.Name, signup.Role, signup.Class)), nil
}

// showRaid handles: showraid <raid...>
func (d *Dispatcher) showRaid(ctx context.Context, req *model.Request) (*model.Response, error) {
	raid, summary, err := d.raids.ShowRaid(ctx, req.Rest(0))
	if err != nil {
		return nil, err
	}
	return model.EmbedResponse(RosterEmbed(raid, summary, d.now())), nil
}

// deleteRaid handles: delraid <raid...>
func (d *Dispatcher) deleteRaid(ctx context.Context, req *model.Request) (*model.Response, error) {
	raid, err := d.raids.DeleteRaid(ctx, req.Rest(0))
	if err != nil {
		return nil, err
	}
	return model.TextResponse(fmt.Sprintf("Raid \"%s\" has been deleted successfully.", raid.Name)), nil
}

// listRaids handles: raidlist. Extra arguments are ignored.
func (d *Dispatcher) listRaids(ctx context.Context, req *model.Request) (*model.Response, error) {
	raids, err := d.raids.ListRaids(ctx)
	if err != nil {
		return nil, err
	}
	if len(raids) == 0 {
		return model.TextResponse("No raids available at the moment."), nil
	}
	return model.EmbedResponse(RaidListEmbed(raids, d.prefix, d.now())), nil
}

func (d *Dispatcher) help(ctx context.Context, req *model.Request) (*model.Response, error) {
	return model.EmbedResponse(HelpEmbed(d.prefix, d.ordered)), nil
}
