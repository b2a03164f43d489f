package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forgo/raidsign/internal/model"
)

var execAuthor string

var execCmd = &cobra.Command{
	Use:   "exec <command line>",
	Short: "Run one chat command and print the reply",
	Long: `Run one chat command through the bot's dispatcher and print the reply.

The arguments are joined with spaces and handled exactly like a chat message,
so the command prefix is required:

  raidctl exec '!newraid Heroic Fri Molten Core'
  raidctl exec '!showraid Molten Core'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

func init() {
	execCmd.Flags().StringVar(&execAuthor, "author", "raidctl", "Author id used for rate limiting")
}

func runExec(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	resp := a.Dispatcher.Handle(ctx, &model.Request{
		Content:    strings.Join(args, " "),
		AuthorID:   execAuthor,
		AuthorName: execAuthor,
	})
	if resp.IsEmpty() {
		return errors.New("not a command; nothing to reply")
	}
	printResponse(cmd.OutOrStdout(), resp)
	return nil
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check the raid store connection",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.DB == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "memory store: ok")
			return nil
		}
		if err := a.DB.Ping(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "surrealdb: ok")
		return nil
	},
}
