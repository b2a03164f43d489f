package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgo/raidsign/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the SurrealDB schema",
	Long: `Apply the embedded SurrealDB schema files in order.

Every statement is idempotent; the bot also applies them on start.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.DB == nil {
			return errors.New("migrate requires the surrealdb driver")
		}
		applied, err := migrations.Apply(ctx, a.DB)
		for _, name := range applied {
			fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
		}
		return err
	},
}
