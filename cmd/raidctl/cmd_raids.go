package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/forgo/raidsign/internal/service"
)

var raidsCmd = &cobra.Command{
	Use:   "raids",
	Short: "List raids with their ids and signup counts",
	Long: `List every raid with its id and signup count.

Ids can be used in chat to address a raid whose name is shared:

  !showraid #raids:abc123`,
	RunE: runRaids,
}

func runRaids(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	overview, err := a.Raids.Overview(ctx)
	if err != nil {
		return fmt.Errorf("failed to list raids: %w", err)
	}
	return printOverview(cmd.OutOrStdout(), overview)
}

func printOverview(w io.Writer, overview []service.RaidOverview) error {
	if len(overview) == 0 {
		_, err := fmt.Fprintln(w, "No raids.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDIFFICULTY\tDATE/TIME\tSIGNUPS")
	for _, o := range overview {
		fmt.Fprintf(tw, "%s%s\t%s\t%s\t%s\t%d\n",
			service.RaidIDPrefix, o.Raid.ID, o.Raid.Name, o.Raid.Difficulty, o.Raid.DateTime, o.Signups)
	}
	return tw.Flush()
}
