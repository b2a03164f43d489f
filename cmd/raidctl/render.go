package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/forgo/raidsign/internal/model"
)

// printResponse writes a reply as plain text. Embed fields are indented under
// their embed and Discord bold markers are stripped.
func printResponse(w io.Writer, resp *model.Response) {
	if resp.Text != "" {
		fmt.Fprintln(w, resp.Text)
	}
	for i, e := range resp.Embeds {
		if i > 0 || resp.Text != "" {
			fmt.Fprintln(w)
		}
		if e.Title != "" {
			fmt.Fprintln(w, e.Title)
		}
		if e.Description != "" {
			fmt.Fprintln(w, plain(e.Description))
		}
		for _, f := range e.Fields {
			fmt.Fprintf(w, "  %s\n", f.Name)
			for _, line := range strings.Split(plain(f.Value), "\n") {
				fmt.Fprintf(w, "    %s\n", line)
			}
		}
		if e.Footer != "" {
			fmt.Fprintf(w, "-- %s\n", e.Footer)
		}
	}
}

func plain(s string) string {
	return strings.ReplaceAll(s, "**", "")
}
