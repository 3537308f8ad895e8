package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	cli "github.com/urfave/cli/v3"

	"github.com/codefionn/docsmcp/internal/drivefs"
	"github.com/codefionn/docsmcp/internal/tools"
)

func toolsCommand() *cli.Command {
	return &cli.Command{
		Name:  "tools",
		Usage: "List the tools the server advertises",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print full parameter schemas as JSON"},
		},
		Action: runTools,
	}
}

func runTools(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)
	// Listing never calls the APIs, so no credentials are wired in.
	reg := tools.NewDocsRegistry(tools.Deps{
		Drive:    drivefs.New(nil),
		ReadOnly: env.cfg.ReadOnly,
	})

	w := cmd.Root().Writer
	if cmd.Bool("json") {
		data, err := json.MarshalIndent(reg.ToJSONSchema(), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, spec := range reg.ListSpecs() {
		mode := "read"
		switch {
		case tools.IsDestructive(spec.Name()):
			mode = "destructive"
		case tools.IsMutating(spec.Name()):
			mode = "write"
		}
		if env.cfg.ReadOnly && tools.IsMutating(spec.Name()) {
			mode += " (disabled)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", spec.Name(), mode, firstSentence(spec.Description()))
	}
	return tw.Flush()
}

func firstSentence(s string) string {
	if i := strings.Index(s, ". "); i >= 0 {
		return s[:i+1]
	}
	return s
}
