package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/codefionn/docsmcp/internal/drivefs"
	"github.com/codefionn/docsmcp/internal/gdocs"
	"github.com/codefionn/docsmcp/internal/logger"
	"github.com/codefionn/docsmcp/internal/mcpserver"
	"github.com/codefionn/docsmcp/internal/tools"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the document tools over MCP on stdin/stdout",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-drive", Usage: "only register document tools (no Drive file or comment tools)"},
		},
		Action: runServe,
	}
}

// buildRegistry wires the Google clients into the tool registry. Clients are
// created on first use, so a missing token surfaces as a tool error instead of
// keeping the server from starting.
func buildRegistry(env *appEnv, withDrive bool, interactive bool) (*tools.Registry, error) {
	a, err := env.authenticator(interactive)
	if err != nil {
		return nil, err
	}

	editor := gdocs.NewEditor(gdocs.NewLazy(gdocs.OpenDocuments(a.HTTPClient)), env.cfg.BatchSoftLimit)
	deps := tools.Deps{
		Editor:    editor,
		MaxLength: env.cfg.DefaultMaxLength,
		ReadOnly:  env.cfg.ReadOnly,
	}
	if withDrive {
		deps.Drive = drivefs.New(gdocs.NewLazy(drivefs.OpenDrive(a.HTTPClient)))
	}
	return tools.NewDocsRegistry(deps), nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)

	// stdin carries the protocol, so the passphrase can only come from the environment.
	reg, err := buildRegistry(env, !cmd.Bool("no-drive"), false)
	if err != nil {
		return err
	}

	srv, err := mcpserver.New(reg, version, env.cfg.RequestTimeout())
	if err != nil {
		return fmt.Errorf("failed to build MCP server: %w", err)
	}

	logger.Info("docsmcp %s serving on stdio (read_only=%v)", version, env.cfg.ReadOnly)
	if err := srv.Serve(ctx, os.Stdin, os.Stdout); err != nil {
		return fmt.Errorf("MCP server stopped: %w", err)
	}
	logger.Info("docsmcp stopped")
	return nil
}
