package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"

	"github.com/codefionn/docsmcp/internal/auth"
	"github.com/codefionn/docsmcp/internal/config"
	"github.com/codefionn/docsmcp/internal/logger"
	"github.com/codefionn/docsmcp/internal/securemem"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// appEnv is what every command needs after the configuration is loaded.
type appEnv struct {
	cfg        *config.Config
	passphrase *securemem.Secret
}

type envKey struct{}

func envFromContext(ctx context.Context) *appEnv {
	if env, ok := ctx.Value(envKey{}).(*appEnv); ok {
		return env
	}
	return &appEnv{}
}

// loadEnv reads the configuration and starts logging before any command runs.
func loadEnv(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if path == "" {
		path = config.GetConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return ctx, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyEnv(os.Getenv)
	if lvl := cmd.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	if cmd.Bool("read-only") {
		cfg.ReadOnly = true
	}
	if err := cfg.Validate(); err != nil {
		return ctx, fmt.Errorf("invalid config %s: %w", path, err)
	}

	if err := logger.Init(logger.ParseLevel(cfg.LogLevel), cfg.LogPath); err != nil {
		return ctx, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Debug("docsmcp %s (%s) config=%s log_level=%s read_only=%v", version, runtime.Version(), path, cfg.LogLevel, cfg.ReadOnly)

	return context.WithValue(ctx, envKey{}, &appEnv{cfg: cfg}), nil
}

func closeEnv(ctx context.Context, _ *cli.Command) (err error) {
	env := envFromContext(ctx)
	if env.passphrase != nil {
		env.passphrase.Destroy()
	}
	if closeErr := logger.Global().Close(); closeErr != nil {
		err = multierr.Append(err, fmt.Errorf("failed to close logger: %w", closeErr))
	}
	return err
}

// authenticator builds the credential source for the loaded configuration.
// Encrypted token stores need a passphrase; interactive commands may prompt.
func (env *appEnv) authenticator(interactive bool) (*auth.Authenticator, error) {
	cfg := env.cfg
	if cfg.EncryptToken && cfg.ServiceAccountPath == "" && env.passphrase == nil {
		pass, err := tokenPassphrase(interactive)
		if err != nil {
			return nil, err
		}
		env.passphrase = pass
	}
	return auth.New(auth.Options{
		CredentialsPath:    cfg.CredentialsPath,
		TokenPath:          cfg.TokenPath,
		ServiceAccountPath: cfg.ServiceAccountPath,
		Subject:            cfg.ImpersonateSubject,
		ListenAddr:         cfg.OAuthListenAddr,
		Passphrase:         env.passphrase,
	}), nil
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:            "docsmcp",
		Usage:           "Google Docs tools for MCP clients",
		Version:         version + " (" + runtime.Version() + ")",
		HideHelpCommand: true,
		Before:          loadEnv,
		After:           closeEnv,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (JSON)", Sources: cli.EnvVars(config.EnvConfigPath)},
			&cli.StringFlag{Name: "log-level", Usage: "override log level (debug, info, warn, error, none)"},
			&cli.BoolFlag{Name: "read-only", Usage: "refuse every tool that changes documents or files"},
		},
		Commands: []*cli.Command{
			serveCommand(),
			authCommand(),
			toolsCommand(),
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	securemem.Init()
	err := newApp().Run(ctx, os.Args)
	securemem.Cleanup()
	stop()

	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
