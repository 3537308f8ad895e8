package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/codefionn/docsmcp/internal/auth"
	"github.com/codefionn/docsmcp/internal/config"
	"github.com/codefionn/docsmcp/internal/lockfile"
	"github.com/codefionn/docsmcp/internal/securemem"
)

// loginLockMaxAge bounds how long an abandoned login blocks the next one.
const loginLockMaxAge = 15 * time.Minute

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Google credentials",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authorize docsmcp in the browser and cache the token",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "no-browser", Usage: "print the authorization URL instead of opening it"},
				},
				Action: runLogin,
			},
			{
				Name:   "status",
				Usage:  "Show which credentials are configured",
				Action: runStatus,
			},
			{
				Name:   "logout",
				Usage:  "Remove the cached OAuth token",
				Action: runLogout,
			},
		},
	}
}

func runLogin(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)
	a, err := env.authenticator(true)
	if err != nil {
		return err
	}
	if a.Mode() == auth.ModeServiceAccount {
		return fmt.Errorf("service account %s is configured; nothing to log in to", env.cfg.ServiceAccountPath)
	}

	// One login at a time per token file.
	lock := lockfile.NewWithMaxAge(a.Store().Path()+".lock", loginLockMaxAge)
	if err := lock.TryAcquire(); err != nil {
		if errors.Is(err, lockfile.ErrLocked) {
			return fmt.Errorf("another 'docsmcp auth login' is running: %w", err)
		}
		return err
	}
	defer lock.Release()

	open := func(url string) error {
		fmt.Fprintf(os.Stderr, "Open this URL to authorize docsmcp:\n\n  %s\n\n", url)
		if cmd.Bool("no-browser") {
			return nil
		}
		if err := openBrowser(url); err != nil {
			fmt.Fprintf(os.Stderr, "Could not open a browser (%v); open the URL manually.\n", err)
		}
		return nil
	}

	tok, err := a.Login(ctx, open)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Token saved to %s (expires %s).\n", a.Store().Path(), tok.Expiry.Format(time.RFC3339))
	return nil
}

func runStatus(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)
	a, err := env.authenticator(true)
	if err != nil {
		return err
	}

	st := a.Status()
	w := cmd.Root().Writer
	fmt.Fprintf(w, "mode:      %s\n", st.Mode)
	fmt.Fprintf(w, "source:    %s\n", st.Source)
	if st.Mode == auth.ModeOAuth {
		fmt.Fprintf(w, "encrypted: %v\n", st.Encrypted)
	}
	switch {
	case st.LoadFailed != nil:
		fmt.Fprintf(w, "status:    unusable (%v)\n", st.LoadFailed)
	case !st.HasToken:
		fmt.Fprintln(w, "status:    not logged in; run 'docsmcp auth login'")
	case st.Mode == auth.ModeServiceAccount:
		fmt.Fprintln(w, "status:    key file present")
	default:
		fmt.Fprintf(w, "status:    logged in (expires %s, refresh token: %v)\n", st.Expiry.Format(time.RFC3339), st.Refresh)
	}
	fmt.Fprintf(w, "read-only: %v\n", env.cfg.ReadOnly)
	return nil
}

func runLogout(ctx context.Context, cmd *cli.Command) error {
	a, err := envFromContext(ctx).authenticator(false)
	if err != nil {
		return err
	}
	if err := a.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.Root().Writer, "Logged out.")
	return nil
}

// tokenPassphrase reads the token encryption passphrase from the environment,
// falling back to a terminal prompt when interactive.
func tokenPassphrase(interactive bool) (*securemem.Secret, error) {
	if v := os.Getenv(config.EnvTokenPassword); v != "" {
		return securemem.FromString(v), nil
	}
	if !interactive {
		return nil, fmt.Errorf("encrypt_token is set; export %s to unlock the cached token", config.EnvTokenPassword)
	}
	pw, err := promptForPassword("Token passphrase: ")
	if err != nil {
		return nil, err
	}
	if len(pw) == 0 {
		return nil, errors.New("empty passphrase")
	}
	return securemem.FromBytes(pw), nil
}

// promptForPassword reads a line from the terminal without echo. Piped input
// is read as a plain line.
func promptForPassword(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	fmt.Fprint(os.Stderr, prompt)

	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, err
		}
		return []byte(strings.TrimSpace(string(b))), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return []byte(strings.TrimSpace(line)), nil
}

func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux", "freebsd", "openbsd":
		cmd = exec.Command("xdg-open", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
