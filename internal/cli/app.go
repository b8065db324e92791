// Package cli is the command-line front end over the resource clients,
// the list view-models and the health probe.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/UnknownOlympus/zynor/internal/client/api"
	"github.com/UnknownOlympus/zynor/internal/client/resource"
	"github.com/UnknownOlympus/zynor/internal/credentials"
	"github.com/UnknownOlympus/zynor/internal/forms"
	"github.com/UnknownOlympus/zynor/internal/health"
	"github.com/UnknownOlympus/zynor/internal/i18n"
	"github.com/UnknownOlympus/zynor/internal/metrics"
)

// Exit codes returned by Run.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

var errNotFound = errors.New("record not found")

// usageError is a malformed command line. Its message is shown as is.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// exitCode ends a command with code and no further output.
type exitCode int

func (e exitCode) Error() string {
	return fmt.Sprintf("exit status %d", int(e))
}

// TokenStore is where `token set` writes and `token clear` removes from.
type TokenStore interface {
	Path() string
	Save(token string) error
	Clear() error
}

// Deps are the collaborators of the commands. Nil writers default to the
// process streams.
type Deps struct {
	Log     *slog.Logger
	Lang    i18n.Lang
	Clients *resource.Clients
	Probe   *health.Probe
	Tokens  credentials.Provider
	Store   TokenStore
	Metrics *metrics.Metrics

	// Watchers are subscribed to the probe by `health -watch`.
	Watchers []health.Observer
	// Monitor, when set, runs alongside `health -watch` until ctx is done.
	Monitor func(ctx context.Context)

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Now    func() time.Time
}

// App dispatches command lines.
type App struct {
	Deps

	in *bufio.Reader
}

type command func(ctx context.Context, args []string) error

// New creates an App.
func New(d Deps) *App {
	if d.Stdin == nil {
		d.Stdin = os.Stdin
	}
	if d.Stdout == nil {
		d.Stdout = os.Stdout
	}
	if d.Stderr == nil {
		d.Stderr = os.Stderr
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	return &App{Deps: d, in: bufio.NewReader(d.Stdin)}
}

// Run executes args (without the program name) and returns the exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.Stderr, a.Lang.T("cli.usage"))
		return ExitUsage
	}

	commands := map[string]command{
		"health":      a.health,
		"customers":   a.customers,
		"jobs":        a.jobs,
		"technicians": a.technicians,
		"token":       a.token,
	}

	name := args[0]
	if name == "help" || name == "-h" || name == "-help" || name == "--help" {
		fmt.Fprint(a.Stdout, a.Lang.T("cli.usage"))
		return ExitOK
	}

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintln(a.Stderr, a.Lang.Tf("cli.unknown_command", map[string]any{"name": name}))
		fmt.Fprint(a.Stderr, a.Lang.T("cli.usage"))
		return ExitUsage
	}

	return a.exit(ctx, cmd(ctx, args[1:]))
}

func (a *App) exit(ctx context.Context, err error) int {
	var code exitCode
	var usageErr *usageError
	var validationErr *forms.ValidationError
	var httpErr *api.HTTPError

	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &code):
		return int(code)
	case errors.As(err, &usageErr):
		fmt.Fprintln(a.Stderr, usageErr.msg)
		return ExitUsage
	case errors.Is(err, errNotFound), api.IsNotFound(err):
		fmt.Fprintln(a.Stderr, a.Lang.T("cli.not_found"))
		return ExitError
	case errors.As(err, &validationErr):
		fmt.Fprintln(a.Stderr, validationErr.Summary)
		for _, field := range sortedKeys(validationErr.Fields) {
			fmt.Fprintf(a.Stderr, "  %s: %s\n", field, validationErr.Fields[field])
		}
		return ExitError
	case api.IsUnauthorized(err):
		a.Log.DebugContext(ctx, "Command failed", "error", err)
		fmt.Fprintln(a.Stderr, a.Lang.Tf("cli.error", map[string]any{"error": errorText(err)}))
		fmt.Fprintln(a.Stderr, a.Lang.T("cli.token_rejected"))
		return ExitError
	case errors.As(err, &httpErr) && httpErr.Detail() != "":
		a.Log.DebugContext(ctx, "Command failed", "error", err)
		fmt.Fprintln(a.Stderr, a.Lang.Tf("cli.error", map[string]any{"error": httpErr.Detail()}))
		return ExitError
	default:
		a.Log.DebugContext(ctx, "Command failed", "error", err)
		fmt.Fprintln(a.Stderr, a.Lang.Tf("cli.error", map[string]any{"error": err}))
		return ExitError
	}
}

// errorText prefers the API's detail message over the full error chain.
func errorText(err error) string {
	var httpErr *api.HTTPError
	if errors.As(err, &httpErr) && httpErr.Detail() != "" {
		return httpErr.Detail()
	}
	return err.Error()
}

func (a *App) say(key string, data map[string]any) {
	if data == nil {
		fmt.Fprintln(a.Stdout, a.Lang.T(key))
		return
	}
	fmt.Fprintln(a.Stdout, a.Lang.Tf(key, data))
}
