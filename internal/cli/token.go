package cli

import (
	"context"
	"time"

	"github.com/UnknownOlympus/zynor/internal/credentials"
)

func (a *App) token(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usagef("usage: zynor token status|set|clear")
	}

	switch args[0] {
	case "status":
		return a.tokenStatus(ctx)
	case "set":
		return a.tokenSet(ctx)
	case "clear":
		return a.tokenClear(ctx)
	default:
		return usagef("%s", a.Lang.Tf("cli.unknown_command", map[string]any{"name": "token " + args[0]}))
	}
}

// tokenStatus describes the token requests would be sent with.
func (a *App) tokenStatus(ctx context.Context) error {
	token, ok := a.Tokens.Token(ctx)
	if !ok {
		a.say("cli.token_missing", nil)
		return exitCode(ExitError)
	}

	info, err := credentials.Inspect(token)
	if err != nil {
		a.Log.DebugContext(ctx, "Stored token is opaque", "error", err)
		a.say("cli.token_opaque", nil)
		return nil
	}

	if info.Subject != "" {
		a.say("cli.token_subject", map[string]any{"subject": info.Subject})
	}

	expires := info.ExpiresAt.UTC().Format(time.RFC3339)
	switch {
	case info.ExpiresAt.IsZero():
		a.say("cli.token_no_expiry", nil)
	case info.Expired(a.Now()):
		a.say("cli.token_expired", map[string]any{"expires": expires})
		return exitCode(ExitError)
	default:
		a.say("cli.token_expires", map[string]any{"expires": expires})
	}
	return nil
}

func (a *App) tokenSet(ctx context.Context) error {
	token, err := a.readSecret(a.Lang.T("cli.token_prompt"))
	if err != nil {
		return err
	}

	if err = a.Store.Save(token); err != nil {
		return err
	}

	a.Log.InfoContext(ctx, "Token stored", "path", a.Store.Path())
	a.say("cli.token_saved", map[string]any{"path": a.Store.Path()})
	return nil
}

// tokenClear removes the stored token. A token from the environment is not
// affected.
func (a *App) tokenClear(ctx context.Context) error {
	if err := a.Store.Clear(); err != nil {
		return err
	}

	a.Log.InfoContext(ctx, "Token cleared", "path", a.Store.Path())
	a.say("cli.token_cleared", map[string]any{"path": a.Store.Path()})
	return nil
}
