package cli

import (
	"context"
	"flag"
	"strconv"
)

// entityCommands are the subcommands every entity supports.
type entityCommands struct {
	list, get, create, update, remove command
}

func (a *App) dispatch(ctx context.Context, entity string, args []string, cmds entityCommands) error {
	if len(args) == 0 {
		return usagef("usage: zynor %s list|get|create|update|delete", entity)
	}

	subs := map[string]command{
		"list":   cmds.list,
		"get":    cmds.get,
		"create": cmds.create,
		"update": cmds.update,
		"delete": cmds.remove,
	}
	sub, ok := subs[args[0]]
	if !ok {
		return usagef("%s", a.Lang.Tf("cli.unknown_command", map[string]any{"name": entity + " " + args[0]}))
	}
	return sub(ctx, args[1:])
}

// parseID reads a positive numeric id.
func (a *App) parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, usagef("%s", a.Lang.T("cli.missing_id"))
	}
	return id, nil
}

// confirmDelete reports whether the deletion may go ahead, asking unless
// -yes was given.
func (a *App) confirmDelete(yes bool, entity, id string) bool {
	if yes || a.confirm(a.Lang.Tf("cli.confirm_delete", map[string]any{"entity": entity, "id": id})) {
		return true
	}
	a.say("cli.cancelled", nil)
	return false
}

func addYesFlag(fs *flag.FlagSet) *bool {
	return fs.Bool("yes", false, "delete without asking")
}
