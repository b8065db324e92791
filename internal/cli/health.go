package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/UnknownOlympus/zynor/internal/health"
)

func (a *App) health(ctx context.Context, args []string) error {
	fs := a.newFlagSet("health")
	watch := fs.Bool("watch", false, "keep polling until interrupted")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	if *watch {
		a.watchHealth(ctx)
		return nil
	}

	status := a.Probe.CheckNow(ctx)
	a.say("cli.health", map[string]any{"status": a.statusLabel(status)})
	if status != health.StatusUp {
		return exitCode(ExitError)
	}
	return nil
}

// watchHealth prints every status change until ctx is done.
func (a *App) watchHealth(ctx context.Context) {
	a.Probe.Subscribe(func(_, next health.Status) {
		fmt.Fprintf(a.Stdout, "%s %s\n",
			a.Now().Format(time.TimeOnly),
			a.Lang.Tf("cli.health", map[string]any{"status": a.statusLabel(next)}),
		)
	})
	for _, observer := range a.Watchers {
		a.Probe.Subscribe(observer)
	}

	var wg sync.WaitGroup
	if a.Monitor != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.Monitor(ctx)
		}()
	}

	a.Probe.Run(ctx)
	wg.Wait()
}

func (a *App) statusLabel(s health.Status) string {
	return a.Lang.T("health." + string(s))
}
