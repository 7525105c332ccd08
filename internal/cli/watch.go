package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nstake/nstake/internal/logger"
	"github.com/nstake/nstake/internal/node"
	"github.com/nstake/nstake/internal/notify"
	"github.com/nstake/nstake/internal/util"
)

// watchCommand runs the headless event loop until SIGINT or SIGTERM.
func watchCommand(ctx context.Context, forceNotify bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.NewEnvLogger("[nstake]")
	sess, err := OpenSession(ctx, SessionOptions{
		ConfigPath: Config(),
		Ephemeral:  ephemeral,
		Logger:     log,
		Scheduler:  notify.NewLogScheduler(log),
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	if forceNotify {
		if err := sess.Monitor.SetNotifications(true); err != nil {
			log.Warn("notifications: %v", err)
		}
	}

	poller, err := node.NewPoller(sess.Schedule())
	if err != nil {
		return err
	}

	// Notify with no signals would relay all of them
	sigc := make(chan os.Signal, 1)
	if len(lifecycleSignals) > 0 {
		signal.Notify(sigc, lifecycleSignals...)
		defer signal.Stop(sigc)
	}

	lifecycle := make(chan node.Lifecycle)
	go forwardLifecycle(ctx, sigc, lifecycle)

	log.Info("watching %s every %s", util.Stakers(sess.Monitor.Len()), poller.Interval())
	sess.Monitor.Refresh(nil)
	return sess.Monitor.Run(ctx, poller, lifecycle)
}

// forwardLifecycle translates OS signals into lifecycle events until ctx ends.
func forwardLifecycle(ctx context.Context, sigc <-chan os.Signal, out chan<- node.Lifecycle) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigc:
			l, ok := lifecycleFor(sig)
			if !ok {
				continue
			}
			select {
			case out <- l:
			case <-ctx.Done():
				return
			}
		}
	}
}
