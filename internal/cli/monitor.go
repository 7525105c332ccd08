package cli

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nstake/nstake/internal/config"
	"github.com/nstake/nstake/internal/errors"
	"github.com/nstake/nstake/internal/logger"
	"github.com/nstake/nstake/internal/monitor"
	"github.com/nstake/nstake/internal/node"
	"github.com/nstake/nstake/internal/notify"
)

// debugLogFile receives log output while the dashboard owns the terminal.
const debugLogFile = "nstake-debug.log"

// dashboardCommand runs the TUI dashboard until the user quits.
func dashboardCommand(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Keep log lines off the alt screen
	if logger.DebugEnabled() {
		f, err := tea.LogToFile(filepath.Join(os.TempDir(), debugLogFile), "nstake")
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Can't open the debug log",
				"Unset "+logger.DebugEnv+" or check that the temp directory is writable")
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
		defer log.SetOutput(os.Stderr)
	}

	tray := notify.NewTray()
	sess, err := openSession(ctx, tray)
	if err != nil {
		return err
	}
	defer sess.Close()

	settings := sess.SettingsPath(Config())
	model := monitor.NewModel(monitor.Options{
		Monitor:    sess.Monitor,
		Schedule:   sess.Schedule(),
		Tray:       tray,
		Logger:     sess.Log,
		OnSchedule: persistMultiplier(settings),
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// persistMultiplier writes poll multiplier changes back to the config file.
func persistMultiplier(path string) func(node.Schedule) error {
	return func(s node.Schedule) error {
		if path == "" {
			return errors.New(errors.ErrConfig,
				"No config file to save the poll multiplier to",
				"Pass --config or run 'nstake config init'")
		}
		if err := config.SetValue(path, "poll.multiplier", strconv.Itoa(s.Multiplier)); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Couldn't save the poll multiplier",
				"Check that "+path+" is writable")
		}
		return nil
	}
}
