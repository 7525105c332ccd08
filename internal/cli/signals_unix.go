//go:build !windows

package cli

import (
	"os"
	"syscall"

	"github.com/nstake/nstake/internal/node"
)

// lifecycleSignals are the signals watch maps to lifecycle events.
var lifecycleSignals = []os.Signal{syscall.SIGUSR1, syscall.SIGUSR2, syscall.SIGHUP}

func lifecycleFor(sig os.Signal) (node.Lifecycle, bool) {
	switch sig {
	case syscall.SIGUSR1:
		return node.Pause, true
	case syscall.SIGUSR2:
		return node.Resume, true
	case syscall.SIGHUP:
		return node.RefreshNow, true
	}
	return 0, false
}
