//go:build windows

package cli

import (
	"os"

	"github.com/nstake/nstake/internal/node"
)

// Windows has no user signals, so watch only stops on interrupt.
var lifecycleSignals []os.Signal

func lifecycleFor(sig os.Signal) (node.Lifecycle, bool) {
	return 0, false
}
