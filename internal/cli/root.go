package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/nstake/nstake/internal/ui"
	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile   string
	ephemeral bool
	noColor   bool
)

// rootCmd runs the dashboard when invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "nstake",
	Short: "Watch your staking nodes from the terminal",
	Long: `nstake polls the report endpoint of each staking node you add and keeps
the latest balance, reward averages and next-stake estimate on screen.

Run without a subcommand to open the dashboard.

Examples:
  nstake
  nstake add --name cold-1 --url http://192.168.1.20:8080
  nstake list --json
  nstake watch`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || machineMode {
			ui.DisableColors()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/nstake/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&machineMode, "json", false, "machine-readable JSON output")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep stakers in memory only")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Config returns the --config flag value.
func Config() string {
	return cfgFile
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if machineMode {
			WriteJSONFromError(os.Stdout, err) //nolint:errcheck // Exiting anyway
			os.Exit(1)
		}

		if name, ok := usageError(err); ok {
			if name != "" {
				fmt.Fprintf(os.Stderr, "%s Unknown command '%s'\n", ui.SymbolFail, name)
			} else {
				fmt.Fprintf(os.Stderr, "%s %v\n", ui.SymbolFail, err)
			}
			fmt.Fprintln(os.Stderr, "  Run 'nstake --help' to see available commands.")
			os.Exit(1)
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// usageError reports whether cobra rejected the command line itself.
// For an unknown subcommand it also returns the name that was typed.
func usageError(err error) (string, bool) {
	msg := err.Error()
	if strings.Contains(msg, "unknown flag") || strings.Contains(msg, "unknown shorthand flag") {
		return "", true
	}
	rest, found := strings.CutPrefix(msg, `unknown command "`)
	if !found {
		return "", strings.HasPrefix(msg, "unknown command")
	}
	name, _, closed := strings.Cut(rest, `"`)
	if !closed {
		return "", true
	}
	return name, true
}
