package cli

import (
	"time"

	"github.com/nstake/nstake/internal/errors"
	"github.com/spf13/cobra"
)

// Command-specific flags
var (
	addNameFlag      string
	addURLFlag       string
	addWaitFlag      time.Duration
	importWaitFlag   time.Duration
	removeYesFlag    bool
	refreshTimeout   time.Duration
	watchNotifyFlag  bool
	exportFormatFlag string
	exportOutputFlag string
	configInitForce  bool
)

// monitorCmd opens the dashboard, same as running nstake with no arguments
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Open the staking dashboard",
	Long: `Open the interactive dashboard. Every staker is polled on the configured
interval and shown as a card with its balance, reward averages and the
expected time to the next stake.

Keys: r refresh, a add, d delete, p pause, +/- poll interval,
n notifications, enter details, ? help, q quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd.Context())
	},
}

// watchCmd polls without a UI
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll stakers headlessly and log what changes",
	Long: `Poll every staker on the configured interval without a UI, persisting each
report as it arrives. Intended for a service manager or a tmux pane.

Signals:
  SIGUSR1  pause polling
  SIGUSR2  resume polling
  SIGHUP   refresh now
  SIGINT, SIGTERM  stop`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchCommand(cmd.Context(), watchNotifyFlag)
	},
}

// addCmd adds a staker
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a staker",
	Long: `Add a staking node by name and base URL. nstake reads <url>/report.json.

Without --name and --url you are prompted for both. The new staker is
fetched once before the command returns, waiting at most --wait.

Examples:
  nstake add
  nstake add --name cold-1 --url http://192.168.1.20:8080`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return addCommand(cmd.Context(), cmd.OutOrStdout(), addNameFlag, addURLFlag, addWaitFlag)
	},
}

// removeCmd removes a staker by list index
var removeCmd = &cobra.Command{
	Use:     "remove <index>",
	Aliases: []string{"rm"},
	Short:   "Remove a staker",
	Long: `Remove the staker at the given index, as shown by 'nstake list'.
The remaining stakers keep their stored reports; run 'nstake refresh' to
fetch them.

Examples:
  nstake remove 0
  nstake remove 2 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return removeCommand(cmd.Context(), cmd.OutOrStdout(), args[0], removeYesFlag)
	},
}

// listCmd prints the stakers with their last known state
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stakers and their last report",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listCommand(cmd.Context(), cmd.OutOrStdout())
	},
}

// refreshCmd fetches every staker once
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch every staker once and print the result",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return refreshCommand(cmd.Context(), cmd.OutOrStdout(), refreshTimeout)
	},
}

// exportCmd writes the staker list to a file
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stakers as YAML or JSON",
	Long: `Write the staker list (id, name and url) to stdout or a file.

Examples:
  nstake export > stakers.yaml
  nstake export --format json -o stakers.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportCommand(cmd.Context(), cmd.OutOrStdout(), exportFormatFlag, exportOutputFlag)
	},
}

// importCmd appends stakers from a file
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import stakers from an export file",
	Long: `Append the stakers in a YAML or JSON export file to the list.
Ids already in use are replaced with fresh ones. Imported stakers are
fetched once before the command returns, waiting at most --wait.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return importCommand(cmd.Context(), cmd.OutOrStdout(), args[0], importWaitFlag)
	},
}

// configCmd groups config file helpers
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the nstake config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configInitCommand(cmd.OutOrStdout(), Config(), configInitForce)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Long: `Set a dotted config key, keeping the rest of the file as it is.

Examples:
  nstake config set poll.multiplier 5
  nstake config set notifications.enabled true`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return configSetCommand(cmd.OutOrStdout(), Config(), args[0], args[1])
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowCommand(cmd.OutOrStdout(), Config())
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for nstake.

Examples:
  # Bash
  nstake completion bash > /etc/bash_completion.d/nstake

  # Zsh
  nstake completion zsh > "${fpath[1]}/_nstake"

  # Fish
  nstake completion fish > ~/.config/fish/completions/nstake.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(out)
		default:
			return errors.New(errors.ErrInput,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	// add command flags
	addCmd.Flags().StringVar(&addNameFlag, "name", "", "display name for the staker")
	addCmd.Flags().StringVar(&addURLFlag, "url", "", "base URL of the node's report server")
	addCmd.Flags().DurationVar(&addWaitFlag, "wait", defaultFirstFetchWait, "wait this long for the first report (0 skips)")

	// remove command flags
	removeCmd.Flags().BoolVarP(&removeYesFlag, "yes", "y", false, "skip the confirmation prompt")

	// refresh command flags
	refreshCmd.Flags().DurationVar(&refreshTimeout, "timeout", defaultRefreshTimeout, "give up on fetches after this long")

	// watch command flags
	watchCmd.Flags().BoolVar(&watchNotifyFlag, "notify", false, "log notification text even if notifications are off in config")

	// export command flags
	exportCmd.Flags().StringVar(&exportFormatFlag, "format", "", "yaml or json (default from -o extension, else yaml)")
	exportCmd.Flags().StringVarP(&exportOutputFlag, "output", "o", "", "write to file instead of stdout")

	// import command flags
	importCmd.Flags().DurationVar(&importWaitFlag, "wait", defaultFirstFetchWait, "wait this long for first reports (0 skips)")

	// config subcommands
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing config")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)

	// Register all commands
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(completionCmd)
}
