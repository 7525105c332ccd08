package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/nstake/nstake/internal/errors"
	"github.com/nstake/nstake/internal/node"
	"github.com/nstake/nstake/internal/report"
	"github.com/nstake/nstake/internal/ui"
	"github.com/nstake/nstake/internal/util"
	"golang.org/x/term"
)

// defaultRefreshTimeout bounds a one-shot refresh.
const defaultRefreshTimeout = 30 * time.Second

// defaultFirstFetchWait bounds how long add and import wait for the first
// report of new stakers.
const defaultFirstFetchWait = 10 * time.Second

// maxColumnWidth caps list table columns.
const maxColumnWidth = 40

// isInteractive reports whether prompts can be shown. Tests replace it.
var isInteractive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// StakerView is one row of list and refresh output.
type StakerView struct {
	Index   int           `json:"index"`
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	URL     string        `json:"url"`
	Stats   *report.Stats `json:"stats,omitempty"`
	Updated *time.Time    `json:"updated,omitempty"`
}

func viewsOf(list []node.Staker) []StakerView {
	views := make([]StakerView, len(list))
	for i, s := range list {
		views[i] = StakerView{
			Index:   i,
			ID:      s.ID,
			Name:    s.Name,
			URL:     s.URL,
			Stats:   s.Stats,
			Updated: s.Updated,
		}
	}
	return views
}

// addCommand adds a staker from flags, or prompts when both are missing.
// It then waits up to wait for the first fetch so the staker is stored
// with a report when the node answers.
func addCommand(ctx context.Context, out io.Writer, name, url string, wait time.Duration) error {
	name = strings.TrimSpace(name)
	url = strings.TrimSpace(url)

	if name == "" && url == "" && !machineMode {
		if !isInteractive() {
			return errors.New(errors.ErrInput,
				"A name and URL are required",
				"Pass --name and --url, or run from a terminal to be prompted")
		}
		ok, err := promptStaker(&name, &url)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	sess, err := openSession(ctx, nil)
	if err != nil {
		return err
	}
	defer sess.Close()

	s, err := sess.Monitor.Add(ctx, name, url)
	if s.ID == "" {
		return err
	}
	if err != nil {
		return err
	}
	if err := awaitFirstFetch(ctx, sess.Monitor, wait); err != nil {
		return err
	}

	if machineMode {
		return WriteJSONSuccess(out, viewsOf(sess.Monitor.Stakers())[sess.Monitor.Len()-1])
	}
	fmt.Fprintf(out, "%s Added %s (#%d)\n",
		ui.SuccessStyle().Render(ui.SymbolSuccess), s.Name, sess.Monitor.Len()-1)
	return nil
}

// awaitFirstFetch applies the results of the refresh started by a mutation.
// Running out of time is not an error; the next refresh or watch picks the
// staker up.
func awaitFirstFetch(ctx context.Context, mon *node.Monitor, wait time.Duration) error {
	if wait <= 0 {
		return nil
	}
	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	if err := mon.WaitIdle(waitCtx); err != nil && err != context.DeadlineExceeded {
		return err
	}
	return nil
}

// promptStaker asks for a name and URL. It returns false if the user
// aborted the form.
func promptStaker(name, url *string) (bool, error) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Description("Display label for the node").
				Value(name).
				Validate(summarized(node.ValidateName)),
			huh.NewInput().
				Title("URL").
				Description("Base URL, the report is read from <url>/report.json").
				Placeholder("http://192.168.1.20:8080").
				Value(url).
				Validate(summarized(node.ValidateURL)),
		),
	)

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return false, nil
		}
		return false, errors.WrapWithCode(err, errors.ErrInput,
			"Failed to get user input",
			"Pass --name and --url instead")
	}
	*name = strings.TrimSpace(*name)
	*url = strings.TrimSpace(*url)
	return true, nil
}

// summarized adapts a validator so huh shows a one-line message.
func summarized(validate func(string) error) func(string) error {
	return func(s string) error {
		if err := validate(strings.TrimSpace(s)); err != nil {
			return fmt.Errorf("%s", errors.Summary(err))
		}
		return nil
	}
}

// removeCommand removes the staker at a list index after confirmation.
func removeCommand(ctx context.Context, out io.Writer, arg string, yes bool) error {
	index, err := ParseIndex(arg)
	if err != nil {
		return err
	}

	sess, err := openSession(ctx, nil)
	if err != nil {
		return err
	}
	defer sess.Close()

	list := sess.Monitor.Stakers()
	if index < len(list) && !yes && !machineMode {
		if !isInteractive() {
			return errors.New(errors.ErrInput,
				fmt.Sprintf("Refusing to remove %s without confirmation", list[index].Name),
				"Pass --yes to skip the prompt")
		}

		var confirm bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Remove %s?", list[index].Name)).
					Description(list[index].URL).
					Affirmative("Remove").
					Negative("Keep").
					Value(&confirm),
			),
		)
		if err := form.Run(); err != nil && err != huh.ErrUserAborted {
			return errors.WrapWithCode(err, errors.ErrInput,
				"Failed to get user input",
				"Pass --yes to skip the prompt")
		}
		if !confirm {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	removed, err := sess.Monitor.Remove(ctx, index)
	if removed.ID == "" {
		return err
	}
	if err != nil {
		return err
	}

	if machineMode {
		return WriteJSONSuccess(out, StakerView{Index: index, ID: removed.ID, Name: removed.Name, URL: removed.URL})
	}
	fmt.Fprintf(out, "%s Removed %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), removed.Name)
	return nil
}

// listCommand prints the stored stakers without fetching.
func listCommand(ctx context.Context, out io.Writer) error {
	sess, err := openSession(ctx, nil)
	if err != nil {
		return err
	}
	defer sess.Close()

	return renderStakers(out, sess.Monitor.Stakers(), time.Now())
}

// refreshCommand fetches every staker once, waits for all of them, and
// prints the list.
func refreshCommand(ctx context.Context, out io.Writer, timeout time.Duration) error {
	sess, err := openSession(ctx, nil)
	if err != nil {
		return err
	}
	defer sess.Close()

	mon := sess.Monitor
	if mon.Len() == 0 {
		return renderStakers(out, nil, time.Now())
	}

	before := updatedTimes(mon.Stakers())

	var (
		spinner *ui.Spinner
		token   node.Completion
	)
	if !machineMode && term.IsTerminal(int(os.Stdout.Fd())) {
		spinner = ui.NewSpinner(out, "Refreshing", mon.Len())
		token = node.CompletionFunc(spinner.Step)
		spinner.Start()
	}

	if timeout <= 0 {
		timeout = defaultRefreshTimeout
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	mon.Refresh(token)
	waitErr := mon.WaitIdle(waitCtx)

	after := mon.Stakers()
	fresh := 0
	for _, s := range after {
		if s.Updated != nil && !s.Updated.Equal(before[s.ID]) {
			fresh++
		}
	}

	if spinner != nil {
		spinner.Finish(fresh == len(after))
	}

	if waitErr != nil && waitErr != context.DeadlineExceeded {
		return waitErr
	}

	if !machineMode {
		fmt.Fprintf(out, "Refreshed %d of %s\n", fresh, util.Stakers(len(after)))
		if waitErr == context.DeadlineExceeded {
			ui.PrintWarning(os.Stderr, fmt.Sprintf("Stopped waiting after %s", timeout))
		}
	}
	return renderStakers(out, after, time.Now())
}

func updatedTimes(list []node.Staker) map[string]time.Time {
	out := make(map[string]time.Time, len(list))
	for _, s := range list {
		if s.Updated != nil {
			out[s.ID] = *s.Updated
		}
	}
	return out
}

// renderStakers writes the list as a table, or as the JSON envelope.
func renderStakers(out io.Writer, list []node.Staker, now time.Time) error {
	if machineMode {
		return WriteJSONSuccess(out, viewsOf(list))
	}

	if len(list) == 0 {
		fmt.Fprintln(out, "No stakers yet. Add one with 'nstake add'.")
		return nil
	}

	titles := []string{"#", "Name", "URL", "Balance", "Next stake", "Updated"}
	rows := make([][]string, len(list))
	for i, s := range list {
		rows[i] = stakerRow(i, s, now)
	}
	fmt.Fprintln(out, ui.RenderTable(titles, rows, maxColumnWidth))
	return nil
}

func stakerRow(i int, s node.Staker, now time.Time) []string {
	balance, next, updated := "-", "-", "never"
	if s.Stats != nil {
		balance = humanize.CommafWithDigits(s.Stats.Balance, 4)
		next = "not staking"
		if s.Stats.ETA != nil {
			next = humanize.RelTime(*s.Stats.ETA, now, "ago", "from now")
		}
	}
	if s.Updated != nil {
		updated = humanize.RelTime(*s.Updated, now, "ago", "from now")
	}
	return []string{strconv.Itoa(i), s.Name, s.URL, balance, next, updated}
}
