package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/nstake/nstake/internal/errors"
	"github.com/nstake/nstake/internal/node"
)

type formKind int

const (
	formAdd formKind = iota
	formDelete
)

// pendingForm is an open Huh prompt. Field values are bound to it, so it
// lives on the heap and survives model copies.
type pendingForm struct {
	kind    formKind
	form    *huh.Form
	name    string
	url     string
	confirm bool

	// target is the staker a delete prompt was opened for.
	target node.Staker
}

func newAddForm() *pendingForm {
	pf := &pendingForm{kind: formAdd}
	pf.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Description("Display label for the node").
				Value(&pf.name).
				Validate(oneLine(node.ValidateName)),
			huh.NewInput().
				Title("URL").
				Description("Base URL, the report is read from <url>/report.json").
				Placeholder("http://192.168.1.20:8080").
				Value(&pf.url).
				Validate(oneLine(node.ValidateURL)),
		),
	).WithShowHelp(false)
	return pf
}

// oneLine shortens structured validation errors to their message for the
// inline form error.
func oneLine(validate func(string) error) func(string) error {
	return func(s string) error {
		if err := validate(s); err != nil {
			return fmt.Errorf("%s", errors.Summary(err))
		}
		return nil
	}
}

func newDeleteForm(target node.Staker) *pendingForm {
	pf := &pendingForm{kind: formDelete, target: target}
	pf.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s?", target.Name)).
				Description(target.URL).
				Affirmative("Delete").
				Negative("Keep").
				Value(&pf.confirm),
		),
	).WithShowHelp(false)
	return pf
}

func (m *Model) openAddForm() tea.Cmd {
	m.form = newAddForm()
	return m.form.form.Init()
}

func (m *Model) openDeleteForm() tea.Cmd {
	s, ok := m.SelectedStaker()
	if !ok {
		m.flash = "Nothing to delete"
		return nil
	}
	m.form = newDeleteForm(s)
	return m.form.form.Init()
}

// updateForm routes every message to the open form. Esc cancels, and fetch
// results keep landing in the background.
func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			m.form = nil
			m.flash = "Cancelled."
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.resize(msg)
	case resultMsg:
		m.applyResult(msg.res)
		return m, listenCmd(m.mon.Results())
	case tickMsg:
		if msg.gen != m.tickGen {
			return m, nil
		}
		return m, tea.Batch(m.tickCmd(), m.startRefresh(false))
	case spinner.TickMsg:
		return m, m.animateRefresh(msg)
	}

	model, cmd := m.form.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.form.form = f
	}

	switch m.form.form.State {
	case huh.StateCompleted:
		return m, tea.Batch(cmd, m.submitForm())
	case huh.StateAborted:
		m.form = nil
		m.flash = "Cancelled."
		return m, nil
	}
	return m, cmd
}

// submitForm acts on a completed form and closes it.
func (m *Model) submitForm() tea.Cmd {
	pf := m.form
	m.form = nil
	if pf == nil {
		return nil
	}

	switch pf.kind {
	case formAdd:
		s, err := m.mon.Add(m.ctx, strings.TrimSpace(pf.name), strings.TrimSpace(pf.url))
		if s.ID == "" {
			m.flash = errors.Summary(err)
			return nil
		}
		m.sortStakers()
		for i, st := range m.list {
			if st.ID == s.ID {
				m.selected = i
			}
		}
		if err != nil {
			m.log.Error("%v", errors.Summary(err))
			m.flash = errors.Summary(err)
			return nil
		}
		m.flash = "Added " + s.Name

	case formDelete:
		if !pf.confirm {
			m.flash = "Cancelled."
			return nil
		}
		i := m.monitorIndex(pf.target.ID)
		if i < 0 {
			m.flash = pf.target.Name + " is already gone"
			return nil
		}
		removed, err := m.mon.Remove(m.ctx, i)
		m.history.Clear(removed.ID)
		m.sortStakers()
		if m.viewMode == ViewDetail {
			m.viewMode = ViewList
		}
		if err != nil {
			m.log.Error("%v", errors.Summary(err))
			m.flash = errors.Summary(err)
			return nil
		}
		m.flash = "Deleted " + removed.Name
	}
	return nil
}
