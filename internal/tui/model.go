// Package tui implements the interactive dictionary browser.
//
// The browser shows every entry in a table, filters it live, and adds,
// updates, and removes terms through a types.Dictionary. It replaces the
// original single-form front end: the add flow still asks for the term
// first and rejects an existing term before asking for the explanation.
// Import and export take a file path, as the original File menu did.
package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/lexicon/pkg/termstore"
	"github.com/mesh-intelligence/lexicon/pkg/types"
)

// Mode is the current input mode of the browser.
type Mode int

const (
	ModeBrowse Mode = iota
	ModeFilter
	ModeAddTerm
	ModeAddExplanation
	ModeUpdate
	ModeConfirmDelete
	ModeImport
	ModeExport
)

var errImportUnsupported = errors.New("this dictionary cannot import files")

// importer is a dictionary that can replace its contents from a terms file.
// types.Backend satisfies it.
type importer interface {
	Import(r io.Reader) error
}

// Model is the bubbletea model of the browser.
type Model struct {
	dict types.Dictionary

	width  int
	height int
	table  table.Model

	// Entries currently shown, in table row order.
	visible []types.Entry

	filterInput textinput.Model
	input       textinput.Model
	mode        Mode
	pendingTerm string // term being added, updated or deleted

	status    string
	statusErr bool

	styles Styles
}

// New creates a browser over d.
func New(d types.Dictionary) Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Term", Width: 24},
			{Title: "Explanation", Width: 56},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	fi := textinput.New()
	fi.Placeholder = "Filter terms and explanations..."
	fi.CharLimit = 120
	fi.Width = 40

	in := textinput.New()
	in.CharLimit = 0
	in.Width = 60

	m := Model{
		dict:        d,
		table:       t,
		filterInput: fi,
		input:       in,
		styles:      DefaultStyles(),
	}
	m.refresh()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Mode returns the current input mode.
func (m Model) Mode() Mode {
	return m.mode
}

// Status returns the status line text and whether it reports an error.
func (m Model) Status() (string, bool) {
	return m.status, m.statusErr
}

// Visible returns the entries currently shown in the table.
func (m Model) Visible() []types.Entry {
	return m.visible
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case ModeFilter:
			return m.updateFilter(msg)
		case ModeAddTerm, ModeAddExplanation, ModeUpdate, ModeImport, ModeExport:
			return m.updatePrompt(msg)
		case ModeConfirmDelete:
			return m.updateConfirmDelete(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.mode = ModeFilter
		return m, m.filterInput.Focus()
	case "a":
		m.clearStatus()
		return m, m.prompt(ModeAddTerm, "term", "")
	case "u":
		e, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.clearStatus()
		m.pendingTerm = e.Term
		return m, m.prompt(ModeUpdate, "explanation", e.Explanation)
	case "d":
		e, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.pendingTerm = e.Term
		m.mode = ModeConfirmDelete
		m.setStatus(fmt.Sprintf("Delete %q? (y/n)", e.Term), false)
		return m, nil
	case "i":
		if _, ok := m.dict.(importer); !ok {
			m.setStatus(errImportUnsupported.Error(), true)
			return m, nil
		}
		m.clearStatus()
		return m, m.prompt(ModeImport, "path", "")
	case "e":
		m.clearStatus()
		return m, m.prompt(ModeExport, "path", "")
	case "esc":
		if m.filterInput.Value() != "" {
			m.filterInput.SetValue("")
			m.refresh()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filterInput.SetValue("")
		m.filterInput.Blur()
		m.mode = ModeBrowse
		m.refresh()
		return m, nil
	case "enter":
		m.filterInput.Blur()
		m.mode = ModeBrowse
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.refresh()
	return m, cmd
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.endPrompt()
		m.setStatus("Cancelled", false)
		return m, nil
	case "enter":
		return m.submitPrompt()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitPrompt applies the value typed into the prompt for the current mode.
func (m Model) submitPrompt() (tea.Model, tea.Cmd) {
	value := m.input.Value()

	switch m.mode {
	case ModeAddTerm:
		if err := types.ValidateTerm(value); err != nil {
			m.endPrompt()
			m.setStatus(err.Error(), true)
			return m, nil
		}
		if m.dict.Contains(value) {
			m.endPrompt()
			err := &types.TermError{Op: "add", Term: value, Err: types.ErrTermExists}
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.pendingTerm = value
		return m, m.prompt(ModeAddExplanation, "explanation", "")

	case ModeAddExplanation:
		term := m.pendingTerm
		m.endPrompt()
		m.apply(m.dict.Add(term, value), "Added "+term)

	case ModeUpdate:
		term := m.pendingTerm
		m.endPrompt()
		m.apply(m.dict.Update(term, value), "Updated "+term)

	case ModeImport:
		m.endPrompt()
		err := m.importFile(value)
		m.apply(err, fmt.Sprintf("Imported %d terms", m.dict.Len()))

	case ModeExport:
		m.endPrompt()
		m.apply(termstore.ExportFile(m.dict, value),
			fmt.Sprintf("Exported %d terms to %s", m.dict.Len(), value))
	}
	return m, nil
}

// importFile replaces the dictionary with the contents of path. A malformed
// file leaves the dictionary unchanged.
func (m Model) importFile(path string) error {
	imp, ok := m.dict.(importer)
	if !ok {
		return errImportUnsupported
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %w", types.ErrIO, path, err)
	}
	defer f.Close()
	return imp.Import(f)
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	term := m.pendingTerm
	m.pendingTerm = ""
	m.mode = ModeBrowse

	if msg.String() != "y" {
		m.setStatus("Delete cancelled", false)
		return m, nil
	}
	m.apply(m.dict.Remove(term), "Removed "+term)
	return m, nil
}

// prompt switches to an input mode with an empty or prefilled input.
func (m *Model) prompt(mode Mode, placeholder, value string) tea.Cmd {
	m.mode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) endPrompt() {
	m.mode = ModeBrowse
	m.pendingTerm = ""
	m.input.Blur()
	m.input.SetValue("")
}

// apply reports the outcome of a mutation and reloads the table.
func (m *Model) apply(err error, done string) {
	if err != nil {
		m.setStatus(err.Error(), true)
	} else {
		m.setStatus(done, false)
	}
	m.refresh()
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *Model) clearStatus() {
	m.setStatus("", false)
}

// selected returns the entry under the table cursor.
func (m Model) selected() (types.Entry, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.visible) {
		return types.Entry{}, false
	}
	return m.visible[i], true
}

// refresh rebuilds the visible entries from the dictionary and the filter.
func (m *Model) refresh() {
	filterText := strings.ToLower(m.filterInput.Value())

	visible := make([]types.Entry, 0, m.dict.Len())
	for e := range m.dict.All() {
		if filterText != "" &&
			!strings.Contains(strings.ToLower(e.Term), filterText) &&
			!strings.Contains(strings.ToLower(e.Explanation), filterText) {
			continue
		}
		visible = append(visible, e)
	}
	m.visible = visible

	rows := make([]table.Row, 0, len(m.visible))
	for _, e := range m.visible {
		rows = append(rows, table.Row{e.Term, e.Explanation})
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// SetSize updates the size.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.table.SetWidth(w - 4)
	m.table.SetHeight(max(h-10, 3))
}

// View renders the browser.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Header.Render(" Lexicon ") + "\n\n")

	if m.mode == ModeFilter || m.filterInput.Value() != "" {
		filterStyle := m.styles.Filter
		if m.mode == ModeFilter {
			filterStyle = filterStyle.BorderForeground(colorPrimary)
		}
		sb.WriteString(filterStyle.Render(m.filterInput.View()) + "\n")
	}

	sb.WriteString(m.styles.Content.Render(m.table.View()) + "\n")

	total := m.dict.Len()
	if len(m.visible) != total {
		sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("Showing %d of %d terms", len(m.visible), total)) + "\n")
	} else {
		sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("%d terms", total)) + "\n")
	}

	switch m.mode {
	case ModeAddTerm:
		sb.WriteString(m.styles.Prompt.Render("New term: ") + m.input.View() + "\n")
	case ModeAddExplanation:
		sb.WriteString(m.styles.Prompt.Render(fmt.Sprintf("Explanation for %s: ", m.pendingTerm)) + m.input.View() + "\n")
	case ModeUpdate:
		sb.WriteString(m.styles.Prompt.Render(fmt.Sprintf("New explanation for %s: ", m.pendingTerm)) + m.input.View() + "\n")
	case ModeImport:
		sb.WriteString(m.styles.Prompt.Render("Import from: ") + m.input.View() + "\n")
	case ModeExport:
		sb.WriteString(m.styles.Prompt.Render("Export to: ") + m.input.View() + "\n")
	}

	if m.status != "" {
		style := m.styles.Success
		if m.statusErr {
			style = m.styles.Error
		}
		sb.WriteString(style.Render(m.status) + "\n")
	}

	sb.WriteString(m.help())
	return sb.String()
}

func (m Model) help() string {
	var hint string
	switch m.mode {
	case ModeFilter:
		hint = "[enter] Keep filter  [esc] Clear"
	case ModeAddTerm, ModeAddExplanation, ModeUpdate, ModeImport, ModeExport:
		hint = "[enter] Submit  [esc] Cancel"
	case ModeConfirmDelete:
		hint = "[y] Delete  [any key] Cancel"
	default:
		hint = lipgloss.JoinHorizontal(lipgloss.Top,
			"[/] Filter  ", "[a] Add  ", "[u] Update  ", "[d] Delete  ",
			"[i] Import  ", "[e] Export  ", "[q] Quit")
	}
	return m.styles.Muted.Render(hint)
}
