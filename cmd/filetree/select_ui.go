package main

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/hayeah/filetree"
)

// ExitState indicates how the program is exiting
type ExitState int

const (
	ExitStateNone    ExitState = iota // Not exiting
	ExitStateAbort                    // Exiting without saving (ESC, Ctrl+C)
	ExitStateConfirm                  // Exiting after the policy choice on the confirm screen
)

// screen is which of the two screens is active.
type screen int

const (
	screenSelect  screen = iota // tree navigation and selection
	screenConfirm               // "show unselected entries?" policy choice
)

// Outcome is what the selection UI hands back to the caller.
type Outcome struct {
	Aborted        bool
	ShowUnselected bool
}

var (
	includedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	excludedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	buttonStyle   = lipgloss.NewStyle().Padding(0, 2)
	activeButton  = buttonStyle.Bold(true).Foreground(lipgloss.Color("10")).Underline(true)
)

// model is our Bubble Tea model, holding everything needed for the TUI.
type model struct {
	root   *filetree.Node
	lookup map[string]*filetree.Node // path -> node

	// Rows currently listed: the visible tree, or the flat fuzzy matches
	// while a filter term is active.
	rows   []*filetree.Node
	cursor int

	// Fuzzy filter. Key bindings (a, n, g, ...) only apply while the
	// filter input is not focused; "/" focuses it.
	textInput  textinput.Model
	filtering  bool
	searchTerm string

	screen         screen
	confirmYes     bool // highlighted button on the confirm screen
	showUnselected bool
	exitState      ExitState

	// Viewport for scrolling
	viewport viewport.Model
	ready    bool

	// Token counting
	fsys            fs.FS
	tokenEstimator  TokenEstimator
	tokenCache      map[string]int
	totalTokenCount int
}

// selectInteractively runs the two-screen TUI over the scanned tree. It
// mutates the Included/Expanded flags on the nodes in place and returns
// the render policy chosen on the confirm screen, or Aborted.
func selectInteractively(root *filetree.Node, tokenEstimator TokenEstimator, fsys fs.FS) (Outcome, error) {
	m := newModel(root, tokenEstimator, fsys)

	// Render the TUI to stderr so stdout stays clean.
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		return Outcome{}, err
	}

	finalM, ok := finalModel.(model)
	if !ok {
		return Outcome{}, fmt.Errorf("could not get final model state")
	}

	if finalM.exitState != ExitStateConfirm {
		return Outcome{Aborted: true}, nil
	}
	return Outcome{ShowUnselected: finalM.showUnselected}, nil
}

func newModel(root *filetree.Node, tokenEstimator TokenEstimator, fsys fs.FS) model {
	ti := textinput.New()
	ti.Placeholder = "Press / to fuzzy-filter..."
	ti.Prompt = "> "
	ti.CharLimit = 0

	lookup := make(map[string]*filetree.Node)
	root.Walk(func(n *filetree.Node) {
		lookup[n.Path] = n
	})

	m := model{
		root:           root,
		lookup:         lookup,
		textInput:      ti,
		viewport:       viewport.New(0, 0), // sized on the first tea.WindowSizeMsg
		fsys:           fsys,
		tokenEstimator: tokenEstimator,
		tokenCache:     make(map[string]int),
	}
	m.refreshRows()
	m.recalculateTotalTokenCount()
	return m
}

// Init is the first function called by Bubble Tea.
func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

// Update is called when events occur (key presses, etc.).
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.exitState != ExitStateNone {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := lipgloss.Height(m.textInput.View()) + 1
		footerHeight := 2
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - headerHeight - footerHeight
		m.viewport.YPosition = headerHeight
		if !m.ready {
			m.updateViewportContent()
			m.ready = true
		}
		return m, nil

	case tea.KeyMsg:
		if m.screen == screenConfirm {
			return m.updateConfirm(msg)
		}
		return m.updateSelect(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// updateSelect handles keys on the selection screen.
func (m model) updateSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		return m.updateFilterInput(msg)
	}

	switch msg.String() {

	case "ctrl+c", "esc", "q":
		// Cancellation is a normal exit: nothing is written.
		m.exitState = ExitStateAbort
		return m, tea.Quit

	case "g":
		m.screen = screenConfirm
		m.confirmYes = true
		return m, nil

	case "/":
		m.filtering = true
		m.textInput.Focus()
		return m, textinput.Blink

	case " ":
		if len(m.rows) > 0 {
			m.rows[m.cursor].Toggle()
			m.recalculateTotalTokenCount()
			m.updateViewportContent()
		}
		return m, nil

	case "enter":
		// Expand/collapse; a no-op on files and in filtered view.
		if len(m.rows) > 0 && m.searchTerm == "" {
			if node := m.rows[m.cursor]; node.IsDir {
				node.Expanded = !node.Expanded
				m.refreshRows()
				m.updateViewportContent()
			}
		}
		return m, nil

	case "a":
		m.root.SetIncludedAll(true)
		m.recalculateTotalTokenCount()
		m.updateViewportContent()
		return m, nil

	case "n":
		m.root.SetIncludedAll(false)
		m.recalculateTotalTokenCount()
		m.updateViewportContent()
		return m, nil

	case "up":
		// No wraparound: the cursor clamps at the first row.
		if m.cursor > 0 {
			m.cursor--
			m.updateViewportContent()
			m.ensureCursorVisible()
		}
		return m, nil

	case "down":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.updateViewportContent()
			m.ensureCursorVisible()
		}
		return m, nil

	case "pgup":
		m.viewport.HalfViewUp()
		return m, nil

	case "pgdown":
		m.viewport.HalfViewDown()
		return m, nil

	case "home":
		if len(m.rows) > 0 {
			m.cursor = 0
			m.viewport.GotoTop()
			m.updateViewportContent()
		}
		return m, nil

	case "end":
		if len(m.rows) > 0 {
			m.cursor = len(m.rows) - 1
			m.viewport.GotoBottom()
			m.updateViewportContent()
		}
		return m, nil
	}

	return m, nil
}

// updateFilterInput routes keys to the filter textinput while it is
// focused.
func (m model) updateFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {

	case "ctrl+c":
		m.exitState = ExitStateAbort
		return m, tea.Quit

	case "esc":
		// Drop the filter and return to the tree view.
		m.filtering = false
		m.textInput.Blur()
		m.textInput.SetValue("")
		m.searchTerm = ""
		m.refreshRows()
		m.updateViewportContent()
		return m, nil

	case "enter":
		// Keep the filter applied, hand the keys back to the bindings.
		m.filtering = false
		m.textInput.Blur()
		return m, nil

	case "up":
		if m.cursor > 0 {
			m.cursor--
			m.updateViewportContent()
			m.ensureCursorVisible()
		}
		return m, nil

	case "down":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.updateViewportContent()
			m.ensureCursorVisible()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)

	if term := m.textInput.Value(); term != m.searchTerm {
		m.searchTerm = term
		m.refreshRows()
		m.updateViewportContent()
	}
	return m, cmd
}

// updateConfirm handles keys on the policy confirmation screen.
func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {

	case "ctrl+c":
		m.exitState = ExitStateAbort
		return m, tea.Quit

	case "esc":
		// Back to the selection screen.
		m.screen = screenSelect
		return m, nil

	case "left", "right", "tab":
		m.confirmYes = !m.confirmYes
		return m, nil

	case "y":
		return m.confirm(true)

	case "n":
		return m.confirm(false)

	case "enter":
		return m.confirm(m.confirmYes)
	}

	return m, nil
}

func (m model) confirm(showUnselected bool) (tea.Model, tea.Cmd) {
	m.showUnselected = showUnselected
	m.exitState = ExitStateConfirm
	return m, tea.Quit
}

// View renders the TUI screen.
func (m model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.screen == screenConfirm {
		return m.viewConfirm()
	}

	headerView := m.textInput.View() + "\n"
	listView := m.viewport.View()

	included := 0
	m.root.Walk(func(n *filetree.Node) {
		if !n.IsDir && n.Included {
			included++
		}
	})
	statusLine := fmt.Sprintf(
		"%d rows, %d files selected, ~%d tokens",
		len(m.rows),
		included,
		m.totalTokenCount,
	)
	usageHint := "(↑/↓ navigate, Space toggle, Enter expand/collapse, a all, n none, / filter, g generate, Esc abort)"
	footerView := fmt.Sprintf("\n%s\n%s", statusLine, usageHint)

	return fmt.Sprintf("%s%s%s", headerView, listView, footerView)
}

func (m model) viewConfirm() string {
	yes := buttonStyle.Render("[ Yes ]")
	no := activeButton.Render("[ No ]")
	if m.confirmYes {
		yes = activeButton.Render("[ Yes ]")
		no = buttonStyle.Render("[ No ]")
	}

	var sb strings.Builder
	sb.WriteString("\nShould unselected files/folders be visible in the file tree?\n\n")
	sb.WriteString("  " + yes + "  " + no + "\n\n")
	sb.WriteString("(y/n or ←/→ and Enter to choose, Esc to go back, Ctrl+C to abort)\n")
	return sb.String()
}

// refreshRows rebuilds the listed rows: the flattened visible tree, or the
// flat fuzzy matches over every path while a filter term is active.
func (m *model) refreshRows() {
	if m.searchTerm == "" {
		m.rows = m.root.VisibleRows()
	} else {
		var matched []*filetree.Node
		m.root.Walk(func(n *filetree.Node) {
			if n.Path != "." && fuzzyMatch(n.Path, m.searchTerm) {
				matched = append(matched, n)
			}
		})
		m.rows = matched
	}

	if len(m.rows) == 0 {
		m.cursor = 0
	} else {
		m.cursor = min(m.cursor, len(m.rows)-1)
	}
}

// updateViewportContent updates the content of the viewport based on the
// current rows, cursor and selection state.
func (m *model) updateViewportContent() {
	var sb strings.Builder

	for i, node := range m.rows {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		marker := excludedStyle.Render(filetree.MarkerExcluded)
		if node.Included {
			marker = includedStyle.Render(filetree.MarkerIncluded)
		}

		// The tree view indents by depth and shows names; the filtered
		// view is flat and shows full paths.
		label := node.Name
		indent := strings.Repeat("  ", node.Depth())
		if m.searchTerm != "" {
			label = node.Path
			indent = ""
		}
		if node.IsDir {
			label += "/"
		}

		if node.Included && !node.IsDir {
			if count, ok := m.tokenCache[node.Path]; ok {
				label = fmt.Sprintf("%s (%d tokens)", label, count)
			}
		}

		line := fmt.Sprintf("%s %s%s %s", cursor, indent, marker, label)
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}

		// Add newline after styling to prevent lipgloss from affecting spacing
		sb.WriteString(line + "\n")
	}

	m.viewport.SetContent(sb.String())
}

// ensureCursorVisible makes sure the cursor is visible in the viewport
func (m *model) ensureCursorVisible() {
	cursorLine := m.cursor

	top := m.viewport.YOffset
	bottom := m.viewport.YOffset + m.viewport.Height - 1

	if cursorLine < top {
		m.viewport.SetYOffset(cursorLine)
	} else if cursorLine > bottom {
		m.viewport.SetYOffset(cursorLine - m.viewport.Height + 1)
	}
}

// fuzzyMatch performs fuzzy matching using the sahilm/fuzzy library.
func fuzzyMatch(text string, term string) bool {
	if term == "" {
		return true
	}
	return len(fuzzy.Find(term, []string{text})) > 0
}

// recalculateTotalTokenCount updates the total token count based on the
// currently included files, caching per-file counts.
func (m *model) recalculateTotalTokenCount() {
	total := 0
	for _, f := range m.root.Files() {
		if !f.Included {
			continue
		}
		count, ok := m.tokenCache[f.Path]
		if !ok {
			var err error
			count, err = m.tokenEstimator(m.fsys, f.Path)
			if err != nil {
				log.Printf("Error estimating tokens for %s: %v", f.Path, err)
				continue
			}
			m.tokenCache[f.Path] = count
		}
		total += count
	}
	m.totalTokenCount = total
}
