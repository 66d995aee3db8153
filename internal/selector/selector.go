// Package selector prompts the user to pick one entry from a list in the
// terminal.
package selector

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Sentinel errors for selection.
var (
	ErrNoItems  = errors.New("nothing to select")
	ErrCanceled = errors.New("selection canceled")
)

const (
	defaultWidth = 60
	itemHeight   = 3
	chromeHeight = 6
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#6BCB77"))
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1)
)

// Item is one selectable entry.
type Item struct {
	Name string
	Desc string
}

func (i Item) Title() string       { return i.Name }
func (i Item) Description() string { return i.Desc }
func (i Item) FilterValue() string { return i.Name }

type model struct {
	list     list.Model
	choice   string
	canceled bool
}

func newModel(items []Item, title string) *model {
	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = item
	}

	delegate := list.NewDefaultDelegate()
	delegate.SetHeight(2)
	delegate.SetSpacing(1)

	l := list.New(listItems, delegate, defaultWidth, len(items)*itemHeight+chromeHeight)
	l.Title = title
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(len(items) > 5)

	return &model{list: l}
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.canceled = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(Item); ok {
				m.choice = item.Name
				return m, tea.Quit
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	if m.choice != "" || m.canceled {
		return ""
	}
	return m.list.View() + "\n" + hintStyle.Render("enter: select  esc: cancel")
}

// Select shows items and returns the name of the chosen one. It returns
// ErrCanceled when the user quits without choosing.
func Select(items []Item, title string, in io.Reader, out io.Writer) (string, error) {
	if len(items) == 0 {
		return "", ErrNoItems
	}

	p := tea.NewProgram(newModel(items, title), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("selector: %w", err)
	}

	m, ok := final.(*model)
	if !ok || m.choice == "" {
		return "", ErrCanceled
	}
	return m.choice, nil
}
