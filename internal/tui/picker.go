// Package tui implements the interactive environment picker.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Item is one environment offered by the picker.
type Item struct {
	Name        string
	Description string
	Entries     int
	Active      bool
}

// Styles holds the picker's lipgloss styles.
type Styles struct {
	Title       lipgloss.Style
	Selected    lipgloss.Style
	Normal      lipgloss.Style
	Active      lipgloss.Style
	Description lipgloss.Style
	Help        lipgloss.Style
	Empty       lipgloss.Style
}

// DefaultStyles returns styles bound to renderer.
func DefaultStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title: r.NewStyle().Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("62")).
			Padding(0, 1),
		Selected: r.NewStyle().Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("62")),
		Normal:      r.NewStyle().Foreground(lipgloss.Color("252")),
		Active:      r.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
		Description: r.NewStyle().Foreground(lipgloss.Color("243")),
		Help:        r.NewStyle().Foreground(lipgloss.Color("241")),
		Empty: r.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true),
	}
}

// Picker is a bubbletea model listing environments. Enter selects the
// environment under the cursor; q or esc quits without a selection.
type Picker struct {
	items    []Item
	cursor   int
	selected int
	quitting bool
	width    int
	keys     KeyMap
	styles   Styles
}

// NewPicker creates a picker with the cursor on the active environment.
func NewPicker(items []Item) *Picker {
	p := &Picker{
		items:    items,
		selected: -1,
		keys:     DefaultKeyMap(),
		styles:   DefaultStyles(lipgloss.DefaultRenderer()),
	}
	for i, item := range items {
		if item.Active {
			p.cursor = i
			break
		}
	}
	return p
}

// SetStyles replaces the picker's styles.
func (p *Picker) SetStyles(s Styles) {
	p.styles = s
}

// Init initializes the model.
func (p *Picker) Init() tea.Cmd {
	return nil
}

// Update handles key presses and window resizes.
func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
	case tea.KeyMsg:
		switch p.keys.Lookup(msg) {
		case ActionUp:
			if p.cursor > 0 {
				p.cursor--
			}
		case ActionDown:
			if p.cursor < len(p.items)-1 {
				p.cursor++
			}
		case ActionTop:
			p.cursor = 0
		case ActionBottom:
			if len(p.items) > 0 {
				p.cursor = len(p.items) - 1
			}
		case ActionSelect:
			if len(p.items) > 0 {
				p.selected = p.cursor
			}
			p.quitting = true
			return p, tea.Quit
		case ActionQuit:
			p.quitting = true
			return p, tea.Quit
		}
	}
	return p, nil
}

// View renders the picker.
func (p *Picker) View() string {
	if p.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(p.styles.Title.Render("hostctl: switch environment"))
	b.WriteString("\n\n")

	if len(p.items) == 0 {
		b.WriteString(p.styles.Empty.Render("No environments configured."))
		b.WriteString("\n\n")
	}

	for i, item := range p.items {
		marker := "  "
		if item.Active {
			marker = p.styles.Active.Render("* ")
		}

		line := fmt.Sprintf("%s (%d %s)", item.Name, item.Entries, Plural(item.Entries, "entry", "entries"))
		if i == p.cursor {
			line = p.styles.Selected.Render("> " + line)
		} else {
			line = p.styles.Normal.Render("  " + line)
		}

		b.WriteString(marker)
		b.WriteString(line)
		if item.Description != "" {
			b.WriteString("  ")
			b.WriteString(p.styles.Description.Render(item.Description))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.styles.Help.Render(p.helpLine()))
	b.WriteString("\n")
	return b.String()
}

func (p *Picker) helpLine() string {
	parts := make([]string, 0, len(p.keys))
	for _, kb := range p.keys {
		parts = append(parts, kb.Help()+" "+kb.Description())
	}
	return strings.Join(parts, " • ")
}

// Cursor returns the index under the cursor.
func (p *Picker) Cursor() int {
	return p.cursor
}

// Selected returns the chosen environment, if the user pressed enter.
func (p *Picker) Selected() (string, bool) {
	if p.selected < 0 || p.selected >= len(p.items) {
		return "", false
	}
	return p.items[p.selected].Name, true
}

// Run shows the picker on out, reading keys from in, and returns the chosen
// environment name.
func Run(ctx context.Context, items []Item, in io.Reader, out io.Writer) (string, bool, error) {
	picker := NewPicker(items)
	picker.SetStyles(DefaultStyles(lipgloss.NewRenderer(out)))

	program := tea.NewProgram(picker,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := program.Run()
	if err != nil {
		return "", false, fmt.Errorf("environment picker failed: %w", err)
	}

	name, ok := final.(*Picker).Selected()
	return name, ok, nil
}

// Plural returns one when n is 1 and many otherwise.
func Plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
