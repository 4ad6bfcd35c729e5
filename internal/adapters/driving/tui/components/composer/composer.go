// Package composer provides the message composition component for the TUI.
package composer

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/studybridge/zoe-cli/internal/adapters/driving/tui/styles"
)

// Composer wraps a bubbles textinput together with the attachments staged
// for the next message. Attachments survive edits to the text and are only
// cleared once the message has been handed to the chat service.
type Composer struct {
	textinput   textinput.Model
	styles      *styles.Styles
	attachments []string
	width       int
}

// New creates a new composer component.
func New(s *styles.Styles) *Composer {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Ask about programmes, visas, costs..."
	ti.Focus()
	ti.CharLimit = 2000
	ti.Width = 50

	return &Composer{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init initialises the composer.
func (c *Composer) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (c *Composer) Update(msg tea.Msg) (*Composer, tea.Cmd) {
	var cmd tea.Cmd
	c.textinput, cmd = c.textinput.Update(msg)
	return c, cmd
}

// View renders the composer with any staged attachments above the input.
func (c *Composer) View() string {
	input := c.styles.InputField.Render(c.textinput.View())
	if len(c.attachments) == 0 {
		return input
	}

	chips := make([]string, 0, len(c.attachments))
	for _, name := range c.attachments {
		chips = append(chips, c.styles.Attachment.Render(fmt.Sprintf("[%s]", name)))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, chips...)
	return lipgloss.JoinVertical(lipgloss.Left, row, input)
}

// Value returns the current input value.
func (c *Composer) Value() string {
	return c.textinput.Value()
}

// SetValue sets the input value.
func (c *Composer) SetValue(value string) {
	c.textinput.SetValue(value)
	c.textinput.CursorEnd()
}

// AddAttachment stages a file name on the next message.
func (c *Composer) AddAttachment(name string) {
	c.attachments = append(c.attachments, name)
}

// Attachments returns the staged attachment names.
func (c *Composer) Attachments() []string {
	return c.attachments
}

// SetAttachments replaces the staged attachments.
func (c *Composer) SetAttachments(names []string) {
	c.attachments = names
}

// ClearAttachments removes all staged attachments.
func (c *Composer) ClearAttachments() {
	c.attachments = nil
}

// Focus sets focus on the input.
func (c *Composer) Focus() tea.Cmd {
	return c.textinput.Focus()
}

// Blur removes focus from the input.
func (c *Composer) Blur() {
	c.textinput.Blur()
}

// Focused returns whether the input is focused.
func (c *Composer) Focused() bool {
	return c.textinput.Focused()
}

// SetWidth sets the width of the composer.
func (c *Composer) SetWidth(width int) {
	c.width = width
	// Account for border and padding
	inputWidth := width - 6
	if inputWidth < 20 {
		inputWidth = 20
	}
	c.textinput.Width = inputWidth
}

// Width returns the current width.
func (c *Composer) Width() int {
	return c.width
}

// Reset clears the input text, leaving staged attachments alone.
func (c *Composer) Reset() {
	c.textinput.Reset()
}
