// Package transcript provides the conversation transcript component for the TUI.
package transcript

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/studybridge/zoe-cli/internal/adapters/driving/tui/styles"
	"github.com/studybridge/zoe-cli/internal/core/domain"
)

// Transcript renders the conversation as a scrollable window of pre-wrapped
// lines. The line cache is rebuilt when the messages or dimensions change,
// never during View, so streaming refreshes stay cheap.
type Transcript struct {
	styles   *styles.Styles
	renderer *glamour.TermRenderer

	messages     []domain.Message
	lines        []string
	scrollOffset int
	stick        bool
	width        int
	height       int
}

// New creates a new transcript component.
func New(s *styles.Styles) *Transcript {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &Transcript{
		styles: s,
		stick:  true,
		width:  80,
		height: 20,
	}
}

// SetDimensions sets the transcript dimensions and re-wraps the content.
func (tr *Transcript) SetDimensions(width, height int) {
	tr.width = width
	tr.height = height
	tr.renderer = nil
	tr.rebuild()
}

// SetMessages replaces the conversation snapshot and re-renders the cache.
// When the reader is at the bottom the window follows new content.
func (tr *Transcript) SetMessages(msgs []domain.Message) {
	tr.messages = msgs
	tr.rebuild()
}

// Messages returns the current conversation snapshot.
func (tr *Transcript) Messages() []domain.Message {
	return tr.messages
}

// ScrollUp scrolls the transcript up one line and stops following new content.
func (tr *Transcript) ScrollUp() {
	if tr.scrollOffset > 0 {
		tr.scrollOffset--
	}
	tr.stick = false
}

// ScrollDown scrolls the transcript down one line.
func (tr *Transcript) ScrollDown() {
	if tr.scrollOffset < tr.maxScrollOffset() {
		tr.scrollOffset++
	}
	if tr.scrollOffset >= tr.maxScrollOffset() {
		tr.stick = true
	}
}

// PageUp scrolls the transcript up one window.
func (tr *Transcript) PageUp() {
	tr.scrollOffset -= tr.visibleLines()
	if tr.scrollOffset < 0 {
		tr.scrollOffset = 0
	}
	tr.stick = false
}

// PageDown scrolls the transcript down one window.
func (tr *Transcript) PageDown() {
	tr.scrollOffset += tr.visibleLines()
	if tr.scrollOffset >= tr.maxScrollOffset() {
		tr.scrollOffset = tr.maxScrollOffset()
		tr.stick = true
	}
}

// ScrollToBottom jumps to the newest content and follows it again.
func (tr *Transcript) ScrollToBottom() {
	tr.scrollOffset = tr.maxScrollOffset()
	tr.stick = true
}

// AtBottom returns whether the newest content is in view.
func (tr *Transcript) AtBottom() bool {
	return tr.scrollOffset >= tr.maxScrollOffset()
}

// LineCount returns the number of rendered lines.
func (tr *Transcript) LineCount() int {
	return len(tr.lines)
}

// View renders the visible window of the transcript.
func (tr *Transcript) View() string {
	visible := tr.visibleLines()

	var out []string
	if len(tr.lines) == 0 {
		out = append(out, tr.styles.Muted.Render("No messages yet. Ask about programmes, visas or costs."))
	} else {
		end := tr.scrollOffset + visible
		if end > len(tr.lines) {
			end = len(tr.lines)
		}
		out = append(out, tr.lines[tr.scrollOffset:end]...)
	}

	// Pad so the composer and status bar stay anchored below.
	for len(out) < visible {
		out = append(out, "")
	}

	if !tr.AtBottom() {
		hidden := len(tr.lines) - (tr.scrollOffset + visible)
		out[visible-1] = tr.styles.Muted.Render(fmt.Sprintf("↓ %d more line(s)", hidden))
	}

	return strings.Join(out, "\n")
}

// rebuild re-renders the line cache from the message snapshot.
func (tr *Transcript) rebuild() {
	tr.lines = nil

	for i, msg := range tr.messages {
		if i > 0 {
			tr.lines = append(tr.lines, "")
		}
		tr.lines = append(tr.lines, tr.renderMessage(msg)...)
	}

	maxOffset := tr.maxScrollOffset()
	if tr.stick || tr.scrollOffset > maxOffset {
		tr.scrollOffset = maxOffset
	}
}

// renderMessage renders one message to styled, wrapped lines.
func (tr *Transcript) renderMessage(msg domain.Message) []string {
	var out []string

	switch msg.Role {
	case domain.RoleUser:
		out = append(out, tr.styles.UserLabel.Render("You"))
		for _, line := range tr.wrapPlain(msg.Content) {
			out = append(out, tr.styles.Normal.Render(line))
		}
		for _, att := range msg.Attachments {
			out = append(out, tr.styles.Attachment.Render("  Attached: "+att.Name))
		}
		if msg.ErrorNote != "" {
			out = append(out, tr.styles.Warning.Render("  ["+msg.ErrorNote+"]"))
		}

	case domain.RoleAssistant:
		out = append(out, tr.styles.AssistantLabel.Render("Zoe"))
		if msg.Content == "" {
			out = append(out, tr.styles.Muted.Render("..."))
		} else {
			out = append(out, tr.renderMarkdown(msg.Content)...)
		}
		if line := tr.renderSources(msg.Sources); line != "" {
			out = append(out, line)
		}
	}

	return out
}

// renderMarkdown renders assistant markdown, falling back to plain wrapping
// when the renderer cannot be built.
func (tr *Transcript) renderMarkdown(content string) []string {
	if tr.renderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(tr.contentWidth()),
		)
		if err == nil {
			tr.renderer = r
		}
	}

	if tr.renderer != nil {
		if rendered, err := tr.renderer.Render(content); err == nil {
			return strings.Split(strings.Trim(rendered, "\n"), "\n")
		}
	}

	lines := make([]string, 0, 4)
	for _, line := range tr.wrapPlain(content) {
		lines = append(lines, tr.styles.Normal.Render(line))
	}
	return lines
}

// renderSources renders the citation line under an assistant reply.
func (tr *Transcript) renderSources(sources []domain.Source) string {
	if len(sources) == 0 {
		return ""
	}

	titles := make([]string, 0, len(sources))
	for _, src := range sources {
		title := src.Title
		if title == "" {
			title = src.SourceURL
		}
		if title != "" {
			titles = append(titles, title)
		}
	}
	if len(titles) == 0 {
		return ""
	}

	return tr.styles.Source.Render("Sources: " + strings.Join(titles, ", "))
}

// wrapPlain wraps raw text to the content width.
func (tr *Transcript) wrapPlain(content string) []string {
	if content == "" {
		return nil
	}

	contentWidth := tr.contentWidth()
	rawLines := strings.Split(content, "\n")
	lines := make([]string, 0, len(rawLines))

	for _, line := range rawLines {
		if len(line) <= contentWidth {
			lines = append(lines, line)
			continue
		}
		for len(line) > contentWidth {
			lines = append(lines, line[:contentWidth])
			line = line[contentWidth:]
		}
		if line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}

// contentWidth returns the usable text width.
func (tr *Transcript) contentWidth() int {
	contentWidth := tr.width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}
	return contentWidth
}

// visibleLines returns the number of lines the window can display.
func (tr *Transcript) visibleLines() int {
	if tr.height < 1 {
		return 1
	}
	return tr.height
}

// maxScrollOffset returns the maximum scroll offset.
func (tr *Transcript) maxScrollOffset() int {
	maxOffset := len(tr.lines) - tr.visibleLines()
	if maxOffset < 0 {
		maxOffset = 0
	}
	return maxOffset
}
