package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/studybridge/zoe-cli/internal/adapters/driving/tui"
	"github.com/studybridge/zoe-cli/internal/core/domain"
)

// chatAttach collects --attach values; each is uploaded and staged on
// the first message before the interface starts.
var chatAttach []string

// chatCmd represents the chat command.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Start an interactive conversation with Zoe in a full-screen
terminal interface.

Replies stream in as they are generated, citations appear under each
answer, and the conversation picks up where the last one left off.
Documents given with --attach (repeatable) are uploaded first and
attached to the first message.

Controls:
  Enter     - Send message
  Ctrl+A    - Attach a document
  Ctrl+R    - Transcribe a voice recording
  Ctrl+N    - New session
  Esc       - Cancel the in-flight reply
  Up/Down   - Scroll the transcript
  Ctrl+C    - Quit`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringArrayVarP(&chatAttach, "attach", "a", nil, "Attach a document to the first message (repeatable)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	// Panic recovery so a UI crash leaves a stack trace, not a
	// corrupted terminal.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat UI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	// Upload --attach files before the interface takes the terminal,
	// so validation errors print normally.
	var staged []domain.Upload
	if len(chatAttach) > 0 {
		if documentService == nil {
			return errors.New("document service not configured")
		}
		var err error
		staged, err = documentService.Upload(cmd.Context(), chatAttach)
		if err != nil {
			return fmt.Errorf("failed to upload attachments: %w", err)
		}
	}

	ports := &tui.Ports{
		Chat:          chatService,
		Sessions:      sessionService,
		Documents:     documentService,
		Transcription: transcriptionService,
		Settings:      settingsService,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create chat UI: %w", err)
	}

	app.WithContext(cmd.Context())
	if len(staged) > 0 {
		app.WithStagedUploads(staged)
	}

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}

	return nil
}
