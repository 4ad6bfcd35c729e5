package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/studybridge/zoe-cli/internal/core/domain"
)

// askAttach collects --attach values; each is uploaded before the
// question is sent.
var askAttach []string

var (
	noticeColour = color.New(color.FgYellow)
	sourceColour = color.New(color.FgCyan)
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask Zoe a single question",
	Long: `Ask Zoe a single question and stream the reply to the terminal.

The reply prints as it is generated and keeps the context of the current
session, so follow-up questions work across invocations. Citations, when
the assistant provides them, are listed after the reply.

Attach documents to the question with --attach (repeatable).

Examples:
  zoe ask "How long does a UK student visa usually take?"
  zoe ask -a transcript.pdf "Does this transcript meet Masters entry requirements?"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringArrayVarP(&askAttach, "attach", "a", nil, "Attach a document to the question (repeatable)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	ctx := cmd.Context()

	attachments, err := uploadAttachments(ctx, cmd, askAttach)
	if err != nil {
		return err
	}

	// Subscribe before sending so the first state change is never missed.
	updates := chatService.Updates()

	if err := chatService.Send(ctx, args[0], attachments); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return streamReply(ctx, cmd, updates)
}

// uploadAttachments stores the given files and converts them to
// message attachments.
func uploadAttachments(ctx context.Context, cmd *cobra.Command, paths []string) ([]domain.Attachment, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if documentService == nil {
		return nil, errors.New("document service not configured")
	}

	uploads, err := documentService.Upload(ctx, paths)
	if err != nil {
		return nil, fmt.Errorf("failed to upload attachments: %w", err)
	}

	attachments := make([]domain.Attachment, 0, len(uploads))
	for _, u := range uploads {
		cmd.Printf("Attached %s (%s)\n", u.Name, formatSize(u.Size))
		attachments = append(attachments, u.Attachment())
	}
	return attachments, nil
}

// streamReply drains update signals until the turn resolves, printing
// reply text as it arrives.
func streamReply(ctx context.Context, cmd *cobra.Command, updates <-chan struct{}) error {
	printed := 0

	for {
		select {
		case <-ctx.Done():
			chatService.Cancel()
			return ctx.Err()
		case <-updates:
		}

		switch chatService.Phase() {
		case domain.TurnCompleted:
			printReplyDelta(cmd, &printed)
			if printed > 0 {
				cmd.Println()
			}
			printSources(cmd)
			return nil

		case domain.TurnFailed:
			// The offline reply replaces any partial stream, so print
			// it whole on a fresh paragraph rather than as a delta.
			if printed > 0 {
				cmd.Println()
				cmd.Println()
			}
			printNotice(cmd)
			if reply := lastAssistantMessage(chatService.Messages()); reply != nil {
				cmd.Println(reply.Content)
			}
			return nil

		case domain.TurnAwaitingRetry:
			if printed > 0 {
				cmd.Println()
			}
			return errors.New(`sign-in expired: run "zoe auth login", then ask again`)

		default:
			printReplyDelta(cmd, &printed)
		}
	}
}

// printReplyDelta prints reply text beyond what has been printed.
// Stream deltas only ever append, so the printed prefix stays valid.
func printReplyDelta(cmd *cobra.Command, printed *int) {
	reply := lastAssistantMessage(chatService.Messages())
	if reply == nil || len(reply.Content) <= *printed {
		return
	}
	cmd.Print(reply.Content[*printed:])
	*printed = len(reply.Content)
}

func printSources(cmd *cobra.Command) {
	reply := lastAssistantMessage(chatService.Messages())
	if reply == nil || len(reply.Sources) == 0 {
		return
	}

	cmd.Println()
	cmd.Println(sourceColour.Sprint("Sources:"))
	for i, src := range reply.Sources {
		cmd.Printf("  %d. %s\n", i+1, src.Title)
		if src.SourceURL != "" {
			cmd.Printf("     %s\n", src.SourceURL)
		}
	}
}

func printNotice(cmd *cobra.Command) {
	notice := chatService.Notice()
	if notice == nil {
		return
	}
	cmd.Println(noticeColour.Sprint(notice.Text))
	cmd.Println()
}

func lastAssistantMessage(msgs []domain.Message) *domain.Message {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == domain.RoleAssistant {
			return &msgs[i]
		}
	}
	return nil
}

// formatSize renders a byte count for display.
func formatSize(size int64) string {
	switch {
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}
