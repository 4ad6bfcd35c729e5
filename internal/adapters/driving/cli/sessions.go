package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studybridge/zoe-cli/internal/core/domain"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage conversation sessions",
	Long: `Show, reset or list conversation sessions and their stored
transcripts. A session groups the messages of one conversation; resetting
starts a fresh one without deleting earlier transcripts.`,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current session",
	RunE:  runSessionsShow,
}

var sessionsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Start a fresh session",
	Long:  `Rotate to a fresh session. Earlier sessions and their transcripts remain until history is cleared.`,
	RunE:  runSessionsReset,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions",
	RunE:  runSessionsList,
}

var sessionsHistoryCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "Print a stored transcript",
	Long:  `Print the stored transcript for a session, oldest message first. Without an argument the current session is used.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSessionsHistory,
}

var sessionsClearCmd = &cobra.Command{
	Use:   "clear [session-id]",
	Short: "Delete a stored transcript",
	Long:  `Delete the stored transcript for a session. Without an argument the current session is cleared.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSessionsClear,
}

func init() {
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsResetCmd)
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsHistoryCmd)
	sessionsCmd.AddCommand(sessionsClearCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func runSessionsShow(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	session, err := sessionService.Current(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	printSession(cmd, session)
	return nil
}

func runSessionsReset(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	session, err := sessionService.Reset(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}

	cmd.Println("Started a fresh session.")
	printSession(cmd, session)
	return nil
}

func runSessionsList(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	sessions, err := sessionService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		cmd.Println("No stored sessions.")
		return nil
	}

	cmd.Println("Sessions (newest first):")
	cmd.Println()
	for i := range sessions {
		cmd.Printf("  %s\n", sessions[i].ID)
		cmd.Printf("    Audience: %s\n", sessions[i].Audience.Description())
		cmd.Printf("    Opened:   %s\n", sessions[i].CreatedAt.Local().Format("2006-01-02 15:04"))
		cmd.Println()
	}

	cmd.Printf("Total: %d session(s)\n", len(sessions))
	return nil
}

func runSessionsHistory(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	sessionID := ""
	if len(args) == 1 {
		sessionID = args[0]
	}

	msgs, err := sessionService.History(cmd.Context(), sessionID)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if len(msgs) == 0 {
		cmd.Println("No messages in this session yet.")
		return nil
	}

	for i := range msgs {
		printTranscriptMessage(cmd, &msgs[i])
	}

	cmd.Printf("Total: %d message(s)\n", len(msgs))
	return nil
}

func runSessionsClear(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	sessionID := ""
	if len(args) == 1 {
		sessionID = args[0]
	}

	if err := sessionService.ClearHistory(cmd.Context(), sessionID); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	cmd.Println("Transcript cleared.")
	return nil
}

func printSession(cmd *cobra.Command, session *domain.Session) {
	cmd.Printf("Session: %s\n\n", session.ID)
	cmd.Printf("  Audience: %s\n", session.Audience.Description())
	cmd.Printf("  Locale:   %s\n", session.Locale)
	cmd.Printf("  Opened:   %s\n", session.CreatedAt.Local().Format("2006-01-02 15:04"))
}

func printTranscriptMessage(cmd *cobra.Command, msg *domain.Message) {
	speaker := "You"
	if msg.Role == domain.RoleAssistant {
		speaker = "Zoe"
	}

	cmd.Printf("%s (%s):\n", speaker, msg.CreatedAt.Local().Format("2006-01-02 15:04"))
	for _, line := range strings.Split(msg.Content, "\n") {
		cmd.Printf("  %s\n", line)
	}
	for _, att := range msg.Attachments {
		cmd.Printf("  Attached: %s\n", att.Name)
	}
	if msg.ErrorNote != "" {
		cmd.Printf("  [%s]\n", msg.ErrorNote)
	}
	cmd.Println()
}
