package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/studybridge/zoe-cli/internal/core/ports/driving"
	"github.com/studybridge/zoe-cli/internal/logger"
)

// version is the build version, overridden at release time via ldflags.
var version = "dev"

// Services the commands run against. The composition root injects them
// before Execute; commands guard against nil so partial wiring fails
// with a clear error instead of a panic.
var (
	chatService          driving.ChatService
	sessionService       driving.SessionService
	documentService      driving.DocumentService
	transcriptionService driving.TranscriptionService
	settingsService      driving.SettingsService
	authService          driving.AuthService
)

// verbose enables debug logging for the current invocation.
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "zoe",
	Short: "Zoe - the StudyBridge study-abroad assistant",
	Long: `Zoe is the StudyBridge assistant in your terminal.

Ask about programmes, admissions, visas and costs, attach documents to
your questions, and keep the conversation going across sessions. Replies
stream in as they are generated and cite the guidance they draw on.

Start an interactive conversation with "zoe chat", or fire a single
question with "zoe ask".`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context. Commands
// see it via cmd.Context(), so cancelling it aborts in-flight streams.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetChatService wires the conversation service.
func SetChatService(s driving.ChatService) {
	chatService = s
}

// SetSessionService wires the session lifecycle service.
func SetSessionService(s driving.SessionService) {
	sessionService = s
}

// SetDocumentService wires the document upload service.
func SetDocumentService(s driving.DocumentService) {
	documentService = s
}

// SetTranscriptionService wires the audio transcription service.
func SetTranscriptionService(s driving.TranscriptionService) {
	transcriptionService = s
}

// SetSettingsService wires the settings service.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetAuthService wires the authentication service.
func SetAuthService(s driving.AuthService) {
	authService = s
}
