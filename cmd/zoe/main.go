// Command zoe is the StudyBridge study-abroad assistant in a terminal.
// main is the composition root: it builds the driven adapters, wires
// them into the core services, injects those into the CLI and runs it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/studybridge/zoe-cli/internal/adapters/driven/auth"
	configfile "github.com/studybridge/zoe-cli/internal/adapters/driven/config/file"
	"github.com/studybridge/zoe-cli/internal/adapters/driven/notify"
	"github.com/studybridge/zoe-cli/internal/adapters/driven/offline"
	"github.com/studybridge/zoe-cli/internal/adapters/driven/platform"
	"github.com/studybridge/zoe-cli/internal/adapters/driven/storage/memory"
	"github.com/studybridge/zoe-cli/internal/adapters/driven/storage/sqlite"
	"github.com/studybridge/zoe-cli/internal/adapters/driven/watcher"
	"github.com/studybridge/zoe-cli/internal/adapters/driving/cli"
	"github.com/studybridge/zoe-cli/internal/core/ports/driven"
	"github.com/studybridge/zoe-cli/internal/core/services"
	"github.com/studybridge/zoe-cli/internal/logger"
)

// version is overridden at release time via ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolving home directory: %w", err)
	}
	stateDir := filepath.Join(home, ".zoe")

	// The session provider is both the token source for the platform
	// adapters and the auth service behind `zoe auth`.
	sessionProvider, err := auth.NewSessionProvider(auth.Config{
		AuthBase:        settings.Backend.AuthBase,
		CredentialsPath: filepath.Join(stateDir, "credentials.json"),
	})
	if err != nil {
		return fmt.Errorf("creating session provider: %w", err)
	}

	assistant, err := platform.NewAssistantService(platform.AssistantConfig{
		FunctionsBase: settings.Backend.FunctionsBase,
	}, sessionProvider)
	if err != nil {
		return fmt.Errorf("creating assistant client: %w", err)
	}

	objects, err := platform.NewStorageService(platform.StorageConfig{
		StorageBase: settings.Backend.StorageBase,
		Bucket:      settings.Backend.Bucket,
	}, sessionProvider)
	if err != nil {
		return fmt.Errorf("creating storage client: %w", err)
	}

	transcriber, err := platform.NewTranscriberService(platform.TranscriberConfig{
		FunctionsBase: settings.Backend.FunctionsBase,
	}, sessionProvider)
	if err != nil {
		return fmt.Errorf("creating transcriber client: %w", err)
	}

	// Conversation storage is SQLite; if the database cannot be opened
	// the run continues on process-local memory so chat still works.
	var (
		sessionStore driven.SessionStore
		messageStore driven.MessageStore
		uploadStore  driven.UploadStore
		conversation driven.ConversationStore
	)
	if store, err := sqlite.NewStore(""); err != nil {
		logger.Warn("SQLite unavailable, conversation state will not survive this run: %v", err)
		mem := memory.NewConversationStore()
		sessionStore = mem
		messageStore = mem
		uploadStore = memory.NewUploadStore()
		conversation = mem
	} else {
		defer store.Close() //nolint:errcheck // nothing to do on close failure
		sessionStore = store.SessionStore()
		messageStore = store.MessageStore()
		uploadStore = store.UploadStore()
		conversation = store.ConversationStore()
	}

	responder := offline.NewResponder()
	if replies, err := configfile.NewReplyStore(filepath.Join(stateDir, "replies")); err != nil {
		logger.Warn("Reply store unavailable, using embedded replies: %v", err)
	} else {
		responder.SetReplyStore(replies)
	}

	sessionService := services.NewSessionService(sessionStore, messageStore, settingsService)
	chatService := services.NewChatService(
		assistant,
		responder,
		notify.NewBell(os.Stderr),
		conversation,
		sessionProvider,
		settingsService,
	)
	documentService := services.NewDocumentService(objects, uploadStore, watcher.NewFSWatcher(), sessionService)
	transcriptionService := services.NewTranscriptionService(transcriber)

	cli.SetVersion(version)
	cli.SetChatService(chatService)
	cli.SetSessionService(sessionService)
	cli.SetDocumentService(documentService)
	cli.SetTranscriptionService(transcriptionService)
	cli.SetSettingsService(settingsService)
	cli.SetAuthService(sessionProvider)

	return cli.ExecuteContext(ctx)
}
