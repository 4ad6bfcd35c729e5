package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studybridge/zoe-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure who replies are written for, the reply language,
notifications, history and the backend endpoints.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsAudienceCmd = &cobra.Command{
	Use:   "audience [student|agent|partner|admin]",
	Short: "Set who replies are written for",
	Long: `Set the audience replies are written for.

Available audiences:
  student - an applicant researching programmes
  agent   - a recruitment agent managing applicants
  partner - a partner institution representative
  admin   - a platform administrator`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsAudience,
}

var settingsLocaleCmd = &cobra.Command{
	Use:   "locale [tag]",
	Short: "Set the reply language",
	Long:  `Set the BCP 47 language tag assistant replies are requested in, e.g. en, es, pt-BR.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsLocale,
}

var settingsSoundCmd = &cobra.Command{
	Use:   "sound [on|off]",
	Short: "Toggle the reply notification sound",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsSound,
}

var settingsHistoryCmd = &cobra.Command{
	Use:   "history [on|off]",
	Short: "Toggle local transcript storage",
	Long: `Toggle persisting conversations to the local store. With history off,
transcripts live only for the lifetime of the process.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsHistory,
}

// Backend endpoint flags; only the given ones are changed.
var (
	backendFunctionsBase string
	backendStorageBase   string
	backendAuthBase      string
	backendBucket        string
)

var settingsBackendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Configure backend endpoints",
	Long: `Point Zoe at a different backend deployment. Only the endpoints given
as flags are changed; the rest keep their current values.`,
	RunE: runSettingsBackend,
}

func init() {
	settingsBackendCmd.Flags().StringVar(&backendFunctionsBase, "functions-base", "", "Base URL for serverless functions")
	settingsBackendCmd.Flags().StringVar(&backendStorageBase, "storage-base", "", "Base URL for object storage")
	settingsBackendCmd.Flags().StringVar(&backendAuthBase, "auth-base", "", "Base URL for the token service")
	settingsBackendCmd.Flags().StringVar(&backendBucket, "bucket", "", "Bucket documents are uploaded to")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsAudienceCmd)
	settingsCmd.AddCommand(settingsLocaleCmd)
	settingsCmd.AddCommand(settingsSoundCmd)
	settingsCmd.AddCommand(settingsHistoryCmd)
	settingsCmd.AddCommand(settingsBackendCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Chat]")
	cmd.Printf("  Audience: %s\n", settings.Chat.Audience.Description())
	cmd.Printf("  Locale:   %s\n", settings.Chat.Locale)
	cmd.Printf("  Sound:    %s\n", onOff(settings.Chat.Sound))
	cmd.Printf("  History:  %s\n", onOff(settings.Chat.History))
	cmd.Println()

	cmd.Println("[Backend]")
	cmd.Printf("  Functions: %s\n", settings.Backend.FunctionsBase)
	cmd.Printf("  Storage:   %s\n", settings.Backend.StorageBase)
	cmd.Printf("  Auth:      %s\n", settings.Backend.AuthBase)
	cmd.Printf("  Bucket:    %s\n", settings.Backend.Bucket)
	status := "configured"
	if !settings.Backend.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status:    %s\n", status)

	return nil
}

func runSettingsAudience(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	audience := domain.Audience(strings.ToLower(args[0]))
	if !audience.IsValid() {
		return fmt.Errorf("unknown audience %q (expected student, agent, partner or admin)", args[0])
	}

	if err := settingsService.SetAudience(audience); err != nil {
		return fmt.Errorf("failed to set audience: %w", err)
	}

	cmd.Printf("Audience set to %s\n", audience.Description())
	return nil
}

func runSettingsLocale(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	locale := strings.TrimSpace(args[0])
	if err := settingsService.SetLocale(locale); err != nil {
		return fmt.Errorf("failed to set locale: %w", err)
	}

	cmd.Printf("Locale set to %s\n", locale)
	return nil
}

func runSettingsSound(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	enabled, err := parseOnOff(args[0])
	if err != nil {
		return err
	}

	if err := settingsService.SetSound(enabled); err != nil {
		return fmt.Errorf("failed to set sound: %w", err)
	}

	cmd.Printf("Sound %s\n", onOff(enabled))
	return nil
}

func runSettingsHistory(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	enabled, err := parseOnOff(args[0])
	if err != nil {
		return err
	}

	if err := settingsService.SetHistory(enabled); err != nil {
		return fmt.Errorf("failed to set history: %w", err)
	}

	cmd.Printf("History %s\n", onOff(enabled))
	return nil
}

func runSettingsBackend(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if backendFunctionsBase == "" && backendStorageBase == "" && backendAuthBase == "" && backendBucket == "" {
		return errors.New("nothing to change: pass at least one of --functions-base, --storage-base, --auth-base, --bucket")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if backendFunctionsBase != "" {
		settings.Backend.FunctionsBase = strings.TrimRight(backendFunctionsBase, "/")
	}
	if backendStorageBase != "" {
		settings.Backend.StorageBase = strings.TrimRight(backendStorageBase, "/")
	}
	if backendAuthBase != "" {
		settings.Backend.AuthBase = strings.TrimRight(backendAuthBase, "/")
	}
	if backendBucket != "" {
		settings.Backend.Bucket = backendBucket
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Backend endpoints updated. Changes take effect on the next run.")
	return nil
}

// Helper functions.

func parseOnOff(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", value)
	}
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}
