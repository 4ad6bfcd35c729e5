package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studybridge/zoe-cli/internal/core/domain"
)

// Settings Command Tests

func TestSettingsCmd_Use(t *testing.T) {
	assert.Equal(t, "settings", settingsCmd.Use)
}

func TestSettingsCmd_HasSubcommands(t *testing.T) {
	commands := settingsCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "show")
	assert.Contains(t, commandNames, "audience")
	assert.Contains(t, commandNames, "locale")
	assert.Contains(t, commandNames, "sound")
	assert.Contains(t, commandNames, "history")
	assert.Contains(t, commandNames, "backend")
}

// Settings Show Tests

func TestSettingsShowCmd_DisplaysSettings(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "Current Settings")
	assert.Contains(t, output, "[Chat]")
	assert.Contains(t, output, "Student (applicant)")
	assert.Contains(t, output, "[Backend]")
	assert.Contains(t, output, "https://api.studybridge.io/functions/v1")
	assert.Contains(t, output, "Status:    configured")
}

func TestSettingsCmd_DefaultsToShow(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Current Settings")
}

func TestSettingsShowCmd_Error(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	settingsService.(*mockSettingsService).GetErr = errors.New("config unreadable")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get settings")
}

func TestSettingsCmd_ServiceNotConfigured(t *testing.T) {
	oldSettings := settingsService
	settingsService = nil
	defer func() { settingsService = oldSettings }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}

// Settings Audience Tests

func TestSettingsAudienceCmd_SetsAudience(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "audience", "agent"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Audience set to Agent (recruitment partner)")
	assert.Equal(t, domain.AudienceAgent, settingsService.(*mockSettingsService).settings.Chat.Audience)
}

func TestSettingsAudienceCmd_NormalisesCase(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "audience", "Partner"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, domain.AudiencePartner, settingsService.(*mockSettingsService).settings.Chat.Audience)
}

func TestSettingsAudienceCmd_RejectsUnknown(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "audience", "alumni"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown audience")
}

// Settings Locale Tests

func TestSettingsLocaleCmd_SetsLocale(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "locale", "pt-BR"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Locale set to pt-BR")
	assert.Equal(t, "pt-BR", settingsService.(*mockSettingsService).settings.Chat.Locale)
}

// Settings Sound Tests

func TestSettingsSoundCmd_TurnsOff(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "sound", "off"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Sound off")
	assert.False(t, settingsService.(*mockSettingsService).settings.Chat.Sound)
}

func TestSettingsSoundCmd_RejectsInvalidValue(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "sound", "loud"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "expected on or off")
}

// Settings History Tests

func TestSettingsHistoryCmd_TurnsOff(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "history", "off"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "History off")
	assert.False(t, settingsService.(*mockSettingsService).settings.Chat.History)
}

// Settings Backend Tests

func TestSettingsBackendCmd_RequiresAFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "backend"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to change")
}

func TestSettingsBackendCmd_UpdatesGivenEndpoints(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{
		"settings", "backend",
		"--functions-base", "https://selfhost.example.com/functions/v1/",
		"--bucket", "my-uploads",
	})
	defer func() {
		rootCmd.SetArgs(nil)
		backendFunctionsBase = ""
		backendStorageBase = ""
		backendAuthBase = ""
		backendBucket = ""
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	saved := settingsService.(*mockSettingsService).settings.Backend

	// Trailing slash is trimmed, untouched endpoints keep defaults
	assert.Equal(t, "https://selfhost.example.com/functions/v1", saved.FunctionsBase)
	assert.Equal(t, "my-uploads", saved.Bucket)
	assert.Equal(t, "https://api.studybridge.io/storage/v1", saved.StorageBase)
	assert.Contains(t, buf.String(), "Backend endpoints updated.")
}

// Helper Tests

func TestParseOnOff(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
		wantErr  bool
	}{
		{"on", "on", true, false},
		{"off", "off", false, false},
		{"true", "true", true, false},
		{"false", "false", false, false},
		{"yes", "yes", true, false},
		{"no", "no", false, false},
		{"one", "1", true, false},
		{"zero", "0", false, false},
		{"mixed case", "ON", true, false},
		{"padded", " off ", false, false},
		{"invalid", "loud", false, true},
		{"empty", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseOnOff(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestOnOff(t *testing.T) {
	assert.Equal(t, "on", onOff(true))
	assert.Equal(t, "off", onOff(false))
}
