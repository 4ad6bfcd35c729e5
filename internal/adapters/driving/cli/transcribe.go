package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [audio-file]",
	Short: "Transcribe a voice recording to text",
	Long: `Transcribe a local audio recording to text via the platform.

Useful for turning a recorded question into text before sending it:

  zoe ask "$(zoe transcribe question.m4a)"`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

func init() {
	rootCmd.AddCommand(transcribeCmd)
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	if transcriptionService == nil {
		return errors.New("transcription service not configured")
	}

	text, err := transcriptionService.TranscribeFile(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	cmd.Println(text)
	return nil
}
