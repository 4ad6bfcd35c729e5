package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage document uploads",
	Long:  `Upload documents for the assistant to reference, list past uploads, or watch a folder.`,
}

var docsUploadCmd = &cobra.Command{
	Use:   "upload [files...]",
	Short: "Upload documents to the platform",
	Long: `Upload one or more documents to platform storage. Uploaded documents
can be attached to questions so the assistant can take them into account.

Files upload concurrently; the first failure aborts the batch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDocsUpload,
}

var docsWatchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Auto-upload new files from a directory",
	Long: `Watch a directory and upload every accepted document that appears in
it. Useful next to a scanner output folder or a downloads directory.
Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocsWatch,
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List this session's uploads",
	RunE:  runDocsList,
}

var docsTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "Show accepted document types",
	RunE:  runDocsTypes,
}

func init() {
	docsCmd.AddCommand(docsUploadCmd)
	docsCmd.AddCommand(docsWatchCmd)
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsTypesCmd)
	rootCmd.AddCommand(docsCmd)
}

func runDocsUpload(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	uploads, err := documentService.Upload(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	for i := range uploads {
		cmd.Printf("  %s (%s, %s)\n", uploads[i].Name, uploads[i].MIMEType, formatSize(uploads[i].Size))
		cmd.Printf("    %s\n", uploads[i].URL)
	}

	cmd.Printf("\nUploaded %d document(s)\n", len(uploads))
	return nil
}

func runDocsWatch(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	dir := args[0]
	cmd.Printf("Watching %s for new documents. Press Ctrl+C to stop.\n", dir)

	if err := documentService.Watch(cmd.Context(), dir); err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}

	return nil
}

func runDocsList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	uploads, err := documentService.Uploads(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list uploads: %w", err)
	}

	if len(uploads) == 0 {
		cmd.Println("No uploads in this session yet.")
		return nil
	}

	cmd.Println("Uploads (newest first):")
	cmd.Println()
	for i := range uploads {
		cmd.Printf("  %s (%s, %s)\n", uploads[i].Name, uploads[i].MIMEType, formatSize(uploads[i].Size))
		cmd.Printf("    Uploaded: %s\n", uploads[i].CreatedAt.Local().Format("2006-01-02 15:04"))
		cmd.Printf("    %s\n", uploads[i].URL)
		cmd.Println()
	}

	cmd.Printf("Total: %d upload(s)\n", len(uploads))
	return nil
}

func runDocsTypes(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	cmd.Println("Accepted document types:")
	for _, mime := range documentService.AllowedTypes() {
		cmd.Printf("  %s\n", mime)
	}
	return nil
}
