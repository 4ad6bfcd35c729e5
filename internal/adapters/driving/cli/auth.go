package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// authEmail is the --email flag for login; prompted for when omitted.
var authEmail string

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage StudyBridge sign-in",
	Long:  `Sign in to your StudyBridge account, check who is signed in, or sign out.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to StudyBridge",
	Long: `Sign in with your StudyBridge account email and password.

Session tokens are cached locally and refreshed automatically, so you
only sign in again when the refresh token expires.`,
	RunE: runAuthLogin,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the signed-in account",
	RunE:  runAuthStatus,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard cached tokens",
	RunE:  runAuthLogout,
}

func init() {
	authLoginCmd.Flags().StringVarP(&authEmail, "email", "e", "", "Account email (prompted for when omitted)")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	// One reader for both prompts; a fresh reader per prompt would
	// drop input buffered past the first line.
	reader := bufio.NewReader(cmd.InOrStdin())

	email := strings.TrimSpace(authEmail)
	if email == "" {
		cmd.Print("Email: ")
		email = readLine(reader)
	}
	if email == "" {
		return errors.New("email is required")
	}

	cmd.Print("Password: ")
	password := readPassword(reader)
	cmd.Println()
	if password == "" {
		return errors.New("password is required")
	}

	if err := authService.Login(cmd.Context(), email, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cmd.Printf("Signed in as %s\n", email)
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	if !authService.IsAuthenticated() {
		cmd.Println("Not signed in. Run \"zoe auth login\" to sign in.")
		return nil
	}

	cmd.Printf("Signed in as %s\n", authService.Identity())
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	if err := authService.Logout(); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	cmd.Println("Signed out.")
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func readPassword(reader *bufio.Reader) string {
	// Read without echo when attached to a terminal
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	return readLine(reader)
}
