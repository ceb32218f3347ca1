package command

// root.go defines the root command and the global flags.

import (
	"context"
	"fmt"
	"os"
	"time"

	"coursehub/cmd/cli/authentication"
	"coursehub/cmd/cli/command/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	apiURL  string        // Global flag for API server URL
	timeout time.Duration // per-command request timeout
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "coursehub",
	Short: "coursehub - CourseHub Command Line Interface",
	Long: `coursehub talks to the CourseHub API. Use it to:
- Register and log in
- Browse and enroll in courses
- Track lesson progress
- Keep timestamped notes on lessons

Use "coursehub command -h" to see all available commands.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultURL := os.Getenv("COURSEHUB_API")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}

	// Global persistent flags = available to all subcommands
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultURL, "API server URL (env COURSEHUB_API)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")

	rootCmd.AddCommand(authCmd, courseCmd, progressCmd, notesCmd)
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

// GetAuthenticatedClient returns a client carrying the stored access token.
func GetAuthenticatedClient() (*client.HTTPClient, error) {
	creds, err := authentication.GetTokens()
	if err != nil {
		return nil, err
	}
	c := client.NewHTTPClient(apiURL)
	c.SetToken(creds.AccessToken)
	return c, nil
}

var (
	okColor   = color.New(color.FgGreen)
	dimColor  = color.New(color.FgHiBlack)
	headColor = color.New(color.FgCyan, color.Bold)
)

func success(cmd *cobra.Command, format string, args ...any) {
	okColor.Fprintf(cmd.OutOrStdout(), "✓ "+format+"\n", args...)
}
