// Command fiber renders, watches and inspects scene files.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/fiber/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┬┌┐ ┌─┐┬─┐
  ├┤ │├┴┐├┤ ├┬┘
  └  ┴└─┘└─┘┴└─
`

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configDir string
	logLevel  string
	logJSON   bool
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "fiber",
		Short: "Render and inspect scenes with the incremental reconciler",
		Long: `fiber drives the incremental reconciler from YAML scene files.

Scenes declare an element tree and scripted events. fiber renders them
into an in-memory host, reports every host mutation and can:

  • Snapshot committed trees to disk or S3
  • Re-render scenes as they change on disk
  • Serve a devtools API with live commit events and metrics`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configDir, "config", "c", "", "Directory holding fiber.json (default: search upward from the working directory)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from fiber.json)")
	rootCmd.PersistentFlags().BoolVar(&flags.logJSON, "log-json", false, "Log as JSON")

	rootCmd.AddCommand(
		renderCmd(&flags),
		watchCmd(&flags),
		inspectCmd(&flags),
		versionCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

// printBanner prints the ASCII art banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
