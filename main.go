package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alnah/go-doctrans/internal/lang"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitGeneral     = 1
	ExitUsage       = 2
	ExitSetup       = 3
	ExitValidation  = 4
	ExitTranslation = 5
	ExitInterrupt   = 130
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	// Context with signal cancellation.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := &cobra.Command{
		Use:     "doctrans",
		Short:   "Translate long documents through a bounded-context model",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(translateCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(languagesCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	if errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}

	if errors.Is(err, ErrAPIKeyMissing) {
		return ExitSetup
	}
	if errors.Is(err, ErrFileNotFound) || errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrOutputExists) || errors.Is(err, ErrInvalidBudget) ||
		errors.Is(err, lang.ErrUnsupported) {
		return ExitValidation
	}
	if errors.Is(err, ErrRateLimit) || errors.Is(err, ErrQuotaExceeded) ||
		errors.Is(err, ErrTimeout) || errors.Is(err, ErrAuthFailed) {
		return ExitTranslation
	}

	return ExitGeneral
}
