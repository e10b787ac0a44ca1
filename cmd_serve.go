package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-doctrans/internal/lang"
)

// serveCmd creates the serve command.
func serveCmd() *cobra.Command {
	var (
		addr      string
		uploadDir string
		budget    int
		model     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web front end",
		Long: `Run a local web server for uploading a PDF, following translation
progress, and downloading the result.

One document translates at a time; uploads during an active run are
rejected with 409.`,
		Example: `  doctrans serve
  doctrans serve --addr 0.0.0.0:8080 --budget 400`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), addr, uploadDir, budget, model)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: from config, 127.0.0.1:5000)")
	cmd.Flags().StringVar(&uploadDir, "upload-dir", "", "Directory for uploads and results (default: temp dir)")
	cmd.Flags().IntVar(&budget, "budget", 0, "Token budget per segment (default: from config, 250)")
	cmd.Flags().StringVar(&model, "model", "", "Translation model (default: from config)")

	return cmd
}

func runServe(ctx context.Context, addr, uploadDir string, budget int, model string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Addr
	}
	if budget == 0 {
		budget = cfg.Budget
	}
	if model == "" {
		model = cfg.Model
	}
	if budget <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBudget, budget)
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("%w (set it with: export OPENAI_API_KEY=sk-...)", ErrAPIKeyMissing)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("cannot create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	table := lang.ISO639()
	counter := newCounter()
	client := openai.NewClient(apiKey)

	factory := func(status *RunStatus) *Pipeline {
		translator := NewOpenAITranslator(client, table, WithTranslateModel(model))
		return NewPipeline(translator, counter, table,
			WithTokenBudget(budget),
			WithStatus(status))
	}

	server, err := NewServer(logger, table, factory, WithUploadDir(uploadDir))
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("listening", zap.String("addr", addr))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
