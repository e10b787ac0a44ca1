package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/alnah/go-doctrans/internal/extract"
	"github.com/alnah/go-doctrans/internal/lang"
	"github.com/alnah/go-doctrans/internal/token"
)

// supportedDocFormats lists input formats the translate command accepts.
var supportedDocFormats = map[string]bool{
	".pdf": true,
	".txt": true,
	".md":  true,
}

// supportedDocFormatsList returns a comma-separated list for error messages.
func supportedDocFormatsList() string {
	formats := make([]string, 0, len(supportedDocFormats))
	for ext := range supportedDocFormats {
		formats = append(formats, strings.TrimPrefix(ext, "."))
	}
	return strings.Join(formats, ", ")
}

// deriveTranslationOutput converts an input path to the translated output
// path. Example: "report.pdf" + "en" -> "report_en.txt"
func deriveTranslationOutput(inputPath, targetTag string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + "_" + targetTag + ".txt"
}

// translateCmd creates the translate command.
func translateCmd() *cobra.Command {
	var (
		output string
		from   string
		to     string
		budget int
		layout bool
		model  string
		width  int
	)

	cmd := &cobra.Command{
		Use:   "translate <document>",
		Short: "Translate a document",
		Long: `Translate a document through a bounded-context translation model.

The text is split into segments at natural boundaries (paragraph, sentence,
phrase, word) so every call fits the model's token budget, translated
sequentially, and reassembled. With --layout, translation goes line by line
instead, preserving headers, bullet lists, and vertical spacing.

Supported formats: pdf, txt, md`,
		Example: `  doctrans translate report.pdf --from portuguese --to english
  doctrans translate notes.txt --from pt --to en -o notes_en.txt
  doctrans translate slides.txt --from es --to en --layout
  doctrans translate thesis.pdf --from fr --to en --budget 400`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, args[0], output, from, to, budget, layout, model, width)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: <input>_<target>.txt)")
	cmd.Flags().StringVar(&from, "from", "", "Source language name or code (required)")
	cmd.Flags().StringVar(&to, "to", "", "Target language name or code (required)")
	cmd.Flags().IntVar(&budget, "budget", 0, "Token budget per segment (default: from config, 250)")
	cmd.Flags().BoolVar(&layout, "layout", false, "Preserve line-oriented layout (headers, bullets)")
	cmd.Flags().StringVar(&model, "model", "", "Translation model (default: from config)")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap width for --layout paragraphs (default: from config, 80)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// runTranslate executes the translation pipeline.
// Validation order: file exists -> format -> languages -> budget -> API key
func runTranslate(cmd *cobra.Command, inputPath, output, from, to string, budget int, layout bool, model string, width int) error {
	ctx := cmd.Context()

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	if budget == 0 {
		budget = cfg.Budget
	}
	if model == "" {
		model = cfg.Model
	}
	if width == 0 {
		width = cfg.WrapWidth
	}

	// === VALIDATION (fail-fast) ===

	// 1. File exists
	if _, err := os.Stat(inputPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, inputPath)
		}
		return fmt.Errorf("cannot access input file: %w", err)
	}

	// 2. Format supported
	ext := strings.ToLower(filepath.Ext(inputPath))
	if !supportedDocFormats[ext] {
		return fmt.Errorf("unsupported format %q (supported: %s): %w",
			ext, supportedDocFormatsList(), ErrUnsupportedFormat)
	}

	// 3. Languages resolve - fail before any expensive work
	table := lang.ISO639()
	if _, err := table.Resolve(from); err != nil {
		return err
	}
	targetTag, err := table.Resolve(to)
	if err != nil {
		return err
	}

	// 4. Budget sane
	if budget <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBudget, budget)
	}

	// 5. Output path (derive if not specified, existence check deferred to O_EXCL)
	if output == "" {
		output = deriveTranslationOutput(inputPath, targetTag)
	}

	// 6. API key present
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("%w (set it with: export OPENAI_API_KEY=sk-...)", ErrAPIKeyMissing)
	}

	// === READ INPUT ===

	text, err := readDocument(inputPath, ext)
	if err != nil {
		return err
	}
	text = extract.Clean(text)

	// === TRANSLATE ===

	counter := newCounter()
	translator := NewOpenAITranslator(openai.NewClient(apiKey), table,
		WithTranslateModel(model))

	opts := []PipelineOption{
		WithTokenBudget(budget),
		WithWrapWidth(width),
		WithUnitProgress(func(current, total int) {
			fmt.Fprintf(os.Stderr, "Unit %d/%d done\n", current, total)
		}),
	}
	if layout {
		opts = append(opts, WithMode(ModeLayout))
	}
	pipeline := NewPipeline(translator, counter, table, opts...)

	fmt.Fprintln(os.Stderr, "Translating...")
	result, err := pipeline.Run(ctx, text, from, to)
	if err != nil {
		return err
	}

	warn := color.New(color.FgYellow)
	for _, warning := range result.Warnings {
		warn.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}

	// === WRITE OUTPUT ===

	// Use O_EXCL to atomically check existence and create file.
	f, err := os.OpenFile(output, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("output file already exists: %s: %w", output, ErrOutputExists)
		}
		return fmt.Errorf("cannot create output file: %w", err)
	}

	writeErr := func() error {
		defer f.Close()
		if _, err := f.WriteString(result.Output); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}()
	if writeErr != nil {
		_ = os.Remove(output)
		return writeErr
	}

	color.New(color.FgGreen).Fprintf(os.Stderr, "Done: %s\n", output)
	return nil
}

// readDocument loads the input text, extracting from PDF when needed.
func readDocument(path, ext string) (string, error) {
	if ext == ".pdf" {
		return extract.PDFText(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot read input: %w", err)
	}
	return string(data), nil
}

// newCounter returns the token oracle: a real BPE tokenizer when its
// encoding loads, otherwise the heuristic estimator.
func newCounter() token.Counter {
	counter, err := token.NewTiktoken("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: tokenizer unavailable (%v), using heuristic estimate\n", err)
		return token.Estimator{}
	}
	return counter
}
