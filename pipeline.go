package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-doctrans/internal/lang"
	"github.com/alnah/go-doctrans/internal/token"
)

// Mode selects the segmentation strategy for a run.
type Mode int

const (
	// ModeFlow translates budget-bounded segments of flowing prose and
	// reassembles them with boundary-tier separators.
	ModeFlow Mode = iota

	// ModeLayout translates line-oriented blocks so headers, bullets, and
	// vertical spacing survive, reassembling one line per block.
	ModeLayout
)

// RunResult is the outcome of one completed translation run.
type RunResult struct {
	// Output is the assembled translated document.
	Output string

	// Units is the number of Translation Port calls made.
	Units int

	// Warnings carries non-fatal truncation diagnostics. The output is
	// still returned; callers decide whether to surface them.
	Warnings []string
}

// Pipeline drives one document translation end to end: language resolution,
// segmentation, the strictly sequential Translation Port loop with progress
// reporting, and separator-policy assembly.
//
// Exactly one run executes at a time; the loop never pipelines because Port
// calls are assumed to hold exclusive access to a single compute device.
// No retry happens here - the first failing unit fails the whole run and
// prior units are discarded.
type Pipeline struct {
	translator Translator
	counter    token.Counter
	languages  *lang.Table
	status     *RunStatus
	budget     int
	mode       Mode
	wrapWidth  int
	onUnit     func(current, total int)
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithMode selects the segmentation strategy. Default: ModeFlow.
func WithMode(m Mode) PipelineOption {
	return func(p *Pipeline) {
		p.mode = m
	}
}

// WithTokenBudget sets the per-segment token ceiling. Default: 250.
func WithTokenBudget(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.budget = n
		}
	}
}

// WithWrapWidth sets the column width for wrapped paragraph blocks in
// layout mode. Default: 80.
func WithWrapWidth(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.wrapWidth = n
		}
	}
}

// WithStatus shares an externally owned status record, letting a poller
// observe the run while it executes on another goroutine.
func WithStatus(s *RunStatus) PipelineOption {
	return func(p *Pipeline) {
		if s != nil {
			p.status = s
		}
	}
}

// WithUnitProgress sets a callback invoked after each completed unit.
func WithUnitProgress(fn func(current, total int)) PipelineOption {
	return func(p *Pipeline) {
		p.onUnit = fn
	}
}

// NewPipeline creates a Pipeline over the given Translation Port, token
// counter, and language table.
func NewPipeline(translator Translator, counter token.Counter, table *lang.Table, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		translator: translator,
		counter:    counter,
		languages:  table,
		status:     NewRunStatus(),
		budget:     defaultTokenBudget,
		wrapWidth:  defaultWrapWidth,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Status returns the run's shared progress record.
func (p *Pipeline) Status() *RunStatus {
	return p.status
}

// Run translates a document from sourceLang to targetLang (human-readable
// names or short codes). Language resolution fails before any segmentation
// or Port call. Empty input and identical resolved tags return the input
// unchanged.
func (p *Pipeline) Run(ctx context.Context, text, sourceLang, targetLang string) (*RunResult, error) {
	src, err := p.languages.Resolve(sourceLang)
	if err != nil {
		return nil, err
	}
	tgt, err := p.languages.Resolve(targetLang)
	if err != nil {
		return nil, err
	}

	p.status.Begin()
	result, err := p.run(ctx, text, src, tgt)
	if err != nil {
		p.status.Fail(err)
		return nil, err
	}
	p.status.Finish()
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, text, src, tgt string) (*RunResult, error) {
	if text == "" || src == tgt {
		return &RunResult{Output: text}, nil
	}

	if p.mode == ModeLayout {
		return p.runLayout(ctx, text, src, tgt)
	}
	return p.runFlow(ctx, text, src, tgt)
}

// runFlow segments the document at natural boundaries and translates each
// segment, joining results with the separator of the boundary tier that
// preceded each segment in the source.
func (p *Pipeline) runFlow(ctx context.Context, text, src, tgt string) (*RunResult, error) {
	segments := NewSegmenter(p.counter, p.budget).Segment(text, src)
	if len(segments) == 0 {
		return &RunResult{Output: text}, nil
	}

	p.status.SetTotal(len(segments))

	translated := make([]string, len(segments))
	var warnings []string
	for i, seg := range segments {
		if seg.OverBudget {
			warnings = append(warnings, fmt.Sprintf(
				"segment %d/%d: single word exceeds the token budget", i+1, len(segments)))
		}

		out, unitWarnings, err := p.translateUnit(ctx, seg.Text, src, tgt)
		if err != nil {
			return nil, fmt.Errorf("segment %d/%d: %w", i+1, len(segments), err)
		}
		for _, w := range unitWarnings {
			warnings = append(warnings, fmt.Sprintf("segment %d/%d: %s", i+1, len(segments), w))
		}

		translated[i] = out
		p.advance(i+1, len(segments))
	}

	return &RunResult{
		Output:   AssembleSegments(segments, translated),
		Units:    len(segments),
		Warnings: warnings,
	}, nil
}

// runLayout classifies the document into typed blocks and translates each
// non-blank block, reconstructing the line-oriented layout: one line per
// header or bullet, wrapped lines per paragraph, an empty line per blank.
func (p *Pipeline) runLayout(ctx context.Context, text, src, tgt string) (*RunResult, error) {
	blocks := ClassifyBlocks(text)

	total := 0
	for _, b := range blocks {
		if translatable(b) {
			total++
		}
	}
	p.status.SetTotal(total)

	var lines []string
	var warnings []string
	done := 0
	for _, b := range blocks {
		if b.Kind == BlockBlank {
			lines = append(lines, "")
			continue
		}
		if !translatable(b) {
			// Malformed empty block; filtered, never dispatched.
			continue
		}

		done++
		out, unitWarnings, err := p.translateUnit(ctx, b.Text, src, tgt)
		if err != nil {
			return nil, fmt.Errorf("%s block %d/%d: %w", b.Kind, done, total, err)
		}
		for _, w := range unitWarnings {
			warnings = append(warnings, fmt.Sprintf("%s block %d/%d: %s", b.Kind, done, total, w))
		}

		if b.Kind == BlockParagraph {
			lines = append(lines, WrapText(out, p.wrapWidth)...)
		} else {
			lines = append(lines, out)
		}
		p.advance(done, total)
	}

	return &RunResult{
		Output:   strings.Join(lines, "\n"),
		Units:    total,
		Warnings: warnings,
	}, nil
}

// translateUnit performs one Port call with progress and truncation checks.
// The preview is written before the call; truncation conditions come back
// as warnings, never errors - the possibly incomplete text is still used.
func (p *Pipeline) translateUnit(ctx context.Context, unit, src, tgt string) (string, []string, error) {
	p.status.SetPreview(unit)

	var warnings []string
	if limit := p.translator.InputTokenLimit(); limit > 0 {
		if n := p.counter.Count(unit, src); n > limit {
			warnings = append(warnings, fmt.Sprintf(
				"input exceeds the backend limit (%d > %d tokens); the tail may be lost", n, limit))
		}
	}

	result, err := p.translator.Translate(ctx, unit, src, tgt)
	if err != nil {
		return "", nil, err
	}
	if result.Truncated {
		warnings = append(warnings, "generation stopped before the end-of-sequence marker; the translation may be cut off")
	}

	return result.Text, warnings, nil
}

func (p *Pipeline) advance(current, total int) {
	p.status.Advance()
	if p.onUnit != nil {
		p.onUnit(current, total)
	}
}

func translatable(b Block) bool {
	return b.Kind != BlockBlank && strings.TrimSpace(b.Text) != ""
}
