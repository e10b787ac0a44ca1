package main

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/alnah/go-doctrans/internal/token"
)

// =============================================================================
// Boundary splitting helpers
// =============================================================================

func TestSplitSentences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "two_sentences",
			text: "First one ends here. Second one follows.",
			want: []string{"First one ends here.", "Second one follows."},
		},
		{
			name: "exclamation_and_question",
			text: "Really! Are you sure? Yes.",
			want: []string{"Really!", "Are you sure?", "Yes."},
		},
		{
			name: "abbreviation_before_lowercase_not_split",
			text: "See art. 5 of the code. Then continue.",
			want: []string{"See art. 5 of the code.", "Then continue."},
		},
		{
			name: "accented_uppercase_continuation",
			text: "O prazo terminou. Última chance de recurso.",
			want: []string{"O prazo terminou.", "Última chance de recurso."},
		},
		{
			name: "fallback_without_capitalized_continuation",
			text: "um. dois. três.",
			want: []string{"um.", "dois.", "três."},
		},
		{
			name: "no_boundary_single_piece",
			text: "no terminal punctuation at all",
			want: []string{"no terminal punctuation at all"},
		},
		{
			name: "newline_counts_as_whitespace",
			text: "End of line.\nNext line starts.",
			want: []string{"End of line.", "Next line starts."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := splitSentences(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitSentences(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestSplitAfterPhrases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"comma", "first part, second part", []string{"first part,", "second part"}},
		{"semicolon_and_colon", "a; b: c", []string{"a;", "b:", "c"}},
		{"no_boundary", "nothing here", []string{"nothing here"}},
		{"punctuation_without_space", "1,000 items", []string{"1,000 items"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := splitAfter(tt.text, phraseBoundaryRe)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitAfter(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestTierSeparator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tier Tier
		want string
	}{
		{TierDocument, "\n\n"},
		{TierParagraph, "\n\n"},
		{TierSentence, " "},
		{TierPhrase, " "},
		{TierWord, " "},
	}

	for _, tt := range tests {
		t.Run(tt.tier.String(), func(t *testing.T) {
			t.Parallel()
			assertEqual(t, tt.tier.Separator(), tt.want)
		})
	}
}

// =============================================================================
// Segmentation
// =============================================================================

func TestSegmentWholeTextFitsBudget(t *testing.T) {
	t.Parallel()

	s := NewSegmenter(wordCounter{}, 10)
	// Two 4-token sentences separated by a line break: 8 tokens total.
	text := "One two three four.\nFive six seven eight."

	segs := s.Segment(text, "pt")

	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d: %v", len(segs), segs)
	}
	assertEqual(t, segs[0].Text, text)
	assertEqual(t, segs[0].Tier, TierDocument)
}

func TestSegmentSplitsAtSentenceBoundaryWithinParagraph(t *testing.T) {
	t.Parallel()

	s := NewSegmenter(wordCounter{}, 6)
	text := "One two three four.\nFive six seven eight."

	segs := s.Segment(text, "pt")

	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d: %v", len(segs), segs)
	}
	assertEqual(t, segs[0].Text, "One two three four.")
	assertEqual(t, segs[1].Text, "Five six seven eight.")
	for i, seg := range segs {
		if n := (wordCounter{}).Count(seg.Text, "pt"); n > 6 {
			t.Errorf("segment %d has %d tokens, budget 6", i, n)
		}
	}

	// The split happened within one paragraph, so reassembly uses the
	// sentence-tier separator, not a paragraph break.
	assembled := AssembleSegments(segs, []string{segs[0].Text, segs[1].Text})
	assertEqual(t, assembled, "One two three four. Five six seven eight.")
}

func TestSegmentPrefersParagraphBoundaries(t *testing.T) {
	t.Parallel()

	paragraphs := []string{
		"alpha beta gamma",
		"delta epsilon zeta",
		"eta theta iota",
	}
	text := strings.Join(paragraphs, "\n\n")
	s := NewSegmenter(wordCounter{}, 4)

	segs := s.Segment(text, "en")

	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d: %v", len(segs), segs)
	}
	for i, seg := range segs {
		assertEqual(t, seg.Text, paragraphs[i])
		if i > 0 {
			assertEqual(t, seg.Tier, TierParagraph)
		}
	}
}

func TestSegmentPacksFittingParagraphsGreedily(t *testing.T) {
	t.Parallel()

	text := "alpha beta gamma\n\ndelta epsilon zeta\n\neta theta iota"
	s := NewSegmenter(wordCounter{}, 7)

	segs := s.Segment(text, "en")

	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d: %v", len(segs), segs)
	}
	assertEqual(t, segs[0].Text, "alpha beta gamma\n\ndelta epsilon zeta")
	assertEqual(t, segs[1].Text, "eta theta iota")
	assertEqual(t, segs[1].Tier, TierParagraph)
}

func TestSegmentOversizedWordEmittedAlone(t *testing.T) {
	t.Parallel()

	// 30 characters, one word: the estimator counts 10 tokens against a
	// budget of 5. It must come through whole and flagged, never dropped
	// or cut mid-character.
	word := strings.Repeat("abc", 10)
	s := NewSegmenter(token.Estimator{}, 5)

	segs := s.Segment(word, "en")

	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d: %v", len(segs), segs)
	}
	assertEqual(t, segs[0].Text, word)
	if !segs[0].OverBudget {
		t.Error("expected OverBudget flag on indivisible oversized word")
	}
	if strings.ContainsAny(segs[0].Text, " \t\n") {
		t.Error("over-budget segment must be exactly one word")
	}
}

func TestSegmentDescendsToWordTier(t *testing.T) {
	t.Parallel()

	// One long sentence with no phrase punctuation forces the word tier.
	words := make([]string, 12)
	for i := range words {
		words[i] = fmt.Sprintf("word%d", i)
	}
	text := strings.Join(words, " ")
	s := NewSegmenter(wordCounter{}, 5)

	segs := s.Segment(text, "en")

	if len(segs) != 3 {
		t.Fatalf("expected 3 segments of 5/5/2 words, got %d: %v", len(segs), segs)
	}
	for i, seg := range segs {
		if n := (wordCounter{}).Count(seg.Text, "en"); n > 5 {
			t.Errorf("segment %d has %d tokens, budget 5", i, n)
		}
		if i > 0 {
			assertEqual(t, seg.Tier, TierWord)
		}
	}

	// Word-tier fallback reassembles with single spaces.
	texts := []string{segs[0].Text, segs[1].Text, segs[2].Text}
	assertEqual(t, AssembleSegments(segs, texts), text)
}

func TestSegmentBudgetInvariant(t *testing.T) {
	t.Parallel()

	text := "Opening paragraph with a handful of words.\n\n" +
		"Second paragraph is longer. It holds two sentences, with a phrase break, " +
		"and keeps going until it overflows the budget by a fair margin.\n\n" +
		"Closing words."
	const budget = 8
	s := NewSegmenter(wordCounter{}, budget)

	segs := s.Segment(text, "en")

	if len(segs) < 2 {
		t.Fatalf("expected multiple segments, got %d", len(segs))
	}
	for i, seg := range segs {
		n := (wordCounter{}).Count(seg.Text, "en")
		if seg.OverBudget {
			if strings.ContainsAny(seg.Text, " \t\n") {
				t.Errorf("segment %d flagged OverBudget is not a single word: %q", i, seg.Text)
			}
			continue
		}
		if n > budget {
			t.Errorf("segment %d has %d tokens, budget %d: %q", i, n, budget, seg.Text)
		}
	}
}

func TestSegmentPreservesWordBoundaries(t *testing.T) {
	t.Parallel()

	text := "Um texto razoavelmente longo, com vírgulas; e pontos. Também frases " +
		"novas que continuam. E mais um parágrafo final para garantir vários cortes."
	s := NewSegmenter(wordCounter{}, 4)

	segs := s.Segment(text, "pt")

	var joined []string
	for _, seg := range segs {
		joined = append(joined, seg.Text)
	}
	got := strings.Fields(strings.Join(joined, " "))
	want := strings.Fields(text)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("segment boundaries altered words:\ngot  %q\nwant %q", got, want)
	}
}

func TestSegmentDeterministic(t *testing.T) {
	t.Parallel()

	text := "Alpha beta gamma delta.\n\nEpsilon zeta eta theta iota kappa. Lambda mu."
	s := NewSegmenter(wordCounter{}, 5)

	first := s.Segment(text, "en")
	second := s.Segment(text, "en")

	if !reflect.DeepEqual(first, second) {
		t.Errorf("segmentation is not deterministic:\nfirst  %v\nsecond %v", first, second)
	}
}

func TestSegmentBlankInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace_only", "  \n\n  \t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if segs := NewSegmenter(wordCounter{}, 5).Segment(tt.text, "en"); segs != nil {
				t.Errorf("expected no segments for blank input, got %v", segs)
			}
		})
	}
}

func TestNewSegmenterDefaultBudget(t *testing.T) {
	t.Parallel()

	assertEqual(t, NewSegmenter(wordCounter{}, 0).Budget(), defaultTokenBudget)
	assertEqual(t, NewSegmenter(wordCounter{}, 100).Budget(), 100)
}

func TestAssembleSegmentsMixedTiers(t *testing.T) {
	t.Parallel()

	segs := []Segment{
		{Text: "a", Tier: TierDocument},
		{Text: "b", Tier: TierParagraph},
		{Text: "c", Tier: TierSentence},
		{Text: "d", Tier: TierParagraph},
	}
	got := AssembleSegments(segs, []string{"A", "B", "C", "D"})
	assertEqual(t, got, "A\n\nB C\n\nD")
}
