package main

import (
	"regexp"
	"strings"

	"github.com/alnah/go-doctrans/internal/token"
)

// defaultTokenBudget is the per-call token ceiling applied when none is
// configured. It targets bounded-context translation models that accept a
// few hundred tokens per call.
const defaultTokenBudget = 250

// Tier identifies the natural boundary at which a segment split occurred.
// Tiers are ordered from coarsest to finest; segmentation prefers the
// largest coherent linguistic unit and only descends when a unit overflows
// the budget on its own.
type Tier int

const (
	// TierDocument marks the first segment, which has no boundary before it.
	TierDocument Tier = iota
	// TierParagraph is a double-newline break.
	TierParagraph
	// TierSentence is terminal punctuation followed by a new sentence.
	TierSentence
	// TierPhrase is a comma, semicolon, or colon break.
	TierPhrase
	// TierWord is plain whitespace, the last resort.
	TierWord
)

// String returns the tier name for diagnostics.
func (t Tier) String() string {
	switch t {
	case TierDocument:
		return "document"
	case TierParagraph:
		return "paragraph"
	case TierSentence:
		return "sentence"
	case TierPhrase:
		return "phrase"
	case TierWord:
		return "word"
	default:
		return "unknown"
	}
}

// Separator returns the string used to rejoin translated segments across a
// boundary of this tier: a paragraph break at the paragraph tier, a single
// space below it (no structural boundary exists to preserve there).
func (t Tier) Separator() string {
	if t <= TierParagraph {
		return "\n\n"
	}
	return " "
}

// Segment is a budget-bounded unit of source text produced by the Segmenter.
type Segment struct {
	// Text is the segment content. Never empty after trimming.
	Text string

	// Tier is the boundary tier preceding this segment in the source,
	// used to pick the separator when reassembling translated output.
	Tier Tier

	// OverBudget marks a single indivisible word whose own token count
	// exceeds the budget. Such a word is emitted alone rather than
	// dropped or cut mid-character.
	OverBudget bool
}

// Boundary patterns. The capture group is the whitespace removed by the
// split; the punctuation stays with the left piece and the following text
// starts the right piece.
var (
	// Sentence boundary: terminal punctuation, whitespace, then an
	// uppercase letter (including accented Latin) so abbreviations like
	// "Dr." or "Art." do not split a sentence.
	sentenceBoundaryRe = regexp.MustCompile(`[.!?](\s+)[A-ZÁÉÍÓÚÀÂÊÔÃÕÇ]`)

	// Fallback when no capitalized continuation exists.
	sentenceFallbackRe = regexp.MustCompile(`[.!?](\s+)`)

	phraseBoundaryRe = regexp.MustCompile(`[,;:](\s+)`)
)

// Segmenter splits text into budget-bounded segments at natural boundaries,
// recursing into finer tiers only for units that overflow the budget on
// their own. It never splits inside a word.
type Segmenter struct {
	counter token.Counter
	budget  int
}

// NewSegmenter creates a Segmenter for the given token counter and budget.
// Non-positive budgets fall back to defaultTokenBudget.
func NewSegmenter(counter token.Counter, budget int) *Segmenter {
	if budget <= 0 {
		budget = defaultTokenBudget
	}
	return &Segmenter{counter: counter, budget: budget}
}

// Budget returns the configured token ceiling.
func (s *Segmenter) Budget() int {
	return s.budget
}

// Segment splits text into an ordered sequence of segments whose token
// counts fit the budget, except for single indivisible words (flagged
// OverBudget). Deterministic for identical inputs. Returns nil for blank
// input.
func (s *Segmenter) Segment(text, lang string) []Segment {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if s.counter.Count(text, lang) <= s.budget {
		return []Segment{{Text: text, Tier: TierDocument}}
	}

	segs := s.packParagraphs(text, lang)
	if len(segs) == 0 {
		// Should not occur for non-empty input; never drop text.
		return []Segment{{Text: text, Tier: TierDocument}}
	}
	segs[0].Tier = TierDocument
	return segs
}

func (s *Segmenter) packParagraphs(text, lang string) []Segment {
	return s.pack(strings.Split(text, "\n\n"), lang, TierParagraph, s.packSentences)
}

func (s *Segmenter) packSentences(text, lang string) []Segment {
	sentences := splitSentences(text)
	return s.pack(sentences, lang, TierSentence, s.packPhrases)
}

func (s *Segmenter) packPhrases(text, lang string) []Segment {
	return s.pack(splitAfter(text, phraseBoundaryRe), lang, TierPhrase, s.packWords)
}

func (s *Segmenter) packWords(text, lang string) []Segment {
	return s.pack(strings.Fields(text), lang, TierWord, nil)
}

// pack greedily bins units of one tier into segments under the budget.
//
// A unit that fits is appended to the running chunk when the combined count
// stays under the budget, otherwise the chunk is flushed and the unit starts
// a new one. A unit that alone exceeds the budget flushes the chunk and is
// handed to recurse for the next finer tier; at the word tier (recurse nil)
// it is emitted alone and flagged.
//
// Every returned segment carries the tier of the boundary preceding it; the
// caller overrides the first segment's tier with the boundary it arrived
// through.
func (s *Segmenter) pack(units []string, lang string, tier Tier, recurse func(string, string) []Segment) []Segment {
	var (
		segs      []Segment
		acc       []string
		accTokens int
	)
	joiner := tier.Separator()

	flush := func() {
		if len(acc) == 0 {
			return
		}
		segs = append(segs, Segment{Text: strings.Join(acc, joiner), Tier: tier})
		acc, accTokens = nil, 0
	}

	for _, unit := range units {
		if strings.TrimSpace(unit) == "" {
			continue
		}
		n := s.counter.Count(unit, lang)
		switch {
		case n > s.budget && recurse != nil:
			flush()
			sub := recurse(unit, lang)
			if len(sub) > 0 {
				sub[0].Tier = tier
				segs = append(segs, sub...)
			}
		case n > s.budget:
			// Indivisible over-budget word: accepted, never dropped.
			flush()
			segs = append(segs, Segment{Text: unit, Tier: tier, OverBudget: true})
		case accTokens+n > s.budget:
			flush()
			acc = append(acc, unit)
			accTokens = n
		default:
			acc = append(acc, unit)
			accTokens += n
		}
	}
	flush()

	return segs
}

// splitSentences splits text at sentence boundaries, preferring the
// punctuation-then-uppercase heuristic and falling back to punctuation
// alone when no capitalized continuation is found.
func splitSentences(text string) []string {
	pieces := splitAfter(text, sentenceBoundaryRe)
	if len(pieces) == 1 {
		pieces = splitAfter(text, sentenceFallbackRe)
	}
	return pieces
}

// splitAfter splits text at each match of re, dropping the whitespace in
// the pattern's first capture group. The punctuation preceding the
// whitespace stays with the left piece.
func splitAfter(text string, re *regexp.Regexp) []string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []string{text}
	}

	pieces := make([]string, 0, len(matches)+1)
	prev := 0
	for _, m := range matches {
		wsStart, wsEnd := m[2], m[3]
		pieces = append(pieces, text[prev:wsStart])
		prev = wsEnd
	}
	return append(pieces, text[prev:])
}

// AssembleSegments joins translated texts with the separator of the
// boundary tier that preceded each corresponding source segment.
// translated must be parallel to segments.
func AssembleSegments(segments []Segment, translated []string) string {
	var b strings.Builder
	for i, text := range translated {
		if i > 0 {
			b.WriteString(segments[i].Tier.Separator())
		}
		b.WriteString(text)
	}
	return b.String()
}
