package main

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Structural classification thresholds. The paragraph re-split limits are
// character-based, tuned separately from the token budget used by the
// Segmenter; keep them independent.
const (
	// headerMaxLen is the longest line still considered a header when it
	// starts with an uppercase letter.
	headerMaxLen = 50

	// paragraphSplitLen is the length above which a paragraph block is
	// re-split into sentence groups.
	paragraphSplitLen = 250

	// paragraphGroupLen is the target ceiling for each sentence group.
	paragraphGroupLen = 200

	// defaultWrapWidth is the column width for wrapping translated
	// paragraph blocks.
	defaultWrapWidth = 80
)

// BlockKind classifies a line-oriented unit of a document.
type BlockKind int

const (
	// BlockBlank preserves vertical spacing; it carries no text and is
	// never translated.
	BlockBlank BlockKind = iota
	// BlockHeader is a heading line, re-emitted as a single line.
	BlockHeader
	// BlockBullet is a list item line, re-emitted as a single line.
	BlockBullet
	// BlockParagraph is flowing prose, word-wrapped after translation.
	BlockParagraph
)

// String returns the kind name for diagnostics.
func (k BlockKind) String() string {
	switch k {
	case BlockBlank:
		return "blank"
	case BlockHeader:
		return "header"
	case BlockBullet:
		return "bullet"
	case BlockParagraph:
		return "paragraph"
	default:
		return "unknown"
	}
}

// Block is a typed line-oriented unit produced by ClassifyBlocks.
type Block struct {
	Kind BlockKind
	Text string
}

var (
	// bracketPlaceholderRe matches lines that are a single bracketed
	// placeholder like "[Figure 3]".
	bracketPlaceholderRe = regexp.MustCompile(`^\[[^\[\]]*\]$`)

	// bulletRe matches a leading dash, en-dash, or bullet glyph, or a
	// Roman-numeral marker followed by a dash, then whitespace.
	bulletRe = regexp.MustCompile(`^(?:[-–•]|(?i:[ivxlcdm]+)\s*[-–])\s+`)
)

// ClassifyBlocks splits text into typed blocks, line by line. Consecutive
// plain lines merge into paragraph blocks joined with single spaces; long
// paragraphs are re-split into sentence groups so each stays under
// paragraphGroupLen characters.
func ClassifyBlocks(text string) []Block {
	var blocks []Block
	var para []string

	flushPara := func() {
		if len(para) == 0 {
			return
		}
		joined := strings.Join(para, " ")
		para = nil
		for _, part := range splitLongParagraph(joined) {
			blocks = append(blocks, Block{Kind: BlockParagraph, Text: part})
		}
	}

	for line := range strings.SplitSeq(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flushPara()
			blocks = append(blocks, Block{Kind: BlockBlank})
		case isHeaderLine(trimmed):
			flushPara()
			blocks = append(blocks, Block{Kind: BlockHeader, Text: trimmed})
		case bulletRe.MatchString(trimmed):
			flushPara()
			blocks = append(blocks, Block{Kind: BlockBullet, Text: trimmed})
		default:
			para = append(para, trimmed)
		}
	}
	flushPara()

	return blocks
}

// isHeaderLine reports whether a trimmed, non-blank line is a heading:
// it ends with a colon, is a bracketed placeholder, or is short and starts
// with an uppercase letter. Short uppercase-initial lines ending in
// sentence punctuation are prose, not headings.
func isHeaderLine(line string) bool {
	if strings.HasSuffix(line, ":") {
		return true
	}
	if bracketPlaceholderRe.MatchString(line) {
		return true
	}
	if utf8.RuneCountInString(line) <= headerMaxLen {
		first, _ := utf8.DecodeRuneInString(line)
		if unicode.IsUpper(first) && !endsWithSentencePunct(line) {
			return true
		}
	}
	return false
}

func endsWithSentencePunct(line string) bool {
	return strings.HasSuffix(line, ".") ||
		strings.HasSuffix(line, "!") ||
		strings.HasSuffix(line, "?")
}

// splitLongParagraph re-splits a paragraph longer than paragraphSplitLen
// into groups of consecutive sentences, greedily keeping each group under
// paragraphGroupLen characters. A single sentence longer than the ceiling
// forms its own group.
func splitLongParagraph(text string) []string {
	if len(text) <= paragraphSplitLen {
		return []string{text}
	}

	sentences := splitSentences(text)
	var parts []string
	var group []string
	size := 0

	for _, sentence := range sentences {
		n := len(sentence)
		if len(group) > 0 && size+1+n > paragraphGroupLen {
			parts = append(parts, strings.Join(group, " "))
			group, size = nil, 0
		}
		if len(group) > 0 {
			size++
		}
		group = append(group, sentence)
		size += n
	}
	if len(group) > 0 {
		parts = append(parts, strings.Join(group, " "))
	}

	return parts
}

// WrapText greedily fills lines up to width columns, keeping words whole.
// A word longer than the width gets its own line rather than being split.
func WrapText(text string, width int) []string {
	if width <= 0 {
		width = defaultWrapWidth
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	lines := make([]string, 0, len(text)/width+1)
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) <= width {
			line += " " + word
		} else {
			lines = append(lines, line)
			line = word
		}
	}
	return append(lines, line)
}
