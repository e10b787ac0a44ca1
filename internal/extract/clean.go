package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	spaceRunRe   = regexp.MustCompile(`[ \t]{2,}`)
	newlineRunRe = regexp.MustCompile(`\n{3,}`)
	pageNumberRe = regexp.MustCompile(`(?m)^\s*\d+\s*$\n?`)
)

// Invisible characters handled explicitly, spelled as escapes so they stay
// visible in source.
const (
	softHyphen     = "\u00AD"
	byteOrderMark  = "\uFEFF"
	zeroWidthSpace = "\u200B"
	noBreakSpace   = "\u00A0"
)

// normalizeWhitespace collapses space/tab runs and excessive blank lines
// while preserving paragraph breaks.
func normalizeWhitespace(text string) string {
	text = strings.ReplaceAll(text, byteOrderMark, "")
	text = strings.ReplaceAll(text, zeroWidthSpace, "")
	text = strings.ReplaceAll(text, noBreakSpace, " ")
	text = spaceRunRe.ReplaceAllString(text, " ")
	return newlineRunRe.ReplaceAllString(text, "\n\n")
}

// Clean conservatively prepares extracted text for a translation model:
//
//   - Unicode NFC normalization
//   - form feeds (page breaks) become paragraph breaks
//   - soft hyphens, BOMs, and zero-width spaces are removed
//   - non-breaking spaces become plain spaces
//   - C0/C1 control characters are stripped (newline, tab, and CR kept)
//   - space/tab runs collapse to one space, 3+ newlines to a paragraph break
//   - lines holding only a page number are dropped
//   - the result is trimmed
func Clean(text string) string {
	if text == "" {
		return text
	}

	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\f", "\n\n")
	text = strings.ReplaceAll(text, softHyphen, "")
	text = strings.ReplaceAll(text, byteOrderMark, "")
	text = strings.ReplaceAll(text, zeroWidthSpace, "")
	text = strings.ReplaceAll(text, noBreakSpace, " ")

	text = stripControl(text)

	text = spaceRunRe.ReplaceAllString(text, " ")
	text = newlineRunRe.ReplaceAllString(text, "\n\n")
	text = pageNumberRe.ReplaceAllString(text, "")
	text = newlineRunRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

// stripControl removes C0 and C1 control characters except \n, \t, and \r.
func stripControl(text string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r == '\r' {
			return r
		}
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r <= 0x9f) {
			return -1
		}
		return r
	}, text)
}
