package utils

import (
	"regexp"
	"strings"
)

// boilerplatePatterns are fixed report fragments that carry no partner data.
// Each match is replaced with a single space before further parsing.
var boilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)partner\s+hours\s+report`),
	regexp.MustCompile(`(?i)tippable\s+hours\s+report`),
	regexp.MustCompile(`(?i)store\s*(?:#|no\.?|number)\s*:?\s*\d{3,6}`),
	regexp.MustCompile(`(?i)home\s+store[^\n]*`),
	regexp.MustCompile(`(?i)time\s+period\s*:?[^\n]*`),
	regexp.MustCompile(`(?i)executed\s+(?:by|on)\s*:?[^\n]*`),
	regexp.MustCompile(`(?i)for\s+internal\s+use\s+only`),
	regexp.MustCompile(`(?i)proprietary\s+(?:and\s+)?confidential`),
	regexp.MustCompile(`(?i)page\s+\d+\s+of\s+\d+`),
}

// boilerplateTokens are header words that show up glued into otherwise valid
// OCR lines. Comparison is on the lower-cased, letters-only form of a token.
var boilerplateTokens = map[string]struct{}{
	"store":      {},
	"partner":    {},
	"partners":   {},
	"tippable":   {},
	"total":      {},
	"totals":     {},
	"hours":      {},
	"name":       {},
	"number":     {},
	"home":       {},
	"report":     {},
	"period":     {},
	"time":       {},
	"date":       {},
	"job":        {},
	"title":      {},
	"executed":   {},
	"by":         {},
	"on":         {},
	"page":       {},
	"of":         {},
	"barista":    {},
	"shift":      {},
	"supervisor": {},
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	nonLetterRe  = regexp.MustCompile(`[^a-zA-Z]`)
)

// NormalizeReportText strips known report boilerplate and collapses all
// whitespace runs (newlines included) to single spaces. It is pure and
// idempotent.
func NormalizeReportText(raw string) string {
	text := raw
	// Removing one fragment can splice another together, so the pattern
	// pass repeats until the text stops changing. Every replacement
	// strictly shrinks the text, so this terminates.
	for {
		prev := text
		for _, pattern := range boilerplatePatterns {
			text = pattern.ReplaceAllString(text, " ")
		}
		if text == prev {
			break
		}
	}
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// IsBoilerplateToken reports whether a single token is a known header word.
func IsBoilerplateToken(token string) bool {
	letters := strings.ToLower(nonLetterRe.ReplaceAllString(token, ""))
	if letters == "" {
		return false
	}
	_, ok := boilerplateTokens[letters]
	return ok
}

// isHeaderLine reports whether every word-like token on the line is report
// boilerplate, i.e. the line is a column header or title rather than data.
func isHeaderLine(line string) bool {
	letterTokens := 0
	for _, token := range strings.Fields(line) {
		if nonLetterRe.ReplaceAllString(token, "") == "" {
			continue
		}
		letterTokens++
		if !IsBoilerplateToken(token) {
			return false
		}
	}
	return letterTokens > 0
}
