package utils

import (
	"regexp"
	"strings"
)

// OCR output loves to glue dates and timestamps onto name cells. Every
// extraction path finalizes names through CleanPartnerName so that
// name-based matching downstream sees the same cleaned form no matter which
// strategy produced the record.
var (
	dateRangeRe   = regexp.MustCompile(`\b\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}\s*[-–]\s*\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}\b`)
	numericDateRe = regexp.MustCompile(`\b\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}\b`)
	monthDateRe   = regexp.MustCompile(`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(?:\s*,?\s*\d{4})?\b`)
	timeOfDayRe   = regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}(?::\d{2})?\s*(?:am|pm)?\b`)
)

const nameEdgeCutset = "-–—_:;.,|*#@/\\'\"` \t"

// CleanPartnerName strips embedded dates, date ranges and times of day,
// trims stray punctuation off both ends, and collapses whitespace.
func CleanPartnerName(raw string) string {
	s := dateRangeRe.ReplaceAllString(raw, " ")
	s = numericDateRe.ReplaceAllString(s, " ")
	s = monthDateRe.ReplaceAllString(s, " ")
	s = timeOfDayRe.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, nameEdgeCutset)
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeNameKey reduces a name to its lower-cased letters for matching:
// "Ailuogwemhe, Jodie O" and "ailuogwemhe jodie o" share a key.
func NormalizeNameKey(name string) string {
	return strings.ToLower(nonLetterRe.ReplaceAllString(name, ""))
}

// SameName reports whether two names refer to the same partner after
// normalization.
func SameName(a, b string) bool {
	ka := NormalizeNameKey(a)
	kb := NormalizeNameKey(b)
	return ka != "" && ka == kb
}
