package utils

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cmdelgado/tip-distribution-service/dto"
)

// Extraction works through an ordered cascade of strategies, most structured
// first. The first strategy to produce any records wins; when every strategy
// comes up empty the caller gets an empty list and falls back to manual
// entry. Nothing here returns an error for bad input shape.

const (
	// Hours outside this open interval are OCR misreads (dates, phone
	// numbers, partner ids), not tippable hours.
	minHours = 0.0
	maxHours = 200.0

	// A flexible-tokenizer name longer than this swallowed a paragraph.
	maxNameTokens = 5
)

var (
	storeNumberRe   = regexp.MustCompile(`^\d{5}$`)
	partnerNumberRe = regexp.MustCompile(`^(?:US\d+|\d{6,})$`)
	plainNumberRe   = regexp.MustCompile(`^\d{1,3}(?:\.\d+)?$`)
	fractionRe      = regexp.MustCompile(`^\d{1,3}\.\d+$`)
	alnumRe         = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	hoursJunkRe     = regexp.MustCompile(`[^0-9.]`)
	letterRe        = regexp.MustCompile(`[A-Za-z]`)
)

// Line shapes tried per line, strictest first.
var (
	lineStoreFullRe = regexp.MustCompile(`^(\d{5})\s+(.+?)\s+(US\d+)\s+(\d{1,3}(?:\.\d+)?)$`)
	lineNoStoreRe   = regexp.MustCompile(`^(.+?)\s+(US\d+)\s+(\d{1,3}(?:\.\d+)?)$`)
	lineGenericIDRe = regexp.MustCompile(`^(.+?)\s+(\d{6,})\s+(\d{1,3}(?:\.\d+)?)$`)
	lineNameHoursRe = regexp.MustCompile(`^(.+?)\s+(\d{1,3}\.\d+)$`)
)

// Lines that are pure dates, date ranges, timestamps or disclaimers carry no
// partner data and are dropped before pattern matching.
var skipLineRes = []*regexp.Regexp{
	regexp.MustCompile(`^\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}(?:\s*[-–]\s*\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})?$`),
	regexp.MustCompile(`(?i)^\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}\s+\d{1,2}:\d{2}(?::\d{2})?\s*(?:am|pm)?$`),
	regexp.MustCompile(`(?i)^\d{1,2}:\d{2}(?::\d{2})?\s*(?:am|pm)?$`),
	regexp.MustCompile(`(?i)^(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2},?\s*\d{0,4}$`),
	regexp.MustCompile(`(?i)disclaimer|confidential|internal\s+use`),
}

// ExtractOptions tunes extraction behavior without touching the cascade.
type ExtractOptions struct {
	Granularity dto.MatchGranularity
}

// ExtractPartnerRecords converts an analysis payload into partner records.
// When the payload carries recognized tables, the structured path is tried
// first and short-circuits on success; free text then runs through the
// strategy cascade in order.
func ExtractPartnerRecords(payload dto.AnalyzeResult, opts ExtractOptions) []dto.PartnerRecord {
	granularity := opts.Granularity
	if granularity == "" {
		granularity = dto.MatchByName
	}

	if len(payload.Tables) > 0 {
		if records := extractFromTables(payload.Tables); len(records) > 0 {
			return dedupRecords(records, granularity)
		}
	}

	for _, strategy := range textStrategies {
		if records := strategy(payload.Content); len(records) > 0 {
			return dedupRecords(records, granularity)
		}
	}

	return nil
}

// textStrategies is the free-text cascade: first non-empty result wins.
var textStrategies = []func(string) []dto.PartnerRecord{
	extractColumnar,
	extractLinePatterns,
	extractTokenStream,
}

// ---------------------------------------------------------------------------
// Strategy: structured tables
// ---------------------------------------------------------------------------

type columnRole int

const (
	roleStore columnRole = iota
	roleName
	roleNumber
	roleHours
)

// fallbackOrderings are tried against every data row when no header row can
// be identified, most specific first.
var fallbackOrderings = [][]columnRole{
	{roleStore, roleName, roleNumber, roleHours},
	{roleName, roleNumber, roleHours},
	{roleName, roleHours},
}

func extractFromTables(tables []dto.AnalyzeTable) []dto.PartnerRecord {
	var records []dto.PartnerRecord
	for _, table := range tables {
		records = append(records, extractTable(table)...)
	}
	return records
}

func extractTable(table dto.AnalyzeTable) []dto.PartnerRecord {
	grid := tableGrid(table)
	if len(grid) == 0 {
		return nil
	}

	// Look for a header row near the top of the table.
	headerLimit := len(grid)
	if headerLimit > 4 {
		headerLimit = 4
	}
	for r := 0; r < headerLimit; r++ {
		nameCol, numberCol, hoursCol, ok := identifyColumns(grid[r])
		if !ok {
			continue
		}
		var records []dto.PartnerRecord
		for _, row := range grid[r+1:] {
			if record, ok := recordFromRow(row, nameCol, numberCol, hoursCol); ok {
				records = append(records, record)
			}
		}
		return records
	}

	// No header row: try fixed column orderings against every row.
	for _, ordering := range fallbackOrderings {
		var records []dto.PartnerRecord
		for _, row := range grid {
			if record, ok := recordFromOrdering(row, ordering); ok {
				records = append(records, record)
			}
		}
		if len(records) > 0 {
			return records
		}
	}
	return nil
}

// tableGrid lays the flat cell list out row by column, growing past the
// declared counts when cell indices exceed them and dropping negative ones.
func tableGrid(table dto.AnalyzeTable) [][]string {
	rows, cols := table.RowCount, table.ColumnCount
	for _, cell := range table.Cells {
		if cell.RowIndex >= rows {
			rows = cell.RowIndex + 1
		}
		if cell.ColumnIndex >= cols {
			cols = cell.ColumnIndex + 1
		}
	}
	if rows <= 0 || cols <= 0 {
		return nil
	}
	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, cols)
	}
	for _, cell := range table.Cells {
		if cell.RowIndex < 0 || cell.ColumnIndex < 0 {
			continue
		}
		grid[cell.RowIndex][cell.ColumnIndex] = cell.Content
	}
	return grid
}

// identifyColumns classifies header cells against synonym sets. A usable
// header row needs at least a name column and an hours column.
func identifyColumns(header []string) (nameCol, numberCol, hoursCol int, ok bool) {
	nameCol, numberCol, hoursCol = -1, -1, -1
	for i, cell := range header {
		switch headerKind(cell) {
		case "hours":
			if hoursCol < 0 {
				hoursCol = i
			}
		case "number":
			if numberCol < 0 {
				numberCol = i
			}
		case "name":
			if nameCol < 0 {
				nameCol = i
			}
		}
	}
	return nameCol, numberCol, hoursCol, nameCol >= 0 && hoursCol >= 0 && nameCol != hoursCol
}

func headerKind(cell string) string {
	c := strings.ToLower(strings.TrimSpace(cell))
	if c == "" {
		return ""
	}
	hasToken := func(want string) bool {
		for _, token := range strings.FieldsFunc(c, func(r rune) bool {
			return r < 'a' || r > 'z'
		}) {
			if token == want {
				return true
			}
		}
		return false
	}
	switch {
	case strings.Contains(c, "hour") || strings.Contains(c, "tippable") || strings.Contains(c, "worked"):
		return "hours"
	case strings.Contains(c, "store"):
		return "store"
	case strings.Contains(c, "number") || strings.Contains(c, "#") || hasToken("id"):
		return "number"
	case strings.Contains(c, "name") || hasToken("partner") || hasToken("employee") || hasToken("barista"):
		return "name"
	}
	return ""
}

func recordFromRow(row []string, nameCol, numberCol, hoursCol int) (dto.PartnerRecord, bool) {
	hours, ok := parseHoursText(cellAt(row, hoursCol))
	if !ok {
		return dto.PartnerRecord{}, false
	}
	name := CleanPartnerName(cellAt(row, nameCol))
	if name == "" || !letterRe.MatchString(name) || isHeaderLine(name) {
		return dto.PartnerRecord{}, false
	}
	number := ""
	if numberCol >= 0 {
		candidate := strings.TrimSpace(cellAt(row, numberCol))
		if alnumRe.MatchString(candidate) {
			number = candidate
		}
	}
	return dto.PartnerRecord{Name: name, Number: number, Hours: hours}, true
}

func recordFromOrdering(row []string, ordering []columnRole) (dto.PartnerRecord, bool) {
	if len(row) < len(ordering) {
		return dto.PartnerRecord{}, false
	}
	var record dto.PartnerRecord
	for i, role := range ordering {
		value := strings.TrimSpace(row[i])
		switch role {
		case roleStore:
			if !storeNumberRe.MatchString(value) {
				return dto.PartnerRecord{}, false
			}
		case roleName:
			name := CleanPartnerName(value)
			if name == "" || !letterRe.MatchString(name) || isHeaderLine(name) {
				return dto.PartnerRecord{}, false
			}
			record.Name = name
		case roleNumber:
			if !partnerNumberRe.MatchString(value) {
				return dto.PartnerRecord{}, false
			}
			record.Number = value
		case roleHours:
			hours, ok := parseHoursText(value)
			if !ok {
				return dto.PartnerRecord{}, false
			}
			record.Hours = hours
		}
	}
	return record, true
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// ---------------------------------------------------------------------------
// Strategy: columnar output, one field value per physical line
// ---------------------------------------------------------------------------

// extractColumnar handles OCR output that splits each record across lines in
// repeating groups of 4 (store, name, number, hours) or 3 (name, number,
// hours). It anchors on the first plausible 5-digit store number and then
// greedily consumes whole groups.
func extractColumnar(text string) []dto.PartnerRecord {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	start := -1
	for i, line := range lines {
		if isHeaderLine(line) || isSkipLine(line) {
			continue
		}
		if storeNumberRe.MatchString(line) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	var records []dto.PartnerRecord
	i := start
	for i < len(lines) {
		if record, ok := takeColumnarGroup(lines, i, 4); ok {
			records = append(records, record)
			i += 4
			continue
		}
		if record, ok := takeColumnarGroup(lines, i, 3); ok {
			records = append(records, record)
			i += 3
			continue
		}
		i++
	}
	return records
}

func takeColumnarGroup(lines []string, at, size int) (dto.PartnerRecord, bool) {
	if at+size > len(lines) {
		return dto.PartnerRecord{}, false
	}
	group := lines[at : at+size]
	if size == 4 {
		if !storeNumberRe.MatchString(group[0]) {
			return dto.PartnerRecord{}, false
		}
		group = group[1:]
	}

	nameLine, numberLine, hoursLine := group[0], group[1], group[2]
	if !isNameLine(nameLine) {
		return dto.PartnerRecord{}, false
	}
	if !partnerNumberRe.MatchString(numberLine) {
		return dto.PartnerRecord{}, false
	}
	if !plainNumberRe.MatchString(hoursLine) {
		return dto.PartnerRecord{}, false
	}
	hours, ok := parseBoundedHours(hoursLine)
	if !ok {
		return dto.PartnerRecord{}, false
	}
	name := CleanPartnerName(nameLine)
	if name == "" {
		return dto.PartnerRecord{}, false
	}
	return dto.PartnerRecord{Name: name, Number: numberLine, Hours: hours}, true
}

// isNameLine rejects lines that cannot be a partner name: headers, numeric
// values, partner numbers, dates.
func isNameLine(line string) bool {
	if !letterRe.MatchString(line) {
		return false
	}
	if isHeaderLine(line) || isSkipLine(line) {
		return false
	}
	if partnerNumberRe.MatchString(line) || plainNumberRe.MatchString(line) {
		return false
	}
	return true
}

// ---------------------------------------------------------------------------
// Strategy: per-line regex shapes
// ---------------------------------------------------------------------------

// extractLinePatterns tries five increasingly permissive shapes per line.
// The first shape that matches and validates wins for that line. Duplicate
// suppression is left to the shared dedup pass so the configured
// granularity applies uniformly.
func extractLinePatterns(text string) []dto.PartnerRecord {
	var records []dto.PartnerRecord
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isHeaderLine(line) || isSkipLine(line) {
			continue
		}
		if record, ok := matchRecordLine(line); ok {
			records = append(records, record)
		}
	}
	return records
}

func matchRecordLine(line string) (dto.PartnerRecord, bool) {
	if m := lineStoreFullRe.FindStringSubmatch(line); m != nil {
		if record, ok := buildRecord(m[2], m[3], m[4]); ok {
			return record, true
		}
	}
	if m := lineNoStoreRe.FindStringSubmatch(line); m != nil {
		if record, ok := buildRecord(m[1], m[2], m[3]); ok {
			return record, true
		}
	}
	if m := lineGenericIDRe.FindStringSubmatch(line); m != nil {
		if record, ok := buildRecord(m[1], m[2], m[3]); ok {
			return record, true
		}
	}
	if m := lineNameHoursRe.FindStringSubmatch(line); m != nil {
		// The bare name-hours shape gets no anchoring id, so a name with
		// digits in it is noise rather than a match.
		if !strings.ContainsAny(m[1], "0123456789") {
			if record, ok := buildRecord(m[1], "", m[2]); ok {
				return record, true
			}
		}
	}
	return extractFlexibleLine(line)
}

func buildRecord(rawName, number, rawHours string) (dto.PartnerRecord, bool) {
	hours, ok := parseBoundedHours(rawHours)
	if !ok {
		return dto.PartnerRecord{}, false
	}
	// A partner number or hours value inside the name group means the lazy
	// name capture swallowed a neighboring record (run-on OCR line); leave
	// the line to the more careful strategies.
	for _, token := range strings.Fields(rawName) {
		if partnerNumberRe.MatchString(token) || fractionRe.MatchString(token) {
			return dto.PartnerRecord{}, false
		}
	}
	name := CleanPartnerName(rawName)
	if name == "" || !letterRe.MatchString(name) || isHeaderLine(name) {
		return dto.PartnerRecord{}, false
	}
	return dto.PartnerRecord{Name: name, Number: number, Hours: hours}, true
}

// extractFlexibleLine is the most permissive per-line shape: trailing token
// as hours, optional trailing partner number, optional leading store number,
// boilerplate tokens dropped, the remainder joined as the name. Unlike the
// stricter shapes, the hours token here may be a whole number ("Morales,
// Ana 8"); the bounds check still filters dates and ids.
func extractFlexibleLine(line string) (dto.PartnerRecord, bool) {
	tokens := strings.Fields(line)
	if len(tokens) < 2 {
		return dto.PartnerRecord{}, false
	}

	last := tokens[len(tokens)-1]
	if !plainNumberRe.MatchString(last) {
		return dto.PartnerRecord{}, false
	}
	hours, ok := parseBoundedHours(last)
	if !ok {
		return dto.PartnerRecord{}, false
	}
	tokens = tokens[:len(tokens)-1]

	number := ""
	if len(tokens) > 0 && partnerNumberRe.MatchString(tokens[len(tokens)-1]) {
		number = tokens[len(tokens)-1]
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) > 0 && storeNumberRe.MatchString(tokens[0]) {
		tokens = tokens[1:]
	}

	var nameTokens []string
	for _, token := range tokens {
		if IsBoilerplateToken(token) {
			continue
		}
		nameTokens = append(nameTokens, token)
	}
	if len(nameTokens) == 0 || len(nameTokens) > maxNameTokens {
		return dto.PartnerRecord{}, false
	}

	name := CleanPartnerName(strings.Join(nameTokens, " "))
	if name == "" || !letterRe.MatchString(name) {
		return dto.PartnerRecord{}, false
	}
	return dto.PartnerRecord{Name: name, Number: number, Hours: hours}, true
}

// ---------------------------------------------------------------------------
// Strategy: token-bucket fallback over run-on text
// ---------------------------------------------------------------------------

// extractTokenStream is the last resort for payloads whose line structure
// was lost (a single run-on line). It walks the normalized token stream,
// accumulating name tokens and closing out a record on every valid hours
// token.
func extractTokenStream(text string) []dto.PartnerRecord {
	tokens := strings.Fields(NormalizeReportText(text))

	var records []dto.PartnerRecord
	var nameTokens []string
	number := ""

	for _, token := range tokens {
		if partnerNumberRe.MatchString(token) {
			number = token
			continue
		}
		if fractionRe.MatchString(token) {
			if hours, ok := parseBoundedHours(token); ok {
				if len(nameTokens) > 0 {
					name := CleanPartnerName(strings.Join(nameTokens, " "))
					if name != "" && letterRe.MatchString(name) {
						records = append(records, dto.PartnerRecord{
							Name:   name,
							Number: number,
							Hours:  hours,
						})
					}
				}
				nameTokens = nameTokens[:0]
				number = ""
				continue
			}
		}
		if IsBoilerplateToken(token) {
			continue
		}
		if !letterRe.MatchString(token) {
			// Store numbers and other numeric noise never belong in a name.
			continue
		}
		nameTokens = append(nameTokens, token)
	}
	return records
}

// ---------------------------------------------------------------------------
// Shared validation and dedup
// ---------------------------------------------------------------------------

func isSkipLine(line string) bool {
	for _, re := range skipLineRes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func parseBoundedHours(s string) (float64, bool) {
	hours, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if hours <= minHours || hours >= maxHours {
		return 0, false
	}
	return hours, true
}

// parseHoursText normalizes free-form hour cell text (currency symbols,
// stray OCR characters) before bounds checking.
func parseHoursText(s string) (float64, bool) {
	cleaned := hoursJunkRe.ReplaceAllString(s, "")
	if cleaned == "" || strings.Count(cleaned, ".") > 1 {
		return 0, false
	}
	return parseBoundedHours(cleaned)
}

func dedupRecords(records []dto.PartnerRecord, granularity dto.MatchGranularity) []dto.PartnerRecord {
	seen := make(map[string]bool, len(records))
	out := records[:0:0]
	for _, record := range records {
		key := NormalizeNameKey(record.Name)
		if granularity == dto.MatchByRecord {
			key += "|" + strings.ToLower(record.Number) + "|" + strconv.FormatFloat(record.Hours, 'f', -1, 64)
		}
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, record)
	}
	return out
}
