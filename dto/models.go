package dto

// MatchGranularity controls how extracted records are de-duplicated.
type MatchGranularity string

const (
	// MatchByName suppresses any record whose cleaned name was already seen.
	MatchByName MatchGranularity = "name"
	// MatchByRecord only suppresses exact (name, number, hours) repeats.
	MatchByRecord MatchGranularity = "record"
)

// PayoutRounding selects how a decimal tip becomes a whole-dollar payout.
type PayoutRounding string

const (
	PayoutRoundNearest PayoutRounding = "nearest"
	PayoutRoundUp      PayoutRounding = "up"
)

// PartnerRecord is one row of extracted or manually entered payroll data.
type PartnerRecord struct {
	Name   string  `json:"name"`
	Number string  `json:"number,omitempty"`
	Hours  float64 `json:"hours"`
}

// BillCount is a physical note breakdown in $20/$10/$5/$1 denominations.
type BillCount struct {
	Twenties int `json:"twenties"`
	Tens     int `json:"tens"`
	Fives    int `json:"fives"`
	Ones     int `json:"ones"`
}

// Value returns the dollar value of the counted notes.
func (b BillCount) Value() int {
	return 20*b.Twenties + 10*b.Tens + 5*b.Fives + b.Ones
}

// CalculationResult is the per-partner outcome of one tip calculation run.
type CalculationResult struct {
	Name       string    `json:"name"`
	Number     string    `json:"number,omitempty"`
	Hours      float64   `json:"hours"`
	DecimalTip string    `json:"decimal_tip"`
	Payout     int       `json:"payout"`
	Bills      BillCount `json:"bills"`
	// ShortfallDollars is set by reallocation when the available note
	// inventory could not fully cover this partner's payout.
	ShortfallDollars int `json:"shortfall_dollars,omitempty"`
}

// AnalyzeCell is one cell of a table detected by the document-layout
// analysis service.
type AnalyzeCell struct {
	RowIndex    int    `json:"row_index"`
	ColumnIndex int    `json:"column_index"`
	Content     string `json:"content"`
}

// AnalyzeTable is a detected table: a flat cell list addressed by row/column.
type AnalyzeTable struct {
	RowCount    int           `json:"row_count"`
	ColumnCount int           `json:"column_count"`
	Cells       []AnalyzeCell `json:"cells"`
}

// AnalyzeResult is the terminal payload of a document analysis: raw text
// content plus any tables the service recognized.
type AnalyzeResult struct {
	Content string         `json:"content"`
	Tables  []AnalyzeTable `json:"tables"`
}
