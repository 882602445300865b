package service

import (
	"log"
	"math"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/cmdelgado/tip-distribution-service/dto"
	"github.com/cmdelgado/tip-distribution-service/utils"
)

// TipService owns the tip calculation engine and the last-calculation
// snapshot that bill reallocation works against. One calculation run
// replaces the snapshot in full; there is no incremental merge.
type TipService struct {
	rounding dto.PayoutRounding

	mu          sync.Mutex
	lastRate    decimal.Decimal
	lastResults []dto.CalculationResult
}

func NewTipService(rounding dto.PayoutRounding) *TipService {
	if rounding != dto.PayoutRoundUp {
		rounding = dto.PayoutRoundNearest
	}
	return &TipService{rounding: rounding}
}

// Calculate splits the declared cash across partners by tippable hours.
//
// The order of rounding steps is deliberate: the hourly rate is truncated
// (not rounded) to cents so rate * total hours can never exceed the declared
// cash, each partner's tip is then rounded half-up to cents, and finally the
// whole-dollar payout policy is applied.
func (s *TipService) Calculate(req *dto.CalculateRequest) (*dto.CalculateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	totalCash := decimal.NewFromFloat(req.TotalCash)
	totalHours := decimal.Zero
	hours := make([]decimal.Decimal, len(req.Partners))
	for i, p := range req.Partners {
		hours[i] = sanitizeHours(p.Hours)
		totalHours = totalHours.Add(hours[i])
	}
	if !totalHours.IsPositive() {
		return nil, dto.ErrInvalidTotalHours
	}

	rate := totalCash.Div(totalHours).Truncate(2)

	results := make([]dto.CalculationResult, len(req.Partners))
	payoutSum := 0
	var totalBills dto.BillCount
	for i, p := range req.Partners {
		tip := rate.Mul(hours[i]).Round(2)
		payout := s.wholeDollarPayout(tip)
		bills := DecomposeBills(payout)
		results[i] = dto.CalculationResult{
			Name:       p.Name,
			Number:     p.Number,
			Hours:      hours[i].InexactFloat64(),
			DecimalTip: tip.StringFixed(2),
			Payout:     payout,
			Bills:      bills,
		}
		payoutSum += payout
		totalBills = addBills(totalBills, bills)
	}

	drift := decimal.NewFromInt(int64(payoutSum)).Sub(totalCash)

	s.mu.Lock()
	s.lastRate = rate
	s.lastResults = append([]dto.CalculationResult(nil), results...)
	s.mu.Unlock()

	log.Printf("Calculated tips: rate=%s over %s hours, %d partners, drift=%s",
		rate.StringFixed(2), totalHours.String(), len(results), drift.StringFixed(2))

	return &dto.CalculateResponse{
		HourlyRate: rate.StringFixed(2),
		TotalHours: totalHours.InexactFloat64(),
		Results:    results,
		Drift:      drift.StringFixed(2),
		TotalBills: totalBills,
	}, nil
}

// CalculateHoliday runs the two-period split: partners merged by normalized
// name, one independently truncated rate per period, per-partner period tips
// summed before the single whole-dollar rounding.
func (s *TipService) CalculateHoliday(req *dto.HolidayRequest) (*dto.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	merged := mergePeriods(req.RegularPartners, req.HolidayPartners)
	if len(merged) == 0 {
		return nil, dto.ErrInvalidTotalHours
	}

	regularTotal, holidayTotal := decimal.Zero, decimal.Zero
	for _, m := range merged {
		regularTotal = regularTotal.Add(m.regularHours)
		holidayTotal = holidayTotal.Add(m.holidayHours)
	}
	if !regularTotal.IsPositive() || !holidayTotal.IsPositive() {
		return nil, dto.ErrInvalidTotalHours
	}

	regularRate := decimal.NewFromFloat(req.RegularCash).Div(regularTotal).Truncate(2)
	holidayRate := decimal.NewFromFloat(req.HolidayCash).Div(holidayTotal).Truncate(2)

	results := make([]dto.CalculationResult, len(merged))
	var totalBills dto.BillCount
	for i, m := range merged {
		regularTip := regularRate.Mul(m.regularHours).Round(2)
		holidayTip := holidayRate.Mul(m.holidayHours).Round(2)
		combined := regularTip.Add(holidayTip)
		payout := s.wholeDollarPayout(combined)
		bills := DecomposeBills(payout)
		results[i] = dto.CalculationResult{
			Name:       m.name,
			Number:     m.number,
			Hours:      m.regularHours.Add(m.holidayHours).InexactFloat64(),
			DecimalTip: combined.StringFixed(2),
			Payout:     payout,
			Bills:      bills,
		}
		totalBills = addBills(totalBills, bills)
	}

	s.mu.Lock()
	s.lastRate = regularRate
	s.lastResults = append([]dto.CalculationResult(nil), results...)
	s.mu.Unlock()

	return &dto.HolidayResponse{
		RegularRate: regularRate.StringFixed(2),
		HolidayRate: holidayRate.StringFixed(2),
		Results:     results,
		TotalBills:  totalBills,
	}, nil
}

// Reallocate redistributes the last calculation's payouts from a
// hand-counted note inventory. Partners are served largest payout first so
// big payouts claim big bills before the inventory thins out. The snapshot
// itself is left untouched so the counts can be re-edited and re-run.
func (s *TipService) Reallocate(req *dto.ReallocateRequest) (*dto.ReallocateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	snapshot := append([]dto.CalculationResult(nil), s.lastResults...)
	s.mu.Unlock()
	if len(snapshot) == 0 {
		return nil, dto.ErrNoCalculation
	}

	sort.SliceStable(snapshot, func(i, j int) bool {
		return snapshot[i].Payout > snapshot[j].Payout
	})

	inventory := req.Available
	var short []string
	for i := range snapshot {
		bills, remaining := drawBills(snapshot[i].Payout, &inventory)
		snapshot[i].Bills = bills
		snapshot[i].ShortfallDollars = remaining
		if remaining > 0 {
			short = append(short, snapshot[i].Name)
			log.Printf("Bill shortfall: %s is short $%d", snapshot[i].Name, remaining)
		}
	}

	return &dto.ReallocateResponse{
		Results:        snapshot,
		ShortPartners:  short,
		InventoryValue: req.Available.Value(),
	}, nil
}

// drawBills greedily serves owed dollars from the inventory, largest
// denomination first. When no exact fit remains but larger notes do, a
// single next-larger note is handed over as an accepted overpayment rather
// than leaving the partner short.
func drawBills(owed int, inventory *dto.BillCount) (dto.BillCount, int) {
	var bills dto.BillCount

	take := func(denom int, available *int) int {
		n := owed / denom
		if n > *available {
			n = *available
		}
		owed -= n * denom
		*available -= n
		return n
	}
	bills.Twenties = take(20, &inventory.Twenties)
	bills.Tens = take(10, &inventory.Tens)
	bills.Fives = take(5, &inventory.Fives)
	bills.Ones = take(1, &inventory.Ones)

	if owed > 0 {
		switch {
		case owed < 5 && inventory.Fives > 0:
			inventory.Fives--
			bills.Fives++
			owed = 0
		case owed < 10 && inventory.Tens > 0:
			inventory.Tens--
			bills.Tens++
			owed = 0
		case owed < 20 && inventory.Twenties > 0:
			inventory.Twenties--
			bills.Twenties++
			owed = 0
		}
	}
	return bills, owed
}

// DecomposeBills converts a whole-dollar amount into the canonical greedy
// note breakdown over {20, 10, 5, 1}.
func DecomposeBills(wholeDollars int) dto.BillCount {
	if wholeDollars <= 0 {
		return dto.BillCount{}
	}
	bills := dto.BillCount{}
	bills.Twenties = wholeDollars / 20
	wholeDollars %= 20
	bills.Tens = wholeDollars / 10
	wholeDollars %= 10
	bills.Fives = wholeDollars / 5
	bills.Ones = wholeDollars % 5
	return bills
}

func (s *TipService) wholeDollarPayout(tip decimal.Decimal) int {
	if !tip.IsPositive() {
		return 0
	}
	switch s.rounding {
	case dto.PayoutRoundUp:
		return int(tip.Ceil().IntPart())
	default:
		return int(tip.Round(0).IntPart())
	}
}

// sanitizeHours maps non-finite and negative hour entries to zero before
// they reach the decimal arithmetic.
func sanitizeHours(hours float64) decimal.Decimal {
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours < 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(hours)
}

func addBills(a, b dto.BillCount) dto.BillCount {
	return dto.BillCount{
		Twenties: a.Twenties + b.Twenties,
		Tens:     a.Tens + b.Tens,
		Fives:    a.Fives + b.Fives,
		Ones:     a.Ones + b.Ones,
	}
}

// mergedPartner carries one partner's hours across the two periods.
type mergedPartner struct {
	name         string
	number       string
	regularHours decimal.Decimal
	holidayHours decimal.Decimal
}

// mergePeriods joins the two period record sets by normalized name,
// preserving first-seen order.
func mergePeriods(regular, holiday []dto.PartnerRecord) []mergedPartner {
	var merged []mergedPartner
	index := make(map[string]int)

	add := func(record dto.PartnerRecord, isHoliday bool) {
		key := utils.NormalizeNameKey(record.Name)
		if key == "" {
			return
		}
		i, ok := index[key]
		if !ok {
			index[key] = len(merged)
			merged = append(merged, mergedPartner{
				name:         record.Name,
				number:       record.Number,
				regularHours: decimal.Zero,
				holidayHours: decimal.Zero,
			})
			i = index[key]
		}
		if merged[i].number == "" {
			merged[i].number = record.Number
		}
		if isHoliday {
			merged[i].holidayHours = merged[i].holidayHours.Add(sanitizeHours(record.Hours))
		} else {
			merged[i].regularHours = merged[i].regularHours.Add(sanitizeHours(record.Hours))
		}
	}

	for _, r := range regular {
		add(r, false)
	}
	for _, r := range holiday {
		add(r, true)
	}
	return merged
}
