package service

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cmdelgado/tip-distribution-service/dto"
)

func TestCalculateRoundTrip(t *testing.T) {
	svc := NewTipService(dto.PayoutRoundNearest)

	resp, err := svc.Calculate(&dto.CalculateRequest{
		TotalCash: 40.00,
		Partners: []dto.PartnerRecord{
			{Name: "Ailuogwemhe, Jodie O", Hours: 9.22},
			{Name: "Nguyen, Thanh P", Hours: 18.48},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, "1.44", resp.HourlyRate)
	assert.Equal(t, 27.70, resp.TotalHours)

	assert.Equal(t, "13.28", resp.Results[0].DecimalTip)
	assert.Equal(t, 13, resp.Results[0].Payout)
	assert.Equal(t, dto.BillCount{Twenties: 0, Tens: 1, Fives: 0, Ones: 3}, resp.Results[0].Bills)

	assert.Equal(t, "26.61", resp.Results[1].DecimalTip)
	assert.Equal(t, 27, resp.Results[1].Payout)
	assert.Equal(t, dto.BillCount{Twenties: 1, Tens: 0, Fives: 1, Ones: 2}, resp.Results[1].Bills)

	assert.Equal(t, "0.00", resp.Drift)
	assert.Equal(t, dto.BillCount{Twenties: 1, Tens: 1, Fives: 1, Ones: 5}, resp.TotalBills)
}

func TestCalculateRoundUpPolicy(t *testing.T) {
	svc := NewTipService(dto.PayoutRoundUp)

	resp, err := svc.Calculate(&dto.CalculateRequest{
		TotalCash: 40.00,
		Partners: []dto.PartnerRecord{
			{Name: "Ailuogwemhe, Jodie O", Hours: 9.22},
			{Name: "Nguyen, Thanh P", Hours: 18.48},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, 14, resp.Results[0].Payout)
	assert.Equal(t, 27, resp.Results[1].Payout)
}

func TestCalculateRateTruncationNeverExceedsCash(t *testing.T) {
	cases := []struct {
		cash  float64
		hours []float64
	}{
		{40.00, []float64{9.22, 18.48}},
		{50.00, []float64{3.33, 3.33, 3.33}},
		{100.00, []float64{7.77, 11.11, 0.01}},
		{1.00, []float64{0.10, 0.20, 0.70}},
	}

	for _, tc := range cases {
		svc := NewTipService(dto.PayoutRoundNearest)
		partners := make([]dto.PartnerRecord, len(tc.hours))
		for i, h := range tc.hours {
			partners[i] = dto.PartnerRecord{Name: "P", Hours: h}
		}
		resp, err := svc.Calculate(&dto.CalculateRequest{TotalCash: tc.cash, Partners: partners})
		assert.NoError(t, err)

		rate, err := decimal.NewFromString(resp.HourlyRate)
		assert.NoError(t, err)
		totalHours := decimal.NewFromFloat(resp.TotalHours)
		cash := decimal.NewFromFloat(tc.cash)
		assert.True(t, rate.Mul(totalHours).LessThanOrEqual(cash),
			"rate %s * hours %s exceeds cash %s", rate, totalHours, cash)
	}
}

func TestCalculateValidation(t *testing.T) {
	svc := NewTipService(dto.PayoutRoundNearest)

	_, err := svc.Calculate(&dto.CalculateRequest{
		TotalCash: 0,
		Partners:  []dto.PartnerRecord{{Name: "A", Hours: 1}},
	})
	assert.ErrorIs(t, err, dto.ErrInvalidTotalCash)

	_, err = svc.Calculate(&dto.CalculateRequest{
		TotalCash: 10,
		Partners:  []dto.PartnerRecord{{Name: "A", Hours: 0}},
	})
	assert.ErrorIs(t, err, dto.ErrInvalidTotalHours)
}

func TestCalculateSanitizesBadHours(t *testing.T) {
	svc := NewTipService(dto.PayoutRoundNearest)

	resp, err := svc.Calculate(&dto.CalculateRequest{
		TotalCash: 20.00,
		Partners: []dto.PartnerRecord{
			{Name: "A", Hours: 10},
			{Name: "B", Hours: -4},
			{Name: "C", Hours: math.NaN()},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, 10.0, resp.TotalHours)
	assert.Equal(t, 20, resp.Results[0].Payout)
	assert.Equal(t, 0, resp.Results[1].Payout)
	assert.Equal(t, 0.0, resp.Results[1].Hours)
	assert.Equal(t, 0, resp.Results[2].Payout)
}

func TestDecomposeBills(t *testing.T) {
	assert.Equal(t, dto.BillCount{}, DecomposeBills(0))
	assert.Equal(t, dto.BillCount{}, DecomposeBills(-7))
	assert.Equal(t, dto.BillCount{Tens: 1, Ones: 3}, DecomposeBills(13))
	assert.Equal(t, dto.BillCount{Twenties: 1, Fives: 1, Ones: 2}, DecomposeBills(27))
	assert.Equal(t, dto.BillCount{Twenties: 2, Tens: 1, Fives: 1, Ones: 4}, DecomposeBills(59))

	for n := 0; n <= 200; n++ {
		bills := DecomposeBills(n)
		assert.Equal(t, n, bills.Value(), "n=%d", n)
		assert.Less(t, bills.Ones, 5, "n=%d", n)
		assert.LessOrEqual(t, bills.Fives, 1, "n=%d", n)
		assert.LessOrEqual(t, bills.Tens, 1, "n=%d", n)
	}
}

func TestReallocateWithoutCalculation(t *testing.T) {
	svc := NewTipService(dto.PayoutRoundNearest)

	_, err := svc.Reallocate(&dto.ReallocateRequest{
		Available: dto.BillCount{Ones: 40},
	})
	assert.ErrorIs(t, err, dto.ErrNoCalculation)
}

func TestReallocateServesLargestPayoutFirst(t *testing.T) {
	svc := NewTipService(dto.PayoutRoundNearest)
	_, err := svc.Calculate(&dto.CalculateRequest{
		TotalCash: 40.00,
		Partners: []dto.PartnerRecord{
			{Name: "Ailuogwemhe, Jodie O", Hours: 9.22},
			{Name: "Nguyen, Thanh P", Hours: 18.48},
		},
	})
	assert.NoError(t, err)

	resp, err := svc.Reallocate(&dto.ReallocateRequest{
		Available: dto.BillCount{Twenties: 2, Tens: 0, Fives: 1, Ones: 10},
	})
	assert.NoError(t, err)

	// Thanh ($27) is served first: one twenty, one five, two ones.
	assert.Equal(t, "Nguyen, Thanh P", resp.Results[0].Name)
	assert.Equal(t, dto.BillCount{Twenties: 1, Fives: 1, Ones: 2}, resp.Results[0].Bills)
	assert.Equal(t, 0, resp.Results[0].ShortfallDollars)

	// Jodie ($13) exhausts the ones, then takes a twenty as overpayment.
	assert.Equal(t, "Ailuogwemhe, Jodie O", resp.Results[1].Name)
	assert.Equal(t, dto.BillCount{Twenties: 1, Ones: 8}, resp.Results[1].Bills)
	assert.Equal(t, 0, resp.Results[1].ShortfallDollars)

	assert.Empty(t, resp.ShortPartners)

	// Conservation: assigned value never exceeds the declared inventory.
	assigned := 0
	for _, r := range resp.Results {
		assigned += r.Bills.Value()
	}
	assert.LessOrEqual(t, assigned, resp.InventoryValue)
}

func TestReallocateReportsShortfall(t *testing.T) {
	svc := NewTipService(dto.PayoutRoundNearest)
	_, err := svc.Calculate(&dto.CalculateRequest{
		TotalCash: 40.00,
		Partners: []dto.PartnerRecord{
			{Name: "Ailuogwemhe, Jodie O", Hours: 9.22},
			{Name: "Nguyen, Thanh P", Hours: 18.48},
		},
	})
	assert.NoError(t, err)

	resp, err := svc.Reallocate(&dto.ReallocateRequest{
		Available: dto.BillCount{Ones: 5},
	})
	assert.NoError(t, err)

	assert.Equal(t, dto.BillCount{Ones: 5}, resp.Results[0].Bills)
	assert.Equal(t, 22, resp.Results[0].ShortfallDollars)
	assert.Equal(t, dto.BillCount{}, resp.Results[1].Bills)
	assert.Equal(t, 13, resp.Results[1].ShortfallDollars)
	assert.Equal(t, []string{"Nguyen, Thanh P", "Ailuogwemhe, Jodie O"}, resp.ShortPartners)
}

func TestReallocateValidation(t *testing.T) {
	svc := NewTipService(dto.PayoutRoundNearest)

	_, err := svc.Reallocate(&dto.ReallocateRequest{
		Available: dto.BillCount{Twenties: -1},
	})
	assert.ErrorIs(t, err, dto.ErrNegativeBillCount)
}

func TestHolidaySumBeforeRounding(t *testing.T) {
	svc := NewTipService(dto.PayoutRoundNearest)

	resp, err := svc.CalculateHoliday(&dto.HolidayRequest{
		RegularCash: 10.00,
		HolidayCash: 2.00,
		RegularPartners: []dto.PartnerRecord{
			{Name: "Garcia, Luis", Hours: 2},
			{Name: "Nguyen, Thanh P", Hours: 6},
		},
		HolidayPartners: []dto.PartnerRecord{
			{Name: "garcia luis", Hours: 2},
			{Name: "Nguyen, Thanh P", Hours: 6},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, "1.25", resp.RegularRate)
	assert.Equal(t, "0.25", resp.HolidayRate)

	// Garcia: 2.50 + 0.50 = 3.00 combined, rounded once to $3. Rounding
	// each period separately would have paid $4.
	assert.Equal(t, "Garcia, Luis", resp.Results[0].Name)
	assert.Equal(t, "3.00", resp.Results[0].DecimalTip)
	assert.Equal(t, 3, resp.Results[0].Payout)
	assert.Equal(t, 4.0, resp.Results[0].Hours)

	assert.Equal(t, "9.00", resp.Results[1].DecimalTip)
	assert.Equal(t, 9, resp.Results[1].Payout)
}

func TestHolidayMergesByNormalizedName(t *testing.T) {
	svc := NewTipService(dto.PayoutRoundNearest)

	resp, err := svc.CalculateHoliday(&dto.HolidayRequest{
		RegularCash: 100.00,
		HolidayCash: 50.00,
		RegularPartners: []dto.PartnerRecord{
			{Name: "Garcia, Luis", Number: "US1234567", Hours: 10},
			{Name: "Nguyen, Thanh P", Hours: 20},
		},
		HolidayPartners: []dto.PartnerRecord{
			{Name: "GARCIA LUIS", Hours: 5},
		},
	})

	assert.NoError(t, err)
	assert.Len(t, resp.Results, 2)
	assert.Equal(t, "Garcia, Luis", resp.Results[0].Name)
	assert.Equal(t, "US1234567", resp.Results[0].Number)
	assert.Equal(t, 15.0, resp.Results[0].Hours)
}

func TestHolidayValidation(t *testing.T) {
	svc := NewTipService(dto.PayoutRoundNearest)

	_, err := svc.CalculateHoliday(&dto.HolidayRequest{
		RegularCash:     0,
		HolidayCash:     10,
		RegularPartners: []dto.PartnerRecord{{Name: "A", Hours: 1}},
		HolidayPartners: []dto.PartnerRecord{{Name: "A", Hours: 1}},
	})
	assert.ErrorIs(t, err, dto.ErrInvalidTotalCash)

	_, err = svc.CalculateHoliday(&dto.HolidayRequest{
		RegularCash:     10,
		HolidayCash:     10,
		RegularPartners: []dto.PartnerRecord{{Name: "A", Hours: 1}},
		HolidayPartners: []dto.PartnerRecord{{Name: "B", Hours: 0}},
	})
	assert.ErrorIs(t, err, dto.ErrInvalidTotalHours)
}
