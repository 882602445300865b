package dto

// CalculateRequest is the input to a tip calculation run.
type CalculateRequest struct {
	TotalCash float64         `json:"total_cash" binding:"required"`
	Partners  []PartnerRecord `json:"partners" binding:"required"`
}

// Validate checks the calculation preconditions up front so a bad request
// never runs a partial calculation.
func (r *CalculateRequest) Validate() error {
	if r.TotalCash <= 0 {
		return ErrInvalidTotalCash
	}
	total := 0.0
	for _, p := range r.Partners {
		if p.Hours > 0 {
			total += p.Hours
		}
	}
	if total <= 0 {
		return ErrInvalidTotalHours
	}
	return nil
}

// ReallocateRequest redistributes the last calculation's payouts against a
// hand-counted note inventory.
type ReallocateRequest struct {
	Available BillCount `json:"available"`
}

// Validate rejects negative note counts.
func (r *ReallocateRequest) Validate() error {
	if r.Available.Twenties < 0 || r.Available.Tens < 0 ||
		r.Available.Fives < 0 || r.Available.Ones < 0 {
		return ErrNegativeBillCount
	}
	return nil
}

// HolidayRequest is the two-period "holiday split" calculation: two
// independently entered or extracted periods sharing one cash pool each.
type HolidayRequest struct {
	RegularCash     float64         `json:"regular_cash" binding:"required"`
	HolidayCash     float64         `json:"holiday_cash" binding:"required"`
	RegularPartners []PartnerRecord `json:"regular_partners"`
	HolidayPartners []PartnerRecord `json:"holiday_partners"`
}

func (r *HolidayRequest) Validate() error {
	if r.RegularCash <= 0 || r.HolidayCash <= 0 {
		return ErrInvalidTotalCash
	}
	return nil
}
