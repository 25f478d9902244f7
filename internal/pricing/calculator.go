package pricing

import (
	"math"
	"time"

	"github.com/courtsidehq/court-pricing-backend/internal/court"
)

// Calculator computes the hourly price of a court at a point in time by
// composing the base price with every applicable multiplier. It is pure:
// the same inputs always produce the same output and no state is touched.
//
// Boundary convention: the peak window, like special periods, is half-open
// [PeakStartHour, PeakEndHour). The defaults 18 and 22 keep the classic
// 18:00-21:59 premium evening.
type Calculator struct {
	PeakStartHour int
	PeakEndHour   int
}

// NewCalculator returns a calculator with the default peak window.
func NewCalculator() Calculator {
	return Calculator{PeakStartHour: 18, PeakEndHour: 22}
}

// Price returns the rounded price for one hour on the given court.
//
// With dynamic pricing disabled the base price is returned untouched.
// Otherwise the peak multiplier, the weekend multiplier and every matching
// special period compose multiplicatively; composition is order-independent
// so the storage order of special periods never affects the result. The
// final amount is rounded half away from zero and clamped at zero.
func (calc Calculator) Price(c court.Court, onDate time.Time, hour int) int64 {
	if !c.DynamicPricingEnabled {
		return c.BasePrice
	}

	factor := 1.0
	if hour >= calc.PeakStartHour && hour < calc.PeakEndHour {
		factor *= c.PeakHoursMultiplier
	}
	if isWeekend(onDate) {
		factor *= c.WeekendMultiplier
	}
	for _, p := range c.SpecialPricing {
		if Matches(p, onDate, hour) {
			factor *= p.Multiplier
		}
	}

	amount := int64(math.Round(float64(c.BasePrice) * factor))
	if amount < 0 {
		return 0
	}
	return amount
}

func isWeekend(t time.Time) bool {
	wd := t.UTC().Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
