package pricing

import (
	"time"

	"github.com/courtsidehq/court-pricing-backend/internal/court"
)

// Matches reports whether a special pricing period applies on the given
// calendar date at the given hour of day (0-23).
//
// All four gates must hold: the period is active, the date falls inside the
// inclusive [StartDate, EndDate] range, the weekday is in the period's
// day-of-week set, and the hour falls inside the half-open
// [StartHour, EndHour) window. Malformed periods are a construction-time
// concern; this predicate never fails.
func Matches(p court.SpecialPricingPeriod, onDate time.Time, hour int) bool {
	if !p.Active {
		return false
	}
	day := court.DateOnly(onDate)
	if day.Before(p.StartDate) || day.After(p.EndDate) {
		return false
	}
	if !p.AppliesOn(day.Weekday()) {
		return false
	}
	return hour >= p.StartHour() && hour < p.EndHour()
}
