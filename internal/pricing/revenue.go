package pricing

import (
	"math"
	"time"

	"github.com/courtsidehq/court-pricing-backend/internal/court"
)

// EstimatorConfig holds the policy constants behind revenue projections.
// These are business knobs, not derived values, so they live in config
// rather than as magic numbers inside the estimator.
type EstimatorConfig struct {
	// OperatingStartHour..OperatingEndHour is the inclusive range of hourly
	// samples taken for dynamically priced courts (defaults 6..22, 17 samples).
	OperatingStartHour int
	OperatingEndHour   int

	// FlatHours is the assumed number of sold hours per day for courts
	// without dynamic pricing.
	FlatHours int

	// WeekdayWeight and WeekendWeight blend the representative weekday and
	// weekend prices into a single averaged day (defaults 5 and 2).
	WeekdayWeight int
	WeekendWeight int

	// RepresentativeWeekday and RepresentativeWeekend anchor the samples on
	// concrete dates. Special periods whose date range misses both dates do
	// not show up in the projection; that is an inherent approximation of
	// the representative-week model, not a defect.
	RepresentativeWeekday time.Time
	RepresentativeWeekend time.Time
}

// DefaultEstimatorConfig anchors the representative days on the upcoming
// Wednesday and Saturday relative to now.
func DefaultEstimatorConfig() EstimatorConfig {
	return EstimatorConfig{
		OperatingStartHour:    6,
		OperatingEndHour:      22,
		FlatHours:             8,
		WeekdayWeight:         5,
		WeekendWeight:         2,
		RepresentativeWeekday: nextWeekday(time.Now(), time.Wednesday),
		RepresentativeWeekend: nextWeekday(time.Now(), time.Saturday),
	}
}

func nextWeekday(from time.Time, want time.Weekday) time.Time {
	d := court.DateOnly(from)
	for d.Weekday() != want {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// Estimator projects potential daily revenue from a court's current pricing
// configuration by sampling a representative week.
type Estimator struct {
	calc Calculator
	cfg  EstimatorConfig
}

// NewEstimator builds an estimator on top of the given calculator.
func NewEstimator(calc Calculator, cfg EstimatorConfig) Estimator {
	return Estimator{calc: calc, cfg: cfg}
}

// EstimateDailyRevenue returns the projected revenue for one day on one
// court. Courts without dynamic pricing are assumed to sell FlatHours hours
// at base price. Dynamic courts accumulate, for every operating hour, the
// weekday/weekend weighted average of the calculated hourly price.
func (e Estimator) EstimateDailyRevenue(c court.Court) int64 {
	if !c.DynamicPricingEnabled {
		return c.BasePrice * int64(e.cfg.FlatHours)
	}

	totalWeight := float64(e.cfg.WeekdayWeight + e.cfg.WeekendWeight)
	var total float64
	for hour := e.cfg.OperatingStartHour; hour <= e.cfg.OperatingEndHour; hour++ {
		weekdayPrice := e.calc.Price(c, e.cfg.RepresentativeWeekday, hour)
		weekendPrice := e.calc.Price(c, e.cfg.RepresentativeWeekend, hour)
		total += (float64(weekdayPrice)*float64(e.cfg.WeekdayWeight) +
			float64(weekendPrice)*float64(e.cfg.WeekendWeight)) / totalWeight
	}
	return int64(math.Round(total))
}

// EstimatePortfolioRevenue sums the daily estimates across all courts.
func (e Estimator) EstimatePortfolioRevenue(courts []*court.Court) int64 {
	var total int64
	for _, c := range courts {
		total += e.EstimateDailyRevenue(*c)
	}
	return total
}
