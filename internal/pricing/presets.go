package pricing

import (
	"time"

	"github.com/courtsidehq/court-pricing-backend/internal/court"
)

// Preset is a named period template used to pre-fill the creation form.
// Presets carry no identity; an ID is assigned only when the template is
// added to a court.
type Preset struct {
	Key      string
	Label    string
	Template court.PeriodTemplate
}

// Presets returns the fixed catalog of special-period templates. Date
// ranges default to the coming quarter so a freshly applied preset is
// immediately effective.
func Presets() []Preset {
	start := court.DateOnly(time.Now())
	end := start.AddDate(0, 3, 0)

	weekdays := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
	}
	weekend := []time.Weekday{time.Saturday, time.Sunday}

	return []Preset{
		{
			Key:   "premium-evening",
			Label: "Premium Evening Hours",
			Template: court.PeriodTemplate{
				Name:       "Premium Evening Hours",
				StartDate:  start,
				EndDate:    end,
				StartTime:  "18:00",
				EndTime:    "22:00",
				Multiplier: 1.5,
				DaysOfWeek: weekdays,
			},
		},
		{
			Key:   "weekend-special",
			Label: "Weekend Special",
			Template: court.PeriodTemplate{
				Name:       "Weekend Special",
				StartDate:  start,
				EndDate:    end,
				StartTime:  "08:00",
				EndTime:    "20:00",
				Multiplier: 1.25,
				DaysOfWeek: weekend,
			},
		},
		{
			Key:   "happy-hour",
			Label: "Happy Hour",
			Template: court.PeriodTemplate{
				Name:       "Happy Hour",
				StartDate:  start,
				EndDate:    end,
				StartTime:  "12:00",
				EndTime:    "15:00",
				Multiplier: 0.8,
				DaysOfWeek: weekdays,
			},
		},
	}
}

// PresetByKey looks up a preset from the catalog.
func PresetByKey(key string) (Preset, bool) {
	for _, p := range Presets() {
		if p.Key == key {
			return p, true
		}
	}
	return Preset{}, false
}
