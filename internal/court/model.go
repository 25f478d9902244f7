package court

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/courtsidehq/court-pricing-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "court not found")
	ErrPeriodNotFound    = apperror.New(http.StatusNotFound, "special pricing period not found")
	ErrEmptyName         = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrNegativeBasePrice = apperror.New(http.StatusBadRequest, "base price cannot be negative")
	ErrInvalidMultiplier = apperror.New(http.StatusBadRequest, "multiplier must be greater than zero")
	ErrInvalidDateRange  = apperror.New(http.StatusBadRequest, "start date must not be after end date")
	ErrInvalidTimeRange  = apperror.New(http.StatusBadRequest, "time must be in HH:MM format with start before end")
	ErrVersionConflict   = apperror.New(http.StatusConflict, "court was modified by another session")
	ErrDuplicatePeriod   = apperror.New(http.StatusConflict, "duplicate special pricing period id")
)

// Court is a bookable unit together with its full pricing configuration.
// The pricing fields are only ever changed by producing a new Court value;
// callers holding an old value keep a consistent snapshot.
type Court struct {
	ID                    string
	Name                  string
	BasePrice             int64 // whole currency units per hour
	DynamicPricingEnabled bool
	PeakHoursMultiplier   float64
	WeekendMultiplier     float64
	SpecialPricing        []SpecialPricingPeriod // insertion order, display only

	// Version is the optimistic-concurrency token. Every persisted replace
	// bumps it; a stale Version is rejected with ErrVersionConflict.
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SpecialPricingPeriod is an admin-defined, independently toggleable pricing
// rule. Date bounds are inclusive calendar dates; time bounds are interpreted
// as a half-open hour window [StartTime, EndTime).
type SpecialPricingPeriod struct {
	ID         string
	Name       string
	StartDate  time.Time // date component only, UTC midnight
	EndDate    time.Time
	StartTime  string // "HH:MM"
	EndTime    string
	Multiplier float64
	DaysOfWeek []time.Weekday // 0=Sunday .. 6=Saturday
	Active     bool
}

// PeriodTemplate carries the fields of a period before it gains identity.
// Presets and creation forms both produce templates; an ID is assigned only
// when the template is added to a court.
type PeriodTemplate struct {
	Name       string
	StartDate  time.Time
	EndDate    time.Time
	StartTime  string
	EndTime    string
	Multiplier float64
	DaysOfWeek []time.Weekday
}

// Validate checks template invariants. It runs at edit time, before any
// computation or persistence is attempted.
func (t PeriodTemplate) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if t.StartDate.After(t.EndDate) {
		return ErrInvalidDateRange
	}
	if t.Multiplier <= 0 {
		return ErrInvalidMultiplier
	}
	startHour, okStart := ParseHour(t.StartTime)
	endHour, okEnd := ParseHour(t.EndTime)
	if !okStart || !okEnd || startHour >= endHour {
		return ErrInvalidTimeRange
	}
	return nil
}

// ParseHour extracts the hour component from an "HH:MM" clock string.
// The engine samples prices hourly, so minutes are accepted but contribute
// nothing beyond the containing hour.
func ParseHour(clock string) (int, bool) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour, true
}

// StartHour returns the inclusive lower hour bound of the period window.
func (p SpecialPricingPeriod) StartHour() int {
	h, _ := ParseHour(p.StartTime)
	return h
}

// EndHour returns the exclusive upper hour bound of the period window.
func (p SpecialPricingPeriod) EndHour() int {
	h, _ := ParseHour(p.EndTime)
	return h
}

// AppliesOn reports whether the period's weekday set contains the given day.
func (p SpecialPricingPeriod) AppliesOn(day time.Weekday) bool {
	return slices.Contains(p.DaysOfWeek, day)
}

// clone returns a deep copy so that aggregate updates never alias the
// period slice of the value they were derived from.
func (c Court) clone() Court {
	out := c
	out.SpecialPricing = make([]SpecialPricingPeriod, len(c.SpecialPricing))
	copy(out.SpecialPricing, c.SpecialPricing)
	for i := range out.SpecialPricing {
		days := make([]time.Weekday, len(c.SpecialPricing[i].DaysOfWeek))
		copy(days, c.SpecialPricing[i].DaysOfWeek)
		out.SpecialPricing[i].DaysOfWeek = days
	}
	return out
}

// WithBasePrice returns a copy of the court with a new base price.
func (c Court) WithBasePrice(price int64) (Court, error) {
	if price < 0 {
		return Court{}, ErrNegativeBasePrice
	}
	out := c.clone()
	out.BasePrice = price
	return out, nil
}

// WithDynamicPricing returns a copy with dynamic pricing toggled.
func (c Court) WithDynamicPricing(enabled bool) Court {
	out := c.clone()
	out.DynamicPricingEnabled = enabled
	return out
}

// WithPeakMultiplier returns a copy with a new peak-hours multiplier.
// Any positive value is accepted here; UI-facing bounds are a console
// concern, not an engine invariant.
func (c Court) WithPeakMultiplier(m float64) (Court, error) {
	if m <= 0 {
		return Court{}, ErrInvalidMultiplier
	}
	out := c.clone()
	out.PeakHoursMultiplier = m
	return out, nil
}

// WithWeekendMultiplier returns a copy with a new weekend multiplier.
func (c Court) WithWeekendMultiplier(m float64) (Court, error) {
	if m <= 0 {
		return Court{}, ErrInvalidMultiplier
	}
	out := c.clone()
	out.WeekendMultiplier = m
	return out, nil
}

// AddSpecialPeriod validates the template, assigns a fresh identifier and
// appends the resulting period. The identifier is a random UUID; collisions
// under rapid creation are not a concern the way timestamp-derived IDs were.
func (c Court) AddSpecialPeriod(tpl PeriodTemplate) (Court, error) {
	if err := tpl.Validate(); err != nil {
		return Court{}, err
	}
	out := c.clone()
	out.SpecialPricing = append(out.SpecialPricing, SpecialPricingPeriod{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(tpl.Name),
		StartDate:  DateOnly(tpl.StartDate),
		EndDate:    DateOnly(tpl.EndDate),
		StartTime:  tpl.StartTime,
		EndTime:    tpl.EndTime,
		Multiplier: tpl.Multiplier,
		DaysOfWeek: append([]time.Weekday(nil), tpl.DaysOfWeek...),
		Active:     true,
	})
	return out, nil
}

// RemoveSpecialPeriod drops the period with the given identifier.
func (c Court) RemoveSpecialPeriod(periodID string) (Court, error) {
	idx := c.periodIndex(periodID)
	if idx < 0 {
		return Court{}, ErrPeriodNotFound
	}
	out := c.clone()
	out.SpecialPricing = append(out.SpecialPricing[:idx], out.SpecialPricing[idx+1:]...)
	return out, nil
}

// SetSpecialPeriodActive flips the active flag of one period. Inactive
// periods stay stored so they can be re-activated later.
func (c Court) SetSpecialPeriodActive(periodID string, active bool) (Court, error) {
	idx := c.periodIndex(periodID)
	if idx < 0 {
		return Court{}, ErrPeriodNotFound
	}
	out := c.clone()
	out.SpecialPricing[idx].Active = active
	return out, nil
}

func (c Court) periodIndex(periodID string) int {
	for i, p := range c.SpecialPricing {
		if p.ID == periodID {
			return i
		}
	}
	return -1
}

// Validate checks the invariants of the full aggregate. The repository runs
// it before every whole-object replace.
func (c Court) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.BasePrice < 0 {
		return ErrNegativeBasePrice
	}
	if c.PeakHoursMultiplier <= 0 || c.WeekendMultiplier <= 0 {
		return ErrInvalidMultiplier
	}
	seen := make(map[string]struct{}, len(c.SpecialPricing))
	for _, p := range c.SpecialPricing {
		if _, dup := seen[p.ID]; dup {
			return ErrDuplicatePeriod
		}
		seen[p.ID] = struct{}{}
		if p.Multiplier <= 0 {
			return ErrInvalidMultiplier
		}
		if p.StartDate.After(p.EndDate) {
			return ErrInvalidDateRange
		}
	}
	return nil
}

// DateOnly normalizes a timestamp to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Filter defines parameters for listing courts.
type Filter struct {
	Name     string
	Page     int
	PageSize int
}
