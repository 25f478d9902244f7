package http

import (
	"time"

	"github.com/courtsidehq/court-pricing-backend/internal/court"
)

const dateLayout = "2006-01-02"

type PeriodResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	Multiplier float64 `json:"multiplier"`
	DaysOfWeek []int   `json:"days_of_week"`
	Active     bool    `json:"active"`
}

type CourtResponse struct {
	ID                    string           `json:"id"`
	Name                  string           `json:"name"`
	BasePrice             int64            `json:"base_price"`
	DynamicPricingEnabled bool             `json:"dynamic_pricing_enabled"`
	PeakHoursMultiplier   float64          `json:"peak_hours_multiplier"`
	WeekendMultiplier     float64          `json:"weekend_multiplier"`
	SpecialPricing        []PeriodResponse `json:"special_pricing"`
	Version               int              `json:"version"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

func NewPeriodResponse(p court.SpecialPricingPeriod) PeriodResponse {
	days := make([]int, len(p.DaysOfWeek))
	for i, d := range p.DaysOfWeek {
		days[i] = int(d)
	}
	return PeriodResponse{
		ID:         p.ID,
		Name:       p.Name,
		StartDate:  p.StartDate.Format(dateLayout),
		EndDate:    p.EndDate.Format(dateLayout),
		StartTime:  p.StartTime,
		EndTime:    p.EndTime,
		Multiplier: p.Multiplier,
		DaysOfWeek: days,
		Active:     p.Active,
	}
}

func NewCourtResponse(c *court.Court) CourtResponse {
	periods := make([]PeriodResponse, len(c.SpecialPricing))
	for i, p := range c.SpecialPricing {
		periods[i] = NewPeriodResponse(p)
	}
	return CourtResponse{
		ID:                    c.ID,
		Name:                  c.Name,
		BasePrice:             c.BasePrice,
		DynamicPricingEnabled: c.DynamicPricingEnabled,
		PeakHoursMultiplier:   c.PeakHoursMultiplier,
		WeekendMultiplier:     c.WeekendMultiplier,
		SpecialPricing:        periods,
		Version:               c.Version,
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
	}
}

type ListCourtsRequest struct {
	Name     string `form:"name"`
	Page     int    `form:"page,default=1" binding:"omitempty,gte=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,gte=1,lte=100"`
}

type CreateCourtRequest struct {
	Name                  string  `json:"name" binding:"required"`
	BasePrice             int64   `json:"base_price" binding:"gte=0"`
	DynamicPricingEnabled bool    `json:"dynamic_pricing_enabled"`
	PeakHoursMultiplier   float64 `json:"peak_hours_multiplier" binding:"omitempty,gte=0.5,lte=2"`
	WeekendMultiplier     float64 `json:"weekend_multiplier" binding:"omitempty,gte=0.5,lte=2"`
}

type UpdateCourtRequest struct {
	Name *string `json:"name" binding:"omitempty"`
}

// UpdatePricingRequest carries the pricing form fields. The [0.5, 2.0]
// multiplier bounds are form policy enforced here at the console boundary;
// the calculator itself accepts any positive factor.
type UpdatePricingRequest struct {
	BasePrice             *int64   `json:"base_price" binding:"omitempty,gte=0"`
	DynamicPricingEnabled *bool    `json:"dynamic_pricing_enabled"`
	PeakHoursMultiplier   *float64 `json:"peak_hours_multiplier" binding:"omitempty,gte=0.5,lte=2"`
	WeekendMultiplier     *float64 `json:"weekend_multiplier" binding:"omitempty,gte=0.5,lte=2"`
}

// AddPeriodRequest creates a special pricing period either from a preset
// key or from explicit fields.
type AddPeriodRequest struct {
	Preset string `json:"preset" binding:"omitempty"`

	Name       string  `json:"name" binding:"required_without=Preset"`
	StartDate  string  `json:"start_date" binding:"required_without=Preset"`
	EndDate    string  `json:"end_date" binding:"required_without=Preset"`
	StartTime  string  `json:"start_time" binding:"required_without=Preset"`
	EndTime    string  `json:"end_time" binding:"required_without=Preset"`
	Multiplier float64 `json:"multiplier" binding:"required_without=Preset,omitempty,gt=0"`
	DaysOfWeek []int   `json:"days_of_week" binding:"required_without=Preset,omitempty,dive,gte=0,lte=6"`
}

// Template converts the explicit fields into a period template.
func (r AddPeriodRequest) Template() (court.PeriodTemplate, error) {
	start, err := time.ParseInLocation(dateLayout, r.StartDate, time.UTC)
	if err != nil {
		return court.PeriodTemplate{}, court.ErrInvalidDateRange
	}
	end, err := time.ParseInLocation(dateLayout, r.EndDate, time.UTC)
	if err != nil {
		return court.PeriodTemplate{}, court.ErrInvalidDateRange
	}
	days := make([]time.Weekday, len(r.DaysOfWeek))
	for i, d := range r.DaysOfWeek {
		days[i] = time.Weekday(d)
	}
	return court.PeriodTemplate{
		Name:       r.Name,
		StartDate:  start,
		EndDate:    end,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Multiplier: r.Multiplier,
		DaysOfWeek: days,
	}, nil
}

type SetPeriodActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

type PeriodURIRequest struct {
	ID       string `uri:"id" binding:"required,uuid"`
	PeriodID string `uri:"periodID" binding:"required,uuid"`
}

type QuoteRequest struct {
	Date string `form:"date" binding:"required"`
	Hour int    `form:"hour" binding:"gte=0,lte=23"`
}

type QuoteResponse struct {
	CourtID string `json:"court_id"`
	Date    string `json:"date"`
	Hour    int    `json:"hour"`
	Price   int64  `json:"price"`
}

type RevenueResponse struct {
	CourtID      string `json:"court_id"`
	DailyRevenue int64  `json:"daily_revenue"`
}

type PortfolioRevenueResponse struct {
	Courts       int   `json:"courts"`
	DailyRevenue int64 `json:"daily_revenue"`
}

type PresetResponse struct {
	Key        string  `json:"key"`
	Label      string  `json:"label"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	Multiplier float64 `json:"multiplier"`
	DaysOfWeek []int   `json:"days_of_week"`
}
