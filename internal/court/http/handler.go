package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courtsidehq/court-pricing-backend/internal/court"
	"github.com/courtsidehq/court-pricing-backend/internal/pkg/request"
	"github.com/courtsidehq/court-pricing-backend/internal/pkg/response"
	"github.com/courtsidehq/court-pricing-backend/internal/pricing"
)

type Handler struct {
	service   court.Service
	hub       *pricing.Hub
	calc      pricing.Calculator
	estimator pricing.Estimator
	cache     *pricing.EstimateCache
}

func NewHandler(
	service court.Service,
	hub *pricing.Hub,
	calc pricing.Calculator,
	estimator pricing.Estimator,
	cache *pricing.EstimateCache,
) *Handler {
	return &Handler{
		service:   service,
		hub:       hub,
		calc:      calc,
		estimator: estimator,
		cache:     cache,
	}
}

func (h *Handler) List(c *gin.Context) {
	var req ListCourtsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	courts, total, err := h.service.List(c.Request.Context(), court.Filter{
		Name:     req.Name,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]CourtResponse, len(courts))
	for i, crt := range courts {
		items[i] = NewCourtResponse(crt)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateCourtRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	crt, err := h.service.Create(c.Request.Context(), court.CreateRequest{
		Name:                  body.Name,
		BasePrice:             body.BasePrice,
		DynamicPricingEnabled: body.DynamicPricingEnabled,
		PeakHoursMultiplier:   body.PeakHoursMultiplier,
		WeekendMultiplier:     body.WeekendMultiplier,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewCourtResponse(crt))
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	crt, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewCourtResponse(crt))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body UpdateCourtRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	crt, err := h.service.Update(c.Request.Context(), uri.ID, court.UpdateRequest{Name: body.Name})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewCourtResponse(crt))
}

func (h *Handler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.ID); err != nil {
		response.Error(c, err)
		return
	}

	h.hub.Drop(req.ID)
	h.cache.Invalidate(c.Request.Context(), req.ID)
	c.Status(http.StatusNoContent)
}

// UpdatePricing applies the pricing form through the court's console
// session and commits the whole configuration in one replace.
func (h *Handler) UpdatePricing(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body UpdatePricingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	h.throughConsole(c, uri.ID, func(sess *pricing.Console) error {
		if body.BasePrice != nil {
			if err := sess.SetBasePrice(*body.BasePrice); err != nil {
				return err
			}
		}
		if body.DynamicPricingEnabled != nil {
			if err := sess.SetDynamicPricing(*body.DynamicPricingEnabled); err != nil {
				return err
			}
		}
		if body.PeakHoursMultiplier != nil {
			if err := sess.SetPeakMultiplier(*body.PeakHoursMultiplier); err != nil {
				return err
			}
		}
		if body.WeekendMultiplier != nil {
			if err := sess.SetWeekendMultiplier(*body.WeekendMultiplier); err != nil {
				return err
			}
		}
		return nil
	})
}

func (h *Handler) AddPeriod(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body AddPeriodRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	var tpl court.PeriodTemplate
	if body.Preset != "" {
		preset, ok := pricing.PresetByKey(body.Preset)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown preset: " + body.Preset})
			return
		}
		tpl = preset.Template
	} else {
		var err error
		tpl, err = body.Template()
		if err != nil {
			response.Error(c, err)
			return
		}
	}

	h.throughConsole(c, uri.ID, func(sess *pricing.Console) error {
		return sess.AddPeriod(tpl)
	})
}

func (h *Handler) RemovePeriod(c *gin.Context) {
	var uri PeriodURIRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	h.throughConsole(c, uri.ID, func(sess *pricing.Console) error {
		return sess.RemovePeriod(uri.PeriodID)
	})
}

func (h *Handler) SetPeriodActive(c *gin.Context) {
	var uri PeriodURIRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body SetPeriodActiveRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	h.throughConsole(c, uri.ID, func(sess *pricing.Console) error {
		return sess.SetPeriodActive(uri.PeriodID, *body.Active)
	})
}

// throughConsole runs edits against the court's console session and commits.
// Validation errors leave the session untouched; a failed commit keeps the
// optimistic value in the session (StateFailed) so a retry can resubmit it.
func (h *Handler) throughConsole(c *gin.Context, courtID string, edits func(*pricing.Console) error) {
	ctx := c.Request.Context()
	sess := h.hub.Session(courtID)

	if err := sess.Load(ctx); err != nil {
		response.Error(c, err)
		return
	}
	if err := edits(sess); err != nil {
		response.Error(c, err)
		return
	}

	crt, err := sess.Commit(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.cache.Invalidate(ctx, courtID)
	c.JSON(http.StatusOK, NewCourtResponse(crt))
}

func (h *Handler) Presets(c *gin.Context) {
	presets := pricing.Presets()
	items := make([]PresetResponse, len(presets))
	for i, p := range presets {
		days := make([]int, len(p.Template.DaysOfWeek))
		for j, d := range p.Template.DaysOfWeek {
			days[j] = int(d)
		}
		items[i] = PresetResponse{
			Key:        p.Key,
			Label:      p.Label,
			StartDate:  p.Template.StartDate.Format(dateLayout),
			EndDate:    p.Template.EndDate.Format(dateLayout),
			StartTime:  p.Template.StartTime,
			EndTime:    p.Template.EndTime,
			Multiplier: p.Template.Multiplier,
			DaysOfWeek: days,
		}
	}
	c.JSON(http.StatusOK, gin.H{"presets": items})
}

// Quote is the booking-preview boundary: a side-effect-free price for one
// court at one date and hour.
func (h *Handler) Quote(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var req QuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	onDate, err := time.ParseInLocation(dateLayout, req.Date, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be in YYYY-MM-DD format"})
		return
	}

	crt, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, QuoteResponse{
		CourtID: crt.ID,
		Date:    req.Date,
		Hour:    req.Hour,
		Price:   h.calc.Price(*crt, onDate, req.Hour),
	})
}

func (h *Handler) Revenue(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if amount, ok := h.cache.GetCourt(ctx, uri.ID); ok {
		c.JSON(http.StatusOK, RevenueResponse{CourtID: uri.ID, DailyRevenue: amount})
		return
	}

	crt, err := h.service.GetByID(ctx, uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	amount := h.estimator.EstimateDailyRevenue(*crt)
	h.cache.SetCourt(ctx, crt.ID, amount)
	c.JSON(http.StatusOK, RevenueResponse{CourtID: crt.ID, DailyRevenue: amount})
}

func (h *Handler) PortfolioRevenue(c *gin.Context) {
	ctx := c.Request.Context()

	courts, err := h.allCourts(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	if amount, ok := h.cache.GetPortfolio(ctx); ok {
		c.JSON(http.StatusOK, PortfolioRevenueResponse{Courts: len(courts), DailyRevenue: amount})
		return
	}

	amount := h.estimator.EstimatePortfolioRevenue(courts)
	h.cache.SetPortfolio(ctx, amount)
	c.JSON(http.StatusOK, PortfolioRevenueResponse{Courts: len(courts), DailyRevenue: amount})
}

// allCourts pages through the full portfolio.
func (h *Handler) allCourts(ctx context.Context) ([]*court.Court, error) {
	const pageSize = 100
	var all []*court.Court
	for page := 1; ; page++ {
		batch, _, err := h.service.List(ctx, court.Filter{Page: page, PageSize: pageSize})
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < pageSize {
			return all, nil
		}
	}
}
