package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers court and pricing routes. Reads are public;
// every pricing mutation requires an authenticated admin.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/courts")

	// === Public Routes ===
	group.GET("", h.List)                 // List courts
	group.GET("/:id", h.Get)              // Court details incl. pricing config
	group.GET("/:id/quote", h.Quote)      // Price preview for a date/hour
	group.GET("/:id/revenue", h.Revenue)  // Daily revenue projection
	g.GET("/revenue", h.PortfolioRevenue) // Portfolio projection
	g.GET("/pricing/presets", h.Presets)  // Period template catalog

	// === Admin Routes ===
	admin := group.Group("")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("", h.Create)
		admin.PATCH("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)

		admin.PUT("/:id/pricing", h.UpdatePricing)
		admin.POST("/:id/pricing/periods", h.AddPeriod)
		admin.DELETE("/:id/pricing/periods/:periodID", h.RemovePeriod)
		admin.PATCH("/:id/pricing/periods/:periodID", h.SetPeriodActive)
	}
}
