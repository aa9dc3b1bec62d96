package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ArowuTest/draws-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// AdminHandler serves maintenance endpoints behind admin authentication
type AdminHandler struct {
	drawService services.DrawService
	purgeDays   int
}

// NewAdminHandler creates a new AdminHandler. purgeDays is the default age
// of draws removed by a purge.
func NewAdminHandler(drawService services.DrawService, purgeDays int) *AdminHandler {
	return &AdminHandler{drawService: drawService, purgeDays: purgeDays}
}

// Purge handles POST /admin/purge?days=N&dry_run=true
func (h *AdminHandler) Purge(c *gin.Context) {
	days := h.purgeDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequest(c, "days must be a positive integer")
			return
		}
		days = n
	}
	dryRun, err := strconv.ParseBool(c.DefaultQuery("dry_run", "false"))
	if err != nil {
		badRequest(c, "dry_run must be a boolean")
		return
	}

	purged, err := h.drawService.PurgeDraws(c.Request.Context(), time.Duration(days)*24*time.Hour, dryRun)
	if err != nil {
		respondError(c, err)
		return
	}
	ids := make([]string, len(purged))
	for i, d := range purged {
		ids[i] = d.ID
	}
	c.JSON(http.StatusOK, gin.H{"purged": ids, "days": days, "dry_run": dryRun})
}

// Export handles GET /admin/draws/:id/export
func (h *AdminHandler) Export(c *gin.Context) {
	export, err := h.drawService.ExportDraw(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, export)
}
