package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/ArowuTest/draws-backend/internal/models"
	"github.com/ArowuTest/draws-backend/internal/services"
	"github.com/ArowuTest/draws-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// DrawHandler handles draw-related HTTP requests
type DrawHandler struct {
	drawService services.DrawService
	tossService services.TossService
}

// NewDrawHandler creates a new DrawHandler
func NewDrawHandler(drawService services.DrawService, tossService services.TossService) *DrawHandler {
	return &DrawHandler{
		drawService: drawService,
		tossService: tossService,
	}
}

// DrawResponse is a draw together with its results, newest first
type DrawResponse struct {
	*models.Draw
	Results []*models.Result `json:"results"`
}

// TossRequest optionally defers the toss until ScheduleDate
type TossRequest struct {
	ScheduleDate *time.Time `json:"schedule_date"`
}

// RetossRequest names the prize whose winner is replaced
type RetossRequest struct {
	PrizeID string `json:"prize_id" binding:"required"`
}

// ParticipantsRequest adds participants to a draw
type ParticipantsRequest struct {
	Participants []models.Participant `json:"participants" binding:"required,min=1"`
}

// PrizesRequest adds prizes to a draw
type PrizesRequest struct {
	Prizes []models.Prize `json:"prizes" binding:"required,min=1"`
}

// CreateDraw handles POST /draws
func (h *DrawHandler) CreateDraw(c *gin.Context) {
	var draw models.Draw
	if err := c.ShouldBindJSON(&draw); err != nil {
		badRequest(c, err.Error())
		return
	}
	created, err := h.drawService.CreateDraw(c.Request.Context(), &draw)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, DrawResponse{Draw: created, Results: []*models.Result{}})
}

// GetDraw handles GET /draws/:id. Due scheduled results are resolved first.
// Only the private id reveals the private id back.
func (h *DrawHandler) GetDraw(c *gin.Context) {
	ctx := c.Request.Context()
	draw, owner, err := h.drawService.GetDraw(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	results, err := h.tossService.Results(ctx, draw.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !owner {
		draw = draw.PublicView()
	}
	c.JSON(http.StatusOK, DrawResponse{Draw: draw, Results: results})
}

// DeleteDraw handles DELETE /draws/:id
func (h *DrawHandler) DeleteDraw(c *gin.Context) {
	if err := h.drawService.DeleteDraw(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Toss handles POST /draws/:id/toss
func (h *DrawHandler) Toss(c *gin.Context) {
	var req TossRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	var (
		result *models.Result
		err    error
	)
	if req.ScheduleDate != nil {
		result, err = h.tossService.ScheduleToss(c.Request.Context(), c.Param("id"), *req.ScheduleDate)
	} else {
		result, err = h.tossService.Toss(c.Request.Context(), c.Param("id"))
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Retoss handles PATCH /draws/:id/retoss
func (h *DrawHandler) Retoss(c *gin.Context) {
	var req RetossRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	result, err := h.tossService.Retoss(c.Request.Context(), c.Param("id"), req.PrizeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AddParticipants handles POST /draws/:id/participants. A multipart upload
// with a "file" field is read as CSV, anything else as JSON.
func (h *DrawHandler) AddParticipants(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		h.importParticipants(c)
		return
	}

	var req ParticipantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	draw, err := h.drawService.AddParticipants(c.Request.Context(), c.Param("id"), req.Participants)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draw)
}

func (h *DrawHandler) importParticipants(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "a CSV file is required in the file field")
		return
	}
	file, err := header.Open()
	if err != nil {
		badRequest(c, "failed to open uploaded file")
		return
	}
	defer file.Close()

	report, err := utils.ReadParticipantsCSV(file)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if len(report.Participants) == 0 {
		badRequest(c, "the CSV file has no participants")
		return
	}
	draw, err := h.drawService.AddParticipants(c.Request.Context(), c.Param("id"), report.Participants)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"draw":       draw,
		"total_rows": report.TotalRows,
		"errors":     report.Errors,
	})
}

// AddPrizes handles POST /draws/:id/prizes
func (h *DrawHandler) AddPrizes(c *gin.Context) {
	var req PrizesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	draw, err := h.drawService.AddPrizes(c.Request.Context(), c.Param("id"), req.Prizes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draw)
}
