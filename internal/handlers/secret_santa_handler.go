package handlers

import (
	"net/http"

	"github.com/ArowuTest/draws-backend/internal/models"
	"github.com/ArowuTest/draws-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// SecretSantaHandler handles secret santa HTTP requests
type SecretSantaHandler struct {
	secretSantaService services.SecretSantaService
}

// NewSecretSantaHandler creates a new SecretSantaHandler
func NewSecretSantaHandler(secretSantaService services.SecretSantaService) *SecretSantaHandler {
	return &SecretSantaHandler{secretSantaService: secretSantaService}
}

// Create handles POST /secret-santa
func (h *SecretSantaHandler) Create(c *gin.Context) {
	var req models.SecretSantaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	santa, err := h.secretSantaService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, santa)
}

// Reveal handles GET /secret-santa/:id, where id is the participant's result
func (h *SecretSantaHandler) Reveal(c *gin.Context) {
	result, err := h.secretSantaService.Reveal(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Resend handles POST /secret-santa/:id/results/:resultId/resend
func (h *SecretSantaHandler) Resend(c *gin.Context) {
	var req models.ResendRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	result, err := h.secretSantaService.Resend(c.Request.Context(), c.Param("id"), c.Param("resultId"), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	result.Target = ""
	c.JSON(http.StatusCreated, result)
}

// AdminResults handles GET /secret-santa/:id/admin
func (h *SecretSantaHandler) AdminResults(c *gin.Context) {
	results, err := h.secretSantaService.AdminResults(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
