package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/poolotto/poolotto-backend/internal/services"
	"github.com/poolotto/poolotto-backend/internal/utils"
)

// AdminHandler handles operator-only HTTP requests. Routes using it are
// gated by the operator JWT middleware.
type AdminHandler struct {
	lotteryService services.LotteryService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(lotteryService services.LotteryService) *AdminHandler {
	return &AdminHandler{
		lotteryService: lotteryService,
	}
}

// SetTierActiveRequest is the body for PUT /admin/tiers/:id/active
type SetTierActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetTierActive handles PUT /admin/tiers/:id/active
func (h *AdminHandler) SetTierActive(c *gin.Context) {
	tier, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tier id"})
		return
	}
	var request SetTierActiveRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.lotteryService.SetTierActive(c.Request.Context(), tier, *request.Active); err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tier": tier, "active": *request.Active})
}

// EmergencyWithdraw handles POST /admin/withdraw
func (h *AdminHandler) EmergencyWithdraw(c *gin.Context) {
	amount, err := h.lotteryService.EmergencyWithdraw(c.Request.Context())
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Custody balance swept", "amount": utils.FormatAmount(amount)})
}

// RetryDraw handles POST /admin/tiers/:id/draw - re-run a draw whose
// settlement failed, once liquidity is restored or the rejecting recipient
// is resolved
func (h *AdminHandler) RetryDraw(c *gin.Context) {
	tier, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tier id"})
		return
	}
	result, err := h.lotteryService.RetryDraw(c.Request.Context(), tier)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Draw settled", "draw": result})
}

// ListDraws handles GET /admin/draws
func (h *AdminHandler) ListDraws(c *gin.Context) {
	page, limit := paginationParams(c)
	draws, err := h.lotteryService.ListDraws(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list draws: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, draws)
}

// GetDrawWinner handles GET /admin/draws/:id/winner
func (h *AdminHandler) GetDrawWinner(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	winner, err := h.lotteryService.GetDrawWinner(c.Request.Context(), id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Winner not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get winner: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, winner)
}

// ListTransactions handles GET /admin/transactions
func (h *AdminHandler) ListTransactions(c *gin.Context) {
	page, limit := paginationParams(c)
	txs, err := h.lotteryService.ListTransactions(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, txs)
}

func paginationParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}
	return page, limit
}
