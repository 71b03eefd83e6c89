package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/poolotto/poolotto-backend/internal/engine"
	"github.com/poolotto/poolotto-backend/internal/services"
	"github.com/poolotto/poolotto-backend/internal/utils"
)

// LotteryHandler handles lottery-related HTTP requests
type LotteryHandler struct {
	lotteryService services.LotteryService
}

// NewLotteryHandler creates a new LotteryHandler
func NewLotteryHandler(lotteryService services.LotteryService) *LotteryHandler {
	return &LotteryHandler{
		lotteryService: lotteryService,
	}
}

// EnterRequest is the body for POST /lottery/enter. Amount is a decimal
// string in smallest units.
type EnterRequest struct {
	Tier    int    `json:"tier" binding:"required"`
	Account string `json:"account" binding:"required"`
	Amount  string `json:"amount" binding:"required"`
}

// Enter handles POST /lottery/enter
func (h *LotteryHandler) Enter(c *gin.Context) {
	var request EnterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, err := utils.ParseAmount(request.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.lotteryService.Enter(c.Request.Context(), request.Tier, request.Account, amount)
	if err != nil {
		// Settlement failures happen after the admission committed; say so,
		// since the caller's entry is still in the round.
		admitted := errors.Is(err, engine.ErrInsufficientLiquidity) ||
			errors.Is(err, engine.ErrTransferFailed)
		c.JSON(statusFromError(err), gin.H{"error": err.Error(), "entryAdmitted": admitted})
		return
	}

	if result != nil {
		c.JSON(http.StatusOK, gin.H{"message": "Entry admitted, draw settled", "draw": result})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry admitted"})
}

// GetTiers handles GET /lottery/tiers
func (h *LotteryHandler) GetTiers(c *gin.Context) {
	c.JSON(http.StatusOK, h.lotteryService.Tiers(c.Request.Context()))
}

// GetParticipantCount handles GET /lottery/tiers/:id/participants/count
func (h *LotteryHandler) GetParticipantCount(c *gin.Context) {
	tier, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tier id"})
		return
	}
	count, err := h.lotteryService.ParticipantCount(c.Request.Context(), tier)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tier": tier, "count": count})
}

// GetHasEntered handles GET /lottery/tiers/:id/entered/:account
func (h *LotteryHandler) GetHasEntered(c *gin.Context) {
	tier, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tier id"})
		return
	}
	account := c.Param("account")
	entered, err := h.lotteryService.HasEntered(c.Request.Context(), tier, account)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tier": tier, "account": account, "entered": entered})
}

// DepositRequest is the body for POST /lottery/deposit
type DepositRequest struct {
	Account string `json:"account" binding:"required"`
	Amount  string `json:"amount" binding:"required"`
}

// Deposit handles POST /lottery/deposit - funds sent with no operation
// selector, accepted into custody with no side effects
func (h *LotteryHandler) Deposit(c *gin.Context) {
	var request DepositRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, err := utils.ParseAmount(request.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.lotteryService.Deposit(c.Request.Context(), request.Account, amount); err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deposit accepted"})
}
