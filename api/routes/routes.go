package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/poolotto/poolotto-backend/internal/config"
	"github.com/poolotto/poolotto-backend/internal/handlers"
	"github.com/poolotto/poolotto-backend/internal/middleware"
)

// HandlerDependencies carries the handlers wired in main
type HandlerDependencies struct {
	AuthHandler    *handlers.AuthHandler
	LotteryHandler *handlers.LotteryHandler
	AdminHandler   *handlers.AdminHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/login", deps.AuthHandler.Login)
		}

		lottery := public.Group("/lottery")
		{
			lottery.POST("/enter", deps.LotteryHandler.Enter)
			lottery.POST("/deposit", deps.LotteryHandler.Deposit)
			lottery.GET("/tiers", deps.LotteryHandler.GetTiers)
			lottery.GET("/tiers/:id/participants/count", deps.LotteryHandler.GetParticipantCount)
			lottery.GET("/tiers/:id/entered/:account", deps.LotteryHandler.GetHasEntered)
		}
	}

	// Operator-only routes
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.OperatorAuthMiddleware(cfg))
	{
		admin.PUT("/tiers/:id/active", deps.AdminHandler.SetTierActive)
		admin.POST("/tiers/:id/draw", deps.AdminHandler.RetryDraw)
		admin.POST("/withdraw", deps.AdminHandler.EmergencyWithdraw)
		admin.GET("/draws", deps.AdminHandler.ListDraws)
		admin.GET("/draws/:id/winner", deps.AdminHandler.GetDrawWinner)
		admin.GET("/transactions", deps.AdminHandler.ListTransactions)
	}

	return router
}
