package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Devouko/talenthub-escrow/internal/config"
	"github.com/Devouko/talenthub-escrow/internal/http/handlers"
	"github.com/Devouko/talenthub-escrow/internal/http/middleware"
	"github.com/Devouko/talenthub-escrow/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	orderHandler *handlers.OrderHandler,
	escrowHandler *handlers.EscrowHandler,
	sellerHandler *handlers.SellerHandler,
	paymentHandler *handlers.PaymentHandler,
	notificationHandler *handlers.NotificationHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Check)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws", wsHandler.Serve)

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		orders := protected.Group("/orders")
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("/my", orderHandler.ListMyOrders)
			orders.GET("/:id", middleware.UUIDValidator("id"), orderHandler.GetOrder)
			orders.POST("/:id/accept", middleware.UUIDValidator("id"), orderHandler.AcceptOrder)
			orders.POST("/:id/deliver", middleware.UUIDValidator("id"), orderHandler.DeliverOrder)
			orders.POST("/:id/dispute", middleware.UUIDValidator("id"), orderHandler.DisputeOrder)
			orders.POST("/:id/cancel", middleware.UUIDValidator("id"), orderHandler.CancelOrder)
		}

		sellerApp := protected.Group("/seller-application")
		{
			sellerApp.POST("", sellerHandler.Apply)
			sellerApp.GET("", sellerHandler.GetOwn)
		}

		payments := protected.Group("/payments")
		{
			payments.GET("/balance", paymentHandler.GetBalance)
			payments.GET("/ledger", paymentHandler.ListLedger)
		}

		notifications := protected.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread-count", notificationHandler.CountUnread)
			notifications.PATCH("/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkAsRead)
		}

		admin := protected.Group("")
		admin.Use(middleware.AdminOnly())
		{
			admin.GET("/escrow", escrowHandler.GetEscrow)
			admin.PATCH("/escrow", escrowHandler.PatchEscrow)
			admin.GET("/escrow/summary", escrowHandler.Summarize)
			admin.GET("/admin/seller-applications", sellerHandler.ListPending)
			admin.PATCH("/admin/seller-applications/:userId", middleware.UUIDValidator("userId"), sellerHandler.Decide)
		}
	}

	return r
}
