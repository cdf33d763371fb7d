package http

import (
	"time"

	"earnhub/internal/config"
	"earnhub/internal/http/handlers"
	"earnhub/internal/http/middleware"
	"earnhub/internal/repository"
	"earnhub/internal/service"
	"earnhub/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, version string) {
	settingsRepo := repository.NewSettingsRepository(db, middleware.RedisClient())
	userRepo := repository.NewUserRepository(db)

	hub := ws.NewHub()

	referralSvc := service.NewReferralService(db, settingsRepo)
	authSvc := service.NewAuthService(db, referralSvc)
	taskSvc := service.NewTaskService(db, referralSvc, hub)
	withdrawalSvc := service.NewWithdrawalService(db, settingsRepo, hub)
	revenueSvc := service.NewRevenueService(db, settingsRepo)

	h := handlers.NewHandler(db, authSvc, referralSvc, taskSvc, withdrawalSvc, revenueSvc, settingsRepo)
	healthHandler := handlers.NewHealthHandler(db, version)

	apiRateWindow := time.Duration(cfg.APIRateWindow) * time.Second
	authRateWindow := time.Duration(cfg.AuthRateWindow) * time.Second

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, apiRateWindow))
	v1.Use(middleware.Metrics())

	// Auth
	authRL := middleware.RedisRateLimit(cfg.AuthRateLimit, authRateWindow)
	v1.POST("/auth/register", authRL, h.Register)
	v1.POST("/auth/login", authRL, h.Login)

	// Member routes
	member := v1.Group("")
	member.Use(middleware.JWT(userRepo))
	{
		member.GET("/me", h.Me)
		member.GET("/referrals", h.ReferralStats)
		member.GET("/earnings", h.MyEarnings)

		member.GET("/tasks", h.ListTasks)
		member.POST("/tasks/:id/submit", h.SubmitTask)
		member.GET("/tasks/my-submissions", h.MySubmissions)

		member.POST("/withdrawals", h.RequestWithdrawal)
		member.GET("/withdrawals", h.MyWithdrawals)

		member.POST("/blogs", h.CreateBlog)
		member.POST("/videos/watch-time", h.RecordWatchTime)
	}

	// Admin routes
	admin := v1.Group("")
	admin.Use(middleware.JWT(userRepo), middleware.AdminOnly())
	{
		admin.POST("/tasks", h.CreateTask)
		admin.GET("/tasks/submissions/pending", h.PendingSubmissions)
		admin.PUT("/tasks/submissions/:id/approve", h.ApproveSubmission)
		admin.PUT("/tasks/submissions/:id/reject", h.RejectSubmission)

		admin.GET("/withdrawals/all", h.AllWithdrawals)
		admin.PUT("/withdrawals/:id/approve", h.ApproveWithdrawal)
		admin.PUT("/withdrawals/:id/reject", h.RejectWithdrawal)

		admin.PUT("/blogs/:id/revenue", h.UpdateBlogRevenue)
		admin.PUT("/orders/:id/delivered", h.MarkOrderDelivered)

		admin.PUT("/admin/users/:id/block", h.SetUserBlocked)

		admin.GET("/admin/settings", h.GetSettings)
		admin.PUT("/admin/settings", h.UpdateSettings)
	}

	// Admin event feed over websocket. Token comes in as a query param
	// because browsers can't set headers on websocket dials.
	r.GET("/ws/admin", middleware.JWTFromQuery(userRepo), middleware.AdminOnly(), h.AdminFeed(hub))
}
