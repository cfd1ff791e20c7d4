package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/arthurfischer009/stepwise-mind-flow-sub000/config"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/controllers"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/middleware"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	r.Use(cors.New(corsCfg))
	// Record per-day activity after each authenticated request
	r.Use(middleware.ActivityRecorder(db))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	taskController := controllers.NewTaskController(db)
	categoryController := controllers.NewCategoryController(db)
	streakController := controllers.NewStreakController(db)
	carryOverController := controllers.NewCarryOverController(db)
	statsController := controllers.NewStatsController(db)
	achievementController := controllers.NewAchievementController(db)
	sessionController := controllers.NewSessionController(db)
	aiController := controllers.NewAIController(db)
	configController := controllers.NewConfigController()

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/oauth/:provider/login", authController.OAuthRedirect)
	authGroup.GET("/oauth/:provider/callback", authController.OAuthCallback)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/profile", middleware.AuthRequired(), authController.UpdateProfile)

	// Public config endpoint
	api.GET("/config/app", configController.App)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())

	protected.GET("/tasks", taskController.List)
	protected.POST("/tasks", taskController.Create)
	protected.GET("/tasks/:id", taskController.Get)
	protected.PUT("/tasks/:id", taskController.Update)
	protected.DELETE("/tasks/:id", taskController.Delete)
	protected.POST("/tasks/:id/complete", taskController.Complete)
	protected.POST("/tasks/:id/reopen", taskController.Reopen)

	protected.GET("/categories", categoryController.List)
	protected.POST("/categories", categoryController.Create)
	protected.PUT("/categories/:id", categoryController.Update)
	protected.DELETE("/categories/:id", categoryController.Delete)

	protected.POST("/streak/touch", streakController.Touch)
	protected.GET("/streak/status", streakController.Status)
	protected.POST("/streak/claim", streakController.ClaimBonus)

	protected.POST("/carryover/run", carryOverController.Run)
	protected.GET("/carryover/history", carryOverController.History)

	protected.GET("/stats/overview", statsController.Overview)
	protected.GET("/stats/daily", statsController.Daily)
	protected.GET("/stats/categories", statsController.Categories)
	protected.GET("/stats/activity", statsController.Activity)

	protected.GET("/achievements", achievementController.List)

	protected.POST("/sessions/start", sessionController.Start)
	protected.POST("/sessions/finish", sessionController.Finish)
	protected.GET("/sessions/today", sessionController.Today)

	aiGroup := api.Group("/ai")
	aiGroup.Use(middleware.AuthRequired(), middleware.AIRateLimitMiddleware())
	aiGroup.POST("/suggest", aiController.Suggest)
	aiGroup.POST("/mindmap", aiController.Mindmap)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
