package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arthurfischer009/stepwise-mind-flow-sub000/config"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/models"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/utils"
)

// AIController proxies task suggestion and mindmap requests to the AI gateway.
// The gateway key never leaves the server.
type AIController struct {
	db     *gorm.DB
	client *utils.SuggestClient
	hour   int
}

func NewAIController(db *gorm.DB) *AIController {
	cfg := config.Get()
	return &AIController{
		db:     db,
		client: utils.NewSuggestClient(cfg),
		hour:   cfg.DayStartHour,
	}
}

// recentBriefs loads the user's tasks from the last seven custom days in the
// compact form sent to the gateway.
func (a *AIController) recentBriefs(userID uint) ([]utils.TaskBrief, error) {
	since := utils.BoundariesFor(time.Now(), 6, a.hour).Start

	var tasks []models.Task
	if err := a.db.
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC").
		Limit(100).
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	briefs := make([]utils.TaskBrief, 0, len(tasks))
	for _, t := range tasks {
		briefs = append(briefs, utils.TaskBrief{
			Title:     t.Title,
			Category:  t.Category,
			Points:    t.Points,
			Completed: t.Completed,
		})
	}
	return briefs, nil
}

// Suggest returns up to five AI-proposed next tasks based on recent activity.
func (a *AIController) Suggest(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	briefs, err := a.recentBriefs(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to load recent tasks")
		return
	}

	requestID := uuid.NewString()
	start := time.Now()
	suggestions, err := a.client.Suggest(ctx.Request.Context(), briefs)
	if err != nil {
		utils.Sugar.Warnw("ai suggest failed",
			"request_id", requestID, "user_id", userID, "error", err)
		utils.Error(ctx, http.StatusBadGateway, 50201, "suggestion service unavailable")
		return
	}

	utils.Sugar.Infow("ai suggest",
		"request_id", requestID, "user_id", userID,
		"tasks_sent", len(briefs), "suggestions", len(suggestions),
		"elapsed_ms", time.Since(start).Milliseconds())

	utils.Success(ctx, gin.H{"request_id": requestID, "suggestions": suggestions})
}

// Mindmap clusters the user's recent tasks into named groups.
func (a *AIController) Mindmap(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	briefs, err := a.recentBriefs(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to load recent tasks")
		return
	}

	if len(briefs) == 0 {
		utils.Success(ctx, gin.H{"clusters": []utils.MindmapCluster{}})
		return
	}

	requestID := uuid.NewString()
	clusters, err := a.client.Mindmap(ctx.Request.Context(), briefs)
	if err != nil {
		utils.Sugar.Warnw("ai mindmap failed",
			"request_id", requestID, "user_id", userID, "error", err)
		utils.Error(ctx, http.StatusBadGateway, 50202, "mindmap service unavailable")
		return
	}

	utils.Success(ctx, gin.H{"request_id": requestID, "clusters": clusters})
}
