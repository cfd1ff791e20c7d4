package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/arthurfischer009/stepwise-mind-flow-sub000/models"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/utils"
)

// CategoryController manages user-defined task categories.
type CategoryController struct {
	db *gorm.DB
}

func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{db: db}
}

// List returns all categories owned by the authenticated user.
func (c *CategoryController) List(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var categories []models.Category
	if err := c.db.Where("user_id = ?", userID).Order("name ASC").Find(&categories).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to list categories")
		return
	}

	utils.Success(ctx, categories)
}

// Create adds a category. Names are unique per user.
func (c *CategoryController) Create(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var req struct {
		Name  string `json:"name" binding:"required,max=64"`
		Color string `json:"color"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	category := models.Category{
		UserID: userID,
		Name:   utils.Sanitize(req.Name),
		Color:  utils.Sanitize(req.Color),
	}
	if err := c.db.Create(&category).Error; err != nil {
		utils.Error(ctx, http.StatusConflict, 40902, "category already exists")
		return
	}

	utils.Success(ctx, category)
}

// Update renames or recolors a category.
func (c *CategoryController) Update(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid category id")
		return
	}

	var category models.Category
	if err := c.db.Where("id = ? AND user_id = ?", id, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40403, "category not found")
		} else {
			utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load category")
		}
		return
	}

	var req struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	if req.Name != nil && *req.Name != "" {
		category.Name = utils.Sanitize(*req.Name)
	}
	if req.Color != nil {
		category.Color = utils.Sanitize(*req.Color)
	}

	if err := c.db.Save(&category).Error; err != nil {
		utils.Error(ctx, http.StatusConflict, 40902, "category already exists")
		return
	}

	utils.Success(ctx, category)
}

// Delete removes a category. Tasks keep their category string as free text.
func (c *CategoryController) Delete(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid category id")
		return
	}

	result := c.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Category{})
	if result.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to delete category")
		return
	}
	if result.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40403, "category not found")
		return
	}

	utils.Success(ctx, gin.H{"deleted": id})
}
