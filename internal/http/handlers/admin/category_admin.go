package admin

import (
	"errors"
	"strconv"

	"github.com/shopnext/internal/http/response"
	"github.com/shopnext/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryRequest 分类创建/更新请求
type CategoryRequest struct {
	Slug        string `json:"slug" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	IsActive    *bool  `json:"is_active"`
	SortOrder   int    `json:"sort_order"`
}

func (r CategoryRequest) toInput() service.CategoryInput {
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}
	return service.CategoryInput{
		Slug:        r.Slug,
		Name:        r.Name,
		Description: r.Description,
		Image:       r.Image,
		IsActive:    isActive,
		SortOrder:   r.SortOrder,
	}
}

func parsePathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		respondError(c, response.CodeBadRequest, "invalid id", nil)
		return 0, false
	}
	return uint(id), true
}

// GetAdminCategories 获取分类列表（含停用分类）
func (h *Handler) GetAdminCategories(c *gin.Context) {
	categories, err := h.CategoryService.List(false)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load categories", err)
		return
	}
	response.Success(c, gin.H{"categories": categories})
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	category, err := h.CategoryService.Create(req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrCategorySlugExists) {
			respondError(c, response.CodeConflict, "category slug already exists", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to create category", err)
		return
	}
	response.Success(c, gin.H{"category": category})
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	category, err := h.CategoryService.Update(id, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			respondError(c, response.CodeNotFound, "category not found", nil)
		case errors.Is(err, service.ErrCategorySlugExists):
			respondError(c, response.CodeConflict, "category slug already exists", nil)
		default:
			respondError(c, response.CodeInternal, "failed to update category", err)
		}
		return
	}
	response.Success(c, gin.H{"category": category})
}

// DeleteCategory 删除分类，分类下仍有商品时拒绝
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	if err := h.CategoryService.Delete(id); err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			respondError(c, response.CodeNotFound, "category not found", nil)
		case errors.Is(err, service.ErrCategoryNotEmpty):
			respondError(c, response.CodeBadRequest, "category still has products", nil)
		default:
			respondError(c, response.CodeInternal, "failed to delete category", err)
		}
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
