package public

import (
	"strconv"

	"github.com/shopnext/internal/http/handlers/shared"
	"github.com/shopnext/internal/http/response"
	"github.com/shopnext/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListCategories 获取启用的分类列表
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.CategoryService.List(true)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load categories", err)
		return
	}
	response.Success(c, gin.H{"categories": categories})
}

// ListProducts 分页获取上架商品列表，支持分类与关键字过滤
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	categoryID, _ := strconv.Atoi(c.Query("category_id"))
	if categoryID < 0 {
		categoryID = 0
	}

	filter := repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   uint(categoryID),
		Search:       c.Query("search"),
		OnlyActive:   true,
		OnlyFeatured: c.Query("featured") == "true",
		WithCategory: true,
	}

	products, total, err := h.ProductService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load products", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, products, pagination)
}

// GetProductBySlug 根据 slug 获取商品详情（含规格与分类）
func (h *Handler) GetProductBySlug(c *gin.Context) {
	slug := c.Param("slug")
	product, err := h.ProductService.GetBySlug(slug, true)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "failed to load product")
		return
	}
	response.Success(c, gin.H{"product": product})
}

// GetCategoryBySlug 根据 slug 获取分类详情
func (h *Handler) GetCategoryBySlug(c *gin.Context) {
	slug := c.Param("slug")
	category, err := h.CategoryService.GetBySlug(slug)
	if err != nil {
		respondWithMappedError(c, err, categoryErrorRules, response.CodeInternal, "failed to load category")
		return
	}
	response.Success(c, gin.H{"category": category})
}
