package public

import (
	"strconv"

	"github.com/shopnext/internal/http/handlers/shared"
	"github.com/shopnext/internal/http/response"
	"github.com/shopnext/internal/repository"
	"github.com/shopnext/internal/service"

	"github.com/gin-gonic/gin"
)

// ReviewRequest 评价请求
type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

// ListProductReviewsBySlug 分页获取商品已审核评价
func (h *Handler) ListProductReviewsBySlug(c *gin.Context) {
	product, err := h.ProductService.GetBySlug(c.Param("slug"), true)
	if err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "failed to load product")
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	filter := repository.ReviewListFilter{
		Page:         page,
		PageSize:     pageSize,
		ProductID:    product.ID,
		OnlyApproved: true,
	}
	reviews, total, err := h.ReviewService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load reviews", err)
		return
	}
	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, reviews, pagination)
}

// CreateReview 创建商品评价，待审核后展示
func (h *Handler) CreateReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil || productID <= 0 {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	review, err := h.ReviewService.Create(uid, uint(productID), service.ReviewInput{
		Rating:  req.Rating,
		Title:   req.Title,
		Comment: req.Comment,
	})
	if err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "failed to create review")
		return
	}
	response.Success(c, gin.H{"review": review})
}

// UpdateReview 更新自己的评价，更新后重新进入待审核状态
func (h *Handler) UpdateReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reviewID <= 0 {
		respondError(c, response.CodeBadRequest, "invalid review id", nil)
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	review, err := h.ReviewService.Update(uid, uint(reviewID), service.ReviewInput{
		Rating:  req.Rating,
		Title:   req.Title,
		Comment: req.Comment,
	})
	if err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "failed to update review")
		return
	}
	response.Success(c, gin.H{"review": review})
}

// DeleteReview 删除自己的评价
func (h *Handler) DeleteReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reviewID <= 0 {
		respondError(c, response.CodeBadRequest, "invalid review id", nil)
		return
	}
	if err := h.ReviewService.Delete(uid, uint(reviewID)); err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "failed to delete review")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
