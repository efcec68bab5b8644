package admin

import (
	"errors"
	"strconv"

	"github.com/shopnext/internal/http/handlers/shared"
	"github.com/shopnext/internal/http/response"
	"github.com/shopnext/internal/repository"
	"github.com/shopnext/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminReviews 分页获取评价列表，默认包含待审核评价
func (h *Handler) GetAdminReviews(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	productID, _ := strconv.Atoi(c.Query("product_id"))
	if productID < 0 {
		productID = 0
	}
	userID, _ := strconv.Atoi(c.Query("user_id"))
	if userID < 0 {
		userID = 0
	}

	filter := repository.ReviewListFilter{
		Page:         page,
		PageSize:     pageSize,
		ProductID:    uint(productID),
		UserID:       uint(userID),
		OnlyApproved: c.Query("approved") == "true",
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

// ApproveReview 审核通过评价并刷新商品平均评分
func (h *Handler) ApproveReview(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	review, err := h.ReviewService.Approve(id)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			respondError(c, response.CodeNotFound, "review not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to approve review", err)
		return
	}
	response.Success(c, gin.H{"review": review})
}

// RemoveReview 移除评价并刷新商品平均评分
func (h *Handler) RemoveReview(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	if err := h.ReviewService.Remove(id); err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			respondError(c, response.CodeNotFound, "review not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to remove review", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
