package admin

import (
	"errors"
	"strconv"
	"time"

	"github.com/shopnext/internal/http/handlers/shared"
	"github.com/shopnext/internal/http/response"
	"github.com/shopnext/internal/models"
	"github.com/shopnext/internal/repository"
	"github.com/shopnext/internal/service"

	"github.com/gin-gonic/gin"
)

// CouponRequest 优惠券创建/更新请求
type CouponRequest struct {
	Code              string       `json:"code" binding:"required"`
	Description       string       `json:"description"`
	DiscountType      string       `json:"discount_type" binding:"required"`
	DiscountValue     models.Money `json:"discount_value"`
	MinimumPurchase   models.Money `json:"minimum_purchase"`
	UsageLimit        int          `json:"usage_limit"`
	UsageLimitPerUser int          `json:"usage_limit_per_user"`
	ValidFrom         *time.Time   `json:"valid_from"`
	ValidUntil        *time.Time   `json:"valid_until"`
	IsActive          *bool        `json:"is_active"`
}

func (r CouponRequest) toInput() service.CouponInput {
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}
	return service.CouponInput{
		Code:              r.Code,
		Description:       r.Description,
		DiscountType:      r.DiscountType,
		DiscountValue:     r.DiscountValue,
		MinimumPurchase:   r.MinimumPurchase,
		UsageLimit:        r.UsageLimit,
		UsageLimitPerUser: r.UsageLimitPerUser,
		ValidFrom:         r.ValidFrom,
		ValidUntil:        r.ValidUntil,
		IsActive:          isActive,
	}
}

func respondCouponError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrCouponNotFound):
		respondError(c, response.CodeNotFound, "coupon not found", nil)
	case errors.Is(err, service.ErrCouponInvalid):
		respondError(c, response.CodeBadRequest, "coupon definition invalid", nil)
	default:
		respondError(c, response.CodeInternal, fallbackMsg, err)
	}
}

// GetAdminCoupons 获取优惠券列表
func (h *Handler) GetAdminCoupons(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	filter := repository.CouponListFilter{
		Page:     page,
		PageSize: pageSize,
		Code:     c.Query("code"),
	}
	if isActive := c.Query("is_active"); isActive != "" {
		active := isActive == "true"
		filter.IsActive = &active
	}

	coupons, total, err := h.CouponAdminService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load coupons", err)
		return
	}
	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, coupons, pagination)
}

// GetAdminCoupon 获取优惠券详情
func (h *Handler) GetAdminCoupon(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	coupon, err := h.CouponAdminService.GetByID(id)
	if err != nil {
		respondCouponError(c, err, "failed to load coupon")
		return
	}
	response.Success(c, gin.H{"coupon": coupon})
}

// CreateCoupon 创建优惠券
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	coupon, err := h.CouponAdminService.Create(req.toInput())
	if err != nil {
		respondCouponError(c, err, "failed to create coupon")
		return
	}
	response.Success(c, gin.H{"coupon": coupon})
}

// UpdateCoupon 更新优惠券，不重置已累计的使用次数
func (h *Handler) UpdateCoupon(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	coupon, err := h.CouponAdminService.Update(id, req.toInput())
	if err != nil {
		respondCouponError(c, err, "failed to update coupon")
		return
	}
	response.Success(c, gin.H{"coupon": coupon})
}

// DeleteCoupon 删除优惠券
func (h *Handler) DeleteCoupon(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	if err := h.CouponAdminService.Delete(id); err != nil {
		respondCouponError(c, err, "failed to delete coupon")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
