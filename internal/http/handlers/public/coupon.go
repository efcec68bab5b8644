package public

import (
	"strconv"

	"github.com/shopnext/internal/http/handlers/shared"
	"github.com/shopnext/internal/http/response"
	"github.com/shopnext/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListMyCouponUsages 分页获取当前用户的优惠券核销记录
func (h *Handler) ListMyCouponUsages(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	filter := repository.CouponUsageListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
	}
	usages, total, err := h.CouponService.ListUserUsages(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load coupon usages", err)
		return
	}
	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, usages, pagination)
}
