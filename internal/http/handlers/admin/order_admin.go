package admin

import (
	"errors"
	"strconv"
	"time"

	"github.com/shopnext/internal/http/handlers/shared"
	"github.com/shopnext/internal/http/response"
	"github.com/shopnext/internal/repository"
	"github.com/shopnext/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 更新订单状态请求
type UpdateOrderStatusRequest struct {
	Status           string `json:"status"`
	PaymentStatus    string `json:"payment_status"`
	PaymentReference string `json:"payment_reference"`
}

func parseTimeQuery(c *gin.Context, key string) *time.Time {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}

// GetAdminOrders 分页获取订单列表，支持状态/订单号/用户/时间范围过滤
func (h *Handler) GetAdminOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	userID, _ := strconv.Atoi(c.Query("user_id"))
	if userID < 0 {
		userID = 0
	}

	filter := repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      uint(userID),
		Status:      c.Query("status"),
		OrderNo:     c.Query("order_no"),
		CreatedFrom: parseTimeQuery(c, "created_from"),
		CreatedTo:   parseTimeQuery(c, "created_to"),
	}
	orders, total, err := h.OrderService.ListAdminOrders(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load orders", err)
		return
	}
	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, orders, pagination)
}

// GetAdminOrder 获取订单详情
func (h *Handler) GetAdminOrder(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetAdminOrder(id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to load order", err)
		return
	}
	response.Success(c, gin.H{"order": order})
}

// UpdateAdminOrderStatus 更新订单状态，非法流转被拒绝
func (h *Handler) UpdateAdminOrderStatus(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	order, err := h.OrderService.UpdateOrderStatus(id, service.UpdateOrderStatusInput{
		Status:           req.Status,
		PaymentStatus:    req.PaymentStatus,
		PaymentReference: req.PaymentReference,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "order not found", nil)
		case errors.Is(err, service.ErrOrderStatusInvalid):
			respondError(c, response.CodeBadRequest, "order status transition not allowed", nil)
		default:
			respondError(c, response.CodeInternal, "failed to update order", err)
		}
		return
	}
	response.Success(c, gin.H{"order": order})
}
