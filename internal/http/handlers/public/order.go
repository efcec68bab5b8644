package public

import (
	"strconv"

	"github.com/shopnext/internal/http/handlers/shared"
	"github.com/shopnext/internal/http/response"
	"github.com/shopnext/internal/repository"
	"github.com/shopnext/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 下单请求
// 地址支持两种方式：直接内联地址，或引用地址簿中的地址 ID。
type CreateOrderRequest struct {
	PaymentMethod     string                `json:"payment_method"`
	CouponCode        string                `json:"coupon_code"`
	Notes             string                `json:"notes"`
	ShippingAddress   service.AddressInput  `json:"shipping_address"`
	BillingAddress    *service.AddressInput `json:"billing_address"`
	ShippingAddressID uint                  `json:"shipping_address_id"`
	BillingAddressID  uint                  `json:"billing_address_id"`
}

func (h *Handler) resolveOrderAddress(userID, addressID uint, inline service.AddressInput) (service.AddressInput, error) {
	if addressID == 0 {
		return inline, nil
	}
	address, err := h.AddressService.Get(userID, addressID)
	if err != nil {
		return service.AddressInput{}, err
	}
	return h.AddressService.ToOrderAddressInput(address), nil
}

// CreateOrder 从购物车创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	shipping, err := h.resolveOrderAddress(uid, req.ShippingAddressID, req.ShippingAddress)
	if err != nil {
		respondWithMappedError(c, err, addressErrorRules, response.CodeInternal, "failed to resolve address")
		return
	}
	billing := shipping
	if req.BillingAddressID != 0 || req.BillingAddress != nil {
		inline := service.AddressInput{}
		if req.BillingAddress != nil {
			inline = *req.BillingAddress
		}
		billing, err = h.resolveOrderAddress(uid, req.BillingAddressID, inline)
		if err != nil {
			respondWithMappedError(c, err, addressErrorRules, response.CodeInternal, "failed to resolve address")
			return
		}
	}

	order, err := h.OrderService.CreateOrder(uid, service.CreateOrderInput{
		PaymentMethod:   req.PaymentMethod,
		CouponCode:      req.CouponCode,
		Notes:           req.Notes,
		ShippingAddress: shipping,
		BillingAddress:  billing,
	})
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "failed to create order")
		return
	}
	response.Success(c, gin.H{"order": order})
}

// ListOrders 分页获取当前用户订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Status:   c.Query("status"),
	}
	orders, total, err := h.OrderService.ListOrders(filter)
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

// GetOrder 获取当前用户订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil || orderID <= 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", nil)
		return
	}
	order, err := h.OrderService.GetOrder(uid, uint(orderID))
	if err != nil {
		respondWithMappedError(c, err, orderQueryErrorRules, response.CodeInternal, "failed to load order")
		return
	}
	response.Success(c, gin.H{"order": order})
}

// GetOrderByNo 根据订单号获取当前用户订单详情
func (h *Handler) GetOrderByNo(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderNo := c.Param("order_no")
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "invalid order no", nil)
		return
	}
	order, err := h.OrderService.GetOrderByNo(uid, orderNo)
	if err != nil {
		respondWithMappedError(c, err, orderQueryErrorRules, response.CodeInternal, "failed to load order")
		return
	}
	response.Success(c, gin.H{"order": order})
}
