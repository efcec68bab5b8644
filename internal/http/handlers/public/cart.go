package public

import (
	"strconv"

	"github.com/shopnext/internal/http/response"
	"github.com/shopnext/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 添加购物车项请求
type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	VariantID uint `json:"variant_id"`
	Quantity  int  `json:"quantity"`
}

// UpdateCartItemsRequest 批量更新购物车项请求，数量为 0 表示删除
type UpdateCartItemsRequest struct {
	Items []struct {
		ItemID   uint `json:"item_id" binding:"required"`
		Quantity int  `json:"quantity"`
	} `json:"items" binding:"required"`
}

// GetCart 获取购物车，不存在时返回空购物车
func (h *Handler) GetCart(c *gin.Context) {
	identity, ok := cartIdentity(c)
	if !ok {
		return
	}
	view, err := h.CartService.GetCart(identity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "failed to load cart")
		return
	}
	response.Success(c, gin.H{"cart": view})
}

// AddCartItem 添加商品到购物车，已存在同规格项时累加数量
func (h *Handler) AddCartItem(c *gin.Context) {
	identity, ok := cartIdentity(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	view, err := h.CartService.AddItem(identity, service.AddCartItemInput{
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "failed to update cart")
		return
	}
	response.Success(c, gin.H{"cart": view})
}

// UpdateCartItems 批量更新购物车项数量
func (h *Handler) UpdateCartItems(c *gin.Context) {
	identity, ok := cartIdentity(c)
	if !ok {
		return
	}
	var req UpdateCartItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	inputs := make([]service.UpdateCartItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		inputs = append(inputs, service.UpdateCartItemInput{
			ItemID:   item.ItemID,
			Quantity: item.Quantity,
		})
	}
	view, err := h.CartService.UpdateItems(identity, inputs)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "failed to update cart")
		return
	}
	response.Success(c, gin.H{"cart": view})
}

// RemoveCartItem 删除单个购物车项
func (h *Handler) RemoveCartItem(c *gin.Context) {
	identity, ok := cartIdentity(c)
	if !ok {
		return
	}
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil || itemID <= 0 {
		respondError(c, response.CodeBadRequest, "invalid cart item id", nil)
		return
	}
	view, err := h.CartService.RemoveItem(identity, uint(itemID))
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "failed to update cart")
		return
	}
	response.Success(c, gin.H{"cart": view})
}

// ClearCart 清空购物车，保留购物车行
func (h *Handler) ClearCart(c *gin.Context) {
	identity, ok := cartIdentity(c)
	if !ok {
		return
	}
	view, err := h.CartService.Clear(identity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "failed to update cart")
		return
	}
	response.Success(c, gin.H{"cart": view})
}
