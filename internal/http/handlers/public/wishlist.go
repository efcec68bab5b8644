package public

import (
	"strconv"

	"github.com/shopnext/internal/http/response"

	"github.com/gin-gonic/gin"
)

// WishlistItemRequest 加入心愿单请求
type WishlistItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// ListWishlist 获取当前用户心愿单
func (h *Handler) ListWishlist(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	entries, err := h.WishlistService.List(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load wishlist", err)
		return
	}
	response.Success(c, gin.H{"wishlist": entries})
}

// AddWishlistItem 将商品加入心愿单，重复加入返回已有条目
func (h *Handler) AddWishlistItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req WishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	entry, err := h.WishlistService.Add(uid, req.ProductID)
	if err != nil {
		respondWithMappedError(c, err, wishlistErrorRules, response.CodeInternal, "failed to add wishlist item")
		return
	}
	response.Success(c, gin.H{"item": entry})
}

// RemoveWishlistItem 从心愿单移除条目
func (h *Handler) RemoveWishlistItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	entryID, err := strconv.Atoi(c.Param("id"))
	if err != nil || entryID <= 0 {
		respondError(c, response.CodeBadRequest, "invalid wishlist item id", nil)
		return
	}
	if err := h.WishlistService.Remove(uid, uint(entryID)); err != nil {
		respondWithMappedError(c, err, wishlistErrorRules, response.CodeInternal, "failed to remove wishlist item")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
