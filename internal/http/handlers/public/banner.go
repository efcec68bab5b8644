package public

import (
	"strconv"

	"github.com/shopnext/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListBanners 获取指定位置当前可展示的横幅
func (h *Handler) ListBanners(c *gin.Context) {
	position := c.Query("position")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	banners, err := h.BannerService.ListActive(position, limit)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load banners", err)
		return
	}
	response.Success(c, gin.H{"banners": banners})
}
