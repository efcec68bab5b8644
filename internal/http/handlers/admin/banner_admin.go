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

// BannerRequest 横幅创建/更新请求
type BannerRequest struct {
	Name         string     `json:"name" binding:"required"`
	Position     string     `json:"position"`
	Title        string     `json:"title"`
	Subtitle     string     `json:"subtitle"`
	Image        string     `json:"image" binding:"required"`
	MobileImage  string     `json:"mobile_image"`
	LinkType     string     `json:"link_type"`
	LinkValue    string     `json:"link_value"`
	OpenInNewTab bool       `json:"open_in_new_tab"`
	IsActive     *bool      `json:"is_active"`
	StartAt      *time.Time `json:"start_at"`
	EndAt        *time.Time `json:"end_at"`
	SortOrder    int        `json:"sort_order"`
}

func (r BannerRequest) toInput() service.BannerInput {
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}
	return service.BannerInput{
		Name:         r.Name,
		Position:     r.Position,
		Title:        r.Title,
		Subtitle:     r.Subtitle,
		Image:        r.Image,
		MobileImage:  r.MobileImage,
		LinkType:     r.LinkType,
		LinkValue:    r.LinkValue,
		OpenInNewTab: r.OpenInNewTab,
		IsActive:     isActive,
		StartAt:      r.StartAt,
		EndAt:        r.EndAt,
		SortOrder:    r.SortOrder,
	}
}

func respondBannerError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrBannerNotFound):
		respondError(c, response.CodeNotFound, "banner not found", nil)
	case errors.Is(err, service.ErrBannerInvalid):
		respondError(c, response.CodeBadRequest, "banner definition invalid", nil)
	default:
		respondError(c, response.CodeInternal, fallbackMsg, err)
	}
}

// GetAdminBanners 获取横幅列表
func (h *Handler) GetAdminBanners(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	filter := repository.BannerListFilter{
		Page:     page,
		PageSize: pageSize,
		Position: c.Query("position"),
		Search:   c.Query("search"),
	}
	if isActive := c.Query("is_active"); isActive != "" {
		active := isActive == "true"
		filter.IsActive = &active
	}

	banners, total, err := h.BannerService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load banners", err)
		return
	}
	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, banners, pagination)
}

// GetAdminBanner 获取横幅详情
func (h *Handler) GetAdminBanner(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	banner, err := h.BannerService.GetByID(id)
	if err != nil {
		respondBannerError(c, err, "failed to load banner")
		return
	}
	response.Success(c, gin.H{"banner": banner})
}

// CreateBanner 创建横幅
func (h *Handler) CreateBanner(c *gin.Context) {
	var req BannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	banner, err := h.BannerService.Create(req.toInput())
	if err != nil {
		respondBannerError(c, err, "failed to create banner")
		return
	}
	response.Success(c, gin.H{"banner": banner})
}

// UpdateBanner 更新横幅
func (h *Handler) UpdateBanner(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	var req BannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	banner, err := h.BannerService.Update(id, req.toInput())
	if err != nil {
		respondBannerError(c, err, "failed to update banner")
		return
	}
	response.Success(c, gin.H{"banner": banner})
}

// DeleteBanner 删除横幅
func (h *Handler) DeleteBanner(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	if err := h.BannerService.Delete(id); err != nil {
		respondBannerError(c, err, "failed to delete banner")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
