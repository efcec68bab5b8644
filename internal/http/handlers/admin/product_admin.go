package admin

import (
	"errors"
	"strconv"

	"github.com/shopnext/internal/http/handlers/shared"
	"github.com/shopnext/internal/http/response"
	"github.com/shopnext/internal/models"
	"github.com/shopnext/internal/repository"
	"github.com/shopnext/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductRequest 商品创建/更新请求
type ProductRequest struct {
	CategoryID    uint          `json:"category_id" binding:"required"`
	SKU           string        `json:"sku" binding:"required"`
	Slug          string        `json:"slug" binding:"required"`
	Name          string        `json:"name" binding:"required"`
	Description   string        `json:"description"`
	Price         models.Money  `json:"price"`
	Cost          models.Money  `json:"cost"`
	DiscountPrice *models.Money `json:"discount_price"`
	StockQuantity int           `json:"stock_quantity"`
	MinimumStock  int           `json:"minimum_stock"`
	Images        []string      `json:"images"`
	Tags          []string      `json:"tags"`
	IsActive      *bool         `json:"is_active"`
	IsFeatured    bool          `json:"is_featured"`
	SortOrder     int           `json:"sort_order"`
}

func (r ProductRequest) toInput() service.ProductInput {
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}
	return service.ProductInput{
		CategoryID:    r.CategoryID,
		SKU:           r.SKU,
		Slug:          r.Slug,
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		Cost:          r.Cost,
		DiscountPrice: r.DiscountPrice,
		StockQuantity: r.StockQuantity,
		MinimumStock:  r.MinimumStock,
		Images:        r.Images,
		Tags:          r.Tags,
		IsActive:      isActive,
		IsFeatured:    r.IsFeatured,
		SortOrder:     r.SortOrder,
	}
}

func respondProductError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeNotFound, "product not found", nil)
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, response.CodeBadRequest, "category not found", nil)
	case errors.Is(err, service.ErrProductSlugExists):
		respondError(c, response.CodeConflict, "product slug already exists", nil)
	case errors.Is(err, service.ErrProductSKUExists):
		respondError(c, response.CodeConflict, "product sku already exists", nil)
	case errors.Is(err, service.ErrVariantNotFound):
		respondError(c, response.CodeNotFound, "product variant not found", nil)
	case errors.Is(err, service.ErrVariantInvalid):
		respondError(c, response.CodeBadRequest, "product variant invalid", nil)
	default:
		respondError(c, response.CodeInternal, fallbackMsg, err)
	}
}

// GetAdminProducts 获取商品列表 (Admin)
func (h *Handler) GetAdminProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	categoryID, _ := strconv.Atoi(c.Query("category_id"))
	if categoryID < 0 {
		categoryID = 0
	}

	filter := repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   uint(categoryID),
		Search:       c.Query("search"),
		WithCategory: true,
	}
	products, total, err := h.ProductService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load products", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, products, pagination)
}

// GetAdminProduct 获取商品详情 (Admin)
func (h *Handler) GetAdminProduct(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.GetByID(id)
	if err != nil {
		respondProductError(c, err, "failed to load product")
		return
	}
	response.Success(c, gin.H{"product": product})
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	product, err := h.ProductService.Create(req.toInput())
	if err != nil {
		respondProductError(c, err, "failed to create product")
		return
	}
	response.Success(c, gin.H{"product": product})
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	product, err := h.ProductService.Update(id, req.toInput())
	if err != nil {
		respondProductError(c, err, "failed to update product")
		return
	}
	response.Success(c, gin.H{"product": product})
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.Delete(id); err != nil {
		respondProductError(c, err, "failed to delete product")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// VariantRequest 商品规格请求
type VariantRequest struct {
	AttributeName  string       `json:"attribute_name" binding:"required"`
	AttributeValue string       `json:"attribute_value" binding:"required"`
	PriceModifier  models.Money `json:"price_modifier"`
	StockQuantity  int          `json:"stock_quantity"`
	IsActive       *bool        `json:"is_active"`
}

func (r VariantRequest) toInput() service.VariantInput {
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}
	return service.VariantInput{
		AttributeName:  r.AttributeName,
		AttributeValue: r.AttributeValue,
		PriceModifier:  r.PriceModifier,
		StockQuantity:  r.StockQuantity,
		IsActive:       isActive,
	}
}

// CreateProductVariant 新增商品规格
func (h *Handler) CreateProductVariant(c *gin.Context) {
	productID, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	var req VariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	variant, err := h.ProductService.AddVariant(productID, req.toInput())
	if err != nil {
		respondProductError(c, err, "failed to create variant")
		return
	}
	response.Success(c, gin.H{"variant": variant})
}

// UpdateProductVariant 更新商品规格
func (h *Handler) UpdateProductVariant(c *gin.Context) {
	productID, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	variantID, ok := parsePathID(c, "variant_id")
	if !ok {
		return
	}
	var req VariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	variant, err := h.ProductService.UpdateVariant(productID, variantID, req.toInput())
	if err != nil {
		respondProductError(c, err, "failed to update variant")
		return
	}
	response.Success(c, gin.H{"variant": variant})
}

// DeleteProductVariant 删除商品规格
func (h *Handler) DeleteProductVariant(c *gin.Context) {
	productID, ok := parsePathID(c, "id")
	if !ok {
		return
	}
	variantID, ok := parsePathID(c, "variant_id")
	if !ok {
		return
	}
	if err := h.ProductService.DeleteVariant(productID, variantID); err != nil {
		respondProductError(c, err, "failed to delete variant")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
