package service

import (
	"strings"

	"github.com/shopnext/internal/models"
	"github.com/shopnext/internal/repository"
)

// ProductService 商品服务
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// List 商品列表
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// GetByID 获取商品详情
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetBySlug 按 slug 获取商品详情（商城前台仅返回上架商品）
func (s *ProductService) GetBySlug(slug string, onlyActive bool) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(strings.TrimSpace(slug), onlyActive)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ProductInput 商品创建/更新输入
type ProductInput struct {
	CategoryID    uint
	SKU           string
	Slug          string
	Name          string
	Description   string
	Price         models.Money
	Cost          models.Money
	DiscountPrice *models.Money
	StockQuantity int
	MinimumStock  int
	Images        []string
	Tags          []string
	IsActive      bool
	IsFeatured    bool
	SortOrder     int
}

func (s *ProductService) validateInput(input ProductInput, excludeID *uint) error {
	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}

	slugCount, err := s.productRepo.CountBySlug(strings.TrimSpace(input.Slug), excludeID)
	if err != nil {
		return err
	}
	if slugCount > 0 {
		return ErrProductSlugExists
	}

	skuCount, err := s.productRepo.CountBySKU(strings.TrimSpace(input.SKU), excludeID)
	if err != nil {
		return err
	}
	if skuCount > 0 {
		return ErrProductSKUExists
	}
	return nil
}

// Create 创建商品
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	if err := s.validateInput(input, nil); err != nil {
		return nil, err
	}

	product := &models.Product{
		CategoryID:    input.CategoryID,
		SKU:           strings.TrimSpace(input.SKU),
		Slug:          strings.TrimSpace(input.Slug),
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		Price:         input.Price,
		Cost:          input.Cost,
		DiscountPrice: input.DiscountPrice,
		StockQuantity: input.StockQuantity,
		MinimumStock:  input.MinimumStock,
		Images:        input.Images,
		Tags:          input.Tags,
		IsActive:      input.IsActive,
		IsFeatured:    input.IsFeatured,
		SortOrder:     input.SortOrder,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update 更新商品
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(input, &product.ID); err != nil {
		return nil, err
	}

	product.CategoryID = input.CategoryID
	product.SKU = strings.TrimSpace(input.SKU)
	product.Slug = strings.TrimSpace(input.Slug)
	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.Price = input.Price
	product.Cost = input.Cost
	product.DiscountPrice = input.DiscountPrice
	product.StockQuantity = input.StockQuantity
	product.MinimumStock = input.MinimumStock
	product.Images = input.Images
	product.Tags = input.Tags
	product.IsActive = input.IsActive
	product.IsFeatured = input.IsFeatured
	product.SortOrder = input.SortOrder

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete 删除商品
func (s *ProductService) Delete(id uint) error {
	product, err := s.GetByID(id)
	if err != nil {
		return err
	}
	return s.productRepo.Delete(product.ID)
}

// VariantInput 商品规格输入
type VariantInput struct {
	AttributeName  string
	AttributeValue string
	PriceModifier  models.Money
	StockQuantity  int
	IsActive       bool
}

func (i VariantInput) validate() error {
	if strings.TrimSpace(i.AttributeName) == "" || strings.TrimSpace(i.AttributeValue) == "" {
		return ErrVariantInvalid
	}
	if i.StockQuantity < 0 {
		return ErrVariantInvalid
	}
	return nil
}

// AddVariant 为商品新增规格
func (s *ProductService) AddVariant(productID uint, input VariantInput) (*models.ProductVariant, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	product, err := s.GetByID(productID)
	if err != nil {
		return nil, err
	}

	variant := &models.ProductVariant{
		ProductID:      product.ID,
		AttributeName:  strings.TrimSpace(input.AttributeName),
		AttributeValue: strings.TrimSpace(input.AttributeValue),
		PriceModifier:  input.PriceModifier,
		StockQuantity:  input.StockQuantity,
		IsActive:       input.IsActive,
	}
	if err := s.productRepo.CreateVariant(variant); err != nil {
		return nil, err
	}
	return variant, nil
}

// UpdateVariant 更新商品规格，规格必须属于指定商品
func (s *ProductService) UpdateVariant(productID, variantID uint, input VariantInput) (*models.ProductVariant, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	variant, err := s.productRepo.GetVariant(variantID)
	if err != nil {
		return nil, err
	}
	if variant == nil || variant.ProductID != productID {
		return nil, ErrVariantNotFound
	}

	variant.AttributeName = strings.TrimSpace(input.AttributeName)
	variant.AttributeValue = strings.TrimSpace(input.AttributeValue)
	variant.PriceModifier = input.PriceModifier
	variant.StockQuantity = input.StockQuantity
	variant.IsActive = input.IsActive

	if err := s.productRepo.SaveVariant(variant); err != nil {
		return nil, err
	}
	return variant, nil
}

// DeleteVariant 删除商品规格
func (s *ProductService) DeleteVariant(productID, variantID uint) error {
	variant, err := s.productRepo.GetVariant(variantID)
	if err != nil {
		return err
	}
	if variant == nil || variant.ProductID != productID {
		return ErrVariantNotFound
	}
	return s.productRepo.DeleteVariant(variant.ID)
}
