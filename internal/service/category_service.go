package service

import (
	"strings"

	"github.com/shopnext/internal/models"
	"github.com/shopnext/internal/repository"
)

// CategoryService 分类服务
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// List 分类列表
func (s *CategoryService) List(onlyActive bool) ([]models.Category, error) {
	return s.categoryRepo.List(onlyActive)
}

// GetByID 获取分类
func (s *CategoryService) GetByID(id uint) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// GetBySlug 按 slug 获取分类
func (s *CategoryService) GetBySlug(slug string) (*models.Category, error) {
	category, err := s.categoryRepo.GetBySlug(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// CategoryInput 分类创建/更新输入
type CategoryInput struct {
	Slug        string
	Name        string
	Description string
	Image       string
	IsActive    bool
	SortOrder   int
}

// Create 创建分类
func (s *CategoryService) Create(input CategoryInput) (*models.Category, error) {
	slug := strings.TrimSpace(input.Slug)
	count, err := s.categoryRepo.CountBySlug(slug, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCategorySlugExists
	}

	category := &models.Category{
		Slug:        slug,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Image:       input.Image,
		IsActive:    input.IsActive,
		SortOrder:   input.SortOrder,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update 更新分类
func (s *CategoryService) Update(id uint, input CategoryInput) (*models.Category, error) {
	category, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	slug := strings.TrimSpace(input.Slug)
	count, err := s.categoryRepo.CountBySlug(slug, &category.ID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCategorySlugExists
	}

	category.Slug = slug
	category.Name = strings.TrimSpace(input.Name)
	category.Description = input.Description
	category.Image = input.Image
	category.IsActive = input.IsActive
	category.SortOrder = input.SortOrder

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete 删除分类，分类下仍有商品时拒绝删除
func (s *CategoryService) Delete(id uint) error {
	category, err := s.GetByID(id)
	if err != nil {
		return err
	}
	count, err := s.categoryRepo.CountProducts(category.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryNotEmpty
	}
	return s.categoryRepo.Delete(category.ID)
}
