package service

import (
	"strings"
	"time"

	"github.com/shopnext/internal/constants"
	"github.com/shopnext/internal/models"
	"github.com/shopnext/internal/repository"
)

// BannerService 站点横幅服务
type BannerService struct {
	bannerRepo repository.BannerRepository
}

// NewBannerService 创建横幅服务
func NewBannerService(bannerRepo repository.BannerRepository) *BannerService {
	return &BannerService{bannerRepo: bannerRepo}
}

// BannerInput 横幅创建/更新输入
type BannerInput struct {
	Name         string
	Position     string
	Title        string
	Subtitle     string
	Image        string
	MobileImage  string
	LinkType     string
	LinkValue    string
	OpenInNewTab bool
	IsActive     bool
	StartAt      *time.Time
	EndAt        *time.Time
	SortOrder    int
}

// normalize 校验并归一化输入：
// 名称与图片必填，时间窗不可倒置；link_type 为 none 时清空链接目标，
// internal/external 必须携带链接目标。
func (i BannerInput) normalize() (BannerInput, error) {
	i.Name = strings.TrimSpace(i.Name)
	i.Image = strings.TrimSpace(i.Image)
	i.LinkValue = strings.TrimSpace(i.LinkValue)
	if i.Name == "" || i.Image == "" {
		return i, ErrBannerInvalid
	}
	if i.Position == "" {
		i.Position = constants.BannerPositionHomeHero
	}
	if i.StartAt != nil && i.EndAt != nil && i.EndAt.Before(*i.StartAt) {
		return i, ErrBannerInvalid
	}
	switch i.LinkType {
	case "", constants.BannerLinkTypeNone:
		i.LinkType = constants.BannerLinkTypeNone
		i.LinkValue = ""
	case constants.BannerLinkTypeInternal, constants.BannerLinkTypeExternal:
		if i.LinkValue == "" {
			return i, ErrBannerInvalid
		}
	default:
		return i, ErrBannerInvalid
	}
	return i, nil
}

// List 横幅列表（后台）
func (s *BannerService) List(filter repository.BannerListFilter) ([]models.Banner, int64, error) {
	return s.bannerRepo.List(filter)
}

// ListActive 获取某位置当前可展示的横幅（前台）
func (s *BannerService) ListActive(position string, limit int) ([]models.Banner, error) {
	if strings.TrimSpace(position) == "" {
		position = constants.BannerPositionHomeHero
	}
	return s.bannerRepo.ListValidByPosition(position, limit, time.Now())
}

// GetByID 获取横幅
func (s *BannerService) GetByID(id uint) (*models.Banner, error) {
	banner, err := s.bannerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if banner == nil {
		return nil, ErrBannerNotFound
	}
	return banner, nil
}

// Create 创建横幅
func (s *BannerService) Create(input BannerInput) (*models.Banner, error) {
	input, err := input.normalize()
	if err != nil {
		return nil, err
	}

	banner := &models.Banner{
		Name:         input.Name,
		Position:     input.Position,
		Title:        input.Title,
		Subtitle:     input.Subtitle,
		Image:        input.Image,
		MobileImage:  input.MobileImage,
		LinkType:     input.LinkType,
		LinkValue:    input.LinkValue,
		OpenInNewTab: input.OpenInNewTab,
		IsActive:     input.IsActive,
		StartAt:      input.StartAt,
		EndAt:        input.EndAt,
		SortOrder:    input.SortOrder,
	}
	if err := s.bannerRepo.Create(banner); err != nil {
		return nil, err
	}
	return banner, nil
}

// Update 更新横幅
func (s *BannerService) Update(id uint, input BannerInput) (*models.Banner, error) {
	input, err := input.normalize()
	if err != nil {
		return nil, err
	}

	banner, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	banner.Name = input.Name
	banner.Position = input.Position
	banner.Title = input.Title
	banner.Subtitle = input.Subtitle
	banner.Image = input.Image
	banner.MobileImage = input.MobileImage
	banner.LinkType = input.LinkType
	banner.LinkValue = input.LinkValue
	banner.OpenInNewTab = input.OpenInNewTab
	banner.IsActive = input.IsActive
	banner.StartAt = input.StartAt
	banner.EndAt = input.EndAt
	banner.SortOrder = input.SortOrder

	if err := s.bannerRepo.Update(banner); err != nil {
		return nil, err
	}
	return banner, nil
}

// Delete 删除横幅
func (s *BannerService) Delete(id uint) error {
	banner, err := s.GetByID(id)
	if err != nil {
		return err
	}
	return s.bannerRepo.Delete(banner.ID)
}
