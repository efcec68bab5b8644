package service

import (
	"strings"
	"time"

	"github.com/shopnext/internal/constants"
	"github.com/shopnext/internal/models"
	"github.com/shopnext/internal/repository"

	"github.com/shopspring/decimal"
)

// CouponAdminService 管理端优惠券服务
type CouponAdminService struct {
	couponRepo repository.CouponRepository
}

// NewCouponAdminService 创建管理端优惠券服务
func NewCouponAdminService(couponRepo repository.CouponRepository) *CouponAdminService {
	return &CouponAdminService{couponRepo: couponRepo}
}

// CouponInput 优惠券创建/更新输入
type CouponInput struct {
	Code              string
	Description       string
	DiscountType      string
	DiscountValue     models.Money
	MinimumPurchase   models.Money
	UsageLimit        int
	UsageLimitPerUser int
	ValidFrom         *time.Time
	ValidUntil        *time.Time
	IsActive          bool
}

func (i CouponInput) validate() error {
	if strings.TrimSpace(i.Code) == "" {
		return ErrCouponInvalid
	}
	switch i.DiscountType {
	case constants.CouponTypeFixed:
		if i.DiscountValue.IsNegative() {
			return ErrCouponInvalid
		}
	case constants.CouponTypePercentage:
		if i.DiscountValue.IsNegative() || i.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
			return ErrCouponInvalid
		}
	default:
		return ErrCouponInvalid
	}
	if i.MinimumPurchase.IsNegative() {
		return ErrCouponInvalid
	}
	if i.UsageLimit < 0 || i.UsageLimitPerUser < 0 {
		return ErrCouponInvalid
	}
	if i.ValidFrom != nil && i.ValidUntil != nil && i.ValidUntil.Before(*i.ValidFrom) {
		return ErrCouponInvalid
	}
	return nil
}

// List 优惠券列表
func (s *CouponAdminService) List(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.couponRepo.List(filter)
}

// GetByID 获取优惠券
func (s *CouponAdminService) GetByID(id uint) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

// Create 创建优惠券，优惠码查重
func (s *CouponAdminService) Create(input CouponInput) (*models.Coupon, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	code := strings.TrimSpace(input.Code)
	existing, err := s.couponRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCouponInvalid
	}

	coupon := &models.Coupon{
		Code:              code,
		Description:       input.Description,
		DiscountType:      input.DiscountType,
		DiscountValue:     input.DiscountValue,
		MinimumPurchase:   input.MinimumPurchase,
		UsageLimit:        input.UsageLimit,
		UsageLimitPerUser: input.UsageLimitPerUser,
		ValidFrom:         input.ValidFrom,
		ValidUntil:        input.ValidUntil,
		IsActive:          input.IsActive,
	}
	if err := s.couponRepo.Create(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// Update 更新优惠券，使用次数不可通过更新修改
func (s *CouponAdminService) Update(id uint, input CouponInput) (*models.Coupon, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	coupon, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	code := strings.TrimSpace(input.Code)
	if code != coupon.Code {
		existing, err := s.couponRepo.GetByCode(code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrCouponInvalid
		}
	}

	coupon.Code = code
	coupon.Description = input.Description
	coupon.DiscountType = input.DiscountType
	coupon.DiscountValue = input.DiscountValue
	coupon.MinimumPurchase = input.MinimumPurchase
	coupon.UsageLimit = input.UsageLimit
	coupon.UsageLimitPerUser = input.UsageLimitPerUser
	coupon.ValidFrom = input.ValidFrom
	coupon.ValidUntil = input.ValidUntil
	coupon.IsActive = input.IsActive

	if err := s.couponRepo.Update(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// Delete 删除优惠券
func (s *CouponAdminService) Delete(id uint) error {
	coupon, err := s.GetByID(id)
	if err != nil {
		return err
	}
	return s.couponRepo.Delete(coupon.ID)
}
