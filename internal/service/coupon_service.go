package service

import (
	"strings"
	"time"

	"github.com/shopnext/internal/constants"
	"github.com/shopnext/internal/models"
	"github.com/shopnext/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CouponService 优惠券校验与折扣计算服务
type CouponService struct {
	couponRepo      repository.CouponRepository
	couponUsageRepo repository.CouponUsageRepository
}

// NewCouponService 创建优惠券服务
func NewCouponService(couponRepo repository.CouponRepository, couponUsageRepo repository.CouponUsageRepository) *CouponService {
	return &CouponService{
		couponRepo:      couponRepo,
		couponUsageRepo: couponUsageRepo,
	}
}

// WithTx 绑定事务
func (s *CouponService) WithTx(tx *gorm.DB) *CouponService {
	if tx == nil {
		return s
	}
	return &CouponService{
		couponRepo:      s.couponRepo.WithTx(tx),
		couponUsageRepo: s.couponUsageRepo.WithTx(tx),
	}
}

// IsValid 校验优惠券当前是否可用：启用、在有效期内（含边界）、总次数未用尽
func (s *CouponService) IsValid(coupon *models.Coupon, now time.Time) bool {
	if coupon == nil || !coupon.IsActive {
		return false
	}
	if coupon.ValidFrom != nil && now.Before(*coupon.ValidFrom) {
		return false
	}
	if coupon.ValidUntil != nil && now.After(*coupon.ValidUntil) {
		return false
	}
	if coupon.UsageLimit > 0 && coupon.UsageCount >= coupon.UsageLimit {
		return false
	}
	return true
}

// CanBeUsedBy 校验指定用户能否在指定小计下使用优惠券：
// 在 IsValid 之上叠加每人次数上限与最低消费门槛
func (s *CouponService) CanBeUsedBy(coupon *models.Coupon, userID uint, subtotal models.Money, now time.Time) (bool, error) {
	if !s.IsValid(coupon, now) {
		return false, nil
	}
	if coupon.MinimumPurchase.IsPositive() && subtotal.Cmp(coupon.MinimumPurchase.Decimal) < 0 {
		return false, nil
	}
	if coupon.UsageLimitPerUser > 0 {
		used, err := s.couponUsageRepo.CountByUser(coupon.ID, userID)
		if err != nil {
			return false, err
		}
		if used >= int64(coupon.UsageLimitPerUser) {
			return false, nil
		}
	}
	return true, nil
}

// ListUserUsages 分页获取用户的优惠券核销记录，最新在前
func (s *CouponService) ListUserUsages(filter repository.CouponUsageListFilter) ([]models.CouponUsage, int64, error) {
	return s.couponUsageRepo.ListByUser(filter)
}

// CalculateDiscount 计算折扣金额，结果夹在 [0, amount] 区间内
func (s *CouponService) CalculateDiscount(coupon *models.Coupon, amount models.Money) models.Money {
	if coupon == nil || !amount.IsPositive() {
		return models.NewMoneyFromDecimal(decimal.Zero)
	}

	var discount decimal.Decimal
	switch coupon.DiscountType {
	case constants.CouponTypePercentage:
		discount = amount.Mul(coupon.DiscountValue.Decimal).Div(decimal.NewFromInt(100))
	case constants.CouponTypeFixed:
		discount = coupon.DiscountValue.Decimal
	default:
		return models.NewMoneyFromDecimal(decimal.Zero)
	}

	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(amount.Decimal) {
		discount = amount.Decimal
	}
	return models.NewMoneyFromDecimal(discount)
}

// ApplyCoupon 按优惠码为用户计算小计折扣。
// 优惠码不存在返回 ErrCouponNotFound，存在但当前不可用返回 ErrCouponNotUsable。
func (s *CouponService) ApplyCoupon(subtotal models.Money, code string, userID uint) (models.Money, *models.Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return models.Money{}, nil, ErrCouponNotFound
	}

	coupon, err := s.couponRepo.GetByCode(code)
	if err != nil {
		return models.Money{}, nil, err
	}
	if coupon == nil {
		return models.Money{}, nil, ErrCouponNotFound
	}

	usable, err := s.CanBeUsedBy(coupon, userID, subtotal, time.Now())
	if err != nil {
		return models.Money{}, nil, err
	}
	if !usable {
		return models.Money{}, nil, ErrCouponNotUsable
	}

	return s.CalculateDiscount(coupon, subtotal), coupon, nil
}
