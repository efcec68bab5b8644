package service

import "errors"

// 服务层统一错误定义，处理器据此映射响应码与文案
var (
	ErrProductNotFound     = errors.New("product not found")
	ErrProductNotAvailable = errors.New("product not available")
	ErrProductSlugExists   = errors.New("product slug already exists")
	ErrProductSKUExists    = errors.New("product sku already exists")
	ErrVariantNotFound     = errors.New("product variant not found")
	ErrVariantInvalid      = errors.New("product variant invalid")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryNotEmpty    = errors.New("category still has products")
	ErrCategorySlugExists  = errors.New("category slug already exists")

	ErrCartNotFound     = errors.New("cart not found")
	ErrCartEmpty        = errors.New("cart is empty")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrCartItemInvalid  = errors.New("cart item invalid")

	ErrCouponInvalid   = errors.New("coupon invalid")
	ErrCouponNotFound  = errors.New("coupon not found")
	ErrCouponNotUsable = errors.New("coupon not usable")

	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderCreateFailed  = errors.New("order create failed")
	ErrOrderFetchFailed   = errors.New("order fetch failed")
	ErrOrderUpdateFailed  = errors.New("order update failed")
	ErrOrderStatusInvalid = errors.New("order status transition not allowed")
	ErrAddressIncomplete  = errors.New("address incomplete")

	ErrConcurrencyConflict = errors.New("concurrent checkout conflict")

	ErrWishlistItemNotFound = errors.New("wishlist item not found")
	ErrBannerNotFound       = errors.New("banner not found")
	ErrBannerInvalid        = errors.New("banner invalid")

	ErrReviewNotFound     = errors.New("review not found")
	ErrReviewInvalid      = errors.New("review invalid")
	ErrReviewExists       = errors.New("review already exists")
	ErrAddressNotFound    = errors.New("address not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserStatusInvalid  = errors.New("user status invalid")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user disabled")
	ErrWeakPassword       = errors.New("password does not meet policy")
)
