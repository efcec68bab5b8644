package public

import (
	"errors"

	"github.com/shopnext/internal/http/response"
	"github.com/shopnext/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var categoryErrorRules = []mappedHandlerError{
	{target: service.ErrCategoryNotFound, code: response.CodeNotFound, msg: "category not found"},
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, msg: "product not available"},
	{target: service.ErrVariantNotFound, code: response.CodeBadRequest, msg: "product variant not found"},
	{target: service.ErrCartNotFound, code: response.CodeNotFound, msg: "cart not found"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, msg: "cart item not found"},
	{target: service.ErrCartItemInvalid, code: response.CodeBadRequest, msg: "cart item invalid"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, msg: "cart is empty"},
	{target: service.ErrAddressIncomplete, code: response.CodeBadRequest, msg: "shipping address incomplete"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, msg: "product not available"},
	{target: service.ErrCouponNotFound, code: response.CodeBadRequest, msg: "coupon not found"},
	{target: service.ErrCouponNotUsable, code: response.CodeBadRequest, msg: "coupon not usable"},
	{target: service.ErrConcurrencyConflict, code: response.CodeConflict, msg: "cart changed during checkout, please retry"},
	{target: service.ErrCartNotFound, code: response.CodeBadRequest, msg: "cart is empty"},
}

var orderQueryErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
}

var reviewErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrReviewInvalid, code: response.CodeBadRequest, msg: "rating must be between 1 and 5"},
	{target: service.ErrReviewExists, code: response.CodeConflict, msg: "product already reviewed"},
	{target: service.ErrReviewNotFound, code: response.CodeNotFound, msg: "review not found"},
}

var wishlistErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrWishlistItemNotFound, code: response.CodeNotFound, msg: "wishlist item not found"},
}

var addressErrorRules = []mappedHandlerError{
	{target: service.ErrAddressNotFound, code: response.CodeNotFound, msg: "address not found"},
	{target: service.ErrAddressIncomplete, code: response.CodeBadRequest, msg: "address incomplete"},
}

var userAuthErrorRules = []mappedHandlerError{
	{target: service.ErrEmailExists, code: response.CodeConflict, msg: "email already registered"},
	{target: service.ErrWeakPassword, code: response.CodeBadRequest, msg: "password does not meet policy"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, msg: "invalid email or password"},
	{target: service.ErrUserDisabled, code: response.CodeForbidden, msg: "account disabled"},
	{target: service.ErrUserNotFound, code: response.CodeNotFound, msg: "user not found"},
}
