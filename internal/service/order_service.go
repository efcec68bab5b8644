package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/shopnext/internal/config"
	"github.com/shopnext/internal/constants"
	"github.com/shopnext/internal/logger"
	"github.com/shopnext/internal/models"
	"github.com/shopnext/internal/queue"
	"github.com/shopnext/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	orderNoCharset     = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	orderNoMaxAttempts = 5
)

// OrderPricing 下单计价参数
type OrderPricing struct {
	TaxRate     decimal.Decimal // 税率（如 0.10）
	ShippingFee models.Money    // 固定运费
	PendingTTL  time.Duration   // 待支付订单超时取消时长（0 表示不超时）
}

// DefaultOrderPricing 默认计价参数：10% 税率、固定运费 50
func DefaultOrderPricing() OrderPricing {
	return OrderPricing{
		TaxRate:     decimal.NewFromFloat(0.10),
		ShippingFee: models.MustMoney("50"),
	}
}

// PricingFromConfig 由订单配置构造计价参数，未配置项回落默认值
func PricingFromConfig(cfg config.OrderConfig) OrderPricing {
	pricing := DefaultOrderPricing()
	if cfg.TaxRate > 0 {
		pricing.TaxRate = decimal.NewFromFloat(cfg.TaxRate)
	}
	if cfg.ShippingFee > 0 {
		pricing.ShippingFee = models.NewMoneyFromDecimal(decimal.NewFromFloat(cfg.ShippingFee))
	}
	if cfg.AutoCancelEnabled && cfg.PendingTTLMinutes > 0 {
		pricing.PendingTTL = time.Duration(cfg.PendingTTLMinutes) * time.Minute
	}
	return pricing
}

// AddressInput 下单地址输入
type AddressInput struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
	Phone         string `json:"phone"`
}

func (a AddressInput) complete() bool {
	required := []string{a.FirstName, a.LastName, a.StreetAddress, a.City, a.PostalCode, a.Country, a.Phone}
	for _, field := range required {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}

func (a AddressInput) toOrderAddress(addrType string) models.OrderAddress {
	return models.OrderAddress{
		Type:          addrType,
		FirstName:     strings.TrimSpace(a.FirstName),
		LastName:      strings.TrimSpace(a.LastName),
		StreetAddress: strings.TrimSpace(a.StreetAddress),
		City:          strings.TrimSpace(a.City),
		State:         strings.TrimSpace(a.State),
		PostalCode:    strings.TrimSpace(a.PostalCode),
		Country:       strings.TrimSpace(a.Country),
		Phone:         strings.TrimSpace(a.Phone),
	}
}

// CreateOrderInput 下单输入
type CreateOrderInput struct {
	PaymentMethod   string
	CouponCode      string
	Notes           string
	ShippingAddress AddressInput
	BillingAddress  AddressInput
}

// UpdateOrderStatusInput 管理端更新订单状态输入
type UpdateOrderStatusInput struct {
	Status           string
	PaymentStatus    string
	PaymentReference string
}

// OrderService 订单服务：下单编排与状态流转
type OrderService struct {
	orderRepo       repository.OrderRepository
	cartRepo        repository.CartRepository
	productRepo     repository.ProductRepository
	couponRepo      repository.CouponRepository
	couponUsageRepo repository.CouponUsageRepository
	couponService   *CouponService
	cartService     *CartService
	queueClient     *queue.Client
	pricing         OrderPricing
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	couponUsageRepo repository.CouponUsageRepository,
	couponService *CouponService,
	cartService *CartService,
	queueClient *queue.Client,
	pricing OrderPricing,
) *OrderService {
	return &OrderService{
		orderRepo:       orderRepo,
		cartRepo:        cartRepo,
		productRepo:     productRepo,
		couponRepo:      couponRepo,
		couponUsageRepo: couponUsageRepo,
		couponService:   couponService,
		cartService:     cartService,
		queueClient:     queueClient,
		pricing:         pricing,
	}
}

// CreateOrder 从用户购物车创建订单。整个流程在单个事务内完成：
// 锁定购物车、校验商品、计价、应用优惠券、生成订单、记录优惠券使用、清空购物车。
// 任一步失败则整体回滚，不产生半成品订单。
func (s *OrderService) CreateOrder(userID uint, input CreateOrderInput) (*models.Order, error) {
	if userID == 0 {
		return nil, ErrUserNotFound
	}
	if !input.ShippingAddress.complete() || !input.BillingAddress.complete() {
		return nil, ErrAddressIncomplete
	}
	paymentMethod := strings.TrimSpace(input.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = constants.PaymentMethodCreditCard
	}

	cart, err := s.cartService.ResolveCart(CartIdentity{UserID: userID})
	if err != nil {
		return nil, err
	}

	var orderID uint
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)
		couponRepo := s.couponRepo.WithTx(tx)
		couponUsageRepo := s.couponUsageRepo.WithTx(tx)
		couponService := s.couponService.WithTx(tx)

		// 行锁串行化同一购物车的并发结算
		lockedCart, err := cartRepo.GetByIDForUpdate(cart.ID)
		if err != nil {
			return err
		}
		if lockedCart == nil {
			return ErrCartNotFound
		}

		items, err := cartRepo.ListItems(lockedCart.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrCartEmpty
		}

		subtotal := decimal.Zero
		orderItems := make([]models.OrderItem, 0, len(items))
		for _, item := range items {
			if item.Product == nil || !item.Product.IsActive {
				return ErrProductNotAvailable
			}
			lineTotal := item.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))
			subtotal = subtotal.Add(lineTotal)
			orderItems = append(orderItems, models.OrderItem{
				ProductID:   item.ProductID,
				VariantID:   item.VariantID,
				ProductName: item.Product.Name,
				UnitPrice:   item.Price,
				Quantity:    item.Quantity,
				TotalPrice:  models.NewMoneyFromDecimal(lineTotal),
			})
		}
		subtotalMoney := models.NewMoneyFromDecimal(subtotal)

		taxAmount := models.NewMoneyFromDecimal(subtotal.Mul(s.pricing.TaxRate))
		shippingCost := s.pricing.ShippingFee

		discount := models.NewMoneyFromDecimal(decimal.Zero)
		var coupon *models.Coupon
		if strings.TrimSpace(input.CouponCode) != "" {
			discount, coupon, err = couponService.ApplyCoupon(subtotalMoney, input.CouponCode, userID)
			if err != nil {
				return err
			}
		}

		total := subtotal.Add(taxAmount.Decimal).Add(shippingCost.Decimal).Sub(discount.Decimal)
		if total.IsNegative() {
			total = decimal.Zero
		}

		orderNo, err := s.generateOrderNo(orderRepo)
		if err != nil {
			return err
		}

		order := &models.Order{
			OrderNo:        orderNo,
			UserID:         userID,
			Status:         constants.OrderStatusPending,
			PaymentStatus:  constants.PaymentStatusPending,
			PaymentMethod:  paymentMethod,
			Subtotal:       subtotalMoney,
			TaxAmount:      taxAmount,
			ShippingCost:   shippingCost,
			DiscountAmount: discount,
			TotalAmount:    models.NewMoneyFromDecimal(total),
			Notes:          strings.TrimSpace(input.Notes),
		}
		if coupon != nil {
			couponID := coupon.ID
			order.CouponID = &couponID
		}

		addresses := []models.OrderAddress{
			input.ShippingAddress.toOrderAddress(constants.OrderAddressTypeShipping),
			input.BillingAddress.toOrderAddress(constants.OrderAddressTypeBilling),
		}
		if err := orderRepo.Create(order, orderItems, addresses); err != nil {
			return err
		}

		if coupon != nil {
			if err := couponUsageRepo.Create(&models.CouponUsage{
				CouponID:       coupon.ID,
				UserID:         userID,
				OrderID:        order.ID,
				DiscountAmount: discount,
			}); err != nil {
				return err
			}
			// 条件递增兜住总上限：并发占满时受影响行数为 0，整单回滚
			affected, err := couponRepo.IncrementUsageCountWithinLimit(coupon.ID)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrCouponNotUsable
			}
		}

		cleared, err := cartRepo.ClearItems(lockedCart.ID)
		if err != nil {
			return err
		}
		if cleared != int64(len(items)) {
			return ErrConcurrencyConflict
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderFetchFailed
	}

	s.scheduleTimeoutCancel(order)

	logger.Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", order.UserID,
		"total_amount", order.TotalAmount.String(),
	)
	return order, nil
}

// GetOrder 获取用户订单详情
func (s *OrderService) GetOrder(userID, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrderByNo 按订单号获取用户订单详情
func (s *OrderService) GetOrderByNo(userID uint, orderNo string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNoAndUser(strings.TrimSpace(orderNo), userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders 获取用户订单列表
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(filter)
}

// ListAdminOrders 管理端订单列表
func (s *OrderService) ListAdminOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// GetAdminOrder 管理端订单详情
func (s *OrderService) GetAdminOrder(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdateOrderStatus 管理端更新订单状态。
// 非法迁移返回 ErrOrderStatusInvalid；各状态时间戳只在首次进入时落盘；
// 取消带优惠券的订单会回退使用记录与使用次数。
func (s *OrderService) UpdateOrderStatus(orderID uint, input UpdateOrderStatusInput) (*models.Order, error) {
	target := strings.TrimSpace(input.Status)

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.GetByID(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if target == "" {
			target = order.Status
		}
		if !isTransitionAllowed(order.Status, target) {
			return ErrOrderStatusInvalid
		}

		updates := map[string]interface{}{}
		if input.PaymentStatus != "" {
			updates["payment_status"] = input.PaymentStatus
		}
		if input.PaymentReference != "" {
			updates["payment_reference"] = input.PaymentReference
		}
		now := time.Now()
		switch target {
		case constants.OrderStatusConfirmed:
			if order.ConfirmedAt == nil {
				updates["confirmed_at"] = now
			}
		case constants.OrderStatusShipped:
			if order.ShippedAt == nil {
				updates["shipped_at"] = now
			}
		case constants.OrderStatusDelivered:
			if order.DeliveredAt == nil {
				updates["delivered_at"] = now
			}
		case constants.OrderStatusCancelled:
			if order.CanceledAt == nil {
				updates["canceled_at"] = now
			}
		}

		if err := orderRepo.UpdateStatus(order.ID, target, updates); err != nil {
			return err
		}

		if target == constants.OrderStatusCancelled && order.Status != constants.OrderStatusCancelled {
			if err := s.rollbackCoupon(tx, order); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderFetchFailed
	}
	logger.Infow("order_status_updated", "order_id", order.ID, "status", order.Status)
	return order, nil
}

// CancelPendingOrder 取消仍处于待支付的订单（超时任务回调）。
// 订单已不在待支付状态时静默返回，不视为错误。
func (s *OrderService) CancelPendingOrder(orderID uint) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.GetByID(orderID)
		if err != nil {
			return err
		}
		if order == nil || order.Status != constants.OrderStatusPending {
			return nil
		}

		updates := map[string]interface{}{}
		if order.CanceledAt == nil {
			updates["canceled_at"] = time.Now()
		}
		if err := orderRepo.UpdateStatus(order.ID, constants.OrderStatusCancelled, updates); err != nil {
			return err
		}
		if err := s.rollbackCoupon(tx, order); err != nil {
			return err
		}
		logger.Infow("order_timeout_cancelled", "order_id", order.ID, "order_no", order.OrderNo)
		return nil
	})
}

// rollbackCoupon 回退订单占用的优惠券额度：删除使用记录并回退使用次数
func (s *OrderService) rollbackCoupon(tx *gorm.DB, order *models.Order) error {
	if order.CouponID == nil {
		return nil
	}
	couponUsageRepo := s.couponUsageRepo.WithTx(tx)
	usages, err := couponUsageRepo.ListByOrderID(order.ID)
	if err != nil {
		return err
	}
	if len(usages) == 0 {
		return nil
	}
	if err := couponUsageRepo.DeleteByOrderID(order.ID); err != nil {
		return err
	}
	return s.couponRepo.WithTx(tx).DecrementUsageCount(*order.CouponID, len(usages))
}

// scheduleTimeoutCancel 为待支付订单安排超时取消任务，失败仅记录日志不影响下单
func (s *OrderService) scheduleTimeoutCancel(order *models.Order) {
	if s.queueClient == nil || !s.queueClient.Enabled() || s.pricing.PendingTTL <= 0 {
		return
	}
	payload := queue.OrderTimeoutCancelPayload{OrderID: order.ID}
	if err := s.queueClient.EnqueueOrderTimeoutCancel(payload, s.pricing.PendingTTL); err != nil {
		logger.Warnw("order_timeout_task_enqueue_failed", "order_id", order.ID, "error", err)
	}
}

// generateOrderNo 生成 ORD- 前缀的随机订单号，先查重再靠唯一索引兜底
func (s *OrderService) generateOrderNo(orderRepo repository.OrderRepository) (string, error) {
	for attempt := 0; attempt < orderNoMaxAttempts; attempt++ {
		suffix, err := randString(constants.OrderNoRandomLength)
		if err != nil {
			return "", err
		}
		orderNo := constants.OrderNoPrefix + suffix
		count, err := orderRepo.CountByOrderNo(orderNo)
		if err != nil {
			return "", err
		}
		if count == 0 {
			return orderNo, nil
		}
	}
	return "", fmt.Errorf("generate order no: exhausted %d attempts", orderNoMaxAttempts)
}

func randString(length int) (string, error) {
	max := big.NewInt(int64(len(orderNoCharset)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = orderNoCharset[n.Int64()]
	}
	return string(buf), nil
}
