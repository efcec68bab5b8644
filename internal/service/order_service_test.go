package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopnext/internal/constants"
	"github.com/shopnext/internal/models"
	"github.com/shopnext/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T, name string) (*OrderService, *CartService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Cart{},
		&models.CartItem{},
		&models.Coupon{},
		&models.CouponUsage{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderAddress{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	couponUsageRepo := repository.NewCouponUsageRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	couponService := NewCouponService(couponRepo, couponUsageRepo)
	cartService := NewCartService(cartRepo, productRepo)
	orderService := NewOrderService(
		orderRepo,
		cartRepo,
		productRepo,
		couponRepo,
		couponUsageRepo,
		couponService,
		cartService,
		nil,
		DefaultOrderPricing(),
	)
	return orderService, cartService, db
}

func createOrderTestUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	row := models.User{
		Email:        email,
		PasswordHash: "hash",
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return row
}

func createOrderTestProduct(t *testing.T, db *gorm.DB, sku, price string) models.Product {
	t.Helper()

	category := models.Category{Slug: "cat-" + sku, Name: "Category " + sku, IsActive: true}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	row := models.Product{
		CategoryID:    category.ID,
		SKU:           sku,
		Slug:          "product-" + sku,
		Name:          "Product " + sku,
		Price:         models.MustMoney(price),
		StockQuantity: 100,
		IsActive:      true,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return row
}

func testCheckoutAddress() AddressInput {
	return AddressInput{
		FirstName:     "Ada",
		LastName:      "Lovelace",
		StreetAddress: "12 Analytical Way",
		City:          "London",
		State:         "LDN",
		PostalCode:    "SW1A 1AA",
		Country:       "UK",
		Phone:         "+44 20 7946 0000",
	}
}

func TestCreateOrderTotalsWithPercentageCoupon(t *testing.T) {
	orderService, cartService, db := setupOrderServiceTest(t, "order_totals_coupon")

	user := createOrderTestUser(t, db, "totals@example.com")
	product := createOrderTestProduct(t, db, "SKU-A", "50")

	coupon := models.Coupon{
		Code:          "WELCOME10",
		DiscountType:  constants.CouponTypePercentage,
		DiscountValue: models.MustMoney("10"),
		IsActive:      true,
	}
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	identity := CartIdentity{UserID: user.ID}
	if _, err := cartService.AddItem(identity, AddCartItemInput{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	order, err := orderService.CreateOrder(user.ID, CreateOrderInput{
		PaymentMethod:   constants.PaymentMethodCreditCard,
		CouponCode:      "WELCOME10",
		ShippingAddress: testCheckoutAddress(),
		BillingAddress:  testCheckoutAddress(),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if !order.Subtotal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected subtotal 100.00, got %s", order.Subtotal.String())
	}
	if !order.DiscountAmount.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected discount 10.00, got %s", order.DiscountAmount.String())
	}
	if !order.TaxAmount.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected tax 10.00, got %s", order.TaxAmount.String())
	}
	if !order.ShippingCost.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected shipping 50.00, got %s", order.ShippingCost.String())
	}
	if !order.TotalAmount.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected total 150.00, got %s", order.TotalAmount.String())
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", order.Status)
	}
	if order.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("expected pending payment status, got %s", order.PaymentStatus)
	}
	if !strings.HasPrefix(order.OrderNo, constants.OrderNoPrefix) {
		t.Fatalf("expected ORD- prefixed order no, got %s", order.OrderNo)
	}
	if len(order.OrderNo) != len(constants.OrderNoPrefix)+constants.OrderNoRandomLength {
		t.Fatalf("unexpected order no length: %s", order.OrderNo)
	}
	if len(order.Items) != 1 {
		t.Fatalf("expected 1 order item, got %d", len(order.Items))
	}
	if order.Items[0].ProductName != product.Name {
		t.Fatalf("expected product name snapshot, got %s", order.Items[0].ProductName)
	}
	if len(order.Addresses) != 2 {
		t.Fatalf("expected 2 order addresses, got %d", len(order.Addresses))
	}

	// 购物车应被清空
	view, err := cartService.GetCart(identity)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("expected empty cart after checkout, got %d items", len(view.Items))
	}

	// 使用记录与使用次数应各加一
	var usageCount int64
	if err := db.Model(&models.CouponUsage{}).Where("order_id = ?", order.ID).Count(&usageCount).Error; err != nil {
		t.Fatalf("count coupon usages failed: %v", err)
	}
	if usageCount != 1 {
		t.Fatalf("expected 1 coupon usage, got %d", usageCount)
	}
	var reloaded models.Coupon
	if err := db.First(&reloaded, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if reloaded.UsageCount != 1 {
		t.Fatalf("expected usage count 1, got %d", reloaded.UsageCount)
	}
}

func TestCreateOrderEmptyCart(t *testing.T) {
	orderService, _, db := setupOrderServiceTest(t, "order_empty_cart")
	user := createOrderTestUser(t, db, "empty@example.com")

	_, err := orderService.CreateOrder(user.ID, CreateOrderInput{
		ShippingAddress: testCheckoutAddress(),
		BillingAddress:  testCheckoutAddress(),
	})
	if !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}

	var orderCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("expected no orders, got %d", orderCount)
	}
}

func TestCreateOrderIncompleteAddress(t *testing.T) {
	orderService, _, db := setupOrderServiceTest(t, "order_bad_address")
	user := createOrderTestUser(t, db, "address@example.com")

	address := testCheckoutAddress()
	address.PostalCode = ""
	_, err := orderService.CreateOrder(user.ID, CreateOrderInput{
		ShippingAddress: address,
		BillingAddress:  testCheckoutAddress(),
	})
	if !errors.Is(err, ErrAddressIncomplete) {
		t.Fatalf("expected ErrAddressIncomplete, got %v", err)
	}
}

func TestCreateOrderCouponBelowMinimumPurchase(t *testing.T) {
	orderService, cartService, db := setupOrderServiceTest(t, "order_min_purchase")
	user := createOrderTestUser(t, db, "minimum@example.com")
	product := createOrderTestProduct(t, db, "SKU-MIN", "50")

	coupon := models.Coupon{
		Code:            "SUMMER20",
		DiscountType:    constants.CouponTypeFixed,
		DiscountValue:   models.MustMoney("20"),
		MinimumPurchase: models.MustMoney("200"),
		IsActive:        true,
	}
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	identity := CartIdentity{UserID: user.ID}
	if _, err := cartService.AddItem(identity, AddCartItemInput{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	_, err := orderService.CreateOrder(user.ID, CreateOrderInput{
		CouponCode:      "SUMMER20",
		ShippingAddress: testCheckoutAddress(),
		BillingAddress:  testCheckoutAddress(),
	})
	if !errors.Is(err, ErrCouponNotUsable) {
		t.Fatalf("expected ErrCouponNotUsable, got %v", err)
	}

	// 整单回滚：购物车项保留，不产生订单
	view, err := cartService.GetCart(identity)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected cart items preserved, got %d", len(view.Items))
	}
	var orderCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("expected no orders after rollback, got %d", orderCount)
	}
}

func TestCreateOrderUnknownCoupon(t *testing.T) {
	orderService, cartService, db := setupOrderServiceTest(t, "order_unknown_coupon")
	user := createOrderTestUser(t, db, "unknown@example.com")
	product := createOrderTestProduct(t, db, "SKU-UNK", "10")

	identity := CartIdentity{UserID: user.ID}
	if _, err := cartService.AddItem(identity, AddCartItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	_, err := orderService.CreateOrder(user.ID, CreateOrderInput{
		CouponCode:      "NO-SUCH-CODE",
		ShippingAddress: testCheckoutAddress(),
		BillingAddress:  testCheckoutAddress(),
	})
	if !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("expected ErrCouponNotFound, got %v", err)
	}
}

func TestCreateOrderCouponUsageCeiling(t *testing.T) {
	orderService, cartService, db := setupOrderServiceTest(t, "order_usage_ceiling")
	user := createOrderTestUser(t, db, "ceiling@example.com")
	product := createOrderTestProduct(t, db, "SKU-CEIL", "30")

	coupon := models.Coupon{
		Code:          "LAST-ONE",
		DiscountType:  constants.CouponTypeFixed,
		DiscountValue: models.MustMoney("5"),
		UsageLimit:    1,
		UsageCount:    1,
		IsActive:      true,
	}
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	identity := CartIdentity{UserID: user.ID}
	if _, err := cartService.AddItem(identity, AddCartItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	_, err := orderService.CreateOrder(user.ID, CreateOrderInput{
		CouponCode:      "LAST-ONE",
		ShippingAddress: testCheckoutAddress(),
		BillingAddress:  testCheckoutAddress(),
	})
	if !errors.Is(err, ErrCouponNotUsable) {
		t.Fatalf("expected ErrCouponNotUsable, got %v", err)
	}

	var reloaded models.Coupon
	if err := db.First(&reloaded, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if reloaded.UsageCount != 1 {
		t.Fatalf("expected usage count unchanged at 1, got %d", reloaded.UsageCount)
	}
}

func TestCreateOrderPerUserLimit(t *testing.T) {
	orderService, cartService, db := setupOrderServiceTest(t, "order_per_user_limit")
	user := createOrderTestUser(t, db, "peruser@example.com")
	product := createOrderTestProduct(t, db, "SKU-PU", "40")

	coupon := models.Coupon{
		Code:              "ONCE-EACH",
		DiscountType:      constants.CouponTypeFixed,
		DiscountValue:     models.MustMoney("5"),
		UsageLimitPerUser: 1,
		IsActive:          true,
	}
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	identity := CartIdentity{UserID: user.ID}
	if _, err := cartService.AddItem(identity, AddCartItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, err := orderService.CreateOrder(user.ID, CreateOrderInput{
		CouponCode:      "ONCE-EACH",
		ShippingAddress: testCheckoutAddress(),
		BillingAddress:  testCheckoutAddress(),
	}); err != nil {
		t.Fatalf("first order failed: %v", err)
	}

	if _, err := cartService.AddItem(identity, AddCartItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("re-add item failed: %v", err)
	}
	_, err := orderService.CreateOrder(user.ID, CreateOrderInput{
		CouponCode:      "ONCE-EACH",
		ShippingAddress: testCheckoutAddress(),
		BillingAddress:  testCheckoutAddress(),
	})
	if !errors.Is(err, ErrCouponNotUsable) {
		t.Fatalf("expected ErrCouponNotUsable on second use, got %v", err)
	}
}

func TestUpdateOrderStatusTransitions(t *testing.T) {
	orderService, cartService, db := setupOrderServiceTest(t, "order_transitions")
	user := createOrderTestUser(t, db, "transitions@example.com")
	product := createOrderTestProduct(t, db, "SKU-TR", "25")

	identity := CartIdentity{UserID: user.ID}
	if _, err := cartService.AddItem(identity, AddCartItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	order, err := orderService.CreateOrder(user.ID, CreateOrderInput{
		ShippingAddress: testCheckoutAddress(),
		BillingAddress:  testCheckoutAddress(),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// 不允许从 pending 直接跳到 delivered
	if _, err := orderService.UpdateOrderStatus(order.ID, UpdateOrderStatusInput{Status: constants.OrderStatusDelivered}); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid, got %v", err)
	}

	confirmed, err := orderService.UpdateOrderStatus(order.ID, UpdateOrderStatusInput{Status: constants.OrderStatusConfirmed})
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if confirmed.ConfirmedAt == nil {
		t.Fatalf("expected confirmed_at to be set")
	}
	firstConfirmedAt := *confirmed.ConfirmedAt

	// 相同状态为合法空操作，时间戳不变
	again, err := orderService.UpdateOrderStatus(order.ID, UpdateOrderStatusInput{Status: constants.OrderStatusConfirmed})
	if err != nil {
		t.Fatalf("repeat confirm failed: %v", err)
	}
	if again.ConfirmedAt == nil || !again.ConfirmedAt.Equal(firstConfirmedAt) {
		t.Fatalf("expected confirmed_at unchanged, got %v", again.ConfirmedAt)
	}

	shipped, err := orderService.UpdateOrderStatus(order.ID, UpdateOrderStatusInput{Status: constants.OrderStatusShipped})
	if err != nil {
		t.Fatalf("ship failed: %v", err)
	}
	if shipped.ShippedAt == nil {
		t.Fatalf("expected shipped_at to be set")
	}

	// 已发货订单不允许取消
	if _, err := orderService.UpdateOrderStatus(order.ID, UpdateOrderStatusInput{Status: constants.OrderStatusCancelled}); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid for shipped->cancelled, got %v", err)
	}

	delivered, err := orderService.UpdateOrderStatus(order.ID, UpdateOrderStatusInput{Status: constants.OrderStatusDelivered})
	if err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if delivered.DeliveredAt == nil {
		t.Fatalf("expected delivered_at to be set")
	}
}

func TestCancelOrderRollsBackCoupon(t *testing.T) {
	orderService, cartService, db := setupOrderServiceTest(t, "order_cancel_rollback")
	user := createOrderTestUser(t, db, "cancel@example.com")
	product := createOrderTestProduct(t, db, "SKU-CX", "60")

	coupon := models.Coupon{
		Code:          "ROLLBACK",
		DiscountType:  constants.CouponTypeFixed,
		DiscountValue: models.MustMoney("10"),
		UsageLimit:    10,
		IsActive:      true,
	}
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	identity := CartIdentity{UserID: user.ID}
	if _, err := cartService.AddItem(identity, AddCartItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	order, err := orderService.CreateOrder(user.ID, CreateOrderInput{
		CouponCode:      "ROLLBACK",
		ShippingAddress: testCheckoutAddress(),
		BillingAddress:  testCheckoutAddress(),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	cancelled, err := orderService.UpdateOrderStatus(order.ID, UpdateOrderStatusInput{Status: constants.OrderStatusCancelled})
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.CanceledAt == nil {
		t.Fatalf("expected canceled_at to be set")
	}

	var usageCount int64
	if err := db.Model(&models.CouponUsage{}).Where("order_id = ?", order.ID).Count(&usageCount).Error; err != nil {
		t.Fatalf("count coupon usages failed: %v", err)
	}
	if usageCount != 0 {
		t.Fatalf("expected usages removed, got %d", usageCount)
	}
	var reloaded models.Coupon
	if err := db.First(&reloaded, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if reloaded.UsageCount != 0 {
		t.Fatalf("expected usage count back to 0, got %d", reloaded.UsageCount)
	}
}

func TestCancelPendingOrderSkipsNonPending(t *testing.T) {
	orderService, cartService, db := setupOrderServiceTest(t, "order_timeout_skip")
	user := createOrderTestUser(t, db, "timeout@example.com")
	product := createOrderTestProduct(t, db, "SKU-TO", "15")

	identity := CartIdentity{UserID: user.ID}
	if _, err := cartService.AddItem(identity, AddCartItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	order, err := orderService.CreateOrder(user.ID, CreateOrderInput{
		ShippingAddress: testCheckoutAddress(),
		BillingAddress:  testCheckoutAddress(),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if _, err := orderService.UpdateOrderStatus(order.ID, UpdateOrderStatusInput{Status: constants.OrderStatusConfirmed}); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	if err := orderService.CancelPendingOrder(order.ID); err != nil {
		t.Fatalf("cancel pending should be a no-op, got %v", err)
	}
	reloaded, err := orderService.GetAdminOrder(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusConfirmed {
		t.Fatalf("expected status to stay confirmed, got %s", reloaded.Status)
	}
}

func TestCancelPendingOrderCancelsPending(t *testing.T) {
	orderService, cartService, db := setupOrderServiceTest(t, "order_timeout_cancel")
	user := createOrderTestUser(t, db, "timeout2@example.com")
	product := createOrderTestProduct(t, db, "SKU-TO2", "15")

	identity := CartIdentity{UserID: user.ID}
	if _, err := cartService.AddItem(identity, AddCartItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	order, err := orderService.CreateOrder(user.ID, CreateOrderInput{
		ShippingAddress: testCheckoutAddress(),
		BillingAddress:  testCheckoutAddress(),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if err := orderService.CancelPendingOrder(order.ID); err != nil {
		t.Fatalf("cancel pending failed: %v", err)
	}
	reloaded, err := orderService.GetAdminOrder(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusCancelled {
		t.Fatalf("expected cancelled status, got %s", reloaded.Status)
	}
	if reloaded.CanceledAt == nil {
		t.Fatalf("expected canceled_at to be set")
	}
}

func TestGetOrderScopedToUser(t *testing.T) {
	orderService, cartService, db := setupOrderServiceTest(t, "order_user_scope")
	owner := createOrderTestUser(t, db, "owner@example.com")
	other := createOrderTestUser(t, db, "other@example.com")
	product := createOrderTestProduct(t, db, "SKU-SC", "20")

	identity := CartIdentity{UserID: owner.ID}
	if _, err := cartService.AddItem(identity, AddCartItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	order, err := orderService.CreateOrder(owner.ID, CreateOrderInput{
		ShippingAddress: testCheckoutAddress(),
		BillingAddress:  testCheckoutAddress(),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := orderService.GetOrder(owner.ID, order.ID); err != nil {
		t.Fatalf("owner should see order: %v", err)
	}
	if _, err := orderService.GetOrder(other.ID, order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for other user, got %v", err)
	}
	if _, err := orderService.GetOrderByNo(owner.ID, order.OrderNo); err != nil {
		t.Fatalf("get by order no failed: %v", err)
	}
}

func TestCreateOrderRollsBackWhenAddressInsertFails(t *testing.T) {
	orderService, cartService, db := setupOrderServiceTest(t, "order_address_fail")
	user := createOrderTestUser(t, db, "atomic@example.com")
	product := createOrderTestProduct(t, db, "SKU-ATM", "50")

	coupon := models.Coupon{
		Code:          "WELCOME10",
		DiscountType:  constants.CouponTypePercentage,
		DiscountValue: models.MustMoney("10"),
		IsActive:      true,
	}
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	identity := CartIdentity{UserID: user.ID}
	if _, err := cartService.AddItem(identity, AddCartItemInput{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	// 删除订单地址表，使事务在订单和订单项已写入之后失败
	if err := db.Migrator().DropTable(&models.OrderAddress{}); err != nil {
		t.Fatalf("drop order_addresses failed: %v", err)
	}

	_, err := orderService.CreateOrder(user.ID, CreateOrderInput{
		PaymentMethod:   constants.PaymentMethodCreditCard,
		CouponCode:      "WELCOME10",
		ShippingAddress: testCheckoutAddress(),
		BillingAddress:  testCheckoutAddress(),
	})
	if err == nil {
		t.Fatalf("expected create order to fail without address table")
	}

	// 整单回滚：订单、订单项、优惠券使用记录均不可见
	counts := map[string]interface{}{
		"orders":        &models.Order{},
		"order_items":   &models.OrderItem{},
		"coupon_usages": &models.CouponUsage{},
	}
	for table, model := range counts {
		var count int64
		if err := db.Model(model).Count(&count).Error; err != nil {
			t.Fatalf("count %s failed: %v", table, err)
		}
		if count != 0 {
			t.Fatalf("expected no %s rows after rollback, got %d", table, count)
		}
	}
	var reloaded models.Coupon
	if err := db.First(&reloaded, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if reloaded.UsageCount != 0 {
		t.Fatalf("expected usage count 0 after rollback, got %d", reloaded.UsageCount)
	}

	// 购物车保持原样
	view, err := cartService.GetCart(identity)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected cart item preserved, got %d items", len(view.Items))
	}
	if view.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2 preserved, got %d", view.Items[0].Quantity)
	}
}

func TestCreateOrderSecondCheckoutSeesEmptyCart(t *testing.T) {
	orderService, cartService, db := setupOrderServiceTest(t, "order_double_checkout")
	user := createOrderTestUser(t, db, "double@example.com")
	product := createOrderTestProduct(t, db, "SKU-DBL", "25")

	identity := CartIdentity{UserID: user.ID}
	if _, err := cartService.AddItem(identity, AddCartItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	if _, err := orderService.CreateOrder(user.ID, CreateOrderInput{
		ShippingAddress: testCheckoutAddress(),
		BillingAddress:  testCheckoutAddress(),
	}); err != nil {
		t.Fatalf("first create order failed: %v", err)
	}

	// 同一购物车快照不会产生第二笔订单
	_, err := orderService.CreateOrder(user.ID, CreateOrderInput{
		ShippingAddress: testCheckoutAddress(),
		BillingAddress:  testCheckoutAddress(),
	})
	if !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty on second checkout, got %v", err)
	}

	var orderCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 1 {
		t.Fatalf("expected exactly one order, got %d", orderCount)
	}
}
