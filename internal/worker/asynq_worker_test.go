package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/shopnext/internal/constants"
	"github.com/shopnext/internal/models"
	"github.com/shopnext/internal/provider"
	"github.com/shopnext/internal/queue"
	"github.com/shopnext/internal/repository"
	"github.com/shopnext/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupWorkerTest(t *testing.T, name string) (*Consumer, *gorm.DB) {
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

	couponService := service.NewCouponService(couponRepo, couponUsageRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(
		orderRepo,
		cartRepo,
		productRepo,
		couponRepo,
		couponUsageRepo,
		couponService,
		cartService,
		nil,
		service.DefaultOrderPricing(),
	)

	consumer := NewConsumer(&provider.Container{OrderService: orderService})
	return consumer, db
}

func timeoutCancelTask(t *testing.T, orderID uint) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(queue.OrderTimeoutCancelPayload{OrderID: orderID})
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	return asynq.NewTask(queue.TaskOrderTimeoutCancel, payload)
}

func TestHandleOrderTimeoutCancelBadPayload(t *testing.T) {
	consumer, _ := setupWorkerTest(t, "worker_bad_payload")

	task := asynq.NewTask(queue.TaskOrderTimeoutCancel, []byte("{not-json"))
	if err := consumer.handleOrderTimeoutCancel(context.Background(), task); err == nil {
		t.Fatal("expected unmarshal error for malformed payload")
	}
}

func TestHandleOrderTimeoutCancelMissingOrder(t *testing.T) {
	consumer, _ := setupWorkerTest(t, "worker_missing_order")

	// 订单不存在属于可接受情况，任务不应重试
	if err := consumer.handleOrderTimeoutCancel(context.Background(), timeoutCancelTask(t, 9999)); err != nil {
		t.Fatalf("expected nil for missing order, got %v", err)
	}
}

func TestHandleOrderTimeoutCancelCancelsPendingOrder(t *testing.T) {
	consumer, db := setupWorkerTest(t, "worker_cancel_pending")

	order := models.Order{
		UserID:  1,
		OrderNo: "ORD-WORKERTEST1",
		Status:  constants.OrderStatusPending,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if err := consumer.handleOrderTimeoutCancel(context.Background(), timeoutCancelTask(t, order.ID)); err != nil {
		t.Fatalf("handle timeout cancel failed: %v", err)
	}

	var got models.Order
	if err := db.First(&got, order.ID).Error; err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	if got.Status != constants.OrderStatusCancelled {
		t.Fatalf("expected cancelled status, got %s", got.Status)
	}
	if got.CanceledAt == nil {
		t.Fatal("expected canceled_at to be set")
	}
}

func TestHandleOrderTimeoutCancelSkipsPaidOrder(t *testing.T) {
	consumer, db := setupWorkerTest(t, "worker_skip_paid")

	order := models.Order{
		UserID:  1,
		OrderNo: "ORD-WORKERTEST2",
		Status:  constants.OrderStatusConfirmed,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if err := consumer.handleOrderTimeoutCancel(context.Background(), timeoutCancelTask(t, order.ID)); err != nil {
		t.Fatalf("handle timeout cancel failed: %v", err)
	}

	var got models.Order
	if err := db.First(&got, order.ID).Error; err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	if got.Status != constants.OrderStatusConfirmed {
		t.Fatalf("expected confirmed status untouched, got %s", got.Status)
	}
}
