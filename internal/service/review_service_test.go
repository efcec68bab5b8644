package service

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/shopnext/internal/constants"
	"github.com/shopnext/internal/models"
	"github.com/shopnext/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupReviewServiceTest(t *testing.T, name string) (*ReviewService, *gorm.DB) {
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
		&models.Review{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	return NewReviewService(
		repository.NewReviewRepository(db),
		repository.NewProductRepository(db),
		repository.NewOrderRepository(db),
	), db
}

func createReviewTestProduct(t *testing.T, db *gorm.DB, sku string) models.Product {
	t.Helper()

	category := models.Category{Slug: "cat-" + sku, Name: "Category " + sku, IsActive: true}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	row := models.Product{
		CategoryID: category.ID,
		SKU:        sku,
		Slug:       "product-" + sku,
		Name:       "Product " + sku,
		Price:      models.MustMoney("10"),
		IsActive:   true,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return row
}

func createReviewTestUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	row := models.User{Email: email, PasswordHash: "hash", Status: constants.UserStatusActive}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return row
}

func createDeliveredOrder(t *testing.T, db *gorm.DB, userID, productID uint) {
	t.Helper()

	order := models.Order{
		OrderNo:       fmt.Sprintf("ORD-TEST%d%d", userID, productID),
		UserID:        userID,
		Status:        constants.OrderStatusDelivered,
		PaymentStatus: constants.PaymentStatusCompleted,
		PaymentMethod: constants.PaymentMethodCreditCard,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	item := models.OrderItem{
		OrderID:     order.ID,
		ProductID:   productID,
		ProductName: "snapshot",
		UnitPrice:   models.MustMoney("10"),
		Quantity:    1,
		TotalPrice:  models.MustMoney("10"),
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("create order item failed: %v", err)
	}
}

func reloadAverageRating(t *testing.T, db *gorm.DB, productID uint) float64 {
	t.Helper()

	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	return product.AverageRating
}

func TestCreateReviewValidatesRating(t *testing.T) {
	reviewService, db := setupReviewServiceTest(t, "review_rating")
	product := createReviewTestProduct(t, db, "SKU-RV")
	user := createReviewTestUser(t, db, "rating@example.com")

	for _, rating := range []int{0, 6, -1} {
		if _, err := reviewService.Create(user.ID, product.ID, ReviewInput{Rating: rating}); !errors.Is(err, ErrReviewInvalid) {
			t.Fatalf("expected ErrReviewInvalid for rating %d, got %v", rating, err)
		}
	}
}

func TestCreateReviewOncePerUser(t *testing.T) {
	reviewService, db := setupReviewServiceTest(t, "review_once")
	product := createReviewTestProduct(t, db, "SKU-ONCE")
	user := createReviewTestUser(t, db, "once@example.com")

	if _, err := reviewService.Create(user.ID, product.ID, ReviewInput{Rating: 4, Title: "good"}); err != nil {
		t.Fatalf("create review failed: %v", err)
	}
	if _, err := reviewService.Create(user.ID, product.ID, ReviewInput{Rating: 5}); !errors.Is(err, ErrReviewExists) {
		t.Fatalf("expected ErrReviewExists, got %v", err)
	}
}

func TestCreateReviewVerifiedPurchaseFlag(t *testing.T) {
	reviewService, db := setupReviewServiceTest(t, "review_verified")
	product := createReviewTestProduct(t, db, "SKU-VP")
	buyer := createReviewTestUser(t, db, "buyer@example.com")
	visitor := createReviewTestUser(t, db, "visitor@example.com")

	createDeliveredOrder(t, db, buyer.ID, product.ID)

	bought, err := reviewService.Create(buyer.ID, product.ID, ReviewInput{Rating: 5})
	if err != nil {
		t.Fatalf("create buyer review failed: %v", err)
	}
	if !bought.IsVerifiedPurchase {
		t.Fatalf("expected verified purchase flag for buyer")
	}

	casual, err := reviewService.Create(visitor.ID, product.ID, ReviewInput{Rating: 3})
	if err != nil {
		t.Fatalf("create visitor review failed: %v", err)
	}
	if casual.IsVerifiedPurchase {
		t.Fatalf("expected unverified flag for visitor")
	}
}

func TestApproveRecomputesAverageRating(t *testing.T) {
	reviewService, db := setupReviewServiceTest(t, "review_average")
	product := createReviewTestProduct(t, db, "SKU-AVG")
	alice := createReviewTestUser(t, db, "alice@example.com")
	bob := createReviewTestUser(t, db, "bob@example.com")

	first, err := reviewService.Create(alice.ID, product.ID, ReviewInput{Rating: 5})
	if err != nil {
		t.Fatalf("create first review failed: %v", err)
	}
	second, err := reviewService.Create(bob.ID, product.ID, ReviewInput{Rating: 2})
	if err != nil {
		t.Fatalf("create second review failed: %v", err)
	}

	// 未审核评价不计入平均分
	if got := reloadAverageRating(t, db, product.ID); got != 0 {
		t.Fatalf("expected average 0 before approval, got %v", got)
	}

	if _, err := reviewService.Approve(first.ID); err != nil {
		t.Fatalf("approve first failed: %v", err)
	}
	if got := reloadAverageRating(t, db, product.ID); got != 5 {
		t.Fatalf("expected average 5 after one approval, got %v", got)
	}

	if _, err := reviewService.Approve(second.ID); err != nil {
		t.Fatalf("approve second failed: %v", err)
	}
	if got := reloadAverageRating(t, db, product.ID); math.Abs(got-3.5) > 1e-9 {
		t.Fatalf("expected average 3.5, got %v", got)
	}

	// 删除已审核评价后重算
	if err := reviewService.Remove(second.ID); err != nil {
		t.Fatalf("remove review failed: %v", err)
	}
	if got := reloadAverageRating(t, db, product.ID); got != 5 {
		t.Fatalf("expected average back to 5, got %v", got)
	}
}

func TestUpdateReviewResetsApproval(t *testing.T) {
	reviewService, db := setupReviewServiceTest(t, "review_update")
	product := createReviewTestProduct(t, db, "SKU-UPD")
	user := createReviewTestUser(t, db, "update@example.com")

	review, err := reviewService.Create(user.ID, product.ID, ReviewInput{Rating: 4})
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}
	if _, err := reviewService.Approve(review.ID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if got := reloadAverageRating(t, db, product.ID); got != 4 {
		t.Fatalf("expected average 4, got %v", got)
	}

	updated, err := reviewService.Update(user.ID, review.ID, ReviewInput{Rating: 1, Comment: "changed my mind"})
	if err != nil {
		t.Fatalf("update review failed: %v", err)
	}
	if updated.IsApproved {
		t.Fatalf("expected review back to unapproved after edit")
	}
	// 重新进入待审核后不再计入平均分
	if got := reloadAverageRating(t, db, product.ID); got != 0 {
		t.Fatalf("expected average 0 after edit, got %v", got)
	}
}

func TestReviewOwnerScope(t *testing.T) {
	reviewService, db := setupReviewServiceTest(t, "review_owner")
	product := createReviewTestProduct(t, db, "SKU-OWN")
	owner := createReviewTestUser(t, db, "owner-review@example.com")
	other := createReviewTestUser(t, db, "other-review@example.com")

	review, err := reviewService.Create(owner.ID, product.ID, ReviewInput{Rating: 4})
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}

	if _, err := reviewService.Update(other.ID, review.ID, ReviewInput{Rating: 1}); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound for foreign update, got %v", err)
	}
	if err := reviewService.Delete(other.ID, review.ID); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound for foreign delete, got %v", err)
	}
	if err := reviewService.Delete(owner.ID, review.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
}
