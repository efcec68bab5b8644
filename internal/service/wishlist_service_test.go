package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopnext/internal/models"
	"github.com/shopnext/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupWishlistServiceTest(t *testing.T, name string) (*WishlistService, *gorm.DB) {
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
		&models.Wishlist{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	return NewWishlistService(repository.NewWishlistRepository(db), repository.NewProductRepository(db)), db
}

func createWishlistTestProduct(t *testing.T, db *gorm.DB, sku string, active bool) models.Product {
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
		Price:         models.MustMoney("19.99"),
		StockQuantity: 10,
		IsActive:      active,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return row
}

func TestWishlistAddIsIdempotent(t *testing.T) {
	wishlistService, db := setupWishlistServiceTest(t, "wishlist_add")
	product := createWishlistTestProduct(t, db, "SKU-WL", true)

	first, err := wishlistService.Add(1, product.ID)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	second, err := wishlistService.Add(1, product.ID)
	if err != nil {
		t.Fatalf("repeated add failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same entry on repeated add, got %d and %d", first.ID, second.ID)
	}

	var count int64
	if err := db.Model(&models.Wishlist{}).Count(&count).Error; err != nil {
		t.Fatalf("count wishlists failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected single wishlist row, got %d", count)
	}
}

func TestWishlistAddRejectsMissingOrInactiveProduct(t *testing.T) {
	wishlistService, db := setupWishlistServiceTest(t, "wishlist_product")
	inactive := createWishlistTestProduct(t, db, "SKU-WL-OFF", false)

	if _, err := wishlistService.Add(1, 9999); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound for missing product, got %v", err)
	}
	if _, err := wishlistService.Add(1, inactive.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound for inactive product, got %v", err)
	}
}

func TestWishlistListScopedToUser(t *testing.T) {
	wishlistService, db := setupWishlistServiceTest(t, "wishlist_scope")
	first := createWishlistTestProduct(t, db, "SKU-WL-1", true)
	second := createWishlistTestProduct(t, db, "SKU-WL-2", true)

	if _, err := wishlistService.Add(1, first.ID); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := wishlistService.Add(1, second.ID); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := wishlistService.Add(2, first.ID); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	entries, err := wishlistService.List(1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// 最新加入在前，且带商品快照
	if entries[0].ProductID != second.ID {
		t.Fatalf("expected newest entry first, got product %d", entries[0].ProductID)
	}
	if entries[0].Product == nil || entries[0].Product.SKU != "SKU-WL-2" {
		t.Fatalf("expected preloaded product, got %+v", entries[0].Product)
	}
}

func TestWishlistRemoveScopedToUser(t *testing.T) {
	wishlistService, db := setupWishlistServiceTest(t, "wishlist_remove")
	product := createWishlistTestProduct(t, db, "SKU-WL-RM", true)

	entry, err := wishlistService.Add(1, product.ID)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := wishlistService.Remove(2, entry.ID); !errors.Is(err, ErrWishlistItemNotFound) {
		t.Fatalf("expected ErrWishlistItemNotFound for other user, got %v", err)
	}
	if err := wishlistService.Remove(1, entry.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := wishlistService.Remove(1, entry.ID); !errors.Is(err, ErrWishlistItemNotFound) {
		t.Fatalf("expected ErrWishlistItemNotFound after removal, got %v", err)
	}

	var count int64
	if err := db.Model(&models.Wishlist{}).Count(&count).Error; err != nil {
		t.Fatalf("count wishlists failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty wishlist table, got %d rows", count)
	}
}
