package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopnext/internal/models"
	"github.com/shopnext/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T, name string) (*CartService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Cart{},
		&models.CartItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	return NewCartService(cartRepo, productRepo), db
}

func createCartTestProduct(t *testing.T, db *gorm.DB, sku, price string) models.Product {
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
		StockQuantity: 50,
		IsActive:      true,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return row
}

func TestResolveCartReusesSameRow(t *testing.T) {
	cartService, db := setupCartServiceTest(t, "cart_resolve")

	identity := CartIdentity{UserID: 7}
	first, err := cartService.ResolveCart(identity)
	if err != nil {
		t.Fatalf("resolve cart failed: %v", err)
	}
	second, err := cartService.ResolveCart(identity)
	if err != nil {
		t.Fatalf("resolve cart again failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same cart row, got %d and %d", first.ID, second.ID)
	}

	var count int64
	if err := db.Model(&models.Cart{}).Count(&count).Error; err != nil {
		t.Fatalf("count carts failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 cart, got %d", count)
	}
}

func TestResolveCartRejectsEmptyIdentity(t *testing.T) {
	cartService, _ := setupCartServiceTest(t, "cart_identity")

	if _, err := cartService.ResolveCart(CartIdentity{}); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
}

func TestAddItemAccumulatesQuantity(t *testing.T) {
	cartService, db := setupCartServiceTest(t, "cart_accumulate")
	product := createCartTestProduct(t, db, "SKU-ACC", "19.99")

	identity := CartIdentity{SessionID: "sess-acc"}
	if _, err := cartService.AddItem(identity, AddCartItemInput{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	view, err := cartService.AddItem(identity, AddCartItemInput{ProductID: product.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	if len(view.Items) != 1 {
		t.Fatalf("expected 1 cart item row, got %d", len(view.Items))
	}
	if view.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", view.Items[0].Quantity)
	}
	if view.ItemCount != 5 {
		t.Fatalf("expected item count 5, got %d", view.ItemCount)
	}
	expected := decimal.NewFromFloat(19.99).Mul(decimal.NewFromInt(5))
	if !view.Subtotal.Equal(expected.Round(2)) {
		t.Fatalf("expected subtotal %s, got %s", expected.Round(2), view.Subtotal.String())
	}
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	cartService, db := setupCartServiceTest(t, "cart_default_qty")
	product := createCartTestProduct(t, db, "SKU-DQ", "5")

	view, err := cartService.AddItem(CartIdentity{SessionID: "sess-dq"}, AddCartItemInput{ProductID: product.ID, Quantity: 0})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if view.Items[0].Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", view.Items[0].Quantity)
	}
}

func TestAddItemVariantPriceSnapshot(t *testing.T) {
	cartService, db := setupCartServiceTest(t, "cart_variant_price")
	product := createCartTestProduct(t, db, "SKU-VAR", "100")

	variant := models.ProductVariant{
		ProductID:      product.ID,
		AttributeName:  "size",
		AttributeValue: "XL",
		PriceModifier:  models.MustMoney("15"),
		StockQuantity:  10,
		IsActive:       true,
	}
	if err := db.Create(&variant).Error; err != nil {
		t.Fatalf("create variant failed: %v", err)
	}

	view, err := cartService.AddItem(CartIdentity{SessionID: "sess-var"}, AddCartItemInput{
		ProductID: product.ID,
		VariantID: variant.ID,
		Quantity:  1,
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !view.Items[0].Price.Equal(decimal.NewFromInt(115)) {
		t.Fatalf("expected price 115.00, got %s", view.Items[0].Price.String())
	}

	// 同商品不同规格各占一行
	plain, err := cartService.AddItem(CartIdentity{SessionID: "sess-var"}, AddCartItemInput{ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add without variant failed: %v", err)
	}
	if len(plain.Items) != 2 {
		t.Fatalf("expected 2 distinct item rows, got %d", len(plain.Items))
	}
}

func TestAddItemSnapshotKeepsOldPrice(t *testing.T) {
	cartService, db := setupCartServiceTest(t, "cart_price_snapshot")
	product := createCartTestProduct(t, db, "SKU-SNAP", "30")

	identity := CartIdentity{SessionID: "sess-snap"}
	if _, err := cartService.AddItem(identity, AddCartItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	// 涨价不影响已有快照
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("price", models.MustMoney("45")).Error; err != nil {
		t.Fatalf("update price failed: %v", err)
	}
	view, err := cartService.GetCart(identity)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if !view.Items[0].Price.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected snapshot price 30.00, got %s", view.Items[0].Price.String())
	}
}

func TestAddItemRejectsInactiveProduct(t *testing.T) {
	cartService, db := setupCartServiceTest(t, "cart_inactive")
	product := createCartTestProduct(t, db, "SKU-INACT", "10")
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}

	_, err := cartService.AddItem(CartIdentity{SessionID: "sess-inact"}, AddCartItemInput{ProductID: product.ID, Quantity: 1})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestAddItemRejectsForeignVariant(t *testing.T) {
	cartService, db := setupCartServiceTest(t, "cart_foreign_variant")
	product := createCartTestProduct(t, db, "SKU-FV1", "10")
	other := createCartTestProduct(t, db, "SKU-FV2", "10")

	variant := models.ProductVariant{
		ProductID:      other.ID,
		AttributeName:  "size",
		AttributeValue: "M",
		IsActive:       true,
	}
	if err := db.Create(&variant).Error; err != nil {
		t.Fatalf("create variant failed: %v", err)
	}

	_, err := cartService.AddItem(CartIdentity{SessionID: "sess-fv"}, AddCartItemInput{
		ProductID: product.ID,
		VariantID: variant.ID,
		Quantity:  1,
	})
	if !errors.Is(err, ErrVariantNotFound) {
		t.Fatalf("expected ErrVariantNotFound, got %v", err)
	}
}

func TestUpdateItemsSetDeleteAndIgnoreForeign(t *testing.T) {
	cartService, db := setupCartServiceTest(t, "cart_update_items")
	productA := createCartTestProduct(t, db, "SKU-UA", "10")
	productB := createCartTestProduct(t, db, "SKU-UB", "20")

	identity := CartIdentity{SessionID: "sess-upd"}
	viewA, err := cartService.AddItem(identity, AddCartItemInput{ProductID: productA.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add A failed: %v", err)
	}
	viewB, err := cartService.AddItem(identity, AddCartItemInput{ProductID: productB.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add B failed: %v", err)
	}
	itemA := viewA.Items[0]
	itemB := viewB.Items[len(viewB.Items)-1]

	// 其他购物车的项不受影响
	foreign, err := cartService.AddItem(CartIdentity{SessionID: "sess-other"}, AddCartItemInput{ProductID: productA.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add foreign failed: %v", err)
	}

	view, err := cartService.UpdateItems(identity, []UpdateCartItemInput{
		{ItemID: itemA.ID, Quantity: 5},
		{ItemID: itemB.ID, Quantity: 0},
		{ItemID: foreign.Items[0].ID, Quantity: 9},
	})
	if err != nil {
		t.Fatalf("update items failed: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected 1 remaining item, got %d", len(view.Items))
	}
	if view.Items[0].ID != itemA.ID || view.Items[0].Quantity != 5 {
		t.Fatalf("unexpected remaining item: %+v", view.Items[0])
	}

	otherView, err := cartService.GetCart(CartIdentity{SessionID: "sess-other"})
	if err != nil {
		t.Fatalf("get other cart failed: %v", err)
	}
	if otherView.Items[0].Quantity != 1 {
		t.Fatalf("expected foreign item untouched, got quantity %d", otherView.Items[0].Quantity)
	}
}

func TestClearCartKeepsCartRow(t *testing.T) {
	cartService, db := setupCartServiceTest(t, "cart_clear")
	product := createCartTestProduct(t, db, "SKU-CLR", "10")

	identity := CartIdentity{SessionID: "sess-clr"}
	if _, err := cartService.AddItem(identity, AddCartItemInput{ProductID: product.ID, Quantity: 3}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	view, err := cartService.Clear(identity)
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if len(view.Items) != 0 || view.ItemCount != 0 {
		t.Fatalf("expected empty cart, got %d items", len(view.Items))
	}
	if !view.Subtotal.Equal(decimal.Zero) {
		t.Fatalf("expected zero subtotal, got %s", view.Subtotal.String())
	}

	var count int64
	if err := db.Model(&models.Cart{}).Count(&count).Error; err != nil {
		t.Fatalf("count carts failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected cart row preserved, got %d", count)
	}
}
