package main

import (
	"fmt"
	"time"

	"github.com/shopnext/internal/config"
	"github.com/shopnext/internal/logger"
	"github.com/shopnext/internal/models"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{
			Slug:        "electronics",
			Name:        "Electronics",
			Description: "Audio, wearables and smart devices",
			SortOrder:   300,
			IsActive:    true,
		},
		{
			Slug:        "lifestyle",
			Name:        "Lifestyle",
			Description: "Everyday carry and travel gear",
			SortOrder:   200,
			IsActive:    true,
		},
		{
			Slug:        "accessories",
			Name:        "Accessories",
			Description: "Chargers, cables and add-ons",
			SortOrder:   100,
			IsActive:    true,
		},
	}

	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			// 不存在则创建
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	// 获取分类ID
	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Where("slug IN ?", []string{"electronics", "lifestyle", "accessories"}).Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}
	electronicsID := categoryIDs["electronics"]
	lifestyleID := categoryIDs["lifestyle"]
	accessoriesID := categoryIDs["accessories"]

	// 添加商品
	discounted := models.MustMoney("79.99")
	products := []models.Product{
		{
			SKU:           "SKU-EARPHONES",
			Slug:          "wireless-earphones",
			Name:          "Wireless Bluetooth Earphones",
			Description:   "High quality sound, long battery life, comfortable to wear",
			Price:         models.MustMoney("99.99"),
			Cost:          models.MustMoney("45.00"),
			DiscountPrice: &discounted,
			StockQuantity: 120,
			MinimumStock:  10,
			CategoryID:    electronicsID,
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1590658268037-6bf12165a8df?w=800",
			}),
			Tags:       models.StringArray([]string{"Audio", "Wireless", "Headphones"}),
			IsActive:   true,
			IsFeatured: true,
			SortOrder:  300,
		},
		{
			SKU:           "SKU-WATCH",
			Slug:          "smart-watch",
			Name:          "Smart Watch",
			Description:   "Health monitoring, fitness tracking, message notifications",
			Price:         models.MustMoney("199.99"),
			Cost:          models.MustMoney("90.00"),
			StockQuantity: 60,
			MinimumStock:  5,
			CategoryID:    electronicsID,
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1579586337278-3befd40fd17a?w=800",
			}),
			Tags:       models.StringArray([]string{"Wearable", "Health", "Smart"}),
			IsActive:   true,
			IsFeatured: true,
			SortOrder:  280,
		},
		{
			SKU:           "SKU-POWERBANK",
			Slug:          "power-bank",
			Name:          "Portable Power Bank",
			Description:   "High capacity, fast charging, multi-device compatible",
			Price:         models.MustMoney("49.99"),
			Cost:          models.MustMoney("18.00"),
			StockQuantity: 200,
			MinimumStock:  20,
			CategoryID:    accessoriesID,
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1609091839311-d5365f9ff1c5?w=800",
			}),
			Tags:      models.StringArray([]string{"Charger", "Portable", "Accessory"}),
			IsActive:  true,
			SortOrder: 260,
		},
		{
			SKU:           "SKU-BACKPACK",
			Slug:          "backpack",
			Name:          "Multi-function Backpack",
			Description:   "Large capacity, waterproof and anti-theft, USB charging port",
			Price:         models.MustMoney("79.99"),
			Cost:          models.MustMoney("32.00"),
			StockQuantity: 80,
			MinimumStock:  8,
			CategoryID:    lifestyleID,
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=800",
			}),
			Tags:      models.StringArray([]string{"Bag", "Travel", "Lifestyle"}),
			IsActive:  true,
			SortOrder: 240,
		},
		{
			SKU:           "SKU-SOLDOUT",
			Slug:          "demo-sold-out",
			Name:          "Demo Product - Sold Out",
			Description:   "For stock badge and disabled purchase demo",
			Price:         models.MustMoney("29.90"),
			Cost:          models.MustMoney("12.00"),
			StockQuantity: 0,
			MinimumStock:  5,
			CategoryID:    accessoriesID,
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1512499617640-c74ae3a79d37?w=800",
			}),
			Tags:      models.StringArray([]string{"Demo", "SoldOut"}),
			IsActive:  true,
			SortOrder: 100,
		},
	}

	for _, prod := range products {
		if prod.CategoryID == 0 {
			stdLog.Printf("Skip product %s: category_id missing", prod.Slug)
			continue
		}
		var existing models.Product
		if err := models.DB.Where("slug = ?", prod.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&prod).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", prod.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", prod.Slug)
			}
		} else {
			existing.Name = prod.Name
			existing.Description = prod.Description
			existing.Price = prod.Price
			existing.Cost = prod.Cost
			existing.DiscountPrice = prod.DiscountPrice
			existing.StockQuantity = prod.StockQuantity
			existing.MinimumStock = prod.MinimumStock
			existing.CategoryID = prod.CategoryID
			existing.Images = prod.Images
			existing.Tags = prod.Tags
			existing.IsActive = prod.IsActive
			existing.IsFeatured = prod.IsFeatured
			existing.SortOrder = prod.SortOrder
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update product %s: %v", prod.Slug, err)
			} else {
				stdLog.Printf("Updated product: %s", prod.Slug)
			}
		}
	}

	// 为背包补充颜色规格
	variantPlans := []struct {
		Slug     string
		Variants []models.ProductVariant
	}{
		{
			Slug: "backpack",
			Variants: []models.ProductVariant{
				{AttributeName: "color", AttributeValue: "black", PriceModifier: models.MustMoney("0"), StockQuantity: 50, IsActive: true},
				{AttributeName: "color", AttributeValue: "gray", PriceModifier: models.MustMoney("5"), StockQuantity: 30, IsActive: true},
			},
		},
		{
			Slug: "smart-watch",
			Variants: []models.ProductVariant{
				{AttributeName: "band", AttributeValue: "sport", PriceModifier: models.MustMoney("0"), StockQuantity: 40, IsActive: true},
				{AttributeName: "band", AttributeValue: "leather", PriceModifier: models.MustMoney("20"), StockQuantity: 20, IsActive: true},
			},
		},
	}

	for _, plan := range variantPlans {
		var product models.Product
		if err := models.DB.Where("slug = ?", plan.Slug).First(&product).Error; err != nil {
			stdLog.Printf("Skip variant seed for %s: product not found", plan.Slug)
			continue
		}
		for _, variant := range plan.Variants {
			variant.ProductID = product.ID
			var existing models.ProductVariant
			err := models.DB.Where("product_id = ? AND attribute_name = ? AND attribute_value = ?",
				product.ID, variant.AttributeName, variant.AttributeValue).First(&existing).Error
			if err != nil {
				if err := models.DB.Create(&variant).Error; err != nil {
					stdLog.Printf("Failed to create variant %s=%s for %s: %v", variant.AttributeName, variant.AttributeValue, plan.Slug, err)
				} else {
					stdLog.Printf("Created variant for %s: %s=%s", plan.Slug, variant.AttributeName, variant.AttributeValue)
				}
				continue
			}
			existing.PriceModifier = variant.PriceModifier
			existing.StockQuantity = variant.StockQuantity
			existing.IsActive = variant.IsActive
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update variant %s=%s for %s: %v", variant.AttributeName, variant.AttributeValue, plan.Slug, err)
			}
		}
	}

	// 添加优惠券
	now := time.Now()
	welcomeStart := now.Add(-24 * time.Hour)
	welcomeEnd := now.AddDate(0, 3, 0)
	springStart := now.Add(-12 * time.Hour)
	springEnd := now.AddDate(0, 1, 0)

	coupons := []models.Coupon{
		{
			Code:              "WELCOME10",
			Description:       "10% off for new customers",
			DiscountType:      "percentage",
			DiscountValue:     models.MustMoney("10"),
			MinimumPurchase:   models.MustMoney("0"),
			UsageLimit:        0,
			UsageLimitPerUser: 1,
			ValidFrom:         &welcomeStart,
			ValidUntil:        &welcomeEnd,
			IsActive:          true,
		},
		{
			Code:              "SPRING20",
			Description:       "20 off orders over 100",
			DiscountType:      "fixed",
			DiscountValue:     models.MustMoney("20"),
			MinimumPurchase:   models.MustMoney("100"),
			UsageLimit:        500,
			UsageLimitPerUser: 2,
			ValidFrom:         &springStart,
			ValidUntil:        &springEnd,
			IsActive:          true,
		},
	}

	for _, coupon := range coupons {
		var existing models.Coupon
		if err := models.DB.Where("code = ?", coupon.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&coupon).Error; err != nil {
				stdLog.Printf("Failed to create coupon %s: %v", coupon.Code, err)
			} else {
				stdLog.Printf("Created coupon: %s", coupon.Code)
			}
		} else {
			existing.Description = coupon.Description
			existing.DiscountType = coupon.DiscountType
			existing.DiscountValue = coupon.DiscountValue
			existing.MinimumPurchase = coupon.MinimumPurchase
			existing.UsageLimit = coupon.UsageLimit
			existing.UsageLimitPerUser = coupon.UsageLimitPerUser
			existing.ValidFrom = coupon.ValidFrom
			existing.ValidUntil = coupon.ValidUntil
			existing.IsActive = coupon.IsActive
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update coupon %s: %v", coupon.Code, err)
			} else {
				stdLog.Printf("Updated coupon: %s", coupon.Code)
			}
		}
	}

	// 添加首页横幅
	saleEnd := now.AddDate(0, 1, 0)
	banners := []models.Banner{
		{
			Name:      "home-hero-new-arrivals",
			Position:  "home_hero",
			Title:     "New arrivals",
			Subtitle:  "Fresh picks for the season",
			Image:     "https://cdn.example.com/banners/new-arrivals.jpg",
			LinkType:  "internal",
			LinkValue: "/products?sort=newest",
			IsActive:  true,
			SortOrder: 20,
		},
		{
			Name:      "home-hero-spring-sale",
			Position:  "home_hero",
			Title:     "Spring sale",
			Subtitle:  "Save 20 on orders over 100 with SPRING20",
			Image:     "https://cdn.example.com/banners/spring-sale.jpg",
			LinkType:  "internal",
			LinkValue: "/products?featured=true",
			IsActive:  true,
			EndAt:     &saleEnd,
			SortOrder: 10,
		},
	}

	for _, banner := range banners {
		var existing models.Banner
		if err := models.DB.Where("name = ?", banner.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&banner).Error; err != nil {
				stdLog.Printf("Failed to create banner %s: %v", banner.Name, err)
			} else {
				stdLog.Printf("Created banner: %s", banner.Name)
			}
		} else {
			existing.Position = banner.Position
			existing.Title = banner.Title
			existing.Subtitle = banner.Subtitle
			existing.Image = banner.Image
			existing.LinkType = banner.LinkType
			existing.LinkValue = banner.LinkValue
			existing.IsActive = banner.IsActive
			existing.EndAt = banner.EndAt
			existing.SortOrder = banner.SortOrder
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update banner %s: %v", banner.Name, err)
			} else {
				stdLog.Printf("Updated banner: %s", banner.Name)
			}
		}
	}

	fmt.Println("\n✅ Test data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 3 Categories")
	fmt.Println("- 5 Products (含售罄演示商品)")
	fmt.Println("- 4 Product variants")
	fmt.Println("- 2 Coupons")
	fmt.Println("- 2 Banners")
}
