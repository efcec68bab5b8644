package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                        // 主键
	CategoryID    uint           `gorm:"not null;index" json:"category_id"`                           // 分类ID
	SKU           string         `gorm:"uniqueIndex;not null" json:"sku"`                             // 商品编码
	Slug          string         `gorm:"uniqueIndex;not null" json:"slug"`                            // 唯一标识
	Name          string         `gorm:"not null" json:"name"`                                        // 商品名称
	Description   string         `gorm:"type:text" json:"description"`                                // 商品描述
	Price         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`         // 售价
	Cost          Money          `gorm:"type:decimal(20,2);not null;default:0" json:"cost"`          // 成本价
	DiscountPrice *Money         `gorm:"type:decimal(20,2)" json:"discount_price"`                    // 折扣价（低于售价时生效）
	StockQuantity int            `gorm:"not null;default:0" json:"stock_quantity"`                    // 库存数量
	MinimumStock  int            `gorm:"not null;default:0" json:"minimum_stock"`                     // 低库存阈值
	AverageRating float64        `gorm:"type:decimal(3,2);not null;default:0" json:"average_rating"` // 平均评分（仅统计已审核评价）
	Images        StringArray    `gorm:"type:json" json:"images"`                                     // 图片数组
	Tags          StringArray    `gorm:"type:json" json:"tags"`                                       // 标签数组
	IsActive      bool           `gorm:"default:true;index" json:"is_active"`                         // 是否上架
	IsFeatured    bool           `gorm:"default:false;index" json:"is_featured"`                      // 是否推荐
	SortOrder     int            `gorm:"default:0;index" json:"sort_order"`                           // 排序权重
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                                  // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间

	// 关联
	Category Category         `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`  // 规格列表
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// DisplayPrice 展示价：折扣价存在且低于售价时取折扣价，否则取售价
func (p *Product) DisplayPrice() Money {
	if p.DiscountPrice != nil && p.DiscountPrice.Decimal.LessThan(p.Price.Decimal) {
		return *p.DiscountPrice
	}
	return p.Price
}

// IsLowStock 是否低库存
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.MinimumStock
}

// ProductVariant 商品规格表（如 size=M）
type ProductVariant struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                                      // 主键
	ProductID      uint           `gorm:"not null;index;uniqueIndex:idx_variant_product_attr" json:"product_id"`    // 商品ID
	AttributeName  string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_variant_product_attr" json:"attribute_name"`   // 规格名
	AttributeValue string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_variant_product_attr" json:"attribute_value"` // 规格值
	PriceModifier  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_modifier"`               // 价格调整（叠加在展示价上，可为负）
	StockQuantity  int            `gorm:"not null;default:0" json:"stock_quantity"`                                  // 库存数量
	IsActive       bool           `gorm:"default:true;index" json:"is_active"`                                       // 是否启用
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                                   // 创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                                                                // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                                            // 软删除时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}

// IsAvailable 是否有货
func (v *ProductVariant) IsAvailable() bool {
	return v.StockQuantity > 0
}

// FinalPrice 规格最终价 = 商品展示价 + 价格调整（不低于 0）
func (v *ProductVariant) FinalPrice(product *Product) Money {
	price := product.DisplayPrice().Decimal.Add(v.PriceModifier.Decimal)
	if price.IsNegative() {
		price = decimal.Zero
	}
	return NewMoneyFromDecimal(price)
}
