package models

import (
	"time"
)

// Wishlist 心愿单条目（每个用户对同一商品仅一条，移除为硬删除）
type Wishlist struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                                // 主键
	UserID    uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_product" json:"user_id"`       // 用户ID
	ProductID uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_product" json:"product_id"`    // 商品ID
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                             // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                                          // 更新时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (Wishlist) TableName() string {
	return "wishlists"
}
