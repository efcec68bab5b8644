package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart 购物车表（归属于登录用户或匿名会话，二者取其一）
type Cart struct {
	ID        uint      `gorm:"primarykey" json:"id"`                       // 主键
	UserID    *uint     `gorm:"uniqueIndex" json:"user_id,omitempty"`       // 用户ID（登录用户购物车）
	SessionID *string   `gorm:"uniqueIndex;type:varchar(64)" json:"session_id,omitempty"` // 会话ID（匿名购物车）
	CreatedAt time.Time `gorm:"index" json:"created_at"`                    // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                 // 更新时间

	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"` // 购物车项
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// Subtotal 小计 = Σ(item.price × item.quantity)，始终由购物车项重新计算
func (c *Cart) Subtotal() Money {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return NewMoneyFromDecimal(total)
}

// ItemCount 商品总件数
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty 是否为空
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
