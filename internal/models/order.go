package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表（创建后金额字段冻结，不再重算）
type Order struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                          // 主键
	OrderNo          string         `gorm:"uniqueIndex;not null" json:"order_no"`                          // 订单编号（ORD- 前缀）
	UserID           uint           `gorm:"index;not null" json:"user_id"`                                 // 用户ID
	Status           string         `gorm:"index;not null" json:"status"`                                  // 订单状态
	PaymentStatus    string         `gorm:"index;not null" json:"payment_status"`                          // 支付状态
	PaymentMethod    string         `gorm:"type:varchar(32);not null" json:"payment_method"`               // 支付方式
	PaymentReference string         `gorm:"type:varchar(128)" json:"payment_reference,omitempty"`          // 支付流水号
	Subtotal         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`         // 商品小计
	TaxAmount        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"tax_amount"`       // 税额
	ShippingCost     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_cost"`    // 运费
	DiscountAmount   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`  // 优惠金额
	TotalAmount      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`     // 实付金额
	CouponID         *uint          `gorm:"index" json:"coupon_id,omitempty"`                              // 优惠券ID
	Notes            string         `gorm:"type:text" json:"notes,omitempty"`                              // 订单备注
	ConfirmedAt      *time.Time     `gorm:"index" json:"confirmed_at"`                                     // 首次进入已确认状态的时间
	ShippedAt        *time.Time     `gorm:"index" json:"shipped_at"`                                       // 首次进入已发货状态的时间
	DeliveredAt      *time.Time     `gorm:"index" json:"delivered_at"`                                     // 首次进入已送达状态的时间
	CanceledAt       *time.Time     `gorm:"index" json:"canceled_at"`                                      // 首次进入已取消状态的时间
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt        time.Time      `gorm:"index" json:"updated_at"`                                       // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间

	// 关联
	Items     []OrderItem    `gorm:"foreignKey:OrderID" json:"items,omitempty"`     // 订单项
	Addresses []OrderAddress `gorm:"foreignKey:OrderID" json:"addresses,omitempty"` // 收货/账单地址（恒为两条）
	Coupon    *Coupon        `gorm:"foreignKey:CouponID" json:"coupon,omitempty"`   // 关联优惠券
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
