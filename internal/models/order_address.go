package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderAddress 订单地址表（下单时从请求载荷复制，不引用地址簿）
type OrderAddress struct {
	ID            uint           `gorm:"primarykey" json:"id"`                           // 主键
	OrderID       uint           `gorm:"index;not null" json:"order_id"`                 // 订单ID
	Type          string         `gorm:"type:varchar(16);not null" json:"type"`          // 地址类型（shipping/billing）
	FirstName     string         `gorm:"type:varchar(100)" json:"first_name"`            // 收件人姓
	LastName      string         `gorm:"type:varchar(100)" json:"last_name"`             // 收件人名
	StreetAddress string         `gorm:"not null" json:"street_address"`                 // 街道地址
	City          string         `gorm:"type:varchar(100);not null" json:"city"`         // 城市
	State         string         `gorm:"type:varchar(100)" json:"state"`                 // 省/州
	PostalCode    string         `gorm:"type:varchar(32);not null" json:"postal_code"`   // 邮编
	Country       string         `gorm:"type:varchar(100);not null" json:"country"`      // 国家
	Phone         string         `gorm:"type:varchar(32);not null" json:"phone"`         // 电话
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                        // 创建时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                 // 软删除时间
}

// TableName 指定表名
func (OrderAddress) TableName() string {
	return "order_addresses"
}
