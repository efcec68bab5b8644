package models

import (
	"time"

	"gorm.io/gorm"
)

// Address 用户地址簿（仅作为下单时复制到订单地址的来源，订单不引用此表）
type Address struct {
	ID            uint           `gorm:"primarykey" json:"id"`                         // 主键
	UserID        uint           `gorm:"index;not null" json:"user_id"`                // 用户ID
	Label         string         `gorm:"type:varchar(50)" json:"label"`                // 地址标签（home/office 等）
	FirstName     string         `gorm:"type:varchar(100)" json:"first_name"`          // 收件人姓
	LastName      string         `gorm:"type:varchar(100)" json:"last_name"`           // 收件人名
	StreetAddress string         `gorm:"not null" json:"street_address"`               // 街道地址
	City          string         `gorm:"type:varchar(100);not null" json:"city"`       // 城市
	State         string         `gorm:"type:varchar(100)" json:"state"`               // 省/州
	PostalCode    string         `gorm:"type:varchar(32);not null" json:"postal_code"` // 邮编
	Country       string         `gorm:"type:varchar(100);not null" json:"country"`    // 国家
	Phone         string         `gorm:"type:varchar(32);not null" json:"phone"`       // 电话
	IsDefault     bool           `gorm:"default:false" json:"is_default"`              // 是否默认地址
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                      // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                   // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                               // 软删除时间
}

// TableName 指定表名
func (Address) TableName() string {
	return "addresses"
}
