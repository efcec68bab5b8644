package models

import (
	"time"

	"gorm.io/gorm"
)

// Banner 站点横幅（按位置投放，可限定展示时间窗）
type Banner struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                     // 主键
	Name         string         `gorm:"not null" json:"name"`                                     // 名称（后台标识）
	Position     string         `gorm:"index;not null;default:home_hero" json:"position"`         // 展示位置
	Title        string         `gorm:"type:varchar(200)" json:"title"`                           // 标题
	Subtitle     string         `gorm:"type:varchar(200)" json:"subtitle"`                        // 副标题
	Image        string         `gorm:"not null" json:"image"`                                    // 图片地址
	MobileImage  string         `json:"mobile_image"`                                             // 移动端图片地址
	LinkType     string         `gorm:"not null;default:none" json:"link_type"`                   // 链接类型（none/internal/external）
	LinkValue    string         `json:"link_value"`                                               // 链接目标
	OpenInNewTab bool           `gorm:"not null;default:false" json:"open_in_new_tab"`            // 是否新窗口打开
	IsActive     bool           `gorm:"not null;default:true;index" json:"is_active"`             // 是否启用
	StartAt      *time.Time     `gorm:"index" json:"start_at"`                                    // 展示开始时间（空表示立即）
	EndAt        *time.Time     `gorm:"index" json:"end_at"`                                      // 展示结束时间（空表示不限）
	SortOrder    int            `gorm:"not null;default:0;index" json:"sort_order"`               // 排序权重（大者在前）
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                                  // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间
}

// TableName 指定表名
func (Banner) TableName() string {
	return "banners"
}
