package models

import (
	"time"

	"gorm.io/gorm"
)

// Category 分类表（支持父子层级）
type Category struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                    // 主键
	Name      string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_category_name_parent" json:"name"` // 分类名称（同一父级下唯一）
	Slug      string         `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`      // 唯一标识
	ParentID  *uint          `gorm:"index;uniqueIndex:idx_category_name_parent" json:"parent_id"` // 父分类ID（nil 表示根分类）
	SortOrder int            `gorm:"default:0;index" json:"sort_order"`                       // 排序权重
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                                 // 创建时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间

	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"` // 子分类
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
