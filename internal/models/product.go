package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                               // 主键
	CategoryID  uint           `gorm:"not null;index" json:"category_id"`                  // 分类ID
	Slug        string         `gorm:"type:varchar(250);uniqueIndex;not null" json:"slug"` // 唯一标识
	Name        string         `gorm:"type:varchar(200);not null;index" json:"name"`       // 商品名称
	Description string         `gorm:"type:text" json:"description"`                       // 商品描述
	// 是否上架。不用 default 标签：gorm 会把零值 false 当作"未赋值"而落回默认，
	// 导致无法创建下架商品，默认上架由创建方显式赋值
	IsActive    bool           `gorm:"index" json:"is_active"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间

	Category Category         `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`  // 规格列表
	Images   []ProductImage   `gorm:"foreignKey:ProductID" json:"images,omitempty"`    // 图片列表
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// ProductImage 商品图片表
type ProductImage struct {
	ID        uint      `gorm:"primarykey" json:"id"`              // 主键
	ProductID uint      `gorm:"not null;index" json:"product_id"`  // 商品ID
	Path      string    `gorm:"type:varchar(500);not null" json:"path"` // 图片路径
	CreatedAt time.Time `json:"created_at"`                        // 创建时间
}

// TableName 指定表名
func (ProductImage) TableName() string {
	return "product_images"
}
