package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductVariant 商品规格表（尺码+颜色维度，独立价格与库存）
//
// stock_quantity 是可售库存的唯一事实来源，只允许预占引擎修改。
type ProductVariant struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                                      // 主键
	ProductID     uint           `gorm:"not null;index;uniqueIndex:idx_variant_product_size_color" json:"product_id"` // 商品ID
	Size          string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_variant_product_size_color" json:"size"`  // 尺码
	Color         string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_variant_product_size_color" json:"color"` // 颜色
	Price         Money          `gorm:"type:decimal(10,2);not null" json:"price"`                                  // 单价（正数）
	StockQuantity int            `gorm:"not null;default:0" json:"stock_quantity"`                                  // 可售库存（非负）
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                                   // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                                                // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                                            // 软删除时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}
