package models

import (
	"time"
)

// Cart 购物车表（每个用户一个，首次访问时懒创建）
type Cart struct {
	ID        uint      `gorm:"primarykey" json:"id"`                 // 主键
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`  // 用户ID（唯一）
	CreatedAt time.Time `gorm:"index" json:"created_at"`              // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`              // 更新时间（过期扫描依据）

	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"` // 购物车项
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// CartItem 购物车项（每个 (cart, variant) 至多一条，quantity 恒为正）
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                            // 主键
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_item_cart_variant" json:"cart_id"`  // 购物车ID
	VariantID uint      `gorm:"not null;uniqueIndex:idx_cart_item_cart_variant" json:"variant_id"` // 规格ID
	Quantity  int       `gorm:"not null" json:"quantity"`                                        // 数量（正整数，0 时删除记录）
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                         // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                                         // 更新时间

	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"` // 关联规格
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
