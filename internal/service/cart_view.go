package service

import (
	"time"

	"github.com/vesti-shop/internal/models"

	"github.com/shopspring/decimal"
)

// CartItemView 购物车项视图（用于响应）
type CartItemView struct {
	ItemID      uint         `json:"item_id"`
	VariantID   uint         `json:"variant_id"`
	ProductID   uint         `json:"product_id"`
	ProductName string       `json:"product_name"`
	ProductSlug string       `json:"product_slug"`
	Size        string       `json:"size"`
	Color       string       `json:"color"`
	Quantity    int          `json:"quantity"`
	UnitPrice   models.Money `json:"unit_price"`
	LineTotal   models.Money `json:"line_total"`
}

// CartView 购物车视图
type CartView struct {
	CartID        uint           `json:"cart_id"`
	UserID        uint           `json:"user_id"`
	Items         []CartItemView `json:"items"`
	TotalQuantity int            `json:"total_quantity"`
	TotalPrice    models.Money   `json:"total_price"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// buildCartView 组装购物车视图。金额逐项累加，
// 规格被删除的悬挂项按单价 0 计入。
func (s *ReservationService) buildCartView(cartID, userID uint) (*CartView, error) {
	cart, err := s.cartRepo.GetByID(cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrNotFound
	}

	items, err := s.cartRepo.ListItems(cartID)
	if err != nil {
		return nil, err
	}

	view := &CartView{
		CartID:    cart.ID,
		UserID:    userID,
		Items:     make([]CartItemView, 0, len(items)),
		UpdatedAt: cart.UpdatedAt,
	}
	total := models.NewMoneyFromDecimal(decimal.Zero)
	for _, item := range items {
		itemView := CartItemView{
			ItemID:    item.ID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		}
		if variant := item.Variant; variant != nil {
			itemView.ProductID = variant.ProductID
			itemView.Size = variant.Size
			itemView.Color = variant.Color
			itemView.UnitPrice = variant.Price
			itemView.LineTotal = variant.Price.MulInt(item.Quantity)
			if variant.Product != nil {
				itemView.ProductName = variant.Product.Name
				itemView.ProductSlug = variant.Product.Slug
			}
		} else {
			itemView.UnitPrice = models.NewMoneyFromDecimal(decimal.Zero)
			itemView.LineTotal = models.NewMoneyFromDecimal(decimal.Zero)
		}
		view.TotalQuantity += item.Quantity
		total = total.Add(itemView.LineTotal)
		view.Items = append(view.Items, itemView)
	}
	view.TotalPrice = total
	return view, nil
}

// GetCart 获取用户购物车视图（不存在则懒创建空车）
func (s *ReservationService) GetCart(userID uint) (*CartView, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}
	return s.buildCartView(cart.ID, userID)
}
