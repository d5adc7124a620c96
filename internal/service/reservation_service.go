package service

import (
	"sort"
	"strings"
	"time"

	"github.com/vesti-shop/internal/logger"
	"github.com/vesti-shop/internal/models"
	"github.com/vesti-shop/internal/repository"

	"gorm.io/gorm"
)

// ReservationService 库存预占服务
//
// 购物车的四个写操作（加购、改量、移除、清空）都在单个事务内完成
// 购物车项与库存的联动修改，保证 stock_quantity 与 quantity 之和守恒。
// 锁顺序固定为先规格行、后购物车项行。
type ReservationService struct {
	variantRepo repository.VariantRepository
	cartRepo    repository.CartRepository
	maxPerItem  int
}

// NewReservationService 创建库存预占服务
func NewReservationService(variantRepo repository.VariantRepository, cartRepo repository.CartRepository, maxPerItem int) *ReservationService {
	return &ReservationService{
		variantRepo: variantRepo,
		cartRepo:    cartRepo,
		maxPerItem:  maxPerItem,
	}
}

// AddItem 加购：预占 quantity 件库存并累加到购物车项（不存在则创建）
func (s *ReservationService) AddItem(userID, variantID uint, quantity int) (*CartView, error) {
	if userID == 0 || variantID == 0 {
		return nil, ErrInvalidInput
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		variantRepo := s.variantRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		variant, err := variantRepo.GetByIDForUpdate(variantID)
		if err != nil {
			return err
		}
		if variant == nil {
			return ErrVariantNotFound
		}

		item, err := cartRepo.GetItemForUpdate(cart.ID, variantID)
		if err != nil {
			return err
		}
		existing := 0
		if item != nil {
			existing = item.Quantity
		}
		if s.maxPerItem > 0 && existing+quantity > s.maxPerItem {
			return ErrInvalidQuantity
		}

		affected, err := variantRepo.ReserveStock(variantID, quantity)
		if err != nil {
			return err
		}
		if affected == 0 {
			return InsufficientStockError{
				VariantID: variantID,
				Requested: quantity,
				Available: variant.StockQuantity,
			}
		}

		if item == nil {
			return cartRepo.CreateItem(&models.CartItem{
				CartID:    cart.ID,
				VariantID: variantID,
				Quantity:  quantity,
			})
		}
		return cartRepo.IncrementItemQuantity(item.ID, quantity)
	})
	if err != nil {
		return nil, translateTxError(err)
	}

	if err := s.cartRepo.Touch(cart.ID); err != nil {
		logger.Warnw("touch cart failed", "cart_id", cart.ID, "error", err)
	}
	return s.buildCartView(cart.ID, userID)
}

// UpdateItemQuantity 改量：把购物车项数量改为 quantity，库存按差额预占或释放。
// 差额以锁定后的当前数量为基准计算，避免并发改量时串台。
func (s *ReservationService) UpdateItemQuantity(userID, variantID uint, quantity int) (*CartView, error) {
	if userID == 0 || variantID == 0 {
		return nil, ErrInvalidInput
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if s.maxPerItem > 0 && quantity > s.maxPerItem {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		variantRepo := s.variantRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		variant, err := variantRepo.GetByIDForUpdate(variantID)
		if err != nil {
			return err
		}
		if variant == nil {
			return ErrVariantNotFound
		}

		item, err := cartRepo.GetItemForUpdate(cart.ID, variantID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrCartItemNotFound
		}

		delta := quantity - item.Quantity
		switch {
		case delta > 0:
			affected, err := variantRepo.ReserveStock(variantID, delta)
			if err != nil {
				return err
			}
			if affected == 0 {
				return InsufficientStockError{
					VariantID: variantID,
					Requested: delta,
					Available: variant.StockQuantity,
				}
			}
		case delta < 0:
			if _, err := variantRepo.ReleaseStock(variantID, -delta); err != nil {
				return err
			}
		default:
			return nil
		}
		return cartRepo.SetItemQuantity(item.ID, quantity)
	})
	if err != nil {
		return nil, translateTxError(err)
	}

	if err := s.cartRepo.Touch(cart.ID); err != nil {
		logger.Warnw("touch cart failed", "cart_id", cart.ID, "error", err)
	}
	return s.buildCartView(cart.ID, userID)
}

// RemoveItem 移除购物车项并释放其预占的库存
func (s *ReservationService) RemoveItem(userID, variantID uint) (*CartView, error) {
	if userID == 0 || variantID == 0 {
		return nil, ErrInvalidInput
	}

	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		variantRepo := s.variantRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		// 规格已被下架删除时跳过回补，仍然允许移除悬挂的购物车项
		variant, err := variantRepo.GetByIDForUpdate(variantID)
		if err != nil {
			return err
		}

		item, err := cartRepo.GetItemForUpdate(cart.ID, variantID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrCartItemNotFound
		}

		if variant != nil {
			if _, err := variantRepo.ReleaseStock(variantID, item.Quantity); err != nil {
				return err
			}
		}
		return cartRepo.DeleteItem(item.ID)
	})
	if err != nil {
		return nil, translateTxError(err)
	}

	if err := s.cartRepo.Touch(cart.ID); err != nil {
		logger.Warnw("touch cart failed", "cart_id", cart.ID, "error", err)
	}
	return s.buildCartView(cart.ID, userID)
}

// ClearCart 清空购物车并释放全部预占库存
func (s *ReservationService) ClearCart(userID uint) (*CartView, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}

	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}
	if err := s.clearCartTx(cart.ID); err != nil {
		return nil, err
	}
	return s.buildCartView(cart.ID, userID)
}

// ExpireCart 释放过期购物车的预占库存（由队列任务调用）。
// 扫描入队和任务送达之间购物车可能又被用户操作过（每次写操作都会 Touch），
// 所以送达时按 cutoff 重新校验活跃时间，已活跃的购物车不清理。
func (s *ReservationService) ExpireCart(cartID uint, cutoff time.Time) error {
	if cartID == 0 {
		return ErrInvalidInput
	}
	cart, err := s.cartRepo.GetByID(cartID)
	if err != nil {
		return err
	}
	if cart == nil {
		return nil
	}
	if !cutoff.IsZero() && !cart.UpdatedAt.Before(cutoff) {
		logger.Debugw("cart active again, skip expire", "cart_id", cartID, "updated_at", cart.UpdatedAt)
		return nil
	}
	return s.clearCartTx(cart.ID)
}

// ListStaleCarts 查询过期且仍有未释放项的购物车
func (s *ReservationService) ListStaleCarts(before time.Time, limit int) ([]models.Cart, error) {
	return s.cartRepo.ListStale(before, limit)
}

func (s *ReservationService) clearCartTx(cartID uint) error {
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		variantRepo := s.variantRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		// 与加购保持同一把锁顺序：先按规格 ID 升序锁规格行，再动购物车项，
		// 避免清空与加购在 Postgres 上互相持锁等待
		items, err := cartRepo.ListItems(cartID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		variantIDs := make([]uint, 0, len(items))
		for _, item := range items {
			variantIDs = append(variantIDs, item.VariantID)
		}
		sort.Slice(variantIDs, func(i, j int) bool { return variantIDs[i] < variantIDs[j] })
		for _, id := range variantIDs {
			// 规格已删除时跳过，对应项按悬挂处理
			if _, err := variantRepo.GetByIDForUpdate(id); err != nil {
				return err
			}
		}

		removed, err := cartRepo.ClearItems(cartID)
		if err != nil {
			return err
		}
		for _, item := range removed {
			if _, err := variantRepo.ReleaseStock(item.VariantID, item.Quantity); err != nil {
				return err
			}
		}
		if len(removed) > 0 {
			return cartRepo.Touch(cartID)
		}
		return nil
	})
	return translateTxError(err)
}

// translateTxError 把数据库层的并发失败归一为可重试的冲突错误
func translateTxError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "could not serialize") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") {
		logger.Warnw("reservation transaction conflict", "error", err)
		return ErrConflict
	}
	return err
}
