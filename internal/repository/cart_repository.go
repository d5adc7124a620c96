package repository

import (
	"errors"
	"time"

	"github.com/vesti-shop/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetOrCreateByUser(userID uint) (*models.Cart, error)
	GetByID(cartID uint) (*models.Cart, error)
	ListItems(cartID uint) ([]models.CartItem, error)
	GetItem(cartID, variantID uint) (*models.CartItem, error)
	GetItemForUpdate(cartID, variantID uint) (*models.CartItem, error)
	CreateItem(item *models.CartItem) error
	IncrementItemQuantity(itemID uint, delta int) error
	SetItemQuantity(itemID uint, quantity int) error
	DeleteItem(itemID uint) error
	ClearItems(cartID uint) ([]models.CartItem, error)
	Touch(cartID uint) error
	ListStale(before time.Time, limit int) ([]models.Cart, error)
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// GetOrCreateByUser 获取用户购物车，不存在则创建。
// user_id 上的唯一约束保证并发首次访问只会留下一行：
// 撞到约束冲突时重新读取对方创建的行。
func (r *GormCartRepository) GetOrCreateByUser(userID uint) (*models.Cart, error) {
	if userID == 0 {
		return nil, errors.New("invalid user id")
	}
	var cart models.Cart
	err := r.db.Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = models.Cart{UserID: userID}
	if createErr := r.db.Create(&cart).Error; createErr != nil {
		if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
			return nil, createErr
		}
		if rereadErr := r.db.Where("user_id = ?", userID).First(&cart).Error; rereadErr != nil {
			return nil, rereadErr
		}
	}
	return &cart, nil
}

// GetByID 根据 ID 获取购物车
func (r *GormCartRepository) GetByID(cartID uint) (*models.Cart, error) {
	if cartID == 0 {
		return nil, errors.New("invalid cart id")
	}
	var cart models.Cart
	if err := r.db.First(&cart, cartID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// ListItems 获取购物车项（含规格与商品信息）
func (r *GormCartRepository) ListItems(cartID uint) ([]models.CartItem, error) {
	if cartID == 0 {
		return nil, errors.New("invalid cart id")
	}
	var items []models.CartItem
	if err := r.db.Preload("Variant.Product").
		Where("cart_id = ?", cartID).
		Order("created_at ASC, id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetItem 获取指定规格的购物车项
func (r *GormCartRepository) GetItem(cartID, variantID uint) (*models.CartItem, error) {
	return r.getItem(cartID, variantID, false)
}

// GetItemForUpdate 加行锁获取指定规格的购物车项
func (r *GormCartRepository) GetItemForUpdate(cartID, variantID uint) (*models.CartItem, error) {
	return r.getItem(cartID, variantID, true)
}

func (r *GormCartRepository) getItem(cartID, variantID uint, forUpdate bool) (*models.CartItem, error) {
	if cartID == 0 || variantID == 0 {
		return nil, errors.New("invalid cart item params")
	}
	query := r.db
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var item models.CartItem
	if err := query.Where("cart_id = ? AND variant_id = ?", cartID, variantID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// CreateItem 创建购物车项
func (r *GormCartRepository) CreateItem(item *models.CartItem) error {
	if item == nil {
		return errors.New("cart item is nil")
	}
	return r.db.Create(item).Error
}

// IncrementItemQuantity 原子累加购物车项数量
func (r *GormCartRepository) IncrementItemQuantity(itemID uint, delta int) error {
	if itemID == 0 || delta == 0 {
		return errors.New("invalid increment params")
	}
	return r.db.Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now(),
		}).Error
}

// SetItemQuantity 设置购物车项数量
func (r *GormCartRepository) SetItemQuantity(itemID uint, quantity int) error {
	if itemID == 0 || quantity <= 0 {
		return errors.New("invalid quantity params")
	}
	return r.db.Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		}).Error
}

// DeleteItem 删除购物车项
func (r *GormCartRepository) DeleteItem(itemID uint) error {
	if itemID == 0 {
		return errors.New("invalid cart item id")
	}
	return r.db.Delete(&models.CartItem{}, itemID).Error
}

// ClearItems 清空购物车，返回被删除的项（调用方据此回补库存）
func (r *GormCartRepository) ClearItems(cartID uint) ([]models.CartItem, error) {
	if cartID == 0 {
		return nil, errors.New("invalid cart id")
	}
	var items []models.CartItem
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("cart_id = ?", cartID).
		Order("variant_id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}
	if err := r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Touch 更新购物车活跃时间（过期扫描依据）
func (r *GormCartRepository) Touch(cartID uint) error {
	if cartID == 0 {
		return errors.New("invalid cart id")
	}
	return r.db.Model(&models.Cart{}).
		Where("id = ?", cartID).
		Update("updated_at", time.Now()).Error
}

// ListStale 查询在 before 之前未活跃且仍有未释放项的购物车
func (r *GormCartRepository) ListStale(before time.Time, limit int) ([]models.Cart, error) {
	if limit <= 0 {
		limit = 100
	}
	var carts []models.Cart
	if err := r.db.Where("updated_at < ?", before).
		Where("EXISTS (SELECT 1 FROM cart_items WHERE cart_items.cart_id = carts.id)").
		Order("updated_at ASC").
		Limit(limit).
		Find(&carts).Error; err != nil {
		return nil, err
	}
	return carts, nil
}
