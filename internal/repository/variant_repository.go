package repository

import (
	"errors"

	"github.com/vesti-shop/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VariantRepository 商品规格（库存）数据访问接口
//
// stock_quantity 的所有修改都经过 ReserveStock/ReleaseStock/AdjustStock，
// 即使调用方已经持有行锁也使用表达式级原子更新。
type VariantRepository interface {
	GetByID(id uint) (*models.ProductVariant, error)
	GetByIDForUpdate(id uint) (*models.ProductVariant, error)
	ListByProduct(productID uint) ([]models.ProductVariant, error)
	Create(variant *models.ProductVariant) error
	CreateBatch(variants []models.ProductVariant) error
	ReserveStock(variantID uint, quantity int) (int64, error)
	ReleaseStock(variantID uint, quantity int) (int64, error)
	AdjustStock(variantID uint, delta int) (int64, error)
	WithTx(tx *gorm.DB) VariantRepository
}

// GormVariantRepository GORM 实现
type GormVariantRepository struct {
	db *gorm.DB
}

// NewVariantRepository 创建规格仓库
func NewVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// WithTx 绑定事务
func (r *GormVariantRepository) WithTx(tx *gorm.DB) VariantRepository {
	if tx == nil {
		return r
	}
	return &GormVariantRepository{db: tx}
}

// GetByID 根据 ID 获取规格
func (r *GormVariantRepository) GetByID(id uint) (*models.ProductVariant, error) {
	if id == 0 {
		return nil, errors.New("invalid variant id")
	}
	var variant models.ProductVariant
	if err := r.db.Preload("Product").First(&variant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &variant, nil
}

// GetByIDForUpdate 加行锁获取规格（锁定至事务结束）
func (r *GormVariantRepository) GetByIDForUpdate(id uint) (*models.ProductVariant, error) {
	if id == 0 {
		return nil, errors.New("invalid variant id")
	}
	var variant models.ProductVariant
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&variant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &variant, nil
}

// ListByProduct 获取指定商品的规格列表（按价格升序）
func (r *GormVariantRepository) ListByProduct(productID uint) ([]models.ProductVariant, error) {
	if productID == 0 {
		return nil, errors.New("invalid product id")
	}
	var variants []models.ProductVariant
	if err := r.db.Where("product_id = ?", productID).
		Order("price ASC, id ASC").
		Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// Create 创建规格
func (r *GormVariantRepository) Create(variant *models.ProductVariant) error {
	if variant == nil {
		return errors.New("variant is nil")
	}
	return r.db.Create(variant).Error
}

// CreateBatch 批量创建规格
func (r *GormVariantRepository) CreateBatch(variants []models.ProductVariant) error {
	if len(variants) == 0 {
		return nil
	}
	return r.db.Create(&variants).Error
}

// ReserveStock 预占库存：stock >= quantity 时原子扣减，否则零行生效
func (r *GormVariantRepository) ReserveStock(variantID uint, quantity int) (int64, error) {
	if variantID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock reserve params")
	}
	result := r.db.Model(&models.ProductVariant{}).
		Where("id = ? AND stock_quantity >= ?", variantID, quantity).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ReleaseStock 释放库存：无条件原子回加，不设上限
func (r *GormVariantRepository) ReleaseStock(variantID uint, quantity int) (int64, error) {
	if variantID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock release params")
	}
	result := r.db.Model(&models.ProductVariant{}).
		Where("id = ?", variantID).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// AdjustStock 按增量调整库存：正数释放，负数预占（受非负下限保护）
func (r *GormVariantRepository) AdjustStock(variantID uint, delta int) (int64, error) {
	switch {
	case delta > 0:
		return r.ReleaseStock(variantID, delta)
	case delta < 0:
		return r.ReserveStock(variantID, -delta)
	default:
		return 0, nil
	}
}
