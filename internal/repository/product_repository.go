package repository

import (
	"errors"
	"strings"

	"github.com/vesti-shop/internal/constants"
	"github.com/vesti-shop/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetByID(id uint) (*models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Transaction 在事务中执行
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return errors.New("transaction fn is nil")
	}
	return r.db.Transaction(fn)
}

// List 查询商品列表（分类/价格区间/关键词过滤，规格按价格升序预加载）
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if slug := strings.TrimSpace(filter.CategorySlug); slug != "" {
		query = query.Where("category_id IN (SELECT id FROM categories WHERE slug = ?)", slug)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	if filter.PriceMin != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM product_variants pv WHERE pv.product_id = products.id AND pv.deleted_at IS NULL AND pv.price >= ?)",
			*filter.PriceMin,
		)
	}
	if filter.PriceMax != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM product_variants pv WHERE pv.product_id = products.id AND pv.deleted_at IS NULL AND pv.price <= ?)",
			*filter.PriceMax,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(resolveProductOrder(filter.OrderBy))
	query = applyPagination(query, filter.Page, filter.PageSize)

	var products []models.Product
	if err := query.
		Preload("Category").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_variants.price ASC")
		}).
		Preload("Images").
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetByID 根据 ID 获取商品
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	if id == 0 {
		return nil, errors.New("invalid product id")
	}
	var product models.Product
	if err := r.db.
		Preload("Category").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_variants.price ASC")
		}).
		Preload("Images").
		First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetBySlug 根据 slug 获取商品
func (r *GormProductRepository) GetBySlug(slug string) (*models.Product, error) {
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return nil, errors.New("invalid product slug")
	}
	var product models.Product
	if err := r.db.
		Preload("Category").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_variants.price ASC")
		}).
		Preload("Images").
		Where("slug = ?", trimmed).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	if product == nil {
		return errors.New("product is nil")
	}
	return r.db.Create(product).Error
}

// Update 更新商品
func (r *GormProductRepository) Update(product *models.Product) error {
	if product == nil {
		return errors.New("product is nil")
	}
	return r.db.Save(product).Error
}

func resolveProductOrder(orderBy string) string {
	switch strings.TrimSpace(orderBy) {
	case constants.ProductOrderPriceAsc:
		return "(SELECT MIN(pv.price) FROM product_variants pv WHERE pv.product_id = products.id AND pv.deleted_at IS NULL) ASC"
	case constants.ProductOrderPriceDesc:
		return "(SELECT MIN(pv.price) FROM product_variants pv WHERE pv.product_id = products.id AND pv.deleted_at IS NULL) DESC"
	case constants.ProductOrderCreatedAtAsc:
		return "created_at ASC"
	case constants.ProductOrderCreatedAtDesc:
		return "created_at DESC"
	default:
		return "created_at DESC"
	}
}
