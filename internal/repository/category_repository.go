package repository

import (
	"errors"
	"strings"

	"github.com/vesti-shop/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository 分类数据访问接口
type CategoryRepository interface {
	ListRoots() ([]models.Category, error)
	GetByID(id uint) (*models.Category, error)
	GetBySlug(slug string) (*models.Category, error)
	Create(category *models.Category) error
	CountBySlug(slug string, excludeID *uint) (int64, error)
}

// GormCategoryRepository GORM 实现
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// ListRoots 获取根分类及其子分类
func (r *GormCategoryRepository) ListRoots() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Where("parent_id IS NULL").
		Preload("Children", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order DESC, id ASC")
		}).
		Order("sort_order DESC, id ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetByID 根据 ID 获取分类
func (r *GormCategoryRepository) GetByID(id uint) (*models.Category, error) {
	if id == 0 {
		return nil, errors.New("invalid category id")
	}
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// GetBySlug 根据 slug 获取分类
func (r *GormCategoryRepository) GetBySlug(slug string) (*models.Category, error) {
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return nil, errors.New("invalid category slug")
	}
	var category models.Category
	if err := r.db.Preload("Children").Where("slug = ?", trimmed).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// Create 创建分类
func (r *GormCategoryRepository) Create(category *models.Category) error {
	if category == nil {
		return errors.New("category is nil")
	}
	return r.db.Create(category).Error
}

// CountBySlug 统计 slug 对应的分类数（可排除指定 ID）
func (r *GormCategoryRepository) CountBySlug(slug string, excludeID *uint) (int64, error) {
	query := r.db.Model(&models.Category{}).Where("slug = ?", strings.TrimSpace(slug))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
