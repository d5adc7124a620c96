package service

import (
	"context"
	"strings"
	"time"

	"github.com/vesti-shop/internal/cache"
	"github.com/vesti-shop/internal/logger"
	"github.com/vesti-shop/internal/models"
	"github.com/vesti-shop/internal/repository"
)

const (
	categoryTreeCacheKey = "catalog:category_tree"
	categoryTreeCacheTTL = 5 * time.Minute
)

// CategoryService 分类服务
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// ListTree 获取分类树（顶级分类及其子分类），带短时缓存
func (s *CategoryService) ListTree() ([]models.Category, error) {
	ctx := context.Background()
	var cached []models.Category
	if hit, err := cache.GetJSON(ctx, categoryTreeCacheKey, &cached); err != nil {
		logger.Warnw("read category tree cache failed", "error", err)
	} else if hit {
		return cached, nil
	}

	categories, err := s.categoryRepo.ListRoots()
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, categoryTreeCacheKey, categories, categoryTreeCacheTTL); err != nil {
		logger.Warnw("write category tree cache failed", "error", err)
	}
	return categories, nil
}

// GetBySlug 根据 slug 获取分类
func (s *CategoryService) GetBySlug(slug string) (*models.Category, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrInvalidInput
	}
	category, err := s.categoryRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	return category, nil
}

// Create 创建分类（slug 唯一），成功后失效分类树缓存
func (s *CategoryService) Create(category *models.Category) error {
	if category == nil || strings.TrimSpace(category.Name) == "" || strings.TrimSpace(category.Slug) == "" {
		return ErrInvalidInput
	}
	count, err := s.categoryRepo.CountBySlug(category.Slug, nil)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugExists
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return err
	}
	if err := cache.Del(context.Background(), categoryTreeCacheKey); err != nil {
		logger.Warnw("invalidate category tree cache failed", "error", err)
	}
	return nil
}
