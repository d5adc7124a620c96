package service

import (
	"strings"

	"github.com/vesti-shop/internal/constants"
	"github.com/vesti-shop/internal/models"
	"github.com/vesti-shop/internal/repository"
)

// ProductService 商品服务（目录只读投影）
type ProductService struct {
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository, variantRepo repository.VariantRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		variantRepo: variantRepo,
	}
}

// ProductListResult 商品列表结果
type ProductListResult struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// List 按条件查询商品列表（仅上架商品）
func (s *ProductService) List(filter repository.ProductListFilter) (*ProductListResult, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	filter.OrderBy = normalizeProductOrder(filter.OrderBy)
	filter.OnlyActive = true

	products, total, err := s.productRepo.List(filter)
	if err != nil {
		return nil, err
	}
	return &ProductListResult{
		Products: products,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// GetBySlug 根据 slug 获取商品详情（含规格与图片）
func (s *ProductService) GetBySlug(slug string) (*models.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrInvalidInput
	}
	product, err := s.productRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrNotFound
	}
	return product, nil
}

// GetByID 根据 ID 获取商品详情
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrNotFound
	}
	return product, nil
}

// GetVariant 获取规格详情（含商品信息）
func (s *ProductService) GetVariant(variantID uint) (*models.ProductVariant, error) {
	if variantID == 0 {
		return nil, ErrInvalidInput
	}
	variant, err := s.variantRepo.GetByID(variantID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, ErrVariantNotFound
	}
	return variant, nil
}

// normalizeProductOrder 归一排序参数，非法值回落到最新优先
func normalizeProductOrder(orderBy string) string {
	switch orderBy {
	case constants.ProductOrderPriceAsc,
		constants.ProductOrderPriceDesc,
		constants.ProductOrderCreatedAtAsc,
		constants.ProductOrderCreatedAtDesc:
		return orderBy
	default:
		return constants.ProductOrderCreatedAtDesc
	}
}
