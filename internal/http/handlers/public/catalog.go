package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/vesti-shop/internal/http/response"
	"github.com/vesti-shop/internal/logger"
	"github.com/vesti-shop/internal/repository"
	"github.com/vesti-shop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ListProducts 商品列表（分类/搜索/价格区间过滤 + 排序 + 分页）
func (h *Handler) ListProducts(c *gin.Context) {
	filter := repository.ProductListFilter{
		Page:         parseIntQuery(c, "page", 1),
		PageSize:     parseIntQuery(c, "page_size", 20),
		CategorySlug: strings.TrimSpace(c.Query("category")),
		Search:       strings.TrimSpace(c.Query("search")),
		OrderBy:      strings.TrimSpace(c.Query("order_by")),
	}
	if raw := strings.TrimSpace(c.Query("price_min")); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil || value.IsNegative() {
			response.BadRequest(c, "最低价格无效")
			return
		}
		filter.PriceMin = &value
	}
	if raw := strings.TrimSpace(c.Query("price_max")); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil || value.IsNegative() {
			response.BadRequest(c, "最高价格无效")
			return
		}
		filter.PriceMax = &value
	}
	if filter.PriceMin != nil && filter.PriceMax != nil && filter.PriceMax.LessThan(*filter.PriceMin) {
		response.BadRequest(c, "价格区间无效")
		return
	}

	result, err := h.ProductService.List(filter)
	if err != nil {
		logger.Errorw("list products failed", "error", err)
		response.Error(c, response.CodeInternal, "获取商品列表失败")
		return
	}
	response.SuccessWithPage(c, result.Products,
		response.NewPagination(result.Page, result.PageSize, result.Total))
}

// GetProduct 商品详情（按 slug）
func (h *Handler) GetProduct(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	product, err := h.ProductService.GetBySlug(slug)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			response.BadRequest(c, "商品标识无效")
		case errors.Is(err, service.ErrNotFound):
			response.NotFound(c, "商品不存在")
		default:
			logger.Errorw("get product failed", "slug", slug, "error", err)
			response.Error(c, response.CodeInternal, "获取商品失败")
		}
		return
	}
	response.Success(c, product)
}

// GetVariant 规格详情（含当前可售库存）
func (h *Handler) GetVariant(c *gin.Context) {
	variantID, ok := parseVariantID(c)
	if !ok {
		return
	}
	variant, err := h.ProductService.GetVariant(variantID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVariantNotFound):
			response.NotFound(c, "商品规格不存在")
		default:
			logger.Errorw("get variant failed", "variant_id", variantID, "error", err)
			response.Error(c, response.CodeInternal, "获取规格失败")
		}
		return
	}
	response.Success(c, variant)
}

// ListCategories 分类树
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.CategoryService.ListTree()
	if err != nil {
		logger.Errorw("list categories failed", "error", err)
		response.Error(c, response.CodeInternal, "获取分类失败")
		return
	}
	response.Success(c, gin.H{"categories": categories})
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
