package repository

import "github.com/shopspring/decimal"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page         int
	PageSize     int
	CategorySlug string
	Search       string
	PriceMin     *decimal.Decimal
	PriceMax     *decimal.Decimal
	OrderBy      string
	OnlyActive   bool
}
