package service

import (
	"errors"
	"fmt"
)

// 服务层哨兵错误，handler 通过 errors.Is 映射为响应码
var (
	ErrVariantNotFound   = errors.New("variant not found")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInvalidInput      = errors.New("invalid input")
	ErrConflict          = errors.New("transaction conflict, retry")
	ErrNotFound          = errors.New("not found")
	ErrSlugExists        = errors.New("slug already exists")
	ErrEmailExists       = errors.New("email already exists")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrUserDisabled      = errors.New("user disabled")
)

// InsufficientStockError 库存不足错误（携带可用量供调用方提示）
type InsufficientStockError struct {
	VariantID uint
	Requested int
	Available int
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for variant %d: requested %d, available %d",
		e.VariantID, e.Requested, e.Available)
}

func (e InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
