package public

import (
	"strconv"

	"github.com/vesti-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加购请求
type AddCartItemRequest struct {
	VariantID uint `json:"variant_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// UpdateCartItemRequest 改量请求
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	view, err := h.ReservationService.GetCart(uid)
	if err != nil {
		respondWithMappedError(c, err, cartCommonErrorRules, "获取购物车失败")
		return
	}
	response.Success(c, view)
}

// AddCartItem 加购（预占库存）
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}
	view, err := h.ReservationService.AddItem(uid, req.VariantID, req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartCommonErrorRules, "加入购物车失败")
		return
	}
	response.Success(c, view)
}

// UpdateCartItem 修改购物车项数量（按差额预占/释放库存）
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	variantID, ok := parseVariantID(c)
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}
	view, err := h.ReservationService.UpdateItemQuantity(uid, variantID, req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartCommonErrorRules, "更新购物车失败")
		return
	}
	response.Success(c, view)
}

// RemoveCartItem 移除购物车项（释放库存）
func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	variantID, ok := parseVariantID(c)
	if !ok {
		return
	}
	view, err := h.ReservationService.RemoveItem(uid, variantID)
	if err != nil {
		respondWithMappedError(c, err, cartCommonErrorRules, "移除购物车项失败")
		return
	}
	response.Success(c, view)
}

// ClearCart 清空购物车（释放全部库存）
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	view, err := h.ReservationService.ClearCart(uid)
	if err != nil {
		respondWithMappedError(c, err, cartCommonErrorRules, "清空购物车失败")
		return
	}
	response.Success(c, view)
}

func parseVariantID(c *gin.Context) (uint, bool) {
	raw := c.Param("variant_id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "规格 ID 无效")
		return 0, false
	}
	return uint(id), true
}
