package public

import (
	"errors"

	"github.com/vesti-shop/internal/http/response"
	"github.com/vesti-shop/internal/logger"
	"github.com/vesti-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

var cartCommonErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: "请求参数无效"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, msg: "数量无效"},
	{target: service.ErrVariantNotFound, code: response.CodeNotFound, msg: "商品规格不存在"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, msg: "购物车中没有该商品"},
	{target: service.ErrConflict, code: response.CodeConflict, msg: "操作冲突，请重试"},
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackMsg string) {
	// 库存不足单独处理，响应里带上剩余可用量
	var stockErr service.InsufficientStockError
	if errors.As(err, &stockErr) {
		response.ErrorWithData(c, response.CodeStockInsufficient, "库存不足", gin.H{
			"variant_id": stockErr.VariantID,
			"requested":  stockErr.Requested,
			"available":  stockErr.Available,
		})
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			response.Error(c, rule.code, rule.msg)
			return
		}
	}
	logger.Errorw(fallbackMsg, "error", err, "path", c.FullPath())
	response.Error(c, response.CodeInternal, fallbackMsg)
}
