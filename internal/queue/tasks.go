package queue

import (
	"encoding/json"
	"time"

	"github.com/vesti-shop/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCartExpire 购物车过期释放任务
	TaskCartExpire = constants.TaskCartExpire
)

// CartExpirePayload 购物车过期任务载荷。
// Cutoff 是扫描时的过期线：任务送达时购物车若在该时刻之后又活跃过则不再清理。
type CartExpirePayload struct {
	CartID uint      `json:"cart_id"`
	Cutoff time.Time `json:"cutoff"`
}

// NewCartExpireTask 创建购物车过期任务
func NewCartExpireTask(payload CartExpirePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartExpire, body), nil
}
