package worker

import (
	"context"
	"encoding/json"

	"github.com/vesti-shop/internal/logger"
	"github.com/vesti-shop/internal/provider"
	"github.com/vesti-shop/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCartExpire, c.handleCartExpire)
}

func (c *Consumer) handleCartExpire(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_cart_expire_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CartExpirePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_cart_expire_unmarshal_failed", "error", err)
		return err
	}
	if payload.CartID == 0 {
		logger.Debugw("worker_cart_expire_skip_invalid_payload", "cart_id", payload.CartID)
		return nil
	}
	if err := c.ReservationService.ExpireCart(payload.CartID, payload.Cutoff); err != nil {
		logger.Warnw("worker_cart_expire_failed", "cart_id", payload.CartID, "error", err)
		return err
	}
	logger.Infow("worker_cart_expire_released", "cart_id", payload.CartID)
	return nil
}
