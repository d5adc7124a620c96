package worker

import (
	"context"
	"errors"
	"time"

	"github.com/vesti-shop/internal/config"
	"github.com/vesti-shop/internal/logger"
	"github.com/vesti-shop/internal/queue"

	"github.com/hibiken/asynq"
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.ReservationService != nil {
		go s.runCartSweepLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runCartSweepLoop 周期扫描过期购物车并投递释放任务
func (s *Service) runCartSweepLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.Config == nil {
		return
	}
	cartCfg := s.consumer.Config.Cart
	if cartCfg.ExpireHours <= 0 {
		logger.Infow("worker_cart_sweep_disabled")
		return
	}
	interval := time.Duration(cartCfg.SweepIntervalMin) * time.Minute
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	runOnce := func() {
		s.sweepStaleCarts(cartCfg.ExpireHours, cartCfg.SweepBatchSize)
	}
	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

func (s *Service) sweepStaleCarts(expireHours, batchSize int) {
	before := time.Now().Add(-time.Duration(expireHours) * time.Hour)
	carts, err := s.consumer.ReservationService.ListStaleCarts(before, batchSize)
	if err != nil {
		logger.Warnw("worker_cart_sweep_list_failed", "error", err)
		return
	}
	for _, cart := range carts {
		payload := queue.CartExpirePayload{CartID: cart.ID, Cutoff: before}
		if s.consumer.QueueClient.Enabled() {
			if err := s.consumer.QueueClient.EnqueueCartExpire(payload); err != nil {
				logger.Warnw("worker_cart_sweep_enqueue_failed", "cart_id", cart.ID, "error", err)
			}
			continue
		}
		if err := s.consumer.ReservationService.ExpireCart(cart.ID, before); err != nil {
			logger.Warnw("worker_cart_sweep_release_failed", "cart_id", cart.ID, "error", err)
		}
	}
	if len(carts) > 0 {
		logger.Infow("worker_cart_sweep_done", "count", len(carts))
	}
}
