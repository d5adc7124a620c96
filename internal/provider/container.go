package provider

import (
	"github.com/vesti-shop/internal/cache"
	"github.com/vesti-shop/internal/config"
	"github.com/vesti-shop/internal/logger"
	"github.com/vesti-shop/internal/models"
	"github.com/vesti-shop/internal/queue"
	"github.com/vesti-shop/internal/repository"
	"github.com/vesti-shop/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo     repository.UserRepository
	CategoryRepo repository.CategoryRepository
	ProductRepo  repository.ProductRepository
	VariantRepo  repository.VariantRepository
	CartRepo     repository.CartRepository

	// Services
	UserAuthService    *service.UserAuthService
	ProductService     *service.ProductService
	CategoryService    *service.CategoryService
	ReservationService *service.ReservationService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.VariantRepo = repository.NewVariantRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
}

func (c *Container) initServices() {
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.VariantRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ReservationService = service.NewReservationService(c.VariantRepo, c.CartRepo, c.Config.Cart.MaxQuantityPerItem)
}
