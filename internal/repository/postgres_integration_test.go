//go:build integration

package repository

import (
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/vesti-shop/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// 需要真实 Postgres 时运行：
//
//	TEST_POSTGRES_DSN="host=127.0.0.1 user=vesti password=vesti dbname=vesti_test sslmode=disable" \
//	  go test -tags integration ./internal/repository/
func setupPostgresTest(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}
	if err := db.Migrator().DropTable(
		&models.CartItem{}, &models.Cart{}, &models.ProductVariant{},
		&models.ProductImage{}, &models.Product{}, &models.Category{},
	); err != nil {
		t.Fatalf("drop tables failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{}, &models.Product{}, &models.ProductImage{},
		&models.ProductVariant{}, &models.Cart{}, &models.CartItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func seedPostgresVariant(t *testing.T, db *gorm.DB, stock int) models.ProductVariant {
	t.Helper()

	category := models.Category{Name: "上装", Slug: fmt.Sprintf("tops-%d", time.Now().UnixNano())}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	product := models.Product{
		CategoryID: category.ID,
		Slug:       fmt.Sprintf("tee-%d", time.Now().UnixNano()),
		Name:       "测试T恤",
		IsActive:   true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	variant := models.ProductVariant{
		ProductID:     product.ID,
		Size:          "M",
		Color:         "白色",
		Price:         models.NewMoneyFromDecimal(decimal.NewFromInt(79)),
		StockQuantity: stock,
	}
	if err := db.Create(&variant).Error; err != nil {
		t.Fatalf("create variant failed: %v", err)
	}
	return variant
}

// 真并发下行锁 + 守卫更新不超卖
func TestPostgresConcurrentReserveNoOversell(t *testing.T) {
	db := setupPostgresTest(t)
	const stock = 10
	const workers = 40
	variant := seedPostgresVariant(t, db, stock)
	repo := NewVariantRepository(db)

	var wg sync.WaitGroup
	succeeded := make([]bool, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			err := db.Transaction(func(tx *gorm.DB) error {
				txRepo := repo.WithTx(tx)
				if _, err := txRepo.GetByIDForUpdate(variant.ID); err != nil {
					return err
				}
				affected, err := txRepo.ReserveStock(variant.ID, 1)
				if err != nil {
					return err
				}
				if affected == 0 {
					return fmt.Errorf("insufficient")
				}
				return nil
			})
			succeeded[idx] = err == nil
		}(i)
	}
	wg.Wait()

	count := 0
	for _, ok := range succeeded {
		if ok {
			count++
		}
	}
	if count != stock {
		t.Fatalf("successful reservations want %d got %d", stock, count)
	}

	var reloaded models.ProductVariant
	if err := db.First(&reloaded, variant.ID).Error; err != nil {
		t.Fatalf("reload variant failed: %v", err)
	}
	if reloaded.StockQuantity != 0 {
		t.Fatalf("remaining stock want 0 got %d", reloaded.StockQuantity)
	}
}

// 并发建购物车只有一辆车胜出，其余读到同一行
func TestPostgresConcurrentGetOrCreateCart(t *testing.T) {
	db := setupPostgresTest(t)
	repo := NewCartRepository(db)
	const workers = 16
	const userID = 42

	var wg sync.WaitGroup
	ids := make([]uint, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			cart, err := repo.GetOrCreateByUser(userID)
			if err != nil {
				errs[idx] = err
				return
			}
			ids[idx] = cart.ID
		}(i)
	}
	wg.Wait()

	for idx, err := range errs {
		if err != nil {
			t.Fatalf("worker %d failed: %v", idx, err)
		}
	}
	for idx := 1; idx < workers; idx++ {
		if ids[idx] != ids[0] {
			t.Fatalf("all workers should share one cart, got %v", ids)
		}
	}
	var count int64
	if err := db.Model(&models.Cart{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count carts failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("cart rows want 1 got %d", count)
	}
}
