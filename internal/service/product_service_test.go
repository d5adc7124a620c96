package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/vesti-shop/internal/models"
	"github.com/vesti-shop/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCatalogServiceTest(t *testing.T) (*ProductService, *CategoryService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:catalog_svc_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{}, &models.Product{}, &models.ProductImage{}, &models.ProductVariant{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	productSvc := NewProductService(repository.NewProductRepository(db), repository.NewVariantRepository(db))
	categorySvc := NewCategoryService(repository.NewCategoryRepository(db))
	return productSvc, categorySvc, db
}

func seedCatalogProduct(t *testing.T, db *gorm.DB, slug string, active bool) models.Product {
	t.Helper()

	category := models.Category{Name: "上装", Slug: fmt.Sprintf("tops-%d", time.Now().UnixNano())}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	product := models.Product{
		CategoryID: category.ID,
		Slug:       slug,
		Name:       "白色T恤",
		IsActive:   active,
		Variants: []models.ProductVariant{
			{Size: "M", Color: "白色", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(79)), StockQuantity: 10},
		},
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestProductListClampsPagination(t *testing.T) {
	productSvc, _, db := setupCatalogServiceTest(t)
	seedCatalogProduct(t, db, "classic-cotton-tee", true)

	result, err := productSvc.List(repository.ProductListFilter{Page: -1, PageSize: 9999})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if result.Page != 1 || result.PageSize != 20 {
		t.Fatalf("pagination should be clamped, got page %d size %d", result.Page, result.PageSize)
	}
	if result.Total != 1 {
		t.Fatalf("total want 1 got %d", result.Total)
	}
}

func TestProductListHidesInactive(t *testing.T) {
	productSvc, _, db := setupCatalogServiceTest(t)
	seedCatalogProduct(t, db, "active-tee", true)
	seedCatalogProduct(t, db, "retired-tee", false)

	result, err := productSvc.List(repository.ProductListFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if result.Total != 1 || result.Products[0].Slug != "active-tee" {
		t.Fatalf("only active products should list: %+v", result)
	}
}

func TestProductGetBySlug(t *testing.T) {
	productSvc, _, db := setupCatalogServiceTest(t)
	seedCatalogProduct(t, db, "classic-cotton-tee", true)
	seedCatalogProduct(t, db, "retired-tee", false)

	product, err := productSvc.GetBySlug("classic-cotton-tee")
	if err != nil {
		t.Fatalf("get by slug failed: %v", err)
	}
	if len(product.Variants) != 1 {
		t.Fatalf("variants should be preloaded: %+v", product)
	}

	if _, err := productSvc.GetBySlug("retired-tee"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("inactive product should be hidden, got %v", err)
	}
	if _, err := productSvc.GetBySlug("no-such"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing slug should be not found, got %v", err)
	}
	if _, err := productSvc.GetBySlug("  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank slug should be invalid input, got %v", err)
	}
}

func TestProductGetVariant(t *testing.T) {
	productSvc, _, db := setupCatalogServiceTest(t)
	product := seedCatalogProduct(t, db, "classic-cotton-tee", true)

	variant, err := productSvc.GetVariant(product.Variants[0].ID)
	if err != nil {
		t.Fatalf("get variant failed: %v", err)
	}
	if variant.ProductID != product.ID {
		t.Fatalf("unexpected variant: %+v", variant)
	}

	if _, err := productSvc.GetVariant(99999); !errors.Is(err, ErrVariantNotFound) {
		t.Fatalf("expected variant not found, got %v", err)
	}
	if _, err := productSvc.GetVariant(0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero id should be invalid input, got %v", err)
	}
}

func TestCategoryListTree(t *testing.T) {
	_, categorySvc, db := setupCatalogServiceTest(t)

	root := models.Category{Name: "上装", Slug: "tops", SortOrder: 10}
	if err := db.Create(&root).Error; err != nil {
		t.Fatalf("create root failed: %v", err)
	}
	child := models.Category{Name: "T恤", Slug: "t-shirts", ParentID: &root.ID}
	if err := db.Create(&child).Error; err != nil {
		t.Fatalf("create child failed: %v", err)
	}

	tree, err := categorySvc.ListTree()
	if err != nil {
		t.Fatalf("list tree failed: %v", err)
	}
	if len(tree) != 1 {
		t.Fatalf("want 1 root got %d", len(tree))
	}
	if len(tree[0].Children) != 1 || tree[0].Children[0].Slug != "t-shirts" {
		t.Fatalf("children should be nested: %+v", tree[0])
	}
}

func TestCategoryCreateDuplicateSlug(t *testing.T) {
	_, categorySvc, _ := setupCatalogServiceTest(t)

	if err := categorySvc.Create(&models.Category{Name: "上装", Slug: "tops"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	err := categorySvc.Create(&models.Category{Name: "上装2", Slug: "tops"})
	if !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected slug exists, got %v", err)
	}

	if err := categorySvc.Create(&models.Category{Name: "", Slug: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank name should be invalid, got %v", err)
	}
}

func TestCategoryGetBySlug(t *testing.T) {
	_, categorySvc, db := setupCatalogServiceTest(t)

	if err := db.Create(&models.Category{Name: "鞋履", Slug: "shoes"}).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	category, err := categorySvc.GetBySlug("shoes")
	if err != nil {
		t.Fatalf("get by slug failed: %v", err)
	}
	if category.Name != "鞋履" {
		t.Fatalf("unexpected category: %+v", category)
	}
	if _, err := categorySvc.GetBySlug("no-such"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
