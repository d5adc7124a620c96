package main

import (
	"github.com/vesti-shop/internal/config"
	"github.com/vesti-shop/internal/constants"
	"github.com/vesti-shop/internal/logger"
	"github.com/vesti-shop/internal/models"

	"golang.org/x/crypto/bcrypt"
)

type variantSeed struct {
	Size  string
	Color string
	Price string
	Stock int
}

type productSeed struct {
	CategorySlug string
	Slug         string
	Name         string
	Description  string
	Images       []string
	Variants     []variantSeed
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	// 根分类 + 子分类
	roots := []models.Category{
		{Name: "上装", Slug: "tops", SortOrder: 1},
		{Name: "下装", Slug: "bottoms", SortOrder: 2},
		{Name: "鞋履", Slug: "shoes", SortOrder: 3},
	}
	for i := range roots {
		seedCategory(stdLog, &roots[i])
	}
	children := []models.Category{
		{Name: "T恤", Slug: "t-shirts", ParentID: &roots[0].ID, SortOrder: 1},
		{Name: "卫衣", Slug: "hoodies", ParentID: &roots[0].ID, SortOrder: 2},
		{Name: "牛仔裤", Slug: "jeans", ParentID: &roots[1].ID, SortOrder: 1},
		{Name: "运动鞋", Slug: "sneakers", ParentID: &roots[2].ID, SortOrder: 1},
	}
	for i := range children {
		seedCategory(stdLog, &children[i])
	}

	products := []productSeed{
		{
			CategorySlug: "t-shirts",
			Slug:         "classic-cotton-tee",
			Name:         "经典纯棉T恤",
			Description:  "100% 纯棉，基础版型，四色可选。",
			Images:       []string{"/media/products/classic-cotton-tee-1.jpg", "/media/products/classic-cotton-tee-2.jpg"},
			Variants: []variantSeed{
				{Size: "S", Color: "白色", Price: "79.00", Stock: 50},
				{Size: "M", Color: "白色", Price: "79.00", Stock: 80},
				{Size: "L", Color: "白色", Price: "79.00", Stock: 60},
				{Size: "M", Color: "黑色", Price: "79.00", Stock: 70},
				{Size: "L", Color: "黑色", Price: "79.00", Stock: 40},
			},
		},
		{
			CategorySlug: "hoodies",
			Slug:         "oversized-fleece-hoodie",
			Name:         "宽松加绒卫衣",
			Description:  "秋冬加绒款，落肩剪裁。",
			Images:       []string{"/media/products/oversized-fleece-hoodie-1.jpg"},
			Variants: []variantSeed{
				{Size: "M", Color: "灰色", Price: "199.00", Stock: 30},
				{Size: "L", Color: "灰色", Price: "199.00", Stock: 25},
				{Size: "XL", Color: "藏青", Price: "209.00", Stock: 15},
			},
		},
		{
			CategorySlug: "jeans",
			Slug:         "straight-fit-jeans",
			Name:         "直筒牛仔裤",
			Description:  "经典直筒版型，水洗蓝。",
			Images:       []string{"/media/products/straight-fit-jeans-1.jpg"},
			Variants: []variantSeed{
				{Size: "30", Color: "浅蓝", Price: "259.00", Stock: 20},
				{Size: "32", Color: "浅蓝", Price: "259.00", Stock: 35},
				{Size: "34", Color: "深蓝", Price: "269.00", Stock: 10},
			},
		},
		{
			CategorySlug: "sneakers",
			Slug:         "canvas-low-top",
			Name:         "帆布低帮板鞋",
			Description:  "硫化工艺帆布鞋，日常百搭。",
			Images:       []string{"/media/products/canvas-low-top-1.jpg"},
			Variants: []variantSeed{
				{Size: "40", Color: "米白", Price: "329.00", Stock: 12},
				{Size: "41", Color: "米白", Price: "329.00", Stock: 18},
				{Size: "42", Color: "黑色", Price: "329.00", Stock: 8},
				{Size: "43", Color: "黑色", Price: "329.00", Stock: 2},
			},
		},
	}

	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Find(&categoryList).Error; err != nil {
		stdLog.Fatalf("加载分类失败: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}

	for _, seed := range products {
		seedProduct(stdLog, seed, categoryIDs)
	}

	seedUser(stdLog, "demo@vesti.shop", "demo-password", "演示用户")

	stdLog.Printf("数据初始化完成")
}

func seedUser(stdLog interface{ Printf(string, ...interface{}) }, email, password, displayName string) {
	var existing models.User
	if err := models.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		stdLog.Printf("用户已存在: %s", email)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Printf("生成密码哈希失败: %v", err)
		return
	}
	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Status:       constants.UserStatusActive,
	}
	if err := models.DB.Create(&user).Error; err != nil {
		stdLog.Printf("创建用户 %s 失败: %v", email, err)
		return
	}
	stdLog.Printf("创建用户: %s", email)
}

func seedCategory(stdLog interface{ Printf(string, ...interface{}) }, cat *models.Category) {
	var existing models.Category
	if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err == nil {
		*cat = existing
		stdLog.Printf("分类已存在: %s", cat.Slug)
		return
	}
	if err := models.DB.Create(cat).Error; err != nil {
		stdLog.Printf("创建分类 %s 失败: %v", cat.Slug, err)
		return
	}
	stdLog.Printf("创建分类: %s", cat.Slug)
}

func seedProduct(stdLog interface{ Printf(string, ...interface{}) }, seed productSeed, categoryIDs map[string]uint) {
	categoryID, ok := categoryIDs[seed.CategorySlug]
	if !ok {
		stdLog.Printf("跳过商品 %s: 分类 %s 不存在", seed.Slug, seed.CategorySlug)
		return
	}

	var existing models.Product
	if err := models.DB.Where("slug = ?", seed.Slug).First(&existing).Error; err == nil {
		stdLog.Printf("商品已存在: %s", seed.Slug)
		return
	}

	product := models.Product{
		CategoryID:  categoryID,
		Slug:        seed.Slug,
		Name:        seed.Name,
		Description: seed.Description,
		IsActive:    true,
	}
	for _, path := range seed.Images {
		product.Images = append(product.Images, models.ProductImage{Path: path})
	}
	for _, v := range seed.Variants {
		price, err := models.NewMoneyFromString(v.Price)
		if err != nil {
			stdLog.Printf("商品 %s 的价格 %s 无效: %v", seed.Slug, v.Price, err)
			return
		}
		product.Variants = append(product.Variants, models.ProductVariant{
			Size:          v.Size,
			Color:         v.Color,
			Price:         price,
			StockQuantity: v.Stock,
		})
	}

	if err := models.DB.Create(&product).Error; err != nil {
		stdLog.Printf("创建商品 %s 失败: %v", seed.Slug, err)
		return
	}
	stdLog.Printf("创建商品: %s（%d 个规格）", seed.Slug, len(product.Variants))
}
