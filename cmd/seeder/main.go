// cmd/seeder/main.go
package main

import (
	"context"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"freshcart/internal/pkg/bootstrap"
	"freshcart/internal/pkg/logger"
	"freshcart/internal/service/catalog/domain"
	"freshcart/internal/service/catalog/infrastructure"
)

// seedItem 是内置的演示商品数据。
type seedItem struct {
	name        string
	category    domain.Category
	price       float64
	stock       int
	description string
}

var seedItems = []seedItem{
	{"Fresh Apple", domain.CategoryFruit, 2.50, 50, "Crispy and sweet red apples"},
	{"Ripe Banana", domain.CategoryFruit, 1.20, 30, "Sweet and creamy bananas"},
	{"Organic Carrot", domain.CategoryVegetable, 1.80, 25, "Fresh organic carrots"},
	{"Chicken Breast", domain.CategoryNonVeg, 8.99, 15, "Premium quality chicken breast"},
	{"Whole Wheat Bread", domain.CategoryBreads, 2.99, 20, "Fresh whole wheat bread"},
	{"Fresh Tomato", domain.CategoryVegetable, 3.50, 40, "Juicy red tomatoes"},
	{"Orange", domain.CategoryFruit, 3.00, 35, "Fresh juicy oranges"},
	{"Broccoli", domain.CategoryVegetable, 2.20, 28, "Fresh green broccoli"},
	{"Salmon Fillet", domain.CategoryNonVeg, 12.99, 12, "Premium Atlantic salmon"},
	{"Sourdough Bread", domain.CategoryBreads, 3.49, 18, "Artisan sourdough bread"},
}

// main 建表并写入演示商品。重复执行会先清空 items 表，适合本地联调。
func main() {
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()
	log := logger.Logger()

	db, err := gorm.Open(mysql.Open(cfg.Infra.Mysql.DSN), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mysql")
	}
	if err := db.AutoMigrate(&infrastructure.ItemModel{}); err != nil {
		log.Fatal().Err(err).Msg("failed to run auto migration")
	}

	if err := db.Exec("DELETE FROM items").Error; err != nil {
		log.Fatal().Err(err).Msg("failed to clear items table")
	}

	ctx := context.Background()
	repo := infrastructure.NewGormItemRepository(db)
	for _, s := range seedItems {
		item, err := domain.NewItem(s.name, s.category, s.price, s.stock)
		if err != nil {
			log.Fatal().Err(err).Str("name", s.name).Msg("invalid seed item")
		}
		item.Description = s.description
		if err := repo.Save(ctx, item); err != nil {
			log.Fatal().Err(err).Str("name", s.name).Msg("failed to save seed item")
		}
		log.Info().Str("item_id", item.ID).Str("name", item.Name).Int("stock", item.Stock).Msg("seeded item")
	}
	log.Info().Int("count", len(seedItems)).Msg("seeding complete")
}
