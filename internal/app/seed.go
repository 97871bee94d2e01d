package app

import (
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"go.uber.org/zap"
)

// sampleCatalog is loaded into an empty store so a fresh install has
// something to browse in every category.
func sampleCatalog() []models.Product {
	return []models.Product{
		{
			Name:        "Wireless Bluetooth Headphones",
			Description: "Over-ear headphones with active noise cancellation and 30 hour battery life.",
			Price:       2999,
			Discount:    20,
			Category:    "Electronics",
			Brand:       "SoundMax",
			Images:      []string{"https://images.unsplash.com/photo-1505740420928-5e560c06d30e"},
			Stock:       50,
		},
		{
			Name:        "Smart Fitness Watch",
			Description: "Tracks heart rate, sleep and workouts with a week of battery.",
			Price:       4999,
			Discount:    10,
			Category:    "Electronics",
			Brand:       "FitPulse",
			Images:      []string{"https://images.unsplash.com/photo-1523275335684-37898b6baf30"},
			Stock:       30,
		},
		{
			Name:        "Cotton Crew T-Shirt",
			Description: "Soft breathable cotton tee for everyday wear.",
			Price:       499,
			Discount:    30,
			Category:    "Clothing",
			Brand:       "Basics",
			Images:      []string{"https://images.unsplash.com/photo-1521572163474-6864f9cf17ab"},
			Stock:       100,
		},
		{
			Name:        "Denim Jacket",
			Description: "Classic fit denim jacket with button front.",
			Price:       1999,
			Discount:    25,
			Category:    "Clothing",
			Brand:       "Heritage",
			Images:      []string{"https://images.unsplash.com/photo-1551537482-f2075a1d41f2"},
			Stock:       40,
		},
		{
			Name:        "Stainless Steel Cookware Set",
			Description: "Five piece induction ready pots and pans.",
			Price:       4999,
			Discount:    15,
			Category:    "Home & Kitchen",
			Brand:       "ChefLine",
			Images:      []string{"https://images.unsplash.com/photo-1556911220-bff31c812dba"},
			Stock:       20,
		},
		{
			Name:        "Web Development Guide",
			Description: "A practical introduction to HTML, CSS and JavaScript.",
			Price:       899,
			Category:    "Books",
			Brand:       "TechPress",
			Images:      []string{"https://images.unsplash.com/photo-1532012197267-da84d127e765"},
			Stock:       75,
		},
		{
			Name:        "Leather Wallet",
			Description: "Slim bifold wallet in genuine leather.",
			Price:       799,
			Discount:    5,
			Category:    "Accessories",
			Brand:       "Carry",
			Images:      []string{"https://images.unsplash.com/photo-1627123424574-724758594e93"},
			Stock:       60,
		},
	}
}

// SeedCatalog fills repo with the sample catalog when it holds no products.
// It returns the number of products created.
func SeedCatalog(repo repositories.ProductRepository, log *zap.Logger) (int, error) {
	existing, err := repo.GetAll()
	if err != nil {
		return 0, fmt.Errorf("failed to inspect catalog: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	products := sampleCatalog()
	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			return i, fmt.Errorf("failed to seed product %s: %w", products[i].Name, err)
		}
	}
	log.Info("seeded sample catalog", zap.Int("products", len(products)))
	return len(products), nil
}
