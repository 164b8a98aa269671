package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/hanbit-mall/storefront-api/internal/pricing"
	"github.com/hanbit-mall/storefront-api/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := store.RunMigrations(dbURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	pool, err := store.Connect(ctx, dbURL, "storefront-seeder")
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	st := &store.Store{Pool: pool}
	seedProducts(ctx, st)
	seedCoupons(ctx, st)

	log.Println("Seeding completed successfully!")
}

func seedProducts(ctx context.Context, st *store.Store) {
	products := []pricing.Product{
		{
			ID: "p-keyboard", Name: "Mechanical Keyboard", Price: 89_000, Stock: 40,
			Discounts: []pricing.DiscountTier{{Quantity: 5, Rate: 0.05}, {Quantity: 10, Rate: 0.1}},
		},
		{
			ID: "p-mouse", Name: "Wireless Mouse", Price: 35_000, Stock: 120,
			Discounts: []pricing.DiscountTier{{Quantity: 10, Rate: 0.1}},
		},
		{ID: "p-cable", Name: "USB-C Cable", Price: 8_000, Stock: 500},
		{ID: "p-monitor", Name: "27in Monitor", Price: 320_000, Stock: 15},
	}
	for _, product := range products {
		if err := st.CreateProduct(ctx, product); err != nil {
			log.Printf("Skipping product %s: %v", product.ID, err)
		}
	}
}

func seedCoupons(ctx context.Context, st *store.Store) {
	coupons := []pricing.Coupon{
		{Name: "Welcome 5000", Code: "WELCOME5000", DiscountType: pricing.CouponAmount, DiscountValue: 5_000},
		{Name: "Big Spender 10%", Code: "BIG10", DiscountType: pricing.CouponPercentage, DiscountValue: 10},
	}
	for _, coupon := range coupons {
		if err := st.CreateCoupon(ctx, coupon); err != nil {
			log.Printf("Skipping coupon %s: %v", coupon.Code, err)
		}
	}
}
