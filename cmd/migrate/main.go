package main

import (
	"log"
	"os"

	"cancellation-flow-be/internal/model"
	"cancellation-flow-be/pkg/database"
	"cancellation-flow-be/pkg/flow"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. Pre-Migration: Extensions (Things GORM AutoMigrate doesn't do)
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	models := []interface{}{
		&model.Subscription{},
		&model.Cancellation{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatal("Error: AutoMigrate failed:", err)
	}

	log.Println("✅ Migration complete")

	// 5. Optional local-dev seed: one active subscription for a known user
	if os.Getenv("SEED_DEV_SUBSCRIPTION") == "true" {
		seedDevSubscription(db)
	}
}

func seedDevSubscription(db *gorm.DB) {
	userIDStr := os.Getenv("SEED_USER_ID")
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		userID = uuid.New()
		log.Printf("Info: SEED_USER_ID not set or invalid, generated %s", userID)
	}

	var count int64
	db.Model(&model.Subscription{}).
		Where("user_id = ? AND status = ?", userID, string(flow.SubscriptionActive)).
		Count(&count)
	if count > 0 {
		log.Println("Info: Seed subscription already exists, skipping")
		return
	}

	sub := &model.Subscription{
		UserID:       userID,
		MonthlyPrice: 25.00,
		Status:       string(flow.SubscriptionActive),
	}
	if err := db.Create(sub).Error; err != nil {
		log.Printf("Warn: Failed to seed subscription: %v", err)
		return
	}
	log.Printf("✅ Seeded active subscription %s for user %s", sub.ID, userID)
}
