package main

import (
	"log"
	"os"

	"estate-listing-be/internal/model"
	"estate-listing-be/pkg/database"
	"estate-listing-be/pkg/richtext"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, os.Getenv("GO_ENV") == "production")
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Step 1: Setting up extensions...")
	// gen_random_uuid() lives in pgcrypto before postgres 13.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("Warn: Failed to create pgcrypto extension: %v. Continuing...", err)
	}

	log.Println("Step 2: Running AutoMigrate...")
	if err := db.AutoMigrate(&model.Listing{}); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("Step 3: Backfilling empty descriptions...")
	res := db.Exec(`UPDATE listings SET description = ? WHERE description = ''`, richtext.MustSerialize(richtext.NewDocument()))
	if res.Error != nil {
		log.Fatalf("Error: Backfill failed: %v", res.Error)
	}
	log.Printf("Migration complete (%d descriptions backfilled)", res.RowsAffected)
}
