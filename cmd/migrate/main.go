package main

import (
	"log"
	"os"

	"site-content-be/internal/model"
	"site-content-be/pkg/database"

	"github.com/joho/godotenv"
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
	db, err := database.NewGormDBFromDSN(dsn, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. Pre-Migration: gen_random_uuid() lives in pgcrypto on older Postgres
	log.Println("Step 1: Setting up Extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("Warn: Failed to create pgcrypto extension: %v. Continuing...", err)
	}

	// 4. AutoMigrate
	log.Println("Step 2: Running AutoMigrate...")
	models := []interface{}{
		&model.Content{},
		&model.FontDescriptor{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: keep updated_at honest for rows touched outside the app
	log.Println("Step 3: Creating Triggers...")
	postMigrationSQL := []string{
		`CREATE OR REPLACE FUNCTION set_current_timestamp_updated_at() RETURNS trigger LANGUAGE plpgsql AS $$
		BEGIN
		  NEW.updated_at = now();
		  RETURN NEW;
		END; $$;`,
		`DROP TRIGGER IF EXISTS set_contents_updated_at ON contents;`,
		`CREATE TRIGGER set_contents_updated_at BEFORE UPDATE ON contents
		 FOR EACH ROW EXECUTE FUNCTION set_current_timestamp_updated_at();`,
	}
	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
