package main

import (
	"log"

	"docchat-client/internal/config"
	"docchat-client/internal/model"
	"docchat-client/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.State.DSN == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewVerboseGormDBFromDSN(cfg.State.DSN)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Running AutoMigrate for client state tables...")

	models := []interface{}{
		&model.ClientState{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("✅ Migration complete")
}
