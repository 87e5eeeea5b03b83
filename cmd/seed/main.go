package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/go-identity-service/config"
	"github.com/oksasatya/go-identity-service/pkg/helpers"
)

// Seeds a verified admin account for local development.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := getenvDefault("SEED_ADMIN_EMAIL", "admin@example.com")
	password := getenvDefault("SEED_ADMIN_PASSWORD", "password123")
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, password, first_name, last_name, role, is_verified)
		VALUES ($1, $2, 'Admin', 'User', 'admin', TRUE)
		ON CONFLICT (email) DO UPDATE SET password = EXCLUDED.password, updated_at = NOW()
		RETURNING id
	`, email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s password=%s\n", id, email, password)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
