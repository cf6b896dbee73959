// Seeds a local database with one user per role so the API is usable right
// after migrations. Idempotent: existing emails are left alone.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/costtrak/api/internal/auth"
	"github.com/costtrak/api/internal/db"
)

type seedUser struct {
	email    string
	fullName string
	role     string
}

var seedUsers = []seedUser{
	{"controller@costtrak.local", "Casey Controller", "controller"},
	{"executive@costtrak.local", "Evan Executive", "executive"},
	{"ops@costtrak.local", "Olivia Ops", "ops_manager"},
	{"pm@costtrak.local", "Pat Manager", "project_manager"},
	{"accounting@costtrak.local", "Alex Accounting", "accounting"},
	{"viewer@costtrak.local", "Val Viewer", "viewer"},
}

const insertUser = `
INSERT INTO users (email, full_name, password_hash, role)
VALUES ($1, $2, $3, $4)
ON CONFLICT (email) DO NOTHING
`

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	_ = godotenv.Load()
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "costtrak-dev"
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, databaseURL)
	if err != nil {
		logger.Error("database connect failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	hash, err := auth.HashPassword(password)
	if err != nil {
		logger.Error("password hash failed", "error", err)
		os.Exit(1)
	}

	for _, u := range seedUsers {
		tag, err := pool.Exec(ctx, insertUser, u.email, u.fullName, hash, u.role)
		if err != nil {
			logger.Error("seed insert failed", "email", u.email, "error", err)
			os.Exit(1)
		}
		logger.Info("seed user", "email", u.email, "role", u.role, "created", tag.RowsAffected() > 0)
	}
}
