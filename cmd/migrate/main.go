package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	dir := flag.String("dir", "migrations", "migrations directory")
	command := flag.String("command", "up", "goose command: up, down, status, version")
	flag.Parse()

	_ = godotenv.Load()
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	conn, err := sql.Open("pgx", databaseURL)
	if err != nil {
		logger.Error("database open failed", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		logger.Error("goose dialect failed", "error", err)
		os.Exit(1)
	}

	if err := goose.RunContext(context.Background(), *command, conn, *dir); err != nil {
		logger.Error("migration failed", "command", *command, "error", err)
		os.Exit(1)
	}
	logger.Info("migration complete", "command", *command)
}
