// cmd/migrate/main.go
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"juros-justos/internal/app"
	"juros-justos/internal/config"
	"juros-justos/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Usage: migrate [up|down|status|version|redo|reset]; defaults to up.
func main() {
	cfg := config.MustLoad()
	app.NewLogger(cfg.LogLevel)

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	db, err := sql.Open("pgx", cfg.DBConn)
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		slog.Error("Failed to set goose dialect", "error", err)
		os.Exit(1)
	}

	slog.Info("Running migrations", "command", command)
	if err := goose.RunContext(context.Background(), command, db, ".", os.Args[min(len(os.Args), 2):]...); err != nil {
		slog.Error("Migration failed", "command", command, "error", err)
		os.Exit(1)
	}
	slog.Info("✅ Migrations done", "command", command)
}
