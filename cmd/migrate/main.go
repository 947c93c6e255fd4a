package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"bookcatalog/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

func main() {
	command := flag.String("command", "up", "Migration command: up, down, status, version")
	flag.Parse()

	config.LoadEnvFiles()
	dsn := databaseDSN()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database (%s): %v", config.RedactDSN(dsn), err)
	}
	defer pool.Close()

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	baseFS, dir := migrationSource()
	goose.SetBaseFS(baseFS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("Failed to set dialect: %v", err)
	}

	switch *command {
	case "up":
		if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		fmt.Println("Migrations applied successfully")
	case "down":
		if err := goose.DownContext(ctx, sqlDB, dir); err != nil {
			log.Fatalf("Failed to rollback migrations: %v", err)
		}
		fmt.Println("Migrations rolled back successfully")
	case "status":
		if err := goose.StatusContext(ctx, sqlDB, dir); err != nil {
			log.Fatalf("Failed to check migration status: %v", err)
		}
	case "version":
		if err := goose.VersionContext(ctx, sqlDB, dir); err != nil {
			log.Fatalf("Failed to read migration version: %v", err)
		}
	default:
		log.Fatalf("Unknown command: %s. Use: up, down, status, version", *command)
	}
}
