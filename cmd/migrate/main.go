package main

import (
	"context"
	"flag"
	"log"
	"time"

	"quiz-sentinel/internal/config"
	"quiz-sentinel/internal/database"
	"quiz-sentinel/internal/logger"

	"go.uber.org/zap"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	dir := flag.String("dir", database.DefaultMigrationsDir, "directory holding the *.up.sql and *.down.sql files")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	dsn := cfg.GetDSN()
	if dsn == "" {
		l.Fatal("No database configured; set DB_HOST, DB_USER, DB_PASSWORD and DB_NAME")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := database.NewSQLXOracleDB(ctx, dsn)
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db, *dir, *direction); err != nil {
		l.Fatal("Failed to run migrations", zap.String("direction", *direction), zap.Error(err))
	}
	l.Info("Migrations applied", zap.String("direction", *direction), zap.String("dir", *dir))
}
