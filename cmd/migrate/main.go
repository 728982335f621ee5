// Command migrate creates the database when missing and applies the schema.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"studentvoice/internal/config"
	"studentvoice/internal/database"
	"studentvoice/internal/middleware"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	skipCreate := flag.Bool("skip-create", false, "do not create the database when it is missing")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	middleware.Configure(cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if !*skipCreate {
		created, err := database.EnsureDatabase(ctx, cfg)
		if err != nil {
			return fmt.Errorf("ensure database: %w", err)
		}
		if created {
			log.Printf("created database %q", cfg.DBName)
		}
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	// Connect only migrates outside production.
	if cfg.IsProduction() {
		if err := database.Migrate(db.WithContext(ctx)); err != nil {
			return err
		}
	}
	log.Println("schema up to date")
	return nil
}
