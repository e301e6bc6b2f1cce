package main

import (
	"flag"
	"log"

	"inventory-system/pkg/config"
	"inventory-system/pkg/database/postgresql"
)

func main() {
	command := flag.String("command", "up", "команда goose: up, down, reset, status, version")
	dsn := flag.String("dsn", "", "строка подключения (по умолчанию DATABASE_URL)")
	flag.Parse()

	cfg := config.New()
	if *dsn == "" {
		*dsn = cfg.Postgres.DSN
	}

	if err := postgresql.Migrate(*dsn, *command); err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Printf("✅ Миграции: команда %q выполнена", *command)
}
