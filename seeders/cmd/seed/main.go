package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"inventory-system/pkg/config"
	"inventory-system/pkg/database/postgresql"
	"inventory-system/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runDemo := flag.Bool("demo", false, "Наполнить базу демонстрационными сотрудниками, оборудованием и закреплениями")
	runReset := flag.Bool("reset", false, "Очистить таблицы перед наполнением")
	importPath := flag.String("import", "", "Загрузить оборудование из xlsx (формат отчёта \"Donanım Listesi\")")
	flag.Parse()

	if !*runDemo && !*runReset && *importPath == "" {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed -demo")
		log.Println("  go run ./seeders/cmd/seed -reset -demo")
		log.Println("  go run ./seeders/cmd/seed -import donanim_listesi.xlsx")
		log.Println("======================================================")
		return
	}

	ctx := context.Background()
	cfg := config.New()
	logger := zap.NewNop()

	dbPool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer dbPool.Close()

	if *runReset {
		if err := seeders.Truncate(ctx, dbPool); err != nil {
			log.Fatalf("❌ Ошибка очистки таблиц: %v", err)
		}
	}
	if *runDemo {
		if err := seeders.SeedDemo(ctx, dbPool, cfg, logger); err != nil {
			log.Fatalf("❌ Ошибка наполнения демо-данными: %v", err)
		}
	}

	if *importPath != "" {
		res, err := seeders.ImportEquipment(ctx, dbPool, cfg, *importPath, logger)
		if err != nil {
			log.Fatalf("❌ Ошибка импорта: %v", err)
		}
		log.Printf("  - Добавлено: %d, пропущено: %d", res.Created, res.Failed)
		for _, msg := range append(res.Errors, res.Warnings...) {
			log.Printf("    %s", msg)
		}
	}

	log.Println("✅ Все указанные операции сидирования успешно завершены.")
	log.Println("======================================================")
}
