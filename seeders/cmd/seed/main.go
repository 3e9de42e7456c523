package main

import (
	"flag"
	"log"

	"calibration-system/pkg/config"
	"calibration-system/pkg/database/postgresql"
	"calibration-system/seeders"

	"github.com/joho/godotenv"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runReference := flag.Bool("reference", false, "Наполнить справочники (заводы, отделы, локации)")
	runEmployees := flag.Bool("employees", false, "Создать сотрудников с паролями и PIN-кодами")
	runEquipment := flag.Bool("equipment", false, "Наполнить реестр оборудования")
	runAll := flag.Bool("all", false, "Запустить все сидеры")

	flag.Parse()

	if !*runReference && !*runEmployees && !*runEquipment && !*runAll {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("Использование: go run ./seeders/cmd/seed -all")
		flag.PrintDefaults()
		return
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or could not be loaded.")
	}
	cfg := config.New()
	db := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer db.Close()

	if *runAll || *runReference {
		seeders.SeedReferenceData(db)
	}
	if *runAll || *runEmployees {
		seeders.SeedEmployees(db)
	}
	if *runAll || *runEquipment {
		seeders.SeedEquipment(db)
	}

	log.Println("🎉 Готово.")
}
