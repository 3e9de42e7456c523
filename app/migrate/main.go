package main

import (
	"flag"
	"log"

	"calibration-system/pkg/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or could not be loaded.")
	}

	dir := flag.String("dir", "migrations", "каталог с миграциями")
	command := flag.String("command", "up", "команда goose: up, down, status, version")
	flag.Parse()

	cfg := config.New()

	db, err := goose.OpenDBWithDriver("pgx", cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("не удалось открыть соединение с БД: %v", err)
	}
	defer db.Close()

	if err := goose.Run(*command, db, *dir); err != nil {
		log.Fatalf("ошибка выполнения миграций (%s): %v", *command, err)
	}
	log.Printf("миграции выполнены: %s", *command)
}
