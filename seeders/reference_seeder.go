package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func seedPlants(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение справочника заводов...")
	for _, name := range []string{"Завод №1", "Завод №2"} {
		if _, err := db.Exec(ctx,
			"INSERT INTO plants (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", name); err != nil {
			return fmt.Errorf("не удалось вставить завод '%s': %w", name, err)
		}
	}
	return nil
}

func seedDepartments(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение справочника отделов...")

	var plantID uint64
	if err := db.QueryRow(ctx, "SELECT id FROM plants ORDER BY id LIMIT 1").Scan(&plantID); err != nil {
		return fmt.Errorf("не найден завод для привязки отделов: %w", err)
	}

	for _, name := range []string{"Метрология", "Производство", "ОТК"} {
		if _, err := db.Exec(ctx,
			"INSERT INTO departments (name, plant_id) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING",
			name, plantID); err != nil {
			return fmt.Errorf("не удалось вставить отдел '%s': %w", name, err)
		}
	}
	return nil
}

func seedLocations(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение справочника локаций...")

	var plantID uint64
	if err := db.QueryRow(ctx, "SELECT id FROM plants ORDER BY id LIMIT 1").Scan(&plantID); err != nil {
		return fmt.Errorf("не найден завод для привязки локаций: %w", err)
	}

	for _, name := range []string{"Цех 1", "Цех 2", "Лаборатория"} {
		var exists bool
		if err := db.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM locations WHERE name = $1 AND plant_id = $2)",
			name, plantID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := db.Exec(ctx,
			"INSERT INTO locations (name, plant_id) VALUES ($1, $2)", name, plantID); err != nil {
			return fmt.Errorf("не удалось вставить локацию '%s': %w", name, err)
		}
	}
	return nil
}
