package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedReferenceData наполняет справочники, не имеющие зависимостей:
// заводы, отделы, локации.
func SeedReferenceData(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Запуск наполнения справочников...")

	if err := seedPlants(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения Заводов: %v", err)
	}
	if err := seedDepartments(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения Отделов: %v", err)
	}
	if err := seedLocations(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения Локаций: %v", err)
	}
	log.Println("✅ Наполнение справочников завершено!")
}

// SeedEmployees создаёт сотрудников с bcrypt-хешами пароля и PIN-кода.
func SeedEmployees(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Запуск создания сотрудников...")

	if err := seedEmployees(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка создания сотрудников: %v", err)
	}
	log.Println("✅ Создание сотрудников завершено!")
}

// SeedEquipment наполняет реестр демонстрационными приборами.
func SeedEquipment(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Запуск наполнения реестра оборудования...")

	if err := seedEquipment(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения оборудования: %v", err)
	}
	log.Println("✅ Наполнение реестра оборудования завершено!")
}
