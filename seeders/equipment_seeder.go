package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

type equipmentSeed struct {
	RecallNumber string
	SerialNumber string
	Description  string
	Manufacturer string
	Model        string
}

var equipmentSeeds = []equipmentSeed{
	{"CAL-2025-00101", "SN-74012", "Манометр образцовый", "WIKA", "CPG1500"},
	{"CAL-2025-00102", "SN-83566", "Термометр цифровой", "Fluke", "1523"},
	{"CAL-2025-00103", "SN-90217", "Калибратор давления", "Additel", "ADT761"},
}

func seedEquipment(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Создание демонстрационного оборудования...")

	for _, seed := range equipmentSeeds {
		var exists bool
		if err := db.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM equipment WHERE recall_number = $1)", seed.RecallNumber).Scan(&exists); err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := db.Exec(ctx, `
			INSERT INTO equipment (recall_number, serial_number, description, manufacturer, model, status)
			VALUES ($1, $2, $3, $4, $5, 'active')`,
			seed.RecallNumber, seed.SerialNumber, seed.Description, seed.Manufacturer, seed.Model); err != nil {
			return fmt.Errorf("не удалось создать оборудование '%s': %w", seed.RecallNumber, err)
		}
		log.Printf("    - Создано оборудование '%s'.", seed.RecallNumber)
	}
	return nil
}
