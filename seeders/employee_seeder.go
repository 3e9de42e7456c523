package seeders

import (
	"context"
	"fmt"
	"log"

	"calibration-system/pkg/utils"

	"github.com/jackc/pgx/v5/pgxpool"
)

type employeeSeed struct {
	Fio        string
	Login      string
	Password   string
	Pin        string
	Role       string
	Department string
}

var employeeSeeds = []employeeSeed{
	{"Администратор Системы", "admin", "admin12345", "1234", "admin", "Метрология"},
	{"Рахимов Фаррух", "f.rakhimov", "password1", "1111", "technician", "Метрология"},
	{"Каримова Нигора", "n.karimova", "password2", "2222", "employee", "Производство"},
	{"Саидов Далер", "d.saidov", "password3", "3333", "employee", "ОТК"},
}

func seedEmployees(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Создание сотрудников...")

	for _, seed := range employeeSeeds {
		var exists bool
		if err := db.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM employees WHERE login = $1)", seed.Login).Scan(&exists); err != nil {
			return err
		}
		if exists {
			log.Printf("    - Сотрудник '%s' уже существует. Пропускаем.", seed.Login)
			continue
		}

		var departmentID uint64
		if err := db.QueryRow(ctx,
			"SELECT id FROM departments WHERE name = $1", seed.Department).Scan(&departmentID); err != nil {
			return fmt.Errorf("не найден отдел '%s' для сотрудника '%s': %w", seed.Department, seed.Login, err)
		}

		passwordHash, err := utils.HashPassword(seed.Password)
		if err != nil {
			return fmt.Errorf("не удалось захешировать пароль для '%s': %w", seed.Login, err)
		}
		pinHash, err := utils.HashPassword(seed.Pin)
		if err != nil {
			return fmt.Errorf("не удалось захешировать PIN для '%s': %w", seed.Login, err)
		}

		if _, err := db.Exec(ctx, `
			INSERT INTO employees (fio, login, password_hash, pin_hash, role, department_id)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			seed.Fio, seed.Login, passwordHash, pinHash, seed.Role, departmentID); err != nil {
			return fmt.Errorf("не удалось создать сотрудника '%s': %w", seed.Login, err)
		}
		log.Printf("    - Создан сотрудник '%s' (%s).", seed.Fio, seed.Role)
	}
	return nil
}
