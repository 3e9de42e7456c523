package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"calibration-system/internal/entities"
	apperrors "calibration-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const employeeTable = "employees"

type EmployeeRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.Employee, error)
	FindByLogin(ctx context.Context, login string) (*entities.Employee, error)
}

type EmployeeRepository struct {
	storage *pgxpool.Pool
}

func NewEmployeeRepository(storage *pgxpool.Pool) EmployeeRepositoryInterface {
	return &EmployeeRepository{storage: storage}
}

func scanEmployee(row pgx.Row) (*entities.Employee, error) {
	var e entities.Employee
	var deptID sql.NullInt64
	var deptName sql.NullString

	err := row.Scan(
		&e.ID, &e.Fio, &e.Login, &e.PasswordHash, &e.PinHash, &e.Role, &e.DepartmentID,
		&e.CreatedAt, &e.UpdatedAt,
		&deptID, &deptName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования employee: %w", err)
	}

	if deptID.Valid {
		e.Department = &entities.Department{ID: uint64(deptID.Int64), Name: deptName.String}
	}
	return &e, nil
}

const employeeSelect = `
	SELECT
		e.id, e.fio, e.login, e.password_hash, e.pin_hash, e.role, e.department_id,
		e.created_at, e.updated_at,
		d.id, d.name
	FROM employees e
	LEFT JOIN departments d ON e.department_id = d.id`

func (r *EmployeeRepository) FindByID(ctx context.Context, id uint64) (*entities.Employee, error) {
	return scanEmployee(r.storage.QueryRow(ctx, employeeSelect+` WHERE e.id = $1`, id))
}

func (r *EmployeeRepository) FindByLogin(ctx context.Context, login string) (*entities.Employee, error) {
	return scanEmployee(r.storage.QueryRow(ctx, employeeSelect+` WHERE e.login = $1`, login))
}
